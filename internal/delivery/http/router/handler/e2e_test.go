package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"senghor/config"
	deliverymiddleware "senghor/internal/delivery/http/middleware"
	"senghor/internal/delivery/http/router"
	"senghor/internal/delivery/http/router/handler"
	"senghor/internal/delivery/http/validator"
	"senghor/internal/domain/entity"
	"senghor/internal/domain/repository"
	"senghor/internal/domain/service"
	"senghor/internal/infra/auth"
	mockRepo "senghor/internal/mocks/repository"
	"senghor/internal/usecase/impl"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "e2e_test_secret_key_long_enough"

// fakeUserRepo is an in-memory UserRepository for end-to-end handler tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) add(user *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *fakeUserRepo) get(id uuid.UUID) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.users[id]
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user

	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context, _ repository.UserFilter) ([]*entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*entity.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		users = append(users, &clone)
	}

	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	user.ID = uuid.New()
	clone := *user
	r.add(&clone)

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, id uuid.UUID, patch *repository.UserPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.City != nil {
		user.City = *patch.City
	}
	if patch.Active != nil {
		user.Active = *patch.Active
	}
	if patch.EmailVerified != nil {
		user.EmailVerified = *patch.EmailVerified
	}

	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)

	return nil
}

func (r *fakeUserRepo) SetRoles(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _ uuid.UUID) error {
	return nil
}

func (r *fakeUserRepo) RecordLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		user.LastLoginAt = &at
	}

	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = hash

	return nil
}

func (r *fakeUserRepo) Anonymize(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Active = false
	user.PasswordHash = ""

	return nil
}

type testEnv struct {
	server   *echo.Echo
	userRepo *fakeUserRepo
	tokenSvc service.TokenService
	hasher   service.PasswordHasher
}

// newTestEnv wires the real router, middleware and auth services over the
// in-memory repository.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{
		SecretKey:                testSecret,
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 5,
		RefreshTokenExpireDays:   1,
	}
	cfg.Auth = &config.AuthConfig{BcryptCost: 4}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	hasher := auth.NewBcryptHasher(cfg)
	userRepo := newFakeUserRepo()

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenSvc,
		Logger:       logger,
	})
	userAdminUC := impl.NewUserAdminService(impl.UserAdminServiceParams{
		TxManager: &mockRepo.MockTransactionManager{},
		UserRepo:  userRepo,
		Hasher:    hasher,
		Logger:    logger,
	})
	roleAdminUC := impl.NewRoleAdminService(impl.RoleAdminServiceParams{
		TxManager: &mockRepo.MockTransactionManager{},
		RoleRepo:  &mockRepo.MockRoleRepository{},
		Logger:    logger,
	})
	permAdminUC := impl.NewPermissionAdminService(impl.PermissionAdminServiceParams{
		TxManager: &mockRepo.MockTransactionManager{},
		PermRepo:  &mockRepo.MockPermissionRepository{},
		RoleRepo:  &mockRepo.MockRoleRepository{},
		Logger:    logger,
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = deliverymiddleware.NewErrorMiddleware(logger).HandleHTTPError

	r := router.NewRouter(router.RouterParams{
		AuthHandler:       handler.NewAuthHandler(authUC, logger),
		UserAdminHandler:  handler.NewUserAdminHandler(userAdminUC, logger),
		RoleAdminHandler:  handler.NewRoleAdminHandler(roleAdminUC, logger),
		PermAdminHandler:  handler.NewPermissionAdminHandler(permAdminUC, logger),
		AuthMiddleware:    deliverymiddleware.NewAuthMiddleware(tokenSvc, userRepo),
		RequestMiddleware: deliverymiddleware.NewRequestIDMiddleware(logger),
	})
	r.RegisterRoutes(e)

	return &testEnv{
		server:   e,
		userRepo: userRepo,
		tokenSvc: tokenSvc,
		hasher:   hasher,
	}
}

// seedUser creates an active account with the given password and roles.
func (env *testEnv) seedUser(t *testing.T, email, password string, roles ...entity.Role) *entity.User {
	t.Helper()

	hash, err := env.hasher.Hash(password)
	require.NoError(t, err)

	user := &entity.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		LastName:     "Diop",
		FirstName:    "Marie",
		Active:       true,
		Roles:        roles,
	}
	env.userRepo.add(user)

	return user
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	return rec
}

func formLogin(username, password string) *http.Request {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return req
}

// tokensFrom extracts the token pair from a successful response envelope.
func tokensFrom(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()

	var envelope struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			TokenType    string `json:"token_type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "bearer", envelope.Data.TokenType)

	return envelope.Data.AccessToken, envelope.Data.RefreshToken
}

func TestLogin_FormSuccess_RecordsLastLogin(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "marie@example.sn", "secret123")

	rec := env.do(formLogin("marie@example.sn", "secret123"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	access, refresh := tokensFrom(t, rec)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)
	assert.NotNil(t, env.userRepo.get(user.ID).LastLoginAt)
}

func TestLogin_JSONSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "marie@example.sn", "secret123")

	rec := env.do(jsonRequest(http.MethodPost, "/api/auth/login/json",
		`{"email":"marie@example.sn","password":"secret123"}`))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLogin_WrongPassword_UniformError(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "marie@example.sn", "secret123")

	rec := env.do(formLogin("marie@example.sn", "wrong-password"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
	assert.Nil(t, env.userRepo.get(user.ID).LastLoginAt)
}

func TestLogin_UnknownEmail_SameErrorAsWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(formLogin("nobody@example.sn", "whatever"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}

func TestLogin_DisabledAccount(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "marie@example.sn", "secret123")
	env.userRepo.get(user.ID).Active = false

	rec := env.do(formLogin("marie@example.sn", "secret123"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "ACCOUNT_DISABLED")
}

func TestMe_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestMe_ReturnsProfileWithPermissions(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "marie@example.sn", "secret123", entity.Role{
		Code:        "admin",
		Name:        "Administrateur",
		Permissions: []entity.Permission{{Code: "users.view"}},
	})

	loginRec := env.do(formLogin("marie@example.sn", "secret123"))
	require.Equal(t, http.StatusOK, loginRec.Code)
	access, _ := tokensFrom(t, loginRec)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, "marie@example.sn")
	assert.Contains(t, body, "users.view")
	assert.NotContains(t, body, "password")
}

func TestRefresh_RotatesPair(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "marie@example.sn", "secret123")

	loginRec := env.do(formLogin("marie@example.sn", "secret123"))
	access, refresh := tokensFrom(t, loginRec)

	rec := env.do(jsonRequest(http.MethodPost, "/api/auth/refresh",
		`{"refresh_token":"`+refresh+`"}`))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	newAccess, newRefresh := tokensFrom(t, rec)
	assert.NotEqual(t, access, newAccess)
	assert.NotEqual(t, refresh, newRefresh)
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "marie@example.sn", "secret123")

	loginRec := env.do(formLogin("marie@example.sn", "secret123"))
	access, _ := tokensFrom(t, loginRec)

	rec := env.do(jsonRequest(http.MethodPost, "/api/auth/refresh",
		`{"refresh_token":"`+access+`"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_WRONG_TYPE")
}

func TestRefresh_ExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "marie@example.sn", "secret123")

	expired := signExpiredRefreshToken(t, user.ID)
	rec := env.do(jsonRequest(http.MethodPost, "/api/auth/refresh",
		`{"refresh_token":"`+expired+`"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_INVALID")
}

// signExpiredRefreshToken builds a structurally valid refresh token whose
// expiry is already in the past, signed with the test secret.
func signExpiredRefreshToken(t *testing.T, subject uuid.UUID) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject.String(),
		"iat":  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		"exp":  jwt.NewNumericDate(now.Add(-time.Hour)),
		"jti":  uuid.NewString(),
		"type": "refresh",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return signed
}

func TestChangePassword_WrongCurrentLeavesHashIntact(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "marie@example.sn", "secret123")
	originalHash := env.userRepo.get(user.ID).PasswordHash

	loginRec := env.do(formLogin("marie@example.sn", "secret123"))
	access, _ := tokensFrom(t, loginRec)

	req := jsonRequest(http.MethodPut, "/api/auth/me/password",
		`{"current_password":"wrong","new_password":"brandnew123"}`)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	rec := env.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "CURRENT_PASSWORD_INCORRECT")
	assert.Equal(t, originalHash, env.userRepo.get(user.ID).PasswordHash)
}

func TestChangePassword_UnconfiguredAccount(t *testing.T) {
	env := newTestEnv(t)
	user := &entity.User{
		ID:        uuid.New(),
		Email:     "marie@example.sn",
		LastName:  "Diop",
		FirstName: "Marie",
		Active:    true,
	}
	env.userRepo.add(user)

	access, err := env.tokenSvc.Generate(user.ID, service.TokenKindAccess)
	require.NoError(t, err)

	req := jsonRequest(http.MethodPut, "/api/auth/me/password",
		`{"current_password":"anything","new_password":"brandnew123"}`)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	rec := env.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "ACCOUNT_NOT_CONFIGURED")
	assert.Empty(t, env.userRepo.get(user.ID).PasswordHash)
}

func TestChangePassword_Success_NewPasswordLogsIn(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "marie@example.sn", "secret123")

	loginRec := env.do(formLogin("marie@example.sn", "secret123"))
	access, _ := tokensFrom(t, loginRec)

	req := jsonRequest(http.MethodPut, "/api/auth/me/password",
		`{"current_password":"secret123","new_password":"brandnew123"}`)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, env.do(formLogin("marie@example.sn", "secret123")).Code)
	assert.Equal(t, http.StatusOK, env.do(formLogin("marie@example.sn", "brandnew123")).Code)
}

func TestUpdateMe_PartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "marie@example.sn", "secret123")

	loginRec := env.do(formLogin("marie@example.sn", "secret123"))
	access, _ := tokensFrom(t, loginRec)

	req := jsonRequest(http.MethodPut, "/api/auth/me", `{"city":"Alexandrie"}`)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored := env.userRepo.get(user.ID)
	assert.Equal(t, "Alexandrie", stored.City)
	assert.Equal(t, "Diop", stored.LastName)
}

func TestRegister_CreatesLoggableAccount(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"aminata@example.sn","password":"secret123","last_name":"Fall","first_name":"Aminata"}`))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusOK, env.do(formLogin("aminata@example.sn", "secret123")).Code)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"aminata@example.sn","password":"short","last_name":"Fall","first_name":"Aminata"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutes_PermissionGate(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "viewer@example.sn", "secret123", entity.Role{
		Code:        "staff",
		Permissions: []entity.Permission{{Code: "users.view"}},
	})

	loginRec := env.do(formLogin("viewer@example.sn", "secret123"))
	access, _ := tokensFrom(t, loginRec)

	// users.view grants the listing.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	assert.Equal(t, http.StatusOK, env.do(req).Code)

	// The same user lacks users.roles and may not mutate the RBAC setup.
	req = jsonRequest(http.MethodPost, "/api/admin/roles", `{"code":"x","name":"X"}`)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	rec := env.do(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "PERMISSION_DENIED")

	// Unauthenticated admin access is a 401, not a 403.
	assert.Equal(t, http.StatusUnauthorized,
		env.do(httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)).Code)
}

func TestLogout_StatelessAcknowledgement(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "marie@example.sn", "secret123")

	loginRec := env.do(formLogin("marie@example.sn", "secret123"))
	access, _ := tokensFrom(t, loginRec)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Tokens are stateless: the pair stays usable until expiry.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	assert.Equal(t, http.StatusOK, env.do(req).Code)
}
