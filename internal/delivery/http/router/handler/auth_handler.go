package handler

import (
	"log/slog"
	"net/http"

	"senghor/internal/delivery/http/middleware"
	"senghor/internal/delivery/http/response"
	domainerrors "senghor/internal/domain/errors"
	"senghor/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for the authentication endpoints.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

type loginJSONRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	LastName  string `json:"last_name" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
}

type updateProfileRequest struct {
	LastName  *string `json:"last_name"`
	FirstName *string `json:"first_name"`
	Phone     *string `json:"phone"`
	City      *string `json:"city"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Login handles the OAuth2-style form login: the email travels in the
// standard "username" field.
func (h *AuthHandler) Login(c echo.Context) error {
	email := c.FormValue("username")
	password := c.FormValue("password")
	if email == "" || password == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Champs username et password requis")
	}

	return h.login(c, email, password)
}

// LoginJSON handles the JSON body variant of the login endpoint.
func (h *AuthHandler) LoginJSON(c echo.Context) error {
	var input loginJSONRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	return h.login(c, input.Email, input.Password)
}

func (h *AuthHandler) login(c echo.Context, email, password string) error {
	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newTokenView(output.AccessToken, output.RefreshToken), "Connexion réussie")
}

// Refresh rotates a refresh token into a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var input refreshRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Refresh(c.Request().Context(), usecase.RefreshInput{RefreshToken: input.RefreshToken})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newTokenView(output.AccessToken, output.RefreshToken), "Token renouvelé")
}

// Logout acknowledges the logout. Tokens are stateless and cannot be
// revoked server-side; the client discards them.
func (h *AuthHandler) Logout(c echo.Context) error {
	return response.Success(c, http.StatusOK, nil, "Déconnexion réussie")
}

// Register handles public self-registration.
func (h *AuthHandler) Register(c echo.Context) error {
	var input registerRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		LastName:  input.LastName,
		FirstName: input.FirstName,
		Phone:     input.Phone,
		City:      input.City,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newUserView(user), "Compte créé")
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domainerrors.ErrNotAuthenticated
	}

	return response.Success(c, http.StatusOK, newUserView(user), "")
}

// UpdateMe applies a partial self-service profile update.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domainerrors.ErrNotAuthenticated
	}

	var input updateProfileRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}

	updated, err := h.uc.UpdateProfile(c.Request().Context(), user.ID, usecase.UpdateProfileInput{
		LastName:  input.LastName,
		FirstName: input.FirstName,
		Phone:     input.Phone,
		City:      input.City,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(updated), "Profil mis à jour")
}

// ChangePassword verifies the current password and replaces it.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domainerrors.ErrNotAuthenticated
	}

	var input changePasswordRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	err := h.uc.ChangePassword(c.Request().Context(), user, usecase.ChangePasswordInput{
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Mot de passe modifié")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
