package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"senghor/internal/delivery/http/middleware"
	"senghor/internal/delivery/http/response"
	domainerrors "senghor/internal/domain/errors"
	"senghor/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserAdminHandler holds dependencies for the administrative user endpoints.
type UserAdminHandler struct {
	uc     usecase.UserAdminUsecase
	logger *slog.Logger
}

// NewUserAdminHandler is the constructor for UserAdminHandler, injected by Fx.
func NewUserAdminHandler(uc usecase.UserAdminUsecase, logger *slog.Logger) *UserAdminHandler {
	return &UserAdminHandler{
		uc:     uc,
		logger: logger,
	}
}

type createUserRequest struct {
	Email         string      `json:"email" validate:"required,email"`
	Password      string      `json:"password" validate:"omitempty,min=8"`
	LastName      string      `json:"last_name" validate:"required"`
	FirstName     string      `json:"first_name" validate:"required"`
	Phone         string      `json:"phone"`
	City          string      `json:"city"`
	Active        *bool       `json:"active"`
	EmailVerified *bool       `json:"email_verified"`
	RoleIDs       []uuid.UUID `json:"role_ids"`
}

type updateUserRequest struct {
	Email         *string `json:"email" validate:"omitempty,email"`
	LastName      *string `json:"last_name"`
	FirstName     *string `json:"first_name"`
	Phone         *string `json:"phone"`
	City          *string `json:"city"`
	Active        *bool   `json:"active"`
	EmailVerified *bool   `json:"email_verified"`
}

type setRolesRequest struct {
	RoleIDs []uuid.UUID `json:"role_ids"`
}

type bulkUserActionRequest struct {
	UserIDs []uuid.UUID `json:"user_ids" validate:"required,min=1"`
	Action  string      `json:"action" validate:"required,oneof=activate deactivate delete"`
}

// List returns a page of users.
func (h *UserAdminHandler) List(c echo.Context) error {
	output, err := h.uc.ListUsers(c.Request().Context(), usecase.ListUsersInput{
		Search: c.QueryParam("search"),
		Active: queryBool(c, "active"),
		RoleID: queryUUID(c, "role_id"),
		Page:   queryInt(c, "page"),
		Size:   queryInt(c, "size"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, response.Page{
		Items: newUserViews(output.Users),
		Total: output.Total,
		Page:  output.Page,
		Size:  output.Size,
	}, "")
}

// Get returns a single user.
func (h *UserAdminHandler) Get(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.uc.GetUser(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(user), "")
}

// Create creates an account, optionally with initial roles.
func (h *UserAdminHandler) Create(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return domainerrors.ErrNotAuthenticated
	}

	var input createUserRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.CreateUser(c.Request().Context(), usecase.CreateUserInput{
		Email:         input.Email,
		Password:      input.Password,
		LastName:      input.LastName,
		FirstName:     input.FirstName,
		Phone:         input.Phone,
		City:          input.City,
		Active:        input.Active,
		EmailVerified: input.EmailVerified,
		RoleIDs:       input.RoleIDs,
	}, actor.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newUserView(user), "Utilisateur créé")
}

// Update applies a partial update to an account.
func (h *UserAdminHandler) Update(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input updateUserRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.UpdateUser(c.Request().Context(), id, usecase.UpdateUserInput{
		Email:         input.Email,
		LastName:      input.LastName,
		FirstName:     input.FirstName,
		Phone:         input.Phone,
		City:          input.City,
		Active:        input.Active,
		EmailVerified: input.EmailVerified,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(user), "Utilisateur mis à jour")
}

// Delete removes an account permanently.
func (h *UserAdminHandler) Delete(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteUser(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Utilisateur supprimé")
}

// BulkAction applies one action to a set of accounts and reports how many
// were affected.
func (h *UserAdminHandler) BulkAction(c echo.Context) error {
	var input bulkUserActionRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	count, err := h.uc.BulkAction(c.Request().Context(), usecase.BulkUserActionInput{
		UserIDs: input.UserIDs,
		Action:  input.Action,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"count": count},
		strconv.Itoa(count)+" utilisateur(s) modifié(s)")
}

// ToggleActive flips the account's active flag.
func (h *UserAdminHandler) ToggleActive(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.uc.ToggleActive(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	message := "Compte désactivé"
	if user.Active {
		message = "Compte activé"
	}

	return response.Success(c, http.StatusOK, newUserView(user), message)
}

// GetRoles returns the roles currently held by the user.
func (h *UserAdminHandler) GetRoles(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.uc.GetUser(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	roles := make([]RoleView, 0, len(user.Roles))
	for i := range user.Roles {
		roles = append(roles, newRoleView(&user.Roles[i]))
	}

	return response.Success(c, http.StatusOK, roles, "")
}

// GetPermissions returns the user's flattened effective permission codes.
func (h *UserAdminHandler) GetPermissions(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.uc.GetUser(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"permissions": user.PermissionCodes(),
	}, "")
}

// SetRoles replaces the user's role set.
func (h *UserAdminHandler) SetRoles(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return domainerrors.ErrNotAuthenticated
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input setRolesRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}

	user, err := h.uc.SetRoles(c.Request().Context(), id, input.RoleIDs, actor.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(user), "Rôles mis à jour")
}

// ResetPassword generates a temporary password and returns it once.
func (h *UserAdminHandler) ResetPassword(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	output, err := h.uc.ResetPassword(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"temporary_password": output.TemporaryPassword,
	}, "Mot de passe réinitialisé")
}

// VerifyEmail marks the account's email as verified.
func (h *UserAdminHandler) VerifyEmail(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.VerifyEmail(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Email vérifié")
}

// Anonymize blanks the account's personal data.
func (h *UserAdminHandler) Anonymize(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Anonymize(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Compte anonymisé")
}
