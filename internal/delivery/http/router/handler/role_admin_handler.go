package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"senghor/internal/delivery/http/response"
	domainerrors "senghor/internal/domain/errors"
	"senghor/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RoleAdminHandler holds dependencies for the administrative role endpoints.
type RoleAdminHandler struct {
	uc     usecase.RoleAdminUsecase
	logger *slog.Logger
}

// NewRoleAdminHandler is the constructor for RoleAdminHandler, injected by Fx.
func NewRoleAdminHandler(uc usecase.RoleAdminUsecase, logger *slog.Logger) *RoleAdminHandler {
	return &RoleAdminHandler{
		uc:     uc,
		logger: logger,
	}
}

type createRoleRequest struct {
	Code           string      `json:"code" validate:"required"`
	Name           string      `json:"name" validate:"required"`
	Description    string      `json:"description"`
	HierarchyLevel int         `json:"hierarchy_level"`
	Active         *bool       `json:"active"`
	PermissionIDs  []uuid.UUID `json:"permission_ids"`
}

type updateRoleRequest struct {
	Code           *string `json:"code"`
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	HierarchyLevel *int    `json:"hierarchy_level"`
	Active         *bool   `json:"active"`
}

type setPermissionsRequest struct {
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

type duplicateRoleRequest struct {
	NewCode string `json:"new_code" validate:"required"`
	NewName string `json:"new_name" validate:"required"`
}

// roleComparisonView lays roles and their permissions side by side: one
// entry per permission code, flagging which of the compared roles grant it.
type roleComparisonView struct {
	Roles       []RoleView                     `json:"roles"`
	Permissions map[string]comparisonEntryView `json:"permissions"`
}

type comparisonEntryView struct {
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Roles    map[string]bool `json:"roles"`
}

// List returns a page of roles.
func (h *RoleAdminHandler) List(c echo.Context) error {
	output, err := h.uc.ListRoles(c.Request().Context(), usecase.ListRolesInput{
		Search: c.QueryParam("search"),
		Active: queryBool(c, "active"),
		Page:   queryInt(c, "page"),
		Size:   queryInt(c, "size"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, response.Page{
		Items: newRoleViews(output.Roles),
		Total: output.Total,
		Page:  output.Page,
		Size:  output.Size,
	}, "")
}

// Get returns a single role.
func (h *RoleAdminHandler) Get(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	role, err := h.uc.GetRole(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newRoleView(role), "")
}

// Create creates a role, optionally with an initial permission set.
func (h *RoleAdminHandler) Create(c echo.Context) error {
	var input createRoleRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	role, err := h.uc.CreateRole(c.Request().Context(), usecase.CreateRoleInput{
		Code:           input.Code,
		Name:           input.Name,
		Description:    input.Description,
		HierarchyLevel: input.HierarchyLevel,
		Active:         input.Active,
		PermissionIDs:  input.PermissionIDs,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newRoleView(role), "Rôle créé")
}

// Update applies a partial update to a role.
func (h *RoleAdminHandler) Update(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input updateRoleRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}

	role, err := h.uc.UpdateRole(c.Request().Context(), id, usecase.UpdateRoleInput{
		Code:           input.Code,
		Name:           input.Name,
		Description:    input.Description,
		HierarchyLevel: input.HierarchyLevel,
		Active:         input.Active,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newRoleView(role), "Rôle mis à jour")
}

// Delete removes a role.
func (h *RoleAdminHandler) Delete(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteRole(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Rôle supprimé")
}

// Duplicate copies a role and its permission set under a new code and name.
func (h *RoleAdminHandler) Duplicate(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input duplicateRoleRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	role, err := h.uc.DuplicateRole(c.Request().Context(), id, usecase.DuplicateRoleInput{
		Code: input.NewCode,
		Name: input.NewName,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newRoleView(role), "Rôle dupliqué")
}

// Compare returns a permission-by-permission comparison of the requested
// roles; role_ids is a comma-separated list of UUIDs.
func (h *RoleAdminHandler) Compare(c echo.Context) error {
	raw := c.QueryParam("role_ids")
	if raw == "" {
		return domainerrors.ErrValidationFailed.WithDetails("role_ids query parameter is required")
	}

	ids := make([]uuid.UUID, 0)
	for _, part := range strings.Split(raw, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return domainerrors.ErrValidationFailed.WithDetails("invalid role id: " + part)
		}
		ids = append(ids, id)
	}

	roles, err := h.uc.CompareRoles(c.Request().Context(), ids)
	if err != nil {
		return errors.WithStack(err)
	}

	comparison := roleComparisonView{
		Roles:       newRoleViews(roles),
		Permissions: make(map[string]comparisonEntryView),
	}
	for _, role := range roles {
		for _, perm := range role.Permissions {
			entry, ok := comparison.Permissions[perm.Code]
			if !ok {
				entry = comparisonEntryView{
					Name:     perm.Name,
					Category: perm.Category,
					Roles:    make(map[string]bool),
				}
			}
			entry.Roles[role.Code] = true
			comparison.Permissions[perm.Code] = entry
		}
	}

	return response.Success(c, http.StatusOK, comparison, "")
}

// ToggleActive flips the role's active flag.
func (h *RoleAdminHandler) ToggleActive(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	role, err := h.uc.ToggleActive(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	message := "Rôle désactivé"
	if role.Active {
		message = "Rôle activé"
	}

	return response.Success(c, http.StatusOK, newRoleView(role), message)
}

// SetPermissions replaces the role's permission set.
func (h *RoleAdminHandler) SetPermissions(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input setPermissionsRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}

	role, err := h.uc.SetPermissions(c.Request().Context(), id, input.PermissionIDs)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newRoleView(role), "Permissions mises à jour")
}

// ListUsers returns the users currently holding the role.
func (h *RoleAdminHandler) ListUsers(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	users, err := h.uc.ListRoleUsers(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserViews(users), "")
}
