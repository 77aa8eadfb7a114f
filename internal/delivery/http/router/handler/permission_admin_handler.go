package handler

import (
	"log/slog"
	"net/http"

	"senghor/internal/delivery/http/response"
	"senghor/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PermissionAdminHandler holds dependencies for the administrative
// permission endpoints, including the role/permission matrix.
type PermissionAdminHandler struct {
	uc     usecase.PermissionAdminUsecase
	logger *slog.Logger
}

// NewPermissionAdminHandler is the constructor for PermissionAdminHandler, injected by Fx.
func NewPermissionAdminHandler(uc usecase.PermissionAdminUsecase, logger *slog.Logger) *PermissionAdminHandler {
	return &PermissionAdminHandler{
		uc:     uc,
		logger: logger,
	}
}

type createPermissionRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type updatePermissionRequest struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

type matrixEntryRequest struct {
	RoleID       uuid.UUID `json:"role_id" validate:"required"`
	PermissionID uuid.UUID `json:"permission_id" validate:"required"`
	Granted      bool      `json:"granted"`
}

type updateMatrixRequest struct {
	Entries []matrixEntryRequest `json:"entries" validate:"required,dive"`
}

// matrixRowView is one role's row in the matrix payload.
type matrixRowView struct {
	Role          RoleView    `json:"role"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

// matrixView is the full role/permission grid.
type matrixView struct {
	Permissions []PermissionView `json:"permissions"`
	Rows        []matrixRowView  `json:"rows"`
}

func newMatrixView(output *usecase.MatrixOutput) matrixView {
	rows := make([]matrixRowView, 0, len(output.Rows))
	for _, row := range output.Rows {
		rows = append(rows, matrixRowView{
			Role:          newRoleView(row.Role),
			PermissionIDs: row.PermissionIDs,
		})
	}

	return matrixView{
		Permissions: newPermissionViews(output.Permissions),
		Rows:        rows,
	}
}

// List returns a page of permissions.
func (h *PermissionAdminHandler) List(c echo.Context) error {
	output, err := h.uc.ListPermissions(c.Request().Context(), usecase.ListPermissionsInput{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Page:     queryInt(c, "page"),
		Size:     queryInt(c, "size"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, response.Page{
		Items: newPermissionViews(output.Permissions),
		Total: output.Total,
		Page:  output.Page,
		Size:  output.Size,
	}, "")
}

// Get returns a single permission.
func (h *PermissionAdminHandler) Get(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	permission, err := h.uc.GetPermission(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPermissionView(permission), "")
}

// Create creates a permission.
func (h *PermissionAdminHandler) Create(c echo.Context) error {
	var input createPermissionRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	permission, err := h.uc.CreatePermission(c.Request().Context(), usecase.CreatePermissionInput{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newPermissionView(permission), "Permission créée")
}

// Update applies a partial update to a permission.
func (h *PermissionAdminHandler) Update(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input updatePermissionRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}

	permission, err := h.uc.UpdatePermission(c.Request().Context(), id, usecase.UpdatePermissionInput{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPermissionView(permission), "Permission mise à jour")
}

// ListRoles returns the roles currently granting the permission.
func (h *PermissionAdminHandler) ListRoles(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	roles, err := h.uc.ListPermissionRoles(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newRoleViews(roles), "")
}

// GetMatrix returns the full role/permission grid.
func (h *PermissionAdminHandler) GetMatrix(c echo.Context) error {
	output, err := h.uc.GetMatrix(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newMatrixView(output), "")
}

// UpdateMatrix applies a batch of grant/revoke toggles.
func (h *PermissionAdminHandler) UpdateMatrix(c echo.Context) error {
	var input updateMatrixRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Corps de requête invalide")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	entries := make([]usecase.MatrixEntry, 0, len(input.Entries))
	for _, entry := range input.Entries {
		entries = append(entries, usecase.MatrixEntry{
			RoleID:       entry.RoleID,
			PermissionID: entry.PermissionID,
			Granted:      entry.Granted,
		})
	}

	output, err := h.uc.UpdateMatrix(c.Request().Context(), entries)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newMatrixView(output), "Matrice mise à jour")
}
