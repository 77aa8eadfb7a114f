package handler

import (
	"strconv"

	domainerrors "senghor/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// parseUUIDParam reads a path parameter as a UUID.
func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("paramètre '" + name + "' invalide")
	}

	return id, nil
}

// queryInt reads an optional integer query parameter, zero when absent.
func queryInt(c echo.Context, name string) int {
	value, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}

	return value
}

// queryBool reads an optional boolean query parameter, nil when absent or
// unparseable.
func queryBool(c echo.Context, name string) *bool {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}

	return &value
}

// queryUUID reads an optional UUID query parameter, nil when absent or invalid.
func queryUUID(c echo.Context, name string) *uuid.UUID {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}

	value, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}

	return &value
}
