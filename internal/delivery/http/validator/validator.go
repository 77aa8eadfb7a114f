// Package validator plugs go-playground/validator into Echo's request
// validation hook.
package validator

import (
	domainerrors "senghor/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// echoValidator adapts validator.Validate to echo.Validator.
type echoValidator struct {
	validate *validator.Validate
}

// New builds the Echo request validator.
func New() *echoValidator {
	return &echoValidator{validate: validator.New()}
}

// Validate checks the struct tags of a bound request payload. Failures
// surface as the application's validation error so the error handler maps
// them to a 400.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
