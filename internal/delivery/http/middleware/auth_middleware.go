// Package middleware contains the HTTP middleware of the API.
package middleware

import (
	"strings"

	deliverycontext "senghor/internal/delivery/context"
	"senghor/internal/delivery/http/response"
	"senghor/internal/domain/entity"
	domainerrors "senghor/internal/domain/errors"
	"senghor/internal/domain/repository"
	"senghor/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthMiddleware authenticates requests from a bearer access token and
// enforces per-route permissions.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	userRepo repository.UserRepository
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, userRepo: userRepo}
}

// Authenticate validates the bearer token, loads the user with roles and
// permissions in one shot, checks the active flag and stores the entity on
// the context. Every failure is a 401; the response does not reveal which
// step rejected the request beyond its message.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "NOT_AUTHENTICATED", domainerrors.ErrNotAuthenticated.Message())
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return response.Unauthorized(c, "NOT_AUTHENTICATED", domainerrors.ErrNotAuthenticated.Message())
		}

		claims, err := m.tokenSvc.Decode(tokenString)
		if err != nil {
			return response.Unauthorized(c, "TOKEN_INVALID", domainerrors.ErrTokenInvalid.Message())
		}

		// A refresh token is not an access credential, no matter how fresh.
		if claims.Kind != service.TokenKindAccess {
			return response.Unauthorized(c, "TOKEN_WRONG_TYPE", domainerrors.ErrTokenWrongType.Message())
		}

		user, err := m.userRepo.FindByID(c.Request().Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return response.Unauthorized(c, "TOKEN_INVALID", domainerrors.ErrTokenInvalid.Message())
			}

			return domainerrors.NewDatabaseExecuteError(err, "failed to load authenticated user")
		}

		if !user.Active {
			return response.Unauthorized(c, "ACCOUNT_DISABLED", domainerrors.ErrAccountDisabled.Message())
		}

		deliverycontext.SetUser(c, user)

		return next(c)
	}
}

// RequirePermission gates a route on a single permission code. It must run
// after Authenticate; a missing user is treated as unauthenticated rather
// than forbidden. The super admin role passes every gate.
func (m *AuthMiddleware) RequirePermission(code string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := deliverycontext.GetUser(c)
			if user == nil {
				return response.Unauthorized(c, "NOT_AUTHENTICATED", domainerrors.ErrNotAuthenticated.Message())
			}

			if !user.HasPermission(code) {
				return response.Forbidden(c, "PERMISSION_DENIED", "Permission '"+code+"' requise")
			}

			return next(c)
		}
	}
}

// RequireActiveUser re-checks the active flag for routes that must never
// serve a deactivated account. Runs after Authenticate.
func (m *AuthMiddleware) RequireActiveUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := deliverycontext.GetUser(c)
		if user == nil {
			return response.Unauthorized(c, "NOT_AUTHENTICATED", domainerrors.ErrNotAuthenticated.Message())
		}

		if !user.Active {
			return response.Unauthorized(c, "ACCOUNT_DISABLED", domainerrors.ErrAccountDisabled.Message())
		}

		return next(c)
	}
}

// CurrentUser returns the authenticated user set by Authenticate, or nil.
func CurrentUser(c echo.Context) *entity.User {
	return deliverycontext.GetUser(c)
}
