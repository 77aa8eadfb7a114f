// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"senghor/internal/delivery/http/middleware"
	"senghor/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// Permission codes gating the administrative routes.
const (
	permUsersView   = "users.view"
	permUsersCreate = "users.create"
	permUsersEdit   = "users.edit"
	permUsersDelete = "users.delete"
	permUsersRoles  = "users.roles"
)

// RouterParams holds the handlers and middleware injected by Fx.
type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	UserAdminHandler  *handler.UserAdminHandler
	RoleAdminHandler  *handler.RoleAdminHandler
	PermAdminHandler  *handler.PermissionAdminHandler
	AuthMiddleware    *middleware.AuthMiddleware
	RequestMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.params.RequestMiddleware.Process)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	// Public auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/login", r.params.AuthHandler.Login)
		auth.POST("/login/json", r.params.AuthHandler.LoginJSON)
		auth.POST("/refresh", r.params.AuthHandler.Refresh)
		auth.POST("/register", r.params.AuthHandler.Register)
	}

	// Auth routes requiring a valid access token
	me := api.Group("/auth", r.params.AuthMiddleware.Authenticate)
	{
		me.POST("/logout", r.params.AuthHandler.Logout)
		me.GET("/me", r.params.AuthHandler.Me)
		me.PUT("/me", r.params.AuthHandler.UpdateMe)
		me.PUT("/me/password", r.params.AuthHandler.ChangePassword, r.params.AuthMiddleware.RequireActiveUser)
	}

	// Administrative routes; each route carries its own permission gate.
	admin := api.Group("/admin", r.params.AuthMiddleware.Authenticate)

	users := admin.Group("/users")
	{
		gate := r.params.AuthMiddleware.RequirePermission
		users.GET("", r.params.UserAdminHandler.List, gate(permUsersView))
		users.GET("/:id", r.params.UserAdminHandler.Get, gate(permUsersView))
		users.POST("", r.params.UserAdminHandler.Create, gate(permUsersCreate))
		users.PUT("/:id", r.params.UserAdminHandler.Update, gate(permUsersEdit))
		users.DELETE("/:id", r.params.UserAdminHandler.Delete, gate(permUsersDelete))
		users.POST("/bulk-action", r.params.UserAdminHandler.BulkAction, gate(permUsersEdit))
		users.POST("/:id/toggle-active", r.params.UserAdminHandler.ToggleActive, gate(permUsersEdit))
		users.GET("/:id/roles", r.params.UserAdminHandler.GetRoles, gate(permUsersView))
		users.PUT("/:id/roles", r.params.UserAdminHandler.SetRoles, gate(permUsersRoles))
		users.GET("/:id/permissions", r.params.UserAdminHandler.GetPermissions, gate(permUsersView))
		users.POST("/:id/reset-password", r.params.UserAdminHandler.ResetPassword, gate(permUsersEdit))
		users.POST("/:id/verify-email", r.params.UserAdminHandler.VerifyEmail, gate(permUsersEdit))
		users.POST("/:id/anonymize", r.params.UserAdminHandler.Anonymize, gate(permUsersDelete))
	}

	// Reading roles and permissions only needs users.view; any mutation
	// of the RBAC configuration itself needs users.roles.
	roles := admin.Group("/roles")
	{
		gate := r.params.AuthMiddleware.RequirePermission
		roles.GET("", r.params.RoleAdminHandler.List, gate(permUsersView))
		roles.GET("/compare", r.params.RoleAdminHandler.Compare, gate(permUsersView))
		roles.GET("/:id", r.params.RoleAdminHandler.Get, gate(permUsersView))
		roles.POST("", r.params.RoleAdminHandler.Create, gate(permUsersRoles))
		roles.POST("/:id/duplicate", r.params.RoleAdminHandler.Duplicate, gate(permUsersRoles))
		roles.PUT("/:id", r.params.RoleAdminHandler.Update, gate(permUsersRoles))
		roles.DELETE("/:id", r.params.RoleAdminHandler.Delete, gate(permUsersRoles))
		roles.POST("/:id/toggle-active", r.params.RoleAdminHandler.ToggleActive, gate(permUsersRoles))
		roles.PUT("/:id/permissions", r.params.RoleAdminHandler.SetPermissions, gate(permUsersRoles))
		roles.GET("/:id/users", r.params.RoleAdminHandler.ListUsers, gate(permUsersView))
	}

	permissions := admin.Group("/permissions")
	{
		gate := r.params.AuthMiddleware.RequirePermission
		permissions.GET("", r.params.PermAdminHandler.List, gate(permUsersView))
		permissions.GET("/matrix", r.params.PermAdminHandler.GetMatrix, gate(permUsersView))
		permissions.PUT("/matrix", r.params.PermAdminHandler.UpdateMatrix, gate(permUsersRoles))
		permissions.GET("/:id", r.params.PermAdminHandler.Get, gate(permUsersView))
		permissions.GET("/:id/roles", r.params.PermAdminHandler.ListRoles, gate(permUsersView))
		permissions.POST("", r.params.PermAdminHandler.Create, gate(permUsersRoles))
		permissions.PUT("/:id", r.params.PermAdminHandler.Update, gate(permUsersRoles))
	}
}
