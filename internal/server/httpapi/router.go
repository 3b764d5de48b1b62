package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mkalvans/userhub/internal/logging"
)

const roleAdministrator = "Administrator"
const roleAuditor = "Auditor"

// Handlers bundles the route handlers wired into the router.
type Handlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Roles    *RoleHandler
	Audit    *AuditHandler
	Pictures *PictureHandler
}

// NewRouter builds the echo instance with all routes registered. Mutating
// admin operations require the administrator role; the audit log is also
// open to auditors.
func NewRouter(h Handlers, jwtSecret []byte, log logging.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	api.POST("/login", h.Auth.Login)

	authed := api.Group("", Auth(jwtSecret))
	admin := RequireRole(roleAdministrator)

	authed.GET("/users", h.Users.List)
	authed.GET("/users/with-roles", h.Users.ListWithRoles)
	authed.GET("/users/:id", h.Users.Detail)
	authed.POST("/users", h.Users.Create, admin)
	authed.PUT("/users/:id", h.Users.Update, admin)
	authed.DELETE("/users/:id", h.Users.Delete, admin)

	authed.GET("/roles", h.Roles.List)
	authed.GET("/users/:id/roles", h.Roles.UserRoles)
	authed.POST("/users/:id/roles", h.Roles.AddRole, admin)
	authed.GET("/users/:id/permissions", h.Roles.UserPermissions)

	authed.GET("/audit-log", h.Audit.Recent, RequireRole(roleAdministrator, roleAuditor))

	authed.GET("/users/:id/profile-picture", h.Pictures.Get)
	authed.POST("/users/:id/profile-picture", h.Pictures.Upload)
	authed.DELETE("/users/:id/profile-picture", h.Pictures.Delete, admin)

	return e
}
