package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Staff roles recognized by the clinic core.
const (
	RoleAdmin      = "admin"
	RoleRegistrar  = "registrar"
	RolePhysician  = "physician"
	RoleLab        = "lab"
	RoleDispatcher = "dispatcher"
	RoleFieldAgent = "field-agent"
)

// RequireRole returns middleware that checks if the actor has at least one
// of the specified roles. Admin always passes.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actorRoles := RolesFromContext(c.Request().Context())
			for _, required := range roles {
				for _, has := range actorRoles {
					if has == required || has == RoleAdmin {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}
