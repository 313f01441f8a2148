package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mindfulthreads/storefront/internal/api/handler"
	"github.com/mindfulthreads/storefront/internal/core/domain"
)

// RequireRole gates a route group on the caller's role. The access policy in
// the service layer still has the final say; this only keeps anonymous and
// wrong-role callers away from the dashboards.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := handler.AccountFrom(c)
			if account == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			if _, ok := allowed[account.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "Access denied!")
			}
			return next(c)
		}
	}
}
