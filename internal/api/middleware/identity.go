package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mindfulthreads/storefront/internal/api/handler"
	"github.com/mindfulthreads/storefront/internal/core/domain"
	"github.com/mindfulthreads/storefront/internal/core/ports"
)

// Identity resolves the caller of every request and stores it on the context.
//
// A bearer token takes precedence over the cookie session. A bad or revoked
// token is rejected outright; a stale cookie session just leaves the caller
// anonymous. Must run after the cookie session middleware.
func Identity(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, bearer, err := sessionID(c, sessions)
			if err != nil {
				return err
			}
			if sid == "" {
				return next(c)
			}

			account, err := sessions.Resolve(c.Request().Context(), sid)
			switch {
			case err == nil:
				handler.SetIdentity(c, account, sid)
			case errors.Is(err, domain.ErrNotFound):
				if bearer {
					return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
				}
			default:
				return err
			}
			return next(c)
		}
	}
}

func sessionID(c echo.Context, sessions ports.SessionService) (string, bool, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return handler.SessionIDFromCookie(c), false, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", true, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	sid, err := sessions.ParseToken(parts[1])
	if err != nil {
		return "", true, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return sid, true, nil
}
