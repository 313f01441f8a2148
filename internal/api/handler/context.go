package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

const (
	ctxAccount   = "account"
	ctxSessionID = "sid"
)

// SetIdentity records the authenticated account and its session id on the
// request context. The identity middleware is the only writer.
func SetIdentity(c echo.Context, account *domain.Account, sid string) {
	c.Set(ctxAccount, account)
	c.Set(ctxSessionID, sid)
}

// AccountFrom returns the authenticated account, or nil for anonymous callers.
func AccountFrom(c echo.Context) *domain.Account {
	a, _ := c.Get(ctxAccount).(*domain.Account)
	return a
}

// CallerFrom returns the request identity the access policy evaluates.
func CallerFrom(c echo.Context) *domain.Caller {
	return domain.CallerFor(AccountFrom(c))
}

// SessionIDFrom returns the server-side session id of the request, if any.
func SessionIDFrom(c echo.Context) string {
	sid, _ := c.Get(ctxSessionID).(string)
	return sid
}
