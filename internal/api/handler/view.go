package handler

import (
	"encoding/gob"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

// SessionName is the cookie session carrying the session id and pending flashes.
const SessionName = "storefront_session"

const (
	sessionKeySID   = "sid"
	ctxSessionDirty = "session_dirty"
)

// Flash levels.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashDanger  = "danger"
)

// Flash is a one-shot status message shown with the next rendered view.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func init() {
	gob.Register(Flash{})
}

// viewResponse is the envelope every successful read or mutation returns.
type viewResponse struct {
	Account *domain.Account `json:"account"`
	Flashes []Flash         `json:"flashes"`
	Data    any             `json:"data"`
}

// addFlash queues a flash in the cookie session. It is written out by render.
func addFlash(c echo.Context, level, message string) {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		c.Logger().Warnf("flash dropped: %v", err)
		return
	}
	sess.AddFlash(Flash{Level: level, Message: message})
	c.Set(ctxSessionDirty, true)
}

// SessionIDFromCookie returns the session id stored in the cookie session.
func SessionIDFromCookie(c echo.Context) string {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return ""
	}
	sid, _ := sess.Values[sessionKeySID].(string)
	return sid
}

func setCookieSessionID(c echo.Context, sid string) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return err
	}
	if sid == "" {
		delete(sess.Values, sessionKeySID)
	} else {
		sess.Values[sessionKeySID] = sid
	}
	c.Set(ctxSessionDirty, true)
	return nil
}

// render drains pending flashes into the view envelope and persists the
// cookie session when anything in it changed.
func render(c echo.Context, status int, data any) error {
	flashes := []Flash{}
	if sess, err := session.Get(SessionName, c); err == nil {
		for _, f := range sess.Flashes() {
			if fl, ok := f.(Flash); ok {
				flashes = append(flashes, fl)
			}
		}
		dirty, _ := c.Get(ctxSessionDirty).(bool)
		if dirty || len(flashes) > 0 {
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				return err
			}
		}
	}
	return c.JSON(status, viewResponse{
		Account: AccountFrom(c),
		Flashes: flashes,
		Data:    data,
	})
}
