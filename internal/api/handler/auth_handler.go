package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mindfulthreads/storefront/internal/core/ports"
)

type AuthHandler struct {
	accounts ports.AccountService
	sessions ports.SessionService
	ttl      time.Duration
}

func NewAuthHandler(accounts ports.AccountService, sessions ports.SessionService, ttl time.Duration) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions, ttl: ttl}
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  accountView
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.Register(c.Request().Context(), CallerFrom(c), toRegisterInput(req))
	if err != nil {
		return err
	}

	addFlash(c, FlashSuccess, "Registration successful! Please login.")
	return render(c, http.StatusCreated, account)
}

// Login authenticates an account, opens a session and returns a bearer token
// bound to it. The session id is also written to the cookie session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	res, err := h.sessions.Login(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	if old := SessionIDFrom(c); old != "" && old != res.SessionID {
		if err := h.sessions.Logout(ctx, old); err != nil {
			c.Logger().Warnf("previous session not cleared: %v", err)
		}
	}
	if err := setCookieSessionID(c, res.SessionID); err != nil {
		return err
	}
	SetIdentity(c, res.Account, res.SessionID)

	addFlash(c, FlashSuccess, "Login successful!")
	return render(c, http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresIn: int64(h.ttl.Seconds()),
		Next:      res.Next,
	})
}

// Logout ends the current session. Calling it anonymously is harmless.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  viewResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context(), SessionIDFrom(c)); err != nil {
		return err
	}
	if err := setCookieSessionID(c, ""); err != nil {
		return err
	}
	SetIdentity(c, nil, "")

	addFlash(c, FlashInfo, "You have been logged out.")
	return render(c, http.StatusOK, nil)
}

// Me returns the authenticated account, or null for anonymous callers.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountView
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	return render(c, http.StatusOK, AccountFrom(c))
}
