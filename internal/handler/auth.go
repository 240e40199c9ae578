package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/account"
	"github.com/iliyamo/cinebook/internal/middleware"
)

// AuthHandler exposes the account directory.  There is a single session
// per deployment: signing in replaces whoever was signed in before.
type AuthHandler struct {
	Dir *account.Directory
}

func NewAuthHandler(dir *account.Directory) *AuthHandler { return &AuthHandler{Dir: dir} }

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /v1/auth/register.  The new user is signed in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	u, err := h.Dir.SignUp(c.Request().Context(), strings.TrimSpace(req.Email), req.Password, strings.TrimSpace(req.Name))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": u.Public()})
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email/password required")
	}
	u, err := h.Dir.Login(c.Request().Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u.Public()})
}

// Logout handles POST /v1/auth/logout.  It succeeds without a session.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Dir.Logout(c.Request().Context()); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/me for the signed in user.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, u.Public())
}
