package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/account"
	"github.com/iliyamo/cinebook/internal/model"
)

const userKey = "user"

// SessionLoader is the part of the account directory the identity
// middleware reads.
type SessionLoader interface {
	Session(ctx context.Context) (model.User, error)
}

// LoadSession stores the signed in user, if any, in the echo context.
// Requests without a session continue as guests.
func LoadSession(dir SessionLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := dir.Session(c.Request().Context())
			switch {
			case err == nil:
				c.Set(userKey, u)
			case !errors.Is(err, account.ErrNoSession):
				c.Logger().Warnf("identity: session lookup failed: %v", err)
			}
			return next(c)
		}
	}
}

// RequireSession rejects guests with 401.  It must run after LoadSession.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by LoadSession.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userKey).(model.User)
	return u, ok
}

// userID is the rate-limit identity: the user id or "guest".
func userID(c echo.Context) string {
	if u, ok := CurrentUser(c); ok {
		return strconv.FormatInt(u.ID, 10)
	}
	return "guest"
}
