package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const AccessCookieName = "accessToken"

type Middleware struct {
	JWTSecret []byte
}

// RequireUser resolves the session token from the accessToken cookie or an
// Authorization bearer header and stores the Identity in the echo context.
func (m *Middleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := m.resolve(c)
		if err != nil {
			return err
		}
		SetIdentity(c, id)
		return next(c)
	}
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := m.resolve(c)
		if err != nil {
			return err
		}
		if !id.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "not authorized")
		}
		SetIdentity(c, id)
		return next(c)
	}
}

func (m *Middleware) resolve(c echo.Context) (Identity, error) {
	raw := ""
	if cookie, err := c.Cookie(AccessCookieName); err == nil {
		raw = cookie.Value
	}
	if raw == "" {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if strings.HasPrefix(header, "Bearer ") {
			raw = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if raw == "" {
		return Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}

	id, err := ParseAccessToken(raw, m.JWTSecret)
	if err != nil {
		return Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return id, nil
}
