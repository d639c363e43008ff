package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/shopmaster/storefront/internal/models"
)

const identityKey = "identity"

// Identity is the resolved (userID, role) pair carried by a validated
// session token.
type Identity struct {
	UserID uint
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

func SetIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
}

func IdentityFrom(c echo.Context) (Identity, bool) {
	v := c.Get(identityKey)
	id, ok := v.(Identity)
	return id, ok
}
