package auth

import (
	"strings"

	"github.com/shopmaster/storefront/internal/models"
)

// RolePolicy decides which role a user gets at creation time. Keeping it as
// an injected value makes the rule swappable without touching the sign-in
// flow.
type RolePolicy func(email string) string

// AllowlistPolicy maps one designated email to the admin role and everyone
// else to the regular user role.
func AllowlistPolicy(adminEmail string) RolePolicy {
	admin := strings.ToLower(strings.TrimSpace(adminEmail))
	return func(email string) string {
		if admin != "" && strings.EqualFold(strings.TrimSpace(email), admin) {
			return models.RoleAdmin
		}
		return models.RoleUser
	}
}
