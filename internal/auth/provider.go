package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ParseProviderToken validates the identity token handed over by the OAuth
// sign-in flow and extracts the verified email and display name. The sign-in
// flow itself (consent screen, code exchange) happens outside this service.
func ParseProviderToken(raw string, secret []byte) (email, name string, err error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("invalid provider token: %w", err)
	}
	if !token.Valid {
		return "", "", fmt.Errorf("invalid provider token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid provider claims")
	}
	email, ok = claims["email"].(string)
	if !ok || email == "" {
		return "", "", fmt.Errorf("provider token missing email")
	}
	name, _ = claims["name"].(string)

	return email, name, nil
}
