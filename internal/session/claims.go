package session

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"nexus-companion/internal/domain"
)

// FallbackUser derives a minimal profile from the access token claims. Used
// when the profile endpoint 404s right after signup, before the backend has
// materialized the user row. The signature is deliberately not verified: the
// token was just accepted by the backend and only display fields are read.
func FallbackUser(accessToken string) (*domain.User, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	user := &domain.User{
		Provider: "GOOGLE",
		Role:     "USER",
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		if id, convErr := strconv.ParseInt(sub, 10, 64); convErr == nil {
			user.ID = id
		} else {
			user.Email = sub
		}
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		user.Name = name
	}

	if user.Email == "" && user.ID == 0 {
		return nil, fmt.Errorf("access token carries no identifying claims")
	}
	if user.Name == "" {
		user.Name = user.Email
	}
	return user, nil
}
