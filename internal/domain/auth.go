package domain

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleOperator Role = "Operator"
)

// ParseRole normalises a role name ("admin", "ADMIN") to its canonical form.
func ParseRole(s string) (Role, bool) {
	switch {
	case strings.EqualFold(s, string(RoleAdmin)):
		return RoleAdmin, true
	case strings.EqualFold(s, string(RoleOperator)):
		return RoleOperator, true
	}
	return "", false
}

// Principal is the authenticated actor behind a request.
type Principal struct {
	ID   string
	Role Role
}

// Authorize reports whether role is one of required.
func Authorize(role Role, required ...Role) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// JwtCustomClaims are the claims carried by access tokens issued by the
// identity provider.
type JwtCustomClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
