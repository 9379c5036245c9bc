package auth

import "github.com/golang-jwt/jwt/v5"

// Role describes the access level encoded in an access token. Identity itself
// is owned by the external auth provider; the backend only consumes it.
type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RolePlayer, RoleAdmin:
		return true
	}
	return false
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID string
	Role   Role
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
