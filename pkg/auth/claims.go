package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/angelmondragon/pdv-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    string
	CompanyID string
	Role      enums.UserRole
	// SessionID becomes the jti and keys the server-side session.
	SessionID string
}

// AccessTokenClaims represents the typed JWT issued to operators.
type AccessTokenClaims struct {
	UserID    string         `json:"user_id"`
	CompanyID string         `json:"company_id,omitempty"`
	Role      enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// SessionID returns the session the token was minted for.
func (c *AccessTokenClaims) SessionID() string {
	return c.ID
}
