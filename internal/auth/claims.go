package auth

import "github.com/golang-jwt/jwt/v5"

const (
	TokenTypeAccess        = "access"
	TokenTypeRefresh       = "refresh"
	TokenTypePasswordReset = "password_reset"
)

// Claims is the payload of every token the service signs.
type Claims struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type"`

	// PasswordFingerprint binds a reset token to the password hash it was issued against.
	PasswordFingerprint string `json:"pwd,omitempty"`

	jwt.RegisteredClaims
}

type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
