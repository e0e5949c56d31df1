package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the identity snapshot embedded in a token. Role and
// username are frozen at issuance; later identity changes do not
// propagate until re-login.
type Claims struct {
	jwt.RegisteredClaims
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// NewClaims creates a claim snapshot for an identity.
func NewClaims(identity *Identity, issuer string, expiresAt time.Time) *Claims {
	now := time.Now()

	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		UserID:   identity.ID,
		Username: identity.Username,
		Role:     identity.Role,
	}
}
