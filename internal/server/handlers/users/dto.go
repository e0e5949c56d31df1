package users

import (
	"time"

	"github.com/notekeep/notekeep/internal/auth"
)

// CreateRequest represents the request payload for provisioning an
// identity.
type CreateRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role"     validate:"required,oneof=user admin"`
}

// IdentityResponse represents an identity. The secret hash is never
// part of it.
type IdentityResponse struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newIdentityResponse(identity *auth.Identity) IdentityResponse {
	return IdentityResponse{
		ID:        identity.ID,
		Username:  identity.Username,
		Role:      string(identity.Role),
		CreatedAt: identity.CreatedAt,
		UpdatedAt: identity.UpdatedAt,
	}
}
