package auth

import "time"

// Role represents the role of an identity in the system.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}

	return false
}

type IdentityDraft struct {
	Username string
	Password string
	Role     Role
}

type Identity struct {
	ID       uint64
	Username string
	// PasswordHash is the bcrypt hash of the secret. It never leaves
	// the auth package through API responses or logs.
	PasswordHash string
	Role         Role

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owned is implemented by resources that carry an owning identity.
type Owned interface {
	OwnedBy() uint64
}
