package auth

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	prefix = "identity:"

	prefixByID   = prefix + "id:"
	prefixByName = prefix + "name:"
)

// identityModel represents an identity record in storage.
type identityModel struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newIdentityModel(id uint64, draft IdentityDraft, passwordHash string) *identityModel {
	return &identityModel{
		ID:           id,
		Username:     draft.Username,
		PasswordHash: passwordHash,
		Role:         draft.Role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// identityKey zero-pads the id so prefix scans iterate in id order.
func identityKey(id uint64) string {
	return fmt.Sprintf("%s%020d", prefixByID, id)
}

func identityNameKey(name string) string {
	return prefixByName + name
}

func (m *identityModel) StorageKey() string {
	return identityKey(m.ID)
}

func (m *identityModel) StorageIndexes() []string {
	return []string{identityNameKey(m.Username)}
}

func (m *identityModel) MarshalStorage() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal identity: %w", err)
	}

	return data, nil
}

func (m *identityModel) UnmarshalStorage(data []byte) error {
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("failed to unmarshal identity: %w", err)
	}

	return nil
}

func (m *identityModel) toDomain() *Identity {
	if m == nil {
		return nil
	}

	return &Identity{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
