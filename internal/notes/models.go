package notes

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	prefix = "note:"

	prefixByID    = prefix + "id:"
	prefixByOwner = prefix + "owner:"
)

type noteModel struct {
	ID        uint64    `json:"id"`
	OwnerID   uint64    `json:"owner_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newNoteModel(id uint64, draft *NoteDraft) *noteModel {
	return &noteModel{
		ID:        id,
		OwnerID:   draft.OwnerID,
		Title:     draft.Title,
		Content:   draft.Content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// noteKey zero-pads the id so prefix scans iterate in id order.
func noteKey(id uint64) string {
	return fmt.Sprintf("%s%020d", prefixByID, id)
}

func ownerPrefix(ownerID uint64) string {
	return fmt.Sprintf("%s%020d:", prefixByOwner, ownerID)
}

func (m *noteModel) StorageKey() string {
	return noteKey(m.ID)
}

func (m *noteModel) StorageIndexes() []string {
	return []string{fmt.Sprintf("%s%020d", ownerPrefix(m.OwnerID), m.ID)}
}

func (m *noteModel) MarshalStorage() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal note: %w", err)
	}

	return data, nil
}

func (m *noteModel) UnmarshalStorage(data []byte) error {
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("failed to unmarshal note: %w", err)
	}

	return nil
}

func (m *noteModel) toDomain() *Note {
	if m == nil {
		return nil
	}

	return &Note{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Title:     m.Title,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
