package tasks

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	prefix = "task:"

	prefixByID    = prefix + "id:"
	prefixByOwner = prefix + "owner:"
)

type taskModel struct {
	ID          uint64    `json:"id"`
	OwnerID     uint64    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskModel(id uint64, draft *TaskDraft) *taskModel {
	return &taskModel{
		ID:          id,
		OwnerID:     draft.OwnerID,
		Title:       draft.Title,
		Description: draft.Description,
		Done:        false,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func taskKey(id uint64) string {
	return fmt.Sprintf("%s%020d", prefixByID, id)
}

func ownerPrefix(ownerID uint64) string {
	return fmt.Sprintf("%s%020d:", prefixByOwner, ownerID)
}

func (m *taskModel) StorageKey() string {
	return taskKey(m.ID)
}

func (m *taskModel) StorageIndexes() []string {
	return []string{fmt.Sprintf("%s%020d", ownerPrefix(m.OwnerID), m.ID)}
}

func (m *taskModel) MarshalStorage() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}

	return data, nil
}

func (m *taskModel) UnmarshalStorage(data []byte) error {
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}

	return nil
}

func (m *taskModel) toDomain() *Task {
	if m == nil {
		return nil
	}

	return &Task{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		Done:        m.Done,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
