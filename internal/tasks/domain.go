package tasks

import "time"

type TaskDraft struct {
	OwnerID     uint64
	Title       string
	Description string
}

// TaskUpdate replaces all mutable fields of a task (PUT semantics).
type TaskUpdate struct {
	Title       string
	Description string
	Done        bool
}

// TaskPatch merges only the supplied fields (PATCH semantics).
type TaskPatch struct {
	Title       *string
	Description *string
	Done        *bool
}

type Task struct {
	ID          uint64
	OwnerID     uint64
	Title       string
	Description string
	Done        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy implements auth.Owned.
func (t *Task) OwnedBy() uint64 {
	return t.OwnerID
}
