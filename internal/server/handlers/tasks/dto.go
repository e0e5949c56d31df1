package tasks

import (
	"time"

	"github.com/notekeep/notekeep/internal/tasks"
)

// CreateRequest represents the request payload for creating a task.
// Tasks start not done.
type CreateRequest struct {
	Title       string `json:"title"       validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=1000"`
}

// PutRequest replaces all mutable fields of a task.
type PutRequest struct {
	Title       string `json:"title"       validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Done        bool   `json:"done"`
}

// PatchRequest updates only the supplied fields.
type PatchRequest struct {
	Title       *string `json:"title,omitempty"       validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Done        *bool   `json:"done,omitempty"`
}

// TaskResponse represents the response payload for a task.
type TaskResponse struct {
	ID          uint64    `json:"id"`
	OwnerID     uint64    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskResponse(task *tasks.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Done:        task.Done,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
