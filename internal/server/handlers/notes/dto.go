package notes

import (
	"time"

	"github.com/notekeep/notekeep/internal/notes"
)

// CreateRequest represents the request payload for creating a note.
type CreateRequest struct {
	Title   string `json:"title"   validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required,min=1"`
}

// PutRequest replaces all mutable fields of a note.
type PutRequest struct {
	Title   string `json:"title"   validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required,min=1"`
}

// PatchRequest updates only the supplied fields.
type PatchRequest struct {
	Title   *string `json:"title,omitempty"   validate:"omitempty,min=1,max=200"`
	Content *string `json:"content,omitempty" validate:"omitempty,min=1"`
}

// NoteResponse represents the response payload for a note.
type NoteResponse struct {
	ID        uint64    `json:"id"`
	OwnerID   uint64    `json:"owner_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newNoteResponse(note *notes.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		OwnerID:   note.OwnerID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
