package notes

import "time"

type NoteDraft struct {
	OwnerID uint64
	Title   string
	Content string
}

// NoteUpdate replaces all mutable fields of a note (PUT semantics).
type NoteUpdate struct {
	Title   string
	Content string
}

// NotePatch merges only the supplied fields (PATCH semantics).
type NotePatch struct {
	Title   *string
	Content *string
}

type Note struct {
	ID      uint64
	OwnerID uint64
	Title   string
	Content string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy implements auth.Owned.
func (n *Note) OwnedBy() uint64 {
	return n.OwnerID
}
