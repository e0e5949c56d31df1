package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/notekeep/notekeep/pkg/badgerfx"
)

// Repository stores notes keyed by a monotonically increasing id with
// an owner index for per-identity listing. It performs no
// authorization; ownership is enforced by the guard layer.
type Repository struct {
	db       *badger.DB
	ids      *badgerfx.Sequence
	entities *badgerfx.Repository[*noteModel]
}

func NewRepository(db *badger.DB) (*Repository, error) {
	ids, err := badgerfx.NewSequence(db, "note")
	if err != nil {
		return nil, err
	}

	return &Repository{
		db:       db,
		ids:      ids,
		entities: badgerfx.NewRepository(func() *noteModel { return new(noteModel) }),
	}, nil
}

func (r *Repository) Close() error {
	return r.ids.Release()
}

// Create assigns a fresh id and stores the note.
func (r *Repository) Create(_ context.Context, draft *NoteDraft) (*Note, error) {
	id, err := r.ids.Next()
	if err != nil {
		return nil, err
	}

	model := newNoteModel(id, draft)

	err = r.db.Update(func(txn *badger.Txn) error {
		return r.entities.Write(txn, model)
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return model.toDomain(), nil
}

// GetByID retrieves a note by its id.
func (r *Repository) GetByID(_ context.Context, id uint64) (*Note, error) {
	var model *noteModel

	err := r.db.View(func(txn *badger.Txn) error {
		found, err := r.entities.Read(txn, noteKey(id))
		if err == nil {
			model = found
		}

		return err
	})

	if errors.Is(err, badgerfx.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return model.toDomain(), nil
}

// Update applies the updater to the stored note inside one
// transaction; the read-modify-write is all-or-nothing.
func (r *Repository) Update(_ context.Context, id uint64, updater func(*Note) error) (*Note, error) {
	var updated *Note

	err := r.db.Update(func(txn *badger.Txn) error {
		old, err := r.entities.Read(txn, noteKey(id))
		if err != nil {
			return err
		}

		note := old.toDomain()
		if updErr := updater(note); updErr != nil {
			return updErr
		}

		model := newNoteModel(old.ID, &NoteDraft{
			OwnerID: old.OwnerID,
			Title:   note.Title,
			Content: note.Content,
		})
		model.CreatedAt = old.CreatedAt
		model.UpdatedAt = time.Now()

		if writeErr := r.entities.Write(txn, model); writeErr != nil {
			return writeErr
		}

		updated = model.toDomain()

		return nil
	})

	if errors.Is(err, badgerfx.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return updated, nil
}

// Delete removes a note. Deleting an already-deleted id reports
// ErrNotFound; ids are never reused.
func (r *Repository) Delete(_ context.Context, id uint64) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return r.entities.Delete(txn, noteKey(id))
	})

	if errors.Is(err, badgerfx.ErrNotFound) {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

// ListByOwner retrieves all notes of one identity via the owner index.
func (r *Repository) ListByOwner(_ context.Context, ownerID uint64) ([]Note, error) {
	var result []Note

	err := r.db.View(func(txn *badger.Txn) error {
		models, err := r.entities.ListByIndex(txn, ownerPrefix(ownerID))
		if err != nil {
			return err
		}

		for _, model := range models {
			result = append(result, *model.toDomain())
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return result, nil
}

// ListAll retrieves every note in id order.
func (r *Repository) ListAll(_ context.Context) ([]Note, error) {
	var result []Note

	err := r.db.View(func(txn *badger.Txn) error {
		models, err := r.entities.List(txn, prefixByID, badger.DefaultIteratorOptions)
		if err != nil {
			return err
		}

		for _, model := range models {
			result = append(result, *model.toDomain())
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return result, nil
}
