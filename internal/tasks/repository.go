package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/notekeep/notekeep/pkg/badgerfx"
)

// Repository stores tasks keyed by a monotonically increasing id with
// an owner index. Authorization happens in the guard layer, never here.
type Repository struct {
	db       *badger.DB
	ids      *badgerfx.Sequence
	entities *badgerfx.Repository[*taskModel]
}

func NewRepository(db *badger.DB) (*Repository, error) {
	ids, err := badgerfx.NewSequence(db, "task")
	if err != nil {
		return nil, err
	}

	return &Repository{
		db:       db,
		ids:      ids,
		entities: badgerfx.NewRepository(func() *taskModel { return new(taskModel) }),
	}, nil
}

func (r *Repository) Close() error {
	return r.ids.Release()
}

func (r *Repository) Create(_ context.Context, draft *TaskDraft) (*Task, error) {
	id, err := r.ids.Next()
	if err != nil {
		return nil, err
	}

	model := newTaskModel(id, draft)

	err = r.db.Update(func(txn *badger.Txn) error {
		return r.entities.Write(txn, model)
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return model.toDomain(), nil
}

func (r *Repository) GetByID(_ context.Context, id uint64) (*Task, error) {
	var model *taskModel

	err := r.db.View(func(txn *badger.Txn) error {
		found, err := r.entities.Read(txn, taskKey(id))
		if err == nil {
			model = found
		}

		return err
	})

	if errors.Is(err, badgerfx.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return model.toDomain(), nil
}

func (r *Repository) Update(_ context.Context, id uint64, updater func(*Task) error) (*Task, error) {
	var updated *Task

	err := r.db.Update(func(txn *badger.Txn) error {
		old, err := r.entities.Read(txn, taskKey(id))
		if err != nil {
			return err
		}

		task := old.toDomain()
		if updErr := updater(task); updErr != nil {
			return updErr
		}

		model := newTaskModel(old.ID, &TaskDraft{
			OwnerID:     old.OwnerID,
			Title:       task.Title,
			Description: task.Description,
		})
		model.Done = task.Done
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
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return updated, nil
}

func (r *Repository) Delete(_ context.Context, id uint64) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return r.entities.Delete(txn, taskKey(id))
	})

	if errors.Is(err, badgerfx.ErrNotFound) {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (r *Repository) ListByOwner(_ context.Context, ownerID uint64) ([]Task, error) {
	var result []Task

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
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return result, nil
}

func (r *Repository) ListAll(_ context.Context) ([]Task, error) {
	var result []Task

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
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return result, nil
}
