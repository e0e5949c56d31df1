package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/notekeep/notekeep/pkg/badgerfx"
)

// Repository is the credential store: identity records keyed by id with
// a username index. It performs no authorization.
type Repository struct {
	db       *badger.DB
	ids      *badgerfx.Sequence
	entities *badgerfx.Repository[*identityModel]
}

func NewRepository(db *badger.DB) (*Repository, error) {
	ids, err := badgerfx.NewSequence(db, "identity")
	if err != nil {
		return nil, err
	}

	return &Repository{
		db:       db,
		ids:      ids,
		entities: badgerfx.NewRepository(func() *identityModel { return new(identityModel) }),
	}, nil
}

func (r *Repository) Close() error {
	return r.ids.Release()
}

// GetByID retrieves an identity by id.
func (r *Repository) GetByID(_ context.Context, id uint64) (*Identity, error) {
	var model *identityModel

	err := r.db.View(func(txn *badger.Txn) error {
		found, err := r.entities.Read(txn, identityKey(id))
		if err == nil {
			model = found
		}

		return err
	})

	if errors.Is(err, badgerfx.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	return model.toDomain(), nil
}

// GetByUsername retrieves an identity via the username index.
func (r *Repository) GetByUsername(_ context.Context, username string) (*Identity, error) {
	var model *identityModel

	err := r.db.View(func(txn *badger.Txn) error {
		found, err := r.entities.ReadByIndex(txn, identityNameKey(username))
		if err == nil {
			model = found
		}

		return err
	})

	if errors.Is(err, badgerfx.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	return model.toDomain(), nil
}

// Create provisions a new identity with a fresh id. The username must
// be unused.
func (r *Repository) Create(_ context.Context, draft IdentityDraft, passwordHash string) (*Identity, error) {
	id, err := r.ids.Next()
	if err != nil {
		return nil, err
	}

	model := newIdentityModel(id, draft, passwordHash)

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, getErr := r.entities.ReadByIndex(txn, identityNameKey(draft.Username)); getErr == nil {
			return fmt.Errorf("%w: %s", ErrDuplicateUser, draft.Username)
		} else if !errors.Is(getErr, badgerfx.ErrNotFound) {
			return getErr
		}

		return r.entities.Write(txn, model)
	})

	if err != nil {
		return nil, err
	}

	return model.toDomain(), nil
}

// Delete removes an identity. Resources owned by it are not cascaded;
// they become immutable for non-admins since ownership can no longer
// match.
func (r *Repository) Delete(_ context.Context, id uint64) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return r.entities.Delete(txn, identityKey(id))
	})

	if errors.Is(err, badgerfx.ErrNotFound) {
		return fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}

	return nil
}

// List retrieves all identities in id order.
func (r *Repository) List(_ context.Context) ([]Identity, error) {
	var identities []Identity

	err := r.db.View(func(txn *badger.Txn) error {
		models, err := r.entities.List(txn, prefixByID, badger.DefaultIteratorOptions)
		if err != nil {
			return err
		}

		for _, model := range models {
			identities = append(identities, *model.toDomain())
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}

	return identities, nil
}
