package notes

import (
	"context"

	"go.uber.org/zap"
)

type Service struct {
	notes *Repository

	logger *zap.Logger
}

func NewService(notes *Repository, logger *zap.Logger) *Service {
	return &Service{
		notes:  notes,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, draft *NoteDraft) (*Note, error) {
	note, err := s.notes.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.logger.Info("note created", zap.Uint64("id", note.ID), zap.Uint64("owner_id", note.OwnerID))

	return note, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*Note, error) {
	return s.notes.GetByID(ctx, id)
}

// ListOwned returns the notes belonging to one identity.
func (s *Service) ListOwned(ctx context.Context, ownerID uint64) ([]Note, error) {
	return s.notes.ListByOwner(ctx, ownerID)
}

// ListAll returns every note; admin-scoped listing.
func (s *Service) ListAll(ctx context.Context) ([]Note, error) {
	return s.notes.ListAll(ctx)
}

// Replace overwrites all mutable fields (PUT semantics).
func (s *Service) Replace(ctx context.Context, id uint64, update NoteUpdate) (*Note, error) {
	return s.notes.Update(ctx, id, func(note *Note) error {
		note.Title = update.Title
		note.Content = update.Content
		return nil
	})
}

// Patch merges only the supplied fields (PATCH semantics).
func (s *Service) Patch(ctx context.Context, id uint64, patch NotePatch) (*Note, error) {
	return s.notes.Update(ctx, id, func(note *Note) error {
		if patch.Title != nil {
			note.Title = *patch.Title
		}
		if patch.Content != nil {
			note.Content = *patch.Content
		}
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id uint64) error {
	if err := s.notes.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("note deleted", zap.Uint64("id", id))

	return nil
}
