package tasks

import (
	"context"

	"go.uber.org/zap"
)

type Service struct {
	tasks *Repository

	logger *zap.Logger
}

func NewService(tasks *Repository, logger *zap.Logger) *Service {
	return &Service{
		tasks:  tasks,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, draft *TaskDraft) (*Task, error) {
	task, err := s.tasks.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.logger.Info("task created", zap.Uint64("id", task.ID), zap.Uint64("owner_id", task.OwnerID))

	return task, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *Service) ListOwned(ctx context.Context, ownerID uint64) ([]Task, error) {
	return s.tasks.ListByOwner(ctx, ownerID)
}

func (s *Service) ListAll(ctx context.Context) ([]Task, error) {
	return s.tasks.ListAll(ctx)
}

// Replace overwrites all mutable fields (PUT semantics).
func (s *Service) Replace(ctx context.Context, id uint64, update TaskUpdate) (*Task, error) {
	return s.tasks.Update(ctx, id, func(task *Task) error {
		task.Title = update.Title
		task.Description = update.Description
		task.Done = update.Done
		return nil
	})
}

// Patch merges only the supplied fields (PATCH semantics).
func (s *Service) Patch(ctx context.Context, id uint64, patch TaskPatch) (*Task, error) {
	return s.tasks.Update(ctx, id, func(task *Task) error {
		if patch.Title != nil {
			task.Title = *patch.Title
		}
		if patch.Description != nil {
			task.Description = *patch.Description
		}
		if patch.Done != nil {
			task.Done = *patch.Done
		}
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id uint64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("task deleted", zap.Uint64("id", id))

	return nil
}
