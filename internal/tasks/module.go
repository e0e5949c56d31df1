package tasks

import (
	"context"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"tasks",
		logger.WithNamedLogger("tasks"),
		fx.Provide(NewRepository, fx.Private),
		fx.Provide(NewService),
		fx.Invoke(func(repository *Repository, lifecycle fx.Lifecycle) {
			lifecycle.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					return repository.Close()
				},
			})
		}),
	)
}
