package auth

import (
	"context"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"auth",
		logger.WithNamedLogger("auth"),
		fx.Provide(NewRepository, fx.Private),
		fx.Provide(NewService),
		fx.Provide(NewGuard),
		fx.Invoke(func(service *Service, repository *Repository, lifecycle fx.Lifecycle) {
			lifecycle.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return service.Bootstrap(ctx)
				},
				OnStop: func(_ context.Context) error {
					return repository.Close()
				},
			})
		}),
	)
}
