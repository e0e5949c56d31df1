package config

import (
	"crypto/rand"
	"fmt"

	"github.com/go-core-fx/fiberfx"
	"github.com/notekeep/notekeep/internal/auth"
	"github.com/notekeep/notekeep/pkg/badgerfx"
	"github.com/notekeep/notekeep/pkg/openapifx"
	"go.uber.org/fx"
)

const generatedKeyLength = 32

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
		fx.Provide(func(cfg Config) fiberfx.Config {
			return fiberfx.Config{
				Address:     cfg.HTTP.Address,
				ProxyHeader: cfg.HTTP.ProxyHeader,
				Proxies:     cfg.HTTP.Proxies,
			}
		}),
		fx.Provide(func(cfg Config) badgerfx.Config {
			return badgerfx.Config{
				Dir:      cfg.Storage.DataDir,
				InMemory: cfg.Storage.InMemory,
			}
		}),
		fx.Provide(func(cfg Config) (auth.Config, error) {
			key := []byte(cfg.Auth.SecretKey)
			if len(key) == 0 {
				key = make([]byte, generatedKeyLength)
				if _, err := rand.Read(key); err != nil {
					return auth.Config{}, fmt.Errorf("failed to generate signing key: %w", err)
				}
			}

			bootstrap := make([]auth.BootstrapIdentity, 0, len(cfg.Auth.Bootstrap))
			for _, seed := range cfg.Auth.Bootstrap {
				bootstrap = append(bootstrap, auth.BootstrapIdentity{
					Username: seed.Username,
					Password: seed.Password,
					Role:     auth.Role(seed.Role),
				})
			}

			return auth.Config{
				SecretKey: key,
				Issuer:    cfg.Auth.Issuer,
				TokenTTL:  cfg.Auth.TokenTTL,
				Bootstrap: bootstrap,
			}, nil
		}),
		fx.Provide(func(cfg Config) openapifx.Config {
			return openapifx.Config{
				Enabled:    cfg.HTTP.OpenAPI.Enabled,
				PublicHost: cfg.HTTP.OpenAPI.PublicHost,
				PublicPath: cfg.HTTP.OpenAPI.PublicPath,
			}
		}),
	)
}
