package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-core-fx/config"
)

type http struct {
	Address     string   `koanf:"address"`
	ProxyHeader string   `koanf:"proxy_header"`
	Proxies     []string `koanf:"proxies"`

	OpenAPI openAPIConfig `koanf:"openapi"`
}

type openAPIConfig struct {
	Enabled    bool   `koanf:"enabled"`
	PublicHost string `koanf:"public_host"`
	PublicPath string `koanf:"public_path"`
}

type storageConfig struct {
	DataDir  string `koanf:"data_dir"`
	InMemory bool   `koanf:"in_memory"`
}

type bootstrapIdentity struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Role     string `koanf:"role"`
}

type authConfig struct {
	// SecretKey signs tokens. When empty a random key is generated at
	// startup, which also means tokens do not survive a restart.
	SecretKey string              `koanf:"secret_key"`
	Issuer    string              `koanf:"issuer"`
	TokenTTL  time.Duration       `koanf:"token_ttl"`
	Bootstrap []bootstrapIdentity `koanf:"bootstrap"`
}

type Config struct {
	HTTP http `koanf:"http"`

	Storage storageConfig `koanf:"storage"`
	Auth    authConfig    `koanf:"auth"`
}

func Default() Config {
	//nolint:exhaustruct,mnd //default values
	return Config{
		HTTP: http{
			Address:     "127.0.0.1:3000",
			ProxyHeader: "X-Forwarded-For",
			Proxies:     []string{},
			OpenAPI: openAPIConfig{
				Enabled: true,
			},
		},

		Storage: storageConfig{
			DataDir:  "./data",
			InMemory: true,
		},

		Auth: authConfig{
			Issuer:   "notekeep",
			TokenTTL: 15 * time.Minute,
			Bootstrap: []bootstrapIdentity{
				{Username: "admin", Password: "admin123", Role: "admin"},
				{Username: "user1", Password: "user123", Role: "user"},
			},
		},
	}
}

func New() (Config, error) {
	cfg := Default()

	options := []config.Option{}
	if yamlPath := os.Getenv("CONFIG_PATH"); yamlPath != "" {
		options = append(options, config.WithLocalYAML(yamlPath))
	}

	if err := config.Load(&cfg, options...); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}
