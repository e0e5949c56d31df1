package auth

import "time"

type BootstrapIdentity struct {
	Username string
	Password string
	Role     Role
}

type Config struct {
	// SecretKey signs and verifies tokens. Held for process lifetime,
	// never logged.
	SecretKey []byte
	Issuer    string
	TokenTTL  time.Duration

	// Bootstrap identities are provisioned at startup if absent.
	Bootstrap []BootstrapIdentity
}
