package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username is unknown so that
// lookups of absent and present users cost the same.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type Service struct {
	config Config

	identities *Repository

	logger *zap.Logger
}

func NewService(config Config, identities *Repository, logger *zap.Logger) *Service {
	return &Service{
		config: config,

		identities: identities,

		logger: logger,
	}
}

// Authenticate validates credentials and mints a signed token. The
// failure reason (unknown user vs. bad password) is never
// distinguished to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Identity, string, *Claims, error) {
	identity, err := s.identities.GetByUsername(ctx, username)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, "", nil, ErrInvalidCredentials
	}

	token, claims, err := s.GenerateToken(identity)
	if err != nil {
		return nil, "", nil, err
	}

	return identity, token, claims, nil
}

// GenerateToken signs a claim snapshot of the identity. Issuance is
// stateless; nothing is stored server-side.
func (s *Service) GenerateToken(identity *Identity) (string, *Claims, error) {
	claims := NewClaims(identity, s.config.Issuer, time.Now().Add(s.config.TokenTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.config.SecretKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, claims, nil
}

// ValidateToken verifies signature and time bounds and recovers the
// embedded claims. The credential store is not re-checked; claims are a
// frozen snapshot from issuance.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.config.SecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithExpirationRequired(), jwt.WithIssuer(s.config.Issuer), jwt.WithIssuedAt())

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		}

		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// CreateIdentity provisions a new identity. Administrative operation;
// not on the request-handling hot path.
func (s *Service) CreateIdentity(ctx context.Context, draft IdentityDraft) (*Identity, error) {
	if !draft.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidCredentials, draft.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(draft.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity, err := s.identities.Create(ctx, draft, string(hash))
	if err != nil {
		return nil, err
	}

	s.logger.Info("identity created",
		zap.Uint64("id", identity.ID),
		zap.String("username", identity.Username),
		zap.String("role", string(identity.Role)),
	)

	return identity, nil
}

func (s *Service) GetIdentity(ctx context.Context, id uint64) (*Identity, error) {
	return s.identities.GetByID(ctx, id)
}

func (s *Service) ListIdentities(ctx context.Context) ([]Identity, error) {
	return s.identities.List(ctx)
}

func (s *Service) DeleteIdentity(ctx context.Context, id uint64) error {
	if err := s.identities.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("identity deleted", zap.Uint64("id", id))

	return nil
}

// Bootstrap provisions the configured initial identities, skipping any
// username that already exists.
func (s *Service) Bootstrap(ctx context.Context) error {
	for _, seed := range s.config.Bootstrap {
		if _, err := s.identities.GetByUsername(ctx, seed.Username); err == nil {
			continue
		} else if !errors.Is(err, ErrUserNotFound) {
			return err
		}

		if _, err := s.CreateIdentity(ctx, IdentityDraft{
			Username: seed.Username,
			Password: seed.Password,
			Role:     seed.Role,
		}); err != nil {
			return fmt.Errorf("failed to bootstrap identity %q: %w", seed.Username, err)
		}
	}

	return nil
}
