package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestDB(t *testing.T) *badger.DB {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()

	repository, err := NewRepository(newTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close() })

	config := Config{
		SecretKey: []byte("test-signing-key-0123456789abcdef"),
		Issuer:    "notekeep",
		TokenTTL:  ttl,
	}

	return NewService(config, repository, zaptest.NewLogger(t))
}

func mustCreate(t *testing.T, service *Service, username, password string, role Role) *Identity {
	t.Helper()

	identity, err := service.CreateIdentity(context.Background(), IdentityDraft{
		Username: username,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)

	return identity
}

func TestService_Authenticate_Roundtrip(t *testing.T) {
	service := newTestService(t, 15*time.Minute)
	created := mustCreate(t, service, "admin", "admin123", RoleAdmin)

	identity, token, claims, err := service.Authenticate(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.Equal(t, created.ID, identity.ID)
	require.NotEmpty(t, token)

	verified, err := service.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, created.ID, verified.UserID)
	require.Equal(t, "admin", verified.Username)
	require.Equal(t, RoleAdmin, verified.Role)
	require.Equal(t, claims.ExpiresAt.Time.Unix(), verified.ExpiresAt.Time.Unix())
}

func TestService_Authenticate_BadPassword(t *testing.T) {
	service := newTestService(t, 15*time.Minute)
	mustCreate(t, service, "user1", "user123", RoleUser)

	_, _, _, err := service.Authenticate(context.Background(), "user1", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Authenticate_UnknownUser(t *testing.T) {
	service := newTestService(t, 15*time.Minute)

	_, _, _, err := service.Authenticate(context.Background(), "ghost", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	service := newTestService(t, -time.Minute)
	identity := mustCreate(t, service, "user1", "user123", RoleUser)

	token, _, err := service.GenerateToken(identity)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestService_ValidateToken_TamperedSignature(t *testing.T) {
	service := newTestService(t, 15*time.Minute)
	identity := mustCreate(t, service, "user1", "user123", RoleUser)

	token, _, err := service.GenerateToken(identity)
	require.NoError(t, err)

	// Flip the first character of the signature segment.
	dot := strings.LastIndexByte(token, '.')
	require.Positive(t, dot)
	flipped := byte('A')
	if token[dot+1] == 'A' {
		flipped = 'B'
	}
	tampered := token[:dot+1] + string(flipped) + token[dot+2:]

	_, err = service.ValidateToken(tampered)
	require.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestService_ValidateToken_Malformed(t *testing.T) {
	service := newTestService(t, 15*time.Minute)

	for _, raw := range []string{"", "garbage", "a.b", strings.Repeat("x", 100)} {
		_, err := service.ValidateToken(raw)
		require.ErrorIs(t, err, ErrTokenMalformed, "token %q", raw)
	}
}

func TestService_ValidateToken_WrongKey(t *testing.T) {
	service := newTestService(t, 15*time.Minute)
	other := newTestService(t, 15*time.Minute)
	other.config.SecretKey = []byte("another-signing-key-xxxxxxxxxxxx")

	identity := mustCreate(t, service, "user1", "user123", RoleUser)

	token, _, err := service.GenerateToken(identity)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	require.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestService_CreateIdentity_Duplicate(t *testing.T) {
	service := newTestService(t, 15*time.Minute)
	mustCreate(t, service, "user1", "user123", RoleUser)

	_, err := service.CreateIdentity(context.Background(), IdentityDraft{
		Username: "user1",
		Password: "other",
		Role:     RoleUser,
	})
	require.ErrorIs(t, err, ErrDuplicateUser)
}

func TestService_DeleteIdentity(t *testing.T) {
	service := newTestService(t, 15*time.Minute)
	identity := mustCreate(t, service, "user1", "user123", RoleUser)

	require.NoError(t, service.DeleteIdentity(context.Background(), identity.ID))

	_, err := service.GetIdentity(context.Background(), identity.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	err = service.DeleteIdentity(context.Background(), identity.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_Bootstrap_Idempotent(t *testing.T) {
	service := newTestService(t, 15*time.Minute)
	service.config.Bootstrap = []BootstrapIdentity{
		{Username: "admin", Password: "admin123", Role: RoleAdmin},
		{Username: "user1", Password: "user123", Role: RoleUser},
	}

	require.NoError(t, service.Bootstrap(context.Background()))
	require.NoError(t, service.Bootstrap(context.Background()))

	identities, err := service.ListIdentities(context.Background())
	require.NoError(t, err)
	require.Len(t, identities, 2)

	_, _, _, err = service.Authenticate(context.Background(), "admin", "admin123")
	require.NoError(t, err)
}

func TestService_TokenClaims_FrozenAtIssuance(t *testing.T) {
	service := newTestService(t, 15*time.Minute)
	identity := mustCreate(t, service, "user1", "user123", RoleUser)

	token, _, err := service.GenerateToken(identity)
	require.NoError(t, err)

	// Deleting the identity does not invalidate outstanding tokens;
	// verification never re-checks the credential store.
	require.NoError(t, service.DeleteIdentity(context.Background(), identity.ID))

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, identity.ID, claims.UserID)
	require.Equal(t, RoleUser, claims.Role)
}
