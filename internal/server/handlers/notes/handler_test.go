package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/notekeep/notekeep/internal/auth"
	"github.com/notekeep/notekeep/internal/notes"
	"github.com/notekeep/notekeep/internal/server/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testEnv struct {
	app   *fiber.App
	admin string
	user1 string
	user2 string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	authRepo, err := auth.NewRepository(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = authRepo.Close() })

	logger := zaptest.NewLogger(t)
	authSvc := auth.NewService(auth.Config{
		SecretKey: []byte("test-signing-key-0123456789abcdef"),
		Issuer:    "notekeep",
		TokenTTL:  15 * time.Minute,
	}, authRepo, logger)

	notesRepo, err := notes.NewRepository(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = notesRepo.Close() })
	notesSvc := notes.NewService(notesRepo, logger)

	guard := auth.NewGuard(authSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	NewHandler(notesSvc, guard, middleware.NewAuthenticate(guard, logger), validator.New(), logger).Register(app)

	env := &testEnv{app: app}
	env.admin = tokenFor(t, authSvc, "admin", auth.RoleAdmin)
	env.user1 = tokenFor(t, authSvc, "user1", auth.RoleUser)
	env.user2 = tokenFor(t, authSvc, "user2", auth.RoleUser)

	return env
}

func tokenFor(t *testing.T, svc *auth.Service, username string, role auth.Role) string {
	t.Helper()

	identity, err := svc.CreateIdentity(context.Background(), auth.IdentityDraft{
		Username: username,
		Password: username + "-secret",
		Role:     role,
	})
	require.NoError(t, err)

	token, _, err := svc.GenerateToken(identity)
	require.NoError(t, err)

	return token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)

	return resp
}

func (e *testEnv) createNote(t *testing.T, token, title, content string) NoteResponse {
	t.Helper()

	resp := e.request(t, fiber.MethodPost, "/notes", token, CreateRequest{Title: title, Content: content})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var note NoteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&note))

	return note
}

func TestNotes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodGet, "/notes", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Contains(t, body, "error")

	resp = env.request(t, fiber.MethodGet, "/notes", "not-a-valid-token", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestNotes_Create(t *testing.T) {
	env := newTestEnv(t)

	note := env.createNote(t, env.user1, "Note 1", "hello")
	require.Equal(t, uint64(1), note.ID)
	require.Equal(t, "Note 1", note.Title)
	require.NotZero(t, note.OwnerID)

	// A body is mandatory.
	resp := env.request(t, fiber.MethodPost, "/notes", env.user1, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// So is the content field.
	resp = env.request(t, fiber.MethodPost, "/notes", env.user1, fiber.Map{"title": "only title"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestNotes_GetMissing(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodGet, "/notes/99", env.user1, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Contains(t, body, "error")

	resp = env.request(t, fiber.MethodGet, "/notes/not-a-number", env.user1, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestNotes_OwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)

	note := env.createNote(t, env.user1, "private", "mine")
	path := "/notes/1"
	require.Equal(t, uint64(1), note.ID)

	// The owner and admins may read it.
	resp := env.request(t, fiber.MethodGet, path, env.user1, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = env.request(t, fiber.MethodGet, path, env.admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Everyone else is rejected, on reads and writes alike.
	resp = env.request(t, fiber.MethodGet, path, env.user2, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp = env.request(t, fiber.MethodPut, path, env.user2, PutRequest{Title: "x", Content: "y"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp = env.request(t, fiber.MethodDelete, path, env.user2, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestNotes_PutReplaces(t *testing.T) {
	env := newTestEnv(t)

	note := env.createNote(t, env.user1, "old", "old content")

	resp := env.request(t, fiber.MethodPut, "/notes/1", env.user1, PutRequest{Title: "new", Content: "new content"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated NoteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	require.Equal(t, "new", updated.Title)
	require.Equal(t, "new content", updated.Content)
	require.Equal(t, note.OwnerID, updated.OwnerID)

	// PUT requires the full payload.
	resp = env.request(t, fiber.MethodPut, "/notes/1", env.user1, fiber.Map{"title": "partial"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestNotes_PatchMerges(t *testing.T) {
	env := newTestEnv(t)

	env.createNote(t, env.user1, "title", "content")

	resp := env.request(t, fiber.MethodPatch, "/notes/1", env.user1, fiber.Map{"title": "patched"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated NoteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	require.Equal(t, "patched", updated.Title)
	require.Equal(t, "content", updated.Content)
}

func TestNotes_DeleteIdempotence(t *testing.T) {
	env := newTestEnv(t)

	env.createNote(t, env.user1, "doomed", "x")

	resp := env.request(t, fiber.MethodDelete, "/notes/1", env.user1, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	// The second delete finds nothing.
	resp = env.request(t, fiber.MethodDelete, "/notes/1", env.user1, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNotes_ListScopedByRole(t *testing.T) {
	env := newTestEnv(t)

	env.createNote(t, env.user1, "a", "x")
	env.createNote(t, env.user2, "b", "y")

	list := func(token string) []NoteResponse {
		resp := env.request(t, fiber.MethodGet, "/notes", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var result []NoteResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		return result
	}

	require.Len(t, list(env.user1), 1)
	require.Len(t, list(env.user2), 1)
	require.Len(t, list(env.admin), 2)
}
