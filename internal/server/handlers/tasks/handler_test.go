package tasks

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
	"github.com/notekeep/notekeep/internal/server/middleware"
	"github.com/notekeep/notekeep/internal/tasks"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testEnv struct {
	app   *fiber.App
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

	tasksRepo, err := tasks.NewRepository(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tasksRepo.Close() })
	tasksSvc := tasks.NewService(tasksRepo, logger)

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

	NewHandler(tasksSvc, guard, middleware.NewAuthenticate(guard, logger), validator.New(), logger).Register(app)

	env := &testEnv{app: app}
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

func TestTasks_Lifecycle(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodPost, "/tasks", env.user1,
		CreateRequest{Title: "Task 1", Description: "Description for Task 1"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var task TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
	require.Equal(t, uint64(1), task.ID)
	require.False(t, task.Done)

	// Flip done without touching the rest.
	resp = env.request(t, fiber.MethodPatch, "/tasks/1", env.user1, fiber.Map{"done": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	require.True(t, updated.Done)
	require.Equal(t, "Task 1", updated.Title)

	resp = env.request(t, fiber.MethodDelete, "/tasks/1", env.user1, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = env.request(t, fiber.MethodGet, "/tasks/1", env.user1, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTasks_OwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodPost, "/tasks", env.user1, CreateRequest{Title: "private"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = env.request(t, fiber.MethodGet, "/tasks/1", env.user2, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.request(t, fiber.MethodPatch, "/tasks/1", env.user2, fiber.Map{"done": true})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestTasks_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodGet, "/tasks", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
