package notes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	return NewService(newTestRepository(t), zaptest.NewLogger(t))
}

func TestService_Replace(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	note, err := service.Create(ctx, &NoteDraft{OwnerID: 1, Title: "old", Content: "old content"})
	require.NoError(t, err)

	// PUT overwrites every mutable field.
	updated, err := service.Replace(ctx, note.ID, NoteUpdate{Title: "new", Content: "new content"})
	require.NoError(t, err)
	require.Equal(t, "new", updated.Title)
	require.Equal(t, "new content", updated.Content)
	require.Equal(t, note.OwnerID, updated.OwnerID)
}

func TestService_Patch(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	note, err := service.Create(ctx, &NoteDraft{OwnerID: 1, Title: "title", Content: "content"})
	require.NoError(t, err)

	// PATCH merges only the supplied fields.
	title := "patched"
	updated, err := service.Patch(ctx, note.ID, NotePatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "patched", updated.Title)
	require.Equal(t, "content", updated.Content)

	// Empty patch changes nothing.
	unchanged, err := service.Patch(ctx, note.ID, NotePatch{})
	require.NoError(t, err)
	require.Equal(t, "patched", unchanged.Title)
	require.Equal(t, "content", unchanged.Content)
}

func TestService_ListScopes(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, &NoteDraft{OwnerID: 1, Title: "a", Content: "x"})
	require.NoError(t, err)
	_, err = service.Create(ctx, &NoteDraft{OwnerID: 2, Title: "b", Content: "y"})
	require.NoError(t, err)

	owned, err := service.ListOwned(ctx, 1)
	require.NoError(t, err)
	require.Len(t, owned, 1)

	all, err := service.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
