package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relay-one/tray-service/internal/config"
	"github.com/relay-one/tray-service/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	// A file-backed database: every pooled connection to ":memory:" would
	// see its own empty database.
	db, err := New(config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "tray-service-test.db"),
		BusyTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewRunsMigrations(t *testing.T) {
	db := newTestDB(t)

	var count int
	require.NoError(t, db.DB.Get(&count, "SELECT COUNT(*) FROM categories"))
	assert.Equal(t, 0, count)

	require.NoError(t, db.DB.Get(&count, "SELECT COUNT(*) FROM presentation_history"))
	assert.Equal(t, 0, count)
}

func TestHealth(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.Health(context.Background()))
}

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCategoryRepository(db)

	placeholder := "Type a reply"
	chat := domain.NewNotificationCategory("chat", []domain.CategoryAction{
		{Identifier: "reply", Title: "Reply", OpensApp: true, TextInputPlaceholder: &placeholder},
		{Identifier: "mute", Title: "Mute"},
	})

	t.Run("upsert and get", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, chat))

		got, err := repo.GetByIdentifier(ctx, "chat")
		require.NoError(t, err)
		assert.Equal(t, "chat", got.Identifier)
		require.Len(t, got.Actions, 2)
		assert.Equal(t, "reply", got.Actions[0].Identifier)
		require.NotNil(t, got.Actions[0].TextInputPlaceholder)
		assert.Equal(t, placeholder, *got.Actions[0].TextInputPlaceholder)
		assert.True(t, chat.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("upsert replaces actions", func(t *testing.T) {
		replaced := domain.NewNotificationCategory("chat", []domain.CategoryAction{
			{Identifier: "archive", Title: "Archive"},
		})
		require.NoError(t, repo.Upsert(ctx, replaced))

		got, err := repo.GetByIdentifier(ctx, "chat")
		require.NoError(t, err)
		require.Len(t, got.Actions, 1)
		assert.Equal(t, "archive", got.Actions[0].Identifier)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := repo.GetByIdentifier(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list is ordered by identifier", func(t *testing.T) {
		builds := domain.NewNotificationCategory("builds", []domain.CategoryAction{
			{Identifier: "open", Title: "Open"},
		})
		require.NoError(t, repo.Upsert(ctx, builds))

		got, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "builds", got[0].Identifier)
		assert.Equal(t, "chat", got[1].Identifier)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "builds"))

		_, err := repo.GetByIdentifier(ctx, "builds")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete missing", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, "ghost"), domain.ErrNotFound)
	})
}

func TestHistoryRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewHistoryRepository(db)

	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	entries := []*domain.HistoryEntry{
		{ID: "h1", Identifier: "req-1", Tag: "req-1", Title: "First", PresentedAt: base},
		{ID: "h2", Identifier: "req-2", Tag: "req-2", Title: "Second", PresentedAt: base.Add(time.Minute)},
		{ID: "h3", Identifier: "req-1", Tag: "req-1", Title: "First again", PresentedAt: base.Add(2 * time.Minute)},
	}
	for _, entry := range entries {
		require.NoError(t, repo.Record(ctx, entry))
	}

	t.Run("list newest first", func(t *testing.T) {
		got, err := repo.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "h3", got[0].ID)
		assert.Equal(t, "h1", got[2].ID)
		assert.Nil(t, got[0].DismissedAt)
	})

	t.Run("list honors limit", func(t *testing.T) {
		got, err := repo.List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "h3", got[0].ID)
	})

	t.Run("mark dismissed stamps open entries for the identifier", func(t *testing.T) {
		at := base.Add(5 * time.Minute)
		require.NoError(t, repo.MarkDismissed(ctx, "req-1", at))

		got, err := repo.List(ctx, 10)
		require.NoError(t, err)

		byID := map[string]*domain.HistoryEntry{}
		for _, entry := range got {
			byID[entry.ID] = entry
		}

		require.NotNil(t, byID["h1"].DismissedAt)
		require.NotNil(t, byID["h3"].DismissedAt)
		assert.True(t, at.Equal(*byID["h1"].DismissedAt))
		assert.Nil(t, byID["h2"].DismissedAt)
	})

	t.Run("mark dismissed leaves already-stamped entries alone", func(t *testing.T) {
		first := base.Add(5 * time.Minute)
		later := base.Add(30 * time.Minute)
		require.NoError(t, repo.MarkDismissed(ctx, "req-1", later))

		got, err := repo.List(ctx, 10)
		require.NoError(t, err)
		for _, entry := range got {
			if entry.Identifier == "req-1" {
				require.NotNil(t, entry.DismissedAt)
				assert.True(t, first.Equal(*entry.DismissedAt))
			}
		}
	})

	t.Run("mark all dismissed stamps the rest", func(t *testing.T) {
		at := base.Add(10 * time.Minute)
		require.NoError(t, repo.MarkAllDismissed(ctx, at))

		got, err := repo.List(ctx, 10)
		require.NoError(t, err)
		for _, entry := range got {
			assert.NotNil(t, entry.DismissedAt)
		}
	})
}
