package memtray

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relay-one/tray-service/internal/domain"
)

func TestPresentAndActive(t *testing.T) {
	ctx := context.Background()
	tray := New()

	base := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)

	require.NoError(t, tray.Present(ctx, "b", 0, domain.TrayRecord{Tag: "b", Title: "second", PostTime: base.Add(time.Minute)}))
	require.NoError(t, tray.Present(ctx, "a", 0, domain.TrayRecord{Tag: "a", Title: "first", PostTime: base}))

	records, err := tray.Active(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Ordered by post time, oldest first.
	assert.Equal(t, "first", records[0].Title)
	assert.Equal(t, "second", records[1].Title)
}

func TestPresentReplacesSamePair(t *testing.T) {
	ctx := context.Background()
	tray := New()

	require.NoError(t, tray.Present(ctx, "a", 0, domain.TrayRecord{Tag: "a", Title: "old"}))
	require.NoError(t, tray.Present(ctx, "a", 0, domain.TrayRecord{Tag: "a", Title: "new"}))

	records, err := tray.Active(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "new", records[0].Title)
}

func TestPresentDifferentIDsCoexist(t *testing.T) {
	ctx := context.Background()
	tray := New()

	require.NoError(t, tray.Present(ctx, "a", 0, domain.TrayRecord{Tag: "a"}))
	require.NoError(t, tray.Present(ctx, "a", 1, domain.TrayRecord{Tag: "a"}))

	assert.Equal(t, 2, tray.Len())
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	tray := New()

	require.NoError(t, tray.Present(ctx, "a", 0, domain.TrayRecord{Tag: "a"}))

	t.Run("removes a displayed entry", func(t *testing.T) {
		require.NoError(t, tray.Cancel(ctx, "a", 0))
		assert.Equal(t, 0, tray.Len())
	})

	t.Run("unknown pair is a no-op", func(t *testing.T) {
		assert.NoError(t, tray.Cancel(ctx, "missing", 99))
	})
}

func TestCancelAll(t *testing.T) {
	ctx := context.Background()
	tray := New()

	require.NoError(t, tray.Present(ctx, "a", 0, domain.TrayRecord{Tag: "a"}))
	require.NoError(t, tray.Present(ctx, "b", 0, domain.TrayRecord{Tag: "b"}))
	tray.Seed(domain.TrayRecord{Tag: "foreign", ID: 3})

	require.NoError(t, tray.CancelAll(ctx))

	records, err := tray.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	tray := New()

	tray.Seed(domain.TrayRecord{Tag: "foreign", ID: 3, Title: "outsider"})

	records, err := tray.Active(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "outsider", records[0].Title)

	// Seeded entries cancel under their own pair.
	require.NoError(t, tray.Cancel(ctx, "foreign", 3))
	assert.Equal(t, 0, tray.Len())
}

func TestHealth(t *testing.T) {
	assert.NoError(t, New().Health(context.Background()))
}
