package pgrepo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milad/energycost/internal/domain"
	"github.com/milad/energycost/internal/repo"
)

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "  ")
	assert.Error(t, err)
}

func TestOpen_PingHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, "postgres://energy@127.0.0.1:1/energy?sslmode=disable")
	assert.ErrorIs(t, err, context.Canceled)
}

// TestStore_Postgres runs against a real database when ENERGY_TEST_POSTGRES_DSN is set.
func TestStore_Postgres(t *testing.T) {
	dsn := os.Getenv("ENERGY_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ENERGY_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	store, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	meter := fmt.Sprintf("test-meter-%d", time.Now().UnixNano())
	t.Cleanup(func() { _, _ = store.db.ExecContext(ctx, `DELETE FROM meter_readings WHERE meter_id = $1`, meter) })

	_, err = store.List(ctx, meter)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	base := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, meter, []domain.Reading{
		{Time: base.Add(time.Hour), Amount: domain.MustDecimal("5.0")},
		{Time: base, Amount: domain.MustDecimal("15.0")},
	}))

	got, err := store.List(ctx, meter)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Time.Equal(base))
	assert.Equal(t, "15.0", got[0].Amount.String())
}
