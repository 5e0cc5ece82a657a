package seed

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milad/energycost/internal/repo/memrepo"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	got := Generate(20, now, rand.New(rand.NewSource(1)))

	require.Len(t, got, 20)
	assert.True(t, got[19].Time.Equal(now))
	assert.True(t, got[0].Time.Equal(now.Add(-19*Interval)))
	for i, r := range got {
		assert.GreaterOrEqual(t, r.Amount.Sign(), 0)
		assert.Equal(t, int32(-4), r.Amount.Exponent(), "reading %d", i)
		if i > 0 {
			assert.True(t, got[i-1].Time.Before(r.Time))
		}
	}
}

func TestMeters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memrepo.NewReadings()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, Meters(ctx, store, []string{"smart-meter-0", "smart-meter-1"}, 5, now, rand.New(rand.NewSource(7))))

	for _, id := range []string{"smart-meter-0", "smart-meter-1"} {
		out, err := store.List(ctx, id)
		require.NoError(t, err)
		assert.Len(t, out, 5)
	}
}
