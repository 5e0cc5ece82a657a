// Package seed produces sample readings for demo meters.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/milad/energycost/internal/domain"
	"github.com/milad/energycost/internal/repo"
)

// Interval is the spacing of generated readings.
const Interval = 10 * time.Second

// Generate returns n readings ending at now, Interval apart, oldest first, with random
// amounts in [0, 1) kept to four decimal places.
func Generate(n int, now time.Time, rng *rand.Rand) []domain.Reading {
	out := make([]domain.Reading, 0, n)
	for i := n - 1; i >= 0; i-- {
		amount := domain.MustDecimal(fmt.Sprintf("%.4f", rng.Float64()))
		out = append(out, domain.Reading{
			Time:   now.Add(-time.Duration(i) * Interval),
			Amount: amount,
		})
	}
	return out
}

// Meters appends n generated readings to store for each meter.
func Meters(ctx context.Context, store repo.ReadingRepository, meterIDs []string, n int, now time.Time, rng *rand.Rand) error {
	for _, id := range meterIDs {
		if err := store.Append(ctx, id, Generate(n, now, rng)); err != nil {
			return fmt.Errorf("seed %q: %w", id, err)
		}
	}
	return nil
}
