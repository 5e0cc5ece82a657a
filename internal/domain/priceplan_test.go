package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPricePlan_PriceAppliesPeakMultiplier(t *testing.T) {
	t.Parallel()

	plan := PricePlan{
		ID:       "price-plan-0",
		UnitRate: MustDecimal("10"),
		PeakTimeMultipliers: []PeakTimeMultiplier{
			{Day: time.Wednesday, Multiplier: MustDecimal("1.5")},
		},
	}

	wed := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	thu := wed.Add(24 * time.Hour)

	assert.Equal(t, "15.0", plan.Price(wed).String())
	assert.Equal(t, "10", plan.Price(thu).String())
}
