package domain

import "time"

// PricePlan is a named tariff. Cost estimation uses UnitRate only; the peak time
// multipliers are kept for Price lookups of a single instant.
type PricePlan struct {
	ID                  string
	EnergySupplier      string
	UnitRate            Decimal
	PeakTimeMultipliers []PeakTimeMultiplier
}

type PeakTimeMultiplier struct {
	Day        time.Weekday
	Multiplier Decimal
}

// Price returns the unit rate applicable at t, applying the multiplier of t's weekday if any.
func (p PricePlan) Price(t time.Time) Decimal {
	for _, m := range p.PeakTimeMultipliers {
		if m.Day == t.Weekday() {
			return p.UnitRate.Mul(m.Multiplier)
		}
	}
	return p.UnitRate
}
