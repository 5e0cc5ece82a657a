package repo

import (
	"context"
	"errors"

	"github.com/milad/energycost/internal/domain"
)

// ErrNotFound is returned when no readings are stored for a meter.
var ErrNotFound = errors.New("not found")

// ReadingRepository stores electricity readings per smart meter.
type ReadingRepository interface {
	// Append adds readings to the meter's existing readings; it never replaces them.
	Append(ctx context.Context, meterID string, readings []domain.Reading) error
	// List returns every reading of the meter, or ErrNotFound if there are none.
	// The returned slice is owned by the caller.
	List(ctx context.Context, meterID string) ([]domain.Reading, error)
}

// PlanCatalog provides the price plans that can be compared.
type PlanCatalog interface {
	// PricePlans returns every plan in catalog order.
	PricePlans(ctx context.Context) ([]domain.PricePlan, error)
}

// AccountRepository maps smart meters to their current price plan.
type AccountRepository interface {
	PricePlanIDForMeter(ctx context.Context, meterID string) (string, bool, error)
}
