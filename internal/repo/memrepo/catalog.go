package memrepo

import (
	"context"
	"sort"

	"github.com/milad/energycost/internal/domain"
	"github.com/milad/energycost/internal/repo"
)

var (
	_ repo.PlanCatalog       = (*Catalog)(nil)
	_ repo.AccountRepository = (*Accounts)(nil)
)

// Catalog is an immutable list of price plans loaded at startup.
type Catalog struct {
	plans []domain.PricePlan
}

func NewCatalog(plans []domain.PricePlan) *Catalog {
	return &Catalog{plans: append([]domain.PricePlan(nil), plans...)}
}

func (c *Catalog) PricePlans(ctx context.Context) ([]domain.PricePlan, error) {
	_ = ctx
	return append([]domain.PricePlan(nil), c.plans...), nil
}

// Accounts is an immutable meter to price plan mapping loaded at startup.
type Accounts struct {
	planByMeter map[string]string
}

func NewAccounts(planByMeter map[string]string) *Accounts {
	cp := make(map[string]string, len(planByMeter))
	for k, v := range planByMeter {
		cp[k] = v
	}
	return &Accounts{planByMeter: cp}
}

func (a *Accounts) PricePlanIDForMeter(ctx context.Context, meterID string) (string, bool, error) {
	_ = ctx
	id, ok := a.planByMeter[meterID]
	return id, ok, nil
}

// MeterIDs returns the meters that have an account, sorted.
func (a *Accounts) MeterIDs() []string {
	out := make([]string, 0, len(a.planByMeter))
	for id := range a.planByMeter {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
