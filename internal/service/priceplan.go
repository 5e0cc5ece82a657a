package service

import (
	"context"
	"fmt"
	"time"

	"github.com/milad/energycost/internal/domain"
	"github.com/milad/energycost/internal/pricing"
	"github.com/milad/energycost/internal/repo"
)

// Comparison is the cost of a meter's readings under every plan, along with the plan
// the meter is currently on. PricePlanID is empty when the meter has no account.
type Comparison struct {
	PricePlanID string
	Costs       []pricing.PlanCost
}

// DayCost is the cost of a meter's readings for one day-of-week under its current plan.
type DayCost struct {
	PricePlanID string
	Day         string
	Cost        domain.Decimal
}

// PricePlanService compares the readings of a meter against the plan catalog.
type PricePlanService struct {
	readings repo.ReadingRepository
	plans    repo.PlanCatalog
	accounts repo.AccountRepository

	now func() time.Time
	loc *time.Location
}

type Option func(*PricePlanService)

// WithClock overrides time.Now, which anchors the last-week and day-of-week windows.
func WithClock(now func() time.Time) Option {
	return func(s *PricePlanService) { s.now = now }
}

// WithLocation sets the time zone used to decide the day of week. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *PricePlanService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewPricePlanService(readings repo.ReadingRepository, plans repo.PlanCatalog, accounts repo.AccountRepository, opts ...Option) *PricePlanService {
	s := &PricePlanService{
		readings: readings,
		plans:    plans,
		accounts: accounts,
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PricePlanService) PricePlans(ctx context.Context) ([]domain.PricePlan, error) {
	plans, err := s.plans.PricePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("list price plans: %w", err)
	}
	return plans, nil
}

// PlanRate is a catalog plan with the unit rate it charges at the service clock's instant.
type PlanRate struct {
	Plan        domain.PricePlan
	CurrentRate domain.Decimal
}

// CurrentRates lists the catalog, pricing each plan on today's weekday in the
// configured location.
func (s *PricePlanService) CurrentRates(ctx context.Context) ([]PlanRate, error) {
	plans, err := s.PricePlans(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)
	out := make([]PlanRate, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanRate{Plan: p, CurrentRate: p.Price(now)})
	}
	return out, nil
}

// CompareAll estimates the meter's cost under every plan.
func (s *PricePlanService) CompareAll(ctx context.Context, meterID string) (Comparison, error) {
	readings, err := loadReadings(ctx, s.readings, meterID)
	if err != nil {
		return Comparison{}, err
	}
	plans, err := s.PricePlans(ctx)
	if err != nil {
		return Comparison{}, err
	}
	planID, _, err := s.accounts.PricePlanIDForMeter(ctx, meterID)
	if err != nil {
		return Comparison{}, fmt.Errorf("lookup account: %w", err)
	}
	return Comparison{
		PricePlanID: planID,
		Costs:       pricing.CostForEachPlan(readings, plans),
	}, nil
}

// Recommend ranks every plan by the meter's cost, cheapest first, keeping at most
// *limit entries when limit is set.
func (s *PricePlanService) Recommend(ctx context.Context, meterID string, limit *int) ([]pricing.PlanCost, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	readings, err := loadReadings(ctx, s.readings, meterID)
	if err != nil {
		return nil, err
	}
	plans, err := s.PricePlans(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.RankCheapest(readings, plans, limit), nil
}

// LastWeekCost is the cost of the last seven days of readings under the meter's
// current plan.
func (s *PricePlanService) LastWeekCost(ctx context.Context, meterID string) (pricing.PlanCost, error) {
	plan, readings, err := s.currentPlanAndReadings(ctx, meterID)
	if err != nil {
		return pricing.PlanCost{}, err
	}
	window := pricing.FilterLastWeek(readings, s.now())
	if len(window) == 0 {
		return pricing.PlanCost{}, fmt.Errorf("%w: no readings of %q in the last week", ErrNoDataInWindow, meterID)
	}
	return pricing.PlanCost{PlanID: plan.ID, Cost: pricing.EstimateCost(window, plan.UnitRate)}, nil
}

// DayOfWeekCost is the cost of the readings taken on today's weekday under the meter's
// current plan.
func (s *PricePlanService) DayOfWeekCost(ctx context.Context, meterID string) (DayCost, error) {
	plan, readings, err := s.currentPlanAndReadings(ctx, meterID)
	if err != nil {
		return DayCost{}, err
	}
	now := s.now()
	window := pricing.FilterDayOfWeek(readings, now, s.loc)
	if len(window) == 0 {
		return DayCost{}, fmt.Errorf("%w: no readings of %q on %s", ErrNoDataInWindow, meterID, pricing.DayLabel(now, s.loc))
	}
	return DayCost{
		PricePlanID: plan.ID,
		Day:         pricing.DayLabel(now, s.loc),
		Cost:        pricing.EstimateCost(window, plan.UnitRate),
	}, nil
}

// DaysOfWeekCosts lists per-day costs under the meter's current plan. Only today's
// weekday is reported, and no readings for it is ErrNoDataInWindow.
func (s *PricePlanService) DaysOfWeekCosts(ctx context.Context, meterID string) ([]DayCost, error) {
	cost, err := s.DayOfWeekCost(ctx, meterID)
	if err != nil {
		return nil, err
	}
	return []DayCost{cost}, nil
}

// RecommendByDayOfWeek ranks plans against today's weekday readings.
func (s *PricePlanService) RecommendByDayOfWeek(ctx context.Context, meterID string, limit *int) ([]pricing.DayPlanCosts, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	readings, err := loadReadings(ctx, s.readings, meterID)
	if err != nil {
		return nil, err
	}
	plans, err := s.PricePlans(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.RankCheapestByDayOfWeek(readings, plans, s.now(), s.loc, limit), nil
}

// currentPlanAndReadings resolves the meter's plan before its readings, so a meter
// without an account reports ErrNoPricePlan even when it has no readings either.
func (s *PricePlanService) currentPlanAndReadings(ctx context.Context, meterID string) (domain.PricePlan, []domain.Reading, error) {
	planID, ok, err := s.accounts.PricePlanIDForMeter(ctx, meterID)
	if err != nil {
		return domain.PricePlan{}, nil, fmt.Errorf("lookup account: %w", err)
	}
	if !ok || planID == "" {
		return domain.PricePlan{}, nil, fmt.Errorf("%w: %q", ErrNoPricePlan, meterID)
	}

	plans, err := s.PricePlans(ctx)
	if err != nil {
		return domain.PricePlan{}, nil, err
	}
	var plan *domain.PricePlan
	for i := range plans {
		if plans[i].ID == planID {
			plan = &plans[i]
			break
		}
	}
	if plan == nil {
		return domain.PricePlan{}, nil, fmt.Errorf("%w: plan %q of %q is not in the catalog", ErrNoPricePlan, planID, meterID)
	}

	readings, err := loadReadings(ctx, s.readings, meterID)
	if err != nil {
		return domain.PricePlan{}, nil, err
	}
	return *plan, readings, nil
}

func validateLimit(limit *int) error {
	if limit != nil && *limit < 0 {
		return fmt.Errorf("%w: limit must be >= 0", ErrInvalidArgument)
	}
	return nil
}
