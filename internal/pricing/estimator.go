// Package pricing estimates the cost of meter readings under price plans and ranks
// plans by that cost. Everything here is pure and works on in-memory slices.
package pricing

import (
	"sort"
	"strings"
	"time"

	"github.com/milad/energycost/internal/domain"
)

const lastWeek = 7 * 24 * time.Hour

var nanosPerHour = domain.NewDecimalFromInt64(int64(time.Hour))

// PlanCost is the estimated cost of a reading set under one price plan.
type PlanCost struct {
	PlanID string
	Cost   domain.Decimal
}

// DayPlanCosts groups plan costs under a day-of-week label such as "MONDAY".
type DayPlanCosts struct {
	Day   string
	Costs []PlanCost
}

// EstimateCost returns the cost of readings at unitRate.
//
// With two or more readings the cost is the average reading divided by the hours
// between the first and the last reading, times the rate. The average is rounded
// half up to the scale of the summed amounts and the hourly figure to the scale of
// the average. A single reading (or readings sharing one timestamp) costs
// average × rate. No readings cost zero.
func EstimateCost(readings []domain.Reading, unitRate domain.Decimal) domain.Decimal {
	if len(readings) == 0 {
		return domain.Decimal{}
	}
	if len(readings) == 1 {
		return readings[0].Amount.Mul(unitRate)
	}

	sorted := sortedByTime(readings)

	var sum domain.Decimal
	for _, r := range sorted {
		sum = sum.Add(r.Amount)
	}
	average := sum.DivRound(domain.NewDecimalFromInt64(int64(len(sorted))), sum.Exponent())

	elapsed := sorted[len(sorted)-1].Time.Sub(sorted[0].Time)
	if elapsed <= 0 {
		return average.Mul(unitRate)
	}

	// average / (elapsed / 1h), rounded once
	perHour := average.Mul(nanosPerHour).DivRound(domain.NewDecimalFromInt64(int64(elapsed)), average.Exponent())
	return perHour.Mul(unitRate)
}

// CostForEachPlan estimates the cost of readings under every plan, in catalog order.
func CostForEachPlan(readings []domain.Reading, plans []domain.PricePlan) []PlanCost {
	out := make([]PlanCost, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanCost{PlanID: p.ID, Cost: EstimateCost(readings, p.UnitRate)})
	}
	return out
}

// RankCheapest returns plan costs in ascending cost order. Equal costs keep catalog
// order. A nil limit returns every plan, otherwise at most *limit entries are returned.
func RankCheapest(readings []domain.Reading, plans []domain.PricePlan, limit *int) []PlanCost {
	costs := CostForEachPlan(readings, plans)
	sort.SliceStable(costs, func(i, j int) bool { return costs[i].Cost.Cmp(costs[j].Cost) < 0 })

	if limit == nil || *limit >= len(costs) {
		return costs
	}
	if *limit <= 0 {
		return []PlanCost{}
	}
	return costs[:*limit]
}

// RankCheapestByDayOfWeek ranks every plan against the readings taken on now's weekday
// and labels the ranking with that weekday. The limit bounds the number of day entries,
// not the plans inside one: nil or a positive limit keeps today's entry, 0 drops it.
// It returns an empty slice when no reading falls on that weekday.
func RankCheapestByDayOfWeek(readings []domain.Reading, plans []domain.PricePlan, now time.Time, loc *time.Location, limit *int) []DayPlanCosts {
	today := FilterDayOfWeek(readings, now, loc)
	if len(today) == 0 {
		return []DayPlanCosts{}
	}
	days := []DayPlanCosts{{Day: DayLabel(now, loc), Costs: RankCheapest(today, plans, nil)}}
	if limit != nil && *limit < len(days) {
		return days[:max(*limit, 0)]
	}
	return days
}

// FilterLastWeek keeps readings taken at or after now minus seven days.
func FilterLastWeek(readings []domain.Reading, now time.Time) []domain.Reading {
	since := now.Add(-lastWeek)
	return filter(readings, func(t time.Time) bool { return !t.Before(since) })
}

// FilterDayOfWeek keeps readings whose weekday in loc is now's weekday in loc.
// It does not break readings down per day: only the current weekday is ever reported.
func FilterDayOfWeek(readings []domain.Reading, now time.Time, loc *time.Location) []domain.Reading {
	loc = orLocal(loc)
	day := now.In(loc).Weekday()
	return filter(readings, func(t time.Time) bool { return t.In(loc).Weekday() == day })
}

// DayLabel returns now's weekday in loc as an upper case name, e.g. "MONDAY".
func DayLabel(now time.Time, loc *time.Location) string {
	return strings.ToUpper(now.In(orLocal(loc)).Weekday().String())
}

func filter(readings []domain.Reading, keep func(time.Time) bool) []domain.Reading {
	out := make([]domain.Reading, 0, len(readings))
	for _, r := range readings {
		if keep(r.Time) {
			out = append(out, r)
		}
	}
	return out
}

func sortedByTime(readings []domain.Reading) []domain.Reading {
	cp := append([]domain.Reading(nil), readings...)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Time.Before(cp[j].Time) })
	return cp
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
