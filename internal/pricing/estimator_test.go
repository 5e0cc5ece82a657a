package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milad/energycost/internal/domain"
)

var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) // a Wednesday

func reading(ago time.Duration, amount string) domain.Reading {
	return domain.Reading{Time: now.Add(-ago), Amount: domain.MustDecimal(amount)}
}

func testPlans() []domain.PricePlan {
	return []domain.PricePlan{
		{ID: "test-supplier", UnitRate: domain.MustDecimal("10")},
		{ID: "best-supplier", UnitRate: domain.MustDecimal("1")},
		{ID: "second-best-supplier", UnitRate: domain.MustDecimal("2")},
	}
}

func intp(n int) *int { return &n }

func costStrings(costs []PlanCost) map[string]string {
	out := make(map[string]string, len(costs))
	for _, c := range costs {
		out[c.PlanID] = c.Cost.String()
	}
	return out
}

func planIDs(costs []PlanCost) []string {
	out := make([]string, 0, len(costs))
	for _, c := range costs {
		out = append(out, c.PlanID)
	}
	return out
}

func TestEstimateCost_Empty(t *testing.T) {
	t.Parallel()

	got := EstimateCost(nil, domain.MustDecimal("10"))
	assert.True(t, got.IsZero())
}

func TestEstimateCost_SingleReadingIsAmountTimesRate(t *testing.T) {
	t.Parallel()

	got := EstimateCost([]domain.Reading{reading(0, "2.5")}, domain.MustDecimal("4"))
	assert.Equal(t, "10.0", got.String())
}

func TestEstimateCost_OneHourFixture(t *testing.T) {
	t.Parallel()

	readings := []domain.Reading{reading(time.Hour, "15.0"), reading(0, "5.0")}

	got := EstimateCost(readings, domain.MustDecimal("10"))
	assert.Equal(t, "100.0", got.String())
}

func TestEstimateCost_OrderOfInputIsIrrelevant(t *testing.T) {
	t.Parallel()

	a := EstimateCost([]domain.Reading{reading(0, "5.0"), reading(time.Hour, "15.0")}, domain.MustDecimal("10"))
	b := EstimateCost([]domain.Reading{reading(time.Hour, "15.0"), reading(0, "5.0")}, domain.MustDecimal("10"))
	assert.True(t, a.Equal(b))
}

func TestEstimateCost_RoundsToScaleOfAverage(t *testing.T) {
	t.Parallel()

	readings := []domain.Reading{reading(45*time.Minute, "5.0"), reading(0, "20.0")}

	assert.Equal(t, "16.7", EstimateCost(readings, domain.MustDecimal("1")).String())
	assert.Equal(t, "33.4", EstimateCost(readings, domain.MustDecimal("2")).String())
}

func TestEstimateCost_SameTimestampFallsBackToAverage(t *testing.T) {
	t.Parallel()

	readings := []domain.Reading{reading(0, "1.0"), reading(0, "3.0")}

	got := EstimateCost(readings, domain.MustDecimal("2"))
	assert.Equal(t, "4.0", got.String())
}

func TestEstimateCost_HighScaleReadingsStayExact(t *testing.T) {
	t.Parallel()

	readings := []domain.Reading{
		{Time: now.Add(-time.Millisecond), Amount: domain.MustDecimal("1.000000000000000000000000000001")},
		{Time: now, Amount: domain.MustDecimal("1")},
	}

	got := EstimateCost(readings, domain.MustDecimal("10"))
	require.True(t, got.IsFinite())
	assert.Equal(t, "36000000.000000000000000000000036000000", got.String())
}

func TestCostForEachPlan(t *testing.T) {
	t.Parallel()

	readings := []domain.Reading{reading(time.Hour, "15.0"), reading(0, "5.0")}

	got := CostForEachPlan(readings, testPlans())
	assert.Equal(t, []string{"test-supplier", "best-supplier", "second-best-supplier"}, planIDs(got))
	assert.Equal(t, map[string]string{
		"test-supplier":        "100.0",
		"best-supplier":        "10.0",
		"second-best-supplier": "20.0",
	}, costStrings(got))
}

func TestCostForEachPlan_NoReadingsStillListsEveryPlan(t *testing.T) {
	t.Parallel()

	got := CostForEachPlan(nil, testPlans())
	require.Len(t, got, 3)
	for _, c := range got {
		assert.True(t, c.Cost.IsZero())
	}
}

func TestRankCheapest(t *testing.T) {
	t.Parallel()

	readings := []domain.Reading{reading(30*time.Minute, "35.0"), reading(0, "3.0")}

	tests := []struct {
		name  string
		limit *int
		want  []string
	}{
		{"no limit", nil, []string{"best-supplier", "second-best-supplier", "test-supplier"}},
		{"zero", intp(0), []string{}},
		{"two", intp(2), []string{"best-supplier", "second-best-supplier"}},
		{"equal to plan count", intp(3), []string{"best-supplier", "second-best-supplier", "test-supplier"}},
		{"more than plan count", intp(5), []string{"best-supplier", "second-best-supplier", "test-supplier"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RankCheapest(readings, testPlans(), tt.limit)
			assert.Equal(t, tt.want, planIDs(got))
		})
	}

	got := RankCheapest(readings, testPlans(), nil)
	assert.Equal(t, []string{"38.0", "76.0", "380.0"}, []string{got[0].Cost.String(), got[1].Cost.String(), got[2].Cost.String()})
}

func TestRankCheapest_LimitAbovePlanCountMatchesUnlimited(t *testing.T) {
	t.Parallel()

	readings := []domain.Reading{reading(time.Hour, "25.0"), reading(0, "3.0")}

	unlimited := RankCheapest(readings, testPlans(), nil)
	limited := RankCheapest(readings, testPlans(), intp(5))
	require.Len(t, limited, 3)
	assert.Equal(t, planIDs(unlimited), planIDs(limited))
	assert.Equal(t, costStrings(unlimited), costStrings(limited))
	assert.Equal(t, map[string]string{
		"best-supplier":        "14.0",
		"second-best-supplier": "28.0",
		"test-supplier":        "140.0",
	}, costStrings(limited))
}

func TestRankCheapest_SortedAndStableOnTies(t *testing.T) {
	t.Parallel()

	plans := []domain.PricePlan{
		{ID: "c", UnitRate: domain.MustDecimal("3")},
		{ID: "a1", UnitRate: domain.MustDecimal("1")},
		{ID: "b", UnitRate: domain.MustDecimal("2")},
		{ID: "a2", UnitRate: domain.MustDecimal("1.00")},
	}
	readings := []domain.Reading{reading(2*time.Hour, "4.0"), reading(time.Hour, "1.5"), reading(0, "0.5")}

	got := RankCheapest(readings, plans, nil)
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, planIDs(got))
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Cost.Cmp(got[i].Cost), 0)
	}
}

func TestFilterLastWeek(t *testing.T) {
	t.Parallel()

	readings := []domain.Reading{
		reading(8*24*time.Hour, "1.0"),
		reading(7*24*time.Hour, "2.0"),
		reading(6*24*time.Hour, "3.0"),
		reading(0, "4.0"),
	}

	got := FilterLastWeek(readings, now)
	require.Len(t, got, 3)
	assert.Equal(t, "2.0", got[0].Amount.String())

	old := []domain.Reading{reading(10*24*time.Hour, "1.0"), reading(9*24*time.Hour, "1.0")}
	assert.Empty(t, FilterLastWeek(old, now))
}

func TestFilterDayOfWeek_KeepsOnlyCurrentWeekday(t *testing.T) {
	t.Parallel()

	readings := []domain.Reading{
		reading(30*time.Minute, "1.0"),
		reading(0, "1.0"),
		reading(24*time.Hour, "9.0"),
		reading(7*24*time.Hour, "2.0"),
	}

	got := FilterDayOfWeek(readings, now, time.UTC)
	require.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, time.Wednesday, r.Time.Weekday())
	}
	assert.Equal(t, "WEDNESDAY", DayLabel(now, time.UTC))
}

func TestFilterDayOfWeek_UsesLocation(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("UTC+9", 9*60*60)
	// 20:00 UTC on Wednesday is Thursday in UTC+9.
	evening := time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC)
	readings := []domain.Reading{{Time: evening.Add(-time.Hour), Amount: domain.MustDecimal("1")}}

	assert.Equal(t, "THURSDAY", DayLabel(evening, tokyo))
	assert.Len(t, FilterDayOfWeek(readings, evening, tokyo), 1)
	assert.Equal(t, "WEDNESDAY", DayLabel(evening, time.UTC))
}

func TestRankCheapestByDayOfWeek(t *testing.T) {
	t.Parallel()

	readings := []domain.Reading{reading(30*time.Minute, "3.0"), reading(0, "3")}

	got := RankCheapestByDayOfWeek(readings, testPlans(), now, time.UTC, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "WEDNESDAY", got[0].Day)
	assert.Equal(t, []string{"best-supplier", "second-best-supplier", "test-supplier"}, planIDs(got[0].Costs))
	assert.Equal(t, map[string]string{
		"best-supplier":        "6.0",
		"second-best-supplier": "12.0",
		"test-supplier":        "60.0",
	}, costStrings(got[0].Costs))

	// the limit counts day entries, so the single day keeps every plan
	limited := RankCheapestByDayOfWeek(readings, testPlans(), now, time.UTC, intp(1))
	require.Len(t, limited, 1)
	assert.Equal(t, planIDs(got[0].Costs), planIDs(limited[0].Costs))
	assert.Equal(t, costStrings(got[0].Costs), costStrings(limited[0].Costs))

	more := RankCheapestByDayOfWeek(readings, testPlans(), now, time.UTC, intp(7))
	require.Len(t, more, 1)
	assert.Equal(t, costStrings(got[0].Costs), costStrings(more[0].Costs))

	assert.Empty(t, RankCheapestByDayOfWeek(readings, testPlans(), now, time.UTC, intp(0)))
}

func TestRankCheapestByDayOfWeek_EmptyWindow(t *testing.T) {
	t.Parallel()

	readings := []domain.Reading{reading(24*time.Hour, "3.0"), reading(25*time.Hour, "3.0")}

	got := RankCheapestByDayOfWeek(readings, testPlans(), now, time.UTC, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
