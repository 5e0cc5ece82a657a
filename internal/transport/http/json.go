package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/milad/energycost/internal/domain"
)

type readingJSON struct {
	Time    instant        `json:"time"`
	Reading domain.Decimal `json:"reading"`
}

type storeReadingsRequestJSON struct {
	SmartMeterID        string        `json:"smartMeterId"`
	ElectricityReadings []readingJSON `json:"electricityReadings"`
}

type storeReadingsResponseJSON struct {
	Stored int32 `json:"stored"`
}

type compareAllResponseJSON struct {
	PricePlanID          *string                   `json:"pricePlanId"`
	PricePlanComparisons map[string]domain.Decimal `json:"pricePlanComparisons"`
}

type dayOfWeekCostJSON struct {
	Consumptions domain.Decimal `json:"consumptions"`
	PricePlanID  string         `json:"pricePlanId"`
	DayOfWeek    string         `json:"dayOfWeek"`
}

type peakTimeMultiplierJSON struct {
	DayOfWeek  string         `json:"dayOfWeek"`
	Multiplier domain.Decimal `json:"multiplier"`
}

type pricePlanJSON struct {
	PlanName            string                   `json:"planName"`
	EnergySupplier      string                   `json:"energySupplier,omitempty"`
	UnitRate            domain.Decimal           `json:"unitRate"`
	CurrentRate         domain.Decimal           `json:"currentRate"`
	PeakTimeMultipliers []peakTimeMultiplierJSON `json:"peakTimeMultipliers"`
}

// entry is a single-key object, the JSON shape of one (key, value) pair in an
// ordered result list such as [{"price-plan-2": 10.0}, {"price-plan-1": 20.0}].
type entry[V any] map[string]V

type apiErrorJSON struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// instant is a reading time. It is written as an RFC3339 string and read from either
// an RFC3339 string or a number of seconds since the Unix epoch.
type instant time.Time

func (t instant) MarshalJSON() ([]byte, error) {
	return json.Marshal(formatTime(time.Time(t)))
}

func (t *instant) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid time %s", s)
		}
		parsed, err := parseRFC3339(unq)
		if err != nil {
			return err
		}
		*t = instant(parsed)
		return nil
	}
	parsed, err := parseEpochSeconds(s)
	if err != nil {
		return err
	}
	*t = instant(parsed)
	return nil
}

func parseRFC3339(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		// allow nano timestamps too (RFC3339Nano is a superset)
		t2, err2 := time.Parse(time.RFC3339Nano, v)
		if err2 != nil {
			return time.Time{}, err
		}
		t = t2
	}
	return t.UTC(), nil
}

// parseEpochSeconds parses "1700000000" or "1700000000.123" without going through a float.
func parseEpochSeconds(v string) (time.Time, error) {
	whole, frac, _ := strings.Cut(v, ".")
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || sec < 0 {
		return time.Time{}, fmt.Errorf("invalid epoch seconds %q", v)
	}
	var nanos int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		frac += strings.Repeat("0", 9-len(frac))
		nanos, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || nanos < 0 {
			return time.Time{}, errors.New("invalid epoch fraction")
		}
	}
	return time.Unix(sec, nanos).UTC(), nil
}
