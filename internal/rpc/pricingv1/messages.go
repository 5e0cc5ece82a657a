package pricingv1

import "google.golang.org/protobuf/types/known/timestamppb"

// Decimals travel as strings so that no precision is lost on the wire.

type Reading struct {
	Time    *timestamppb.Timestamp `json:"time,omitempty"`
	Reading string                 `json:"reading"`
}

func (x *Reading) GetTime() *timestamppb.Timestamp {
	if x == nil {
		return nil
	}
	return x.Time
}

func (x *Reading) GetReading() string {
	if x == nil {
		return ""
	}
	return x.Reading
}

type PeakTimeMultiplier struct {
	DayOfWeek  string `json:"day_of_week"`
	Multiplier string `json:"multiplier"`
}

type PricePlan struct {
	Id                  string                `json:"id"`
	EnergySupplier      string                `json:"energy_supplier,omitempty"`
	UnitRate            string                `json:"unit_rate"`
	PeakTimeMultipliers []*PeakTimeMultiplier `json:"peak_time_multipliers,omitempty"`
	// CurrentRate is the unit rate with today's peak multiplier applied.
	CurrentRate string `json:"current_rate"`
}

type PlanCost struct {
	PricePlanId string `json:"price_plan_id"`
	Cost        string `json:"cost"`
}

type DayCost struct {
	PricePlanId string `json:"price_plan_id"`
	DayOfWeek   string `json:"day_of_week"`
	Cost        string `json:"cost"`
}

type DayPlanCosts struct {
	DayOfWeek string      `json:"day_of_week"`
	Costs     []*PlanCost `json:"costs"`
}

type StoreReadingsRequest struct {
	MeterId  string     `json:"meter_id"`
	Readings []*Reading `json:"readings"`
}

func (x *StoreReadingsRequest) GetMeterId() string {
	if x == nil {
		return ""
	}
	return x.MeterId
}

func (x *StoreReadingsRequest) GetReadings() []*Reading {
	if x == nil {
		return nil
	}
	return x.Readings
}

type StoreReadingsResponse struct {
	Stored int32 `json:"stored"`
}

type ListReadingsRequest struct {
	MeterId   string `json:"meter_id"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

func (x *ListReadingsRequest) GetMeterId() string {
	if x == nil {
		return ""
	}
	return x.MeterId
}

func (x *ListReadingsRequest) GetPageSize() int32 {
	if x == nil {
		return 0
	}
	return x.PageSize
}

func (x *ListReadingsRequest) GetPageToken() string {
	if x == nil {
		return ""
	}
	return x.PageToken
}

type ListReadingsResponse struct {
	Readings      []*Reading `json:"readings"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

func (x *ListReadingsResponse) GetReadings() []*Reading {
	if x == nil {
		return nil
	}
	return x.Readings
}

func (x *ListReadingsResponse) GetNextPageToken() string {
	if x == nil {
		return ""
	}
	return x.NextPageToken
}

type ListPricePlansRequest struct{}

type ListPricePlansResponse struct {
	PricePlans []*PricePlan `json:"price_plans"`
}

// MeterRequest addresses a single smart meter.
type MeterRequest struct {
	MeterId string `json:"meter_id"`
}

func (x *MeterRequest) GetMeterId() string {
	if x == nil {
		return ""
	}
	return x.MeterId
}

type CompareAllResponse struct {
	PricePlanId string      `json:"price_plan_id,omitempty"`
	Costs       []*PlanCost `json:"costs"`
}

// RecommendRequest ranks plans for a meter. A nil Limit means no limit.
type RecommendRequest struct {
	MeterId string `json:"meter_id"`
	Limit   *int32 `json:"limit,omitempty"`
}

func (x *RecommendRequest) GetMeterId() string {
	if x == nil {
		return ""
	}
	return x.MeterId
}

func (x *RecommendRequest) GetLimit() *int32 {
	if x == nil {
		return nil
	}
	return x.Limit
}

type RecommendResponse struct {
	Costs []*PlanCost `json:"costs"`
}

type LastWeekCostResponse struct {
	Cost *PlanCost `json:"cost"`
}

type DayOfWeekCostResponse struct {
	Cost *DayCost `json:"cost"`
}

type DaysOfWeekCostsResponse struct {
	Days []*DayCost `json:"days"`
}

type RecommendByDayOfWeekResponse struct {
	Days []*DayPlanCosts `json:"days"`
}
