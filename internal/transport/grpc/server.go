package grpcserver

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/milad/energycost/internal/domain"
	"github.com/milad/energycost/internal/pricing"
	pricingv1 "github.com/milad/energycost/internal/rpc/pricingv1"
	"github.com/milad/energycost/internal/service"
)

type Server struct {
	pricingv1.UnimplementedPricingServiceServer
	readings *service.MeterReadingService
	plans    *service.PricePlanService
}

func New(readings *service.MeterReadingService, plans *service.PricePlanService) *Server {
	return &Server{readings: readings, plans: plans}
}

func (s *Server) StoreReadings(ctx context.Context, req *pricingv1.StoreReadingsRequest) (*pricingv1.StoreReadingsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	readings := make([]domain.Reading, 0, len(req.GetReadings()))
	for i, r := range req.GetReadings() {
		rd, err := fromProtoReading(r)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "reading %d: %v", i, err)
		}
		readings = append(readings, rd)
	}

	if err := s.readings.StoreReadings(ctx, req.GetMeterId(), readings); err != nil {
		return nil, toStatus(err)
	}
	return &pricingv1.StoreReadingsResponse{Stored: int32(len(readings))}, nil
}

func (s *Server) ListReadings(ctx context.Context, req *pricingv1.ListReadingsRequest) (*pricingv1.ListReadingsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	res, err := s.readings.ReadingsPage(ctx, req.GetMeterId(), int(req.GetPageSize()), req.GetPageToken())
	if err != nil {
		return nil, toStatus(err)
	}

	out := make([]*pricingv1.Reading, 0, len(res.Readings))
	for _, r := range res.Readings {
		out = append(out, toProtoReading(r))
	}
	return &pricingv1.ListReadingsResponse{
		Readings:      out,
		NextPageToken: res.NextPageToken,
	}, nil
}

func (s *Server) ListPricePlans(ctx context.Context, _ *pricingv1.ListPricePlansRequest) (*pricingv1.ListPricePlansResponse, error) {
	rates, err := s.plans.CurrentRates(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]*pricingv1.PricePlan, 0, len(rates))
	for _, r := range rates {
		p := r.Plan
		pp := &pricingv1.PricePlan{
			Id:             p.ID,
			EnergySupplier: p.EnergySupplier,
			UnitRate:       p.UnitRate.String(),
			CurrentRate:    r.CurrentRate.String(),
		}
		for _, m := range p.PeakTimeMultipliers {
			pp.PeakTimeMultipliers = append(pp.PeakTimeMultipliers, &pricingv1.PeakTimeMultiplier{
				DayOfWeek:  strings.ToUpper(m.Day.String()),
				Multiplier: m.Multiplier.String(),
			})
		}
		out = append(out, pp)
	}
	return &pricingv1.ListPricePlansResponse{PricePlans: out}, nil
}

func (s *Server) CompareAll(ctx context.Context, req *pricingv1.MeterRequest) (*pricingv1.CompareAllResponse, error) {
	cmp, err := s.plans.CompareAll(ctx, req.GetMeterId())
	if err != nil {
		return nil, toStatus(err)
	}
	return &pricingv1.CompareAllResponse{
		PricePlanId: cmp.PricePlanID,
		Costs:       toProtoPlanCosts(cmp.Costs),
	}, nil
}

func (s *Server) Recommend(ctx context.Context, req *pricingv1.RecommendRequest) (*pricingv1.RecommendResponse, error) {
	costs, err := s.plans.Recommend(ctx, req.GetMeterId(), fromProtoLimit(req.GetLimit()))
	if err != nil {
		return nil, toStatus(err)
	}
	return &pricingv1.RecommendResponse{Costs: toProtoPlanCosts(costs)}, nil
}

func (s *Server) LastWeekCost(ctx context.Context, req *pricingv1.MeterRequest) (*pricingv1.LastWeekCostResponse, error) {
	cost, err := s.plans.LastWeekCost(ctx, req.GetMeterId())
	if err != nil {
		return nil, toStatus(err)
	}
	return &pricingv1.LastWeekCostResponse{Cost: toProtoPlanCost(cost)}, nil
}

func (s *Server) DayOfWeekCost(ctx context.Context, req *pricingv1.MeterRequest) (*pricingv1.DayOfWeekCostResponse, error) {
	cost, err := s.plans.DayOfWeekCost(ctx, req.GetMeterId())
	if err != nil {
		return nil, toStatus(err)
	}
	return &pricingv1.DayOfWeekCostResponse{Cost: toProtoDayCost(cost)}, nil
}

func (s *Server) DaysOfWeekCosts(ctx context.Context, req *pricingv1.MeterRequest) (*pricingv1.DaysOfWeekCostsResponse, error) {
	days, err := s.plans.DaysOfWeekCosts(ctx, req.GetMeterId())
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]*pricingv1.DayCost, 0, len(days))
	for _, d := range days {
		out = append(out, toProtoDayCost(d))
	}
	return &pricingv1.DaysOfWeekCostsResponse{Days: out}, nil
}

func (s *Server) RecommendByDayOfWeek(ctx context.Context, req *pricingv1.RecommendRequest) (*pricingv1.RecommendByDayOfWeekResponse, error) {
	days, err := s.plans.RecommendByDayOfWeek(ctx, req.GetMeterId(), fromProtoLimit(req.GetLimit()))
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]*pricingv1.DayPlanCosts, 0, len(days))
	for _, d := range days {
		out = append(out, &pricingv1.DayPlanCosts{DayOfWeek: d.Day, Costs: toProtoPlanCosts(d.Costs)})
	}
	return &pricingv1.RecommendByDayOfWeekResponse{Days: out}, nil
}

// toStatus maps service errors onto gRPC codes. Unexpected errors are logged and
// hidden behind a generic message.
func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrMeterUnknown), errors.Is(err, service.ErrNoDataInWindow):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrNoPricePlan):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		log.Error().Err(err).Msg("pricing request failed")
		return status.Error(codes.Internal, "internal error")
	}
}

func toProtoReading(r domain.Reading) *pricingv1.Reading {
	return &pricingv1.Reading{
		Time:    timestamppb.New(r.Time),
		Reading: r.Amount.String(),
	}
}

func fromProtoReading(r *pricingv1.Reading) (domain.Reading, error) {
	ts := r.GetTime()
	if ts == nil {
		return domain.Reading{}, errors.New("time is required")
	}
	if err := ts.CheckValid(); err != nil {
		return domain.Reading{}, err
	}
	amount, err := domain.NewDecimal(r.GetReading())
	if err != nil {
		return domain.Reading{}, err
	}
	return domain.Reading{Time: ts.AsTime().UTC(), Amount: amount}, nil
}

func toProtoPlanCost(c pricing.PlanCost) *pricingv1.PlanCost {
	return &pricingv1.PlanCost{PricePlanId: c.PlanID, Cost: c.Cost.String()}
}

func toProtoPlanCosts(costs []pricing.PlanCost) []*pricingv1.PlanCost {
	out := make([]*pricingv1.PlanCost, 0, len(costs))
	for _, c := range costs {
		out = append(out, toProtoPlanCost(c))
	}
	return out
}

func toProtoDayCost(d service.DayCost) *pricingv1.DayCost {
	return &pricingv1.DayCost{PricePlanId: d.PricePlanID, DayOfWeek: d.Day, Cost: d.Cost.String()}
}

func fromProtoLimit(limit *int32) *int {
	if limit == nil {
		return nil
	}
	n := int(*limit)
	return &n
}

