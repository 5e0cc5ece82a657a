package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/milad/energycost/internal/domain"
	pricingv1 "github.com/milad/energycost/internal/rpc/pricingv1"
)

const (
	defaultUpstreamTimeout = 5 * time.Second
	maxBodyBytes           = 1 << 20
)

type Server struct {
	client  PricingClient
	router  *httprouter.Router
	timeout time.Duration
}

type Option func(*Server)

// WithUpstreamTimeout bounds every upstream gRPC call made for a request.
func WithUpstreamTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func New(client PricingClient, opts ...Option) *Server {
	s := &Server{
		client:  client,
		router:  httprouter.New(),
		timeout: defaultUpstreamTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := uuid.NewString()

	w.Header().Set("X-Request-Id", reqID)
	rr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		if rec := recover(); rec != nil {
			rr.status = http.StatusInternalServerError

			// Best-effort response. If headers/body were already written, we can
			// only log.
			if !rr.wroteHeader {
				if isAPIPath(r.URL.Path) {
					writeAPIError(rr, http.StatusInternalServerError, "internal_error", "internal error")
				} else {
					http.Error(rr, "internal error", http.StatusInternalServerError)
				}
			}

			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("req_id", reqID).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic handling request")
		}

		dur := time.Since(start)
		observeHTTPRequest(r, rr.status, dur)

		// Keep health checks + metrics endpoint quiet.
		if r.URL.Path != "/healthz" && r.URL.Path != "/metrics" {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rr.status).
				Dur("duration", dur).
				Str("req_id", reqID).
				Msg("request")
		}
	}()

	s.router.ServeHTTP(rr, r)
}

func (s *Server) routes() {
	s.router.POST("/readings/store", s.handleStoreReadings)
	s.router.GET("/readings/read/:meterId", s.handleReadReadings)

	s.router.GET("/price-plans", s.handleListPricePlans)
	s.router.GET("/price-plans/compare-all/:meterId", s.handleCompareAll)
	s.router.GET("/price-plans/recommend/:meterId", s.handleRecommend)
	s.router.GET("/price-plans/last-week/:meterId", s.handleLastWeek)
	s.router.GET("/price-plans/day-of-week/:meterId", s.handleDayOfWeek)
	s.router.GET("/price-plans/days-of-week/:meterId", s.handleDaysOfWeek)
	s.router.GET("/price-plans/recommend-day-of-week/:meterId", s.handleRecommendByDayOfWeek)

	s.router.GET("/healthz", s.handleHealthz)
	s.router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	s.router.GET("/", s.handleIndex)

	s.router.NotFound = http.HandlerFunc(s.handleNotFound)
	s.router.MethodNotAllowed = http.HandlerFunc(s.handleMethodNotAllowed)
}

func (s *Server) handleStoreReadings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body storeReadingsRequestJSON
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_argument", "invalid body: "+err.Error())
		return
	}
	if strings.TrimSpace(body.SmartMeterID) == "" {
		writeAPIError(w, http.StatusBadRequest, "invalid_argument", "smartMeterId is required")
		return
	}
	if len(body.ElectricityReadings) == 0 {
		writeAPIError(w, http.StatusBadRequest, "invalid_argument", "electricityReadings must not be empty")
		return
	}

	req := &pricingv1.StoreReadingsRequest{
		MeterId:  body.SmartMeterID,
		Readings: make([]*pricingv1.Reading, 0, len(body.ElectricityReadings)),
	}
	for _, rd := range body.ElectricityReadings {
		req.Readings = append(req.Readings, &pricingv1.Reading{
			Time:    timestamppb.New(time.Time(rd.Time)),
			Reading: rd.Reading.String(),
		})
	}

	var resp *pricingv1.StoreReadingsResponse
	err := s.call(r, pricingv1.MethodStoreReadings, func(ctx context.Context) (err error) {
		resp, err = s.client.StoreReadings(ctx, req)
		return err
	})
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, storeReadingsResponseJSON{Stored: resp.Stored})
}

// handleReadReadings lists a meter's readings in insertion order. With page_size set,
// the token for the next page is returned in the X-Next-Page-Token header.
func (s *Server) handleReadReadings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	pageSize, err := parseOptionalInt(r.URL.Query().Get("page_size"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_argument", "invalid page_size")
		return
	}
	if pageSize < 0 {
		writeAPIError(w, http.StatusBadRequest, "invalid_argument", "page_size must be >= 0")
		return
	}
	pageToken := r.URL.Query().Get("page_token")
	if pageToken != "" && pageSize == 0 {
		writeAPIError(w, http.StatusBadRequest, "invalid_argument", "page_token requires page_size")
		return
	}

	req := &pricingv1.ListReadingsRequest{
		MeterId:   ps.ByName("meterId"),
		PageSize:  int32(pageSize),
		PageToken: pageToken,
	}
	var resp *pricingv1.ListReadingsResponse
	err = s.call(r, pricingv1.MethodListReadings, func(ctx context.Context) (err error) {
		resp, err = s.client.ListReadings(ctx, req)
		return err
	})
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	out := make([]readingJSON, 0, len(resp.GetReadings()))
	for _, rd := range resp.GetReadings() {
		ts := rd.GetTime()
		if ts == nil {
			writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned invalid reading")
			return
		}
		if err := ts.CheckValid(); err != nil {
			writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned invalid timestamp")
			return
		}
		amount, err := domain.NewDecimal(rd.GetReading())
		if err != nil {
			writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned invalid reading")
			return
		}
		out = append(out, readingJSON{Time: instant(ts.AsTime()), Reading: amount})
	}

	if next := resp.GetNextPageToken(); next != "" {
		w.Header().Set("X-Next-Page-Token", next)
	}
	_ = writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListPricePlans(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var resp *pricingv1.ListPricePlansResponse
	err := s.call(r, pricingv1.MethodListPricePlans, func(ctx context.Context) (err error) {
		resp, err = s.client.ListPricePlans(ctx, &pricingv1.ListPricePlansRequest{})
		return err
	})
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	out := make([]pricePlanJSON, 0, len(resp.PricePlans))
	for _, p := range resp.PricePlans {
		rate, err := domain.NewDecimal(p.UnitRate)
		if err != nil {
			writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned invalid unit rate")
			return
		}
		current, err := domain.NewDecimal(p.CurrentRate)
		if err != nil {
			writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned invalid current rate")
			return
		}
		plan := pricePlanJSON{
			PlanName:            p.Id,
			EnergySupplier:      p.EnergySupplier,
			UnitRate:            rate,
			CurrentRate:         current,
			PeakTimeMultipliers: make([]peakTimeMultiplierJSON, 0, len(p.PeakTimeMultipliers)),
		}
		for _, m := range p.PeakTimeMultipliers {
			mult, err := domain.NewDecimal(m.Multiplier)
			if err != nil {
				writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned invalid multiplier")
				return
			}
			plan.PeakTimeMultipliers = append(plan.PeakTimeMultipliers, peakTimeMultiplierJSON{DayOfWeek: m.DayOfWeek, Multiplier: mult})
		}
		out = append(out, plan)
	}
	_ = writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCompareAll(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var resp *pricingv1.CompareAllResponse
	err := s.call(r, pricingv1.MethodCompareAll, func(ctx context.Context) (err error) {
		resp, err = s.client.CompareAll(ctx, &pricingv1.MeterRequest{MeterId: ps.ByName("meterId")})
		return err
	})
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	out := compareAllResponseJSON{PricePlanComparisons: make(map[string]domain.Decimal, len(resp.Costs))}
	if resp.PricePlanId != "" {
		id := resp.PricePlanId
		out.PricePlanID = &id
	}
	for _, c := range resp.Costs {
		cost, err := domain.NewDecimal(c.Cost)
		if err != nil {
			writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned invalid cost")
			return
		}
		out.PricePlanComparisons[c.PricePlanId] = cost
	}
	_ = writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, err := parseOptionalLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}

	var resp *pricingv1.RecommendResponse
	err = s.call(r, pricingv1.MethodRecommend, func(ctx context.Context) (err error) {
		resp, err = s.client.Recommend(ctx, &pricingv1.RecommendRequest{MeterId: ps.ByName("meterId"), Limit: limit})
		return err
	})
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	out, err := costEntries(resp.Costs)
	if err != nil {
		writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned invalid cost")
		return
	}
	_ = writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLastWeek(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var resp *pricingv1.LastWeekCostResponse
	err := s.call(r, pricingv1.MethodLastWeekCost, func(ctx context.Context) (err error) {
		resp, err = s.client.LastWeekCost(ctx, &pricingv1.MeterRequest{MeterId: ps.ByName("meterId")})
		return err
	})
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	if resp.Cost == nil {
		writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned no cost")
		return
	}

	out, err := costEntries([]*pricingv1.PlanCost{resp.Cost})
	if err != nil {
		writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned invalid cost")
		return
	}
	_ = writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDayOfWeek(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var resp *pricingv1.DayOfWeekCostResponse
	err := s.call(r, pricingv1.MethodDayOfWeekCost, func(ctx context.Context) (err error) {
		resp, err = s.client.DayOfWeekCost(ctx, &pricingv1.MeterRequest{MeterId: ps.ByName("meterId")})
		return err
	})
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	if resp.Cost == nil {
		writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned no cost")
		return
	}

	cost, err := domain.NewDecimal(resp.Cost.Cost)
	if err != nil {
		writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned invalid cost")
		return
	}
	_ = writeJSON(w, http.StatusOK, dayOfWeekCostJSON{
		Consumptions: cost,
		PricePlanID:  resp.Cost.PricePlanId,
		DayOfWeek:    resp.Cost.DayOfWeek,
	})
}

func (s *Server) handleDaysOfWeek(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var resp *pricingv1.DaysOfWeekCostsResponse
	err := s.call(r, pricingv1.MethodDaysOfWeekCosts, func(ctx context.Context) (err error) {
		resp, err = s.client.DaysOfWeekCosts(ctx, &pricingv1.MeterRequest{MeterId: ps.ByName("meterId")})
		return err
	})
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	out := make([]entry[domain.Decimal], 0, len(resp.Days))
	for _, d := range resp.Days {
		cost, err := domain.NewDecimal(d.Cost)
		if err != nil {
			writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned invalid cost")
			return
		}
		out = append(out, entry[domain.Decimal]{d.DayOfWeek: cost})
	}
	_ = writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRecommendByDayOfWeek(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, err := parseOptionalLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}

	var resp *pricingv1.RecommendByDayOfWeekResponse
	err = s.call(r, pricingv1.MethodRecommendByDayOfWeek, func(ctx context.Context) (err error) {
		resp, err = s.client.RecommendByDayOfWeek(ctx, &pricingv1.RecommendRequest{MeterId: ps.ByName("meterId"), Limit: limit})
		return err
	})
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	out := make([]entry[[]entry[domain.Decimal]], 0, len(resp.Days))
	for _, d := range resp.Days {
		costs, err := costEntries(d.Costs)
		if err != nil {
			writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned invalid cost")
			return
		}
		out = append(out, entry[[]entry[domain.Decimal]]{d.DayOfWeek: costs})
	}
	_ = writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	// Keep API errors JSON.
	if isAPIPath(r.URL.Path) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
		return
	}
	http.NotFound(w, r) // HTML/plain-text is fine for non-API paths.
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if isAPIPath(r.URL.Path) {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	w.WriteHeader(http.StatusMethodNotAllowed)
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/readings") || strings.HasPrefix(path, "/price-plans")
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(p)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	reqID := w.Header().Get("X-Request-Id")
	_ = writeJSON(w, status, apiErrorJSON{
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}
