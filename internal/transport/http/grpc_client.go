package httpserver

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/milad/energycost/internal/domain"
	pricingv1 "github.com/milad/energycost/internal/rpc/pricingv1"
)

// PricingClient is the upstream gRPC API. Tests substitute a fake.
type PricingClient = pricingv1.PricingServiceClient

// call runs one upstream RPC under the request timeout and records its metrics.
func (s *Server) call(r *http.Request, method string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	observeUpstreamGRPC(method, status.Code(err).String(), time.Since(start))
	return err
}

// writeUpstreamError maps a gRPC error onto an HTTP API error.
func writeUpstreamError(w http.ResponseWriter, err error) {
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.NotFound:
		writeAPIError(w, http.StatusNotFound, "not_found", st.Message())
	case codes.InvalidArgument:
		writeAPIError(w, http.StatusBadRequest, "invalid_argument", st.Message())
	case codes.FailedPrecondition:
		writeAPIError(w, http.StatusBadRequest, "failed_precondition", st.Message())
	case codes.DeadlineExceeded:
		writeAPIError(w, http.StatusGatewayTimeout, "upstream_timeout", "upstream timeout")
	default:
		writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream error")
	}
}

func parseOptionalLimit(v string) (*int32, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid limit %q", v)
	}
	if n < 0 {
		return nil, fmt.Errorf("limit must be >= 0")
	}
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	limit := int32(n)
	return &limit, nil
}

func parseOptionalInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func costEntries(costs []*pricingv1.PlanCost) ([]entry[domain.Decimal], error) {
	out := make([]entry[domain.Decimal], 0, len(costs))
	for _, c := range costs {
		d, err := domain.NewDecimal(c.Cost)
		if err != nil {
			return nil, err
		}
		out = append(out, entry[domain.Decimal]{c.PricePlanId: d})
	}
	return out, nil
}
