package grpcserver

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/milad/energycost/internal/domain"
	"github.com/milad/energycost/internal/repo/memrepo"
	pricingv1 "github.com/milad/energycost/internal/rpc/pricingv1"
	"github.com/milad/energycost/internal/service"
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) // a Wednesday

func newTestClient(t *testing.T) (pricingv1.PricingServiceClient, *memrepo.Readings) {
	t.Helper()

	readings := memrepo.NewReadings()
	catalog := memrepo.NewCatalog([]domain.PricePlan{
		{ID: "price-plan-0", UnitRate: domain.MustDecimal("10"), PeakTimeMultipliers: []domain.PeakTimeMultiplier{
			{Day: time.Saturday, Multiplier: domain.MustDecimal("0.5")},
		}},
		{ID: "price-plan-1", UnitRate: domain.MustDecimal("2")},
		{ID: "price-plan-2", UnitRate: domain.MustDecimal("1")},
	})
	accounts := memrepo.NewAccounts(map[string]string{"smart-meter-0": "price-plan-0"})

	srv := New(
		service.NewMeterReadingService(readings),
		service.NewPricePlanService(readings, catalog, accounts,
			service.WithClock(func() time.Time { return testNow }),
			service.WithLocation(time.UTC),
		),
	)

	const bufSize = 1024 * 1024
	lis := bufconn.Listen(bufSize)

	g := grpc.NewServer(grpc.ChainUnaryInterceptor(UnaryInterceptor))
	pricingv1.RegisterPricingServiceServer(g, srv)
	go func() { _ = g.Serve(lis) }()
	t.Cleanup(g.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return pricingv1.NewPricingServiceClient(conn), readings
}

func storeFixture(t *testing.T, client pricingv1.PricingServiceClient) {
	t.Helper()

	_, err := client.StoreReadings(context.Background(), &pricingv1.StoreReadingsRequest{
		MeterId: "smart-meter-0",
		Readings: []*pricingv1.Reading{
			{Time: timestamppb.New(testNow.Add(-time.Hour)), Reading: "15.0"},
			{Time: timestamppb.New(testNow), Reading: "5.0"},
		},
	})
	if err != nil {
		t.Fatalf("StoreReadings: %v", err)
	}
}

func TestServer_StoreAndListReadings(t *testing.T) {
	t.Parallel()

	client, store := newTestClient(t)
	storeFixture(t, client)

	stored, err := store.List(context.Background(), "smart-meter-0")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got, want := len(stored), 2; got != want {
		t.Fatalf("len(stored)=%d want %d", got, want)
	}

	resp, err := client.ListReadings(context.Background(), &pricingv1.ListReadingsRequest{MeterId: "smart-meter-0", PageSize: 1})
	if err != nil {
		t.Fatalf("ListReadings: %v", err)
	}
	if got, want := len(resp.Readings), 1; got != want {
		t.Fatalf("len(readings)=%d want %d", got, want)
	}
	if got, want := resp.Readings[0].Reading, "15.0"; got != want {
		t.Fatalf("reading=%q want %q", got, want)
	}
	if !resp.Readings[0].Time.AsTime().Equal(testNow.Add(-time.Hour)) {
		t.Fatalf("time=%v want %v", resp.Readings[0].Time.AsTime(), testNow.Add(-time.Hour))
	}
	if got, want := resp.NextPageToken, "1"; got != want {
		t.Fatalf("next page token=%q want %q", got, want)
	}
}

func TestServer_StoreReadings_InvalidArgument(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	ctx := context.Background()

	cases := []*pricingv1.StoreReadingsRequest{
		{MeterId: "", Readings: []*pricingv1.Reading{{Time: timestamppb.New(testNow), Reading: "1"}}},
		{MeterId: "smart-meter-0"},
		{MeterId: "smart-meter-0", Readings: []*pricingv1.Reading{{Reading: "1"}}},
		{MeterId: "smart-meter-0", Readings: []*pricingv1.Reading{{Time: timestamppb.New(testNow), Reading: "NaN"}}},
	}
	for i, req := range cases {
		_, err := client.StoreReadings(ctx, req)
		if got, want := status.Code(err), codes.InvalidArgument; got != want {
			t.Fatalf("case %d: code=%v want %v (err=%v)", i, got, want, err)
		}
	}
}

func TestServer_CompareAll(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	storeFixture(t, client)

	resp, err := client.CompareAll(context.Background(), &pricingv1.MeterRequest{MeterId: "smart-meter-0"})
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}
	if got, want := resp.PricePlanId, "price-plan-0"; got != want {
		t.Fatalf("price plan=%q want %q", got, want)
	}
	want := map[string]string{"price-plan-0": "100.0", "price-plan-1": "20.0", "price-plan-2": "10.0"}
	if len(resp.Costs) != len(want) {
		t.Fatalf("len(costs)=%d want %d", len(resp.Costs), len(want))
	}
	for _, c := range resp.Costs {
		if c.Cost != want[c.PricePlanId] {
			t.Fatalf("cost[%s]=%s want %s", c.PricePlanId, c.Cost, want[c.PricePlanId])
		}
	}
}

func TestServer_Recommend(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	storeFixture(t, client)

	limit := int32(2)
	resp, err := client.Recommend(context.Background(), &pricingv1.RecommendRequest{MeterId: "smart-meter-0", Limit: &limit})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if got, want := len(resp.Costs), 2; got != want {
		t.Fatalf("len(costs)=%d want %d", got, want)
	}
	if resp.Costs[0].PricePlanId != "price-plan-2" || resp.Costs[1].PricePlanId != "price-plan-1" {
		t.Fatalf("unexpected order: %+v, %+v", resp.Costs[0], resp.Costs[1])
	}

	negative := int32(-1)
	_, err = client.Recommend(context.Background(), &pricingv1.RecommendRequest{MeterId: "smart-meter-0", Limit: &negative})
	if got, want := status.Code(err), codes.InvalidArgument; got != want {
		t.Fatalf("code=%v want %v", got, want)
	}
}

func TestServer_ErrorCodes(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.CompareAll(ctx, &pricingv1.MeterRequest{MeterId: "not-found"})
	if got, want := status.Code(err), codes.NotFound; got != want {
		t.Fatalf("CompareAll code=%v want %v", got, want)
	}

	_, err = client.LastWeekCost(ctx, &pricingv1.MeterRequest{MeterId: "smart_meter_5"})
	if got, want := status.Code(err), codes.FailedPrecondition; got != want {
		t.Fatalf("LastWeekCost code=%v want %v", got, want)
	}

	_, err = client.StoreReadings(ctx, &pricingv1.StoreReadingsRequest{
		MeterId:  "smart-meter-0",
		Readings: []*pricingv1.Reading{{Time: timestamppb.New(testNow.Add(-30 * 24 * time.Hour)), Reading: "1.0"}},
	})
	if err != nil {
		t.Fatalf("StoreReadings: %v", err)
	}
	_, err = client.LastWeekCost(ctx, &pricingv1.MeterRequest{MeterId: "smart-meter-0"})
	if got, want := status.Code(err), codes.NotFound; got != want {
		t.Fatalf("LastWeekCost empty window code=%v want %v", got, want)
	}
	_, err = client.DaysOfWeekCosts(ctx, &pricingv1.MeterRequest{MeterId: "smart-meter-0"})
	if got, want := status.Code(err), codes.NotFound; got != want {
		t.Fatalf("DaysOfWeekCosts empty window code=%v want %v", got, want)
	}
}

func TestServer_DayOfWeek(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	storeFixture(t, client)
	ctx := context.Background()

	day, err := client.DayOfWeekCost(ctx, &pricingv1.MeterRequest{MeterId: "smart-meter-0"})
	if err != nil {
		t.Fatalf("DayOfWeekCost: %v", err)
	}
	if day.Cost.DayOfWeek != "WEDNESDAY" || day.Cost.Cost != "100.0" || day.Cost.PricePlanId != "price-plan-0" {
		t.Fatalf("unexpected day cost: %+v", day.Cost)
	}

	days, err := client.DaysOfWeekCosts(ctx, &pricingv1.MeterRequest{MeterId: "smart-meter-0"})
	if err != nil {
		t.Fatalf("DaysOfWeekCosts: %v", err)
	}
	if got, want := len(days.Days), 1; got != want {
		t.Fatalf("len(days)=%d want %d", got, want)
	}

	ranked, err := client.RecommendByDayOfWeek(ctx, &pricingv1.RecommendRequest{MeterId: "smart-meter-0"})
	if err != nil {
		t.Fatalf("RecommendByDayOfWeek: %v", err)
	}
	if len(ranked.Days) != 1 || len(ranked.Days[0].Costs) != 3 {
		t.Fatalf("unexpected ranking: %+v", ranked.Days)
	}
	if got, want := ranked.Days[0].Costs[0].PricePlanId, "price-plan-2"; got != want {
		t.Fatalf("cheapest=%q want %q", got, want)
	}
}

func TestServer_ListPricePlans(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)

	resp, err := client.ListPricePlans(context.Background(), &pricingv1.ListPricePlansRequest{})
	if err != nil {
		t.Fatalf("ListPricePlans: %v", err)
	}
	if got, want := len(resp.PricePlans), 3; got != want {
		t.Fatalf("len(plans)=%d want %d", got, want)
	}
	first := resp.PricePlans[0]
	if first.UnitRate != "10" || len(first.PeakTimeMultipliers) != 1 || first.PeakTimeMultipliers[0].DayOfWeek != "SATURDAY" {
		t.Fatalf("unexpected plan: %+v", first)
	}
	// testNow is a Wednesday, so the Saturday multiplier does not apply.
	if first.CurrentRate != "10" {
		t.Fatalf("current rate=%q want %q", first.CurrentRate, "10")
	}
}
