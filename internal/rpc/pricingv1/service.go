package pricingv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "energy.pricing.v1.PricingService"

const (
	MethodStoreReadings        = "StoreReadings"
	MethodListReadings         = "ListReadings"
	MethodListPricePlans       = "ListPricePlans"
	MethodCompareAll           = "CompareAll"
	MethodRecommend            = "Recommend"
	MethodLastWeekCost         = "LastWeekCost"
	MethodDayOfWeekCost        = "DayOfWeekCost"
	MethodDaysOfWeekCosts      = "DaysOfWeekCosts"
	MethodRecommendByDayOfWeek = "RecommendByDayOfWeek"
)

// FullMethod returns the "/service/method" path of a pricing method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PricingServiceClient is the client API for PricingService.
type PricingServiceClient interface {
	StoreReadings(ctx context.Context, in *StoreReadingsRequest, opts ...grpc.CallOption) (*StoreReadingsResponse, error)
	ListReadings(ctx context.Context, in *ListReadingsRequest, opts ...grpc.CallOption) (*ListReadingsResponse, error)
	ListPricePlans(ctx context.Context, in *ListPricePlansRequest, opts ...grpc.CallOption) (*ListPricePlansResponse, error)
	CompareAll(ctx context.Context, in *MeterRequest, opts ...grpc.CallOption) (*CompareAllResponse, error)
	Recommend(ctx context.Context, in *RecommendRequest, opts ...grpc.CallOption) (*RecommendResponse, error)
	LastWeekCost(ctx context.Context, in *MeterRequest, opts ...grpc.CallOption) (*LastWeekCostResponse, error)
	DayOfWeekCost(ctx context.Context, in *MeterRequest, opts ...grpc.CallOption) (*DayOfWeekCostResponse, error)
	DaysOfWeekCosts(ctx context.Context, in *MeterRequest, opts ...grpc.CallOption) (*DaysOfWeekCostsResponse, error)
	RecommendByDayOfWeek(ctx context.Context, in *RecommendRequest, opts ...grpc.CallOption) (*RecommendByDayOfWeekResponse, error)
}

type pricingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPricingServiceClient(cc grpc.ClientConnInterface) PricingServiceClient {
	return &pricingServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pricingServiceClient) StoreReadings(ctx context.Context, in *StoreReadingsRequest, opts ...grpc.CallOption) (*StoreReadingsResponse, error) {
	return invoke[StoreReadingsResponse](ctx, c.cc, MethodStoreReadings, in, opts)
}

func (c *pricingServiceClient) ListReadings(ctx context.Context, in *ListReadingsRequest, opts ...grpc.CallOption) (*ListReadingsResponse, error) {
	return invoke[ListReadingsResponse](ctx, c.cc, MethodListReadings, in, opts)
}

func (c *pricingServiceClient) ListPricePlans(ctx context.Context, in *ListPricePlansRequest, opts ...grpc.CallOption) (*ListPricePlansResponse, error) {
	return invoke[ListPricePlansResponse](ctx, c.cc, MethodListPricePlans, in, opts)
}

func (c *pricingServiceClient) CompareAll(ctx context.Context, in *MeterRequest, opts ...grpc.CallOption) (*CompareAllResponse, error) {
	return invoke[CompareAllResponse](ctx, c.cc, MethodCompareAll, in, opts)
}

func (c *pricingServiceClient) Recommend(ctx context.Context, in *RecommendRequest, opts ...grpc.CallOption) (*RecommendResponse, error) {
	return invoke[RecommendResponse](ctx, c.cc, MethodRecommend, in, opts)
}

func (c *pricingServiceClient) LastWeekCost(ctx context.Context, in *MeterRequest, opts ...grpc.CallOption) (*LastWeekCostResponse, error) {
	return invoke[LastWeekCostResponse](ctx, c.cc, MethodLastWeekCost, in, opts)
}

func (c *pricingServiceClient) DayOfWeekCost(ctx context.Context, in *MeterRequest, opts ...grpc.CallOption) (*DayOfWeekCostResponse, error) {
	return invoke[DayOfWeekCostResponse](ctx, c.cc, MethodDayOfWeekCost, in, opts)
}

func (c *pricingServiceClient) DaysOfWeekCosts(ctx context.Context, in *MeterRequest, opts ...grpc.CallOption) (*DaysOfWeekCostsResponse, error) {
	return invoke[DaysOfWeekCostsResponse](ctx, c.cc, MethodDaysOfWeekCosts, in, opts)
}

func (c *pricingServiceClient) RecommendByDayOfWeek(ctx context.Context, in *RecommendRequest, opts ...grpc.CallOption) (*RecommendByDayOfWeekResponse, error) {
	return invoke[RecommendByDayOfWeekResponse](ctx, c.cc, MethodRecommendByDayOfWeek, in, opts)
}

// PricingServiceServer is the server API for PricingService. Implementations must
// embed UnimplementedPricingServiceServer.
type PricingServiceServer interface {
	StoreReadings(context.Context, *StoreReadingsRequest) (*StoreReadingsResponse, error)
	ListReadings(context.Context, *ListReadingsRequest) (*ListReadingsResponse, error)
	ListPricePlans(context.Context, *ListPricePlansRequest) (*ListPricePlansResponse, error)
	CompareAll(context.Context, *MeterRequest) (*CompareAllResponse, error)
	Recommend(context.Context, *RecommendRequest) (*RecommendResponse, error)
	LastWeekCost(context.Context, *MeterRequest) (*LastWeekCostResponse, error)
	DayOfWeekCost(context.Context, *MeterRequest) (*DayOfWeekCostResponse, error)
	DaysOfWeekCosts(context.Context, *MeterRequest) (*DaysOfWeekCostsResponse, error)
	RecommendByDayOfWeek(context.Context, *RecommendRequest) (*RecommendByDayOfWeekResponse, error)
	mustEmbedUnimplementedPricingServiceServer()
}

type UnimplementedPricingServiceServer struct{}

func (UnimplementedPricingServiceServer) StoreReadings(context.Context, *StoreReadingsRequest) (*StoreReadingsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method StoreReadings not implemented")
}
func (UnimplementedPricingServiceServer) ListReadings(context.Context, *ListReadingsRequest) (*ListReadingsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListReadings not implemented")
}
func (UnimplementedPricingServiceServer) ListPricePlans(context.Context, *ListPricePlansRequest) (*ListPricePlansResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPricePlans not implemented")
}
func (UnimplementedPricingServiceServer) CompareAll(context.Context, *MeterRequest) (*CompareAllResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CompareAll not implemented")
}
func (UnimplementedPricingServiceServer) Recommend(context.Context, *RecommendRequest) (*RecommendResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Recommend not implemented")
}
func (UnimplementedPricingServiceServer) LastWeekCost(context.Context, *MeterRequest) (*LastWeekCostResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method LastWeekCost not implemented")
}
func (UnimplementedPricingServiceServer) DayOfWeekCost(context.Context, *MeterRequest) (*DayOfWeekCostResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DayOfWeekCost not implemented")
}
func (UnimplementedPricingServiceServer) DaysOfWeekCosts(context.Context, *MeterRequest) (*DaysOfWeekCostsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DaysOfWeekCosts not implemented")
}
func (UnimplementedPricingServiceServer) RecommendByDayOfWeek(context.Context, *RecommendRequest) (*RecommendByDayOfWeekResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecommendByDayOfWeek not implemented")
}
func (UnimplementedPricingServiceServer) mustEmbedUnimplementedPricingServiceServer() {}

func RegisterPricingServiceServer(s grpc.ServiceRegistrar, srv PricingServiceServer) {
	s.RegisterService(&PricingService_ServiceDesc, srv)
}

func unary[Req, Resp any](method string, call func(PricingServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PricingServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PricingServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// PricingService_ServiceDesc is the grpc.ServiceDesc for PricingService.
var PricingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodStoreReadings, PricingServiceServer.StoreReadings),
		unary(MethodListReadings, PricingServiceServer.ListReadings),
		unary(MethodListPricePlans, PricingServiceServer.ListPricePlans),
		unary(MethodCompareAll, PricingServiceServer.CompareAll),
		unary(MethodRecommend, PricingServiceServer.Recommend),
		unary(MethodLastWeekCost, PricingServiceServer.LastWeekCost),
		unary(MethodDayOfWeekCost, PricingServiceServer.DayOfWeekCost),
		unary(MethodDaysOfWeekCosts, PricingServiceServer.DaysOfWeekCosts),
		unary(MethodRecommendByDayOfWeek, PricingServiceServer.RecommendByDayOfWeek),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "energy/pricing/v1/pricing.proto",
}
