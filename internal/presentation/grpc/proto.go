package grpc

// proto.go hand-writes the service descriptor of
// flexanalise.recalc.v1.RecalculationService. Messages travel with the JSON
// codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/devflexlabs/flex-analise-backend/internal/application/dto"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "flexanalise.recalc.v1.RecalculationService"

	MethodRecalculate = "/" + ServiceName + "/Recalculate"
	MethodGetAnalysis = "/" + ServiceName + "/GetAnalysis"
)

// RecalculateRequest carries the extracted contract terms.
type RecalculateRequest struct {
	dto.RecalculateRequest
}

// GetAnalysisRequest selects a stored analysis.
type GetAnalysisRequest struct {
	ID string `json:"id"`
}

// AnalysisReply wraps a stored analysis.
type AnalysisReply struct {
	Analysis dto.AnalysisResponse `json:"analysis"`
}

// RecalculationServiceServer is the server API for RecalculationService.
type RecalculationServiceServer interface {
	Recalculate(context.Context, *RecalculateRequest) (*AnalysisReply, error)
	GetAnalysis(context.Context, *GetAnalysisRequest) (*AnalysisReply, error)
	mustEmbedUnimplementedRecalculationServiceServer()
}

// UnimplementedRecalculationServiceServer provides forward-compatible default implementations.
type UnimplementedRecalculationServiceServer struct{}

func (UnimplementedRecalculationServiceServer) Recalculate(context.Context, *RecalculateRequest) (*AnalysisReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Recalculate not implemented")
}
func (UnimplementedRecalculationServiceServer) GetAnalysis(context.Context, *GetAnalysisRequest) (*AnalysisReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAnalysis not implemented")
}
func (UnimplementedRecalculationServiceServer) mustEmbedUnimplementedRecalculationServiceServer() {}

// RegisterRecalculationServiceServer registers srv with the gRPC server.
func RegisterRecalculationServiceServer(s grpclib.ServiceRegistrar, srv RecalculationServiceServer) {
	s.RegisterService(&_RecalculationService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _RecalculationService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RecalculationServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Recalculate", Handler: _RecalculationService_Recalculate_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "GetAnalysis", Handler: _RecalculationService_GetAnalysis_Handler}, //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _RecalculationService_Recalculate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(RecalculateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecalculationServiceServer).Recalculate(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: MethodRecalculate,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecalculationServiceServer).Recalculate(ctx, req.(*RecalculateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _RecalculationService_GetAnalysis_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetAnalysisRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecalculationServiceServer).GetAnalysis(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: MethodGetAnalysis,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecalculationServiceServer).GetAnalysis(ctx, req.(*GetAnalysisRequest))
	}
	return interceptor(ctx, in, info, handler)
}
