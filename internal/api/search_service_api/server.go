package search_service_api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/service/search"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName         = "flightsearch.v1.SearchService"
	SearchFlightsMethod = "/" + ServiceName + "/SearchFlights"
)

// SearchServiceServer takes and returns google.protobuf.Struct so the wire
// shape matches the HTTP search endpoints without generated stubs.
type SearchServiceServer interface {
	SearchFlights(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SearchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SearchFlights", Handler: searchFlightsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "flightsearch/v1/search.proto",
}

func RegisterSearchServiceServer(s grpc.ServiceRegistrar, srv SearchServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func searchFlightsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SearchServiceServer).SearchFlights(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SearchFlightsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SearchServiceServer).SearchFlights(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Server adapts the search use case to gRPC.
type Server struct {
	search search.SearchUseCase
	logger *zap.SugaredLogger
}

func NewServer(searchSvc search.SearchUseCase, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Server{search: searchSvc, logger: logger}
}

func (s *Server) SearchFlights(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	departure, err := search.ParseDepartureTime(fields["departureTime"].GetStringValue())
	if err != nil {
		return nil, toStatus(err)
	}

	result, err := s.search.Search(ctx,
		fields["sourceAirport"].GetStringValue(),
		fields["destinationAirport"].GetStringValue(),
		departure,
	)
	if err != nil {
		st := toStatus(err)
		if status.Code(st) == codes.Internal {
			s.logger.Errorw("grpc search failed", "error", err)
		}
		return nil, st
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

var _ SearchServiceServer = (*Server)(nil)
