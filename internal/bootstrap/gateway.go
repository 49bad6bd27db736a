package bootstrap

import (
	"context"
	"errors"
	"io"
	"net/http"

	searchapi "github.com/Domenick1991/flightsearch/internal/api/search_service_api"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// gatewaySearchPath exposes SearchFlights over HTTP with gRPC status mapping.
const gatewaySearchPath = "/v1/search/flights"

var appMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

func newGatewayMux(logger *zap.SugaredLogger) *runtime.ServeMux {
	return runtime.NewServeMux(
		runtime.WithErrorHandler(gatewayErrorHandler(logger)),
		runtime.WithDisablePathLengthFallback(),
		runtime.WithMarshalerOption(runtime.MIMEWildcard, &runtime.JSONPb{
			MarshalOptions:   protojson.MarshalOptions{EmitUnpopulated: true},
			UnmarshalOptions: protojson.UnmarshalOptions{DiscardUnknown: true},
		}),
	)
}

// mountApp routes every request the gateway does not claim to app. Patterns
// registered later take precedence, so this has to run first.
func mountApp(mux *runtime.ServeMux, app http.Handler) error {
	forward := func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		app.ServeHTTP(w, r)
	}
	for _, method := range appMethods {
		if err := mux.HandlePath(method, "/**", forward); err != nil {
			return err
		}
	}
	return nil
}

func gatewaySearch(mux *runtime.ServeMux, srv searchapi.SearchServiceServer) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		ctx := runtime.NewServerMetadataContext(r.Context(), runtime.ServerMetadata{})
		inbound, outbound := runtime.MarshalerForRequest(mux, r)

		req := &structpb.Struct{}
		if err := inbound.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
			runtime.HTTPError(ctx, mux, outbound, w, r, status.Errorf(codes.InvalidArgument, "decode request: %v", err))
			return
		}
		resp, err := srv.SearchFlights(ctx, req)
		if err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, r, err)
			return
		}
		runtime.ForwardResponseMessage(ctx, mux, outbound, w, r, resp)
	}
}

func gatewayErrorHandler(logger *zap.SugaredLogger) runtime.ErrorHandlerFunc {
	return func(ctx context.Context, mux *runtime.ServeMux, m runtime.Marshaler, w http.ResponseWriter, r *http.Request, err error) {
		if status.Code(err) == codes.Internal || status.Code(err) == codes.Unknown {
			logger.Errorw("gateway request failed", "path", r.URL.Path, "error", err)
		}
		runtime.DefaultHTTPErrorHandler(ctx, mux, m, w, r, err)
	}
}
