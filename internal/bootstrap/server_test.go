package bootstrap

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Domenick1991/flightsearch/config"
	"github.com/Domenick1991/flightsearch/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubSearchServer struct {
	got *structpb.Struct
	err error
}

func (s *stubSearchServer) SearchFlights(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return structpb.NewStruct(map[string]interface{}{"totalResults": 0, "trips": []interface{}{}})
}

func testHandler(t *testing.T, swaggerDir string, search *stubSearchServer) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app := gin.New()
	app.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	app.GET("/flights/airline/:code", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"airline": c.Param("code")}) })
	app.POST("/search/flights", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	if search == nil {
		search = &stubSearchServer{}
	}
	cfg := config.HTTPConfig{CORSAllowedOrigins: []string{"http://localhost:3000"}, SwaggerDir: swaggerDir}
	h, err := newHTTPHandler(cfg, metrics.NewRegistry(), search, app, nil)
	require.NoError(t, err)
	return h
}

func TestHTTPHandler_MountsApp(t *testing.T) {
	h := testHandler(t, "", nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/flights/airline/AA", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"airline":"AA"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/search/flights", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestHTTPHandler_GatewaySearch(t *testing.T) {
	search := &stubSearchServer{}
	h := testHandler(t, "", search)

	req := httptest.NewRequest("POST", gatewaySearchPath, bytes.NewBufferString(`{"sourceAirport":"BOS","destinationAirport":"LAX"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalResults":0,"trips":[]}`, w.Body.String())
	require.NotNil(t, search.got)
	assert.Equal(t, "BOS", search.got.GetFields()["sourceAirport"].GetStringValue())
}

func TestHTTPHandler_GatewaySearchErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid argument", status.Error(codes.InvalidArgument, "sourceAirport must be a three-letter airport code"), http.StatusBadRequest},
		{"not found", status.Error(codes.NotFound, "airport ZZZ"), http.StatusNotFound},
		{"internal", status.Error(codes.Internal, "internal error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := testHandler(t, "", &stubSearchServer{err: tc.err})

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest("POST", gatewaySearchPath, bytes.NewBufferString(`{}`)))

			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), status.Convert(tc.err).Message())
		})
	}
}

func TestHTTPHandler_GatewaySearchMalformedBody(t *testing.T) {
	search := &stubSearchServer{}
	h := testHandler(t, "", search)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", gatewaySearchPath, bytes.NewBufferString(`{"sourceAirport":`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, search.got)
}

func TestHTTPHandler_Metrics(t *testing.T) {
	h := testHandler(t, "", nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestHTTPHandler_CORSExposesSessionHeader(t *testing.T) {
	h := testHandler(t, "", nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Session-Id")
}

func TestHTTPHandler_ServesSwaggerSpec(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flightsearch.swagger.json"), []byte(`{"swagger":"2.0"}`), 0o644))
	h := testHandler(t, dir, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", swaggerSpecURL, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger")
}

func TestNewServers(t *testing.T) {
	cfg := &config.Config{
		HTTP: config.HTTPConfig{Address: ":0"},
		GRPC: config.GRPCConfig{Address: ":0"},
	}
	s, err := newServers(cfg, Deps{Metrics: metrics.NewRegistry()})

	require.NoError(t, err)
	require.NotNil(t, s.grpcServer)
	assert.Equal(t, ":0", s.httpServer.Addr)
	info := s.grpcServer.GetServiceInfo()
	assert.Contains(t, info, "flightsearch.v1.SearchService")
	assert.Contains(t, info, "grpc.health.v1.Health")
}
