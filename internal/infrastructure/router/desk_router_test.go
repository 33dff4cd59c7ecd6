package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"flightdesk-service/internal/interface/handler"
	"flightdesk-service/internal/interface/notice"
	store "flightdesk-service/internal/interface/repository"
	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, origins []string) (*gin.Engine, *metrics.Metrics) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("desk_test", reg)

	session := usecase.NewSessionStore(store.NewMemoryKeyValueStore())
	board := notice.NewBoard(10, logger.NewNop())
	desk := usecase.NewFlightDesk(usecase.FlightDeskSettings{}, usecase.FlightDeskDeps{
		Session:  session,
		Notifier: board,
		Logger:   logger.NewNop(),
		Metrics:  m,
	})
	t.Cleanup(desk.Close)

	h := handler.NewDeskHandler(desk, session, board, logger.NewNop())
	return NewDeskRouter(Options{Mode: gin.TestMode, CORSOrigins: origins, Version: "test"}, h, reg, logger.NewNop()), m
}

func TestDeskRouter_Health(t *testing.T) {
	r, _ := newTestEngine(t, []string{"*"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestDeskRouter_KeepsCallerRequestID(t *testing.T) {
	r, _ := newTestEngine(t, []string{"*"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestDeskRouter_Metrics(t *testing.T) {
	r, m := newTestEngine(t, []string{"*"})
	m.SearchesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `desk_test_searches_total{outcome="success"} 1`)
}

func TestDeskRouter_CORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantHeader string
	}{
		{name: "listed origin", origins: []string{"https://desk.example.com"}, origin: "https://desk.example.com", wantHeader: "https://desk.example.com"},
		{name: "unlisted origin", origins: []string{"https://desk.example.com"}, origin: "https://evil.example.com", wantHeader: ""},
		{name: "wildcard", origins: []string{"*"}, origin: "https://anything.example.com", wantHeader: "*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestEngine(t, tt.origins)

			req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
