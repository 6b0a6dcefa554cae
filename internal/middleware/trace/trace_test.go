package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "fuelstats/internal/log"
	"fuelstats/internal/metrics"
)

func TestMiddleware_RequestIDLogAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Output: &buf})
	m := metrics.New(prometheus.NewRegistry())

	var seenID string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/summary", func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	h := NewMiddleware(logger, func(*http.Request) string { return "10.0.0.1" }, m).Middleware(mux)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/summary?collection=bike_history", nil))

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.True(t, strings.HasPrefix(seenID, "req_"))
	assert.Equal(t, seenID, rr.Header().Get(RequestIDHeader))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status_code=422")
	assert.Contains(t, out, "client_ip=10.0.0.1")

	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
	assert.Contains(t, metricLabels(t, m), `route="GET /api/summary"`)
}

func TestMiddleware_KeepsIncomingRequestID(t *testing.T) {
	h := NewMiddleware(nil, nil, nil).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", GetRequestID(r.Context()))
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc", rr.Header().Get(RequestIDHeader))
}

func metricLabels(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m.RequestDuration))
	families, err := reg.Gather()
	require.NoError(t, err)
	var b strings.Builder
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				b.WriteString(l.GetName() + `="` + l.GetValue() + `" `)
			}
		}
	}
	return b.String()
}
