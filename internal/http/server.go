package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fuelstats/internal/core"
	applog "fuelstats/internal/log"
	"fuelstats/internal/metrics"
	"fuelstats/internal/middleware/ratelimit"
	"fuelstats/internal/middleware/security"
	"fuelstats/internal/middleware/trace"
	"fuelstats/internal/source"
)

// ReportProvider computes the figures served by the API.
type ReportProvider interface {
	Summary(ctx context.Context, collection string) (core.Summary, error)
	Expenses(ctx context.Context, collection string) (core.Breakdown, error)
}

// Deps groups what the server needs. Writer may be nil, in which case the
// record creation route is not registered.
type Deps struct {
	Reports           ReportProvider
	Writer            source.RecordWriter
	DefaultCollection string
	RequestTimeout    time.Duration
	AllowedOrigins    []string

	Logger   *applog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// Ready reports whether the backing source is usable; nil means always ready.
	Ready func(ctx context.Context) error
}

type Server struct {
	http.Server
	deps        Deps
	rateLimiter *ratelimit.Limiter
}

func NewServer(addr string, deps Deps) *Server {
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 7 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = applog.FromContext(context.Background())
	}

	s := &Server{
		deps:        deps,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/expenses", s.handleExpenses)
	if deps.Writer != nil {
		mux.HandleFunc("POST /api/records", s.handleCreateRecord)
	}
	if deps.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// trace sits directly outside the middlewares that keep the same
	// *http.Request, so it can read the matched pattern afterwards.
	var h http.Handler = mux
	h = s.rateLimiter.Middleware(security.ExtractClientIP, http.MethodPost)(h)
	h = security.CORS(deps.AllowedOrigins)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = trace.NewMiddleware(deps.Logger, security.ExtractClientIP, deps.Metrics).Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      deps.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops accepting connections and releases the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), s.deps.RequestTimeout)
		defer cancel()
		if err := s.deps.Ready(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// collection returns the ?collection= value or the configured default.
func (s *Server) collection(r *http.Request) string {
	if c := r.URL.Query().Get("collection"); c != "" {
		return c
	}
	return s.deps.DefaultCollection
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrEmptyCollection), errors.Is(err, core.ErrInvalidCollection):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotEnoughData),
		errors.Is(err, core.ErrUndefinedMileage),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDistance),
		errors.Is(err, core.ErrInvalidDate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
