package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"gigbook/internal/auth"
	"gigbook/internal/cache"
	"gigbook/internal/middleware/ratelimit"
	"gigbook/internal/middleware/security"
	"gigbook/internal/middleware/trace"
	"gigbook/internal/services"
	appweb "gigbook/web"
)

type Server struct {
	http.Server

	templates *template.Template

	store     services.Store
	dashboard *services.DashboardService
	billing   *services.BillingService

	attempts      *auth.AttemptLimiter
	sessionSecret string

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	caches   *cache.Manager

	shutdownOnce sync.Once
}

// Options carries the wiring a Server needs besides its services.
type Options struct {
	Addr          string
	SessionSecret string
	RateLimit     ratelimit.Config
	CacheCleanup  time.Duration
}

func NewServer(opts Options, store services.Store, dashboard *services.DashboardService, billing *services.BillingService, caches *cache.Manager) *Server {
	mux := http.NewServeMux()

	detector := security.NewDetector()

	s := &Server{
		store:         store,
		dashboard:     dashboard,
		billing:       billing,
		attempts:      auth.NewAttemptLimiter(auth.DefaultLimiterConfig()),
		sessionSecret: opts.SessionSecret,
		limiter:       ratelimit.NewLimiter(opts.RateLimit),
		detector:      detector,
		tracer:        trace.NewMiddleware(detector.ExtractClientIP),
		caches:        caches,
	}

	if caches != nil {
		interval := opts.CacheCleanup
		if interval <= 0 {
			interval = time.Minute
		}
		caches.StartCleanup(interval)
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/dashboard/trend", s.handleDashboardTrend)

	mux.HandleFunc("GET /api/clients", s.handleListClients)
	mux.HandleFunc("POST /api/clients", s.handleCreateClient)
	mux.HandleFunc("GET /api/clients/{id}", s.handleGetClient)
	mux.HandleFunc("PUT /api/clients/{id}", s.handleUpdateClient)
	mux.HandleFunc("DELETE /api/clients/{id}", s.handleDeleteClient)

	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PUT /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)

	mux.HandleFunc("GET /api/invoices", s.handleListInvoices)
	mux.HandleFunc("POST /api/invoices", s.handleCreateInvoice)
	mux.HandleFunc("GET /api/invoices/{id}", s.handleGetInvoice)
	mux.HandleFunc("PUT /api/invoices/{id}", s.handleUpdateInvoice)
	mux.HandleFunc("DELETE /api/invoices/{id}", s.handleDeleteInvoice)
	mux.HandleFunc("POST /api/invoices/{id}/reminder", s.handleInvoiceReminder)

	mux.HandleFunc("GET /api/payments", s.handleListPayments)
	mux.HandleFunc("POST /api/payments", s.handleCreatePayment)
	mux.HandleFunc("GET /api/payments/{id}", s.handleGetPayment)
	mux.HandleFunc("DELETE /api/payments/{id}", s.handleDeletePayment)

	mux.HandleFunc("POST /api/session", s.handleCreateSession)
	mux.HandleFunc("GET /api/metrics", s.handleMetrics)
	mux.HandleFunc("POST /api/export", s.handleExport)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limited := s.limiter.Middleware(detector.ExtractClientIP, nil)

	s.Server = http.Server{
		Addr:    opts.Addr,
		Handler: s.tracer.Middleware(headers.Middleware(limited(s.suspicionFilter(mux)))),
	}

	return s
}

// suspicionFilter logs requests matching known probe patterns. They are
// served anyway; the log line is what matters.
func (s *Server) suspicionFilter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request",
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r),
				"user_agent", r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops background workers and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.attempts.Stop()
		if s.caches != nil {
			s.caches.Stop()
		}
	})
	return s.Server.Shutdown(ctx)
}

// handleExport queues a ledger export for the worker to pick up.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if err := s.billing.QueueExport(r.Context()); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// handleMetrics exposes request and rate limiting counters for scraping.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traffic := s.tracer.GetMetrics()
	limits := s.limiter.GetMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"requests_total":       traffic.TotalRequests,
		"avg_response_us":      traffic.AverageResponseTime,
		"rate_limited_total":   limits.TotalHits,
		"rate_limited_clients": limits.ClientCount,
		"suspicious_requests":  s.detector.SuspiciousCount(),
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
