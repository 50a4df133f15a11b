// Package handler wires the HTTP surface: routing, auth middleware and the
// JSON request/response plumbing on top of the service layer.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/neurobudget/neurobudget-api/internal/domain"
	"github.com/neurobudget/neurobudget-api/internal/infra/observability"
	"github.com/neurobudget/neurobudget-api/internal/port"
	"github.com/neurobudget/neurobudget-api/internal/service"
)

var tracer = otel.Tracer("handler")

// Services bundles everything the router needs.
type Services struct {
	Auth     *service.AuthService
	Ledger   *service.LedgerService
	Txns     *service.TransactionService
	Cashflow *service.CashflowService
	Tokens   *service.TokenService
	Users    port.UserStore
}

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract expected by the mobile client.
func NewRouter(svcs Services, identities port.Cache[string], metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(metricsMiddleware(metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svcs.Users))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	r.Get("/v1/metrics/ledger", ledgerMetricsHandler(metrics))

	// --- API v1 ---
	r.Route("/api/v1", func(r chi.Router) {

		// =============================================
		// Authentication (public)
		// =============================================
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authRegisterHandler(svcs.Auth, logger))
			r.Post("/login", authLoginHandler(svcs.Auth, metrics, logger))
			r.Post("/refresh", authRefreshHandler(svcs.Auth, metrics, logger))
		})

		// =============================================
		// Ledger (protected)
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(svcs.Tokens, svcs.Users, identities, metrics, logger))

			// Accounts
			r.Post("/accounts", createAccountHandler(svcs.Ledger, logger))
			r.Get("/accounts", listAccountsHandler(svcs.Ledger, logger))
			r.Get("/accounts/cashflow", cashflowHandler(svcs.Cashflow, logger))
			r.Get("/accounts/{accountId}", getAccountHandler(svcs.Ledger, logger))
			r.Put("/accounts/{accountId}", updateAccountHandler(svcs.Ledger, logger))
			r.Delete("/accounts/{accountId}", deleteAccountHandler(svcs.Ledger, logger))

			// Transactions
			r.Post("/transactions", createTransactionHandler(svcs.Txns, logger))
			r.Get("/transactions", listTransactionsHandler(svcs.Txns, logger))
			r.Get("/transactions/{transactionId}", getTransactionHandler(svcs.Txns, logger))
			r.Put("/transactions/{transactionId}", updateTransactionHandler(svcs.Txns, logger))
			r.Delete("/transactions/{transactionId}", deleteTransactionHandler(svcs.Txns, logger))

			// Dashboard
			r.Get("/dashboard", dashboardHandler(svcs.Cashflow, logger))
		})
	})

	return r
}

// metricsMiddleware records request counts and latency per request.
func metricsMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			metrics.RecordRequestDuration(r.Method+" "+r.URL.Path, time.Since(start))
			if ww.Status() >= 500 {
				metrics.IncrRequest("error")
			} else {
				metrics.IncrRequest("success")
			}
		})
	}
}

// ============================================================
// Health & Metrics
// ============================================================

func healthzHandler(users port.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		// Probe the store with a cheap lookup.
		start := time.Now()
		_, err := users.GetUserByEmail(r.Context(), "health@probe.invalid")
		latency := time.Since(start).Milliseconds()

		storeStatus := "healthy"
		overall := "healthy"
		if err != nil {
			storeStatus = "unhealthy"
			overall = "degraded"
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status: overall,
			Services: []domain.ServiceHealth{
				{Name: "neurobudget-api", Status: "healthy", LatencyMs: 0, LastChecked: now},
				{Name: "sqlite", Status: storeStatus, LatencyMs: latency, LastChecked: now},
			},
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func ledgerMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetLedgerSnapshot())
	}
}
