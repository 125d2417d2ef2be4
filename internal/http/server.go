// Package http exposes the JSON API. Every route under /api/v1
// requires the X-API-Key header; /health is open.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"financepro/internal/cache"
	applog "financepro/internal/log"
	"financepro/internal/reports"
	"financepro/internal/services"
	"financepro/internal/storage"
)

type Options struct {
	Addr               string
	APIToken           string
	Store              *storage.SQLiteRepository
	Transactions       *services.TransactionService
	Reports            *services.ReportService
	RateLimitPerMinute int
	CacheTTL           time.Duration
	CacheMaxSize       int
}

type Server struct {
	http.Server
	token   string
	store   *storage.SQLiteRepository
	txns    *services.TransactionService
	reports *services.ReportService
	limiter *rateLimiter

	// Dashboard responses are cached between writes.
	dashCache *cache.Cache[reports.DashboardSummary]

	shutdownOnce sync.Once
}

func NewServer(opts Options) *Server {
	s := &Server{
		token:     opts.APIToken,
		store:     opts.Store,
		txns:      opts.Transactions,
		reports:   opts.Reports,
		limiter:   newRateLimiter(opts.RateLimitPerMinute),
		dashCache: cache.New[reports.DashboardSummary](opts.CacheMaxSize, opts.CacheTTL, time.Minute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	// Transactions
	mux.HandleFunc("GET /api/v1/transactions", s.auth(s.handleListTransactions))
	mux.HandleFunc("POST /api/v1/transactions", s.auth(s.handleCreateTransaction))
	mux.HandleFunc("POST /api/v1/transactions/import", s.auth(s.handleImportTransactions))
	mux.HandleFunc("POST /api/v1/transactions/classify", s.auth(s.handleClassify))
	mux.HandleFunc("GET /api/v1/transactions/{id}", s.auth(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/v1/transactions/{id}", s.auth(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/v1/transactions/{id}", s.auth(s.handleDeleteTransaction))

	// Categories
	mux.HandleFunc("GET /api/v1/categories", s.auth(s.handleListCategories))
	mux.HandleFunc("POST /api/v1/categories", s.auth(s.handleCreateCategory))
	mux.HandleFunc("GET /api/v1/categories/{id}", s.auth(s.handleGetCategory))
	mux.HandleFunc("PUT /api/v1/categories/{id}", s.auth(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/v1/categories/{id}", s.auth(s.handleDeleteCategory))

	// Accounts
	mux.HandleFunc("GET /api/v1/accounts", s.auth(s.handleListAccounts))
	mux.HandleFunc("POST /api/v1/accounts", s.auth(s.handleCreateAccount))
	mux.HandleFunc("GET /api/v1/accounts/{id}", s.auth(s.handleGetAccount))
	mux.HandleFunc("PUT /api/v1/accounts/{id}", s.auth(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /api/v1/accounts/{id}", s.auth(s.handleDeleteAccount))

	// Budgets
	mux.HandleFunc("GET /api/v1/budgets", s.auth(s.handleListBudgets))
	mux.HandleFunc("POST /api/v1/budgets", s.auth(s.handleCreateBudget))
	mux.HandleFunc("GET /api/v1/budgets/{id}", s.auth(s.handleGetBudget))
	mux.HandleFunc("PUT /api/v1/budgets/{id}", s.auth(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/v1/budgets/{id}", s.auth(s.handleDeleteBudget))

	// Reports. Fixed paths are matched before the {id} patterns.
	mux.HandleFunc("GET /api/v1/reports/tax-summary", s.auth(s.handleTaxSummary))
	mux.HandleFunc("GET /api/v1/reports/monthly", s.auth(s.handleMonthlyReport))
	mux.HandleFunc("GET /api/v1/reports/category", s.auth(s.handleCategoryReport))
	mux.HandleFunc("GET /api/v1/reports", s.auth(s.handleListReports))
	mux.HandleFunc("POST /api/v1/reports", s.auth(s.handleCreateReport))
	mux.HandleFunc("GET /api/v1/reports/{id}", s.auth(s.handleGetReport))
	mux.HandleFunc("PUT /api/v1/reports/{id}", s.auth(s.handleUpdateReport))
	mux.HandleFunc("DELETE /api/v1/reports/{id}", s.auth(s.handleDeleteReport))

	// Dashboard
	mux.HandleFunc("GET /api/v1/dashboard", s.auth(s.handleDashboard))

	// Outermost in: request id, request logger, rate limit and logging.
	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	handler := s.withRequestContext(mux)
	handler = applog.RequestIDMiddleware(requestIDFromContext)(handler)
	handler = applog.Middleware(logger)(handler)
	handler = withRequestID(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// auth checks the static API key. The error shape matches every other
// API error.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != s.token {
			respondError(w, http.StatusUnauthorized,
				"Invalid or missing API key. Provide it via the X-API-Key header.")
			return
		}
		next(w, r)
	}
}

// invalidateDashboard is called by every write handler so cached
// summaries never outlive the data they summarize.
func (s *Server) invalidateDashboard() {
	s.dashCache.Flush()
}

// Shutdown stops the HTTP listener and the background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.stop()
		s.dashCache.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady also checks the database, so orchestrators can tell a
// live process from a serving one.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
