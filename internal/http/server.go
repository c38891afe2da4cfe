// Package http is the JSON API boundary. Handlers translate wire
// shapes into service calls and core errors into status codes; the
// core itself never touches presentation.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"kharcha/internal/alerts"
	"kharcha/internal/auth"
	"kharcha/internal/cache"
	"kharcha/internal/core"
	"kharcha/internal/services"
)

// UserStore is the slice of storage the auth handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, name, mobile, passwordHash string) (core.User, error)
	UserByMobile(ctx context.Context, mobile string) (core.User, bool, error)
}

type Server struct {
	http.Server

	ledger  *services.LedgerService
	users   UserStore
	tokens  *auth.TokenManager
	monitor *alerts.Monitor

	rateLimiter *rateLimiter

	summaryCache *cache.LRU[summaryResponse]
	listCache    *cache.LRU[[]expenseResponse]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, ledger *services.LedgerService, users UserStore, tokens *auth.TokenManager, monitor *alerts.Monitor) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:           ledger,
		users:            users,
		tokens:           tokens,
		monitor:          monitor,
		rateLimiter:      newRateLimiter(),
		summaryCache:     cache.NewLRU[summaryResponse](200, 5*time.Minute),
		listCache:        cache.NewLRU[[]expenseResponse](200, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/register", s.withMiddleware(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.withMiddleware(s.handleLogin))

	mux.HandleFunc("GET /api/budgets/{year}/{month}", s.protected(s.handleGetBudget))
	mux.HandleFunc("POST /api/budgets", s.protected(s.handleSetBudget))
	mux.HandleFunc("DELETE /api/budgets/{year}/{month}", s.protected(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/expenses/annual/{year}", s.protected(s.handleAnnualExpenses))
	mux.HandleFunc("GET /api/expenses/{year}/{month}", s.protected(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.protected(s.handleCreateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.protected(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/summary/{year}/{month}", s.protected(s.handleMonthSummary))

	return s
}

func (s *Server) protected(next authedHandler) http.HandlerFunc {
	return s.withMiddleware(s.requireAuth(next))
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.summaryCache.CleanExpired()
			s.listCache.CleanExpired()
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
