package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"expenso/internal/log"
	"expenso/internal/middleware/security"
	"expenso/internal/middleware/trace"
	"expenso/internal/store"
)

type Server struct {
	http.Server
	store    *store.Store
	logger   *log.Logger
	currency string

	shutdownOnce sync.Once
}

// NewServer wires the API routes over st. currency is the symbol used in
// formatted amounts.
func NewServer(addr string, st *store.Store, logger *log.Logger, currency string) *Server {
	mux := http.NewServeMux()
	s := &Server{
		store:    st,
		logger:   logger.WithComponent(log.ComponentHTTP),
		currency: currency,
	}

	mux.HandleFunc("GET /healthz", handleHealth)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /api/colors/{category}", s.handleColor)

	mux.HandleFunc("GET /api/selection", s.handleGetSelection)
	mux.HandleFunc("PUT /api/selection", s.handleSetSelection)
	mux.HandleFunc("POST /api/selection/{direction}", s.handleNavigate)
	mux.HandleFunc("GET /api/summary", s.handleSummary)

	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	var h http.Handler = mux
	h = headers.Middleware(h)
	h = log.AccessLog(h)
	h = trace.Middleware(h)
	h = log.Middleware(s.logger)(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
