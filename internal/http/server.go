package http

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	appweb "fintrack/web"
)

// Server hosts the expense tracker UI and its HTMX partials.
type Server struct {
	http.Server
	templates *template.Template

	tracker  *services.Tracker
	authSvc  *auth.Service
	sessions *auth.Sessions

	limiter  *ratelimit.Limiter
	headers  *security.HeadersMiddleware
	resolver *security.Resolver
	tracer   *trace.Middleware
	logger   *applog.Logger
	logs     *applog.StructuredLogger

	// Per-user expense list cache backing all dashboard partials.
	// Invalidated wholesale on any write by that user.
	expensesCache *cache.LRUCache[[]core.Expense]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, tracker *services.Tracker, authSvc *auth.Service, sessions *auth.Sessions) *Server {
	mux := http.NewServeMux()

	resolver := security.NewResolver()

	logCfg := applog.DefaultConfig()
	logCfg.Component = applog.ComponentHTTP
	logger := applog.New(logCfg)

	s := &Server{
		tracker:  tracker,
		authSvc:  authSvc,
		sessions: sessions,

		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		headers:  security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		resolver: resolver,
		tracer:   trace.NewMiddleware(resolver.ExtractClientIP),
		logger:   logger,
		logs:     applog.NewStructuredLogger(logger),

		expensesCache: cache.NewLRUCache[[]core.Expense](200, 5*time.Minute),
		cacheManager:  cache.NewManager(),
	}
	s.cacheManager.Register(s.expensesCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

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

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/debug/metrics", s.handleMetrics)

	// Auth pages are public
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/signup", s.handleSignup)
	mux.HandleFunc("/logout", s.handleLogout)

	// Everything else requires a session
	mux.HandleFunc("/", s.requireAuth(s.handleIndex))
	mux.HandleFunc("/expenses", s.requireAuth(s.handleCreateExpense))
	mux.HandleFunc("/expenses/import", s.requireAuth(s.handleImportExpenses))
	mux.HandleFunc("/categories", s.requireAuth(s.handleAddCategory))
	mux.HandleFunc("/budgets", s.requireAuth(s.handleSetBudget))
	mux.HandleFunc("/budgets/remove", s.requireAuth(s.handleRemoveBudget))
	mux.HandleFunc("/export/expenses.csv", s.requireAuth(s.handleExportExpenses))
	mux.HandleFunc("/export/budgets.csv", s.requireAuth(s.handleExportBudgets))

	// Dashboard partials
	mux.HandleFunc("/ui/overview", s.requireAuth(s.handleOverview))
	mux.HandleFunc("/ui/categories", s.requireAuth(s.handleCategoryBreakdown))
	mux.HandleFunc("/ui/trend", s.requireAuth(s.handleTrend))
	mux.HandleFunc("/ui/weekdays", s.requireAuth(s.handleWeekdays))
	mux.HandleFunc("/ui/budgets", s.requireAuth(s.handleBudgetStatus))
	mux.HandleFunc("/ui/recent", s.requireAuth(s.handleRecentExpenses))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(s.headers.Middleware(s.withRateLimit(applog.Middleware(logger)(mux)))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// withRateLimit applies per-IP rate limiting to mutating requests.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			clientIP := s.resolver.ExtractClientIP(r)
			if !s.limiter.Allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth verifies the session cookie and stores the username in the
// request context. Browsers get redirected to /login, HTMX requests get an
// HX-Redirect so the whole page navigates.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := s.sessions.FromRequest(r)
		if token == "" {
			s.redirectToLogin(w, r)
			return
		}
		username, err := s.sessions.Verify(token)
		if err != nil {
			slog.WarnContext(r.Context(), "Session verification failed", "error", err)
			s.sessions.ClearCookie(w)
			s.redirectToLogin(w, r)
			return
		}
		next(w, r.WithContext(auth.WithUser(r.Context(), username)))
	}
}

func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics reports the request counters collected by the trace
// middleware. Unauthenticated, like the health probes.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := s.tracer.GetMetrics()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int64{
		"total_requests":           m.TotalRequests,
		"average_response_time_us": m.AverageResponseTime,
	})
}

// getExpenses returns the user's full expense list, cached per user.
func (s *Server) getExpenses(ctx context.Context, username string) ([]core.Expense, error) {
	key := expensesCacheKey(username)

	if items, found := s.expensesCache.Get(key); found {
		slog.DebugContext(ctx, "Expenses cache hit", "username", username, "count", len(items))
		// Return a copy to prevent external mutation
		result := make([]core.Expense, len(items))
		copy(result, items)
		return result, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	items, err := s.tracker.FilterExpenses(cctx, username, core.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list expenses (username=%s): %w", username, err)
	}

	s.expensesCache.Set(key, items)
	slog.DebugContext(ctx, "Expenses cached", "username", username, "count", len(items))
	return items, nil
}

func expensesCacheKey(username string) string {
	return "expenses:" + username
}

// invalidateUser drops all cached views of one user after a write.
func (s *Server) invalidateUser(username string) {
	s.expensesCache.DeletePrefix(expensesCacheKey(username))
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
