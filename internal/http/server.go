package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tracker/internal/core"
	appweb "tracker/web"
)

// Store is the storage handle the server owns for its whole lifetime. It is
// passed in explicitly; handlers never reach for global state.
type Store interface {
	Insert(ctx context.Context, e core.Expense) (int64, error)
	List(ctx context.Context) ([]core.Expense, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server
	templates *template.Template
	store     Store
}

// NewServer parses the embedded templates, mounts static assets, and
// configures routes, returning a ready-to-run http.Server. All startup
// initialization happens here, decoupled from request handling.
func NewServer(addr string, store Store) (*Server, error) {
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		Server:    http.Server{Addr: addr},
		templates: t,
		store:     store,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(securityHeaders)

	// Static assets (served from embedded FS)
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount embedded static FS: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	r.Handle("/static/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Tiny cache for static assets
		w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
		static.ServeHTTP(w, r)
	}))

	r.Get("/", s.handleIndex)
	r.Post("/add", s.handleCreateExpense)
	r.Get("/delete/{id}", s.handleDeleteExpense)
	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	s.Handler = r
	return s, nil
}

// requestLogger logs request start and completion with structured fields.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		slog.InfoContext(ctx, "Request started",
			"request_id", middleware.GetReqID(ctx),
			"method", r.Method,
			"url", r.URL.Path,
			"remote_addr", r.RemoteAddr)

		rw := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", middleware.GetReqID(ctx),
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// securityHeaders sets conservative response headers on every page.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
