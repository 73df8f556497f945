// Package http serves the askweb web interface and JSON API.
package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/askweb"
	"github.com/fwojciec/askweb/html"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShutdownTimeout is how long Close waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// RecentLimit is the number of recent queries on the landing page.
const RecentLimit = 5

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server is the HTTP server. Service fields must be set before the first
// request is served.
type Server struct {
	server *http.Server
	router chi.Router
	ln     net.Listener

	// Addr is the bind address, e.g. ":8080".
	Addr string

	Searcher  askweb.Searcher
	Queries   askweb.QueryService
	Users     askweb.UserService
	Auth      askweb.Authenticator
	Renderer  *html.Renderer
	Extractor askweb.Extractor
	Converter askweb.Converter
	Logger    *slog.Logger

	// DB is checked by /healthz when set.
	DB Pinger

	// Metrics serves /metrics when set.
	Metrics http.Handler

	// Suggestions overrides askweb.DefaultSuggestions when non-empty.
	Suggestions []string

	// SecureCookies marks the session cookie Secure.
	SecureCookies bool

	// Limiter throttles searches per user. Nil disables throttling.
	Limiter *SearchLimiter

	guard *InFlightGuard
}

// NewServer returns a server with all routes registered.
func NewServer() *Server {
	s := &Server{
		router: chi.NewRouter(),
		guard:  NewInFlightGuard(),
	}
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.authenticate)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/metrics", s.handleMetrics)

	s.router.Get("/login", s.handleLoginForm)
	s.router.Post("/login", s.handleLogin)
	s.router.Post("/logout", s.handleLogout)

	s.router.Group(func(r chi.Router) {
		r.Use(requirePageAuth)
		s.registerPageRoutes(r)
		s.registerSettingsRoutes(r)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(requireAPIAuth)
		s.registerAPIRoutes(r)
	})

	return s
}

// ServeHTTP routes a request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Listen binds Addr without serving.
func (s *Server) Listen() (err error) {
	s.ln, err = net.Listen("tcp", s.Addr)
	return err
}

// Serve accepts connections on the bound listener until Close is called.
// It returns nil after a graceful shutdown.
func (s *Server) Serve() error {
	if s.ln == nil {
		return askweb.Errorf(askweb.EINTERNAL, "server is not listening")
	}
	if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts the server down, waiting up to ShutdownTimeout.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.PingContext(r.Context()); err != nil {
			s.logger().Error("health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.Metrics == nil {
		http.NotFound(w, r)
		return
	}
	s.Metrics.ServeHTTP(w, r)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}
