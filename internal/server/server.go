package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/thruflo/rota/internal/config"
	"github.com/thruflo/rota/internal/logging"
	"github.com/thruflo/rota/internal/page"
	"github.com/thruflo/rota/internal/rpc"
	"github.com/thruflo/rota/web"
)

// sweepInterval is how often expired tokens and limiter entries are removed.
const sweepInterval = 10 * time.Minute

// Server serves the rota pages and the RPC endpoints.
type Server struct {
	host   string
	port   int
	assets fs.FS
	logger *logging.Logger

	directory  *Directory
	dispatcher *rpc.Dispatcher
	catalogue  *page.Catalogue
	handler    http.Handler

	mu       sync.RWMutex
	server   *http.Server
	listener net.Listener
	started  bool
}

// Option configures a Server.
type Option func(*Server)

// WithAssets overrides the page assets, e.g. with a development directory.
func WithAssets(fsys fs.FS) Option {
	return func(s *Server) {
		s.assets = fsys
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server from a loaded config.
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := config.ValidateServerConfig(&cfg.Server); err != nil {
		return nil, err
	}

	s := &Server{
		host:   cfg.Server.Host,
		port:   cfg.Server.Port,
		assets: web.Embedded(),
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	directory, err := NewDirectory(cfg.Users, cfg.Server.TokenTTL, LoginLimitConfigFrom(cfg.Server.Login), s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	s.directory = directory

	s.dispatcher, err = rpc.NewDispatcher(directory,
		rpc.Logging(s.logger),
		rpc.RateLimit(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst),
	)
	if err != nil {
		return nil, err
	}

	s.catalogue, err = page.NewCatalogue(s.assets, page.Branding{
		Branch: cfg.Branding.Branch,
		Credit: cfg.Branding.Credit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build pages: %w", err)
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)
	s.handler = mux

	return s, nil
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

// Handler returns the server's routes, for use without Start.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Directory returns the backend serving RPC calls.
func (s *Server) Directory() *Directory {
	return s.directory
}

// Start starts the HTTP server.
// The server runs until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("server already started")
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info("server listening", "addr", listener.Addr().String())

	go s.directory.runSweeper(ctx, sweepInterval)
	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	err = s.server.Serve(listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.started = false
	return nil
}

// ListenAddr returns the actual address the server is listening on.
// Useful when port 0 is used to get an available port.
// Returns empty string if not started.
func (s *Server) ListenAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) setupRoutes(mux *http.ServeMux) {
	mux.Handle(rpc.EndpointPath, withClientIPHandler(s.dispatcher))
	mux.Handle(rpc.WebSocketPath, withClientIPHandler(rpc.NewWebSocketHandler(s.dispatcher, s.logger)))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/", s.handlePage)
}

// withClientIPHandler records the client IP in the request context for the
// login limiter.
func withClientIPHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(withClientIP(r.Context(), extractIP(r))))
	})
}

// handlePage serves GET /?page=<id>.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := page.ParseID(r.URL.Query().Get(page.QueryParam))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	doc, err := s.catalogue.Render(id)
	if err != nil {
		s.logger.Error("failed to render page", "page", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(doc))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
