// Package server previews a generated documentation site over HTTP with the
// legacy redirect table applied ahead of routing.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/redirects"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	// ErrRootRequired indicates the server was built without a site directory.
	ErrRootRequired = errors.New("server: site root is required")
	// ErrAddrRequired indicates Run was called without a listen address.
	ErrAddrRequired = errors.New("server: listen address is required")
)

const notFoundPage = "404.html"

// Config holds runtime options for the preview server.
type Config struct {
	Addr            string
	Root            string
	RedirectStatus  int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Server serves the files below Config.Root. The router can be swapped at
// runtime when the redirect table is reloaded.
type Server struct {
	cfg     Config
	logger  interfaces.Logger
	handler atomic.Pointer[http.Handler]
}

// New builds a server for cfg. A nil resolver disables redirects.
func New(cfg Config, resolver *redirects.Resolver, logger interfaces.Logger) (*Server, error) {
	if strings.TrimSpace(cfg.Root) == "" {
		return nil, ErrRootRequired
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{cfg: cfg, logger: logging.OrNoOp(logger)}
	s.Reload(resolver)
	return s, nil
}

// Reload rebuilds the router around resolver. In-flight requests finish on
// the router they started with.
func (s *Server) Reload(resolver *redirects.Resolver) {
	router := s.newRouter(resolver)
	s.handler.Store(&router)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	(*s.handler.Load()).ServeHTTP(w, r)
}

func (s *Server) newRouter(resolver *redirects.Resolver) http.Handler {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(chimw.Recoverer)
	if resolver != nil {
		router.Use(redirects.Middleware(resolver, redirects.MiddlewareOptions{
			StatusCode: s.cfg.RedirectStatus,
			Logger:     s.logger,
		}))
	}

	files := newSiteHandler(s.cfg.Root)
	router.Get("/*", files.ServeHTTP)
	router.Head("/*", files.ServeHTTP)
	return router
}

// Run listens on Config.Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if strings.TrimSpace(s.cfg.Addr) == "" {
		return ErrAddrRequired
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests within Config.ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("server.listening", "addr", ln.Addr().String(), "root", s.cfg.Root)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("server.shutdown.started")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: graceful shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: serve: %w", err)
	}
	s.logger.Info("server.shutdown.completed")
	return nil
}

// siteHandler serves generated pages. Extensionless paths fall back to the
// matching .html file and misses render the site's 404 page when present.
type siteHandler struct {
	root  string
	files http.Handler
}

func newSiteHandler(root string) *siteHandler {
	return &siteHandler{root: root, files: http.FileServer(http.Dir(root))}
}

func (h *siteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upath := path.Clean("/" + r.URL.Path)
	if h.exists(upath) {
		h.files.ServeHTTP(w, r)
		return
	}
	if path.Ext(upath) == "" && !strings.HasSuffix(r.URL.Path, "/") && h.exists(upath+".html") {
		r2 := r.Clone(r.Context())
		r2.URL.Path = upath + ".html"
		h.files.ServeHTTP(w, r2)
		return
	}
	h.notFound(w)
}

func (h *siteHandler) exists(upath string) bool {
	_, err := os.Stat(filepath.Join(h.root, filepath.FromSlash(upath)))
	return err == nil
}

func (h *siteHandler) notFound(w http.ResponseWriter) {
	data, err := os.ReadFile(filepath.Join(h.root, notFoundPage))
	if err != nil {
		http.NotFound(w, nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(data)
}
