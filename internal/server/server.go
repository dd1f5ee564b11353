// Package server exposes the render pipeline over HTTP.
//
// # Routes
//
//	POST /v1/render   body: a drawing; query: format, input, codepage, font,
//	                  max_depth, scale, refresh; response: the artifact
//	GET  /healthz     build information and converter availability
//	GET  /metrics     Prometheus metrics
//
// The drawing may be sent raw or as the "file" field of a multipart form.
// Its encoding comes from ?input=, else the Content-Type, else the content.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/dxfsvg/pkg/pipeline"
)

// Defaults for [Config] fields left zero.
const (
	DefaultMaxUploadBytes = 64 << 20
	DefaultReadTimeout    = 30 * time.Second
	DefaultRenderTimeout  = 60 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr           string
	MaxUploadBytes int64
	ReadTimeout    time.Duration
	RenderTimeout  time.Duration

	// Defaults applied to requests that do not override them.
	Render pipeline.Options

	// Gatherer serves /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Server is the dxfsvg HTTP service.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server that renders with runner.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = DefaultRenderTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, runner: runner, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
