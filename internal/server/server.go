// Package server exposes the service over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness and build info
//	GET  /v1/schemes   registered schemes
//	POST /v1/encode    {"text": "...", "schemes": ["64", "16"]}
//	POST /v1/decode    {"text": "...", "schemes": ["16", "64"]}
//	POST /v1/crack     {"text": "...", "threshold": 0.9, "max_depth": 16}
//	GET  /metrics      Prometheus exposition, when a gatherer is configured
//
// Errors are JSON {"code": "...", "error": "..."}: 400 for malformed
// requests, 422 when a codec rejects the input, 500 otherwise.
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

	"github.com/skyf0l/basecracker/pkg/observability"
	"github.com/skyf0l/basecracker/pkg/service"
)

// DefaultMaxBodyBytes bounds request bodies. It leaves room for JSON
// escaping of a maximum-size input.
const DefaultMaxBodyBytes = 8 << 20

// Options configures a Server.
type Options struct {
	Logger *log.Logger
	// Gatherer backs /metrics. Nil disables the route.
	Gatherer     prometheus.Gatherer
	MaxBodyBytes int64
	// CrackTimeout bounds a single crack request. Zero means 30s.
	CrackTimeout time.Duration
}

// Server routes API requests to a service.
type Server struct {
	svc    *service.Service
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New builds the router.
func New(svc *service.Service, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.CrackTimeout <= 0 {
		opts.CrackTimeout = 30 * time.Second
	}
	s := &Server{svc: svc, opts: opts, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/schemes", s.schemes)
		r.Post("/encode", s.encode)
		r.Post("/decode", s.decode)
		r.Post("/crack", s.crack)
	})
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then drains in-flight
// requests for up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// instrument logs each request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
