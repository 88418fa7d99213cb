package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"dataapi/internal/common"
	"dataapi/internal/metrics"
)

const (
	dataRoute    = "/api/data"
	healthRoute  = "/healthz"
	metricsRoute = "/metrics"

	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	ListenAddr    string
	CORSOrigins   []string
	CORSHeaders   []string
	ExposeMetrics bool

	// Database and Collection label logs and metrics.
	Database   string
	Collection string
}

// Server exposes the configured collection over HTTP. It holds no per-request
// state; every request fetches through its own store connection.
type Server struct {
	opts    Options
	fetcher common.Fetcher
	metrics *metrics.Metrics
	logger  logrus.FieldLogger
}

// New creates a Server. It is built once at startup and shared by all requests.
func New(opts Options, fetcher common.Fetcher, m *metrics.Metrics, logger logrus.FieldLogger) *Server {
	return &Server{
		opts:    opts,
		fetcher: fetcher,
		metrics: m,
		logger:  logger,
	}
}

// Handler returns the HTTP handler with routing, CORS and request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(dataRoute, s.handleData).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(healthRoute, s.handleHealth).Methods(http.MethodGet, http.MethodHead)
	if s.opts.ExposeMetrics {
		r.Handle(metricsRoute, s.metrics.Handler()).Methods(http.MethodGet, http.MethodHead)
	}

	return handlers.CustomLoggingHandler(io.Discard, s.cors(r), s.logRequest)
}

// cors wraps next with the CORS middleware. A "*" entry in CORSHeaders allows
// whatever headers a preflight request asks for.
func (s *Server) cors(next http.Handler) http.Handler {
	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	headers := s.opts.CORSHeaders
	if len(headers) == 0 {
		headers = []string{"*"}
	}

	options := func(allowedHeaders []string) []handlers.CORSOption {
		return []handlers.CORSOption{
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead, http.MethodOptions}),
			handlers.AllowedHeaders(allowedHeaders),
		}
	}

	if !slices.Contains(headers, "*") {
		return handlers.CORS(options(headers)...)(next)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested := strings.Split(r.Header.Get("Access-Control-Request-Headers"), ",")
		handlers.CORS(options(requested)...)(next).ServeHTTP(w, r)
	})
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.WithFields(logrus.Fields{
		"addr":       ln.Addr().String(),
		"database":   s.opts.Database,
		"collection": s.opts.Collection,
	}).Info("starting HTTP server")
	s.logger.Warnf("%s returns the entire collection on every request; responses are not paginated", dataRoute)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down HTTP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		return err
	}
}

// logRequest is the access log hook for handlers.CustomLoggingHandler.
func (s *Server) logRequest(_ io.Writer, params handlers.LogFormatterParams) {
	duration := time.Since(params.TimeStamp)
	route := routeLabel(params.URL.Path)

	s.metrics.ObserveRequest(route, params.Request.Method, fmt.Sprint(params.StatusCode), duration)
	s.logger.WithFields(logrus.Fields{
		"method":   params.Request.Method,
		"path":     params.URL.Path,
		"status":   params.StatusCode,
		"bytes":    params.Size,
		"duration": duration.String(),
		"remote":   params.Request.RemoteAddr,
	}).Debug("handled request")
}

// routeLabel keeps metric label cardinality bounded for unknown paths.
func routeLabel(path string) string {
	switch path {
	case dataRoute, healthRoute, metricsRoute:
		return path
	default:
		return "other"
	}
}
