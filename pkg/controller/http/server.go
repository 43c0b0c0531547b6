package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/m-mizutani/sitedrop/pkg/domain/interfaces"
	"github.com/m-mizutani/sitedrop/pkg/metrics"
)

// DefaultDeployPath is where the upload form posts to
const DefaultDeployPath = "/api/deploy"

// DefaultMaxUploadBytes bounds the size of one upload request
const DefaultMaxUploadBytes int64 = 32 << 20

// config holds internal HTTP server configuration
type config struct {
	addr           string
	deployPath     string
	maxUploadBytes int64
	metrics        *metrics.Collector
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithDeployPath sets the path of the deploy endpoint
func WithDeployPath(path string) Option {
	return func(c *config) {
		c.deployPath = path
	}
}

// WithMaxUploadBytes limits the request body size of the deploy endpoint
func WithMaxUploadBytes(n int64) Option {
	return func(c *config) {
		c.maxUploadBytes = n
	}
}

// WithMetrics exposes the collector on /metrics
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *config) {
		c.metrics = collector
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	deployUC interfaces.DeployUseCase,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr:           "localhost:8080",
		deployPath:     DefaultDeployPath,
		maxUploadBytes: DefaultMaxUploadBytes,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	pageHandler, err := newPageHandler(cfg.deployPath)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)
	if cfg.metrics != nil {
		router.Method(http.MethodGet, "/metrics", cfg.metrics.Handler())
	}

	// Upload form
	router.Get("/", pageHandler.ServeIndex)
	router.Handle("/static/*", pageHandler.StaticHandler())

	// All methods reach the handler so that non-POST requests get a JSON 405
	deployHandler := NewDeployHandler(deployUC, cfg.maxUploadBytes)
	router.HandleFunc(cfg.deployPath, deployHandler.Handle)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
