package server

import (
	"net/http"
	"time"

	"github.com/nimburion/blogapi/pkg/config"
	"github.com/nimburion/blogapi/pkg/health"
	"github.com/nimburion/blogapi/pkg/middleware/recovery"
	"github.com/nimburion/blogapi/pkg/middleware/requestid"
	"github.com/nimburion/blogapi/pkg/observability/logger"
	"github.com/nimburion/blogapi/pkg/observability/metrics"
	"github.com/nimburion/blogapi/pkg/server/router"
	"github.com/nimburion/blogapi/pkg/version"
)

// ManagementServer serves health, readiness, metrics and version on a port
// separate from the public API.
type ManagementServer struct {
	*Server
	router          router.Router
	healthRegistry  *health.Registry
	metricsRegistry *metrics.Registry
	version         version.Info
}

// NewManagementServer registers the management endpoints on r:
//   - /health: liveness, always 200
//   - /ready: runs the health registry, 503 when any check is unhealthy
//   - /metrics: Prometheus exposition
//   - /version: build metadata
//
// Management routes are polled by probes and scrapers, so they carry no access log.
func NewManagementServer(
	cfg config.ManagementConfig,
	r router.Router,
	log logger.Logger,
	healthRegistry *health.Registry,
	metricsRegistry *metrics.Registry,
	info version.Info,
) *ManagementServer {
	if log == nil {
		log = logger.Nop()
	}
	if healthRegistry == nil {
		healthRegistry = health.NewRegistry()
	}
	if metricsRegistry == nil {
		metricsRegistry = metrics.NewRegistry()
	}

	r.Use(
		requestid.RequestID(),
		recovery.Recovery(log),
	)

	s := &ManagementServer{
		Server: NewServer("management", Config{
			Port:         cfg.Port,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		}, r, log),
		router:          r,
		healthRegistry:  healthRegistry,
		metricsRegistry: metricsRegistry,
		version:         info,
	}

	r.GET("/health", s.handleHealth)
	r.GET("/ready", s.handleReady)
	r.GET("/metrics", s.handleMetrics)
	r.GET("/version", s.handleVersion)
	return s
}

func (s *ManagementServer) handleHealth(c router.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "healthy",
	})
}

func (s *ManagementServer) handleReady(c router.Context) error {
	result := s.healthRegistry.Check(c.Request().Context())
	if !result.IsHealthy() {
		return c.JSON(http.StatusServiceUnavailable, result)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *ManagementServer) handleMetrics(c router.Context) error {
	s.metricsRegistry.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}

func (s *ManagementServer) handleVersion(c router.Context) error {
	return c.JSON(http.StatusOK, s.version)
}

// Router returns the underlying router for registering extra admin routes.
func (s *ManagementServer) Router() router.Router {
	return s.router
}
