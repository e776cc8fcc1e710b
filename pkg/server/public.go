package server

import (
	"github.com/nimburion/blogapi/pkg/auth"
	"github.com/nimburion/blogapi/pkg/config"
	"github.com/nimburion/blogapi/pkg/middleware/authz"
	"github.com/nimburion/blogapi/pkg/middleware/logging"
	"github.com/nimburion/blogapi/pkg/middleware/metrics"
	"github.com/nimburion/blogapi/pkg/middleware/recovery"
	"github.com/nimburion/blogapi/pkg/middleware/requestid"
	"github.com/nimburion/blogapi/pkg/middleware/requestsize"
	"github.com/nimburion/blogapi/pkg/middleware/tracing"
	"github.com/nimburion/blogapi/pkg/observability/logger"
	"github.com/nimburion/blogapi/pkg/server/router"
)

// PublicAPIServer wraps Server for application traffic.
type PublicAPIServer struct {
	*Server
	router router.Router
}

// NewPublicAPIServer installs the public middleware stack on r and wraps it
// in a Server listening on cfg.HTTP.Port. Routes must be registered on the
// returned Router afterwards so the stack applies to them.
//
// The stack runs in this order:
//  1. request id
//  2. panic recovery
//  3. request body size limit
//  4. Prometheus metrics
//  5. tracing
//  6. bearer-token authorization on cfg.Auth.GuardedPrefixes
//  7. request logging on cfg.Observability.RequestLogging.PathPrefixes
func NewPublicAPIServer(cfg *config.Config, r router.Router, log logger.Logger, verifier auth.TokenVerifier) *PublicAPIServer {
	if log == nil {
		log = logger.Nop()
	}
	if verifier == nil {
		verifier = auth.PresenceVerifier{}
	}

	r.Use(
		requestid.RequestID(),
		recovery.Recovery(log),
		requestsize.Middleware(cfg.HTTP.MaxRequestSize),
		metrics.Metrics(),
		tracing.Tracing(tracing.Config{TracerName: cfg.Service.Name}),
		authz.Authenticate(verifier, authz.Config{GuardedPrefixes: cfg.Auth.GuardedPrefixes}, log),
		logging.WithConfig(log, logging.FromConfig(cfg.Observability.RequestLogging)),
	)

	return &PublicAPIServer{
		Server: NewServer("public", Config{
			Port:         cfg.HTTP.Port,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		}, r, log),
		router: r,
	}
}

// Router returns the router so API routes can be registered.
func (s *PublicAPIServer) Router() router.Router {
	return s.router
}
