// Package logging writes structured access logs for selected path prefixes.
package logging

import (
	"time"

	"github.com/nimburion/blogapi/pkg/config"
	"github.com/nimburion/blogapi/pkg/middleware"
	"github.com/nimburion/blogapi/pkg/observability/logger"
	"github.com/nimburion/blogapi/pkg/server/router"
)

// Log field name constants
const (
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldRemoteAddr = "remote_addr"
	FieldError      = "error"
)

// Config configures request logging middleware behavior.
type Config struct {
	Enabled bool
	// LogStart also emits "request started" before the handler runs.
	LogStart bool
	// PathPrefixes selects the logged paths. Empty means every path.
	PathPrefixes []string
}

// DefaultConfig logs completed requests under /api/users.
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		PathPrefixes: []string{"/api/users"},
	}
}

// FromConfig maps the observability section onto a middleware Config.
func FromConfig(cfg config.RequestLoggingConfig) Config {
	return Config{
		Enabled:      cfg.Enabled,
		LogStart:     cfg.LogStart,
		PathPrefixes: append([]string(nil), cfg.PathPrefixes...),
	}
}

// Logging creates middleware with default configuration.
func Logging(log logger.Logger) router.MiddlewareFunc {
	return WithConfig(log, DefaultConfig())
}

// WithConfig creates request logging middleware. It never changes the
// response or the error returned by the handler.
func WithConfig(log logger.Logger, cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			req := c.Request()
			if !cfg.Enabled || (len(cfg.PathPrefixes) > 0 && !middleware.MatchesAnyPrefix(req.URL.Path, cfg.PathPrefixes)) {
				return next(c)
			}

			start := time.Now()
			requestID := middleware.RequestID(req.Context())
			if cfg.LogStart {
				log.Info("request started",
					FieldRequestID, requestID,
					FieldMethod, req.Method,
					FieldPath, req.URL.Path,
					FieldRemoteAddr, req.RemoteAddr,
				)
			}

			err := next(c)
			fields := []any{
				FieldRequestID, requestID,
				FieldMethod, req.Method,
				FieldPath, req.URL.Path,
				FieldStatus, c.Response().Status(),
				FieldDurationMS, time.Since(start).Milliseconds(),
				FieldRemoteAddr, req.RemoteAddr,
			}
			if err != nil {
				log.Error("request failed", append(fields, FieldError, err)...)
				return err
			}
			log.Info("request completed", fields...)
			return nil
		}
	}
}
