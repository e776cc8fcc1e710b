// Package metrics records Prometheus metrics for HTTP requests.
package metrics

import (
	"time"

	"github.com/nimburion/blogapi/pkg/middleware"
	"github.com/nimburion/blogapi/pkg/observability/metrics"
	"github.com/nimburion/blogapi/pkg/server/router"
)

// Metrics creates middleware that tracks request duration, request count and
// in-flight requests. Identifier segments in the path are collapsed to ":id".
func Metrics() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			metrics.IncrementInFlight()
			defer metrics.DecrementInFlight()

			start := time.Now()
			err := next(c)

			metrics.RecordHTTPMetrics(
				c.Request().Method,
				middleware.RouteLabel(c.Request().URL.Path),
				c.Response().Status(),
				time.Since(start),
			)
			return err
		}
	}
}
