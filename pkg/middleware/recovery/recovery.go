// Package recovery turns handler panics into 500 responses.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/nimburion/blogapi/pkg/controller"
	"github.com/nimburion/blogapi/pkg/middleware"
	"github.com/nimburion/blogapi/pkg/observability/logger"
	"github.com/nimburion/blogapi/pkg/server/router"
)

// Recovery creates middleware that recovers from panics in HTTP handlers.
// The panic is logged with its stack and, if nothing was written yet, the
// client receives the standard 500 error body.
func Recovery(log logger.Logger) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				requestID := middleware.RequestID(c.Request().Context())
				log.Error("panic recovered",
					"request_id", requestID,
					"panic", r,
					"stack", string(debug.Stack()),
				)

				if c.Response().Written() {
					return
				}
				err = c.JSON(http.StatusInternalServerError, controller.ErrorResponse{
					Error:     "internal_server_error",
					Message:   "an unexpected error occurred",
					RequestID: requestID,
				})
				if err != nil {
					log.Error("failed to send error response", "request_id", requestID, "error", err)
				}
			}()

			return next(c)
		}
	}
}
