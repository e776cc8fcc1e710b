// Package requestsize caps the size of request bodies.
package requestsize

import (
	"errors"
	"net/http"

	"github.com/nimburion/blogapi/pkg/controller"
	"github.com/nimburion/blogapi/pkg/server/router"
)

// Middleware enforces a maximum request body size in bytes.
// A non-positive maxBytes disables the middleware.
func Middleware(maxBytes int64) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if maxBytes <= 0 {
				return next(c)
			}

			req := c.Request()
			if req == nil || req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}

			// Fail fast when Content-Length is declared and exceeds the limit.
			if req.ContentLength > maxBytes {
				return controller.Error(c, controller.NewRequestTooLargeError(maxBytes))
			}

			req.Body = http.MaxBytesReader(c.Response(), req.Body, maxBytes)
			c.SetRequest(req)

			err := next(c)
			if err == nil {
				return nil
			}

			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) && !c.Response().Written() {
				return controller.Error(c, controller.NewRequestTooLargeError(maxBytes))
			}
			return err
		}
	}
}
