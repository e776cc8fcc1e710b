// Package requestid tags every request with an identifier.
package requestid

import (
	"github.com/google/uuid"
	"github.com/nimburion/blogapi/pkg/middleware"
	"github.com/nimburion/blogapi/pkg/server/router"
)

// RequestIDHeader is the HTTP header name for request ID.
const RequestIDHeader = "X-Request-ID"

// maxInboundLength bounds how much of a client supplied ID is trusted.
const maxInboundLength = 128

// RequestID creates middleware that reuses a sane inbound X-Request-ID or
// generates a UUID, then echoes it on the response and stores it in the request context.
func RequestID() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if !acceptable(requestID) {
				requestID = uuid.NewString()
			}

			c.Set(string(middleware.RequestIDKey), requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)
			c.SetRequest(c.Request().WithContext(middleware.WithRequestID(c.Request().Context(), requestID)))

			return next(c)
		}
	}
}

func acceptable(id string) bool {
	if id == "" || len(id) > maxInboundLength {
		return false
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}
