// Package authz rejects unauthorized requests on guarded path prefixes.
package authz

import (
	"net/http"
	"strings"

	"github.com/nimburion/blogapi/pkg/auth"
	"github.com/nimburion/blogapi/pkg/middleware"
	"github.com/nimburion/blogapi/pkg/observability/logger"
	"github.com/nimburion/blogapi/pkg/observability/metrics"
	"github.com/nimburion/blogapi/pkg/server/router"
)

// ClaimsKey is the router context key for storing verified claims.
const ClaimsKey = "claims"

// UnauthorizedBody is written on every rejection.
var UnauthorizedBody = map[string]string{"message": "Unauthorized"}

// Config selects which paths require a valid token.
type Config struct {
	GuardedPrefixes []string
}

// DefaultConfig guards /api/blogs.
func DefaultConfig() Config {
	return Config{GuardedPrefixes: []string{"/api/blogs"}}
}

// ExtractToken returns the second whitespace-separated element of the
// Authorization header ("Bearer abc" yields "abc"). Anything shorter yields "".
// The scheme word is not checked.
func ExtractToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Authenticate creates middleware that asks verifier about the bearer token
// on guarded paths. Rejected requests get 401 {"message":"Unauthorized"} and
// never reach the handler. Unguarded paths pass through untouched.
//
// Cosa fa: decide solo se la richiesta prosegue; salva i claims nel contesto.
// Cosa NON fa: non controlla che il token appartenga all'utente indicato in userId.
func Authenticate(verifier auth.TokenVerifier, cfg Config, log logger.Logger) router.MiddlewareFunc {
	if log == nil {
		log = logger.Nop()
	}
	prefixes := append([]string(nil), cfg.GuardedPrefixes...)

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			req := c.Request()
			if !middleware.MatchesAnyPrefix(req.URL.Path, prefixes) {
				return next(c)
			}

			token := ExtractToken(req.Header.Get("Authorization"))
			claims, err := verifier.Verify(req.Context(), token)
			if err != nil {
				metrics.RecordAuthzRejection(req.Method, middleware.RouteLabel(req.URL.Path))
				log.WithContext(req.Context()).Debug("request rejected",
					"method", req.Method,
					"path", req.URL.Path,
					"reason", err.Error(),
				)
				return c.JSON(http.StatusUnauthorized, UnauthorizedBody)
			}

			c.Set(ClaimsKey, claims)
			c.SetRequest(req.WithContext(auth.WithClaims(req.Context(), claims)))
			return next(c)
		}
	}
}
