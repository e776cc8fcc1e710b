// Package auth verifies bearer tokens presented on guarded routes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nimburion/blogapi/pkg/config"
	"github.com/nimburion/blogapi/pkg/observability/logger"
)

// ErrMissingToken is returned when no token was presented.
var ErrMissingToken = errors.New("missing bearer token")

// TokenVerifier decides whether a bearer token grants access.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Claims represents what a verifier learned about the caller.
type Claims struct {
	Subject   string                 // sub
	Issuer    string                 // iss
	Audience  []string               // aud
	ExpiresAt time.Time              // exp
	IssuedAt  time.Time              // iat
	Scopes    []string               // scope, space separated
	Custom    map[string]interface{} // everything else
}

// PresenceVerifier accepts any non-empty token. It performs no cryptographic check.
type PresenceVerifier struct{}

// Verify implements TokenVerifier.
func (PresenceVerifier) Verify(_ context.Context, token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	return &Claims{}, nil
}

var hmacMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// HMACVerifier validates HS256/HS384/HS512 signed JWTs with a shared secret.
// Issuer and audience are checked only when configured.
type HMACVerifier struct {
	secret   []byte
	issuer   string
	audience string
	logger   logger.Logger
	now      func() time.Time
}

// NewHMACVerifier creates a verifier for the given shared secret.
func NewHMACVerifier(secret, issuer, audience string, log logger.Logger) (*HMACVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &HMACVerifier{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		logger:   log,
		now:      time.Now,
	}, nil
}

// Verify implements TokenVerifier.
func (v *HMACVerifier) Verify(_ context.Context, tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(hmacMethods),
		jwt.WithTimeFunc(v.now),
		jwt.WithIssuedAt(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	mapClaims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, mapClaims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims := extractClaims(mapClaims)
	v.logger.Debug("token validated successfully", "subject", claims.Subject, "issuer", claims.Issuer)
	return claims, nil
}

func extractClaims(mapClaims jwt.MapClaims) *Claims {
	claims := &Claims{Custom: make(map[string]interface{})}
	claims.Subject, _ = mapClaims.GetSubject()
	claims.Issuer, _ = mapClaims.GetIssuer()
	if aud, err := mapClaims.GetAudience(); err == nil {
		claims.Audience = []string(aud)
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if scope, ok := mapClaims["scope"].(string); ok {
		claims.Scopes = strings.Fields(scope)
	}

	standard := map[string]bool{
		"sub": true, "iss": true, "aud": true, "exp": true,
		"iat": true, "nbf": true, "jti": true, "scope": true,
	}
	for key, value := range mapClaims {
		if !standard[key] {
			claims.Custom[key] = value
		}
	}
	return claims
}

// NewVerifier builds the verifier selected by cfg.Verifier.
func NewVerifier(cfg config.AuthConfig, log logger.Logger) (TokenVerifier, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Verifier)) {
	case "", config.VerifierPresence:
		return PresenceVerifier{}, nil
	case config.VerifierJWT:
		v, err := NewHMACVerifier(cfg.JWTSecret, cfg.Issuer, cfg.Audience, log)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported token verifier: %s", cfg.Verifier)
	}
}

// claimsContextKey is the context key for storing claims.
type claimsContextKey struct{}

// WithClaims stores claims in the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// GetClaims retrieves claims from the context.
// Returns nil if no claims are found.
func GetClaims(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(claimsContextKey{}).(*Claims); ok {
		return claims
	}
	return nil
}
