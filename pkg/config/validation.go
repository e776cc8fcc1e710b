package config

import (
	"net/url"
	"strings"
)

const redactedValue = "***"

// Validate runs the same checks the loader applies after unmarshalling.
func (c *Config) Validate() error {
	return (&ViperLoader{}).Validate(c)
}

// Redacted returns a copy of the configuration that is safe to print:
// the JWT secret is masked and any password embedded in the database URL is replaced.
func (c *Config) Redacted() Config {
	out := *c
	out.Auth.GuardedPrefixes = append([]string(nil), c.Auth.GuardedPrefixes...)
	out.Observability.RequestLogging.PathPrefixes = append([]string(nil), c.Observability.RequestLogging.PathPrefixes...)

	if strings.TrimSpace(out.Auth.JWTSecret) != "" {
		out.Auth.JWTSecret = redactedValue
	}
	out.Database.URL = redactURL(out.Database.URL)
	return out
}

func redactURL(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return redactedValue
	}
	if u.User == nil {
		return raw
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), redactedValue)
	}
	return u.String()
}
