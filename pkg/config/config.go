package config

import "time"

// Database type constants
const (
	// DatabaseTypeMongoDB stores documents in MongoDB
	DatabaseTypeMongoDB = "mongodb"
	// DatabaseTypeMemory keeps documents in process memory
	DatabaseTypeMemory = "memory"
)

// Token verifier constants
const (
	// VerifierPresence accepts any non-empty bearer token
	VerifierPresence = "presence"
	// VerifierJWT requires an HMAC-signed JWT
	VerifierJWT = "jwt"
)

// Config is the root configuration structure for the blog service
type Config struct {
	Service       ServiceConfig       `mapstructure:"service" yaml:"service"`
	HTTP          HTTPConfig          `mapstructure:"http" yaml:"http"`
	Management    ManagementConfig    `mapstructure:"management" yaml:"management"`
	Database      DatabaseConfig      `mapstructure:"database" yaml:"database"`
	Auth          AuthConfig          `mapstructure:"auth" yaml:"auth"`
	Blogs         BlogsConfig         `mapstructure:"blogs" yaml:"blogs"`
	Observability ObservabilityConfig `mapstructure:"observability" yaml:"observability"`
}

// ServiceConfig configures service identity metadata.
type ServiceConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Environment string `mapstructure:"environment" yaml:"environment"`
}

// HTTPConfig configures the public API server
type HTTPConfig struct {
	Port           int           `mapstructure:"port" yaml:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	MaxRequestSize int64         `mapstructure:"max_request_size" yaml:"max_request_size"`
}

// ManagementConfig configures the management server
type ManagementConfig struct {
	Enabled      bool          `mapstructure:"enabled" yaml:"enabled"`
	Port         int           `mapstructure:"port" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// DatabaseConfig configures the document store. The logical database name is fixed.
type DatabaseConfig struct {
	Type             string        `mapstructure:"type" yaml:"type"` // mongodb, memory
	URL              string        `mapstructure:"url" yaml:"url"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout" yaml:"operation_timeout"`
}

// AuthConfig configures bearer-token authorization on guarded paths.
type AuthConfig struct {
	Verifier        string   `mapstructure:"verifier" yaml:"verifier"` // presence, jwt
	JWTSecret       string   `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	Issuer          string   `mapstructure:"issuer" yaml:"issuer"`
	Audience        string   `mapstructure:"audience" yaml:"audience"`
	GuardedPrefixes []string `mapstructure:"guarded_prefixes" yaml:"guarded_prefixes"`
}

// BlogsConfig bounds blog listing pagination.
type BlogsConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size" yaml:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size" yaml:"max_page_size"`
}

// ObservabilityConfig configures logging, metrics, and tracing
type ObservabilityConfig struct {
	LogLevel          string               `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string               `mapstructure:"log_format" yaml:"log_format"` // json, text
	TracingEnabled    bool                 `mapstructure:"tracing_enabled" yaml:"tracing_enabled"`
	TracingSampleRate float64              `mapstructure:"tracing_sample_rate" yaml:"tracing_sample_rate"`
	TracingEndpoint   string               `mapstructure:"tracing_endpoint" yaml:"tracing_endpoint"`
	RequestLogging    RequestLoggingConfig `mapstructure:"request_logging" yaml:"request_logging"`
}

// RequestLoggingConfig configures HTTP request logging middleware behavior.
type RequestLoggingConfig struct {
	Enabled      bool     `mapstructure:"enabled" yaml:"enabled"`
	LogStart     bool     `mapstructure:"log_start" yaml:"log_start"`
	PathPrefixes []string `mapstructure:"path_prefixes" yaml:"path_prefixes"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "blogapi",
			Environment: "production",
		},
		HTTP: HTTPConfig{
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    120 * time.Second,
			MaxRequestSize: 1 << 20,
		},
		Management: ManagementConfig{
			Enabled:      true,
			Port:         9090,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Type:             DatabaseTypeMongoDB,
			URL:              "mongodb://localhost:27017",
			ConnectTimeout:   10 * time.Second,
			OperationTimeout: 5 * time.Second,
		},
		Auth: AuthConfig{
			Verifier:        VerifierPresence,
			GuardedPrefixes: []string{"/api/blogs"},
		},
		Blogs: BlogsConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
		Observability: ObservabilityConfig{
			LogLevel:          "info",
			LogFormat:         "json",
			TracingSampleRate: 0.1,
			RequestLogging: RequestLoggingConfig{
				Enabled:      true,
				PathPrefixes: []string{"/api/users"},
			},
		},
	}
}
