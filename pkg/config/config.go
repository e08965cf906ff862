// Package config holds process configuration for the gateway service.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverManifest = "manifest"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
)

// Error sinks.
const (
	SinkFile  = "file"
	SinkRedis = "redis"
	SinkBoth  = "both"
)

// Config contains process configuration. Endpoint records live in the
// selected store, not here.
type Config struct {
	// ListenAddress is the HTTP listen address, e.g. ":4000".
	ListenAddress string `koanf:"listen_address"`

	// APIPrefix is where the gateway route is mounted.
	APIPrefix string `koanf:"api_prefix"`

	// TLSCert and TLSKey enable TLS 1.3 when both files exist.
	TLSCert string `koanf:"tls_cert"`
	TLSKey  string `koanf:"tls_key"`

	LogDir string `koanf:"log_dir"`

	// LogBodyPaths allowlists request paths whose JSON bodies are logged.
	LogBodyPaths []string `koanf:"log_body_paths"`

	// StoreDriver selects the endpoint store: manifest, redis, postgres or dynamodb.
	StoreDriver  string `koanf:"store_driver"`
	ManifestPath string `koanf:"manifest_path"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	// RedisKey is the hash holding endpoint records, one field per name.
	RedisKey string `koanf:"redis_key"`

	// DatabaseURL is a pgx connection string. When set, POST handlers run
	// inside a postgres transaction.
	DatabaseURL string `koanf:"database_url"`

	DynamoDBTable string `koanf:"dynamodb_table"`
	AWSRegion     string `koanf:"aws_region"`

	// ErrorSink selects where catch-all failures are recorded: file, redis or both.
	ErrorSink    string `koanf:"error_sink"`
	ErrorListKey string `koanf:"error_list_key"`
	ErrorListMax int64  `koanf:"error_list_max"`

	// ShutdownTimeout bounds graceful server shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// SessionAPI is asked for the caller's identity when SessionCookie is
	// present. Empty disables session lookup.
	SessionAPI    string `koanf:"session_api"`
	SessionCookie string `koanf:"session_cookie"`
	AdminRole     string `koanf:"admin_role"`

	// AuthDevBypass trusts X-Dev-User headers. Never enable in production.
	AuthDevBypass bool `koanf:"auth_dev_bypass"`

	// Signed assertion cookie. AssertionKeyURL serves a JWKS or a PEM key.
	AssertionCookie   string        `koanf:"assertion_cookie"`
	AssertionKeyURL   string        `koanf:"assertion_key_url"`
	AssertionKeyKID   string        `koanf:"assertion_key_kid"`
	AssertionIssuer   string        `koanf:"assertion_issuer"`
	AssertionAudience string        `koanf:"assertion_audience"`
	AssertionLeeway   time.Duration `koanf:"assertion_leeway"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		ListenAddress:   ":4000",
		APIPrefix:       "/api/v1",
		LogDir:          "log",
		StoreDriver:     DriverManifest,
		ManifestPath:    "manifest.toml",
		RedisAddr:       "localhost:6379",
		RedisKey:        "api_gateway",
		AWSRegion:       "us-east-1",
		ErrorSink:       SinkFile,
		ErrorListKey:    "api_gateway:errors",
		ErrorListMax:    1000,
		ShutdownTimeout: 15 * time.Second,
		AssertionCookie: "assert",
		AssertionLeeway: 60 * time.Second,
	}
}

// Validate normalizes enum fields and checks driver-specific requirements.
func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.ErrorSink = strings.ToLower(strings.TrimSpace(c.ErrorSink))

	if c.ListenAddress == "" {
		return fmt.Errorf("listen_address must not be empty")
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("api_prefix %q must start with /", c.APIPrefix)
	}

	switch c.StoreDriver {
	case DriverManifest:
		if c.ManifestPath == "" {
			return fmt.Errorf("manifest_path required for store_driver=manifest")
		}
	case DriverRedis:
		if c.RedisAddr == "" || c.RedisKey == "" {
			return fmt.Errorf("redis_addr and redis_key required for store_driver=redis")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url required for store_driver=postgres")
		}
	case DriverDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("dynamodb_table required for store_driver=dynamodb")
		}
	default:
		return fmt.Errorf("unknown store_driver %q", c.StoreDriver)
	}

	switch c.ErrorSink {
	case SinkFile:
	case SinkRedis, SinkBoth:
		if c.RedisAddr == "" || c.ErrorListKey == "" {
			return fmt.Errorf("redis_addr and error_list_key required for error_sink=%s", c.ErrorSink)
		}
	default:
		return fmt.Errorf("unknown error_sink %q", c.ErrorSink)
	}
	if c.SessionAPI != "" && c.SessionCookie == "" {
		return fmt.Errorf("session_cookie required when session_api is set")
	}
	if c.AssertionLeeway < 0 {
		return fmt.Errorf("assertion_leeway must be >= 0")
	}
	if c.ErrorListMax < 0 {
		return fmt.Errorf("error_list_max must be >= 0")
	}
	return nil
}

// UsesRedis reports whether any component needs a redis client.
func (c *Config) UsesRedis() bool {
	return c.StoreDriver == DriverRedis || c.ErrorSink == SinkRedis || c.ErrorSink == SinkBoth
}
