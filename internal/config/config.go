// Package config defines the global configuration structure for the Somata
// dashboard service. Configuration is loaded once at process initialization
// and is immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Any missing required value or invalid format causes the application to fail
// immediately on startup (fail fast).
package config

import "time"

// Config is the top-level configuration struct for the dashboard service.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"somata-dashboard"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server        ServerConfig
	Upstream      UpstreamConfig
	Database      DatabaseConfig
	Cache         CacheConfig
	Registry      RegistryConfig
	Watchdog      WatchdogConfig
	Observability ObservabilityConfig
	AWS           AWSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               string        `envconfig:"PORT" default:"8080"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"29s"`
	CorsAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// UpstreamConfig holds the metrics API connection settings.
type UpstreamConfig struct {
	BaseURL    string        `envconfig:"METRICS_API_URL" validate:"required,url"`
	Timeout    time.Duration `envconfig:"METRICS_API_TIMEOUT" default:"30s"`
	MaxRetries int           `envconfig:"METRICS_API_MAX_RETRIES" default:"3"`
	UserAgent  string        `envconfig:"METRICS_API_USER_AGENT" default:"Somata-Dashboard/1.0"`
}

// DatabaseConfig holds connection settings for the filter-defaults store.
// URL may be empty, in which case saved filter defaults live in memory only.
type DatabaseConfig struct {
	URL             string        `envconfig:"DATABASE_URL"`
	MaxConns        int           `envconfig:"DB_MAX_CONNS" default:"5"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
}

// CacheConfig holds the optional Redis cache settings for attribute option
// lists and the signal registry. Addr empty disables the cache.
type CacheConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"CACHE_TTL" default:"15m"`
}

// RegistryConfig holds signal registry refresh and snapshot settings.
type RegistryConfig struct {
	RefreshInterval time.Duration `envconfig:"REGISTRY_REFRESH_INTERVAL" default:"1h"`
	SnapshotPath    string        `envconfig:"REGISTRY_SNAPSHOT_PATH"`
}

// WatchdogConfig holds watchdog page tuning.
type WatchdogConfig struct {
	DebounceWait time.Duration `envconfig:"WATCHDOG_DEBOUNCE" default:"500ms"`
}

// ObservabilityConfig holds telemetry settings. Metrics publishing is disabled
// unless EnableMetrics is set.
type ObservabilityConfig struct {
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"SomataDashboard"`
	EnableMetrics   bool   `envconfig:"ENABLE_METRICS" default:"false"`
}

// AWSConfig holds AWS regional configuration for the CloudWatch publisher.
type AWSConfig struct {
	Region      string `envconfig:"AWS_REGION" default:"us-east-1"`
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`
}
