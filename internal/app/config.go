package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (LINKLOCAL_ prefix), flags, or YAML config files.
type Config struct {
	Addr         string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL  string `usage:"PostgreSQL connection URL (LINKLOCAL_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	APIKeyPepper string `usage:"HMAC pepper for API key hashing (LINKLOCAL_API_KEY_PEPPER)" flag:"api-key-pepper"`

	// SupplierFilter is the path to the supplier directory bloom filter
	// built by supplier-ingest. Empty disables raw-identifier vetting.
	SupplierFilter string `default:"" usage:"Path to supplier directory filter file" flag:"supplier-filter"`

	Upstream  UpstreamConfig
	Checkout  CheckoutConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// UpstreamConfig points at the remote marketplace service.
type UpstreamConfig struct {
	BaseURL string        `usage:"Marketplace service base URL (LINKLOCAL_UPSTREAM_BASE_URL)" flag:"upstream-base-url"`
	Token   string        `usage:"Service credential for the marketplace API" flag:"upstream-token"`
	Timeout time.Duration `default:"30s" usage:"Per-request timeout for upstream calls" flag:"upstream-timeout"`
}

// CheckoutConfig tunes the checkout orchestrator.
type CheckoutConfig struct {
	LookupLimit int `default:"8" usage:"Max concurrent product owner lookups (0 = unlimited)" flag:"lookup-limit"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "LINKLOCAL",
		Files:     []string{"config.yaml", "/etc/linklocal/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set LINKLOCAL_DATABASE_URL or DATABASE_URL")
	}
	if cfg.Upstream.BaseURL == "" {
		return nil, errors.New("upstream base URL is required: set LINKLOCAL_UPSTREAM_BASE_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and PORT
// to the application's LINKLOCAL_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
