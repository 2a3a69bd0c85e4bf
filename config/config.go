// ABOUTME: Environment-variable configuration with .env support
// ABOUTME: Connection settings per tenant plus engine tuning knobs
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/recrutech/boondsync/models"
)

// Endpoint holds the connection settings for one BoondManager tenant.
type Endpoint struct {
	BaseURL     string
	UserToken   string
	ClientToken string
}

// Config is the full engine configuration.
type Config struct {
	Production Endpoint
	Sandbox    Endpoint

	ListenAddr    string
	SyncWorkers   int
	MaxAttempts   int
	BackoffSlot   time.Duration
	BackoffMax    time.Duration
	PageSize      int
	DictionaryTTL time.Duration
}

// Load reads the configuration from the environment, loading a .env file
// first when one exists. Both tenant base URLs are required; everything
// else has defaults.
func Load() (*Config, error) {
	// Missing .env is fine; explicit environment variables win anyway.
	_ = godotenv.Load()

	cfg := &Config{
		Production: Endpoint{
			BaseURL:     os.Getenv("BOOND_PROD_BASE_URL"),
			UserToken:   os.Getenv("BOOND_PROD_USER_TOKEN"),
			ClientToken: os.Getenv("BOOND_PROD_CLIENT_TOKEN"),
		},
		Sandbox: Endpoint{
			BaseURL:     os.Getenv("BOOND_SANDBOX_BASE_URL"),
			UserToken:   os.Getenv("BOOND_SANDBOX_USER_TOKEN"),
			ClientToken: os.Getenv("BOOND_SANDBOX_CLIENT_TOKEN"),
		},
		ListenAddr:    envString("LISTEN_ADDR", ":8090"),
		SyncWorkers:   envInt("SYNC_WORKERS", 4),
		MaxAttempts:   envInt("API_MAX_ATTEMPTS", 4),
		BackoffSlot:   envDuration("API_BACKOFF_SLOT", 250*time.Millisecond),
		BackoffMax:    envDuration("API_BACKOFF_MAX", 10*time.Second),
		PageSize:      envInt("API_PAGE_SIZE", 100),
		DictionaryTTL: envDuration("DICTIONARY_TTL", time.Hour),
	}

	if cfg.Production.BaseURL == "" {
		return nil, fmt.Errorf("config: BOOND_PROD_BASE_URL is required")
	}
	if cfg.Sandbox.BaseURL == "" {
		return nil, fmt.Errorf("config: BOOND_SANDBOX_BASE_URL is required")
	}
	return cfg, nil
}

// EndpointFor returns the endpoint settings for one environment.
func (c *Config) EndpointFor(env models.Environment) Endpoint {
	if env == models.Sandbox {
		return c.Sandbox
	}
	return c.Production
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
