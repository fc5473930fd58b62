package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the chat backend.
type Config struct {
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"whatsappchat"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Durable store. When empty the server runs on the in-memory
	// repositories, which is only useful for local development.
	DatabaseURL string `env:"DB_URL"`

	// Redis backs the cache, the cross-instance presence fanout and the
	// asynq task queue. When empty all three are disabled.
	RedisURL string `env:"REDIS_URL"`

	// Realtime behavior.
	TypingExpiry   time.Duration `env:"TYPING_EXPIRY" envDefault:"3s"`
	StatusTTL      time.Duration `env:"STATUS_TTL" envDefault:"24h"`
	SweepInterval  time.Duration `env:"STATUS_SWEEP_INTERVAL" envDefault:"1h"`
	LastSeenTTL    time.Duration `env:"LAST_SEEN_CACHE_TTL" envDefault:"5m"`
	SendBufferSize int           `env:"WS_SEND_BUFFER" envDefault:"128"`

	// Media uploads land on local disk under this directory.
	MediaDir     string `env:"MEDIA_DIR" envDefault:"./media"`
	MediaBaseURL string `env:"MEDIA_BASE_URL" envDefault:"/media"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if cfg.TypingExpiry <= 0 {
		return nil, fmt.Errorf("TYPING_EXPIRY must be positive")
	}
	if cfg.StatusTTL <= 0 {
		return nil, fmt.Errorf("STATUS_TTL must be positive")
	}
	return cfg, nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
