package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the process-wide configuration. The Ark credential is the only
// required value; everything else defaults to something usable locally.
type Config struct {
	Server   ServerConfig
	Ark      ArkConfig
	Upload   UploadConfig
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type ServerConfig struct {
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"PORT" default:"8000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type ArkConfig struct {
	APIKey  string        `envconfig:"ARK_API_KEY" required:"true"`
	BaseURL string        `envconfig:"ARK_BASE_URL"`
	Model   string        `envconfig:"ARK_MODEL"`
	Timeout time.Duration `envconfig:"ARK_TIMEOUT" default:"180s"`
}

type UploadConfig struct {
	MaxImages int `envconfig:"MAX_IMAGES" default:"10"`
}

// Load populates Config from the environment. A missing or empty
// ARK_API_KEY is a startup failure: nothing downstream works without it.
// envconfig only enforces required keys that are absent, so the empty
// string is checked separately.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Ark.APIKey == "" {
		return nil, fmt.Errorf("ARK_API_KEY must not be empty")
	}
	return &cfg, nil
}
