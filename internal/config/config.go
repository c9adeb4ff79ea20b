// Package config loads the process configuration from the environment,
// with an optional YAML file pointed to by CONFIG_PATH.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `yaml:"env" env:"APP_ENV" env-default:"local"`
	Lot        Lot    `yaml:"lot"`
	HTTPServer Server `yaml:"http_server"`
}

// Lot holds the parking lot parameters fixed at startup.
type Lot struct {
	Capacity    int     `yaml:"capacity" env:"LOT_CAPACITY" env-default:"10"`
	RatePerHour float64 `yaml:"rate_per_hour" env:"LOT_RATE_PER_HOUR" env-default:"10"`
}

type Server struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Load reads CONFIG_PATH if set, falling back to environment variables and
// defaults otherwise.
func Load() (*Config, error) {
	var cfg Config

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}

	if cfg.Lot.Capacity <= 0 {
		return nil, fmt.Errorf("lot capacity must be positive, got %d", cfg.Lot.Capacity)
	}
	if cfg.Lot.RatePerHour < 0 {
		return nil, fmt.Errorf("hourly rate must not be negative, got %v", cfg.Lot.RatePerHour)
	}

	return &cfg, nil
}
