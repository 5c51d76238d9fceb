package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config centralizes daemon configuration, loaded from the environment.
type Config struct {
	DBPath        string        `env:"AFFECT_DB" envDefault:"affective_state.db"`
	HTTPAddr      string        `env:"HTTP_ADDR" envDefault:":8087"`
	CycleInterval time.Duration `env:"CYCLE_INTERVAL" envDefault:"60s"`
	HistoryDepth  int           `env:"HISTORY_DEPTH" envDefault:"72"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	MirrorTTL     time.Duration `env:"MIRROR_TTL" envDefault:"5m"`

	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	HostLoadEnabled bool   `env:"HOSTLOAD_ENABLED" envDefault:"true"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
