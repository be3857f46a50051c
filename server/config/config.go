package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode          string        `mapstructure:"mode"`
	Addr          string        `mapstructure:"addr"`
	DBPath        string        `mapstructure:"db_path"`
	LogLevel      string        `mapstructure:"log_level"`
	HashCost      int           `mapstructure:"hash_cost"`
	ReadLimit     int64         `mapstructure:"read_limit"`
	PingPeriod    time.Duration `mapstructure:"ping_period"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	IdleAfter     time.Duration `mapstructure:"idle_after"`
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default) over the
// built-in defaults. Environment variables prefixed ROOMCHAT_ override both.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.SetEnvPrefix("roomchat")
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("addr", "127.0.0.1:8000")
	v.SetDefault("db_path", "./roomchat.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("hash_cost", 12)
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("write_timeout", "5s")
	v.SetDefault("sweep_interval", "30s")
	v.SetDefault("idle_after", "2m")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.PingPeriod <= 0 || cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("ping_period and sweep_interval must be positive")
	}
	return &cfg, nil
}

// PongWait is how long a connection may stay silent before it is dropped.
func (c *Config) PongWait() time.Duration {
	return c.PingPeriod * 10 / 9
}
