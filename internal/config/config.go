package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode              string        `mapstructure:"mode"`
	Port              int           `mapstructure:"port"`
	LogLevel          string        `mapstructure:"log_level"`
	ReadLimit         int64         `mapstructure:"read_limit"`
	PingPeriod        time.Duration `mapstructure:"ping_period"`
	WriteWait         time.Duration `mapstructure:"write_wait"`
	SendBuffer        int           `mapstructure:"send_buffer"`
	JoinGrace         time.Duration `mapstructure:"join_grace"`
	RelayRateLimit    int           `mapstructure:"relay_rate_limit"`
	RelayRateInterval time.Duration `mapstructure:"relay_rate_interval"`
}

// New returns a viper instance with every default set and MEET_* env overrides enabled.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("meet")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("write_wait", "5s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("join_grace", "15m")
	v.SetDefault("relay_rate_limit", 20)
	v.SetDefault("relay_rate_interval", "1s")
	return v
}

// Load reads file, or config/config.<CONFIG_ENV>.yaml when file is empty.
// A missing file is not an error; defaults apply.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file == "" {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		file = fmt.Sprintf("config/config.%s.yaml", env)
	}
	v.SetConfigFile(file)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
		log.Warn().Str("module", "config").Str("file", file).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", file).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Dur("join_grace", cfg.JoinGrace).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case c.SendBuffer <= 0:
		return fmt.Errorf("send_buffer must be positive, got %d", c.SendBuffer)
	case c.WriteWait <= 0:
		return fmt.Errorf("write_wait must be positive, got %s", c.WriteWait)
	case c.JoinGrace < 0:
		return fmt.Errorf("join_grace must not be negative, got %s", c.JoinGrace)
	}
	return nil
}
