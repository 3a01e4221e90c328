package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/astro-web3/metabase-embed/internal/domain/embed"
	"github.com/spf13/viper"
)

var ErrMissingConfiguration = errors.New("missing configuration")

const envPrefix = "EMBED"

type Config struct {
	Server struct {
		Addr         string        `mapstructure:"addr"`
		Mode         string        `mapstructure:"mode"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"server"`

	Metabase struct {
		Key string `mapstructure:"key"`
		URL string `mapstructure:"url"`
	} `mapstructure:"metabase"`

	Embed struct {
		ParamsID uint32 `mapstructure:"params_id"`
	} `mapstructure:"embed"`

	Allowlist struct {
		Dashboards []uint32 `mapstructure:"dashboards"`
		RedisURL   string   `mapstructure:"redis_url"`
		RedisKey   string   `mapstructure:"redis_key"`
		PoolSize   int      `mapstructure:"pool_size"`
	} `mapstructure:"allowlist"`

	Observability struct {
		TraceEnabled       bool   `mapstructure:"trace_enabled"`
		TracingEndpointURL string `mapstructure:"tracing_endpoint_url"`
		LogLevel           string `mapstructure:"log_level"`
		Format             string `mapstructure:"log_format"`
		LogSource          bool   `mapstructure:"log_source"`
	} `mapstructure:"observability"`
}

// Validate reports every required setting that is unset. A site URL that
// is only a scheme or slashes counts as unset.
func (c *Config) Validate() error {
	var missing []string
	if c.Metabase.Key == "" {
		missing = append(missing, "METABASE_KEY")
	}
	if embed.NormalizeSiteHost(c.Metabase.URL) == "" {
		missing = append(missing, "METABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("metabase.key", "")
	v.SetDefault("metabase.url", "")

	v.SetDefault("embed.params_id", 1)

	// Keys without a default are invisible to Unmarshal when they only come
	// from the environment.
	v.SetDefault("allowlist.dashboards", []uint32{})
	v.SetDefault("allowlist.redis_url", "")
	v.SetDefault("allowlist.redis_key", "embed:dashboards:allowed")
	v.SetDefault("allowlist.pool_size", 10)

	v.SetDefault("observability.trace_enabled", false)
	v.SetDefault("observability.tracing_endpoint_url", "")
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
	v.SetDefault("observability.log_source", false)
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it. An empty path searches ./config and the
// working directory for config.yaml.
func Load(path string) (*Config, error) {
	v := viper.New()

	logger := slog.Default()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The Metabase secrets keep their unprefixed names.
	if err := v.BindEnv("metabase.key", "METABASE_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind METABASE_KEY: %w", err)
	}
	if err := v.BindEnv("metabase.url", "METABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind METABASE_URL: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		logger.Debug("No config file found, using defaults and environment")
	}

	if env := os.Getenv("APP_ENV"); env != "" && path == "" {
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		if err := v.MergeInConfig(); err != nil {
			logger.Info("No environment-specific config (optional)", slog.String("env", env))
		} else {
			logger.Info("Environment-specific config loaded", slog.String("env", env))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad is Load for process start-up: any error terminates the process.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		slog.Default().Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}
