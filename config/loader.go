package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BOOKINSIGHTS_TIMEOUT.
const EnvPrefix = "BOOKINSIGHTS"

// Load builds a Config from defaults, environment variables and flags.
// Priority (highest to lowest): changed flags > env vars > defaults.
func Load(flags *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg.URL = v.GetString("url")
	cfg.Timeout = v.GetDuration("timeout")
	cfg.MaxRetries = v.GetInt("max-retries")
	cfg.RetryBackoff = v.GetDuration("retry-backoff")
	cfg.RetryBackoffMax = v.GetDuration("retry-backoff-max")
	cfg.UserAgent = v.GetString("user-agent")
	cfg.MaxBodySize = v.GetInt("max-body-size")
	cfg.RespectRobotsTxt = v.GetBool("respect-robots")
	cfg.Engine = strings.ToLower(v.GetString("engine"))
	cfg.SentimentCacheSize = v.GetInt("sentiment-cache-size")
	cfg.OutputFile = v.GetString("output")
	cfg.OutputFormat = strings.ToLower(v.GetString("format"))
	cfg.Filter = v.GetString("filter")
	cfg.MetricsAddr = v.GetString("metrics-addr")
	cfg.Summary = v.GetBool("summary")
	cfg.Verbose = v.GetBool("verbose")

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("url", cfg.URL)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("max-retries", cfg.MaxRetries)
	v.SetDefault("retry-backoff", cfg.RetryBackoff)
	v.SetDefault("retry-backoff-max", cfg.RetryBackoffMax)
	v.SetDefault("user-agent", cfg.UserAgent)
	v.SetDefault("max-body-size", cfg.MaxBodySize)
	v.SetDefault("respect-robots", cfg.RespectRobotsTxt)
	v.SetDefault("engine", cfg.Engine)
	v.SetDefault("sentiment-cache-size", cfg.SentimentCacheSize)
	v.SetDefault("output", cfg.OutputFile)
	v.SetDefault("format", cfg.OutputFormat)
	v.SetDefault("filter", cfg.Filter)
	v.SetDefault("metrics-addr", cfg.MetricsAddr)
	v.SetDefault("summary", cfg.Summary)
	v.SetDefault("verbose", cfg.Verbose)
}
