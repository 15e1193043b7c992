// Package config loads the sensorwatch configuration from defaults, an
// optional config file and SENSORWATCH_* environment variables.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all runtime settings. Command-line flags override these.
type Config struct {
	DatabasePath   string  `mapstructure:"database_path"`
	DaysBack       int     `mapstructure:"days_back"`       // detection window length in days
	SigmaThreshold float64 `mapstructure:"sigma_threshold"` // multiplier N in mean + N*stddev
	TopAnomalies   int     `mapstructure:"top_anomalies"`   // anomalies shown per sensor; 0 = all
	LogLevel       string  `mapstructure:"log_level"`
}

// Load reads the configuration. A missing config file is not an error; the
// defaults and environment are enough to run.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.sensorwatch")
	v.AddConfigPath(".")

	// Defaults
	v.SetDefault("database_path", "./sensorwatch.db")
	v.SetDefault("days_back", 7)
	v.SetDefault("sigma_threshold", 3.0)
	v.SetDefault("top_anomalies", 5)
	v.SetDefault("log_level", "info")

	// Environment variables
	v.SetEnvPrefix("SENSORWATCH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; using defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
