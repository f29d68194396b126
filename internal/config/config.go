// Package config handles configuration loading for finvizlite.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "FINVIZLITE"

// Config represents the complete application configuration.
type Config struct {
	Finviz   FinvizConfig   `mapstructure:"finviz"   yaml:"finviz"`
	Chart    ChartConfig    `mapstructure:"chart"    yaml:"chart"`
	Output   OutputConfig   `mapstructure:"output"   yaml:"output"`
	Batch    BatchConfig    `mapstructure:"batch"    yaml:"batch"`
	Recorder RecorderConfig `mapstructure:"recorder" yaml:"recorder"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// FinvizConfig holds the scraper's HTTP settings.
type FinvizConfig struct {
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"`
	UserAgent  string `mapstructure:"user_agent"  yaml:"user_agent"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns TimeoutSec as a duration.
func (c FinvizConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// ChartConfig holds chart defaults.
type ChartConfig struct {
	Timeframe string `mapstructure:"timeframe" yaml:"timeframe"` // "daily", "weekly", "monthly"
	Type      string `mapstructure:"type"      yaml:"type"`      // "candle", "line", "advanced"
	OutDir    string `mapstructure:"out_dir"   yaml:"out_dir"`
}

// OutputConfig controls CLI output.
type OutputConfig struct {
	Raw    bool   `mapstructure:"raw"    yaml:"raw"`
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// BatchConfig holds multi-ticker settings.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// RecorderConfig holds snapshot recorder settings. An empty path disables it.
type RecorderConfig struct {
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Addr returns host:port.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
	File   string `mapstructure:"file"   yaml:"file"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.finvizlite/config.yaml (home directory)
//  3. /etc/finvizlite/config.yaml (system)
//
// Environment variables override config file values.
// Format: FINVIZLITE_<SECTION>_<KEY>, e.g., FINVIZLITE_BATCH_CONCURRENCY
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".finvizlite"))
	v.AddConfigPath("/etc/finvizlite")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Chart.OutDir = expandHome(cfg.Chart.OutDir)
	cfg.Recorder.SQLitePath = expandHome(cfg.Recorder.SQLitePath)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Finviz defaults
	v.SetDefault("finviz.base_url", "https://finviz.com")
	v.SetDefault("finviz.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36")
	v.SetDefault("finviz.timeout_sec", 30)

	// Chart defaults
	v.SetDefault("chart.timeframe", "daily")
	v.SetDefault("chart.type", "advanced")
	v.SetDefault("chart.out_dir", ".")

	// Output defaults
	v.SetDefault("output.raw", true)
	v.SetDefault("output.format", "text")

	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("recorder.sqlite_path", "")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
}

var (
	validTimeframes   = []string{"daily", "weekly", "monthly"}
	validChartTypes   = []string{"candle", "line", "advanced"}
	validFormats      = []string{"text", "json"}
	validLoggingLevel = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}
)

// Validate checks values that cannot be fixed up at use time.
func (c *Config) Validate() error {
	if c.Finviz.BaseURL == "" {
		return fmt.Errorf("finviz.base_url must not be empty")
	}
	if c.Finviz.TimeoutSec <= 0 {
		return fmt.Errorf("finviz.timeout_sec must be positive, got %d", c.Finviz.TimeoutSec)
	}
	if !oneOf(c.Chart.Timeframe, validTimeframes) {
		return fmt.Errorf("chart.timeframe %q: want one of %s", c.Chart.Timeframe, strings.Join(validTimeframes, ", "))
	}
	if !oneOf(c.Chart.Type, validChartTypes) {
		return fmt.Errorf("chart.type %q: want one of %s", c.Chart.Type, strings.Join(validChartTypes, ", "))
	}
	if !oneOf(c.Output.Format, validFormats) {
		return fmt.Errorf("output.format %q: want text or json", c.Output.Format)
	}
	if !oneOf(c.Logging.Format, validFormats) {
		return fmt.Errorf("logging.format %q: want text or json", c.Logging.Format)
	}
	if !oneOf(strings.ToLower(c.Logging.Level), validLoggingLevel) {
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be positive, got %d", c.Batch.Concurrency)
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	return nil
}

func oneOf(s string, allowed []string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
