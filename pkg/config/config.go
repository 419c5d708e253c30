// Package config loads the analysis settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// Environment variables that override file settings
const (
	EnvLogLevel = "DYNCOM_LOG_LEVEL"
	EnvWorkers  = "DYNCOM_WORKERS"
)

// Defaults
const (
	DefaultMinSize         = 4
	DefaultWorkers         = 1
	DefaultStableThreshold = 0.8
	DefaultRSSIThreshold   = -90.0
	DefaultWindowSeconds   = 10.0
	DefaultLogLevel        = "info"
)

// LogLevels lists the accepted log_level values
var LogLevels = []string{"debug", "info", "warn", "error"}

// ErrConfigNotFound is returned by Load when the file does not exist
var ErrConfigNotFound = errors.New("config file not found")

// Config is the full analysis configuration
type Config struct {
	Detection DetectionConfig `yaml:"detection"`
	Tracking  TrackingConfig  `yaml:"tracking"`
	Loader    LoaderConfig    `yaml:"loader"`
	Output    OutputConfig    `yaml:"output"`
	LogLevel  string          `yaml:"log_level"`
}

// DetectionConfig configures community detection
type DetectionConfig struct {
	MinSize int `yaml:"min_size" validate:"gte=1"`
	Workers int `yaml:"workers" validate:"gte=0"`
}

// TrackingConfig configures event classification
type TrackingConfig struct {
	StableThreshold float64 `yaml:"stable_threshold" validate:"gt=0,lte=1"`
	DedupStable     bool    `yaml:"dedup_stable"`
}

// LoaderConfig configures trace windowing
type LoaderConfig struct {
	RSSIThreshold float64 `yaml:"rssi_threshold"`
	WindowSeconds float64 `yaml:"window_seconds" validate:"gt=0"`
}

// OutputConfig names the files a run writes; empty paths are skipped
type OutputConfig struct {
	JSONPath    string `yaml:"json_path"`
	CSVPath     string `yaml:"csv_path"`
	MetricsFile string `yaml:"metrics_file"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			MinSize: DefaultMinSize,
			Workers: DefaultWorkers,
		},
		Tracking: TrackingConfig{
			StableThreshold: DefaultStableThreshold,
		},
		Loader: LoaderConfig{
			RSSIThreshold: DefaultRSSIThreshold,
			WindowSeconds: DefaultWindowSeconds,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default value. Environment overrides are applied afterwards, then
// the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := validation.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from DYNCOM_* environment variables
func (c *Config) ApplyEnv() error {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
	if workers := os.Getenv(EnvWorkers); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, workers, err)
		}
		c.Detection.Workers = n
	}
	return nil
}

// Validate checks struct tags first, then cross-field rules
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	return validation.NewConfigValidator("Config").
		Positive("Detection.MinSize", c.Detection.MinSize).
		Custom("Detection.Workers", func() error {
			return validation.ValidateWorkers(c.Detection.Workers)
		}).
		RangeFloat("Tracking.StableThreshold", c.Tracking.StableThreshold, 0, 1).
		Custom("Loader.RSSIThreshold", func() error {
			return validation.ValidateRSSIThreshold(c.Loader.RSSIThreshold)
		}).
		PositiveFloat("Loader.WindowSeconds", c.Loader.WindowSeconds).
		Finite("Loader.WindowSeconds", c.Loader.WindowSeconds).
		Extension("Output.JSONPath", c.Output.JSONPath, []string{".json", ".sz"}).
		Extension("Output.CSVPath", c.Output.CSVPath, []string{".csv"}).
		Extension("Output.MetricsFile", c.Output.MetricsFile, []string{".prom"}).
		OneOf("LogLevel", c.LogLevel, LogLevels).
		Validate()
}
