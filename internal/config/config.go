// Package config loads tempscore configuration: logging, output, projection
// and scoring controls, portfolio defaults, and the sector → production metric
// table.
//
// Configuration is layered. Built-in defaults come first, then
// ~/.tempscore/config.yaml (or the file named by --config) is merged section by
// section, then TEMPSCORE_* environment variables override logging settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables that override file configuration.
const (
	EnvLogLevel  = "TEMPSCORE_LOG_LEVEL"
	EnvLogFormat = "TEMPSCORE_LOG_FORMAT"
	EnvLogFile   = "TEMPSCORE_LOG_FILE"
	EnvHome      = "TEMPSCORE_HOME"
)

const (
	configDirName  = ".tempscore"
	configFileName = "config.yaml"
	logDirName     = "logs"
	logFileName    = "tempscore.log"
	outputTypeFile = "file"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
)

// Config validation errors.
var (
	ErrInvalidOutputFormat = errors.New("output format must be table, json, csv or xlsx")
	ErrInvalidPrecision    = errors.New("output precision must be between 0 and 10")
	ErrInvalidLogFormat    = errors.New("log format must be json, console or text")
)

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Precision     int    `yaml:"precision"      json:"precision"`
}

// Validate checks the output configuration.
func (o OutputConfig) Validate() error {
	switch o.DefaultFormat {
	case FormatTable, FormatJSON, FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidOutputFormat, o.DefaultFormat)
	}
	const maxPrecision = 10
	if o.Precision < 0 || o.Precision > maxPrecision {
		return fmt.Errorf("%w: got %d", ErrInvalidPrecision, o.Precision)
	}
	return nil
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"  json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file"   json:"file"`
}

// Validate checks the logging configuration.
func (l LoggingConfig) Validate() error {
	switch l.Format {
	case "", "json", "console", "text":
		return nil
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, l.Format)
	}
}

// Config is the complete tempscore configuration.
type Config struct {
	Output     OutputConfig       `yaml:"output"     json:"output"`
	Logging    LoggingConfig      `yaml:"logging"    json:"logging"`
	Projection ProjectionControls `yaml:"projection" json:"projection"`
	Scoring    ScoringControls    `yaml:"scoring"    json:"scoring"`
	Portfolio  PortfolioConfig    `yaml:"portfolio"  json:"portfolio"`
	Sectors    SectorUnits        `yaml:"sectors"    json:"sectors"`

	// path is the file this config was loaded from, empty for defaults.
	path string
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Projection: DefaultProjectionControls(),
		Scoring:    DefaultScoringControls(),
		Portfolio: PortfolioConfig{
			Method:    DefaultMethod,
			Workers:   DefaultWorkers,
			BatchSize: DefaultBatchSize,
		},
		Sectors: DefaultSectorUnits(),
	}
}

// New returns the defaults merged with the user config file, if one exists,
// and environment overrides. Errors reading the user file are ignored here;
// use Load to surface them.
func New() *Config {
	cfg := Default()
	if dir, err := GetConfigDir(); err == nil {
		path := filepath.Join(dir, configFileName)
		if _, statErr := os.Stat(path); statErr == nil {
			if mergeErr := ShallowMergeYAML(cfg, path); mergeErr == nil {
				cfg.path = path
			}
		}
	}
	cfg.applyEnv()
	return cfg
}

// Load returns the defaults merged with the file at path and environment overrides,
// validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	cfg.path = path
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string { return c.path }

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		c.Logging.File = v
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Projection.Validate(); err != nil {
		return fmt.Errorf("projection: %w", err)
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.Portfolio.Validate(); err != nil {
		return fmt.Errorf("portfolio: %w", err)
	}
	if err := c.Sectors.Validate(); err != nil {
		return fmt.Errorf("sectors: %w", err)
	}
	return nil
}
