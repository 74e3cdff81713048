// Package config provides configuration management for the participant file generator.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pesertagen/internal/mapping"
	"pesertagen/internal/models"
)

// Configuration validation errors.
var (
	ErrNegativeDefault  = errors.New("defaults must be non-negative integers")
	ErrUnknownAlias     = errors.New("mapping.aliases has an unknown field")
	ErrEmptyAlias       = errors.New("mapping.aliases entries must not be blank")
	ErrMissingOutput    = errors.New("output.base_path is required")
	ErrInvalidPreview   = errors.New("preview.rows and preview.max_cell_width must be non-negative")
	ErrInvalidCacheSize = errors.New("cache.size must be non-negative")
	ErrInvalidLogLevel  = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidEnvValue  = errors.New("invalid environment override")
)

// Environment overrides.
const (
	EnvLogLevel       = "PESERTAGEN_LOG_LEVEL"
	EnvOutputDir      = "PESERTAGEN_OUTPUT_DIR"
	EnvIDPendidikan   = "PESERTAGEN_ID_PENDIDIKAN"
	EnvIDJabatan      = "PESERTAGEN_ID_JABATAN"
	EnvIDJenisJabatan = "PESERTAGEN_ID_JENIS_JABATAN"
	EnvCacheSize      = "PESERTAGEN_CACHE_SIZE"
)

// Config represents the complete generator configuration.
type Config struct {
	Defaults models.Defaults `yaml:"defaults"`
	Mapping  MappingConfig   `yaml:"mapping"`
	Input    InputConfig     `yaml:"input"`
	Output   OutputConfig    `yaml:"output"`
	Preview  PreviewConfig   `yaml:"preview"`
	Cache    CacheConfig     `yaml:"cache"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// MappingConfig overrides the accepted column names per field.
type MappingConfig struct {
	Aliases map[string][]string `yaml:"aliases,omitempty"`
}

// InputConfig names the sheets read when no flag is given.
type InputConfig struct {
	Sheet          string `yaml:"sheet"`
	ReferenceSheet string `yaml:"reference_sheet"`
}

// OutputConfig defines output behavior.
type OutputConfig struct {
	BasePath string `yaml:"base_path"`
	// RunDirs writes each run into <base_path>/<run id>.
	RunDirs bool `yaml:"run_dirs"`
}

// PreviewConfig controls the terminal preview of each group.
type PreviewConfig struct {
	Rows         int `yaml:"rows"`
	MaxCellWidth int `yaml:"max_cell_width"`
}

// CacheConfig sizes the memo caches.
type CacheConfig struct {
	Size int `yaml:"size"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Defaults: models.DefaultValues(),
		Output: OutputConfig{
			BasePath: "./output",
			RunDirs:  true,
		},
		Preview: PreviewConfig{
			Rows:         10,
			MaxCellWidth: 32,
		},
		Cache:   CacheConfig{Size: 1024},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from YAML file. Keys missing from the file
// keep their default values.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

// Load returns the configuration for a run: the file at path (or the
// defaults when path is empty) with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return errors.Wrapf(err, "failed to stat %s", p)
		}

		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "failed to load %s", p)
		}
	}

	return nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}

	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		c.Output.BasePath = v
	}

	ints := []struct {
		name   string
		target *int
	}{
		{EnvIDPendidikan, &c.Defaults.IDPendidikan},
		{EnvIDJabatan, &c.Defaults.IDJabatan},
		{EnvIDJenisJabatan, &c.Defaults.IDJenisJabatan},
		{EnvCacheSize, &c.Cache.Size},
	}

	for _, e := range ints {
		v, ok := lookup(e.name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}

		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(ErrInvalidEnvValue, "%s=%q is not an integer", e.name, v)
		}

		*e.target = n
	}

	return nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(filepath, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	d := c.Defaults
	if d.IDPendidikan < 0 || d.IDJabatan < 0 || d.IDJenisJabatan < 0 {
		return ErrNegativeDefault
	}

	for name, aliases := range c.Mapping.Aliases {
		if !models.Field(strings.ToUpper(strings.TrimSpace(name))).Valid() {
			return errors.Wrapf(ErrUnknownAlias, "%q", name)
		}

		for _, a := range aliases {
			if strings.TrimSpace(a) == "" {
				return errors.Wrapf(ErrEmptyAlias, "%s", name)
			}
		}
	}

	if c.Output.BasePath == "" {
		return ErrMissingOutput
	}

	if c.Preview.Rows < 0 || c.Preview.MaxCellWidth < 0 {
		return ErrInvalidPreview
	}

	if c.Cache.Size < 0 {
		return ErrInvalidCacheSize
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// GetAliases returns the stock aliases with configured overrides applied.
func (c *Config) GetAliases() mapping.Aliases {
	return mapping.DefaultAliases().Merge(c.Mapping.Aliases)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Defaults: %d/%d/%d, Output: %s, Cache: %d, Log: %s}",
		c.Defaults.IDPendidikan,
		c.Defaults.IDJabatan,
		c.Defaults.IDJenisJabatan,
		c.Output.BasePath,
		c.Cache.Size,
		c.Logging.Level,
	)
}
