// Package config provides configuration management for fabtopo.
//
// Config file locations (priority order):
//  1. $FABTOPO_CONFIG
//  2. ./fabtopo.yaml
//  3. $XDG_CONFIG_HOME/fabtopo/config.yaml
//  4. ~/.config/fabtopo/config.yaml
//  5. /etc/fabtopo/config.yaml
//
// Command-line flags override whatever the file provides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults for a new installation
const (
	DefaultOutputDir    = "."
	DefaultOutputFormat = "netloc"
	DefaultPrefix       = "OPA"
	DefaultLabel        = "omnipath"
	DefaultGbits        = 100
	DefaultLogLevel     = "info"
)

var validate = validator.New()

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Mode == "" {
		c.Mode = ModeAuto
	}
	if c.Input.Format == "" {
		c.Input.Format = "auto"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultOutputFormat
	}
	if c.Output.Prefix == "" {
		c.Output.Prefix = DefaultPrefix
	}
	if c.Output.Label == "" {
		c.Output.Label = DefaultLabel
	}
	if c.Link.Gbits == 0 {
		c.Link.Gbits = DefaultGbits
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate checks field values against their allowed ranges
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", field, e.Param(), e.Value()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, e.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Mode: %s, Input format: %s\n", c.Mode, c.Input.Format)
	summary += fmt.Sprintf("Output: %s (%s), prefix %s, label %s\n",
		c.Output.Dir, c.Output.Format, c.Output.Prefix, c.Output.Label)
	summary += fmt.Sprintf("Link gbits: %d, Log level: %s", c.Link.Gbits, c.Log.Level)
	if c.Archive.Path != "" {
		summary += fmt.Sprintf("\nArchive: %s", c.Archive.Path)
	}
	if c.Metrics.Textfile != "" {
		summary += fmt.Sprintf("\nMetrics textfile: %s", c.Metrics.Textfile)
	}
	return summary
}
