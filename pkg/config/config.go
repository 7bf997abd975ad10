// Package config resolves dockershit settings from defaults, the user config
// file at ~/.config/dockershit/config.yaml and DOCKERSHIT_* environment
// variables. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigDirName is the name of the config directory.
	ConfigDirName = "dockershit"
	// ConfigFileName is the name of the config file.
	ConfigFileName = "config.yaml"
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "DOCKERSHIT_"
	// HistorySuffix is appended to the Dockerfile path to name the history file.
	HistorySuffix = ".history"
)

// Defaults.
const (
	DefaultShell       = "/bin/sh"
	DefaultFile        = "Dockerfile"
	DefaultTag         = "dockershit"
	DefaultContextDir  = "."
	DefaultHistorySize = 1000
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the options of a dockershit session.
type Config struct {
	Image           string `yaml:"image" env:"IMAGE"`                         // Base image; empty keeps the Dockerfile's FROM
	Shell           string `yaml:"shell" env:"SHELL"`                         // Shell used inside the container
	File            string `yaml:"file" env:"FILE"`                           // Dockerfile to write to
	Tag             string `yaml:"tag" env:"TAG"`                             // Tag for the built image
	ContextDir      string `yaml:"context" env:"CONTEXT"`                     // Build context directory
	Debug           bool   `yaml:"debug" env:"DEBUG"`                         // Show docker build output
	KeepEmptyLayers bool   `yaml:"keep_empty_layers" env:"KEEP_EMPTY_LAYERS"` // Record commands that change nothing
	HistorySize     int    `yaml:"history_size" env:"HISTORY_SIZE"`           // Max history entries
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Shell:       DefaultShell,
		File:        DefaultFile,
		Tag:         DefaultTag,
		ContextDir:  DefaultContextDir,
		HistorySize: DefaultHistorySize,
	}
}

// DefaultPath returns the config file location, honouring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDirName, ConfigFileName), nil
}

// Load reads the config file at path (missing is fine) and applies the
// process environment.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, nil)
}

// LoadWithEnv is Load with an explicit environment; nil means os.Environ.
func LoadWithEnv(path string, environ map[string]string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// readFile overlays the YAML file at path onto cfg.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Shell) == "" {
		errs = append(errs, fmt.Errorf("%w: shell is required", ErrInvalid))
	}
	if strings.TrimSpace(c.File) == "" {
		errs = append(errs, fmt.Errorf("%w: file is required", ErrInvalid))
	}
	if err := ValidateTag(c.Tag); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if err := ValidateImage(c.Image); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if c.HistorySize < 0 {
		errs = append(errs, fmt.Errorf("%w: history_size must not be negative", ErrInvalid))
	}

	return errors.Join(errs...)
}

// HistoryPath returns the history file that sits next to the Dockerfile.
func (c *Config) HistoryPath() string {
	return c.File + HistorySuffix
}

// ContextOrDefault returns the build context directory.
func (c *Config) ContextOrDefault() string {
	if c.ContextDir == "" {
		return DefaultContextDir
	}
	return c.ContextDir
}
