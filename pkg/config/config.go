// Package config loads third-wheel's tool settings: how to log, how to talk
// to GitHub and which platform to provision for. What to install lives in the
// package manifest (see pkg/manifest), not here.
//
// Settings are layered with viper: built-in defaults, then an optional
// settings file, then THIRD_WHEEL_* environment variables. Command-line flags
// are applied on top by the CLI.
package config

import (
	stderrors "errors"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/alpertunga-bile/third-wheel/pkg/errors"
	"github.com/alpertunga-bile/third-wheel/pkg/platform"
	"github.com/spf13/viper"
)

// Settings represents general application settings.
type Settings struct {
	// Output settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	NoColor  bool   `mapstructure:"no_color" yaml:"no_color"`

	// Network settings
	HTTPTimeout time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent" yaml:"user_agent"`
	GitHubToken string        `mapstructure:"github_token" yaml:"github_token,omitempty"`

	// Platform overrides the host OS used to pick filename templates.
	// Empty means auto-detect.
	OS string `mapstructure:"os" yaml:"os,omitempty"`

	// Python is the interpreter used to create the isolated environment.
	Python string `mapstructure:"python" yaml:"python"`
}

// Default configuration values.
const (
	// EnvPrefix prefixes every environment variable viper reads.
	EnvPrefix = "THIRD_WHEEL"

	// DefaultHTTPTimeout bounds a single request, including the body transfer
	// of a release asset.
	DefaultHTTPTimeout = 10 * time.Minute

	// DefaultUserAgent is sent with every GitHub request.
	DefaultUserAgent = "third-wheel/1.0"
)

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() *Settings {
	return &Settings{
		LogLevel:    "info",
		HTTPTimeout: DefaultHTTPTimeout,
		UserAgent:   DefaultUserAgent,
		Python:      defaultPython(),
	}
}

func defaultPython() string {
	if runtime.GOOS == platform.OSWindows {
		return "python"
	}
	return "python3"
}

// Load reads settings. An empty path skips the settings file; a non-empty
// path must exist.
func Load(path string) (*Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("no_color", defaults.NoColor)
	v.SetDefault("http_timeout", defaults.HTTPTimeout)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("github_token", "")
	v.SetDefault("os", "")
	v.SetDefault("python", defaults.Python)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if err := v.BindEnv("github_token", EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidConfigPath, "%s: %v", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return &settings, nil
}

// Validate checks if the settings are valid.
func (s *Settings) Validate() error {
	if s == nil {
		return errors.ErrConfigValidation
	}
	if s.HTTPTimeout < 0 {
		return stderrors.New("http_timeout cannot be negative")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return stderrors.New("invalid log_level " + s.LogLevel + " (valid: debug, info, warn, error)")
	}
	if s.OS != "" {
		if err := platform.New(s.OS).Validate(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(s.Python) == "" {
		return stderrors.New("python cannot be empty")
	}
	return nil
}

// Platform returns the platform selected by the settings.
func (s *Settings) Platform() platform.Platform {
	return platform.New(s.OS)
}
