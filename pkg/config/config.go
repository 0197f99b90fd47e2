// Package config loads cardforge settings from a TOML file and the
// environment.
//
// Values are resolved in order of precedence: CARDFORGE_* environment
// variables, then the config file, then built-in defaults. Nested keys map
// to variables by replacing dots with underscores, so server.url is read
// from CARDFORGE_SERVER_URL.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	apperr "github.com/matzehuels/cardforge/pkg/errors"
)

const (
	appName = "cardforge"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CARDFORGE"
	// EnvConfig names a config file to use instead of the default path.
	EnvConfig = EnvPrefix + "_CONFIG"
)

// Defaults.
const (
	DefaultServerURL = "http://localhost:5000"
	DefaultTimeout   = 5 * time.Minute
	DefaultWidth     = 1032
	DefaultHeight    = 648
	DefaultStyle     = "DEFAULT"
	DefaultCacheTTL  = 24 * time.Hour
)

// Config holds all settings.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Card   CardConfig   `mapstructure:"card"`
	Cache  CacheConfig  `mapstructure:"cache"`

	// File is the config file that was read, or empty if none was found.
	File string `mapstructure:"-"`
}

// ServerConfig locates the compositing service.
type ServerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CardConfig describes the card being designed.
type CardConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Style  string `mapstructure:"style"`
}

// CacheConfig controls the improved-prompt cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{URL: DefaultServerURL, Timeout: DefaultTimeout},
		Card:   CardConfig{Width: DefaultWidth, Height: DefaultHeight, Style: DefaultStyle},
		Cache:  CacheConfig{Enabled: true, TTL: DefaultCacheTTL},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/cardforge/config.toml, falling back
// to ~/.config/cardforge/config.toml.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Path resolves the config file location: explicit, then $CARDFORGE_CONFIG,
// then DefaultPath.
func Path(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env, nil
	}
	return DefaultPath()
}

// Load reads the configuration. A missing file is only an error when path
// was given explicitly.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file, err := Path(path)
	if err != nil {
		return Config{}, apperr.Wrap(apperr.ErrCodeInternal, err, "cannot locate config file")
	}
	v.SetConfigFile(file)

	read := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path == "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)):
			read = false
		case path != "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)):
			return Config{}, apperr.New(apperr.ErrCodeFileNotFound, "config file %s does not exist", file)
		default:
			return Config{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "cannot read config file %s", file)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid configuration")
	}
	if read {
		c.File = file
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.url", d.Server.URL)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("card.width", d.Card.Width)
	v.SetDefault("card.height", d.Card.Height)
	v.SetDefault("card.style", d.Card.Style)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl", d.Cache.TTL)
}

// Validate checks values that would otherwise fail later and less clearly.
func (c Config) Validate() error {
	if err := apperr.ValidateURL(c.Server.URL); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "server.url: %s", apperr.UserMessage(err))
	}
	if c.Server.Timeout <= 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Card.Width <= 0 || c.Card.Height <= 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "card size must be positive, got %dx%d", c.Card.Width, c.Card.Height)
	}
	if c.Cache.TTL < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "cache.ttl cannot be negative")
	}
	return nil
}

// file mirrors Config for TOML output with durations as readable strings.
type file struct {
	Server struct {
		URL     string `toml:"url"`
		Timeout string `toml:"timeout"`
	} `toml:"server"`
	Card struct {
		Width  int    `toml:"width"`
		Height int    `toml:"height"`
		Style  string `toml:"style"`
	} `toml:"card"`
	Cache struct {
		Enabled bool   `toml:"enabled"`
		Dir     string `toml:"dir,omitempty"`
		TTL     string `toml:"ttl"`
	} `toml:"cache"`
}

// Encode writes c as TOML.
func Encode(w io.Writer, c Config) error {
	var f file
	f.Server.URL = c.Server.URL
	f.Server.Timeout = c.Server.Timeout.String()
	f.Card.Width = c.Card.Width
	f.Card.Height = c.Card.Height
	f.Card.Style = c.Card.Style
	f.Cache.Enabled = c.Cache.Enabled
	f.Cache.Dir = c.Cache.Dir
	f.Cache.TTL = c.Cache.TTL.String()
	return toml.NewEncoder(w).Encode(f)
}

// Write saves c to path, creating parent directories. An existing file is
// only replaced when overwrite is set.
func Write(path string, c Config, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return apperr.New(apperr.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		return apperr.Wrap(apperr.ErrCodeInternal, err, "encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
