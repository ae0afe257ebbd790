// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (DUCKCHAT_* runtime overrides)
//  2. Config file (~/.duck-chat/config.json)
//  3. Default values (sensible defaults for quick start)
//
// The config file is also where first-run choices land: [Config.Save] persists
// the accepted terms flag and the chosen default model under a file lock so
// concurrent invocations do not tear the file.
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/viper"

	"github.com/Elmash/duck-chat/internal/duckchat"
	"github.com/Elmash/duck-chat/internal/log"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrUnknownModel indicates the configured model alias is not in the catalog.
	ErrUnknownModel = errors.New("unknown model")

	// ErrInvalidURL indicates an endpoint URL is malformed.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrInvalidTimeout indicates the request timeout is out of range.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidRate indicates the request rate is out of range.
	ErrInvalidRate = errors.New("invalid request rate")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

const (
	configDirName  = ".duck-chat"
	configFileName = "config.json"
	lockFileName   = "config.json.lock"

	defaultStatusURL = "https://duckduckgo.com/duckchat/v1/status"
	defaultChatURL   = "https://duckduckgo.com/duckchat/v1/chat"
	defaultTermsURL  = "https://duckduckgo.com/aichat/privacy-terms"
)

// Config stores application configuration.
type Config struct {
	// Chat configuration
	DefaultModel  string `mapstructure:"default_model" json:"default_model"` // Model alias (e.g., "gpt-4o-mini", "claude-3-haiku")
	AcceptedTerms bool   `mapstructure:"accepted_terms" json:"accepted_terms"`

	// Endpoint configuration (overridable for testing and proxies)
	StatusURL string `mapstructure:"status_url" json:"status_url"`
	ChatURL   string `mapstructure:"chat_url" json:"chat_url"`
	TermsURL  string `mapstructure:"terms_url" json:"terms_url"`

	// Transport configuration
	TimeoutSeconds    int `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	RequestsPerMinute int `mapstructure:"requests_per_minute" json:"requests_per_minute"`

	// Output configuration
	RenderMarkdown bool `mapstructure:"render_markdown" json:"render_markdown"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level" json:"log_level"` // "debug", "info", "warn", "error"
	LogJSON  bool   `mapstructure:"log_json" json:"log_json"`
}

// Dir returns the configuration directory (~/.duck-chat), creating it when missing.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}

	dir := filepath.Join(home, configDirName)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return dir, nil
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	// A fresh Viper instance per load keeps tests and repeated loads isolated.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(dir)

	setDefaults(v)
	bindEnvVariables(v)

	// Read configuration file (if exists)
	if err := v.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_path", dir,
			"config_name", configFileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// CRITICAL: Validate immediately (fail-fast)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("default_model", duckchat.DefaultModel().Alias)
	v.SetDefault("accepted_terms", false)

	v.SetDefault("status_url", defaultStatusURL)
	v.SetDefault("chat_url", defaultChatURL)
	v.SetDefault("terms_url", defaultTermsURL)

	v.SetDefault("timeout_seconds", 30)
	v.SetDefault("requests_per_minute", 60)

	v.SetDefault("render_markdown", true)

	v.SetDefault("log_level", "warn")
	v.SetDefault("log_json", false)
}

// bindEnvVariables binds DUCKCHAT_* environment variables explicitly.
// Explicit binding keeps the override surface enumerable; AutomaticEnv would
// silently accept any key.
func bindEnvVariables(v *viper.Viper) {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail)
	// If this panics, it's a BUG in our code, not a runtime error
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("default_model", "DUCKCHAT_DEFAULT_MODEL")
	mustBind("accepted_terms", "DUCKCHAT_ACCEPTED_TERMS")

	mustBind("status_url", "DUCKCHAT_STATUS_URL")
	mustBind("chat_url", "DUCKCHAT_CHAT_URL")
	mustBind("terms_url", "DUCKCHAT_TERMS_URL")

	mustBind("timeout_seconds", "DUCKCHAT_TIMEOUT_SECONDS")
	mustBind("requests_per_minute", "DUCKCHAT_REQUESTS_PER_MINUTE")

	mustBind("render_markdown", "DUCKCHAT_RENDER_MARKDOWN")

	mustBind("log_level", "DUCKCHAT_LOG_LEVEL")
	mustBind("log_json", "DUCKCHAT_LOG_JSON")
}

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if _, ok := duckchat.ModelByAlias(c.DefaultModel); !ok {
		return fmt.Errorf("%w: %q is not valid, must be one of: %s",
			ErrUnknownModel, c.DefaultModel, strings.Join(modelAliases(), ", "))
	}

	for name, raw := range map[string]string{
		"status_url": c.StatusURL,
		"chat_url":   c.ChatURL,
		"terms_url":  c.TermsURL,
	} {
		if err := validateURL(raw); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidURL, name, err)
		}
	}

	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("%w: timeout_seconds must be at least 1, got %d", ErrInvalidTimeout, c.TimeoutSeconds)
	}

	if c.RequestsPerMinute < 1 {
		return fmt.Errorf("%w: requests_per_minute must be at least 1, got %d", ErrInvalidRate, c.RequestsPerMinute)
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLogLevel, err)
	}

	return nil
}

// Save persists the configuration to ~/.duck-chat/config.json.
//
// The write happens under an exclusive file lock and lands via a temp file
// plus rename, so a concurrent invocation reads either the old file or the
// new one, never a torn mix.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	dir, err := Dir()
	if err != nil {
		return err
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking config file: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("releasing config file lock failed", "error", err)
		}
	}()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, "config-*.json")
	if err != nil {
		return fmt.Errorf("creating temp config file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp config file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(dir, configFileName)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing config file: %w", err)
	}

	return nil
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// validateURL checks that raw parses as an absolute http(s) URL.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

// modelAliases lists the catalog aliases for error messages.
func modelAliases() []string {
	models := duckchat.Models()
	aliases := make([]string, len(models))
	for i, m := range models {
		aliases[i] = m.Alias
	}
	return aliases
}
