// Package config loads quranchat settings from YAML, the environment, and flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidBaseURL is returned by Validate for unusable backend URLs.
var ErrInvalidBaseURL = errors.New("invalid api base url")

const (
	defaultBaseURL       = "http://localhost:7860"
	defaultMarkdownStyle = "dark"
	configDirName        = "quranchat"
	configFileName       = "config.yaml"
)

// Config holds all quranchat settings.
type Config struct {
	API        APIConfig        `yaml:"api"`
	UI         UIConfig         `yaml:"ui"`
	Logging    LoggingConfig    `yaml:"logging"`
	Transcript TranscriptConfig `yaml:"transcript"`
}

// APIConfig points at the RAG backend.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout is a Go duration string. Empty means requests never time out.
	Timeout string `yaml:"timeout"`
}

// UIConfig tunes the terminal UI.
type UIConfig struct {
	MarkdownStyle string `yaml:"markdown_style"` // glamour standard style: dark, light, notty, ascii, dracula
	AltScreen     bool   `yaml:"alt_screen"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Path  string `yaml:"path"`
	Debug bool   `yaml:"debug"`
}

// TranscriptConfig enables ctrl+s transcript export.
type TranscriptConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: defaultBaseURL,
		},
		UI: UIConfig{
			MarkdownStyle: defaultMarkdownStyle,
			AltScreen:     true,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/quranchat/config.yaml (or the platform
// equivalent). It returns an empty string when no config dir is available.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, configFileName)
}

// Load reads the YAML file at path on top of the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	// VITE_API_URL is what the web client reads; the dedicated name wins.
	if url := os.Getenv("VITE_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if url := os.Getenv("QURANCHAT_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if path := os.Getenv("QURANCHAT_LOG_FILE"); path != "" {
		c.Logging.Path = path
	}
	if path := os.Getenv("QURANCHAT_TRANSCRIPT"); path != "" {
		c.Transcript.Path = path
	}
}

// Validate checks the backend URL and timeout.
func (c *Config) Validate() error {
	raw := strings.TrimSpace(c.API.BaseURL)
	parsed, err := url.Parse(raw)
	if err != nil || raw == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: missing host in %q", ErrInvalidBaseURL, raw)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

// RequestTimeout parses API.Timeout. Zero means no timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if strings.TrimSpace(c.API.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid api timeout %q: %w", c.API.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid api timeout %q: must not be negative", c.API.Timeout)
	}
	return d, nil
}
