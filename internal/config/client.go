package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig configures the command-line client
type ClientConfig struct {
	// APIURL is the record store base URL
	APIURL string `yaml:"api_url"`
	// Timeout bounds every request to the record store
	Timeout time.Duration `yaml:"timeout"`
	// TokenSecret signs session tokens; must match the server when REQUIRE_AUTH is on
	TokenSecret string `yaml:"token_secret"`
	// TokenFile holds the persisted session token
	TokenFile string `yaml:"token_file"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// DefaultClientConfig returns a ClientConfig with sensible defaults
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		APIURL:      "http://localhost:3001",
		Timeout:     10 * time.Second,
		TokenSecret: "change-me-in-production",
		TokenFile:   defaultTokenFile(),
		LogLevel:    "warn",
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "user_manager", "session.json")
}

// LoadClientConfig loads the YAML profile at path (optional) and applies
// API_URL, TOKEN_SECRET and TOKEN_FILE overrides from the environment.
func LoadClientConfig(path string) (*ClientConfig, error) {
	cfg := DefaultClientConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		cfg.TokenSecret = v
	}
	if v := os.Getenv("TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is valid
func (c *ClientConfig) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url must be an absolute URL, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	if c.TokenSecret == "" {
		return fmt.Errorf("token_secret is required")
	}
	if c.TokenFile == "" {
		return fmt.Errorf("token_file is required")
	}
	return nil
}

// SaveToFile writes the configuration as YAML
func (c *ClientConfig) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
