// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider names accepted by the LLM layer.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Defaults applied by MergeWithDefaults and Defaults.
const (
	DefaultPort                = "8080"
	DefaultProvider            = ProviderOpenAI
	DefaultFetchTimeoutSeconds = 10
	MaxFetchTimeoutSeconds     = 15
	DefaultMaxUploadMB         = 10
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or come from CLI flags and env vars.
type Config struct {
	// Server
	Port        string `json:"port,omitempty"`          // HTTP listen port
	MaxUploadMB int    `json:"max_upload_mb,omitempty"` // Upload size limit for the extract form

	// LLM
	Provider string `json:"provider,omitempty"` // "openai" or "gemini"
	Model    string `json:"model,omitempty"`    // Model override for the selected provider
	APIKey   string `json:"api_key,omitempty"`  // Credential for the selected provider

	// Fetching
	FetchTimeoutSeconds int  `json:"fetch_timeout_seconds,omitempty"` // URL fetch timeout (1-15)
	UseBrowser          bool `json:"use_browser,omitempty"`           // Use headless browser for SPA sites

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:                DefaultPort,
		MaxUploadMB:         DefaultMaxUploadMB,
		Provider:            DefaultProvider,
		FetchTimeoutSeconds: DefaultFetchTimeoutSeconds,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Zero values are allowed since MergeWithDefaults fills them in.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "", ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("config error: unknown provider %q (want %q or %q)", c.Provider, ProviderOpenAI, ProviderGemini)
	}

	if c.FetchTimeoutSeconds < 0 || c.FetchTimeoutSeconds > MaxFetchTimeoutSeconds {
		return fmt.Errorf("config error: 'fetch_timeout_seconds' must be between 1 and %d", MaxFetchTimeoutSeconds)
	}
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("config error: 'max_upload_mb' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == "" {
		result.Port = defaults.Port
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	result.Provider = strings.ToLower(result.Provider)
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	if result.FetchTimeoutSeconds == 0 {
		result.FetchTimeoutSeconds = defaults.FetchTimeoutSeconds
	}
	if result.MaxUploadMB == 0 {
		result.MaxUploadMB = defaults.MaxUploadMB
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// FromEnv overlays environment variables onto c and returns the result.
// LLM_PROVIDER selects the provider; the API key comes from OPENAI_API_KEY or
// GEMINI_API_KEY depending on that provider. PORT overrides the listen port.
func (c Config) FromEnv() Config {
	if p := os.Getenv("LLM_PROVIDER"); p != "" {
		c.Provider = strings.ToLower(p)
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Port = port
	}
	if c.APIKey == "" {
		c.APIKey = APIKeyFor(c.Provider)
	}
	return c
}

// APIKeyFor returns the credential env var for provider.
func APIKeyFor(provider string) string {
	switch strings.ToLower(provider) {
	case ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}
