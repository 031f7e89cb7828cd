// Package config loads apiforge configuration from an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"apiforge/internal/logging"
)

// Config is the full application configuration.
type Config struct {
	Anthropic  ProviderConfig   `koanf:"anthropic"`
	OpenAI     ProviderConfig   `koanf:"openai"`
	Gemini     ProviderConfig   `koanf:"gemini"`
	Generation GenerationConfig `koanf:"generation"`
	Database   DatabaseConfig   `koanf:"database"`
	Keyring    KeyringConfig    `koanf:"keyring"`
	Log        logging.Config   `koanf:"log"`
}

// ProviderConfig holds the credential for one generation provider.
type ProviderConfig struct {
	APIKey string `koanf:"api_key"`
}

type GenerationConfig struct {
	// ModelKey selects a catalog entry as provider|apiName. Empty uses the
	// persisted default, then the first enabled model with a credential.
	ModelKey    string        `koanf:"model_key"`
	MaxTokens   int           `koanf:"max_tokens"`
	Temperature *float64      `koanf:"temperature"`
	Timeout     time.Duration `koanf:"timeout"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type KeyringConfig struct {
	// Backend restricts the keyring to one backend type (e.g. "file",
	// "keychain", "secret-service"). Empty lets the platform choose.
	Backend string `koanf:"backend"`
	// FileDir is used by the file backend.
	FileDir string `koanf:"file_dir"`
}

// APIKey returns the configured credential for providerID.
func (c *Config) APIKey(providerID string) string {
	switch providerID {
	case "anthropic":
		return strings.TrimSpace(c.Anthropic.APIKey)
	case "openai":
		return strings.TrimSpace(c.OpenAI.APIKey)
	case "gemini":
		return strings.TrimSpace(c.Gemini.APIKey)
	default:
		return ""
	}
}

// TemperatureValue returns the configured sampling temperature.
func (g GenerationConfig) TemperatureValue() float32 {
	if g.Temperature == nil {
		return float32(DefaultTemperature)
	}
	return float32(*g.Temperature)
}

// Validate rejects out-of-range values.
func (c *Config) Validate() error {
	var errs []error
	if c.Generation.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("generation.max_tokens must be positive, got %d", c.Generation.MaxTokens))
	}
	if t := c.Generation.Temperature; t != nil && (*t < 0 || *t > 2) {
		errs = append(errs, fmt.Errorf("generation.temperature must be between 0 and 2, got %v", *t))
	}
	if c.Generation.Timeout < 0 {
		errs = append(errs, fmt.Errorf("generation.timeout must be positive, got %s", c.Generation.Timeout))
	}
	if key := c.Generation.ModelKey; key != "" && !strings.Contains(key, "|") {
		errs = append(errs, fmt.Errorf("generation.model_key must have the form provider|model, got %q", key))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	return errors.Join(errs...)
}
