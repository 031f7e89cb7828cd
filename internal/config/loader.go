package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"apiforge/internal/database"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	DefaultMaxTokens   = 4000
	DefaultTemperature = 0.3
	DefaultTimeout     = 120 * time.Second
)

// sections maps the first segment of an environment variable to its config
// section. Variables outside these sections are ignored.
var sections = map[string]bool{
	"anthropic":  true,
	"openai":     true,
	"gemini":     true,
	"generation": true,
	"database":   true,
	"keyring":    true,
	"log":        true,
}

// DefaultPath is ~/.config/apiforge/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "apiforge", "config.yaml"), nil
}

// Load reads configuration from path, then overrides it with environment
// variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (ANTHROPIC_API_KEY, GENERATION_TIMEOUT, etc.)
//  2. YAML config file
//  3. Defaults
//
// An empty path uses DefaultPath. A missing file is not an error.
//
// Environment variables map to fields by splitting on the first underscore:
//
//	ANTHROPIC_API_KEY   -> anthropic.api_key
//	GENERATION_MAX_TOKENS -> generation.max_tokens
//	LOG_LEVEL           -> log.level
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	var content []byte
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
		}
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	cfg, err := LoadBytes(content)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// LoadBytes parses YAML content, which may be empty, and applies the
// environment on top.
func LoadBytes(content []byte) (*Config, error) {
	k := koanf.New(".")

	if len(content) > 0 {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envValue skips empty variables so an unset-but-exported key does not blank
// a value from the file.
func envValue(key, value string) (string, interface{}) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return envKey(key), value
}

// envKey maps SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(s)
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) != 2 || !sections[parts[0]] {
		return ""
	}
	return parts[0] + "." + parts[1]
}

func applyDefaults(cfg *Config) {
	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = DefaultMaxTokens
	}
	if cfg.Generation.Temperature == nil {
		t := DefaultTemperature
		cfg.Generation.Temperature = &t
	}
	if cfg.Generation.Timeout == 0 {
		cfg.Generation.Timeout = DefaultTimeout
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = database.GetDefaultDBPath()
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}
