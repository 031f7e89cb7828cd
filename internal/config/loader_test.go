package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks variables a developer machine may export.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "GENERATION_MODEL_KEY", "GENERATION_MAX_TOKENS", "GENERATION_TEMPERATURE", "GENERATION_TIMEOUT", "DATABASE_PATH", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
}

func TestLoadBytes_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadBytes(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxTokens, cfg.Generation.MaxTokens)
	assert.InDelta(t, 0.3, cfg.Generation.TemperatureValue(), 1e-6)
	assert.Equal(t, DefaultTimeout, cfg.Generation.Timeout)
	assert.NotEmpty(t, cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadBytes_YAML(t *testing.T) {
	clearEnv(t)
	content := []byte(`
anthropic:
  api_key: sk-ant-file
generation:
  model_key: anthropic|claude-sonnet-4-20250514
  max_tokens: 2000
  temperature: 0
  timeout: 45s
database:
  path: /tmp/apiforge-test.db
log:
  level: debug
  format: json
`)
	cfg, err := LoadBytes(content)
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-file", cfg.APIKey("anthropic"))
	assert.Equal(t, "anthropic|claude-sonnet-4-20250514", cfg.Generation.ModelKey)
	assert.Equal(t, 2000, cfg.Generation.MaxTokens)
	assert.Equal(t, float32(0), cfg.Generation.TemperatureValue())
	assert.Equal(t, 45*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, "/tmp/apiforge-test.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadBytes_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")
	t.Setenv("OPENAI_API_KEY", "sk-openai-env")
	t.Setenv("GENERATION_TIMEOUT", "10s")
	t.Setenv("GENERATION_MAX_TOKENS", "1234")

	cfg, err := LoadBytes([]byte("anthropic:\n  api_key: sk-ant-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-env", cfg.APIKey("anthropic"))
	assert.Equal(t, "sk-openai-env", cfg.APIKey("openai"))
	assert.Equal(t, 10*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 1234, cfg.Generation.MaxTokens)
}

func TestLoadBytes_Invalid(t *testing.T) {
	tests := map[string]string{
		"negative tokens":   "generation:\n  max_tokens: -1\n",
		"temperature range": "generation:\n  temperature: 3\n",
		"model key form":    "generation:\n  model_key: claude\n",
		"log format":        "log:\n  format: xml\n",
		"not yaml":          "generation: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadBytes([]byte(content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTokens, cfg.Generation.MaxTokens)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gemini:\n  api_key: g-key\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "g-key", cfg.APIKey("gemini"))
	assert.Empty(t, cfg.APIKey("unknown"))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "anthropic.api_key", envKey("ANTHROPIC_API_KEY"))
	assert.Equal(t, "generation.max_tokens", envKey("GENERATION_MAX_TOKENS"))
	assert.Equal(t, "", envKey("PATH"))
	assert.Equal(t, "", envKey("HOME_DIR"))

	key, _ := envValue("LOG_LEVEL", "  ")
	assert.Empty(t, key)
}
