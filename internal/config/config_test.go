// ABOUTME: Tests for revibe configuration loading and path expansion.
// ABOUTME: Covers YAML parsing, defaults, env overrides, and provider detection.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points XDG dirs at a temp dir and clears provider env vars.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	for _, k := range []string{"FASTAPI_URL", "GOOGLE_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"REVIBE_DB_PATH", "REVIBE_EMBEDDING_PROVIDER", "REVIBE_ADMIN_TOKEN"} {
		t.Setenv(k, "")
	}
	return tmpDir
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	configDir := filepath.Join(dir, "revibe")
	require.NoError(t, os.MkdirAll(configDir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(body), 0600))
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde slash", "~/foo/bar", filepath.Join(home, "foo", "bar")},
		{"absolute", "/tmp/foo", "/tmp/foo"},
		{"relative", "foo/bar", "foo/bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	tmpDir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fastapi", cfg.ProviderName())
	assert.True(t, cfg.HasProvider())
	assert.Equal(t, DefaultEmbeddingTimeout, cfg.EmbeddingTimeout())
	assert.Equal(t, 768, cfg.EmbeddingDimension())
	assert.Equal(t, ":8080", cfg.ServerAddr())
	assert.Equal(t, "sync", cfg.IndexMode())

	dbPath, err := cfg.GetDatabasePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "data", "revibe", "revibe.db"), dbPath)
}

func TestLoadYAMLConfig(t *testing.T) {
	tmpDir := isolate(t)
	writeConfig(t, tmpDir, `server:
  addr: ":9000"
  admin_token: "secret"
database:
  path: "~/revibe-test.db"
embedding:
  provider: gemini
  api_key: "g-key"
  dimension: 256
  timeout: 5s
  max_retries: 2
indexing:
  mode: async
  workers: 4
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ServerAddr())
	assert.Equal(t, "secret", cfg.Server.AdminToken)
	assert.Equal(t, "gemini", cfg.ProviderName())
	assert.True(t, cfg.HasProvider())
	assert.Equal(t, 256, cfg.EmbeddingDimension())
	assert.Equal(t, 5*time.Second, cfg.EmbeddingTimeout())
	assert.Equal(t, 2, cfg.Embedding.MaxRetries)
	assert.Equal(t, "async", cfg.IndexMode())
	assert.Equal(t, 4, cfg.IndexWorkers())
	assert.Equal(t, DefaultIndexQueueSize, cfg.IndexQueueSize())

	home, _ := os.UserHomeDir()
	dbPath, err := cfg.GetDatabasePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "revibe-test.db"), dbPath)
}

func TestEnvOverrides(t *testing.T) {
	tmpDir := isolate(t)
	writeConfig(t, tmpDir, "embedding:\n  provider: fastapi\n  base_url: http://file:8001\n")
	t.Setenv("FASTAPI_URL", "http://env:8001")
	t.Setenv("REVIBE_DB_PATH", "/tmp/env.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env:8001", cfg.Embedding.BaseURL)
	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
}

func TestGeminiKeyFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("REVIBE_EMBEDDING_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.ProviderName())
	assert.Equal(t, "from-env", cfg.Embedding.APIKey)
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		Embedding: EmbeddingConfig{Provider: "openai", APIKey: "sk-saved", Model: "text-embedding-3-large"},
		MCP:       MCPConfig{UserID: "user-1"},
	}
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", loaded.ProviderName())
	assert.Equal(t, "sk-saved", loaded.Embedding.APIKey)
	assert.Equal(t, "user-1", loaded.MCP.UserID)
}

func TestHasProviderWithoutKey(t *testing.T) {
	cfg := &Config{Embedding: EmbeddingConfig{Provider: "openai"}}
	assert.False(t, cfg.HasProvider(), "openai without a key cannot embed")
}

func TestInvalidTimeoutFallsBack(t *testing.T) {
	cfg := &Config{Embedding: EmbeddingConfig{Timeout: "soon"}}
	assert.Equal(t, DefaultEmbeddingTimeout, cfg.EmbeddingTimeout())
}
