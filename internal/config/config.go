// ABOUTME: Configuration management for revibe with YAML config loading.
// ABOUTME: Handles server, database, embedding provider, and indexing settings plus env overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values applied when the config file leaves a field empty.
const (
	DefaultServerAddr       = ":8080"
	DefaultProvider         = "fastapi"
	DefaultFastAPIURL       = "http://localhost:8001"
	DefaultGeminiModel      = "text-embedding-004"
	DefaultOpenAIModel      = "text-embedding-3-small"
	DefaultDimension        = 768
	DefaultEmbeddingTimeout = 30 * time.Second
	DefaultIndexMode        = "sync"
	DefaultIndexWorkers     = 2
	DefaultIndexQueueSize   = 64
)

// Config stores revibe configuration loaded from ~/.config/revibe/config.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Indexing  IndexingConfig  `yaml:"indexing"`
	Log       LogConfig       `yaml:"log"`
	MCP       MCPConfig       `yaml:"mcp"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AdminToken     string   `yaml:"admin_token"`
}

// DatabaseConfig holds the sqlite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // fastapi, gemini, or openai
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	Dimension  int    `yaml:"dimension"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
}

// IndexingConfig controls how entry writes trigger embedding computation.
type IndexingConfig struct {
	Mode      string `yaml:"mode"` // sync or async
	Workers   int    `yaml:"workers"`
	QueueSize int    `yaml:"queue_size"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

// MCPConfig holds the identity the MCP server acts as.
type MCPConfig struct {
	UserID     string `yaml:"user_id"`
	AuthorName string `yaml:"author_name"`
}

// HasProvider returns true if enough is configured to attempt embedding calls.
func (c *Config) HasProvider() bool {
	switch c.ProviderName() {
	case "gemini", "openai":
		return c.Embedding.APIKey != ""
	default:
		return true
	}
}

// ProviderName returns the normalized provider name, defaulting to fastapi.
func (c *Config) ProviderName() string {
	p := strings.ToLower(strings.TrimSpace(c.Embedding.Provider))
	if p == "" {
		return DefaultProvider
	}
	return p
}

// EmbeddingTimeout parses the configured timeout, falling back to the default.
func (c *Config) EmbeddingTimeout() time.Duration {
	if c.Embedding.Timeout == "" {
		return DefaultEmbeddingTimeout
	}
	d, err := time.ParseDuration(c.Embedding.Timeout)
	if err != nil || d <= 0 {
		return DefaultEmbeddingTimeout
	}
	return d
}

// EmbeddingDimension returns the expected vector length.
func (c *Config) EmbeddingDimension() int {
	if c.Embedding.Dimension > 0 {
		return c.Embedding.Dimension
	}
	return DefaultDimension
}

// ServerAddr returns the HTTP listen address.
func (c *Config) ServerAddr() string {
	if c.Server.Addr != "" {
		return c.Server.Addr
	}
	return DefaultServerAddr
}

// IndexMode returns "sync" or "async".
func (c *Config) IndexMode() string {
	if strings.EqualFold(c.Indexing.Mode, "async") {
		return "async"
	}
	return DefaultIndexMode
}

// IndexWorkers returns the async worker count.
func (c *Config) IndexWorkers() int {
	if c.Indexing.Workers > 0 {
		return c.Indexing.Workers
	}
	return DefaultIndexWorkers
}

// IndexQueueSize returns the async queue capacity.
func (c *Config) IndexQueueSize() int {
	if c.Indexing.QueueSize > 0 {
		return c.Indexing.QueueSize
	}
	return DefaultIndexQueueSize
}

// GetDatabasePath returns the sqlite file path, defaulting under the XDG data dir.
func (c *Config) GetDatabasePath() (string, error) {
	if c.Database.Path != "" {
		return ExpandPath(c.Database.Path)
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "revibe.db"), nil
}

// DataDir returns the default revibe data directory.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "revibe"), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "revibe", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk and applies .env and environment overrides.
// Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg, err := loadFile()
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func loadFile() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays environment variables onto file settings.
func (c *Config) applyEnv() {
	if v := os.Getenv("REVIBE_EMBEDDING_PROVIDER"); v != "" {
		c.Embedding.Provider = v
	}
	if v := os.Getenv("REVIBE_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("REVIBE_ADMIN_TOKEN"); v != "" {
		c.Server.AdminToken = v
	}
	if v := os.Getenv("REVIBE_USER_ID"); v != "" {
		c.MCP.UserID = v
	}

	switch c.ProviderName() {
	case "fastapi":
		if v := os.Getenv("FASTAPI_URL"); v != "" {
			c.Embedding.BaseURL = v
		}
	case "gemini":
		if c.Embedding.APIKey == "" {
			c.Embedding.APIKey = firstEnv("GOOGLE_API_KEY", "GEMINI_API_KEY")
		}
	case "openai":
		if c.Embedding.APIKey == "" {
			c.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
