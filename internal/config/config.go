// ABOUTME: Centralized configuration for the deptchat application
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Config holds all configuration for the chat system
type Config struct {
	// Storage settings
	DBPath       string
	DocumentPath string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Retrieval settings
	ChunkSize       int
	ChunkOverlap    int
	TopK            int
	VectorDimension int

	// Auth settings
	SessionTTL time.Duration
}

// DefaultDataDir returns the default data directory following the XDG spec.
// XDG_DATA_HOME is respected as an override for testing.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "deptchat")
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		DBPath:          getEnv("DEPTCHAT_DB", filepath.Join(DefaultDataDir(), "deptchat.db")),
		DocumentPath:    getEnv("DEPTCHAT_DOCUMENT", "department.txt"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ChatModel:       getEnv("DEPTCHAT_OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel:  getEnv("DEPTCHAT_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:         getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:      getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		ChunkSize:       getEnvInt("DEPTCHAT_CHUNK_SIZE", 500),
		ChunkOverlap:    getEnvInt("DEPTCHAT_CHUNK_OVERLAP", 50),
		TopK:            getEnvInt("DEPTCHAT_TOP_K", 4),
		VectorDimension: getEnvInt("VECTOR_DIMENSION", 1536),
		SessionTTL:      getEnvDuration("DEPTCHAT_SESSION_TTL", 24*time.Hour),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("DEPTCHAT_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("DEPTCHAT_CHUNK_OVERLAP must be in [0, chunk size), got %d", c.ChunkOverlap)
	}
	if c.TopK < 1 {
		return fmt.Errorf("DEPTCHAT_TOP_K must be at least 1, got %d", c.TopK)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("DEPTCHAT_SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
