// ABOUTME: Tests for environment-based configuration loading
// ABOUTME: Covers defaults, overrides, and validation bounds

package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %s, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %s", cfg.EmbeddingModel)
	}
	if cfg.ChunkSize != 500 || cfg.ChunkOverlap != 50 {
		t.Errorf("Chunking = %d/%d, want 500/50", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.TopK != 4 {
		t.Errorf("TopK = %d, want 4", cfg.TopK)
	}
	if cfg.VectorDimension != 1536 {
		t.Errorf("VectorDimension = %d, want 1536", cfg.VectorDimension)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %s, want 24h", cfg.SessionTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DEPTCHAT_DB", "/tmp/test.db")
	t.Setenv("DEPTCHAT_OPENAI_MODEL", "gpt-4o")
	t.Setenv("DEPTCHAT_CHUNK_SIZE", "200")
	t.Setenv("DEPTCHAT_CHUNK_OVERLAP", "25")
	t.Setenv("DEPTCHAT_TOP_K", "8")
	t.Setenv("DEPTCHAT_SESSION_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %s", cfg.DBPath)
	}
	if cfg.ChatModel != "gpt-4o" {
		t.Errorf("ChatModel = %s", cfg.ChatModel)
	}
	if cfg.ChunkSize != 200 || cfg.ChunkOverlap != 25 {
		t.Errorf("Chunking = %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.TopK != 8 {
		t.Errorf("TopK = %d", cfg.TopK)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %s", cfg.SessionTTL)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ChunkSize:    500,
			ChunkOverlap: 50,
			TopK:         4,
			MaxRetries:   3,
			SessionTTL:   time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, "CHUNK_SIZE"},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }, "CHUNK_OVERLAP"},
		{"overlap equals size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }, "CHUNK_OVERLAP"},
		{"zero top k", func(c *Config) { c.TopK = 0 }, "TOP_K"},
		{"excessive retries", func(c *Config) { c.MaxRetries = 11 }, "MAX_RETRIES"},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, "SESSION_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultDataDir_RespectsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-test")

	dir := DefaultDataDir()
	if dir != "/tmp/xdg-test/deptchat" {
		t.Errorf("DefaultDataDir() = %s", dir)
	}
}
