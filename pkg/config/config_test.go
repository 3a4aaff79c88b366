package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "config.yaml")
	configContent := []byte(`databasePath: /tmp/test.db
remote:
  baseUrl: https://api.example.com
  apiKey: test-api-key
probeIntervalSeconds: 10
`)
	if err := os.WriteFile(configPath, configContent, 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DatabasePath != "/tmp/test.db" {
		t.Errorf("Expected database path '/tmp/test.db', got '%s'", cfg.DatabasePath)
	}
	if cfg.Remote.BaseURL != "https://api.example.com" {
		t.Errorf("Expected base URL 'https://api.example.com', got '%s'", cfg.Remote.BaseURL)
	}
	if cfg.Remote.APIKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", cfg.Remote.APIKey)
	}
	if cfg.ProbeInterval() != 10*time.Second {
		t.Errorf("Expected probe interval 10s, got %s", cfg.ProbeInterval())
	}
}

func TestLoadError(t *testing.T) {
	if _, err := Load("non-existent-file.yaml"); err == nil {
		t.Errorf("Expected error when loading non-existent file, got nil")
	}

	tempDir := t.TempDir()
	invalidPath := filepath.Join(tempDir, "invalid.yaml")
	if err := os.WriteFile(invalidPath, []byte("remote: [not a map"), 0644); err != nil {
		t.Fatalf("Failed to write invalid config file: %v", err)
	}

	if _, err := Load(invalidPath); err == nil {
		t.Errorf("Expected error when loading invalid YAML, got nil")
	}
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	cfg, err := LoadOrCreate(configPath)
	if err != nil {
		t.Fatalf("Failed to create default config: %v", err)
	}
	if cfg.ProbeInterval() != 30*time.Second {
		t.Errorf("Expected default probe interval 30s, got %s", cfg.ProbeInterval())
	}

	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("Expected config file to be created: %v", err)
	}

	// A second load reads the file that was just written
	if _, err := LoadOrCreate(configPath); err != nil {
		t.Fatalf("Failed to reload created config: %v", err)
	}
}

func TestRemoteBaseURLRequired(t *testing.T) {
	cfg := Default()
	if _, err := cfg.RemoteBaseURL(); err == nil {
		t.Errorf("Expected error for unset base URL, got nil")
	}

	cfg.Remote.BaseURL = "https://api.example.com"
	url, err := cfg.RemoteBaseURL()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if url != "https://api.example.com" {
		t.Errorf("Expected 'https://api.example.com', got '%s'", url)
	}
}
