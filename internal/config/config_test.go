package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	apierrors "github.com/diogo/healthchat/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultModel != "gemini-2.5-flash" {
		t.Errorf("Expected default model to be 'gemini-2.5-flash', got '%s'", cfg.DefaultModel)
	}
	if cfg.APIKeyEnv != "API_KEY" {
		t.Errorf("Expected APIKeyEnv to be API_KEY, got %s", cfg.APIKeyEnv)
	}
	if cfg.TimeoutSeconds != 300 {
		t.Errorf("Expected TimeoutSeconds to be 300, got %d", cfg.TimeoutSeconds)
	}
	if cfg.Markdown.Style != "" {
		t.Errorf("Expected markdown style to follow the chat theme, got %q", cfg.Markdown.Style)
	}
}

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("GetConfigDir() returned relative path: %s", dir)
	}
	if filepath.Base(dir) != ".healthchat" {
		t.Errorf("GetConfigDir() = %s, want a .healthchat directory", dir)
	}
}

func TestGetLogPath(t *testing.T) {
	cfg := DefaultConfig()
	path, err := GetLogPath(cfg)
	if err != nil {
		t.Fatalf("GetLogPath() returned error: %v", err)
	}
	if filepath.Base(path) != "healthchat.log" {
		t.Errorf("GetLogPath() = %s", path)
	}

	cfg.LogFile = "/tmp/custom.log"
	path, _ = GetLogPath(cfg)
	if path != "/tmp/custom.log" {
		t.Errorf("GetLogPath() with override = %s", path)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	_ = os.Setenv("HOME", tmpDir)
	defer func() { _ = os.Setenv("HOME", oldHome) }()

	cfg := DefaultConfig()
	cfg.DefaultModel = "gemini-2.5-pro"
	cfg.LogLevel = "debug"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	configPath := filepath.Join(tmpDir, ".healthchat", "config.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var saved Config
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("Failed to parse saved config: %v", err)
	}
	if saved.DefaultModel != cfg.DefaultModel {
		t.Errorf("DefaultModel = %s, want %s", saved.DefaultModel, cfg.DefaultModel)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("File permissions = %o, want 600", perm)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", loaded.LogLevel)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	_ = os.Setenv("HOME", tmpDir)
	defer func() { _ = os.Setenv("HOME", oldHome) }()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.DefaultModel != DefaultConfig().DefaultModel {
		t.Errorf("Expected defaults when config is missing, got %s", cfg.DefaultModel)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	_ = os.Setenv("HOME", tmpDir)
	defer func() { _ = os.Setenv("HOME", oldHome) }()

	configDir := filepath.Join(tmpDir, ".healthchat")
	_ = os.MkdirAll(configDir, 0o755)
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("LoadConfig() should return error for invalid JSON")
	}
	if cfg.DefaultModel != DefaultConfig().DefaultModel {
		t.Error("LoadConfig() should return defaults on parse error")
	}
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(Config) bool
	}{
		{"default_model", "gemini-2.5-pro", false, func(c Config) bool { return c.DefaultModel == "gemini-2.5-pro" }},
		{"base_url", "http://localhost:8080/", false, func(c Config) bool { return c.BaseURL == "http://localhost:8080" }},
		{"timeout_seconds", "60", false, func(c Config) bool { return c.TimeoutSeconds == 60 }},
		{"timeout_seconds", "-1", true, nil},
		{"timeout_seconds", "abc", true, nil},
		{"api_key_env", "", true, nil},
		{"log_level", "debug", false, func(c Config) bool { return c.LogLevel == "debug" }},
		{"log_level", "loud", true, nil},
		{"copy_to_clipboard", "true", false, func(c Config) bool { return c.CopyToClipboard }},
		{"copy_to_clipboard", "maybe", true, nil},
		{"markdown.style", "light", false, func(c Config) bool { return c.Markdown.Style == "light" }},
		{"unknown", "x", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := SetValue(&cfg, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("SetValue(%s, %s) did not apply", tt.key, tt.value)
			}
		})
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("configured variable wins", func(t *testing.T) {
		t.Setenv("HC_TEST_KEY", " secret ")
		t.Setenv(FallbackAPIKeyEnv, "fallback")
		cfg := DefaultConfig()
		cfg.APIKeyEnv = "HC_TEST_KEY"

		key, err := ResolveAPIKey(cfg)
		if err != nil {
			t.Fatalf("ResolveAPIKey() error = %v", err)
		}
		if key != "secret" {
			t.Errorf("ResolveAPIKey() = %q, want secret", key)
		}
	})

	t.Run("fallback variable", func(t *testing.T) {
		t.Setenv("HC_TEST_KEY", "")
		t.Setenv(FallbackAPIKeyEnv, "fallback")
		cfg := DefaultConfig()
		cfg.APIKeyEnv = "HC_TEST_KEY"

		key, err := ResolveAPIKey(cfg)
		if err != nil || key != "fallback" {
			t.Errorf("ResolveAPIKey() = %q, %v", key, err)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		t.Setenv("HC_TEST_KEY", "")
		t.Setenv(FallbackAPIKeyEnv, "")
		cfg := DefaultConfig()
		cfg.APIKeyEnv = "HC_TEST_KEY"

		_, err := ResolveAPIKey(cfg)
		if !errors.Is(err, apierrors.ErrNoAPIKey) {
			t.Errorf("ResolveAPIKey() error = %v, want ErrNoAPIKey", err)
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		if err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")); err != nil {
			t.Errorf("LoadEnvFile() error = %v", err)
		}
	})

	t.Run("loads variables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("HC_ENV_FILE_KEY=from-file\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("HC_ENV_FILE_KEY", "")
		_ = os.Unsetenv("HC_ENV_FILE_KEY")

		if err := LoadEnvFile(path); err != nil {
			t.Fatalf("LoadEnvFile() error = %v", err)
		}
		if got := os.Getenv("HC_ENV_FILE_KEY"); got != "from-file" {
			t.Errorf("HC_ENV_FILE_KEY = %q, want from-file", got)
		}
	})
}
