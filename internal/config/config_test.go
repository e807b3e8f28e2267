package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Server.Port != 3006 {
		t.Errorf("Port = %d, want 3006", cfg.Server.Port)
	}
	if cfg.Chat.DefaultProvider != "openai" {
		t.Errorf("DefaultProvider = %q", cfg.Chat.DefaultProvider)
	}
	if cfg.Chat.MockPacingMS != 100 {
		t.Errorf("MockPacingMS = %d", cfg.Chat.MockPacingMS)
	}
	if cfg.Analytics.QueueSize != 256 {
		t.Errorf("QueueSize = %d", cfg.Analytics.QueueSize)
	}
	if cfg.Contentstack.Environment != "production" {
		t.Errorf("Environment = %q", cfg.Contentstack.Environment)
	}
	if cfg.Contentstack.Limit != 3 {
		t.Errorf("Limit = %d", cfg.Contentstack.Limit)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8080
chat:
  default_provider: groq
  free_mode: true
analytics:
  path: /tmp/test-analytics.db
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Chat.DefaultProvider != "groq" {
		t.Errorf("DefaultProvider = %q", cfg.Chat.DefaultProvider)
	}
	if !cfg.Chat.FreeMode {
		t.Error("FreeMode not set")
	}
	if cfg.Analytics.Path != "/tmp/test-analytics.db" {
		t.Errorf("Path = %q", cfg.Analytics.Path)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("CHAT_SERVER__PORT", "9090")
	t.Setenv("CHAT_CHAT__DEFAULT_PROVIDER", "openrouter")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, env should win over file", cfg.Server.Port)
	}
	if cfg.Chat.DefaultProvider != "openrouter" {
		t.Errorf("DefaultProvider = %q", cfg.Chat.DefaultProvider)
	}
}

func TestContentstackEnvFallback(t *testing.T) {
	t.Setenv("CONTENTSTACK_API_KEY", "blt123")
	t.Setenv("CONTENTSTACK_DELIVERY_TOKEN", "cs456")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Contentstack.APIKey != "blt123" {
		t.Errorf("APIKey = %q", cfg.Contentstack.APIKey)
	}
	if cfg.Contentstack.DeliveryToken != "cs456" {
		t.Errorf("DeliveryToken = %q", cfg.Contentstack.DeliveryToken)
	}
}

func TestCredential(t *testing.T) {
	t.Setenv("TEST_PROVIDER_KEY", "")
	if _, ok := Credential("TEST_PROVIDER_KEY"); ok {
		t.Error("empty value should not be a credential")
	}

	t.Setenv("TEST_PROVIDER_KEY", "dummy")
	if _, ok := Credential("TEST_PROVIDER_KEY"); ok {
		t.Error("placeholder value should not be a credential")
	}

	t.Setenv("TEST_PROVIDER_KEY", "sk-live")
	v, ok := Credential("TEST_PROVIDER_KEY")
	if !ok || v != "sk-live" {
		t.Errorf("Credential = %q, %v", v, ok)
	}
}

func TestRealCredential(t *testing.T) {
	if RealCredential("") || RealCredential("dummy") {
		t.Error("empty and placeholder values should not be usable credentials")
	}
	if !RealCredential("blt-key") {
		t.Error("real value rejected")
	}
}
