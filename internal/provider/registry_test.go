package provider

import (
	"strings"
	"testing"

	"github.com/Pavan-folder/Chatbot-contentstack/internal/config"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/domain"
)

func testConfig(freeMode bool) *config.Config {
	cfg := &config.Config{}
	cfg.Chat.DefaultProvider = "openai"
	cfg.Chat.FreeMode = freeMode
	return cfg
}

func pinPlaceholders(t *testing.T) {
	t.Helper()
	for _, env := range []string{"OPENAI_API_KEY", "GROQ_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(env, "dummy")
	}
}

func TestRegistryDescriptors(t *testing.T) {
	pinPlaceholders(t)
	r := NewRegistry(testConfig(false))

	ids := r.IDs()
	want := []string{"openai", "groq", "anthropic", "openrouter"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}

	d, ok := r.Descriptor("openai")
	if !ok {
		t.Fatal("openai descriptor missing")
	}
	if d.DefaultModel != "gpt-3.5-turbo" {
		t.Errorf("DefaultModel = %q", d.DefaultModel)
	}
	if d.CredentialEnv != "OPENAI_API_KEY" {
		t.Errorf("CredentialEnv = %q", d.CredentialEnv)
	}
}

func TestRegistryFreeModeDisablesAnthropic(t *testing.T) {
	pinPlaceholders(t)
	r := NewRegistry(testConfig(true))

	for _, id := range r.IDs() {
		if id == "anthropic" {
			t.Error("anthropic listed in free mode")
		}
	}

	d, ok := r.Descriptor("anthropic")
	if !ok || !d.Disabled {
		t.Error("anthropic descriptor should exist but be disabled")
	}
	if r.Configured("anthropic") {
		t.Error("disabled provider reported configured")
	}
}

func TestRegistryConfigured(t *testing.T) {
	pinPlaceholders(t)
	r := NewRegistry(testConfig(false))

	if r.Configured("openai") {
		t.Error("placeholder credential reported configured")
	}

	t.Setenv("OPENAI_API_KEY", "sk-real")
	if !r.Configured("openai") {
		t.Error("real credential not reported configured")
	}

	if r.Configured("nope") {
		t.Error("unknown id reported configured")
	}
}

func TestRegistryAdapterErrors(t *testing.T) {
	pinPlaceholders(t)
	r := NewRegistry(testConfig(false))

	_, err := r.Adapter("nope")
	apiErr, ok := err.(*domain.APIError)
	if !ok {
		t.Fatalf("err = %T, want *domain.APIError", err)
	}
	if apiErr.Type != domain.ErrorTypeUnsupportedProvider {
		t.Errorf("type = %q", apiErr.Type)
	}
	if !strings.Contains(apiErr.Details, "openai") {
		t.Errorf("details = %q, should list valid ids", apiErr.Details)
	}

	_, err = r.Adapter("openai")
	apiErr, ok = err.(*domain.APIError)
	if !ok {
		t.Fatalf("err = %T, want *domain.APIError", err)
	}
	if apiErr.Type != domain.ErrorTypeProviderNotConfigured {
		t.Errorf("type = %q", apiErr.Type)
	}
	if !strings.Contains(apiErr.Details, "OPENAI_API_KEY") {
		t.Errorf("details = %q, should name the credential", apiErr.Details)
	}
}

func TestRegistryAdapterCached(t *testing.T) {
	pinPlaceholders(t)
	t.Setenv("GROQ_API_KEY", "gsk-real")
	r := NewRegistry(testConfig(false))

	a1, err := r.Adapter("groq")
	if err != nil {
		t.Fatalf("Adapter: %v", err)
	}
	a2, err := r.Adapter("groq")
	if err != nil {
		t.Fatalf("Adapter: %v", err)
	}
	if a1 != a2 {
		t.Error("adapter not reused across calls")
	}
	if a1.Name() != "groq" {
		t.Errorf("Name = %q", a1.Name())
	}
}
