// Package provider holds the registry of upstream LLM providers and the
// adapters that implement them.
package provider

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Pavan-folder/Chatbot-contentstack/internal/config"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/domain"
	anthropicprovider "github.com/Pavan-folder/Chatbot-contentstack/internal/provider/anthropic"
	openaiprovider "github.com/Pavan-folder/Chatbot-contentstack/internal/provider/openai"
)

const (
	groqBaseURL       = "https://api.groq.com/openai/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// Registry resolves provider IDs to descriptors and lazily constructed
// adapters. It is safe for concurrent use.
type Registry struct {
	descriptors []domain.ProviderDescriptor
	byID        map[string]*domain.ProviderDescriptor

	mu       sync.Mutex
	adapters map[string]domain.Provider
}

// NewRegistry builds the registry from deployment configuration. In free
// mode the anthropic provider is excluded from the accepted set.
func NewRegistry(cfg *config.Config) *Registry {
	descriptors := []domain.ProviderDescriptor{
		{
			ID:            "openai",
			DisplayName:   "OpenAI",
			Models:        []string{"gpt-4", "gpt-4-turbo", "gpt-3.5-turbo"},
			DefaultModel:  "gpt-3.5-turbo",
			Streaming:     true,
			CredentialEnv: "OPENAI_API_KEY",
		},
		{
			ID:            "groq",
			DisplayName:   "Groq",
			Models:        []string{"llama2-70b-4096", "mixtral-8x7b-32768", "gemma-7b-it"},
			DefaultModel:  "llama2-70b-4096",
			Streaming:     true,
			CredentialEnv: "GROQ_API_KEY",
		},
		{
			ID:            "anthropic",
			DisplayName:   "Anthropic",
			Models:        []string{"claude-3-opus-20240229", "claude-3-sonnet-20240229", "claude-3-haiku-20240307"},
			DefaultModel:  "claude-3-haiku-20240307",
			Streaming:     true,
			CredentialEnv: "ANTHROPIC_API_KEY",
			Disabled:      cfg.Chat.FreeMode,
		},
		{
			ID:            "openrouter",
			DisplayName:   "OpenRouter",
			Models:        []string{"auto", "openai/gpt-4", "anthropic/claude-3-opus"},
			DefaultModel:  "auto",
			Streaming:     true,
			CredentialEnv: "OPENROUTER_API_KEY",
		},
	}

	byID := make(map[string]*domain.ProviderDescriptor, len(descriptors))
	for i := range descriptors {
		byID[descriptors[i].ID] = &descriptors[i]
	}

	return &Registry{
		descriptors: descriptors,
		byID:        byID,
		adapters:    make(map[string]domain.Provider),
	}
}

// Descriptors returns all registered descriptors, including disabled ones.
// Callers filter on Disabled for listing.
func (r *Registry) Descriptors() []domain.ProviderDescriptor {
	return r.descriptors
}

// Descriptor looks up a provider by ID.
func (r *Registry) Descriptor(id string) (*domain.ProviderDescriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Configured reports whether the named provider has a usable credential.
// Unknown IDs are never configured.
func (r *Registry) Configured(id string) bool {
	d, ok := r.byID[id]
	if !ok || d.Disabled {
		return false
	}
	_, ok = config.Credential(d.CredentialEnv)
	return ok
}

// IDs returns the accepted provider IDs in registration order, excluding
// disabled providers.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		if d.Disabled {
			continue
		}
		ids = append(ids, d.ID)
	}
	return ids
}

// Adapter returns the provider adapter for id, constructing it on first use.
// It returns ErrProviderNotConfigured when no usable credential exists and
// ErrUnsupportedProvider for unknown or disabled IDs.
func (r *Registry) Adapter(id string) (domain.Provider, error) {
	d, ok := r.byID[id]
	if !ok || d.Disabled {
		return nil, domain.ErrUnsupportedProvider("Invalid provider").
			WithDetails("Supported providers: " + strings.Join(r.IDs(), ", "))
	}

	key, ok := config.Credential(d.CredentialEnv)
	if !ok {
		return nil, domain.ErrProviderNotConfigured(fmt.Sprintf("Provider %s is not configured", id)).
			WithDetails(fmt.Sprintf("Set %s to a real API key to enable this provider", d.CredentialEnv))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.adapters[id]; ok {
		return a, nil
	}

	var a domain.Provider
	switch id {
	case "openai":
		a = openaiprovider.New(id, key)
	case "groq":
		a = openaiprovider.New(id, key, openaiprovider.WithBaseURL(groqBaseURL))
	case "openrouter":
		a = openaiprovider.New(id, key, openaiprovider.WithBaseURL(openRouterBaseURL))
	case "anthropic":
		a = anthropicprovider.New(key)
	}

	r.adapters[id] = a
	return a, nil
}

// SetAdapter replaces the cached adapter for id. Used to wire adapters with
// custom transports or base URLs.
func (r *Registry) SetAdapter(id string, a domain.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[id] = a
}
