package domain

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AugmentationConfig narrows the content search performed before the
// provider call.
type AugmentationConfig struct {
	ContentTypes []string `json:"contentTypes,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

// ChatRequest is the wire-level body accepted by POST /chat.
type ChatRequest struct {
	// Messages is decoded as raw JSON first so the handler can distinguish
	// "missing" and "not an array" from an empty conversation.
	Messages []Message `json:"messages"`
	Provider string    `json:"provider,omitempty"`
	Model    string    `json:"model,omitempty"`
	Stream   *bool     `json:"stream,omitempty"`
	// Augmentation is the optional per-request content-search configuration,
	// passed through opaquely to the content service.
	Augmentation *AugmentationConfig `json:"augmentationConfig,omitempty"`
}

// ProviderDescriptor describes one registered upstream provider. Descriptors
// are created at startup and read-only for the process lifetime.
type ProviderDescriptor struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"name"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"defaultModel"`
	Streaming    bool     `json:"streaming"`
	// CredentialEnv names the environment variable carrying the API key.
	CredentialEnv string `json:"-"`
	// Disabled marks providers excluded from this deployment mode
	// (e.g. paid providers in a free deployment).
	Disabled bool `json:"-"`
}

// Usage carries token counts reported by a provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// StreamChunk is the normalized unit of streamed output. All
// provider-specific envelope fields are discarded after extraction.
type StreamChunk struct {
	ContentDelta string
	Usage        *Usage
	Err          error
}

// ChatOutcome summarizes one completed (or failed) chat request for the
// analytics recorder. It is created once at completion or failure and not
// retained by the orchestrator.
type ChatOutcome struct {
	Provider       string
	Model          string
	Query          string
	ResponseTimeMs int64
	TokensApprox   int
	Success        bool
	// ErrContext names the stage that failed, e.g. "chat processing".
	ErrContext string
}

// Provider defines the interface for LLM provider adapters.
type Provider interface {
	Name() string

	// Complete handles the non-streaming path and returns the assistant
	// reply as plain text.
	Complete(ctx context.Context, messages []Message, model string) (string, error)

	// Stream returns a channel of normalized chunks. The channel MUST be
	// closed by the provider when done.
	Stream(ctx context.Context, messages []Message, model string) (<-chan StreamChunk, error)
}
