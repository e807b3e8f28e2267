// Package openai adapts OpenAI-compatible chat completion APIs to the
// domain.Provider interface. The groq and openrouter bindings are this same
// adapter pointed at their base URLs.
package openai

import (
	"context"
	"fmt"
	"net/http"

	openaiapi "github.com/Pavan-folder/Chatbot-contentstack/internal/api/openai"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/domain"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1000
)

// ProviderOption configures the provider.
type ProviderOption func(*Provider)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = httpClient
	}
}

// Provider implements domain.Provider over an OpenAI-compatible client.
type Provider struct {
	name       string
	client     *openaiapi.Client
	baseURL    string
	httpClient *http.Client
}

// New creates an adapter named id (openai, groq, openrouter) around the
// given credential. Construction always succeeds; a bad credential fails at
// invocation time.
func New(id, apiKey string, opts ...ProviderOption) *Provider {
	p := &Provider{name: id}

	for _, opt := range opts {
		opt(p)
	}

	var clientOpts []openaiapi.ClientOption
	if p.baseURL != "" {
		clientOpts = append(clientOpts, openaiapi.WithBaseURL(p.baseURL))
	}
	if p.httpClient != nil {
		clientOpts = append(clientOpts, openaiapi.WithHTTPClient(p.httpClient))
	}

	p.client = openaiapi.NewClient(apiKey, clientOpts...)
	return p
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) Complete(ctx context.Context, messages []domain.Message, model string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, toAPIRequest(messages, model))
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices in %s response", p.name)
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) Stream(ctx context.Context, messages []domain.Message, model string) (<-chan domain.StreamChunk, error) {
	stream, err := p.client.StreamChatCompletion(ctx, toAPIRequest(messages, model))
	if err != nil {
		return nil, err
	}

	out := make(chan domain.StreamChunk)
	go func() {
		defer close(out)
		for result := range stream {
			if result.Err != nil {
				send(ctx, out, domain.StreamChunk{Err: result.Err})
				return
			}
			for _, chunk := range Normalize(result.Chunk) {
				if !send(ctx, out, chunk) {
					return
				}
			}
		}
	}()

	return out, nil
}

// send delivers a chunk unless the request context is already cancelled, so
// an abandoned consumer never wedges the producer.
func send(ctx context.Context, out chan<- domain.StreamChunk, chunk domain.StreamChunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

// Normalize maps one upstream chunk envelope to zero or more normalized
// chunks. A missing or null choices[0].delta.content yields nothing; the
// final usage-bearing chunk yields a usage-only entry.
func Normalize(chunk *openaiapi.ChatCompletionChunk) []domain.StreamChunk {
	var chunks []domain.StreamChunk

	if len(chunk.Choices) > 0 {
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			chunks = append(chunks, domain.StreamChunk{ContentDelta: delta})
		}
	}

	if chunk.Usage != nil {
		chunks = append(chunks, domain.StreamChunk{
			Usage: &domain.Usage{
				PromptTokens:     chunk.Usage.PromptTokens,
				CompletionTokens: chunk.Usage.CompletionTokens,
				TotalTokens:      chunk.Usage.TotalTokens,
			},
		})
	}

	return chunks
}

func toAPIRequest(messages []domain.Message, model string) *openaiapi.ChatCompletionRequest {
	apiMessages := make([]openaiapi.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		apiMessages[i] = openaiapi.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}

	temp := float32(defaultTemperature)
	return &openaiapi.ChatCompletionRequest{
		Model:       model,
		Messages:    apiMessages,
		Temperature: &temp,
		MaxTokens:   defaultMaxTokens,
	}
}
