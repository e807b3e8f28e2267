// Package anthropic adapts the Anthropic Messages API to the
// domain.Provider interface.
package anthropic

import (
	"context"
	"fmt"
	"net/http"

	anthropicapi "github.com/Pavan-folder/Chatbot-contentstack/internal/api/anthropic"
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

// Provider implements domain.Provider over the Anthropic client.
type Provider struct {
	client     *anthropicapi.Client
	baseURL    string
	httpClient *http.Client
}

// New creates an Anthropic adapter. Construction always succeeds; a bad
// credential fails at invocation time.
func New(apiKey string, opts ...ProviderOption) *Provider {
	p := &Provider{}

	for _, opt := range opts {
		opt(p)
	}

	var clientOpts []anthropicapi.ClientOption
	if p.baseURL != "" {
		clientOpts = append(clientOpts, anthropicapi.WithBaseURL(p.baseURL))
	}
	if p.httpClient != nil {
		clientOpts = append(clientOpts, anthropicapi.WithHTTPClient(p.httpClient))
	}

	p.client = anthropicapi.NewClient(apiKey, clientOpts...)
	return p
}

func (p *Provider) Name() string {
	return "anthropic"
}

func (p *Provider) Complete(ctx context.Context, messages []domain.Message, model string) (string, error) {
	resp, err := p.client.CreateMessage(ctx, toAPIRequest(messages, model))
	if err != nil {
		return "", err
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if content == "" && len(resp.Content) == 0 {
		return "", fmt.Errorf("empty content in anthropic response")
	}
	return content, nil
}

func (p *Provider) Stream(ctx context.Context, messages []domain.Message, model string) (<-chan domain.StreamChunk, error) {
	stream, err := p.client.StreamMessage(ctx, toAPIRequest(messages, model))
	if err != nil {
		return nil, err
	}

	out := make(chan domain.StreamChunk)
	go func() {
		defer close(out)

		var inputTokens, outputTokens int

		for result := range stream {
			if result.Err != nil {
				send(ctx, out, domain.StreamChunk{Err: result.Err})
				return
			}

			switch result.EventType {
			case "message_start":
				event, err := result.ParseMessageStart()
				if err != nil {
					send(ctx, out, domain.StreamChunk{Err: fmt.Errorf("parse message_start: %w", err)})
					return
				}
				inputTokens = event.Message.Usage.InputTokens

			case "content_block_delta":
				event, err := result.ParseContentBlockDelta()
				if err != nil {
					send(ctx, out, domain.StreamChunk{Err: fmt.Errorf("parse content_block_delta: %w", err)})
					return
				}
				if event.Delta.Type == "text_delta" && event.Delta.Text != "" {
					if !send(ctx, out, domain.StreamChunk{ContentDelta: event.Delta.Text}) {
						return
					}
				}

			case "message_delta":
				event, err := result.ParseMessageDelta()
				if err != nil {
					send(ctx, out, domain.StreamChunk{Err: fmt.Errorf("parse message_delta: %w", err)})
					return
				}
				if event.Usage != nil {
					outputTokens = event.Usage.OutputTokens
				}

			case "message_stop":
				if inputTokens > 0 || outputTokens > 0 {
					send(ctx, out, domain.StreamChunk{
						Usage: &domain.Usage{
							PromptTokens:     inputTokens,
							CompletionTokens: outputTokens,
							TotalTokens:      inputTokens + outputTokens,
						},
					})
				}
				return

			default:
				// ping, content_block_start, content_block_stop carry no text
				continue
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

// toAPIRequest converts role-tagged history into the Messages API shape.
// The API wants system text in a top-level field, so exactly one leading
// system message is extracted and stripped from the history before dispatch.
func toAPIRequest(messages []domain.Message, model string) *anthropicapi.MessagesRequest {
	system, rest := SplitSystem(messages)

	apiMessages := make([]anthropicapi.Message, 0, len(rest))
	for _, m := range rest {
		role := m.Role
		if role != "user" && role != "assistant" {
			// Mid-conversation system entries are not representable; fold
			// them into the user turn stream.
			role = "user"
		}
		apiMessages = append(apiMessages, anthropicapi.Message{
			Role:    role,
			Content: m.Content,
		})
	}

	temp := float32(defaultTemperature)
	return &anthropicapi.MessagesRequest{
		Model:       model,
		System:      system,
		Messages:    apiMessages,
		MaxTokens:   defaultMaxTokens,
		Temperature: &temp,
	}
}

// SplitSystem returns the content of the first message when it is
// system-role, together with the remaining history.
func SplitSystem(messages []domain.Message) (string, []domain.Message) {
	if len(messages) > 0 && messages[0].Role == "system" {
		return messages[0].Content, messages[1:]
	}
	return "", messages
}
