// Package chat implements the HTTP chat orchestrator: request validation,
// provider selection, prompt augmentation, SSE re-streaming, and the mock
// fallback path.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Pavan-folder/Chatbot-contentstack/internal/analytics"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/config"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/contentstack"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/domain"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/mock"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/provider"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/tokens"
)

// Handler owns the chat endpoints and their collaborators.
type Handler struct {
	cfg       *config.Config
	registry  *provider.Registry
	content   *contentstack.Service
	recorder  *analytics.Recorder
	responder *mock.Responder
	counter   *tokens.Counter
	logger    *slog.Logger

	activeStreams atomic.Int64
	startedAt     time.Time
}

// NewHandler wires the orchestrator.
func NewHandler(
	cfg *config.Config,
	registry *provider.Registry,
	content *contentstack.Service,
	recorder *analytics.Recorder,
	responder *mock.Responder,
	counter *tokens.Counter,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		cfg:       cfg,
		registry:  registry,
		content:   content,
		recorder:  recorder,
		responder: responder,
		counter:   counter,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// chatRequestWire keeps messages as raw JSON so missing, null, and
// non-array values can be told apart from an empty conversation.
type chatRequestWire struct {
	Messages     json.RawMessage            `json:"messages"`
	Provider     string                     `json:"provider"`
	Model        string                     `json:"model"`
	Stream       *bool                      `json:"stream"`
	Augmentation *domain.AugmentationConfig `json:"augmentationConfig"`
}

// HandleChat serves POST /chat.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var wire chatRequestWire
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		h.writeError(w, domain.ErrInvalidRequest("Invalid request body").
			WithDetails(err.Error()))
		return
	}

	var messages []domain.Message
	if len(wire.Messages) == 0 || string(wire.Messages) == "null" ||
		json.Unmarshal(wire.Messages, &messages) != nil || len(messages) == 0 {
		h.writeError(w, domain.ErrInvalidRequest("Messages array is required").
			WithDetails("Please provide an array of message objects with role and content"))
		return
	}

	providerID := wire.Provider
	if providerID == "" {
		providerID = h.cfg.Chat.DefaultProvider
	}

	desc, ok := h.registry.Descriptor(providerID)
	if !ok {
		h.writeError(w, domain.ErrUnsupportedProvider("Invalid provider").
			WithDetails("Supported providers: "+strings.Join(h.registry.IDs(), ", ")))
		return
	}
	if desc.Disabled {
		h.writeError(w, domain.ErrUnsupportedProvider(
			fmt.Sprintf("%s provider is not supported in free version", desc.DisplayName)))
		return
	}

	model := wire.Model
	if model == "" {
		model = desc.DefaultModel
	}

	if wire.Stream != nil && !*wire.Stream {
		h.completeChat(w, r, providerID, model, messages)
		return
	}

	h.streamChat(w, r, providerID, model, messages, wire.Augmentation)
}

// streamChat runs the SSE path. Once headers are flushed the HTTP status is
// committed to 200; every later failure must resolve to a well-formed stream.
func (h *Handler) streamChat(w http.ResponseWriter, r *http.Request, providerID, model string, messages []domain.Message, aug *domain.AugmentationConfig) {
	h.activeStreams.Add(1)
	defer h.activeStreams.Add(-1)

	ctx := r.Context()
	started := time.Now()
	query := lastUserMessage(messages)

	if !h.registry.Configured(providerID) {
		h.streamMock(w, r, mock.Greeting, providerID, model, query, started, true, "")
		return
	}

	messages = h.augment(ctx, messages, query, aug)

	sse, err := newSSEWriter(w)
	if err != nil {
		h.writeError(w, domain.NewAPIError(domain.ErrorTypeServer, "Streaming unsupported"))
		return
	}

	adapter, err := h.registry.Adapter(providerID)
	if err == nil {
		var stream <-chan domain.StreamChunk
		stream, err = adapter.Stream(ctx, messages, model)
		if err == nil {
			h.emitStream(ctx, sse, stream, providerID, model, query, started)
			return
		}
	}

	// Nothing has reached the client yet; serve the canned fallback so the
	// caller still gets a usable streamed reply.
	h.logger.Error("chat processing failed, serving mock fallback",
		slog.String("provider", providerID),
		slog.String("error", err.Error()))
	h.emitMockFrames(ctx, sse, mock.Fallback)
	h.recordOutcome(domain.ChatOutcome{
		Provider:       providerID,
		Model:          model,
		Query:          query,
		ResponseTimeMs: time.Since(started).Milliseconds(),
		TokensApprox:   tokens.Estimate(mock.Fallback),
		Success:        false,
		ErrContext:     "chat processing",
	})
}

// emitStream re-emits normalized upstream chunks as SSE frames.
func (h *Handler) emitStream(ctx context.Context, sse *sseWriter, stream <-chan domain.StreamChunk, providerID, model, query string, started time.Time) {
	var full strings.Builder
	var usageTokens int

	for chunk := range stream {
		select {
		case <-ctx.Done():
			// Client went away; stop writing and drain nothing further.
			h.recordOutcome(domain.ChatOutcome{
				Provider:       providerID,
				Model:          model,
				Query:          query,
				ResponseTimeMs: time.Since(started).Milliseconds(),
				TokensApprox:   tokens.Estimate(full.String()),
				Success:        false,
				ErrContext:     "client aborted",
			})
			return
		default:
		}

		if chunk.Err != nil {
			h.logger.Error("upstream stream failed",
				slog.String("provider", providerID),
				slog.String("error", chunk.Err.Error()))
			sse.writeJSON(map[string]any{
				"error":   "Stream processing failed",
				"details": chunk.Err.Error(),
			})
			sse.writeDone()
			h.recordOutcome(domain.ChatOutcome{
				Provider:       providerID,
				Model:          model,
				Query:          query,
				ResponseTimeMs: time.Since(started).Milliseconds(),
				TokensApprox:   tokens.Estimate(full.String()),
				Success:        false,
				ErrContext:     "stream processing",
			})
			return
		}

		if chunk.Usage != nil {
			usageTokens = chunk.Usage.TotalTokens
			continue
		}

		if chunk.ContentDelta == "" {
			continue
		}

		full.WriteString(chunk.ContentDelta)
		sse.writeJSON(map[string]any{
			"content":  chunk.ContentDelta,
			"provider": providerID,
			"model":    model,
			"tokens":   tokens.Estimate(full.String()),
		})
	}

	totalTokens := usageTokens
	if totalTokens == 0 {
		totalTokens, _ = h.counter.Count(model, full.String())
	}
	elapsed := time.Since(started)

	sse.writeJSON(map[string]any{
		"done":         true,
		"totalTokens":  totalTokens,
		"responseTime": fmt.Sprintf("%dms", elapsed.Milliseconds()),
		"provider":     providerID,
		"model":        model,
	})
	sse.writeDone()

	h.recordOutcome(domain.ChatOutcome{
		Provider:       providerID,
		Model:          model,
		Query:          query,
		ResponseTimeMs: elapsed.Milliseconds(),
		TokensApprox:   totalTokens,
		Success:        true,
	})
}

// streamMock serves the canned word-by-word stream used when the provider
// has no usable credential.
func (h *Handler) streamMock(w http.ResponseWriter, r *http.Request, sentence, providerID, model, query string, started time.Time, success bool, errContext string) {
	sse, err := newSSEWriter(w)
	if err != nil {
		h.writeError(w, domain.NewAPIError(domain.ErrorTypeServer, "Streaming unsupported"))
		return
	}

	h.emitMockFrames(r.Context(), sse, sentence)

	h.recordOutcome(domain.ChatOutcome{
		Provider:       providerID,
		Model:          model,
		Query:          query,
		ResponseTimeMs: time.Since(started).Milliseconds(),
		TokensApprox:   tokens.Estimate(sentence),
		Success:        success,
		ErrContext:     errContext,
	})
}

func (h *Handler) emitMockFrames(ctx context.Context, sse *sseWriter, sentence string) {
	for word := range h.responder.Stream(ctx, sentence) {
		select {
		case <-ctx.Done():
			return
		default:
		}
		sse.writeJSON(map[string]any{"content": word})
	}
	if ctx.Err() != nil {
		return
	}
	sse.writeDone()
}

// completeChat runs the non-streaming path.
func (h *Handler) completeChat(w http.ResponseWriter, r *http.Request, providerID, model string, messages []domain.Message) {
	ctx := r.Context()
	started := time.Now()
	query := lastUserMessage(messages)

	if !h.registry.Configured(providerID) {
		h.writeJSON(w, http.StatusOK, map[string]any{
			"response": mock.Greeting,
			"provider": providerID,
			"model":    model,
		})
		return
	}

	adapter, err := h.registry.Adapter(providerID)
	if err != nil {
		h.writeAnyError(w, err)
		return
	}

	text, err := adapter.Complete(ctx, messages, model)
	if err != nil {
		h.logger.Error("completion failed",
			slog.String("provider", providerID),
			slog.String("error", err.Error()))
		h.recordOutcome(domain.ChatOutcome{
			Provider:       providerID,
			Model:          model,
			Query:          query,
			ResponseTimeMs: time.Since(started).Milliseconds(),
			Success:        false,
			ErrContext:     "chat completion",
		})
		h.writeError(w, domain.ErrUpstream("Chat completion failed").WithDetails(err.Error()))
		return
	}

	count, _ := h.counter.Count(model, text)
	h.recordOutcome(domain.ChatOutcome{
		Provider:       providerID,
		Model:          model,
		Query:          query,
		ResponseTimeMs: time.Since(started).Milliseconds(),
		TokensApprox:   count,
		Success:        true,
	})

	h.writeJSON(w, http.StatusOK, map[string]any{
		"response": text,
		"provider": providerID,
		"model":    model,
		"tokens":   count,
	})
}

// augment asks the content service for snippets relevant to the query and,
// when any exist, prepends a synthetic system message embedding them.
// Augmenter failure is non-fatal.
func (h *Handler) augment(ctx context.Context, messages []domain.Message, query string, aug *domain.AugmentationConfig) []domain.Message {
	if query == "" {
		return messages
	}

	entries, err := h.content.Search(ctx, query, aug)
	if err != nil {
		h.logger.Warn("content augmentation failed, continuing without context",
			slog.String("error", err.Error()))
		return messages
	}
	if len(entries) == 0 {
		return messages
	}

	snippets, err := json.Marshal(entries)
	if err != nil {
		return messages
	}

	system := domain.Message{
		Role: "system",
		Content: "You have access to the following content from our knowledge base:\n" +
			string(snippets) +
			"\nPrefer this context when answering. If the context is not relevant " +
			"to the question, fall back to your general knowledge.",
	}
	return append([]domain.Message{system}, messages...)
}

func (h *Handler) recordOutcome(outcome domain.ChatOutcome) {
	// Fire-and-forget; the recorder never blocks or fails the response.
	h.recorder.Record(outcome)
}

// lastUserMessage returns the content of the final user-role message.
func lastUserMessage(messages []domain.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, apiErr *domain.APIError) {
	h.writeJSON(w, apiErr.HTTPStatusCode(), apiErr)
}

func (h *Handler) writeAnyError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*domain.APIError); ok {
		h.writeError(w, apiErr)
		return
	}
	h.writeError(w, domain.NewAPIError(domain.ErrorTypeServer, "Internal server error").
		WithDetails(err.Error()))
}
