package chat

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Pavan-folder/Chatbot-contentstack/internal/contentstack"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/domain"
)

// providerView is the wire shape of one registry entry in GET /providers.
type providerView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"defaultModel"`
	Streaming    bool     `json:"streaming"`
	Configured   bool     `json:"configured"`
}

// GetProviders serves GET /providers: the registry plus per-provider
// configured flags and the content service status.
func (h *Handler) GetProviders(w http.ResponseWriter, r *http.Request) {
	descriptors := h.registry.Descriptors()
	views := make([]providerView, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Disabled {
			continue
		}
		views = append(views, providerView{
			ID:           d.ID,
			Name:         d.DisplayName,
			Models:       d.Models,
			DefaultModel: d.DefaultModel,
			Streaming:    d.Streaming,
			Configured:   h.registry.Configured(d.ID),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"providers":       views,
		"defaultProvider": h.cfg.Chat.DefaultProvider,
		"contentstack":    h.content.Status(),
	})
}

// TestProvider serves POST /test-provider: one non-streaming invocation with
// a canned greeting.
func (h *Handler) TestProvider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider string `json:"provider"`
		Model    string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.ErrInvalidRequest("Invalid request body").
			WithDetails(err.Error()))
		return
	}
	if req.Provider == "" {
		h.writeError(w, domain.ErrInvalidRequest("Provider is required"))
		return
	}

	desc, ok := h.registry.Descriptor(req.Provider)
	if !ok || desc.Disabled {
		h.writeError(w, domain.ErrUnsupportedProvider("Invalid provider").
			WithDetails("Supported providers: "+strings.Join(h.registry.IDs(), ", ")))
		return
	}

	adapter, err := h.registry.Adapter(req.Provider)
	if err != nil {
		h.writeAnyError(w, err)
		return
	}

	model := req.Model
	if model == "" {
		model = desc.DefaultModel
	}

	started := time.Now()
	text, err := adapter.Complete(r.Context(), []domain.Message{
		{Role: "user", Content: "Hello! Please respond with a short greeting to confirm the connection works."},
	}, model)
	if err != nil {
		h.logger.Error("provider test failed",
			slog.String("provider", req.Provider),
			slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusOK, map[string]any{
			"success":  false,
			"provider": req.Provider,
			"model":    model,
			"error":    err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"provider":     req.Provider,
		"model":        model,
		"response":     text,
		"responseTime": fmt.Sprintf("%dms", time.Since(started).Milliseconds()),
	})
}

// SearchContent serves POST /search-content, proxying to the content
// service.
func (h *Handler) SearchContent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query        string   `json:"query"`
		ContentTypes []string `json:"contentTypes"`
		Limit        int      `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.ErrInvalidRequest("Invalid request body").
			WithDetails(err.Error()))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.writeError(w, domain.ErrInvalidRequest("Query is required"))
		return
	}

	var aug *domain.AugmentationConfig
	if len(req.ContentTypes) > 0 || req.Limit > 0 {
		aug = &domain.AugmentationConfig{ContentTypes: req.ContentTypes, Limit: req.Limit}
	}

	entries, err := h.content.Search(r.Context(), req.Query, aug)
	if err != nil {
		h.writeError(w, domain.ErrUpstream("Content search failed").WithDetails(err.Error()))
		return
	}
	if entries == nil {
		entries = []contentstack.Entry{}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"query":   req.Query,
		"count":   len(entries),
		"results": entries,
		"source":  h.content.Status().Source,
	})
}

// GetStats serves GET /stats: live process counters.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	configured := make(map[string]bool)
	for _, id := range h.registry.IDs() {
		configured[id] = h.registry.Configured(id)
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"activeStreams":    h.activeStreams.Load(),
		"uptimeSeconds":    int64(time.Since(h.startedAt).Seconds()),
		"providers":        configured,
		"analyticsDropped": h.recorder.Dropped(),
	})
}

// GetAnalytics serves GET /analytics: aggregated usage from the store.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.recorder.Summary(r.Context())
	if err != nil {
		h.logger.Error("analytics summary failed", slog.String("error", err.Error()))
		h.writeError(w, domain.NewAPIError(domain.ErrorTypeServer, "Failed to load analytics"))
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// Health serves GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"uptimeSeconds": int64(time.Since(h.startedAt).Seconds()),
		"providers":     h.registry.IDs(),
		"contentstack":  h.content.Status(),
	})
}
