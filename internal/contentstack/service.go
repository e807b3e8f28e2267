// Package contentstack searches CMS content used to augment chat prompts.
// Without delivery credentials it serves a built-in demo dataset so the
// augmentation path stays exercisable.
package contentstack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/Pavan-folder/Chatbot-contentstack/internal/config"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/domain"
)

const defaultBaseURL = "https://cdn.contentstack.io"

// Entry is one piece of CMS content returned by a search, already scored
// against the query.
type Entry struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	ContentType string  `json:"contentType"`
	Content     string  `json:"content"`
	Relevance   float64 `json:"relevance"`
	URL         string  `json:"url,omitempty"`
}

// Status describes the service for the health endpoint.
type Status struct {
	Configured   bool     `json:"configured"`
	Environment  string   `json:"environment"`
	Source       string   `json:"source"`
	ContentTypes []string `json:"contentTypes"`
}

// ServiceOption configures the service.
type ServiceOption func(*Service)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ServiceOption {
	return func(s *Service) {
		s.httpClient = httpClient
	}
}

// Service queries the Contentstack delivery API, falling back to the demo
// dataset when credentials are absent.
type Service struct {
	apiKey        string
	deliveryToken string
	environment   string
	baseURL       string
	contentTypes  []string
	limit         int

	httpClient *http.Client
	logger     *slog.Logger
}

// NewService builds the service from configuration.
func NewService(cfg config.ContentstackConfig, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		apiKey:        cfg.APIKey,
		deliveryToken: cfg.DeliveryToken,
		environment:   cfg.Environment,
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		contentTypes:  cfg.ContentTypes,
		limit:         cfg.Limit,
		httpClient:    http.DefaultClient,
		logger:        logger,
	}
	if s.baseURL == "" {
		s.baseURL = defaultBaseURL
	}
	if len(s.contentTypes) == 0 {
		s.contentTypes = []string{"travel_guide", "tour_package", "destination"}
	}
	if s.limit <= 0 {
		s.limit = 3
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsConfigured reports whether real delivery credentials are present. The
// shipped demo defaults use the same placeholder as provider keys; those
// keep the service on the demo dataset.
func (s *Service) IsConfigured() bool {
	return config.RealCredential(s.apiKey) && config.RealCredential(s.deliveryToken)
}

// Status returns the health-endpoint view of the service.
func (s *Service) Status() Status {
	source := "mock"
	if s.IsConfigured() {
		source = "contentstack"
	}
	return Status{
		Configured:   s.IsConfigured(),
		Environment:  s.environment,
		Source:       source,
		ContentTypes: s.contentTypes,
	}
}

// Search finds entries relevant to query, most relevant first, capped at the
// configured (or per-request) limit. Entries with zero relevance are
// dropped; duplicate IDs across content types are collapsed keeping the
// higher score. Augmentation narrows the searched content types and limit.
func (s *Service) Search(ctx context.Context, query string, aug *domain.AugmentationConfig) ([]Entry, error) {
	contentTypes := s.contentTypes
	limit := s.limit
	if aug != nil {
		if len(aug.ContentTypes) > 0 {
			contentTypes = aug.ContentTypes
		}
		if aug.Limit > 0 {
			limit = aug.Limit
		}
	}

	var entries []Entry
	if s.IsConfigured() {
		for _, ct := range contentTypes {
			fetched, err := s.fetchEntries(ctx, ct)
			if err != nil {
				// A single failing content type should not sink the whole
				// search.
				s.logger.Warn("content type fetch failed",
					slog.String("contentType", ct),
					slog.String("error", err.Error()))
				continue
			}
			entries = append(entries, fetched...)
		}
	} else {
		entries = mockEntries(contentTypes)
	}

	return rank(entries, query, limit), nil
}

// deliveryEntry is the subset of the delivery API entry payload we read.
type deliveryEntry struct {
	UID         string `json:"uid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"`
	URL         string `json:"url"`
}

type deliveryResponse struct {
	Entries []deliveryEntry `json:"entries"`
}

func (s *Service) fetchEntries(ctx context.Context, contentType string) ([]Entry, error) {
	endpoint := fmt.Sprintf("%s/v3/content_types/%s/entries?environment=%s",
		s.baseURL, url.PathEscape(contentType), url.QueryEscape(s.environment))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("api_key", s.apiKey)
	req.Header.Set("access_token", s.deliveryToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("delivery request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("delivery API status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var dr deliveryResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("decoding delivery response: %w", err)
	}

	entries := make([]Entry, 0, len(dr.Entries))
	for _, e := range dr.Entries {
		content := e.Body
		if content == "" {
			content = e.Description
		}
		entries = append(entries, Entry{
			ID:          e.UID,
			Title:       e.Title,
			ContentType: contentType,
			Content:     content,
			URL:         e.URL,
		})
	}
	return entries, nil
}

// rank scores entries against the query, drops zero scores, deduplicates by
// ID keeping the higher score, sorts descending, and truncates to limit.
// Title matches weigh more than content matches.
func rank(entries []Entry, query string, limit int) []Entry {
	words := queryWords(query)

	best := make(map[string]Entry)
	for _, e := range entries {
		e.Relevance = score(e, words)
		if e.Relevance <= 0 {
			continue
		}
		if prev, ok := best[e.ID]; !ok || e.Relevance > prev.Relevance {
			best[e.ID] = e
		}
	}

	ranked := make([]Entry, 0, len(best))
	for _, e := range best {
		ranked = append(ranked, e)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Relevance != ranked[j].Relevance {
			return ranked[i].Relevance > ranked[j].Relevance
		}
		return ranked[i].Title < ranked[j].Title
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func score(e Entry, words []string) float64 {
	title := strings.ToLower(e.Title)
	content := strings.ToLower(e.Content)

	var total float64
	for _, w := range words {
		if strings.Contains(title, w) {
			total += 3
		}
		if strings.Contains(content, w) {
			total += 1
		}
	}
	return total
}

// queryWords lowercases and splits the query, keeping words long enough to
// carry meaning. Stop-words like "the" would otherwise match everything.
func queryWords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'")
		if len(f) >= 3 {
			words = append(words, f)
		}
	}
	return words
}
