package contentstack

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Pavan-folder/Chatbot-contentstack/internal/config"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMockSearchRanksByRelevance(t *testing.T) {
	s := NewService(config.ContentstackConfig{}, discardLogger())

	if s.IsConfigured() {
		t.Fatal("service without credentials reported configured")
	}

	entries, err := s.Search(context.Background(), "gondola ride in Venice", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no results for matching query")
	}
	if entries[0].Title != "Venice Cultural Experience" {
		t.Errorf("top result = %q", entries[0].Title)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Relevance > entries[i-1].Relevance {
			t.Errorf("results not sorted: %f after %f", entries[i].Relevance, entries[i-1].Relevance)
		}
	}
}

func TestPlaceholderCredentialsStayOnMockData(t *testing.T) {
	s := NewService(config.ContentstackConfig{
		APIKey:        "dummy",
		DeliveryToken: "dummy",
	}, discardLogger())

	if s.IsConfigured() {
		t.Fatal("placeholder credentials reported configured")
	}
	if got := s.Status().Source; got != "mock" {
		t.Errorf("source = %q, want mock", got)
	}

	// No delivery request may leave the process; the demo dataset answers.
	entries, err := s.Search(context.Background(), "gondola ride in Venice", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) == 0 || entries[0].Title != "Venice Cultural Experience" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestMockSearchNoMatches(t *testing.T) {
	s := NewService(config.ContentstackConfig{}, discardLogger())

	entries, err := s.Search(context.Background(), "quantum chromodynamics", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d results for unrelated query", len(entries))
	}
}

func TestSearchHonorsAugmentationConfig(t *testing.T) {
	s := NewService(config.ContentstackConfig{}, discardLogger())

	entries, err := s.Search(context.Background(), "Italy tours history", &domain.AugmentationConfig{
		ContentTypes: []string{"tour_package"},
		Limit:        1,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d results, want limit of 1", len(entries))
	}
	if entries[0].ContentType != "tour_package" {
		t.Errorf("content type = %q, want tour_package only", entries[0].ContentType)
	}
}

func TestRankDeduplicates(t *testing.T) {
	entries := []Entry{
		{ID: "a", Title: "Rome guide", Content: "rome"},
		{ID: "a", Title: "Rome guide", ContentType: "other", Content: "rome rome with rome extras about rome"},
		{ID: "b", Title: "unrelated", Content: "nothing"},
	}

	ranked := rank(entries, "rome", 10)
	if len(ranked) != 1 {
		t.Fatalf("got %d results, want 1 after dedupe and zero-score drop", len(ranked))
	}
	if ranked[0].ID != "a" {
		t.Errorf("result = %+v", ranked[0])
	}
}

func TestScoreWeighsTitleOverContent(t *testing.T) {
	words := []string{"venice"}
	titleHit := score(Entry{Title: "Venice", Content: "canals"}, words)
	contentHit := score(Entry{Title: "Canals", Content: "venice"}, words)
	if titleHit <= contentHit {
		t.Errorf("title score %f not greater than content score %f", titleHit, contentHit)
	}
}

func TestDeliveryFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/content_types/travel_guide/entries" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("environment") != "production" {
			t.Errorf("environment = %q", r.URL.Query().Get("environment"))
		}
		if r.Header.Get("api_key") != "blt-key" || r.Header.Get("access_token") != "cs-token" {
			t.Error("delivery credentials not forwarded")
		}
		fmt.Fprint(w, `{"entries":[
			{"uid":"e1","title":"Tuscany Wine Tour","description":"Wine tasting in Tuscany","url":"/tours/tuscany"},
			{"uid":"e2","title":"Unrelated","description":"nothing here"}
		]}`)
	}))
	defer ts.Close()

	s := NewService(config.ContentstackConfig{
		APIKey:        "blt-key",
		DeliveryToken: "cs-token",
		Environment:   "production",
		BaseURL:       ts.URL,
		ContentTypes:  []string{"travel_guide"},
	}, discardLogger())

	if !s.IsConfigured() {
		t.Fatal("service with credentials reported unconfigured")
	}
	if s.Status().Source != "contentstack" {
		t.Errorf("source = %q", s.Status().Source)
	}

	entries, err := s.Search(context.Background(), "wine tour tuscany", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "e1" {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].Content != "Wine tasting in Tuscany" {
		t.Errorf("description not used as content fallback: %q", entries[0].Content)
	}
}

func TestDeliveryErrorIsNonFatal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_message":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	s := NewService(config.ContentstackConfig{
		APIKey:        "bad",
		DeliveryToken: "bad",
		BaseURL:       ts.URL,
		ContentTypes:  []string{"travel_guide"},
	}, discardLogger())

	entries, err := s.Search(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("Search should swallow per-type failures: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %+v", entries)
	}
}
