package analytics

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/Pavan-folder/Chatbot-contentstack/internal/domain"
)

func TestRecorderFlushesOnClose(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "analytics.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRecorder(store, 16, logger)

	r.Record(domain.ChatOutcome{
		Provider:       "openai",
		Model:          "gpt-3.5-turbo",
		Query:          "hi",
		ResponseTimeMs: 42,
		TokensApprox:   7,
		Success:        true,
	})
	r.Record(domain.ChatOutcome{
		Provider:   "groq",
		Model:      "llama2-70b-4096",
		Success:    false,
		ErrContext: "chat processing",
	})

	r.Close()

	sum, err := store.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalRequests != 2 {
		t.Errorf("TotalRequests = %d, want 2", sum.TotalRequests)
	}
	if sum.SuccessfulRequests != 1 {
		t.Errorf("SuccessfulRequests = %d", sum.SuccessfulRequests)
	}
	// The failed outcome should have produced an error record too.
	if len(sum.RecentErrors) != 1 || sum.RecentErrors[0].Provider != "groq" {
		t.Errorf("RecentErrors = %+v", sum.RecentErrors)
	}
}

func TestRecorderDropsWhenFull(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "analytics.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := &Recorder{
		store:  store,
		queue:  make(chan func(context.Context), 1),
		logger: logger,
	}
	// No drain goroutine: the queue fills immediately.

	r.RecordError("openai", "test", "first")
	r.RecordError("openai", "test", "second")
	r.RecordError("openai", "test", "third")

	if dropped := r.Dropped(); dropped != 2 {
		t.Errorf("Dropped = %d, want 2", dropped)
	}
}
