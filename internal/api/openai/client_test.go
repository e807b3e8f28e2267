package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Pavan-folder/Chatbot-contentstack/internal/testutil"
)

func TestCreateChatCompletionReplay(t *testing.T) {
	r, cleanup := testutil.NewVCRRecorder(t, "chat_completion")
	defer cleanup()

	client := NewClient("test-key", WithHTTPClient(testutil.VCRHTTPClient(r)))

	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model: "gpt-3.5-turbo",
		Messages: []ChatCompletionMessage{
			{Role: "user", Content: "Say hello"},
		},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion: %v", err)
	}

	if len(resp.Choices) != 1 {
		t.Fatalf("choices = %d", len(resp.Choices))
	}
	if resp.Choices[0].Message.Content != "Hello! How can I help you today?" {
		t.Errorf("content = %q", resp.Choices[0].Message.Content)
	}
	if resp.Usage.TotalTokens != 19 {
		t.Errorf("total tokens = %d", resp.Usage.TotalTokens)
	}
}

func TestStreamChatCompletion(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %q", r.URL.Path)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"A\"}}]}\n\n")
		fmt.Fprint(w, ": keepalive comment that must be ignored\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"B\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer ts.Close()

	client := NewClient("test-key", WithBaseURL(ts.URL))

	stream, err := client.StreamChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:    "gpt-3.5-turbo",
		Messages: []ChatCompletionMessage{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("StreamChatCompletion: %v", err)
	}

	var got []string
	for result := range stream {
		if result.Err != nil {
			t.Fatalf("stream error: %v", result.Err)
		}
		if len(result.Chunk.Choices) > 0 {
			got = append(got, result.Chunk.Choices[0].Delta.Content)
		}
	}

	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("deltas = %v", got)
	}
}

func TestStreamChatCompletionHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	}))
	defer ts.Close()

	client := NewClient("bad-key", WithBaseURL(ts.URL))

	_, err := client.StreamChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:    "gpt-4",
		Messages: []ChatCompletionMessage{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "Incorrect API key provided") {
		t.Errorf("error = %v, should carry upstream message", err)
	}
}

func TestParseErrorResponse(t *testing.T) {
	if got := ParseErrorResponse([]byte(`not json`)); got != nil {
		t.Errorf("garbage body parsed as error: %+v", got)
	}
	if got := ParseErrorResponse([]byte(`{"ok":true}`)); got != nil {
		t.Errorf("non-error body parsed as error: %+v", got)
	}

	got := ParseErrorResponse([]byte(`{"error":{"message":"rate limited","type":"rate_limit_error"}}`))
	if got == nil || got.Error.Message != "rate limited" {
		t.Errorf("parsed = %+v", got)
	}
}
