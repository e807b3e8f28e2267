// Package mock produces canned assistant replies for deployments without a
// real provider credential, streamed word by word to exercise the same SSE
// path as live providers.
package mock

import (
	"context"
	"strings"
	"time"
)

const (
	// Greeting is the canned reply for providers without a usable credential.
	Greeting = "Hi! I am your helpful chat agent. Please provide some content or context so I can assist you better."

	// Fallback is the canned reply served when a live provider fails before
	// any bytes reach the client.
	Fallback = "Hello! I'm a demo chat agent. Based on your question about tours in Italy, here are some recommendations: 1. Rome Colosseum Tour, 2. Venice Gondola Ride, 3. Florence Duomo Visit. For more details, please provide a real API key."
)

// Responder streams canned sentences with artificial pacing between words.
type Responder struct {
	pacing time.Duration
}

// NewResponder creates a responder that waits pacing between words. Zero
// pacing streams as fast as the consumer reads.
func NewResponder(pacing time.Duration) *Responder {
	return &Responder{pacing: pacing}
}

// Stream splits sentence on whitespace and emits one word per chunk, each
// carrying its trailing space. The channel is closed when the sentence is
// exhausted or ctx is cancelled.
func (r *Responder) Stream(ctx context.Context, sentence string) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for _, word := range strings.Fields(sentence) {
			select {
			case out <- word + " ":
			case <-ctx.Done():
				return
			}
			if r.pacing > 0 {
				select {
				case <-time.After(r.pacing):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
