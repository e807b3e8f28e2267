// Package tokens provides approximate completion-token counts for streamed
// text. OpenAI-family models get real tiktoken counts; everything else gets
// a characters/4 estimate, which is close enough for usage analytics.
package tokens

import (
	"strings"
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// Counter counts tokens in generated text.
type Counter struct {
	mu         sync.RWMutex
	codecCache map[tokenizer.Encoding]tokenizer.Codec
}

// NewCounter creates a counter with an empty codec cache.
func NewCounter() *Counter {
	return &Counter{
		codecCache: make(map[tokenizer.Encoding]tokenizer.Codec),
	}
}

// Count returns the token count of text for the given model. Estimated is
// true when the count came from the chars/4 fallback rather than a real
// tokenizer.
func (c *Counter) Count(model, text string) (count int, estimated bool) {
	if text == "" {
		return 0, false
	}

	if codec := c.codecFor(model); codec != nil {
		n, err := codec.Count(text)
		if err == nil {
			return n, false
		}
	}

	return Estimate(text), true
}

// codecFor resolves a tiktoken codec for OpenAI-family models, nil for
// everything else.
func (c *Counter) codecFor(model string) tokenizer.Codec {
	lower := strings.ToLower(model)
	if !strings.HasPrefix(lower, "gpt-") {
		return nil
	}

	encoding := tokenizer.Cl100kBase
	if !strings.HasPrefix(lower, "gpt-3.5") && !strings.HasPrefix(lower, "gpt-4") {
		encoding = tokenizer.O200kBase
	}

	c.mu.RLock()
	if cached, ok := c.codecCache[encoding]; ok {
		c.mu.RUnlock()
		return cached
	}
	c.mu.RUnlock()

	codec, err := tokenizer.Get(encoding)
	if err != nil {
		return nil
	}

	c.mu.Lock()
	c.codecCache[encoding] = codec
	c.mu.Unlock()

	return codec
}

// Estimate approximates token count as characters/4, the common heuristic
// for English text.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	n := len(text) / 4
	if n == 0 {
		n = 1
	}
	return n
}
