package anthropic

import "encoding/json"

// Message is a role-tagged conversation entry. The Messages API rejects
// system-role entries here; system text goes in MessagesRequest.System.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagesRequest is the request body for /v1/messages.
type MessagesRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream,omitempty"`
	Temperature *float32  `json:"temperature,omitempty"`
}

// ContentBlock is one block of a non-streaming response body.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Usage reports token consumption.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// MessagesResponse is a complete non-streaming response.
type MessagesResponse struct {
	ID         string         `json:"id"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

// Streaming event payloads. Each SSE event carries a type discriminator;
// only content_block_delta events with text_delta payloads carry chat text.

// MessageStartEvent is the message_start payload.
type MessageStartEvent struct {
	Type    string `json:"type"`
	Message struct {
		Role  string `json:"role"`
		Usage Usage  `json:"usage"`
	} `json:"message"`
}

// ContentBlockDeltaEvent is the content_block_delta payload.
type ContentBlockDeltaEvent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

// MessageDeltaEvent is the message_delta payload.
type MessageDeltaEvent struct {
	Type  string `json:"type"`
	Usage *Usage `json:"usage,omitempty"`
}

// ErrorResponse is the error envelope returned on non-200 statuses.
type ErrorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseErrorResponse attempts to decode an error envelope from a response
// body. Returns nil when the body is not a recognizable error payload.
func ParseErrorResponse(body []byte) *ErrorResponse {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return nil
	}
	if er.Error.Message == "" {
		return nil
	}
	return &er
}
