package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Role values used in chat messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Object type tags.
const (
	ObjectChatCompletion = "chat.completion"
	ObjectList           = "list"
	ObjectModel          = "model"
)

// FinishReasonStop is the only finish reason the proxy reports.
const FinishReasonStop = "stop"

// ChatCompletionRequest is the inbound request body for
// POST /v1/chat/completions. Only messages and model are consumed; all
// other OpenAI fields are accepted and ignored.
type ChatCompletionRequest struct {
	Messages []ChatMessage `json:"messages"`
	Model    string        `json:"model,omitempty"`
}

// ChatMessage is one entry of the inbound conversation.
type ChatMessage struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

// MessageContent is the text of a chat message. On the wire it is either a
// plain string or an array of content parts; for the latter the text parts
// are concatenated in order and non-text parts are skipped.
type MessageContent string

// contentPart is a single element of an array-form message content.
type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

var errInvalidContent = errors.New("message content must be a string or an array of content parts")

// UnmarshalJSON accepts a string, null, or an array of content parts.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = ""
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = MessageContent(s)
		return nil
	case '[':
		var parts []contentPart
		if err := json.Unmarshal(trimmed, &parts); err != nil {
			return errInvalidContent
		}
		var sb strings.Builder
		for _, p := range parts {
			if p.Type == "text" || (p.Type == "" && p.Text != "") {
				sb.WriteString(p.Text)
			}
		}
		*c = MessageContent(sb.String())
		return nil
	default:
		return errInvalidContent
	}
}

// ChatCompletionResponse is the outbound completion body.
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// ChatChoice wraps the single assistant message of a completion.
type ChatChoice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// ResponseMessage is the assistant message inside a choice.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports token accounting. The proxy never counts tokens, so every
// field is always zero.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewChatCompletionResponse builds a completion with one "stop" choice
// carrying text and a zeroed usage block.
func NewChatCompletionResponse(model, text string, now time.Time) *ChatCompletionResponse {
	return &ChatCompletionResponse{
		ID:      NewCompletionID(now),
		Object:  ObjectChatCompletion,
		Created: now.Unix(),
		Model:   model,
		Choices: []ChatChoice{
			{
				Index: 0,
				Message: ResponseMessage{
					Role:    RoleAssistant,
					Content: text,
				},
				FinishReason: FinishReasonStop,
			},
		},
	}
}

// ModelList is the body of GET /v1/models.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// Model is one catalog entry.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// HealthStatus is the body of GET /.
type HealthStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// timestampLayout matches ISO-8601 with millisecond precision in UTC,
// e.g. "2024-05-01T12:00:00.000Z".
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// NewHealthStatus returns the liveness payload stamped with now.
func NewHealthStatus(message string, now time.Time) HealthStatus {
	return HealthStatus{
		Status:    "OK",
		Message:   message,
		Timestamp: now.UTC().Format(timestampLayout),
	}
}
