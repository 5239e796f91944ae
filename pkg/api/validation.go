package api

import (
	"bytes"
	"encoding/json"
)

// rawChatRequest defers decoding of messages so that a missing or
// non-array value can be told apart from a malformed message entry.
type rawChatRequest struct {
	Messages json.RawMessage `json:"messages"`
	Model    string          `json:"model"`
}

// ParseChatCompletionRequest decodes an inbound request body. It fails with
// an invalid request error when the body is not JSON, when messages is
// absent, null, or not an array, or when a message entry is malformed.
// It does not check for the presence of a user message; see LastUserMessage.
func ParseChatCompletionRequest(body []byte) (*ChatCompletionRequest, *APIError) {
	var raw rawChatRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, NewInvalidRequestError("invalid JSON: " + err.Error())
	}

	msgs := bytes.TrimSpace(raw.Messages)
	if len(msgs) == 0 || msgs[0] != '[' {
		return nil, NewInvalidRequestError(MsgMissingMessages)
	}

	req := &ChatCompletionRequest{Model: raw.Model}
	if err := json.Unmarshal(msgs, &req.Messages); err != nil {
		return nil, NewInvalidRequestError("invalid messages: " + err.Error())
	}
	return req, nil
}

// LastUserMessage returns the most recent message whose role is "user".
// Earlier turns, including earlier user messages, are ignored.
func LastUserMessage(messages []ChatMessage) (*ChatMessage, *APIError) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return &messages[i], nil
		}
	}
	return nil, NewInvalidRequestError(MsgNoUserMessage)
}
