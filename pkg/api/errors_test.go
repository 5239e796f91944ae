package api

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		wantKind ErrorKind
		wantType ErrorType
		wantCode string
	}{
		{"invalid request", NewInvalidRequestError("bad"), KindInvalidRequest, ErrorTypeAPI, CodeProcessingError},
		{"upstream", NewUpstreamError(429, "quota"), KindUpstream, ErrorTypeAPI, CodeProcessingError},
		{"upstream shape", NewUpstreamShapeError(MsgNoResponse), KindUpstream, ErrorTypeAPI, CodeProcessingError},
		{"not found", NewNotFoundError("/x"), KindNotFound, ErrorTypeNotFound, ""},
		{"internal", NewInternalError(), KindInternal, ErrorTypeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", tt.err.Kind, tt.wantKind)
			}
			if tt.err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", tt.err.Type, tt.wantType)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
		})
	}
}

func TestUpstreamErrorCarriesStatusAndBody(t *testing.T) {
	err := NewUpstreamError(429, `{"error":{"code":429}}`)

	if err.UpstreamStatus != 429 {
		t.Errorf("UpstreamStatus = %d, want 429", err.UpstreamStatus)
	}
	if err.UpstreamBody != `{"error":{"code":429}}` {
		t.Errorf("UpstreamBody = %q", err.UpstreamBody)
	}
	if !strings.Contains(err.Message, "429") || !strings.Contains(err.Message, `{"error":{"code":429}}`) {
		t.Errorf("Message = %q, want status and raw body", err.Message)
	}
}

func TestNotFoundMessageNamesPath(t *testing.T) {
	err := NewNotFoundError("/v1/unknown?x=1")
	if err.Message != "Route /v1/unknown?x=1 not found" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestErrorResponseJSON(t *testing.T) {
	data, err := json.Marshal(ErrorResponse{Error: NewUpstreamError(500, "boom")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	e := m["error"]
	if e["type"] != "api_error" {
		t.Errorf("type = %v, want api_error", e["type"])
	}
	if e["code"] != "processing_error" {
		t.Errorf("code = %v, want processing_error", e["code"])
	}
	// Internal fields never reach the wire.
	for _, k := range []string{"Kind", "UpstreamStatus", "UpstreamBody", "kind"} {
		if _, ok := e[k]; ok {
			t.Errorf("unexpected field %q in error body", k)
		}
	}
}

func TestNotFoundOmitsCode(t *testing.T) {
	data, _ := json.Marshal(ErrorResponse{Error: NewNotFoundError("/nope")})
	if strings.Contains(string(data), "code") {
		t.Errorf("not_found body should not carry code: %s", data)
	}
}

func TestInternalErrorIsGeneric(t *testing.T) {
	err := NewInternalError()
	if err.Message != "Internal server error" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestUnauthenticatedError(t *testing.T) {
	err := NewUnauthenticatedError()
	if err.Kind != KindUnauthenticated || err.Type != ErrorTypeInvalid {
		t.Errorf("kind/type = %q/%q", err.Kind, err.Type)
	}
}
