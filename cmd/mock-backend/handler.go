package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rhuss/gemini-proxy/pkg/provider/gemini"
)

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/models/{action}", handleGenerateContent)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return mux
}

// handleGenerateContent serves POST /v1/models/{model}:generateContent.
func handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	model, ok := strings.CutSuffix(r.PathValue("action"), ":generateContent")
	if !ok || model == "" {
		writeGeminiError(w, http.StatusNotFound, "NOT_FOUND", "unknown method")
		return
	}
	if r.URL.Query().Get("key") == "" {
		writeGeminiError(w, http.StatusForbidden, "PERMISSION_DENIED", "Method doesn't allow unregistered callers.")
		return
	}

	var req gemini.GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGeminiError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid JSON payload received.")
		return
	}

	prompt := promptText(req)
	slog.Info("generateContent", "model", model, "prompt_len", len(prompt))

	switch {
	case strings.Contains(prompt, "rate-limit"):
		writeGeminiError(w, http.StatusTooManyRequests, "RESOURCE_EXHAUSTED", "Resource has been exhausted (e.g. check quota).")
	case strings.Contains(prompt, "empty"):
		writeJSON(w, http.StatusOK, gemini.GenerateContentResponse{Candidates: []gemini.Candidate{}})
	case strings.Contains(prompt, "error"):
		writeGeminiError(w, http.StatusInternalServerError, "INTERNAL", "An internal error has occurred.")
	default:
		writeJSON(w, http.StatusOK, gemini.GenerateContentResponse{
			Candidates: []gemini.Candidate{{
				Content: gemini.Content{
					Role:  "model",
					Parts: []gemini.Part{{Text: fmt.Sprintf("[%s] %s", model, prompt)}},
				},
				FinishReason: "STOP",
			}},
		})
	}
}

// promptText joins all text parts of all contents.
func promptText(req gemini.GenerateContentRequest) string {
	var sb strings.Builder
	for _, c := range req.Contents {
		for _, p := range c.Parts {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

func writeGeminiError(w http.ResponseWriter, code int, status, message string) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"status":  status,
		},
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
