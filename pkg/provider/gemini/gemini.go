package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rhuss/gemini-proxy/pkg/api"
	"github.com/rhuss/gemini-proxy/pkg/debug"
	"github.com/rhuss/gemini-proxy/pkg/provider"
)

// GeminiProvider implements provider.Provider for the Gemini REST API.
type GeminiProvider struct {
	cfg    Config
	client *http.Client
}

// Ensure GeminiProvider implements provider.Provider at compile time.
var _ provider.Provider = (*GeminiProvider)(nil)

// New creates a new GeminiProvider with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config) (*GeminiProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	// Normalize: remove trailing slash from base URL.
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("gemini: invalid BaseURL: %w", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &GeminiProvider{
		cfg:    cfg,
		client: client,
	}, nil
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Complete sends one generateContent call. It is never retried.
func (p *GeminiProvider) Complete(ctx context.Context, req *provider.ProviderRequest) (*provider.ProviderResponse, error) {
	body, err := json.Marshal(TranslateRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := p.endpoint(req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	debug.Log("providers", "upstream request", "model", req.Model, "url", debug.Redact(endpoint))
	if debug.TraceIsEnabled("providers") {
		debug.Trace("providers", "upstream request body", "body", string(body))
	}

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, mapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := mapHTTPError(httpResp)
		debug.Log("providers", "upstream error", "status", httpResp.StatusCode, "body", debug.Truncate(apiErr.UpstreamBody, 512))
		return nil, apiErr
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, mapNetworkError(err)
	}
	if debug.TraceIsEnabled("providers") {
		debug.Trace("providers", "upstream response body", "body", string(data))
	}

	var genResp GenerateContentResponse
	if err := json.Unmarshal(data, &genResp); err != nil {
		debug.Log("providers", "upstream body not parseable", "error", err)
		return nil, api.NewUpstreamShapeError(api.MsgNoResponse)
	}

	return TranslateResponse(req.Model, &genResp)
}

// endpoint builds {BaseURL}/models/{model}:generateContent?key={key}.
func (p *GeminiProvider) endpoint(model string) string {
	return p.cfg.BaseURL + "/models/" + url.PathEscape(model) + ":generateContent?key=" + url.QueryEscape(p.cfg.APIKey)
}

// Close releases provider resources.
func (p *GeminiProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
