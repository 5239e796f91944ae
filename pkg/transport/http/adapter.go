package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"runtime/debug"
	"time"

	"github.com/rhuss/gemini-proxy/pkg/api"
	"github.com/rhuss/gemini-proxy/pkg/transport"
)

// DefaultHealthMessage is reported by GET /.
const DefaultHealthMessage = "Gemini OpenAI Proxy is running"

// Adapter serves the OpenAI-compatible chat completion API over HTTP.
// It routes requests to the appropriate handler and serializes responses.
type Adapter struct {
	creator transport.CompletionCreator
	lister  transport.ModelLister
	mux     *http.ServeMux
	config  Config
	logger  *slog.Logger
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize   int64
	HealthMessage string

	// MetricsPath and MetricsHandler mount a metrics endpoint when both are set.
	MetricsPath    string
	MetricsHandler http.Handler

	// Protect wraps the /v1 routes, typically with authentication.
	// The health check and the not-found fallback are never wrapped.
	Protect func(http.Handler) http.Handler

	Logger *slog.Logger
	Now    func() time.Time
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize:   10 << 20, // 10 MB
		HealthMessage: DefaultHealthMessage,
	}
}

// NewAdapter creates an HTTP adapter for the given creator and model lister.
// Middleware is applied to the CompletionCreator in the given order.
func NewAdapter(creator transport.CompletionCreator, lister transport.ModelLister, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		creator = transport.Chain(middlewares...)(creator)
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}
	if cfg.HealthMessage == "" {
		cfg.HealthMessage = DefaultHealthMessage
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &Adapter{
		creator: creator,
		lister:  lister,
		mux:     http.NewServeMux(),
		config:  cfg,
		logger:  logger,
	}

	protect := cfg.Protect
	if protect == nil {
		protect = func(h http.Handler) http.Handler { return h }
	}

	a.mux.HandleFunc("GET /{$}", a.handleHealth)
	a.mux.Handle("GET /v1/models", protect(http.HandlerFunc(a.handleListModels)))
	a.mux.Handle("POST /v1/chat/completions", protect(http.HandlerFunc(a.handleChatCompletion)))
	if cfg.MetricsPath != "" && cfg.MetricsHandler != nil {
		a.mux.Handle("GET "+cfg.MetricsPath, cfg.MetricsHandler)
	}
	// Catch-all: any other path, or a known path with the wrong method.
	a.mux.HandleFunc("/", a.handleNotFound)

	return a
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest. The returned handler includes
// HTTP-level middleware for request ID propagation and panic recovery.
func (a *Adapter) Handler() http.Handler {
	return httpRequestIDMiddleware(a.recoverHTTP(a.canonicalPaths(a.mux)))
}

// canonicalPaths answers non-canonical paths ("//v1/x", "/v1/../x",
// "/v1/models/") with the not-found error. ServeMux would otherwise
// redirect them to their cleaned form.
func (a *Adapter) canonicalPaths(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := r.URL.Path; p != "" && p != "*" && path.Clean(p) != p {
			a.handleNotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// httpRequestIDMiddleware propagates the X-Request-ID header. A client
// supplied ID is reused; otherwise a fresh one is generated. The ID is
// placed in the request context and echoed in the response headers.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = transport.NewRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(transport.ContextWithRequestID(r.Context(), id)))
	})
}

// recoverHTTP is the last-resort barrier: a panic anywhere below it turns
// into a generic 500 and the cause is only logged.
func (a *Adapter) recoverHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				a.logger.ErrorContext(r.Context(), "panic recovered",
					"request_id", transport.RequestIDFromContext(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				transport.WriteAPIError(w, api.NewInternalError())
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// handleHealth handles GET /.
func (a *Adapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, api.NewHealthStatus(a.config.HealthMessage, a.config.Now()))
}

// handleListModels handles GET /v1/models.
func (a *Adapter) handleListModels(w http.ResponseWriter, r *http.Request) {
	list, err := a.lister.ListModels(r.Context())
	if err != nil {
		a.writeHandlerError(w, r, "list models failed", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, list)
}

// handleChatCompletion handles POST /v1/chat/completions.
func (a *Adapter) handleChatCompletion(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			a.writeHandlerError(w, r, "chat completion rejected",
				api.NewInvalidRequestError("Content-Type must be application/json"))
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			a.writeHandlerError(w, r, "chat completion rejected",
				api.NewInvalidRequestError(fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)))
			return
		}
		a.writeHandlerError(w, r, "chat completion rejected",
			api.NewInvalidRequestError("failed to read request body: "+err.Error()))
		return
	}

	req, apiErr := api.ParseChatCompletionRequest(body)
	if apiErr != nil {
		a.writeHandlerError(w, r, "chat completion rejected", apiErr)
		return
	}

	resp, err := a.creator.CreateCompletion(r.Context(), req)
	if err != nil {
		// Already logged by the Logging middleware when it is installed.
		transport.WriteAPIError(w, toAPIError(err))
		return
	}
	transport.WriteJSON(w, http.StatusOK, resp)
}

// handleNotFound answers every unmatched method and path.
func (a *Adapter) handleNotFound(w http.ResponseWriter, r *http.Request) {
	a.logger.WarnContext(r.Context(), "route not found",
		"request_id", transport.RequestIDFromContext(r.Context()),
		"method", r.Method,
		"uri", r.URL.RequestURI(),
	)
	transport.WriteAPIError(w, api.NewNotFoundError(r.URL.RequestURI()))
}

// writeHandlerError logs err under tag and writes it as a JSON error.
func (a *Adapter) writeHandlerError(w http.ResponseWriter, r *http.Request, tag string, err error) {
	apiErr := toAPIError(err)
	a.logger.ErrorContext(r.Context(), tag,
		"request_id", transport.RequestIDFromContext(r.Context()),
		"kind", string(apiErr.Kind),
		"error", err.Error(),
	)
	transport.WriteAPIError(w, apiErr)
}

// toAPIError converts any error into an APIError. Errors outside the
// taxonomy become a generic internal error.
func toAPIError(err error) *api.APIError {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return api.NewInternalError()
}
