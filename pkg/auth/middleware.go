package auth

import (
	"log/slog"
	"net/http"

	"github.com/rhuss/gemini-proxy/pkg/api"
	"github.com/rhuss/gemini-proxy/pkg/observability"
	"github.com/rhuss/gemini-proxy/pkg/transport"
)

// Middleware guards a handler with chain. A rejected request gets a 401
// with an invalid_request body and a Bearer challenge; an accepted one
// reaches next with its Identity in the context.
func Middleware(chain *Chain) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			res := chain.Authenticate(ctx, r)

			if res.Decision != Accept || res.Identity == nil {
				slog.WarnContext(ctx, "authentication failed",
					"request_id", transport.RequestIDFromContext(ctx),
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"decision", res.Decision.String(),
					"error", res.Err,
				)
				observability.AuthRejectedTotal.Inc()
				w.Header().Set("WWW-Authenticate", `Bearer realm="gemini-proxy"`)
				transport.WriteAPIError(w, api.NewUnauthenticatedError())
				return
			}

			if res.Identity.Subject == "" {
				slog.ErrorContext(ctx, "authenticator accepted a request without a subject",
					"request_id", transport.RequestIDFromContext(ctx),
					"scheme", res.Identity.Scheme,
				)
				transport.WriteAPIError(w, api.NewInternalError())
				return
			}

			slog.DebugContext(ctx, "caller authenticated",
				"subject", res.Identity.Subject,
				"scheme", res.Identity.Scheme,
			)
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, *res.Identity)))
		})
	}
}
