// Package noop admits every caller. It backs auth.type "none", which keeps
// the /v1 routes as open as they are without authentication.
package noop

import (
	"context"
	"net/http"

	"github.com/rhuss/gemini-proxy/pkg/auth"
)

// Authenticator accepts every request as the anonymous caller.
type Authenticator struct{}

// Authenticate always accepts.
func (Authenticator) Authenticate(context.Context, *http.Request) auth.Result {
	return auth.Result{
		Decision: auth.Accept,
		Identity: &auth.Identity{Subject: auth.AnonymousSubject, Scheme: auth.SchemeNone},
	}
}
