package auth

import (
	"context"
	"errors"
	"net/http"
)

// Decision is an authenticator's vote on a single request.
type Decision int

const (
	// Abstain means the request carries no credential this authenticator
	// understands. The chain asks the next one.
	Abstain Decision = iota

	// Accept means the presented credential is valid.
	Accept

	// Reject means a credential was presented and it is wrong.
	Reject
)

func (d Decision) String() string {
	switch d {
	case Abstain:
		return "abstain"
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	}
	return "unknown"
}

// Schemes recorded on an Identity.
const (
	SchemeBearer = "bearer"
	SchemeAPIKey = "api-key"
	SchemeNone   = "none"
)

// AnonymousSubject identifies callers admitted without a credential.
const AnonymousSubject = "anonymous"

var (
	// ErrUnauthenticated is reported when nobody vouches for the request.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidKey is reported for a presented key that matches nothing.
	ErrInvalidKey = errors.New("invalid API key")
)

// Identity is the caller of a /v1 route.
type Identity struct {
	Subject  string            // required
	Scheme   string            // how the credential was presented
	Metadata map[string]string // free-form labels from configuration
}

// Result is the outcome of one authentication attempt.
type Result struct {
	Decision Decision
	Identity *Identity // set on Accept
	Err      error     // set on Reject
}

// Authenticator votes on the credentials of a request.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) Result
}

// Chain asks its authenticators in order; the first vote that is not
// Abstain decides. When all abstain the request is rejected unless
// AllowAnonymous is set, so the zero Chain admits nobody.
type Chain struct {
	Authenticators []Authenticator
	AllowAnonymous bool
}

// Authenticate runs the chain for r.
func (c *Chain) Authenticate(ctx context.Context, r *http.Request) Result {
	for _, a := range c.Authenticators {
		if res := a.Authenticate(ctx, r); res.Decision != Abstain {
			return res
		}
	}
	if c.AllowAnonymous {
		return Result{
			Decision: Accept,
			Identity: &Identity{Subject: AnonymousSubject, Scheme: SchemeNone},
		}
	}
	return Result{Decision: Reject, Err: ErrUnauthenticated}
}
