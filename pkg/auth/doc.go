// Package auth is the optional inbound check in front of the /v1 routes.
//
// Authenticators vote Accept, Reject or Abstain. A Chain asks them in
// order and the first non-abstaining vote wins; if every one abstains the
// request is refused unless the chain allows anonymous callers. Middleware
// turns a refusal into a 401 and records the accepted Identity in the
// request context. The health check and unknown routes never pass through it.
package auth
