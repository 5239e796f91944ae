// Package apikey admits callers that present one of a fixed set of proxy
// keys. OpenAI SDKs send the key as "Authorization: Bearer <key>"; Azure
// style clients send it in the "api-key" header. Both are understood.
//
// Only SHA-256 digests of the keys are kept in memory.
package apikey

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"maps"
	"net/http"
	"strings"

	"github.com/rhuss/gemini-proxy/pkg/auth"
)

// Header is the alternative header carrying the key.
const Header = "api-key"

// Key is one configured proxy key and the identity it grants.
type Key struct {
	Value    string
	Identity auth.Identity
}

type entry struct {
	digest   [sha256.Size]byte
	identity auth.Identity
}

// Store checks presented keys against the configured set.
type Store struct {
	entries []entry
}

// New hashes keys into a Store. Entries with an empty Value are skipped.
func New(keys []Key) *Store {
	s := &Store{entries: make([]entry, 0, len(keys))}
	for _, k := range keys {
		if k.Value == "" {
			continue
		}
		s.entries = append(s.entries, entry{
			digest:   sha256.Sum256([]byte(k.Value)),
			identity: k.Identity,
		})
	}
	return s
}

// Len reports how many keys the store accepts.
func (s *Store) Len() int { return len(s.entries) }

// Authenticate abstains when no key is presented, rejects an unknown or
// empty key, and accepts a known one.
func (s *Store) Authenticate(_ context.Context, r *http.Request) auth.Result {
	key, scheme, ok := presentedKey(r)
	if !ok {
		return auth.Result{Decision: auth.Abstain}
	}
	if key == "" {
		return auth.Result{Decision: auth.Reject, Err: auth.ErrInvalidKey}
	}

	digest := sha256.Sum256([]byte(key))
	match := -1
	// Every entry is compared so the time taken does not depend on the match.
	for i := range s.entries {
		if subtle.ConstantTimeCompare(digest[:], s.entries[i].digest[:]) == 1 && match < 0 {
			match = i
		}
	}
	if match < 0 {
		return auth.Result{Decision: auth.Reject, Err: auth.ErrInvalidKey}
	}

	id := s.entries[match].identity
	id.Scheme = scheme
	id.Metadata = maps.Clone(id.Metadata)
	return auth.Result{Decision: auth.Accept, Identity: &id}
}

// presentedKey extracts the key from the Authorization header, whose
// scheme name is case-insensitive, or from the api-key header. A
// non-Bearer Authorization header is ignored.
func presentedKey(r *http.Request) (key, scheme string, ok bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		name, token, _ := strings.Cut(strings.TrimSpace(h), " ")
		if strings.EqualFold(name, "Bearer") {
			return strings.TrimSpace(token), auth.SchemeBearer, true
		}
	}
	if values := r.Header.Values(Header); len(values) > 0 {
		return strings.TrimSpace(values[0]), auth.SchemeAPIKey, true
	}
	return "", "", false
}
