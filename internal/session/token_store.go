// Package session holds the bearer credential used by every API call.
package session

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload segment of the stored token.
type Claims struct {
	values jwt.MapClaims
}

// UserID returns the user identifier, looking at the keys the portal has used over time.
func (c *Claims) UserID() string {
	if c == nil {
		return ""
	}
	for _, key := range []string{"userId", "user_id", "sub"} {
		switch v := c.values[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// ExpiresAt returns the exp claim when present and well formed.
func (c *Claims) ExpiresAt() (time.Time, bool) {
	if c == nil {
		return time.Time{}, false
	}
	exp, err := c.values.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Get returns a raw claim value.
func (c *Claims) Get(key string) (interface{}, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.values[key]
	return v, ok
}

// Session pairs a raw token with the claims derived from it. A Session is
// never mutated after construction, so claims cannot go stale.
type Session struct {
	Token  string
	Claims *Claims
}

// TokenStore holds the current Session. Readers load a snapshot with a single
// atomic read; login/logout swap the whole value.
type TokenStore struct {
	current atomic.Pointer[Session]
	now     func() time.Time
}

// NewTokenStore returns an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{now: time.Now}
}

// Set stores token and its decoded claims. A token that is not a decodable
// three-part JWT is still stored, with nil claims. Surrounding whitespace is
// trimmed, and an empty or blank token logs the session out exactly like
// Clear.
func (s *TokenStore) Set(token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		s.Clear()
		return
	}
	s.current.Store(&Session{Token: token, Claims: decodeClaims(token)})
}

// Clear removes the token and its claims.
func (s *TokenStore) Clear() {
	s.current.Store(nil)
}

// Snapshot returns the current session or nil.
func (s *TokenStore) Snapshot() *Session {
	return s.current.Load()
}

// Token returns the raw token or "".
func (s *TokenStore) Token() string {
	if sess := s.Snapshot(); sess != nil {
		return sess.Token
	}
	return ""
}

// Claims returns the decoded claims or nil.
func (s *TokenStore) Claims() *Claims {
	if sess := s.Snapshot(); sess != nil {
		return sess.Claims
	}
	return nil
}

// IsValid reports whether a token is stored. Expiry is not consulted; the
// server decides whether a token is still accepted.
func (s *TokenStore) IsValid() bool {
	return s.Snapshot() != nil
}

// IsExpired reports whether the stored claims carry an exp that has passed.
func (s *TokenStore) IsExpired() bool {
	exp, ok := s.Claims().ExpiresAt()
	if !ok {
		return false
	}
	return !s.now().Before(exp)
}

func decodeClaims(token string) *Claims {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil
	}
	parser := jwt.NewParser(jwt.WithPaddingAllowed())
	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	values := jwt.MapClaims{}
	if err := dec.Decode(&values); err != nil {
		return nil
	}
	return &Claims{values: values}
}
