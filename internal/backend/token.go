package backend

import "sync"

// TokenSource supplies the bearer credential attached to every request.
// The credential itself is issued by the authentication collaborator; the
// console only carries it. Invalidate is called when the remote API rejects
// the credential so no further calls are attempted with it.
type TokenSource interface {
	Token() string
	Invalidate()
}

// StaticToken is a TokenSource seeded once, typically from configuration.
type StaticToken struct {
	mu    sync.RWMutex
	token string
}

// NewStaticToken returns a TokenSource holding the given credential.
func NewStaticToken(token string) *StaticToken {
	return &StaticToken{token: token}
}

// Token returns the held credential, or "" after invalidation.
func (s *StaticToken) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Invalidate discards the held credential.
func (s *StaticToken) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
