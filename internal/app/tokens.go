package app

import (
	"strings"
	"sync"

	"github.com/pantopia/console/internal/session"
)

// tokenChain prefers a token supplied through config, env or flags and falls
// back to the one saved by `pantopia login`. A 401 forgets both.
type tokenChain struct {
	mu       sync.Mutex
	override string
	session  *session.Store
}

func (t *tokenChain) Token() (string, error) {
	t.mu.Lock()
	override := t.override
	t.mu.Unlock()
	if override != "" {
		return override, nil
	}
	if t.session == nil {
		return "", nil
	}
	return t.session.Token()
}

func (t *tokenChain) ClearToken() error {
	t.mu.Lock()
	t.override = ""
	t.mu.Unlock()
	if t.session == nil {
		return nil
	}
	return t.session.ClearToken()
}

func newTokenChain(override string, store *session.Store) *tokenChain {
	return &tokenChain{override: strings.TrimSpace(override), session: store}
}
