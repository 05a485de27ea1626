package payment

import (
	"context"
	"sync"
	"time"
)

// refreshMargin is subtracted from the token expiry so a token is never used
// right at its deadline.
const refreshMargin = 30 * time.Second

// tokenSource caches a provider access token and refreshes it before expiry.
// Acquisition is explicit and expiry-aware rather than an instance field
// mutated by a side-effecting init call.
type tokenSource struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
	fetch     func(ctx context.Context) (string, time.Time, error)
}

func newTokenSource(fetch func(ctx context.Context) (string, time.Time, error)) *tokenSource {
	return &tokenSource{
		now:   time.Now,
		fetch: fetch,
	}
}

// Token returns a valid access token, refreshing it when the cached one is
// missing or about to expire.
func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && ts.now().Before(ts.expiresAt.Add(-refreshMargin)) {
		return ts.token, nil
	}

	token, expiresAt, err := ts.fetch(ctx)
	if err != nil {
		return "", err
	}

	ts.token = token
	ts.expiresAt = expiresAt
	return token, nil
}

// Invalidate drops the cached token so the next call fetches a fresh one.
func (ts *tokenSource) Invalidate() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.token = ""
}
