package cache

import (
	"context"
	"sync"
)

type memoCtxKey struct{}

// RequestMemo is a per-request memo table. Identity resolution is computed at
// most once per request; everything downstream of the middleware reads the
// memoized result instead of re-resolving.
type RequestMemo struct {
	mu     sync.Mutex
	values map[string]any
}

func NewRequestMemo() *RequestMemo {
	return &RequestMemo{values: make(map[string]any)}
}

// WithRequestMemo returns a child context carrying a fresh memo table.
func WithRequestMemo(ctx context.Context) context.Context {
	return context.WithValue(ctx, memoCtxKey{}, NewRequestMemo())
}

// MemoFromContext extracts the request memo, if one was installed.
func MemoFromContext(ctx context.Context) (*RequestMemo, bool) {
	memo, ok := ctx.Value(memoCtxKey{}).(*RequestMemo)
	return memo, ok
}

// Get returns the memoized value for key.
func (m *RequestMemo) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	return v, ok
}

// Set memoizes value under key for the remainder of the request.
func (m *RequestMemo) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
}
