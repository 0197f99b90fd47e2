// Package observability provides hooks for instrumenting calls to the
// compositing service without tying the client to a metrics backend.
//
// Register hooks once at startup; the service client reports every request
// through [HTTP]:
//
//	observability.SetHTTPHooks(&myHooks{})
//
// The default hooks do nothing.
package observability

import (
	"context"
	"sync"
	"time"
)

// HTTPHooks receives events from service client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing request to the given endpoint path.
	OnRequest(ctx context.Context, requestID, method, path string)

	// OnResponse records a completed response, successful or not.
	OnResponse(ctx context.Context, requestID, method, path string, statusCode int, duration time.Duration)

	// OnError records a transport failure (connection refused, timeout).
	OnError(ctx context.Context, requestID, method, path string, err error)
}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string) {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {
}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error) {}

var (
	httpHooks HTTPHooks = NoopHTTPHooks{}
	hooksMu   sync.RWMutex
)

// SetHTTPHooks registers custom HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op defaults. Intended for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	httpHooks = NoopHTTPHooks{}
}
