// Package observability lets the fatwa libraries report what they do without
// depending on a logger or metrics backend.
//
// The typewriter, chat, backend and cache packages emit events through the
// hook interfaces below. By default every event is dropped. A program
// registers one value with [Register]; each hook interface that value
// implements starts receiving events:
//
//	type logHooks struct{ logger *log.Logger }
//
//	func (h logHooks) OnRenderStart(ctx context.Context, target string, tokens int) { ... }
//	func (h logHooks) OnRenderComplete(ctx context.Context, target string, d time.Duration, err error) { ... }
//
//	observability.Register(logHooks{logger}) // render events only
//
// Libraries fetch the current hooks at the call site:
//
//	observability.Render().OnRenderStart(ctx, "answer", len(tokens))
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// RenderHooks receives typewriter events. Target is "answer" or "sources".
type RenderHooks interface {
	OnRenderStart(ctx context.Context, target string, tokens int)

	// OnRenderComplete is called once per render. A non-nil err means the
	// renderer gave up and showed the full content at once.
	OnRenderComplete(ctx context.Context, target string, duration time.Duration, err error)
}

// SessionHooks receives chat session state machine events.
type SessionHooks interface {
	OnStateChange(ctx context.Context, from, to string)

	// OnSubmitRejected reports a question refused while the session was in
	// state.
	OnSubmitRejected(ctx context.Context, state string)
}

// CacheHooks receives cache events. KeyType is the kind of cached value,
// such as "translations" or "sources".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives backend request events.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError reports a request that got no response.
	OnError(ctx context.Context, method, host, path string, err error)
}

// Noop implements every hook interface and drops all events. Embed it to
// implement only the methods of interest.
type Noop struct{}

func (Noop) OnRenderStart(context.Context, string, int)                             {}
func (Noop) OnRenderComplete(context.Context, string, time.Duration, error)         {}
func (Noop) OnStateChange(context.Context, string, string)                          {}
func (Noop) OnSubmitRejected(context.Context, string)                               {}
func (Noop) OnCacheHit(context.Context, string)                                     {}
func (Noop) OnCacheMiss(context.Context, string)                                    {}
func (Noop) OnCacheSet(context.Context, string, int)                                {}
func (Noop) OnRequest(context.Context, string, string, string)                      {}
func (Noop) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (Noop) OnError(context.Context, string, string, string, error)                 {}

var (
	_ RenderHooks  = Noop{}
	_ SessionHooks = Noop{}
	_ CacheHooks   = Noop{}
	_ HTTPHooks    = Noop{}
)

// hookSet is swapped as a whole so readers never see a partial update.
type hookSet struct {
	render  RenderHooks
	session SessionHooks
	cache   CacheHooks
	http    HTTPHooks
}

var current atomic.Pointer[hookSet]

func init() { Reset() }

// Register installs h for every hook interface it implements and reports
// how many that was. Interfaces h does not implement keep their current
// hooks. Registering nil is a no-op.
func Register(h any) int {
	if h == nil {
		return 0
	}
	for {
		old := current.Load()
		next, n := *old, 0
		if r, ok := h.(RenderHooks); ok {
			next.render, n = r, n+1
		}
		if s, ok := h.(SessionHooks); ok {
			next.session, n = s, n+1
		}
		if c, ok := h.(CacheHooks); ok {
			next.cache, n = c, n+1
		}
		if x, ok := h.(HTTPHooks); ok {
			next.http, n = x, n+1
		}
		if n == 0 || current.CompareAndSwap(old, &next) {
			return n
		}
	}
}

// Reset drops all registered hooks. Tests call it in a defer after
// Register.
func Reset() {
	current.Store(&hookSet{render: Noop{}, session: Noop{}, cache: Noop{}, http: Noop{}})
}

// Render returns the registered render hooks.
func Render() RenderHooks { return current.Load().render }

// Session returns the registered session hooks.
func Session() SessionHooks { return current.Load().session }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }
