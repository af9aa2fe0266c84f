package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fatwa/pkg/observability"
)

// logHooks forwards library events to the logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func installHooks(l *log.Logger) {
	observability.Register(logHooks{logger: l})
}

func (h logHooks) OnRenderStart(_ context.Context, target string, tokens int) {
	h.logger.Debug("render start", "target", target, "tokens", tokens)
}

func (h logHooks) OnRenderComplete(_ context.Context, target string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed, showing full content", "target", target, "err", err)
		return
	}
	h.logger.Debug("render done", "target", target, "elapsed", d.Round(time.Millisecond))
}

func (h logHooks) OnStateChange(_ context.Context, from, to string) {
	h.logger.Debug("session", "from", from, "to", to)
}

func (h logHooks) OnSubmitRejected(_ context.Context, state string) {
	h.logger.Debug("input rejected", "state", state)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "elapsed", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("request failed", "method", method, "host", host, "path", path, "err", err)
}
