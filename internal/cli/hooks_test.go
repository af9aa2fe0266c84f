package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLogHooks(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(h logHooks)
		want  string
	}{
		{
			name:  "render start",
			level: log.DebugLevel,
			emit:  func(h logHooks) { h.OnRenderStart(context.Background(), "answer", 12) },
			want:  "tokens=12",
		},
		{
			name:  "render failure",
			level: log.InfoLevel,
			emit: func(h logHooks) {
				h.OnRenderComplete(context.Background(), "answer", time.Second, errors.New("boom"))
			},
			want: "render failed",
		},
		{
			name:  "state change",
			level: log.DebugLevel,
			emit:  func(h logHooks) { h.OnStateChange(context.Background(), "idle", "submitting") },
			want:  "to=submitting",
		},
		{
			name:  "cache set",
			level: log.DebugLevel,
			emit:  func(h logHooks) { h.OnCacheSet(context.Background(), "sources", 128) },
			want:  "bytes=128",
		},
		{
			name:  "request error",
			level: log.InfoLevel,
			emit: func(h logHooks) {
				h.OnError(context.Background(), "POST", "localhost", "/ask", errors.New("refused"))
			},
			want: "path=/ask",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(logHooks{logger: newLogger(&buf, tt.level)})
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := logHooks{logger: newLogger(&buf, log.InfoLevel)}
	h.OnCacheHit(context.Background(), "translations")
	h.OnResponse(context.Background(), "GET", "localhost", "/sources", 200, time.Millisecond)
	if buf.Len() != 0 {
		t.Errorf("debug events logged at info level: %q", buf.String())
	}
}
