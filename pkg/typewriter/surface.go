package typewriter

import "sync"

// Surface is anything that can display an HTML fragment.
//
// SetHTML replaces the whole content each time. Implementations must be safe
// to call from the goroutine running the renderer.
type Surface interface {
	SetHTML(html string)
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func(html string)

// SetHTML calls f(html).
func (f SurfaceFunc) SetHTML(html string) { f(html) }

// Target is where and how a render happens.
type Target struct {
	Surface Surface

	// Name identifies the target in observability events ("answer",
	// "sources").
	Name string

	// RTL selects Arabic-indic ordered list markers.
	RTL bool

	// Sources marks a sources region, whose unordered items get no bullet.
	Sources bool
}

// Buffer is a Surface that keeps the latest HTML in memory.
type Buffer struct {
	mu     sync.Mutex
	html   string
	writes int
}

// SetHTML implements Surface.
func (b *Buffer) SetHTML(html string) {
	b.mu.Lock()
	b.html = html
	b.writes++
	b.mu.Unlock()
}

// HTML returns the current content.
func (b *Buffer) HTML() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.html
}

// Writes returns how many times SetHTML was called.
func (b *Buffer) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}
