// Package typewriter reveals rendered HTML progressively on a Surface.
//
// The renderer tokenizes the HTML with package markup and walks the tokens
// in order. Tags are appended whole and followed by one frame yield. Text is
// appended one rune at a time with a short sleep between runes; after the
// last rune of a text run the renderer yields one more frame. After every
// mutation the surface receives the complete output so far, never a delta.
//
// All waiting goes through a Scheduler, so the same code runs against real
// timers in the terminal client and against a VirtualScheduler in tests:
//
//	r := typewriter.NewRenderer(typewriter.NewVirtualScheduler())
//	err := r.Render(ctx, typewriter.Target{Surface: buf}, html, done)
//
// Rendering fails open. If tokenizing or stepping panics, if the scheduler
// returns an error, or if ctx is cancelled, the surface is set to the
// original HTML and the completion callback still runs exactly once.
//
// Callers that want to drive the animation themselves (a bubbletea program
// ticking on its own clock, for instance) use Animation directly.
package typewriter
