package typewriter

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/fatwa/pkg/errors"
	"github.com/matzehuels/fatwa/pkg/markup"
	"github.com/matzehuels/fatwa/pkg/observability"
)

// Renderer animates HTML onto surfaces.
type Renderer struct {
	Scheduler Scheduler

	// CharDelay is the sleep after each revealed rune. Zero means
	// DefaultCharDelay; use the Instant scheduler to skip waiting.
	CharDelay time.Duration

	// FlatLists is passed to markup.Tokenize.
	FlatLists bool
}

// NewRenderer returns a Renderer using s, or a RealScheduler when s is nil.
func NewRenderer(s Scheduler) *Renderer {
	if s == nil {
		s = RealScheduler{}
	}
	return &Renderer{Scheduler: s, CharDelay: DefaultCharDelay}
}

// Tokens tokenizes html the way Render would for target.
func (r *Renderer) Tokens(target Target, html string) []markup.Token {
	return markup.Tokenize(html, markup.Options{
		RTL:       target.RTL,
		Sources:   target.Sources,
		FlatLists: r.FlatLists,
	})
}

// Render tokenizes html and animates it onto target.Surface, then calls
// onComplete. See Play for the failure behaviour.
func (r *Renderer) Render(ctx context.Context, target Target, html string, onComplete func()) error {
	var tokens []markup.Token
	err := guard(func() error {
		tokens = r.Tokens(target, html)
		return nil
	})
	if err != nil {
		observability.Render().OnRenderComplete(ctx, target.Name, 0, err)
		r.fallback(target, html)
		complete(onComplete)
		return err
	}
	return r.Play(ctx, target, tokens, html, onComplete)
}

// Play animates pre-tokenized input onto target.Surface.
//
// onComplete (if non-nil) is called exactly once, after the last step or
// after the fallback. On a panic, a scheduler error or a cancelled ctx the
// surface is set to fallbackHTML and the cause is returned.
func (r *Renderer) Play(ctx context.Context, target Target, tokens []markup.Token, fallbackHTML string, onComplete func()) (err error) {
	hooks := observability.Render()
	start := time.Now()
	hooks.OnRenderStart(ctx, target.Name, len(tokens))

	err = guard(func() error { return r.play(ctx, target.Surface, tokens) })
	if err != nil {
		r.fallback(target, fallbackHTML)
	}
	hooks.OnRenderComplete(ctx, target.Name, time.Since(start), err)
	complete(onComplete)
	return err
}

func (r *Renderer) play(ctx context.Context, surface Surface, tokens []markup.Token) error {
	if surface == nil {
		return errors.New(errors.ErrCodeInternal, "render target has no surface")
	}
	sched := r.Scheduler
	if sched == nil {
		sched = RealScheduler{}
	}
	delay := r.CharDelay
	if delay <= 0 {
		delay = DefaultCharDelay
	}

	a := NewAnimation(tokens)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		step, ok := a.Next()
		if !ok {
			return nil
		}
		if step.Mutates() {
			surface.SetHTML(step.Output)
		}
		var err error
		if step.Kind == StepRune {
			err = sched.Sleep(ctx, delay)
		} else {
			err = sched.Frame(ctx)
		}
		if err != nil {
			return err
		}
	}
}

// fallback shows the full HTML. A surface that panics here is ignored; the
// completion callback must still run.
func (r *Renderer) fallback(target Target, html string) {
	if target.Surface == nil {
		return
	}
	_ = guard(func() error {
		target.Surface.SetHTML(html)
		return nil
	})
}

func complete(onComplete func()) {
	if onComplete != nil {
		onComplete()
	}
}

// guard runs fn and turns a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.New(errors.ErrCodeInternal, "render panic: %s", fmt.Sprint(p))
		}
	}()
	return fn()
}
