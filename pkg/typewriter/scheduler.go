package typewriter

import (
	"context"
	"sync"
	"time"
)

// Default timings.
const (
	DefaultCharDelay     = 15 * time.Millisecond
	DefaultFrameInterval = 16 * time.Millisecond
)

// Scheduler is how the renderer gives control back between steps.
//
// Frame is called after a tag and after the end of a text run. Sleep is
// called after every revealed rune. Both return ctx.Err() once ctx is done.
type Scheduler interface {
	Frame(ctx context.Context) error
	Sleep(ctx context.Context, d time.Duration) error
}

// RealScheduler waits on timers. A frame lasts FrameInterval, or
// DefaultFrameInterval when it is zero.
type RealScheduler struct {
	FrameInterval time.Duration
}

// Frame waits one frame interval.
func (s RealScheduler) Frame(ctx context.Context) error {
	d := s.FrameInterval
	if d <= 0 {
		d = DefaultFrameInterval
	}
	return s.Sleep(ctx, d)
}

// Sleep waits for d or until ctx is done.
func (RealScheduler) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type instant struct{}

func (instant) Frame(ctx context.Context) error                 { return ctx.Err() }
func (instant) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// Instant never waits. It is used when animation is turned off.
var Instant Scheduler = instant{}

// VirtualScheduler advances a virtual clock instead of sleeping.
//
// It counts frames and sleeps and sums the time a RealScheduler would have
// spent. OnYield, when set, runs at every yield after the counters are
// updated, which lets tests observe the surface between steps.
type VirtualScheduler struct {
	FrameInterval time.Duration
	OnYield       func()

	mu      sync.Mutex
	frames  int
	sleeps  int
	elapsed time.Duration
}

// NewVirtualScheduler returns a VirtualScheduler using DefaultFrameInterval.
func NewVirtualScheduler() *VirtualScheduler {
	return &VirtualScheduler{FrameInterval: DefaultFrameInterval}
}

// Frame records one frame.
func (s *VirtualScheduler) Frame(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.frames++
	s.elapsed += s.FrameInterval
	s.mu.Unlock()
	s.yield()
	return nil
}

// Sleep records one sleep of d.
func (s *VirtualScheduler) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.sleeps++
	s.elapsed += d
	s.mu.Unlock()
	s.yield()
	return nil
}

func (s *VirtualScheduler) yield() {
	if s.OnYield != nil {
		s.OnYield()
	}
}

// Frames returns the number of frame yields so far.
func (s *VirtualScheduler) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Sleeps returns the number of timed yields so far.
func (s *VirtualScheduler) Sleeps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sleeps
}

// Elapsed returns the virtual time spent.
func (s *VirtualScheduler) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}
