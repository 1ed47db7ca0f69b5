// Package playback drives continuous, loopable playback of discrete
// time snapshots at a fixed per-step duration. Each frame the clock
// exposes (snapshot index, fractional progress) to its subscriber;
// consumers combine that with score interpolation to animate a chart.
package playback

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// State is the clock's lifecycle state.
type State int

// Clock states.
const (
	Stopped State = iota
	Playing
	Paused
)

// String returns a readable state name.
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Frame is one emitted playback position: the current snapshot index
// and the fractional progress toward the next snapshot.
type Frame struct {
	Index    int     `json:"index"`
	Fraction float64 `json:"fraction"`
}

// Subscriber receives frames while the clock is playing.
type Subscriber func(Frame)

// Default clock configuration constants.
const (
	defaultStepDuration        = 2 * time.Second
	defaultFrameInterval       = 16 * time.Millisecond
	defaultVisibilityThreshold = 0.3
)

// Option applies a configuration option to the Clock.
type Option func(*Clock)

// WithStepDuration sets the time to move from one snapshot to the next.
func WithStepDuration(d time.Duration) Option {
	return func(c *Clock) {
		if d > 0 {
			c.stepDuration = d
		}
	}
}

// WithFrameInterval sets how often the subscriber is invoked. Playback
// position is a function of elapsed wall-clock time, not of tick count,
// so a coarser interval never changes playback speed.
func WithFrameInterval(d time.Duration) Option {
	return func(c *Clock) {
		if d > 0 {
			c.frameInterval = d
		}
	}
}

// WithVisibilityThreshold sets the visibility ratio at which the clock
// autostarts the first time its container becomes visible.
func WithVisibilityThreshold(ratio float64) Option {
	return func(c *Clock) {
		if ratio > 0 && ratio <= 1 {
			c.threshold = ratio
		}
	}
}

// WithNow injects a time source. Tests use this to simulate elapsed
// time deterministically.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// Clock is an instance-scoped playback clock. Each chart owns one and
// must call Dispose on teardown; a clock left running is a dangling
// per-frame callback.
type Clock struct {
	mu sync.Mutex

	snapshotCount int
	stepDuration  time.Duration
	frameInterval time.Duration
	threshold     float64
	now           func() time.Time

	state         State
	startRef      time.Time     // reference instant; elapsed = now - startRef
	frozenElapsed time.Duration // elapsed captured at pause
	autostarted   bool          // visibility autostart fired already
	sub           Subscriber

	cancel   context.CancelFunc
	loopDone chan struct{}
	disposed bool
}

// NewClock creates a clock over snapshotCount snapshots.
func NewClock(snapshotCount int, opts ...Option) (*Clock, error) {
	if snapshotCount < 1 {
		return nil, fmt.Errorf("%w: %d", ErrNoSnapshots, snapshotCount)
	}
	c := &Clock{
		snapshotCount: snapshotCount,
		stepDuration:  defaultStepDuration,
		frameInterval: defaultFrameInterval,
		threshold:     defaultVisibilityThreshold,
		now:           time.Now,
		state:         Stopped,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Subscribe registers the frame callback. The last registration wins.
func (c *Clock) Subscribe(fn Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sub = fn
}

// State returns the current lifecycle state.
func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FrameAt is the pure playback function: it maps elapsed wall-clock
// time onto (index, fraction). The loop is infinite and seamless; an
// elapsed of exactly snapshotCount*stepDuration lands back on
// (0, 0), identical to elapsed 0.
func (c *Clock) FrameAt(elapsed time.Duration) Frame {
	loop := c.stepDuration * time.Duration(c.snapshotCount)
	pos := elapsed % loop
	if pos < 0 {
		pos += loop
	}
	exact := float64(pos) / float64(c.stepDuration)
	idx := int(exact)
	return Frame{
		Index:    idx % c.snapshotCount,
		Fraction: exact - float64(idx),
	}
}

// Current returns the frame the clock is at right now: live position
// while playing, the frozen position while paused, the origin when
// stopped.
func (c *Clock) Current() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

func (c *Clock) currentLocked() Frame {
	switch c.state {
	case Playing:
		return c.FrameAt(c.now().Sub(c.startRef))
	case Paused:
		return c.FrameAt(c.frozenElapsed)
	default:
		return Frame{}
	}
}

// Start transitions Stopped -> Playing and begins emitting frames to
// the subscriber until ctx is canceled or Dispose is called. Starting a
// clock that is not stopped is a no-op.
func (c *Clock) Start(ctx context.Context) {
	c.mu.Lock()
	if c.disposed || c.state != Stopped {
		c.mu.Unlock()
		return
	}
	c.state = Playing
	c.startRef = c.now()
	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.loopDone = make(chan struct{})
	done := c.loopDone
	c.mu.Unlock()

	go c.run(loopCtx, done)
}

// run is the frame loop. It emits only while playing; pausing freezes
// emissions without tearing the loop down.
func (c *Clock) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.state != Playing {
				c.mu.Unlock()
				continue
			}
			f := c.currentLocked()
			sub := c.sub
			c.mu.Unlock()
			if sub != nil {
				sub(f)
			}
		}
	}
}

// Pause transitions Playing -> Paused, freezing at the current frame.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Playing {
		return
	}
	c.frozenElapsed = c.now().Sub(c.startRef)
	c.state = Paused
}

// Resume transitions Paused -> Playing. The reference instant is
// re-based so playback continues from the frozen frame instead of
// jumping back to index 0.
func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Paused {
		return
	}
	c.startRef = c.now().Add(-c.frozenElapsed)
	c.state = Playing
}

// Toggle flips between Playing and Paused. This is the hook for a
// click, tap, or keyboard activation; a stopped clock starts playing.
func (c *Clock) Toggle(ctx context.Context) {
	switch c.State() {
	case Playing:
		c.Pause()
	case Paused:
		c.Resume()
	case Stopped:
		c.Start(ctx)
	}
}

// OnVisibility reports the visible ratio of the chart's container. The
// first time the ratio crosses the threshold the clock autostarts; the
// transition fires at most once per clock instance, so later visibility
// changes never restart playback.
func (c *Clock) OnVisibility(ctx context.Context, ratio float64) {
	c.mu.Lock()
	fire := !c.autostarted && !c.disposed && ratio >= c.threshold && c.state == Stopped
	if fire {
		c.autostarted = true
	}
	c.mu.Unlock()
	if fire {
		c.Start(ctx)
	}
}

// Dispose stops the frame loop and detaches the subscriber. Disposal is
// mandatory on teardown and idempotent, so hosts can call it
// unconditionally.
func (c *Clock) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.state = Stopped
	c.sub = nil
	cancel := c.cancel
	done := c.loopDone
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
