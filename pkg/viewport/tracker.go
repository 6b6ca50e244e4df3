package viewport

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a size is published.
const DefaultDebounce = 200 * time.Millisecond

// Timer is the part of [time.Timer] the tracker needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d. [time.AfterFunc] satisfies it once
// adapted by [RealClock].
type AfterFunc func(d time.Duration, f func()) Timer

// RealClock schedules callbacks with [time.AfterFunc].
func RealClock(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// TrackerOptions configures a [Tracker].
type TrackerOptions struct {
	// Debounce is the quiet period. Zero uses DefaultDebounce; a negative
	// value publishes synchronously on every Observe.
	Debounce time.Duration
	// AfterFunc replaces the wall clock, mainly for tests.
	AfterFunc AfterFunc
}

// Tracker debounces size observations and publishes the latest one.
type Tracker struct {
	debounce time.Duration
	after    AfterFunc
	publish  func(Size)

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	latest  Size
	last    Size
	stopped bool
}

// NewTracker returns a Tracker that calls publish with each settled size.
// publish runs on the timer's goroutine and must not call back into the
// tracker.
func NewTracker(publish func(Size), opts TrackerOptions) *Tracker {
	if opts.Debounce == 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = RealClock
	}
	return &Tracker{
		debounce: opts.Debounce,
		after:    opts.AfterFunc,
		publish:  publish,
	}
}

// Observe records a new measurement and restarts the quiet period. Any
// pending publish of an earlier measurement is discarded.
func (t *Tracker) Observe(s Size) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.latest = s
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.debounce < 0 {
		gen := t.gen
		t.mu.Unlock()
		t.fire(gen)
		return
	}
	gen := t.gen
	t.timer = t.after(t.debounce, func() { t.fire(gen) })
	t.mu.Unlock()
}

// fire publishes the latest size if no newer observation or Stop
// happened since gen was issued.
func (t *Tracker) fire(gen uint64) {
	t.mu.Lock()
	if t.stopped || gen != t.gen {
		t.mu.Unlock()
		return
	}
	s := t.latest
	t.last = s
	t.timer = nil
	t.mu.Unlock()

	if t.publish != nil {
		t.publish(s)
	}
}

// Last returns the most recently published size.
func (t *Tracker) Last() Size {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Pending reports whether a publish is scheduled.
func (t *Tracker) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Stop cancels any pending publish. Observations after Stop are ignored.
// Stop is idempotent.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
