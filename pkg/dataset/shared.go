package dataset

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// Default eviction policy for [SharedLoader].
const (
	DefaultIdleTTL = time.Minute
)

// SharedOptions configures a [SharedLoader].
type SharedOptions struct {
	// IdleTTL is how long an unreferenced table stays cached.
	// Zero means DefaultIdleTTL; negative evicts on the last release.
	IdleTTL time.Duration

	// MaxAge forces a reload of tables older than this, even while
	// referenced. Zero disables age-based invalidation.
	MaxAge time.Duration

	Logger *log.Logger

	// Now is the clock used for eviction decisions (tests).
	Now func() time.Time
}

// SharedLoader is an asynchronous memoized loader keyed by locator.
// It is safe for concurrent use.
type SharedLoader struct {
	source Source
	opts   SharedOptions
	group  singleflight.Group

	mu      sync.Mutex
	entries map[string]*sharedEntry
	loads   int
}

type sharedEntry struct {
	table     *Table
	refs      int
	loadedAt  time.Time
	idleSince time.Time
}

// NewSharedLoader wraps source with memoization.
func NewSharedLoader(source Source, opts SharedOptions) *SharedLoader {
	if opts.IdleTTL == 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SharedLoader{
		source:  source,
		opts:    opts,
		entries: make(map[string]*sharedEntry),
	}
}

// Acquire returns the table for locator, loading it at most once across
// concurrent callers. The returned release func must be called when the
// caller no longer needs the table; calling it more than once is a no-op.
//
// If ctx ends while waiting, Acquire returns ctx.Err() but the shared load
// keeps running for the other waiters.
func (l *SharedLoader) Acquire(ctx context.Context, locator string) (*Table, func(), error) {
	l.mu.Lock()
	l.sweepLocked()
	if e, ok := l.entries[locator]; ok && !l.staleLocked(e) {
		e.refs++
		l.mu.Unlock()
		l.opts.Logger.Debug("dataset cache hit", "locator", locator, "refs", e.refs)
		return e.table, l.releaser(locator, e), nil
	}
	l.mu.Unlock()

	ch := l.group.DoChan(locator, func() (any, error) {
		return l.load(context.WithoutCancel(ctx), locator)
	})

	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, nil, res.Err
		}
		l.mu.Lock()
		e, ok := l.entries[locator]
		if !ok || e.table != res.Val.(*Table) {
			// Evicted or replaced between load and pickup; re-register.
			e = &sharedEntry{table: res.Val.(*Table), loadedAt: l.opts.Now()}
			l.entries[locator] = e
		}
		e.refs++
		l.mu.Unlock()
		return e.table, l.releaser(locator, e), nil
	}
}

// Load acquires locator and releases it immediately, leaving the table
// cached for IdleTTL. It satisfies [Source].
func (l *SharedLoader) Load(ctx context.Context, locator string) (*Table, error) {
	t, release, err := l.Acquire(ctx, locator)
	if err != nil {
		return nil, err
	}
	release()
	return t, nil
}

func (l *SharedLoader) load(ctx context.Context, locator string) (*Table, error) {
	start := l.opts.Now()
	t, err := l.source.Load(ctx, locator)
	if err != nil {
		l.opts.Logger.Error("dataset load failed", "locator", locator, "err", err)
		return nil, err
	}
	l.opts.Logger.Debug("dataset loaded", "locator", locator, "rows", t.Len(), "duration", time.Since(start))

	l.mu.Lock()
	l.loads++
	l.entries[locator] = &sharedEntry{
		table:     t,
		loadedAt:  l.opts.Now(),
		idleSince: l.opts.Now(),
	}
	l.mu.Unlock()
	return t, nil
}

func (l *SharedLoader) releaser(locator string, e *sharedEntry) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			e.refs--
			if e.refs > 0 {
				return
			}
			e.idleSince = l.opts.Now()
			if l.opts.IdleTTL < 0 && l.entries[locator] == e {
				delete(l.entries, locator)
			}
		})
	}
}

// Invalidate drops the cached table for locator. Holders of the table keep
// their reference; the next Acquire reloads.
func (l *SharedLoader) Invalidate(locator string) {
	l.mu.Lock()
	delete(l.entries, locator)
	l.mu.Unlock()
	l.group.Forget(locator)
}

// Sweep evicts unreferenced entries idle for longer than IdleTTL.
func (l *SharedLoader) Sweep() {
	l.mu.Lock()
	l.sweepLocked()
	l.mu.Unlock()
}

// Cached reports whether a table for locator is currently memoized.
func (l *SharedLoader) Cached(locator string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[locator]
	return ok
}

// Loads returns how many times the underlying source was called successfully.
func (l *SharedLoader) Loads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

func (l *SharedLoader) sweepLocked() {
	now := l.opts.Now()
	for loc, e := range l.entries {
		if e.refs == 0 && now.Sub(e.idleSince) > l.opts.IdleTTL {
			delete(l.entries, loc)
		}
	}
}

func (l *SharedLoader) staleLocked(e *sharedEntry) bool {
	return l.opts.MaxAge > 0 && l.opts.Now().Sub(e.loadedAt) > l.opts.MaxAge
}

var _ Source = (*SharedLoader)(nil)
