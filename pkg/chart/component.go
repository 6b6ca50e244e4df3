package chart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/swapcharts/pkg/dataset"
	"github.com/matzehuels/swapcharts/pkg/observability"
	"github.com/matzehuels/swapcharts/pkg/render"
	"github.com/matzehuels/swapcharts/pkg/render/svg"
	"github.com/matzehuels/swapcharts/pkg/viewport"
)

// DataState tracks a chart's data.
type DataState int

const (
	Empty DataState = iota
	Loading
	Ready
)

func (s DataState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	}
	return "empty"
}

// SizeState tracks whether a chart has been measured.
type SizeState int

const (
	Unmeasured SizeState = iota
	Measured
)

func (s SizeState) String() string {
	if s == Measured {
		return "measured"
	}
	return "unmeasured"
}

// State is the joint data and size state.
type State struct {
	Data DataState
	Size SizeState
}

// CanDraw reports whether the state allows drawing.
func (s State) CanDraw() bool { return s.Data == Ready && s.Size == Measured }

func (s State) String() string { return s.Data.String() + "/" + s.Size.String() }

// Loader supplies tables. [dataset.SharedLoader] implements it.
type Loader interface {
	Acquire(ctx context.Context, locator string) (*dataset.Table, func(), error)
}

// Options configures a [Component].
type Options struct {
	Kind     Kind
	Locator  string
	Loader   Loader
	Surface  Surface
	Theme    render.Theme
	Settings Settings

	// Debounce and AfterFunc configure the size tracker.
	Debounce  time.Duration
	AfterFunc viewport.AfterFunc

	Logger *log.Logger
}

// Component is one chart bound to a data locator and a surface.
type Component struct {
	id      string
	opts    Options
	logger  *log.Logger
	tracker *viewport.Tracker

	mu        sync.Mutex
	data      DataState
	model     Model
	size      viewport.Size
	mounted   bool
	unmounted bool
	release   func()
	draws     int
	loadErr   error
	loaded    chan struct{}
}

// New validates opts and returns an unmounted component.
func New(opts Options) (*Component, error) {
	kind, err := ParseKind(string(opts.Kind))
	if err != nil {
		return nil, err
	}
	opts.Kind = kind
	if opts.Loader == nil {
		return nil, fmt.Errorf("chart %s: loader is required", opts.Kind)
	}
	if opts.Surface == nil {
		return nil, fmt.Errorf("chart %s: surface is required", opts.Kind)
	}
	opts.Theme = opts.Theme.WithDefaults()

	id := string(opts.Kind) + "-" + uuid.NewString()[:8]
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	c := &Component{
		id:     id,
		opts:   opts,
		logger: logger.With("chart", id),
		loaded: make(chan struct{}),
	}
	c.tracker = viewport.NewTracker(c.setSize, viewport.TrackerOptions{
		Debounce:  opts.Debounce,
		AfterFunc: opts.AfterFunc,
	})
	return c, nil
}

// ID returns the instance id, also used to scope SVG element ids.
func (c *Component) ID() string { return c.id }

// Kind returns the chart kind.
func (c *Component) Kind() Kind { return c.opts.Kind }

// Mount starts loading the data once. Calling Mount again, or after
// Unmount, does nothing.
func (c *Component) Mount(ctx context.Context) {
	c.mu.Lock()
	if c.mounted || c.unmounted {
		c.mu.Unlock()
		return
	}
	c.mounted = true
	c.data = Loading
	c.mu.Unlock()

	c.logger.Debug("mount", "locator", c.opts.Locator)
	go c.load(ctx)
}

func (c *Component) load(ctx context.Context) {
	defer close(c.loaded)

	table, release, err := c.opts.Loader.Acquire(ctx, c.opts.Locator)
	if err != nil {
		c.mu.Lock()
		c.loadErr = err
		if c.data == Loading {
			c.data = Empty
		}
		c.mu.Unlock()
		c.logger.Error("load failed", "locator", c.opts.Locator, "error", err)
		observability.Chart().OnLoadError(c.id, string(c.opts.Kind), err)
		return
	}

	model, err := Aggregate(c.opts.Kind, table.Rows, c.opts.Settings)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		release()
		c.logger.Debug("discarding data after unmount")
		return
	}
	if err != nil {
		release()
		c.loadErr = err
		c.data = Empty
		c.logger.Error("aggregate failed", "error", err)
		return
	}
	c.release = release
	c.model = model
	c.data = Ready
	c.logger.Debug("data ready", "rows", table.Len())
	c.redrawLocked()
}

// Resize reports a new container size. The size takes effect after the
// debounce interval.
func (c *Component) Resize(s viewport.Size) {
	c.tracker.Observe(s)
}

func (c *Component) setSize(s viewport.Size) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return
	}
	c.size = s
	c.redrawLocked()
}

// redrawLocked draws when the joint state allows it and blanks the
// surface when there is nothing to draw. c.mu must be held.
func (c *Component) redrawLocked() {
	kind := string(c.opts.Kind)
	if !c.stateLocked().CanDraw() {
		observability.Chart().OnDrawSkipped(c.id, kind, c.stateLocked().String())
		return
	}

	start := time.Now()
	doc, err := c.model.Draw(c.size,
		svg.WithID(c.id),
		svg.WithTheme(c.opts.Theme),
		svg.WithBandPadding(c.opts.Settings.BandPadding))
	if errors.Is(err, render.ErrNothingToDraw) {
		observability.Chart().OnDrawSkipped(c.id, kind, "nothing to draw")
		if err := c.opts.Surface.Clear(); err != nil {
			c.logger.Warn("clear failed", "error", err)
		}
		return
	}
	if err != nil {
		c.logger.Error("render failed", "error", err)
		return
	}

	if err := c.opts.Surface.Clear(); err != nil {
		c.logger.Warn("clear failed", "error", err)
	}
	if err := c.opts.Surface.Draw(doc); err != nil {
		c.logger.Error("draw failed", "error", err)
		return
	}
	c.draws++
	elapsed := time.Since(start)
	c.logger.Debug("drawn", "size", c.size.String(), "bytes", len(doc), "elapsed", elapsed)
	observability.Chart().OnDraw(c.id, kind, c.size.Width, c.size.Height, elapsed)
}

// Unmount stops size tracking, releases the data, and blanks the surface.
// Data still in flight is discarded when it arrives.
func (c *Component) Unmount() {
	c.tracker.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return
	}
	c.unmounted = true
	if c.release != nil {
		c.release()
		c.release = nil
	}
	c.model = nil
	if err := c.opts.Surface.Clear(); err != nil {
		c.logger.Warn("clear failed", "error", err)
	}
	c.logger.Debug("unmount")
}

// Wait blocks until the load started by Mount has finished and returns
// its error, if any.
func (c *Component) Wait(ctx context.Context) error {
	c.mu.Lock()
	mounted := c.mounted
	c.mu.Unlock()
	if !mounted {
		return fmt.Errorf("chart %s: not mounted", c.id)
	}
	select {
	case <-c.loaded:
	case <-ctx.Done():
		return ctx.Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// State reports the joint state.
func (c *Component) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Component) stateLocked() State {
	s := State{Data: c.data}
	if c.size.Measured() {
		s.Size = Measured
	}
	return s
}

// Draws returns how many times the surface has been redrawn.
func (c *Component) Draws() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draws
}

// Size returns the last published size.
func (c *Component) Size() viewport.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Model returns the aggregated data, or nil before it is ready.
func (c *Component) Model() Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}
