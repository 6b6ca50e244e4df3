package chart

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/swapcharts/pkg/dataset"
	"github.com/matzehuels/swapcharts/pkg/render/svg"
	"github.com/matzehuels/swapcharts/pkg/scale"
	"github.com/matzehuels/swapcharts/pkg/viewport"
)

type fakeLoader struct {
	table    *dataset.Table
	err      error
	gate     chan struct{}
	acquired atomic.Int32
	released atomic.Int32
}

func (l *fakeLoader) Acquire(ctx context.Context, locator string) (*dataset.Table, func(), error) {
	l.acquired.Add(1)
	if l.gate != nil {
		select {
		case <-l.gate:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	if l.err != nil {
		return nil, nil, l.err
	}
	var once sync.Once
	return l.table, func() { once.Do(func() { l.released.Add(1) }) }, nil
}

func testTable() *dataset.Table {
	return &dataset.Table{
		Locator: "books.csv",
		Rows: []dataset.Row{
			{dataset.FieldGenre: "Fiction", dataset.FieldAgeCategory: "Adult", dataset.FieldYear: "1994", dataset.FieldBestseller: "True", dataset.FieldMovie: "False"},
			{dataset.FieldGenre: "Fiction", dataset.FieldAgeCategory: "Adult", dataset.FieldYear: "1996", dataset.FieldBestseller: "False", dataset.FieldMovie: "False"},
			{dataset.FieldGenre: "Fiction", dataset.FieldAgeCategory: "Teen", dataset.FieldYear: "2001", dataset.FieldBestseller: "True", dataset.FieldMovie: "True"},
		},
	}
}

var size = viewport.Size{Width: 640, Height: 360}

func newTestComponent(t *testing.T, kind Kind, loader Loader) (*Component, *MemorySurface) {
	t.Helper()
	surface := &MemorySurface{}
	c, err := New(Options{
		Kind:     kind,
		Locator:  "books.csv",
		Loader:   loader,
		Surface:  surface,
		Debounce: -1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Unmount)
	return c, surface
}

func wait(t *testing.T, c *Component) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.Wait(ctx)
}

func TestComponent_DrawsOnlyWhenReadyAndMeasured(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			loader := &fakeLoader{table: testTable(), gate: make(chan struct{})}
			c, surface := newTestComponent(t, kind, loader)

			if got := c.State(); got != (State{Empty, Unmeasured}) {
				t.Errorf("initial state = %v", got)
			}
			c.Mount(context.Background())
			c.Resize(size)
			if got := c.State(); got != (State{Loading, Measured}) {
				t.Errorf("state before data = %v", got)
			}
			if c.Draws() != 0 {
				t.Fatal("drew before data arrived")
			}

			close(loader.gate)
			if err := wait(t, c); err != nil {
				t.Fatalf("Wait: %v", err)
			}
			if got := c.State(); !got.CanDraw() {
				t.Errorf("state after data = %v", got)
			}
			if c.Draws() != 1 {
				t.Errorf("Draws() = %d, want 1", c.Draws())
			}
			doc := string(surface.Bytes())
			if !strings.HasPrefix(doc, "<svg") || !strings.Contains(doc, c.ID()) {
				t.Errorf("surface holds %.80q", doc)
			}
		})
	}
}

func TestComponent_DataThenSize(t *testing.T) {
	loader := &fakeLoader{table: testTable()}
	c, surface := newTestComponent(t, KindBar, loader)

	c.Mount(context.Background())
	if err := wait(t, c); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got := c.State(); got != (State{Ready, Unmeasured}) {
		t.Errorf("state = %v", got)
	}
	if c.Draws() != 0 {
		t.Error("drew without a size")
	}

	c.Resize(size)
	c.Resize(size.Scale(2))
	if c.Draws() != 2 {
		t.Errorf("Draws() = %d, want 2", c.Draws())
	}
	clears, draws := surface.Counts()
	if clears != draws {
		t.Errorf("clears = %d, draws = %d; every draw should clear first", clears, draws)
	}
	if !strings.Contains(string(surface.Bytes()), `width="1280"`) {
		t.Error("surface does not hold the latest size")
	}
}

func TestComponent_ZeroSizeBlanks(t *testing.T) {
	loader := &fakeLoader{table: testTable()}
	c, surface := newTestComponent(t, KindHeatmap, loader)
	c.Mount(context.Background())
	if err := wait(t, c); err != nil {
		t.Fatal(err)
	}
	c.Resize(size)
	c.Resize(viewport.Size{})
	if c.Draws() != 1 {
		t.Errorf("Draws() = %d, want 1", c.Draws())
	}
	if surface.Bytes() != nil {
		t.Error("surface should be blank at zero size")
	}
}

func TestComponent_EmptyDataDrawsNothing(t *testing.T) {
	loader := &fakeLoader{table: &dataset.Table{}}
	c, surface := newTestComponent(t, KindFlow, loader)
	c.Mount(context.Background())
	if err := wait(t, c); err != nil {
		t.Fatal(err)
	}
	c.Resize(size)
	if c.Draws() != 0 || surface.Bytes() != nil {
		t.Error("empty data should not draw")
	}
}

func TestComponent_LoadErrorStaysEmpty(t *testing.T) {
	loadErr := errors.New("unreachable")
	loader := &fakeLoader{err: loadErr}
	c, _ := newTestComponent(t, KindBar, loader)

	c.Mount(context.Background())
	if err := wait(t, c); !errors.Is(err, loadErr) {
		t.Errorf("Wait() = %v, want %v", err, loadErr)
	}
	c.Resize(size)
	if got := c.State(); got.Data != Empty {
		t.Errorf("state = %v, want empty data", got)
	}
	if c.Draws() != 0 {
		t.Error("drew after a load failure")
	}
}

func TestComponent_UnmountDiscardsLateData(t *testing.T) {
	loader := &fakeLoader{table: testTable(), gate: make(chan struct{})}
	c, surface := newTestComponent(t, KindBar, loader)

	c.Mount(context.Background())
	c.Resize(size)
	c.Unmount()
	close(loader.gate)
	if err := wait(t, c); err != nil {
		t.Fatal(err)
	}

	if c.Draws() != 0 {
		t.Error("drew after unmount")
	}
	if c.Model() != nil {
		t.Error("kept data after unmount")
	}
	if _, draws := surface.Counts(); draws != 0 {
		t.Error("surface drawn after unmount")
	}
	if loader.released.Load() != 1 {
		t.Errorf("released = %d, want 1", loader.released.Load())
	}
}

func TestComponent_MountOnce(t *testing.T) {
	loader := &fakeLoader{table: testTable()}
	c, _ := newTestComponent(t, KindBar, loader)
	c.Mount(context.Background())
	c.Mount(context.Background())
	if err := wait(t, c); err != nil {
		t.Fatal(err)
	}
	if n := loader.acquired.Load(); n != 1 {
		t.Errorf("acquired %d times, want 1", n)
	}
}

func TestComponent_DebouncedResize(t *testing.T) {
	var (
		mu      sync.Mutex
		pending []func()
	)
	after := func(d time.Duration, f func()) viewport.Timer {
		mu.Lock()
		defer mu.Unlock()
		pending = append(pending, f)
		return time.NewTimer(time.Hour)
	}

	surface := &MemorySurface{}
	c, err := New(Options{
		Kind:      KindBar,
		Loader:    &fakeLoader{table: testTable()},
		Surface:   surface,
		AfterFunc: after,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Unmount()
	c.Mount(context.Background())
	if err := wait(t, c); err != nil {
		t.Fatal(err)
	}

	for w := 100.0; w <= 500; w += 100 {
		c.Resize(viewport.Size{Width: w, Height: 300})
	}
	mu.Lock()
	fns := pending
	mu.Unlock()
	for _, f := range fns {
		f()
	}

	if c.Draws() != 1 {
		t.Errorf("Draws() = %d, want 1 after a burst", c.Draws())
	}
	if got := c.Size(); got.Width != 500 {
		t.Errorf("Size() = %v, want the latest width", got)
	}
}

func TestComponent_SharedLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	csv := "genre,age_category,publicationYear,bestseller_status,adapted_to_movie\n" +
		"Fiction,Adult,1994,True,False\n" +
		"Mystery,Teen,2005,False,True\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	loader := dataset.NewSharedLoader(dataset.NewCSVSource(), dataset.SharedOptions{})

	var comps []*Component
	for _, kind := range Kinds {
		c, err := New(Options{Kind: kind, Locator: path, Loader: loader, Surface: &MemorySurface{}, Debounce: -1})
		if err != nil {
			t.Fatal(err)
		}
		defer c.Unmount()
		c.Mount(context.Background())
		comps = append(comps, c)
	}
	for _, c := range comps {
		if err := wait(t, c); err != nil {
			t.Fatalf("%s: %v", c.Kind(), err)
		}
		c.Resize(size)
		if c.Draws() != 1 {
			t.Errorf("%s: Draws() = %d, want 1", c.Kind(), c.Draws())
		}
	}
	if n := loader.Loads(); n != 1 {
		t.Errorf("source loaded %d times, want 1", n)
	}
}

func TestComponent_KindAliases(t *testing.T) {
	tests := []struct {
		kind Kind
		want Kind
	}{
		{"sankey", KindFlow},
		{"bars", KindBar},
		{" Heatmap ", KindHeatmap},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			c, surface := newTestComponent(t, tt.kind, &fakeLoader{table: testTable()})
			if c.Kind() != tt.want {
				t.Errorf("Kind() = %q, want %q", c.Kind(), tt.want)
			}
			c.Mount(context.Background())
			if err := wait(t, c); err != nil {
				t.Fatalf("Wait: %v", err)
			}
			c.Resize(size)
			if c.Draws() != 1 {
				t.Errorf("Draws() = %d, want 1", c.Draws())
			}
			if !strings.HasPrefix(string(surface.Bytes()), "<svg") {
				t.Errorf("surface holds %.80q", surface.Bytes())
			}
		})
	}
}

func TestComponent_ZeroSettingsUseDefaultPadding(t *testing.T) {
	c, surface := newTestComponent(t, KindBar, &fakeLoader{table: testTable()})
	c.Mount(context.Background())
	if err := wait(t, c); err != nil {
		t.Fatal(err)
	}
	c.Resize(size)

	m, err := Aggregate(KindBar, testTable().Rows, Settings{})
	if err != nil {
		t.Fatal(err)
	}
	want, err := m.Draw(size, svg.WithID(c.ID()), svg.WithBandPadding(scale.DefaultBandPadding))
	if err != nil {
		t.Fatal(err)
	}
	if got := surface.Bytes(); string(got) != string(want) {
		t.Error("zero Settings drew with a different band padding than the default")
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"bad kind", Options{Kind: "pie", Loader: &fakeLoader{}, Surface: &MemorySurface{}}},
		{"no loader", Options{Kind: KindBar, Surface: &MemorySurface{}}},
		{"no surface", Options{Kind: KindBar, Loader: &fakeLoader{}}},
	}
	for _, tt := range tests {
		if _, err := New(tt.opts); err == nil {
			t.Errorf("%s: New() succeeded", tt.name)
		}
	}
}
