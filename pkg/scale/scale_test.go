package scale

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/swapcharts/pkg/viewport"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBand(t *testing.T) {
	b, err := NewBand([]string{"a", "b", "c", "d"}, 0, 410, 0.1)
	if err != nil {
		t.Fatalf("NewBand: %v", err)
	}
	// step = 410 / (4 + 0.1) = 100
	if !approx(b.Step(), 100) {
		t.Errorf("Step() = %v, want 100", b.Step())
	}
	if !approx(b.Bandwidth(), 90) {
		t.Errorf("Bandwidth() = %v, want 90", b.Bandwidth())
	}
	tests := []struct {
		v    string
		want float64
	}{
		{"a", 10},
		{"b", 110},
		{"d", 310},
	}
	for _, tt := range tests {
		got, ok := b.Map(tt.v)
		if !ok || !approx(got, tt.want) {
			t.Errorf("Map(%q) = %v, %v; want %v", tt.v, got, ok, tt.want)
		}
	}
	// The last band ends one outer padding before the range end.
	last, _ := b.Map("d")
	if end := last + b.Bandwidth(); !approx(410-end, 10) {
		t.Errorf("outer padding = %v, want 10", 410-end)
	}
	if _, ok := b.Map("z"); ok {
		t.Error("Map(z) reported ok for value outside domain")
	}
}

func TestBand_Errors(t *testing.T) {
	if _, err := NewBand(nil, 0, 100, 0.1); !errors.Is(err, ErrEmptyDomain) {
		t.Errorf("NewBand(nil) error = %v, want ErrEmptyDomain", err)
	}
	if _, err := NewBand([]string{"a", "a"}, 0, 100, 0.1); err == nil {
		t.Error("NewBand with duplicates should fail")
	}
}

func TestLinear(t *testing.T) {
	l, err := NewLinear(0, 50, 400, 0)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	if got := l.Map(0); !approx(got, 400) {
		t.Errorf("Map(0) = %v, want 400", got)
	}
	if got := l.Map(50); !approx(got, 0) {
		t.Errorf("Map(50) = %v, want 0", got)
	}
	if got := l.Map(25); !approx(got, 200) {
		t.Errorf("Map(25) = %v, want 200", got)
	}
}

func TestLinear_Degenerate(t *testing.T) {
	l, err := NewLinear(0, 0, 0, 100)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	if got := l.Map(0); math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("Map(0) = %v, want finite", got)
	}
	if _, err := NewLinear(math.NaN(), 1, 0, 1); !errors.Is(err, ErrEmptyDomain) {
		t.Errorf("NewLinear(NaN) error = %v", err)
	}
}

func TestLinear_NiceAndTicks(t *testing.T) {
	l, err := NewLinear(0, 97, 0, 100)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	l.Nice(10)
	lo, hi := l.Domain()
	if lo > 0 || hi < 97 {
		t.Errorf("Nice domain = [%v, %v], want to contain [0, 97]", lo, hi)
	}
	ticks := l.Ticks(10)
	if len(ticks) == 0 || len(ticks) > 10 {
		t.Fatalf("Ticks(10) returned %d ticks: %v", len(ticks), ticks)
	}
	for i, v := range ticks {
		if v < lo-1e-9 || v > hi+1e-9 {
			t.Errorf("tick %v outside domain [%v, %v]", v, lo, hi)
		}
		if i > 0 && v <= ticks[i-1] {
			t.Errorf("ticks not increasing: %v", ticks)
		}
	}
}

func TestOrdinal_Cycles(t *testing.T) {
	o, err := NewOrdinal([]string{"a", "b", "c"}, []string{"#111111", "#222222"})
	if err != nil {
		t.Fatalf("NewOrdinal: %v", err)
	}
	tests := []struct{ v, want string }{
		{"a", "#111111"},
		{"b", "#222222"},
		{"c", "#111111"},
		{"a", "#111111"},
		{"new", "#222222"},
	}
	for _, tt := range tests {
		if got := o.Map(tt.v); got != tt.want {
			t.Errorf("Map(%q) = %q, want %q", tt.v, got, tt.want)
		}
	}
	if _, err := NewOrdinal(nil, nil); !errors.Is(err, ErrEmptyDomain) {
		t.Errorf("NewOrdinal(nil) error = %v", err)
	}
}

func TestSequential(t *testing.T) {
	s, err := NewSequential(0, 10, "#000000", "#ffffff")
	if err != nil {
		t.Fatalf("NewSequential: %v", err)
	}
	tests := []struct {
		v    float64
		want string
	}{
		{0, "#000000"},
		{10, "#ffffff"},
		{-5, "#000000"},
		{50, "#ffffff"},
	}
	for _, tt := range tests {
		if got := s.Map(tt.v); got != tt.want {
			t.Errorf("Map(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
	mid := s.Map(5)
	if mid == "#000000" || mid == "#ffffff" {
		t.Errorf("Map(5) = %q, want an intermediate colour", mid)
	}
	if _, err := NewSequential(0, 1, "#000000"); err == nil {
		t.Error("NewSequential with one colour should fail")
	}
	if _, err := NewSequential(0, 1, "#000000", "blue"); err == nil {
		t.Error("NewSequential with a bad colour should fail")
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#fa0")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if c.R != 0xff || c.G != 0xaa || c.B != 0 || c.A != 0xff {
		t.Errorf("ParseHex(#fa0) = %+v", c)
	}
	if got := Hex(c); got != "#ffaa00" {
		t.Errorf("Hex() = %q, want #ffaa00", got)
	}
}

func TestMargins_ScaleInvariance(t *testing.T) {
	m := Margins{Top: 0.1, Right: 0.05, Bottom: 0.2, Left: 0.15}
	size := viewport.Size{Width: 640, Height: 360}

	a := m.Inner(size)
	b := m.Inner(size.Scale(2))
	pairs := []struct {
		name string
		a, b float64
	}{
		{"X", a.X, b.X},
		{"Y", a.Y, b.Y},
		{"Width", a.Width, b.Width},
		{"Height", a.Height, b.Height},
		{"Right", a.Right(), b.Right()},
		{"Bottom", a.Bottom(), b.Bottom()},
	}
	for _, p := range pairs {
		if !approx(p.b, 2*p.a) {
			t.Errorf("%s: doubled size gives %v, want %v", p.name, p.b, 2*p.a)
		}
	}
	if !approx(a.X, 96) || !approx(a.Width, 640*0.8) {
		t.Errorf("Inner() = %+v", a)
	}
}
