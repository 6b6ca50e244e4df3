package render

import (
	"context"
	"testing"

	"github.com/matzehuels/swapcharts/pkg/errors"
)

func TestTheme_WithDefaults(t *testing.T) {
	got := Theme{Background: "#000000"}.WithDefaults()
	want := DefaultTheme()
	if got.Background != "#000000" {
		t.Errorf("Background = %q, want it kept", got.Background)
	}
	if got.Foreground != want.Foreground || got.HeatHigh != want.HeatHigh || got.FontFamily != want.FontFamily {
		t.Errorf("WithDefaults() = %+v", got)
	}
	if len(got.Palette) != len(want.Palette) {
		t.Errorf("Palette len = %d, want %d", len(got.Palette), len(want.Palette))
	}
}

func TestTheme_Colors(t *testing.T) {
	th := DefaultTheme()
	colors := th.Colors()
	if len(colors) != 4+len(th.Palette) {
		t.Errorf("Colors() has %d entries", len(colors))
	}
	if colors["palette[0]"] != th.Palette[0] {
		t.Errorf("palette[0] = %q", colors["palette[0]"])
	}
}

func TestToPNG_MissingConverter(t *testing.T) {
	if ConverterAvailable() {
		t.Skip("rsvg-convert installed")
	}
	_, err := ToPNG(context.Background(), []byte("<svg/>"), 1)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG() error = %v, want UNSUPPORTED", err)
	}
}
