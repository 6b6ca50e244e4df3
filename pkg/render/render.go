package render

import (
	"errors"
	"fmt"
)

// ErrNothingToDraw is returned when the data is empty or the drawing area
// has not been measured. It is a normal outcome, not a failure: callers
// leave the surface blank.
var ErrNothingToDraw = errors.New("render: nothing to draw")

// Theme is the colour and typography configuration shared by every chart.
// It is passed explicitly to each renderer.
type Theme struct {
	Background string   `toml:"background" json:"background"`
	Foreground string   `toml:"foreground" json:"foreground"`
	Palette    []string `toml:"palette" json:"palette"`
	HeatLow    string   `toml:"heat_low" json:"heat_low"`
	HeatHigh   string   `toml:"heat_high" json:"heat_high"`
	FontFamily string   `toml:"font_family" json:"font_family"`
}

// DefaultTheme returns the built-in light theme.
func DefaultTheme() Theme {
	return Theme{
		Background: "#fdf6e3",
		Foreground: "#2d2a26",
		Palette: []string{
			"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
			"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
		},
		HeatLow:    "#fff7ec",
		HeatHigh:   "#7f0000",
		FontFamily: "sans-serif",
	}
}

// WithDefaults fills empty fields from [DefaultTheme].
func (t Theme) WithDefaults() Theme {
	d := DefaultTheme()
	if t.Background == "" {
		t.Background = d.Background
	}
	if t.Foreground == "" {
		t.Foreground = d.Foreground
	}
	if len(t.Palette) == 0 {
		t.Palette = d.Palette
	}
	if t.HeatLow == "" {
		t.HeatLow = d.HeatLow
	}
	if t.HeatHigh == "" {
		t.HeatHigh = d.HeatHigh
	}
	if t.FontFamily == "" {
		t.FontFamily = d.FontFamily
	}
	return t
}

// Colors returns every colour field for validation, labelled by name.
func (t Theme) Colors() map[string]string {
	out := map[string]string{
		"background": t.Background,
		"foreground": t.Foreground,
		"heat_low":   t.HeatLow,
		"heat_high":  t.HeatHigh,
	}
	for i, c := range t.Palette {
		out[fmt.Sprintf("palette[%d]", i)] = c
	}
	return out
}
