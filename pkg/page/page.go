// Package page stacks the bar, heatmap, and flow charts into one HTML
// document.
//
// Each chart sits in a container whose height is a share of the viewport
// height (60vh, 60vh, 80vh). All charts read the same dataset through one
// shared loader and draw with the same explicitly passed theme.
package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swapcharts/pkg/chart"
	"github.com/matzehuels/swapcharts/pkg/render"
	"github.com/matzehuels/swapcharts/pkg/viewport"
)

// Section is one chart container.
type Section struct {
	Kind  chart.Kind
	Title string
	VH    float64 // container height in percent of the viewport height
}

// Layout is the vertical order and sizing of the page.
var Layout = []Section{
	{Kind: chart.KindBar, Title: "Genres by age category", VH: 60},
	{Kind: chart.KindHeatmap, Title: "Genres by publication decade", VH: 60},
	{Kind: chart.KindFlow, Title: "Genre to age, adaptation, and bestseller status", VH: 80},
}

// Options configures a [Page].
type Options struct {
	Title    string
	Locator  string
	Loader   chart.Loader
	Theme    render.Theme
	Settings chart.Settings

	Debounce  time.Duration
	AfterFunc viewport.AfterFunc

	Logger *log.Logger
}

// Slot is a mounted section: its component and the surface it draws on.
type Slot struct {
	Section
	Component *chart.Component
	Surface   *chart.MemorySurface
}

// Page owns one component per [Layout] section.
type Page struct {
	title string
	theme render.Theme
	slots []*Slot
}

// New builds the page components. Nothing is loaded until [Page.Mount].
func New(opts Options) (*Page, error) {
	if opts.Loader == nil {
		return nil, fmt.Errorf("page: loader is required")
	}
	theme := opts.Theme.WithDefaults()
	title := opts.Title
	if title == "" {
		title = "Book swap"
	}

	p := &Page{title: title, theme: theme}
	for _, sec := range Layout {
		surface := &chart.MemorySurface{}
		c, err := chart.New(chart.Options{
			Kind:      sec.Kind,
			Locator:   opts.Locator,
			Loader:    opts.Loader,
			Surface:   surface,
			Theme:     theme,
			Settings:  opts.Settings,
			Debounce:  opts.Debounce,
			AfterFunc: opts.AfterFunc,
			Logger:    opts.Logger,
		})
		if err != nil {
			return nil, err
		}
		p.slots = append(p.slots, &Slot{Section: sec, Component: c, Surface: surface})
	}
	return p, nil
}

// Slots returns the sections in page order.
func (p *Page) Slots() []*Slot { return p.slots }

// Mount starts every component.
func (p *Page) Mount(ctx context.Context) {
	for _, s := range p.slots {
		s.Component.Mount(ctx)
	}
}

// Resize distributes a viewport size to the containers: full width, and
// each section's share of the height.
func (p *Page) Resize(vp viewport.Size) {
	for _, s := range p.slots {
		s.Component.Resize(SectionSize(vp, s.Section))
	}
}

// SectionSize returns the container size of sec in viewport vp.
func SectionSize(vp viewport.Size, sec Section) viewport.Size {
	return viewport.Size{Width: vp.Width, Height: vp.Height * sec.VH / 100}
}

// Wait blocks until every component finished loading and joins their
// errors.
func (p *Page) Wait(ctx context.Context) error {
	var errs []error
	for _, s := range p.slots {
		if err := s.Component.Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Kind, err))
		}
	}
	return errors.Join(errs...)
}

// Unmount stops every component.
func (p *Page) Unmount() {
	for _, s := range p.slots {
		s.Component.Unmount()
	}
}

type sectionView struct {
	ID    string
	Kind  string
	Title string
	VH    float64
	SVG   template.HTML
}

type pageView struct {
	Title    string
	Theme    render.Theme
	Sections []sectionView
}

// WriteHTML writes the page with the current chart documents inlined.
// Charts that have not drawn leave an empty container.
func (p *Page) WriteHTML(w io.Writer) error {
	view := pageView{Title: p.title, Theme: p.theme}
	for _, s := range p.slots {
		view.Sections = append(view.Sections, sectionView{
			ID:    s.Component.ID(),
			Kind:  string(s.Kind),
			Title: s.Title,
			VH:    s.VH,
			// Chart documents are built with escaped text content.
			SVG: template.HTML(s.Surface.Bytes()),
		})
	}
	return pageTemplate.Execute(w, view)
}

// HTML returns the page as bytes.
func (p *Page) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.WriteHTML(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{.Title}}</title>
    <style>
body {
  margin: 0;
  background: {{.Theme.Background}};
  color: {{.Theme.Foreground}};
  font-family: {{.Theme.FontFamily}};
}
section.chart {
  width: 100%;
  box-sizing: border-box;
  padding: 0 1rem;
}
section.chart > h2 {
  margin: 0;
  padding: 0.75rem 0 0.25rem;
  font-size: 1rem;
  font-weight: 600;
}
section.chart > div {
  width: 100%;
  height: calc(100% - 2.5rem);
}
section.chart svg {
  width: 100%;
  height: 100%;
}
    </style>
  </head>
  <body>
{{- range .Sections}}
    <section class="chart chart-{{.Kind}}" id="{{.ID}}" style="height: {{.VH}}vh">
      <h2>{{.Title}}</h2>
      <div>{{.SVG}}</div>
    </section>
{{- end}}
  </body>
</html>
`))
