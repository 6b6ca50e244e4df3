package aggregate

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/swapcharts/pkg/dataset"
)

// DefaultHeatmapTopGenres is how many genres keep their own heatmap row.
const DefaultHeatmapTopGenres = 20

// HeatmapDatum counts rows of one genre published in one decade.
type HeatmapDatum struct {
	Genre  string `json:"genre"`
	Decade int    `json:"decade"`
	Count  int    `json:"count"`
}

// HeatmapData is the result of [Heatmap].
type HeatmapData struct {
	Data []HeatmapDatum `json:"data"`
	// Genres are the row labels: top genres in rank order, then Other
	// when any row was bucketed.
	Genres []string `json:"genres"`
	// Decades are the distinct decades in ascending order.
	Decades []int `json:"decades"`
	// Skipped counts rows dropped for a missing or non-numeric year.
	Skipped int `json:"skipped"`
}

// Empty reports whether there is nothing to draw.
func (h HeatmapData) Empty() bool { return len(h.Data) == 0 }

// MaxCount returns the largest cell count.
func (h HeatmapData) MaxCount() int {
	m := 0
	for _, d := range h.Data {
		m = max(m, d.Count)
	}
	return m
}

// Heatmap counts rows per (genre, decade). Genres outside the topN most
// frequent (by all rows) are bucketed under [Other]. Rows whose
// publication year is missing or not a finite number are dropped and
// counted in Skipped. topN <= 0 uses [DefaultHeatmapTopGenres].
func Heatmap(rows []dataset.Row, topN int) HeatmapData {
	if topN <= 0 {
		topN = DefaultHeatmapTopGenres
	}
	top := TopN(GenreCounts(rows), topN)
	keep := toSet(top)

	type key struct {
		genre  string
		decade int
	}
	counts := make(map[key]int)
	decades := make(map[int]bool)
	present := make(map[string]bool)
	skipped := 0

	for _, r := range rows {
		decade, ok := Decade(r.GetOr(dataset.FieldYear, ""))
		if !ok {
			skipped++
			continue
		}
		genre := r.GetOr(dataset.FieldGenre, Unknown)
		if !keep[genre] {
			genre = Other
		}
		counts[key{genre, decade}]++
		present[genre] = true
		decades[decade] = true
	}

	out := HeatmapData{Skipped: skipped}
	rank := make(map[string]int, len(top)+1)
	for _, g := range top {
		if present[g] {
			rank[g] = len(out.Genres)
			out.Genres = append(out.Genres, g)
		}
	}
	if present[Other] && !keep[Other] {
		rank[Other] = len(out.Genres)
		out.Genres = append(out.Genres, Other)
	}
	for d := range decades {
		out.Decades = append(out.Decades, d)
	}
	slices.Sort(out.Decades)

	for k, n := range counts {
		out.Data = append(out.Data, HeatmapDatum{Genre: k.genre, Decade: k.decade, Count: n})
	}
	slices.SortFunc(out.Data, func(a, b HeatmapDatum) int {
		if c := cmp.Compare(rank[a.Genre], rank[b.Genre]); c != 0 {
			return c
		}
		return cmp.Compare(a.Decade, b.Decade)
	})
	return out
}

// Decade truncates a publication year to its decade: floor(year/10)*10.
// Fractional years ("1994.0") are accepted; anything that does not parse
// to a finite number reports false.
func Decade(year string) (int, bool) {
	if year == "" {
		return 0, false
	}
	y, err := strconv.ParseFloat(year, 64)
	if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, false
	}
	return int(math.Floor(y/10)) * 10, true
}
