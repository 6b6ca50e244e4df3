package aggregate

import (
	"cmp"
	"slices"

	"github.com/matzehuels/swapcharts/pkg/dataset"
)

// Ranked is a label with its frequency.
type Ranked struct {
	Label string
	Count int
}

// Rank orders counts by descending count, breaking ties by label so the
// ranking is deterministic.
func Rank(counts map[string]int) []Ranked {
	out := make([]Ranked, 0, len(counts))
	for label, n := range counts {
		out = append(out, Ranked{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b Ranked) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

// TopN returns the n most frequent labels in rank order. n <= 0 returns
// every label.
func TopN(counts map[string]int, n int) []string {
	ranked := Rank(counts)
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	labels := make([]string, len(ranked))
	for i, r := range ranked {
		labels[i] = r.Label
	}
	return labels
}

// GenreCounts counts rows per genre, with missing genres as [Unknown].
func GenreCounts(rows []dataset.Row) map[string]int {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.GetOr(dataset.FieldGenre, Unknown)]++
	}
	return counts
}

func toSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return set
}
