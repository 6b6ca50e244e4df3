package aggregate

import (
	"cmp"
	"slices"

	"github.com/matzehuels/swapcharts/pkg/dataset"
)

// BarDatum is one stacked segment: Value rows share Category and Stack.
type BarDatum struct {
	Category string `json:"category"`
	Stack    string `json:"stack"`
	Value    int    `json:"value"`
}

// BarData is the result of [Bars].
type BarData []BarDatum

// Bars groups rows by (genre, age category) and counts each group.
// Missing genre or age is normalized to [Unknown]. Output is sorted by
// category then stack.
func Bars(rows []dataset.Row) BarData {
	type key struct{ category, stack string }
	counts := make(map[key]int)
	for _, r := range rows {
		k := key{
			category: r.GetOr(dataset.FieldGenre, Unknown),
			stack:    r.GetOr(dataset.FieldAgeCategory, Unknown),
		}
		counts[k]++
	}

	out := make(BarData, 0, len(counts))
	for k, n := range counts {
		out = append(out, BarDatum{Category: k.category, Stack: k.stack, Value: n})
	}
	slices.SortFunc(out, func(a, b BarDatum) int {
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return cmp.Compare(a.Stack, b.Stack)
	})
	return out
}

// Total returns the sum of all values.
func (d BarData) Total() int {
	total := 0
	for _, v := range d {
		total += v.Value
	}
	return total
}

// Categories returns the distinct categories ordered by descending total,
// ties by name.
func (d BarData) Categories() []string {
	return TopN(d.categoryTotals(), 0)
}

// Stacks returns the distinct stack keys in name order.
func (d BarData) Stacks() []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range d {
		if !seen[v.Stack] {
			seen[v.Stack] = true
			out = append(out, v.Stack)
		}
	}
	slices.Sort(out)
	return out
}

// MaxCategoryTotal returns the tallest stacked bar.
func (d BarData) MaxCategoryTotal() int {
	m := 0
	for _, n := range d.categoryTotals() {
		m = max(m, n)
	}
	return m
}

// Value returns the count for (category, stack), or 0.
func (d BarData) Value(category, stack string) int {
	for _, v := range d {
		if v.Category == category && v.Stack == stack {
			return v.Value
		}
	}
	return 0
}

func (d BarData) categoryTotals() map[string]int {
	totals := make(map[string]int)
	for _, v := range d {
		totals[v.Category] += v.Value
	}
	return totals
}
