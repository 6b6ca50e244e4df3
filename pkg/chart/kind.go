package chart

import (
	"slices"
	"strings"

	"github.com/matzehuels/swapcharts/pkg/errors"
)

// Kind names one of the three charts.
type Kind string

const (
	KindBar     Kind = "bar"
	KindHeatmap Kind = "heatmap"
	KindFlow    Kind = "flow"
)

// Kinds lists every chart in page order.
var Kinds = []Kind{KindBar, KindHeatmap, KindFlow}

// ParseKind resolves a chart name. "bars" and "sankey" are accepted as
// aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bar", "bars":
		return KindBar, nil
	case "heatmap":
		return KindHeatmap, nil
	case "flow", "sankey":
		return KindFlow, nil
	}
	return "", errors.New(errors.ErrCodeInvalidChart, "unknown chart %q (valid: bar, heatmap, flow)", s)
}

// ParseKinds resolves a list of chart names, dropping duplicates. An empty
// list means every chart.
func ParseKinds(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return slices.Clone(Kinds), nil
	}
	var out []Kind
	for _, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out, nil
}
