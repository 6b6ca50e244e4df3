package svg

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// truncate shortens label to fit width at the given font size.
func truncate(label string, width, size float64) string {
	maxChars := int(width / (size * fontCharWidth))
	if maxChars < 3 {
		maxChars = 3
	}
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

// formatTick prints an axis value without trailing zeros.
func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
