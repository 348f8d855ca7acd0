package analysis

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// english groups digits the way the reports present counts ("1,197").
var english = message.NewPrinter(language.English)

// formatCount renders an integer with thousands separators.
func formatCount(n int) string {
	return english.Sprintf("%d", n)
}

// formatNumber renders a numeric value compactly: whole values get
// thousands separators, fractional values keep their shortest decimal
// form so ranges like 0.07-0.8 stay readable.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return english.Sprintf("%d", int64(v))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
