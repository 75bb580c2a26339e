package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/peekknuf/colstats/internal/profiler"
)

// Seconds returns d in seconds rounded to two decimal places.
func Seconds(d time.Duration) float64 {
	rounded, err := stats.Round(d.Seconds(), 2)
	if err != nil {
		return d.Seconds()
	}
	return rounded
}

// FormatFloat prints v the shortest way that round-trips, keeping a trailing ".0" on
// integral values and switching to exponent form for very large or small magnitudes.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// FormatValue renders one statistic value.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return FormatFloat(x)
	case int:
		return strconv.Itoa(x)
	case profiler.Frequency:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
