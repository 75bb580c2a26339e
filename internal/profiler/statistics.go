package profiler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/peekknuf/colstats/internal/source"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// missingTokens are raw values treated as absent, compared exactly.
var missingTokens = map[string]struct{}{
	"":    {},
	"NA":  {},
	"NaN": {},
}

// IsMissing reports whether c is excluded from statistics.
func IsMissing(c source.Cell) bool {
	if c.Null {
		return true
	}
	_, ok := missingTokens[c.Value]
	return ok
}

// Clean returns the values of the non-missing cells, in order.
func Clean(cells []source.Cell) []string {
	cleaned := make([]string, 0, len(cells))
	for _, c := range cells {
		if !IsMissing(c) {
			cleaned = append(cleaned, c.Value)
		}
	}
	return cleaned
}

// ParseNumber parses a decimal floating-point literal: optional sign, digits, optional
// point and exponent, or an inf/nan spelling. Surrounding spaces are ignored. Literals
// outside the float64 range saturate instead of failing. Hex literals are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// ComputeStatistics summarizes one column sample. It never fails: a sample with no
// usable cells yields a count-only record, and any unparsable cell makes the whole
// sample categorical.
func ComputeStatistics(cells []source.Cell) Record {
	return summarize(Clean(cells))
}

// ComputeStrings is ComputeStatistics over plain string values.
func ComputeStrings(values []string) Record {
	cells := make([]source.Cell, len(values))
	for i, v := range values {
		cells[i] = source.Value(v)
	}
	return ComputeStatistics(cells)
}

func summarize(cleaned []string) Record {
	rec := Record{Count: len(cleaned)}
	if len(cleaned) == 0 {
		return rec
	}

	if values, ok := parseAll(cleaned); ok {
		rec.Kind = KindNumeric
		rec.Numeric = numericSummary(values)
		return rec
	}

	rec.Kind = KindCategorical
	rec.Categorical = categoricalSummary(cleaned)
	return rec
}

func parseAll(cleaned []string) ([]float64, bool) {
	values := make([]float64, len(cleaned))
	for i, s := range cleaned {
		f, ok := ParseNumber(s)
		if !ok {
			return nil, false
		}
		values[i] = f
	}
	return values, true
}

func numericSummary(values []float64) Numeric {
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	return Numeric{
		Mean:   mean,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		StdDev: std,
	}
}

// categoricalSummary counts distinct values. The most frequent value is the first one
// encountered among those sharing the highest count.
func categoricalSummary(values []string) Categorical {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	top := Frequency{Value: order[0], Count: counts[order[0]]}
	for _, v := range order[1:] {
		if counts[v] > top.Count {
			top = Frequency{Value: v, Count: counts[v]}
		}
	}
	return Categorical{
		UniqueValues: len(order),
		MostFrequent: top,
	}
}
