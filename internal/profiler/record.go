package profiler

import "fmt"

// Kind is the classification of a column sample.
type Kind int

const (
	// KindEmpty means no non-missing cells; only Count is meaningful.
	KindEmpty Kind = iota
	KindNumeric
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Numeric holds the statistics of an all-numeric sample.
type Numeric struct {
	Mean   float64
	Min    float64
	Max    float64
	StdDev float64 // sample standard deviation, 0 for a single value
}

// Frequency is a value and the number of times it occurred.
type Frequency struct {
	Value string
	Count int
}

func (f Frequency) String() string {
	return fmt.Sprintf("(%q, %d)", f.Value, f.Count)
}

// Categorical holds the statistics of a sample with at least one non-numeric cell.
type Categorical struct {
	UniqueValues int
	MostFrequent Frequency
}

// Record is the statistics of one column sample. Only the summary matching Kind is set.
type Record struct {
	Count       int
	Kind        Kind
	Numeric     Numeric
	Categorical Categorical
}

// Stat is one named statistic, in display order.
type Stat struct {
	Name  string
	Value interface{}
}

// Stat names as they appear in reports.
const (
	StatCount        = "count"
	StatMean         = "mean"
	StatMin          = "min"
	StatMax          = "max"
	StatStdDev       = "std_dev"
	StatUniqueValues = "unique_values"
	StatMostFrequent = "most_frequent"
)

// Stats lists the populated statistics of r, count first.
func (r Record) Stats() []Stat {
	stats := []Stat{{Name: StatCount, Value: r.Count}}
	switch r.Kind {
	case KindNumeric:
		stats = append(stats,
			Stat{Name: StatMean, Value: r.Numeric.Mean},
			Stat{Name: StatMin, Value: r.Numeric.Min},
			Stat{Name: StatMax, Value: r.Numeric.Max},
			Stat{Name: StatStdDev, Value: r.Numeric.StdDev},
		)
	case KindCategorical:
		stats = append(stats,
			Stat{Name: StatUniqueValues, Value: r.Categorical.UniqueValues},
			Stat{Name: StatMostFrequent, Value: r.Categorical.MostFrequent},
		)
	}
	return stats
}

// ColumnStats is a Record labelled with its column name.
type ColumnStats struct {
	Name string
	Record
}
