package profiler

import "github.com/peekknuf/colstats/internal/source"

// Sample accumulates the raw cells of one column, in arrival order.
type Sample struct {
	Name  string
	cells []source.Cell
}

// NewSample creates an empty sample for column name.
func NewSample(name string) *Sample {
	return &Sample{Name: name}
}

// Update appends one cell.
func (s *Sample) Update(c source.Cell) {
	s.cells = append(s.cells, c)
}

// Len returns the number of cells seen, missing ones included.
func (s *Sample) Len() int { return len(s.cells) }

// Finalize computes the statistics of everything seen so far.
func (s *Sample) Finalize() ColumnStats {
	return ColumnStats{Name: s.Name, Record: ComputeStatistics(s.cells)}
}
