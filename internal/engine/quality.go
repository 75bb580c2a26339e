package engine

import (
	"github.com/peekknuf/colstats/internal/profiler"
	"github.com/peekknuf/colstats/internal/source"
)

// QualityMetrics summarizes how complete a dataset is.
type QualityMetrics struct {
	TotalCells     int
	MissingCells   int
	NullPercentage float64
}

// CalculateQuality counts missing cells across every row of table.
func CalculateQuality(table *source.Table) QualityMetrics {
	var metrics QualityMetrics
	for _, row := range table.Rows {
		for _, f := range row {
			metrics.TotalCells++
			if profiler.IsMissing(f.Cell) {
				metrics.MissingCells++
			}
		}
	}
	if metrics.TotalCells > 0 {
		metrics.NullPercentage = float64(metrics.MissingCells) / float64(metrics.TotalCells) * 100
	}
	return metrics
}
