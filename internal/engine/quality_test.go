package engine

import (
	"strings"
	"testing"

	"github.com/peekknuf/colstats/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateQuality(t *testing.T) {
	table, err := source.ReadCSV(strings.NewReader("A,B,C\n1,2,3\n4,NA,6\n1,2,3\n7,8,9\n,10,11\n"), source.DefaultOptions())
	require.NoError(t, err)

	metrics := CalculateQuality(table)
	assert.Equal(t, 15, metrics.TotalCells)
	assert.Equal(t, 2, metrics.MissingCells)
	assert.InDelta(t, 2.0/15.0*100, metrics.NullPercentage, 1e-9)
}

func TestCalculateQualityEmpty(t *testing.T) {
	assert.Equal(t, QualityMetrics{}, CalculateQuality(&source.Table{}))
}
