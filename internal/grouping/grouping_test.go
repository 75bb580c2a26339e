package grouping

import (
	"fmt"
	"testing"

	"github.com/peekknuf/colstats/internal/profiler"
	"github.com/peekknuf/colstats/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []source.Row {
	return []source.Row{
		source.RowOf("g", "x", "v", "1"),
		source.RowOf("g", "x", "v", "3"),
		source.RowOf("g", "y", "v", "5"),
	}
}

func TestGroupAndAnalyzeSingleKey(t *testing.T) {
	result := GroupAndAnalyze(sampleRows(), []string{"g"})

	require.Equal(t, 2, result.Len())
	assert.Equal(t, KeyFrom("x"), result.Groups[0].Key)
	assert.Equal(t, KeyFrom("y"), result.Groups[1].Key)

	x, ok := result.Group(KeyFrom("x"))
	require.True(t, ok)
	assert.Equal(t, 2, x.Rows)
	v, ok := x.Column("v")
	require.True(t, ok)
	assert.Equal(t, profiler.KindNumeric, v.Kind)
	assert.Equal(t, 2, v.Count)
	assert.InDelta(t, 2.0, v.Numeric.Mean, 1e-12)

	y, ok := result.Group(KeyFrom("y"))
	require.True(t, ok)
	v, _ = y.Column("v")
	assert.InDelta(t, 5.0, v.Numeric.Mean, 1e-12)
	assert.Equal(t, 0.0, v.Numeric.StdDev)
}

func TestGroupColumnsIncludeKeyColumns(t *testing.T) {
	result := GroupAndAnalyze(sampleRows(), []string{"g"})

	x := result.Groups[0]
	assert.Equal(t, []string{"g", "v"}, x.Names())
	g, _ := x.Column("g")
	assert.Equal(t, profiler.KindCategorical, g.Kind)
	assert.Equal(t, profiler.Frequency{Value: "x", Count: 2}, g.Categorical.MostFrequent)
}

func TestCompositeKey(t *testing.T) {
	rows := []source.Row{
		source.RowOf("a", "1", "b", "p", "v", "10"),
		source.RowOf("a", "1", "b", "q", "v", "20"),
		source.RowOf("a", "1", "b", "p", "v", "30"),
		source.RowOf("a", "2", "b", "p", "v", "40"),
	}
	result := GroupAndAnalyze(rows, []string{"a", "b"})

	require.Equal(t, 3, result.Len())
	assert.Equal(t, KeyFrom("1", "p"), result.Groups[0].Key)
	assert.Equal(t, KeyFrom("1", "q"), result.Groups[1].Key)
	assert.Equal(t, KeyFrom("2", "p"), result.Groups[2].Key)

	v, _ := result.Groups[0].Column("v")
	assert.InDelta(t, 20.0, v.Numeric.Mean, 1e-12)
	assert.Equal(t, []string{"a", "b"}, result.Keys)
}

func TestRowMissingKeyColumnGetsShorterKey(t *testing.T) {
	rows := []source.Row{
		source.RowOf("a", "1", "b", "p", "v", "10"),
		source.RowOf("a", "1", "v", "20"),
		source.RowOf("b", "p", "v", "30"),
	}
	result := GroupAndAnalyze(rows, []string{"a", "b"})

	require.Equal(t, 3, result.Len())
	assert.Equal(t, KeyFrom("1", "p"), result.Groups[0].Key)
	assert.Equal(t, KeyFrom("1"), result.Groups[1].Key)
	assert.Equal(t, KeyFrom("p"), result.Groups[2].Key)

	total := 0
	for _, g := range result.Groups {
		total += g.Rows
	}
	assert.Equal(t, len(rows), total)
}

func TestKeyUsesRawValues(t *testing.T) {
	rows := []source.Row{
		source.RowOf("g", "NA", "v", "1"),
		source.RowOf("g", "", "v", "2"),
		source.RowOf("g", "NA", "v", "3"),
	}
	result := GroupAndAnalyze(rows, []string{"g"})

	require.Equal(t, 2, result.Len())
	assert.Equal(t, KeyFrom("NA"), result.Groups[0].Key)
	g, _ := result.Groups[0].Column("g")
	assert.Equal(t, 0, g.Count)
	assert.Equal(t, profiler.KindEmpty, g.Kind)
}

func TestNullKeyDiffersFromEmptyKey(t *testing.T) {
	rows := []source.Row{
		{{Name: "g", Cell: source.Null()}, {Name: "v", Cell: source.Value("1")}},
		source.RowOf("g", "", "v", "2"),
	}
	result := GroupAndAnalyze(rows, []string{"g"})
	assert.Equal(t, 2, result.Len())
}

func TestRaggedColumnsAccumulatePerGroup(t *testing.T) {
	rows := []source.Row{
		source.RowOf("g", "x", "v", "1"),
		source.RowOf("g", "x", "w", "a"),
		source.RowOf("g", "y", "v", "2"),
	}
	result := GroupAndAnalyze(rows, []string{"g"})

	assert.Equal(t, []string{"g", "v", "w"}, result.Groups[0].Names())
	assert.Equal(t, []string{"g", "v"}, result.Groups[1].Names())
	v, _ := result.Groups[0].Column("v")
	assert.Equal(t, 1, v.Count)
}

func TestAnalyzeUngrouped(t *testing.T) {
	summary := Analyze(sampleRows())

	assert.Equal(t, []string{"g", "v"}, summary.Names())
	v, ok := summary.Column("v")
	require.True(t, ok)
	assert.Equal(t, 3, v.Count)
	assert.InDelta(t, 3.0, v.Numeric.Mean, 1e-12)
	assert.InDelta(t, 2.0, v.Numeric.StdDev, 1e-12)

	g, _ := summary.Column("g")
	assert.Equal(t, 2, g.Categorical.UniqueValues)
}

func TestAnalyzeEmpty(t *testing.T) {
	summary := Analyze(nil)
	assert.Empty(t, summary.Columns)

	result := GroupAndAnalyze(nil, []string{"g"})
	assert.Zero(t, result.Len())
	_, ok := result.Group(KeyFrom("x"))
	assert.False(t, ok)
}

func TestAnalysisIsIdempotent(t *testing.T) {
	rows := sampleRows()
	first := GroupAndAnalyze(rows, []string{"g"})
	second := GroupAndAnalyze(rows, []string{"g"})
	assert.Equal(t, first, second)
}

func TestWorkersMatchSequential(t *testing.T) {
	var rows []source.Row
	for i := 0; i < 2000; i++ {
		rows = append(rows, source.RowOf(
			"shop", fmt.Sprintf("s%d", i%17),
			"day", fmt.Sprintf("d%d", i%5),
			"amount", fmt.Sprintf("%d.%d", i%97, i%10),
			"label", fmt.Sprintf("l%d", i%3),
		))
	}

	sequential := GroupAndAnalyze(rows, []string{"shop", "day"})
	parallel := GroupAndAnalyze(rows, []string{"shop", "day"}, WithWorkers(8))
	assert.Equal(t, sequential, parallel)
	assert.Equal(t, 85, parallel.Len())
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, `("x", "1")`, KeyFrom("x", "1").String())
	assert.Equal(t, "()", Key{}.String())
	assert.Equal(t, `(null, "a,b")`, Key{source.Null(), source.Value("a,b")}.String())
	assert.NotEqual(t, KeyFrom("a,b").ID(), KeyFrom("a", "b").ID())
}
