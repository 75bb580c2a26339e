package report

import (
	"io"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/peekknuf/colstats/internal/engine"
	"github.com/peekknuf/colstats/internal/grouping"
	"github.com/peekknuf/colstats/internal/profiler"
)

// JSON renders each dataset as one JSON document per line, or indented when Indent is set.
type JSON struct {
	Indent bool
}

type jsonDataset struct {
	Name     string         `json:"name"`
	Path     string         `json:"path"`
	Absent   bool           `json:"source_missing,omitempty"`
	Error    string         `json:"error,omitempty"`
	Bytes    int64          `json:"bytes,omitempty"`
	Rows     int            `json:"rows"`
	Columns  []string       `json:"columns,omitempty"`
	Ragged   int            `json:"ragged,omitempty"`
	Missing  int            `json:"missing_cells"`
	Analyses []jsonAnalysis `json:"analyses,omitempty"`
}

type jsonAnalysis struct {
	GroupBy        []string     `json:"group_by,omitempty"`
	ElapsedSeconds float64      `json:"elapsed_seconds"`
	TotalGroups    int          `json:"total_groups,omitempty"`
	Columns        []jsonColumn `json:"columns,omitempty"`
	Groups         []jsonGroup  `json:"groups,omitempty"`
}

type jsonGroup struct {
	Key     []*string    `json:"key"`
	Rows    int          `json:"rows"`
	Columns []jsonColumn `json:"columns"`
}

type jsonColumn struct {
	Name         string         `json:"name"`
	Kind         string         `json:"kind"`
	Count        int            `json:"count"`
	Mean         *jsonFloat     `json:"mean,omitempty"`
	Min          *jsonFloat     `json:"min,omitempty"`
	Max          *jsonFloat     `json:"max,omitempty"`
	StdDev       *jsonFloat     `json:"std_dev,omitempty"`
	UniqueValues *int           `json:"unique_values,omitempty"`
	MostFrequent *jsonFrequency `json:"most_frequent,omitempty"`
}

type jsonFrequency struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// jsonFloat encodes non-finite values as strings since JSON has no literal for them.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte(strconv.Quote(FormatFloat(v))), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func floatPtr(v float64) *jsonFloat {
	f := jsonFloat(v)
	return &f
}

// RenderDataset writes one dataset document to w.
func (j JSON) RenderDataset(w io.Writer, res *engine.DescribeResult) error {
	doc := jsonDataset{
		Name:    res.Name,
		Path:    res.Path,
		Bytes:   res.Size,
		Rows:    res.RowCount,
		Columns: res.Columns,
		Ragged:  res.Ragged,
		Missing: res.Quality.MissingCells,
	}
	if res.Error != nil {
		doc.Absent = res.Missing()
		doc.Error = res.Error.Error()
	}
	for _, a := range res.Analyses {
		doc.Analyses = append(doc.Analyses, toJSONAnalysis(a, res.MaxGroups))
	}

	enc := json.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}

func toJSONAnalysis(a engine.Analysis, maxGroups int) jsonAnalysis {
	out := jsonAnalysis{
		GroupBy:        a.Keys,
		ElapsedSeconds: Seconds(a.Elapsed),
	}
	if !a.Grouped() {
		out.Columns = toJSONColumns(a.Summary)
		return out
	}
	out.TotalGroups = a.Result.Len()
	for _, g := range a.VisibleGroups(maxGroups) {
		key := make([]*string, len(g.Key))
		for i, c := range g.Key {
			if !c.Null {
				v := c.Value
				key[i] = &v
			}
		}
		out.Groups = append(out.Groups, jsonGroup{
			Key:     key,
			Rows:    g.Rows,
			Columns: toJSONColumns(&g.Summary),
		})
	}
	return out
}

func toJSONColumns(s *grouping.Summary) []jsonColumn {
	cols := make([]jsonColumn, 0, len(s.Columns))
	for _, c := range s.Columns {
		col := jsonColumn{Name: c.Name, Kind: c.Kind.String(), Count: c.Count}
		switch c.Kind {
		case profiler.KindNumeric:
			col.Mean = floatPtr(c.Numeric.Mean)
			col.Min = floatPtr(c.Numeric.Min)
			col.Max = floatPtr(c.Numeric.Max)
			col.StdDev = floatPtr(c.Numeric.StdDev)
		case profiler.KindCategorical:
			unique := c.Categorical.UniqueValues
			col.UniqueValues = &unique
			col.MostFrequent = &jsonFrequency{
				Value: c.Categorical.MostFrequent.Value,
				Count: c.Categorical.MostFrequent.Count,
			}
		}
		cols = append(cols, col)
	}
	return cols
}
