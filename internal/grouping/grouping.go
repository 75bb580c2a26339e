package grouping

import (
	"github.com/peekknuf/colstats/internal/processing"
	"github.com/peekknuf/colstats/internal/profiler"
	"github.com/peekknuf/colstats/internal/source"
)

// Summary holds the statistics of every column of one group, or of a whole dataset, in
// the order the columns were first seen.
type Summary struct {
	Columns []profiler.ColumnStats
}

// Column looks up the statistics of one column.
func (s *Summary) Column(name string) (profiler.ColumnStats, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return profiler.ColumnStats{}, false
}

// Names returns the column names in order.
func (s *Summary) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Group is one partition of the rows and the statistics of its columns.
type Group struct {
	Key  Key
	Rows int
	Summary
}

// Result is a grouped dataset summary. Groups are in first-encounter order.
type Result struct {
	Keys   []string
	Groups []Group

	index map[string]int
}

// Len returns the number of groups.
func (r *Result) Len() int { return len(r.Groups) }

// Group looks up a group by key.
func (r *Result) Group(key Key) (*Group, bool) {
	i, ok := r.index[key.ID()]
	if !ok {
		return nil, false
	}
	return &r.Groups[i], true
}

type options struct {
	workers int
}

// Option configures an analysis.
type Option func(*options)

// WithWorkers finalizes column samples on up to n goroutines. Output is identical to
// the sequential run.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// accumulator is the per-group column buffer built while rows are consumed.
type accumulator struct {
	key     Key
	rows    int
	samples []*profiler.Sample
	index   map[string]int
}

func newAccumulator(key Key) *accumulator {
	return &accumulator{key: key, index: make(map[string]int)}
}

func (a *accumulator) add(row source.Row) {
	a.rows++
	for _, f := range row {
		i, ok := a.index[f.Name]
		if !ok {
			i = len(a.samples)
			a.index[f.Name] = i
			a.samples = append(a.samples, profiler.NewSample(f.Name))
		}
		a.samples[i].Update(f.Cell)
	}
}

// GroupAndAnalyze partitions rows by the values of the key columns and summarizes every
// column seen in each group, key columns included.
func GroupAndAnalyze(rows []source.Row, keys []string, opts ...Option) *Result {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	var accs []*accumulator
	byID := make(map[string]int)
	for _, row := range rows {
		key := KeyOf(row, keys)
		id := key.ID()
		i, ok := byID[id]
		if !ok {
			i = len(accs)
			byID[id] = i
			accs = append(accs, newAccumulator(key))
		}
		accs[i].add(row)
	}

	result := &Result{
		Keys:   append([]string(nil), keys...),
		Groups: make([]Group, len(accs)),
		index:  byID,
	}

	type unit struct{ group, column int }
	var units []unit
	for g, acc := range accs {
		result.Groups[g] = Group{
			Key:     acc.key,
			Rows:    acc.rows,
			Summary: Summary{Columns: make([]profiler.ColumnStats, len(acc.samples))},
		}
		for c := range acc.samples {
			units = append(units, unit{g, c})
		}
	}

	processing.NewPool(o.workers).Run(len(units), func(i int) {
		u := units[i]
		result.Groups[u.group].Columns[u.column] = accs[u.group].samples[u.column].Finalize()
	})
	return result
}

// Analyze summarizes every column across all rows as a single implicit group.
func Analyze(rows []source.Row, opts ...Option) *Summary {
	result := GroupAndAnalyze(rows, nil, opts...)
	if len(result.Groups) == 0 {
		return &Summary{}
	}
	return &result.Groups[0].Summary
}
