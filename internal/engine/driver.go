package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/peekknuf/colstats/internal/apperr"
	"github.com/peekknuf/colstats/internal/config"
	"github.com/peekknuf/colstats/internal/grouping"
	"github.com/peekknuf/colstats/internal/logging"
	"github.com/peekknuf/colstats/internal/source"
	"github.com/schollz/progressbar/v3"
)

// Analysis is one ungrouped or grouped pass over a dataset.
type Analysis struct {
	Keys    []string          // group-by columns; empty for the ungrouped pass
	Summary *grouping.Summary // set for the ungrouped pass
	Result  *grouping.Result  // set for grouped passes
	Elapsed time.Duration
}

// Grouped reports whether a is a grouped pass.
func (a Analysis) Grouped() bool { return a.Result != nil }

// VisibleGroups returns the first max groups, or all of them when max is 0.
func (a Analysis) VisibleGroups(max int) []grouping.Group {
	if a.Result == nil {
		return nil
	}
	if max > 0 && max < len(a.Result.Groups) {
		return a.Result.Groups[:max]
	}
	return a.Result.Groups
}

// DescribeResult contains the complete analysis of one dataset. A dataset whose source
// could not be read has Error set and no analyses.
type DescribeResult struct {
	Name           string
	Path           string
	Size           int64
	RowCount       int
	Columns        []string
	Ragged         int
	Quality        QualityMetrics
	MaxGroups      int
	Analyses       []Analysis
	LoadTime       time.Duration
	ProcessingTime time.Duration
	Error          error
}

// Missing reports whether the dataset was skipped because its source does not exist.
func (r *DescribeResult) Missing() bool {
	return apperr.HasCode(r.Error, apperr.CodeMissingSource)
}

// Renderer writes one dataset's results.
type Renderer interface {
	RenderDataset(w io.Writer, res *DescribeResult) error
}

// Options tunes a Driver.
type Options struct {
	Workers   int
	MaxGroups int

	// Progress receives a progress bar across datasets; nil disables it.
	Progress io.Writer
}

// Driver reads each configured dataset, analyzes it and renders the result.
type Driver struct {
	out      io.Writer
	renderer Renderer
	logger   *logging.Logger
	opts     Options
}

// NewDriver creates a driver that renders to out.
func NewDriver(out io.Writer, renderer Renderer, logger *logging.Logger, opts Options) *Driver {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Driver{out: out, renderer: renderer, logger: logger, opts: opts}
}

// Run describes every dataset in order. Datasets that cannot be read are reported and
// skipped; only a failure to write the report stops the run.
func (d *Driver) Run(datasets []config.Dataset) ([]DescribeResult, error) {
	bar := d.newProgressBar(len(datasets))
	defer bar.Finish()

	results := make([]DescribeResult, 0, len(datasets))
	for _, ds := range datasets {
		res := d.Describe(ds)
		switch {
		case res.Missing():
			d.logger.Warn("File not found: %s, skipping %s", ds.Path, res.Name)
		case res.Error != nil:
			d.logger.Error("Failed to describe %s (%s): %v", res.Name, apperr.Code(res.Error), res.Error)
		}

		if err := d.renderer.RenderDataset(d.out, &res); err != nil {
			return results, fmt.Errorf("failed to render %s: %w", res.Name, err)
		}
		results = append(results, res)
		bar.Add(1)
	}
	return results, nil
}

// Describe loads one dataset and runs its ungrouped and grouped analyses.
func (d *Driver) Describe(ds config.Dataset) DescribeResult {
	startTime := time.Now()

	res := DescribeResult{
		Name:      ds.DisplayName(),
		Path:      ds.Path,
		MaxGroups: ds.MaxGroups,
	}
	if res.MaxGroups == 0 {
		res.MaxGroups = d.opts.MaxGroups
	}

	delim, err := ds.DelimiterRune()
	if err != nil {
		res.Error = err
		return res
	}
	opts := source.DefaultOptions()
	opts.Delimiter = delim
	opts.Sheet = ds.Sheet

	table, err := source.Open(ds.Path, opts)
	if err != nil {
		res.Error = err
		return res
	}
	res.LoadTime = time.Since(startTime)
	res.Size = table.Size
	res.RowCount = len(table.Rows)
	res.Columns = table.Columns
	res.Ragged = table.Ragged
	res.Quality = CalculateQuality(table)
	if table.Ragged > 0 {
		d.logger.Warn("%s: %d records did not match the header width", res.Name, table.Ragged)
	}
	d.logger.Debug("Loaded %s: %d rows, %d columns in %v", res.Name, res.RowCount, len(res.Columns), res.LoadTime)

	if !ds.SkipUngrouped {
		res.Analyses = append(res.Analyses, d.analyze(table, nil))
	}
	for _, keys := range ds.GroupBy {
		d.warnUnknownKeys(res.Name, table, keys)
		res.Analyses = append(res.Analyses, d.analyze(table, keys))
	}

	res.ProcessingTime = time.Since(startTime)
	return res
}

// analyze times a single analysis call over already loaded rows.
func (d *Driver) analyze(table *source.Table, keys []string) Analysis {
	opt := grouping.WithWorkers(d.opts.Workers)
	a := Analysis{Keys: keys}

	start := time.Now()
	if len(keys) == 0 {
		a.Summary = grouping.Analyze(table.Rows, opt)
	} else {
		a.Result = grouping.GroupAndAnalyze(table.Rows, keys, opt)
	}
	a.Elapsed = time.Since(start)

	if a.Result != nil {
		d.logger.Debug("Grouped by %v: %d groups in %v", keys, a.Result.Len(), a.Elapsed)
	}
	return a
}

// warnUnknownKeys flags key columns absent from the header; those rows are grouped by
// the remaining key columns only.
func (d *Driver) warnUnknownKeys(name string, table *source.Table, keys []string) {
	known := make(map[string]bool, len(table.Columns))
	for _, c := range table.Columns {
		known[c] = true
	}
	for _, k := range keys {
		if !known[k] {
			d.logger.Warn("%s: group-by column %q not in header, keys will omit it", name, k)
		}
	}
}

func (d *Driver) newProgressBar(n int) *progressbar.ProgressBar {
	w := d.opts.Progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][reset] Describing datasets..."),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
	)
}
