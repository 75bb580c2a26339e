package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/peekknuf/colstats/internal/engine"
	"github.com/peekknuf/colstats/internal/grouping"
)

const ruleWidth = 50

// Text renders datasets as indented, human-readable blocks.
type Text struct{}

// RenderDataset writes one dataset block to w.
func (Text) RenderDataset(w io.Writer, res *engine.DescribeResult) error {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("\n====== Analyzing %s Dataset ======\n\n", res.Name))

	if res.Error != nil {
		if res.Missing() {
			output.WriteString(fmt.Sprintf("File not found: %s. Skipping this dataset.\n", res.Path))
		} else {
			output.WriteString(fmt.Sprintf("Could not read %s: %v. Skipping this dataset.\n", res.Path, res.Error))
		}
		_, err := io.WriteString(w, output.String())
		return err
	}

	output.WriteString(fmt.Sprintf("Source: %s (%s)\n", res.Path, humanize.Bytes(uint64(res.Size))))
	output.WriteString(fmt.Sprintf("Rows: %s | Columns: %d | Missing cells: %s (%.1f%%)\n",
		humanize.Comma(int64(res.RowCount)), len(res.Columns),
		humanize.Comma(int64(res.Quality.MissingCells)), res.Quality.NullPercentage))
	if res.Ragged > 0 {
		output.WriteString(fmt.Sprintf("Ragged records: %s\n", humanize.Comma(int64(res.Ragged))))
	}

	for _, a := range res.Analyses {
		if a.Grouped() {
			writeGrouped(&output, a, res.MaxGroups)
		} else {
			writeUngrouped(&output, a)
		}
	}

	_, err := io.WriteString(w, output.String())
	return err
}

func writeUngrouped(output *strings.Builder, a engine.Analysis) {
	output.WriteString(fmt.Sprintf("\nExecution Time: %.2f seconds\n\n", Seconds(a.Elapsed)))
	writeColumns(output, a.Summary, "", strings.Repeat("-", ruleWidth))
}

func writeGrouped(output *strings.Builder, a engine.Analysis, maxGroups int) {
	output.WriteString(fmt.Sprintf("\n--- Grouped by [%s] ---\n\n", strings.Join(a.Keys, ", ")))
	output.WriteString(fmt.Sprintf("Execution Time: %.2f seconds\n", Seconds(a.Elapsed)))

	groups := a.VisibleGroups(maxGroups)
	if len(groups) < a.Result.Len() {
		output.WriteString(fmt.Sprintf("Groups: %s (showing first %d)\n",
			humanize.Comma(int64(a.Result.Len())), len(groups)))
	} else {
		output.WriteString(fmt.Sprintf("Groups: %s\n", humanize.Comma(int64(a.Result.Len()))))
	}

	for i := range groups {
		g := &groups[i]
		output.WriteString(fmt.Sprintf("\nGroup: %s\n", g.Key))
		writeColumns(output, &g.Summary, "  ", "  ---")
	}
}

func writeColumns(output *strings.Builder, s *grouping.Summary, indent, rule string) {
	for _, col := range s.Columns {
		output.WriteString(fmt.Sprintf("%sColumn: %s\n", indent, col.Name))
		for _, st := range col.Stats() {
			output.WriteString(fmt.Sprintf("%s  %s: %s\n", indent, st.Name, FormatValue(st.Value)))
		}
		output.WriteString(rule + "\n")
	}
}
