package cmd

import (
	"github.com/peekknuf/colstats/internal/config"
	"github.com/spf13/cobra"
)

var (
	describeGroupBy     []string
	describeMaxGroups   int
	describeFormat      string
	describeWorkers     int
	describeSheet       string
	describeDelimiter   string
	describeGroupedOnly bool
	outputFile          string
)

var describeCmd = &cobra.Command{
	Use:   "describe [file]...",
	Short: "Generate descriptive statistics for CSV files",
	Long: `Generate per-column statistics for one or more CSV or Excel files.
Numeric columns get count, mean, min, max and sample standard deviation;
other columns get count, number of unique values and the most frequent value.
Cells that are empty, NA or NaN are ignored.

Examples:
  colstats describe ads.csv                                 # Whole-file statistics
  colstats describe ads.csv --group-by page_id              # Also per page_id
  colstats describe ads.csv --group-by page_id --group-by page_id,ad_id --max-groups 2
  colstats describe book.xlsx --sheet Q1 --format json --output q1.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		groupBy, err := parseGroupBy(describeGroupBy)
		if err != nil {
			return err
		}

		output := applyReportFlags(cmd, cfg, describeFormat, describeMaxGroups, describeWorkers, outputFile)

		datasets := make([]config.Dataset, 0, len(args))
		for _, path := range args {
			datasets = append(datasets, config.Dataset{
				Path:          path,
				Sheet:         describeSheet,
				Delimiter:     describeDelimiter,
				GroupBy:       groupBy,
				SkipUngrouped: describeGroupedOnly && len(groupBy) > 0,
			})
		}
		check := config.Config{Datasets: datasets, Report: cfg.Report, Workers: cfg.Workers}
		if err := check.Validate(); err != nil {
			return err
		}

		return runDatasets(datasets, cfg, output)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().StringArrayVar(&describeGroupBy, "group-by", nil,
		"Comma-separated key columns; repeat for several groupings")
	describeCmd.Flags().IntVar(&describeMaxGroups, "max-groups", 0,
		"Show only the first N groups of each grouping (default: all)")
	describeCmd.Flags().StringVar(&describeFormat, "format", config.FormatText,
		"Output format: text or json (default from the config, else text)")
	describeCmd.Flags().IntVar(&describeWorkers, "workers", 1,
		"Number of parallel workers; 0 auto-detects CPU cores")
	describeCmd.Flags().StringVar(&describeSheet, "sheet", "",
		"Worksheet to read from Excel files (default: first sheet)")
	describeCmd.Flags().StringVar(&describeDelimiter, "delimiter", "",
		"Field delimiter: , ; tab or | (default: comma for .csv, tab for .tsv, detected for .txt)")
	describeCmd.Flags().BoolVar(&describeGroupedOnly, "grouped-only", false,
		"Skip the whole-file statistics when --group-by is given")
	describeCmd.Flags().StringVar(&outputFile, "output", "",
		"Output file to save results (default: stdout)")
}
