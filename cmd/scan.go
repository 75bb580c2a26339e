package cmd

import (
	"fmt"

	"github.com/peekknuf/colstats/internal/config"
	"github.com/peekknuf/colstats/internal/connectors"
	"github.com/peekknuf/colstats/internal/source"
	"github.com/spf13/cobra"
)

var (
	dirPath       string
	recursive     bool
	minSize       int64
	maxSize       int64
	scanGroupBy   []string
	scanFormat    string
	scanMaxGroups int
	scanWorkers   int
	scanOutput    string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Describe every configured or discovered dataset",
	Long: `Describe the datasets listed in the config file and, with --dir,
every CSV or Excel file found in a directory. Datasets whose file is
missing are reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		groupBy, err := parseGroupBy(scanGroupBy)
		if err != nil {
			return err
		}

		datasets := cfg.Datasets
		if dirPath != "" {
			files, err := connectors.DiscoverFiles(dirPath, source.SupportedExtensions(), connectors.DiscoveryOptions{
				Recursive: recursive,
				MinSize:   minSize,
				MaxSize:   maxSize,
			})
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			logger.Info("Found %d data files in %s", len(files), dirPath)
			for _, f := range files {
				datasets = append(datasets, config.Dataset{Path: f.Path, GroupBy: groupBy})
			}
		}
		if len(datasets) == 0 {
			return fmt.Errorf("no datasets to describe: pass --dir or list datasets in --config")
		}

		output := applyReportFlags(cmd, cfg, scanFormat, scanMaxGroups, scanWorkers, scanOutput)

		check := config.Config{Datasets: datasets, Report: cfg.Report, Workers: cfg.Workers}
		if err := check.Validate(); err != nil {
			return err
		}
		return runDatasets(datasets, cfg, output)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&dirPath, "dir", "d", "",
		"Directory to scan for data files")
	scanCmd.Flags().BoolVarP(&recursive, "recursive", "r", false,
		"Search directories recursively")
	scanCmd.Flags().Int64Var(&minSize, "min-size", 0,
		"Minimum file size in bytes")
	scanCmd.Flags().Int64Var(&maxSize, "max-size", 0,
		"Maximum file size in bytes")
	scanCmd.Flags().StringArrayVar(&scanGroupBy, "group-by", nil,
		"Comma-separated key columns applied to discovered files; repeatable")
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", config.FormatText,
		"Output format: text or json")
	scanCmd.Flags().IntVar(&scanMaxGroups, "max-groups", 0,
		"Show only the first N groups of each grouping (default: all)")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 1,
		"Number of parallel workers; 0 auto-detects CPU cores")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "",
		"Output file to save results (default: stdout)")
}
