package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peekknuf/colstats/internal/config"
	"github.com/peekknuf/colstats/internal/engine"
	"github.com/peekknuf/colstats/internal/logging"
	"github.com/peekknuf/colstats/internal/processing"
	"github.com/peekknuf/colstats/internal/report"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	logger   = logging.NewFromEnv()

	// levelPinned is set when LOG_LEVEL or --log-level chose the level, which then
	// wins over log_level in the config file.
	levelPinned bool
)

var rootCmd = &cobra.Command{
	Use:   "colstats",
	Short: "Descriptive statistics for CSV data",
	Long: `Per-column descriptive statistics for CSV and Excel data,
overall or within groups defined by one or more key columns`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return err
		}
		level := os.Getenv(config.EnvLogLevel)
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		levelPinned = level != ""
		return setLogLevel(level)
	},
}

func setLogLevel(level string) error {
	l, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(l)
	return nil
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $COLSTATS_CONFIG or $HOME/.colstats.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log verbosity: error, warn, info, debug; error also hides the progress bar (default from LOG_LEVEL or log_level in the config)")
}

// loadConfig reads --config, falling back to the default location. With no config
// file at all an empty configuration is returned. The file's log_level applies unless
// the level was already set from the flag or the environment.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		cfg := &config.Config{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if !levelPinned && cfg.LogLevel != "" {
		if err := setLogLevel(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	logger.Debug("Using config file %s", path)
	return cfg, nil
}

// parseGroupBy turns repeated "a,b" flag values into key-column sets.
func parseGroupBy(values []string) ([][]string, error) {
	var sets [][]string
	for _, value := range values {
		var keys []string
		for _, k := range strings.Split(value, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("empty --group-by value %q", value)
		}
		sets = append(sets, keys)
	}
	return sets, nil
}

func newRenderer(format string) (engine.Renderer, error) {
	switch format {
	case config.FormatText:
		return report.Text{}, nil
	case config.FormatJSON:
		return report.JSON{Indent: true}, nil
	}
	return nil, fmt.Errorf("unknown format %q (want text or json)", format)
}

// applyReportFlags lets the report flags the user actually set override cfg, and returns
// the output path: the --output value, else report.output from the config.
func applyReportFlags(cmd *cobra.Command, cfg *config.Config, format string, maxGroups, workers int, output string) string {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Report.Format = format
	}
	if flags.Changed("max-groups") {
		cfg.Report.MaxGroups = maxGroups
	}
	if flags.Changed("workers") {
		cfg.Workers = resolveWorkers(workers)
	}
	if output != "" {
		return output
	}
	return cfg.Report.Output
}

func resolveWorkers(n int) int {
	if n <= 0 {
		return processing.DefaultWorkers()
	}
	return n
}

// runDatasets describes datasets and writes the report to outputFile or stdout.
func runDatasets(datasets []config.Dataset, cfg *config.Config, outputFile string) error {
	renderer, err := newRenderer(cfg.Report.Format)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", outputFile, err)
		}
		defer f.Close()
		out = f
	}

	var progress io.Writer = os.Stderr
	if logger.Level() == logging.LevelError {
		progress = nil
	}
	driver := engine.NewDriver(out, renderer, logger, engine.Options{
		Workers:   cfg.Workers,
		MaxGroups: cfg.Report.MaxGroups,
		Progress:  progress,
	})
	results, err := driver.Run(datasets)
	if err != nil {
		return err
	}

	skipped := 0
	for _, r := range results {
		if r.Error != nil {
			skipped++
		}
	}
	logger.Info("Described %d of %d datasets", len(results)-skipped, len(results))

	if outputFile != "" {
		fmt.Printf("Results saved to %s\n", outputFile)
	}
	return nil
}
