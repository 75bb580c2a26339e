package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/peekknuf/colstats/internal/config"
	"github.com/peekknuf/colstats/internal/logging"
	"github.com/peekknuf/colstats/internal/report"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGroupBy(t *testing.T) {
	sets, err := parseGroupBy([]string{"page_id", " page_id , ad_id ", "a,,b"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"page_id"}, {"page_id", "ad_id"}, {"a", "b"}}, sets)

	_, err = parseGroupBy([]string{" , "})
	assert.Error(t, err)

	sets, err = parseGroupBy(nil)
	require.NoError(t, err)
	assert.Nil(t, sets)
}

func TestNewRenderer(t *testing.T) {
	r, err := newRenderer(config.FormatText)
	require.NoError(t, err)
	assert.IsType(t, report.Text{}, r)

	r, err = newRenderer(config.FormatJSON)
	require.NoError(t, err)
	assert.IsType(t, report.JSON{}, r)

	_, err = newRenderer("yaml")
	assert.Error(t, err)
}

func TestResolveWorkers(t *testing.T) {
	assert.Equal(t, 3, resolveWorkers(3))
	assert.GreaterOrEqual(t, resolveWorkers(0), 1)
}

func TestRunDatasetsWritesReport(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "ads.csv")
	require.NoError(t, os.WriteFile(data, []byte("g,v\nx,1\nx,3\ny,5\n"), 0644))
	out := filepath.Join(dir, "report.txt")

	cfg := &config.Config{}
	cfg.ApplyDefaults()
	datasets := []config.Dataset{
		{Name: "Missing", Path: filepath.Join(dir, "missing.csv")},
		{Name: "Ads", Path: data, GroupBy: [][]string{{"g"}}},
	}
	require.NoError(t, runDatasets(datasets, cfg, out))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "File not found: "+filepath.Join(dir, "missing.csv"))
	assert.Contains(t, text, "====== Analyzing Ads Dataset ======")
	assert.Contains(t, text, "--- Grouped by [g] ---")
	assert.Contains(t, text, "Group: (\"y\")")
}

func TestLoadConfigAppliesLogLevel(t *testing.T) {
	savedFile, savedPinned, savedLevel := cfgFile, levelPinned, logger.Level()
	t.Cleanup(func() {
		cfgFile, levelPinned = savedFile, savedPinned
		logger.SetLevel(savedLevel)
	})

	cfgFile = filepath.Join(t.TempDir(), "colstats.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("log_level: debug\n"), 0644))

	levelPinned = false
	logger.SetLevel(logging.LevelInfo)
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, logging.LevelDebug, logger.Level())

	// A level from the flag or LOG_LEVEL wins.
	levelPinned = true
	logger.SetLevel(logging.LevelWarn)
	_, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, logging.LevelWarn, logger.Level())
}

func newReportFlagsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("format", config.FormatText, "")
	cmd.Flags().Int("max-groups", 0, "")
	cmd.Flags().Int("workers", 1, "")
	return cmd
}

func TestApplyReportFlagsKeepsConfigUnlessSet(t *testing.T) {
	cfg := &config.Config{
		Workers: 4,
		Report:  config.Report{Format: config.FormatJSON, MaxGroups: 2, Output: "configured.json"},
	}

	cmd := newReportFlagsCommand()
	require.NoError(t, cmd.Flags().Parse(nil))
	output := applyReportFlags(cmd, cfg, config.FormatText, 0, 1, "")
	assert.Equal(t, config.FormatJSON, cfg.Report.Format)
	assert.Equal(t, 2, cfg.Report.MaxGroups)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "configured.json", output)

	cmd = newReportFlagsCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--format", "text", "--max-groups", "5", "--workers", "3"}))
	output = applyReportFlags(cmd, cfg, config.FormatText, 5, 3, "report.txt")
	assert.Equal(t, config.FormatText, cfg.Report.Format)
	assert.Equal(t, 5, cfg.Report.MaxGroups)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "report.txt", output)
}
