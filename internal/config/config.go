package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/peekknuf/colstats/internal/apperr"
	"github.com/peekknuf/colstats/internal/logging"
	"github.com/peekknuf/colstats/internal/source"
	"gopkg.in/yaml.v3"
)

// Environment variables read at startup.
const (
	EnvConfigPath = "COLSTATS_CONFIG"
	EnvLogLevel   = "LOG_LEVEL"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is one analysis run: the datasets to describe and how to report them.
type Config struct {
	Datasets []Dataset `yaml:"datasets"`
	Report   Report    `yaml:"report"`
	Workers  int       `yaml:"workers"`
	LogLevel string    `yaml:"log_level"`
}

// Dataset is one row source and the analyses to run on it.
type Dataset struct {
	Name      string `yaml:"name"`
	Path      string `yaml:"path"`
	Sheet     string `yaml:"sheet"`
	Delimiter string `yaml:"delimiter"`

	// GroupBy lists key-column sets; each set yields one grouped analysis.
	GroupBy [][]string `yaml:"group_by"`

	// MaxGroups limits how many groups are rendered; 0 uses the report default.
	MaxGroups     int  `yaml:"max_groups"`
	SkipUngrouped bool `yaml:"skip_ungrouped"`
}

// Report holds rendering settings.
type Report struct {
	Format    string `yaml:"format"`
	MaxGroups int    `yaml:"max_groups"`
	Output    string `yaml:"output"`
}

// DisplayName returns Name, falling back to the file name of Path.
func (d Dataset) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return filepath.Base(d.Path)
}

// DelimiterRune returns the configured delimiter, or 0 to use the file type's default.
// Only the delimiters the reader knows (, ; tab |) are accepted.
func (d Dataset) DelimiterRune() (rune, error) {
	switch strings.ToLower(d.Delimiter) {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(d.Delimiter)
	if size != len(d.Delimiter) || !source.IsValidDelimiter(r) {
		return 0, apperr.Newf(apperr.CodeInvalidConfig, "invalid delimiter %q", d.Delimiter)
	}
	return r, nil
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrapf(err, apperr.CodeInvalidConfig, "failed to read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, apperr.Wrapf(err, apperr.CodeInvalidConfig, "invalid config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML, rejecting unknown keys, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Report.Format == "" {
		c.Report.Format = FormatText
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
}

// Validate checks the configuration for mistakes that would make a run meaningless.
func (c *Config) Validate() error {
	switch c.Report.Format {
	case FormatText, FormatJSON:
	default:
		return apperr.Newf(apperr.CodeInvalidConfig, "unknown report format %q", c.Report.Format)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperr.Wrap(err, apperr.CodeInvalidConfig, "invalid log_level")
	}
	if c.Report.MaxGroups < 0 {
		return apperr.New(apperr.CodeInvalidConfig, "report.max_groups must not be negative")
	}
	for i, d := range c.Datasets {
		if strings.TrimSpace(d.Path) == "" {
			return apperr.Newf(apperr.CodeInvalidConfig, "dataset %d (%s): path is required", i, d.Name)
		}
		if d.MaxGroups < 0 {
			return apperr.Newf(apperr.CodeInvalidConfig, "dataset %s: max_groups must not be negative", d.DisplayName())
		}
		if _, err := d.DelimiterRune(); err != nil {
			return apperr.Wrapf(err, "", "dataset %s", d.DisplayName())
		}
		for j, keys := range d.GroupBy {
			if len(keys) == 0 {
				return apperr.Newf(apperr.CodeInvalidConfig, "dataset %s: group_by[%d] is empty", d.DisplayName(), j)
			}
			for _, k := range keys {
				if strings.TrimSpace(k) == "" {
					return apperr.Newf(apperr.CodeInvalidConfig, "dataset %s: group_by[%d] has a blank column", d.DisplayName(), j)
				}
			}
		}
	}
	return nil
}

// LoadEnv loads .env style files into the environment, skipping files that do not
// exist. Variables already set are not overridden.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return apperr.Wrapf(err, apperr.CodeInvalidConfig, "failed to load %s", f)
		}
	}
	return nil
}

// DefaultPath returns $COLSTATS_CONFIG, else $HOME/.colstats.yaml when that file exists,
// else "".
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".colstats.yaml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}
