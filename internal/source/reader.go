package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/peekknuf/colstats/internal/apperr"
	"github.com/xuri/excelize/v2"
)

// sniffSize is how much of a delimited file is inspected for delimiter detection.
const sniffSize = 64 * 1024

// Options controls how a row source is read.
type Options struct {
	Delimiter rune   // Field delimiter; 0 detects it from the header lines
	TrimSpace bool   // Trim column names and values
	Sheet     string // Workbook sheet; empty means the first sheet
}

// DefaultOptions returns the options used by the CLI: detect the delimiter and trim.
func DefaultOptions() Options {
	return Options{TrimSpace: true}
}

// Kind is the family of file a row source is read from.
type Kind int

const (
	KindUnknown Kind = iota
	KindDelimited
	KindWorkbook
)

var extensionKinds = map[string]Kind{
	".csv":  KindDelimited,
	".tsv":  KindDelimited,
	".txt":  KindDelimited,
	".xlsx": KindWorkbook,
	".xlsm": KindWorkbook,
}

// extensionDelimiters fixes the delimiter for extensions that imply one; other
// delimited files are sniffed.
var extensionDelimiters = map[string]rune{
	".csv": ',',
	".tsv": '\t',
}

// SupportedExtensions lists the file extensions Open understands.
func SupportedExtensions() []string {
	return []string{".csv", ".tsv", ".txt", ".xlsx", ".xlsm"}
}

// KindOf classifies path by its extension.
func KindOf(path string) Kind {
	return extensionKinds[strings.ToLower(filepath.Ext(path))]
}

// Open reads the whole file at path into a Table. Without an explicit delimiter, .csv
// files split on commas, .tsv files on tabs and .txt files are sniffed. A path that does
// not exist yields an error carrying apperr.CodeMissingSource.
func Open(path string, opts Options) (*Table, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.Wrapf(err, apperr.CodeMissingSource, "file not found: %s", path)
	}
	if err != nil {
		return nil, apperr.Wrapf(err, apperr.CodeReadFailed, "error accessing %s", path)
	}
	if info.IsDir() {
		return nil, apperr.Newf(apperr.CodeUnsupportedSource, "%s is a directory", path)
	}

	kind := KindOf(path)
	if kind == KindUnknown {
		return nil, apperr.Newf(apperr.CodeUnsupportedSource, "unsupported file type: %s", path)
	}

	if opts.Delimiter == 0 {
		opts.Delimiter = extensionDelimiters[strings.ToLower(filepath.Ext(path))]
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, apperr.Wrapf(err, apperr.CodeReadFailed, "failed to open %s", path)
	}
	defer file.Close()

	var table *Table
	switch kind {
	case KindWorkbook:
		table, err = ReadXLSX(file, opts)
	default:
		table, err = ReadCSV(file, opts)
	}
	if err != nil {
		return nil, apperr.Wrapf(err, apperr.CodeReadFailed, "failed to read %s", path)
	}
	table.Path = path
	table.Size = info.Size()
	return table, nil
}

// ReadCSV reads delimited text whose first record is the header.
func ReadCSV(r io.Reader, opts Options) (*Table, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	delim := opts.Delimiter
	if delim == 0 {
		// Peek returns what it has alongside an error for short inputs.
		head, _ := br.Peek(sniffSize)
		delim = DetectDelimiter(head, len(head))
	}

	reader := csv.NewReader(br)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}
	headers[0] = strings.TrimPrefix(headers[0], "\ufeff")

	b := newTableBuilder(headers, opts.TrimSpace)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		b.add(record, Null())
	}
	return b.table, nil
}

// ReadXLSX reads one sheet of an Excel workbook whose first row is the header.
func ReadXLSX(r io.Reader, opts Options) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return &Table{}, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	b := newTableBuilder(rows[0], opts.TrimSpace)
	for _, record := range rows[1:] {
		// GetRows drops trailing blank cells, so a short row is blanks, not nulls.
		b.add(record, Value(""))
	}
	return b.table, nil
}

// tableBuilder maps raw records onto the de-duplicated header.
type tableBuilder struct {
	table *Table
	names []string
	slots []int
	trim  bool
}

func newTableBuilder(headers []string, trim bool) *tableBuilder {
	b := &tableBuilder{
		table: &Table{},
		names: make([]string, len(headers)),
		slots: make([]int, len(headers)),
		trim:  trim,
	}
	pos := make(map[string]int, len(headers))
	for i, h := range headers {
		if trim {
			h = strings.TrimSpace(h)
		}
		b.names[i] = h
		if p, ok := pos[h]; ok {
			b.slots[i] = p
			continue
		}
		pos[h] = len(b.table.Columns)
		b.slots[i] = len(b.table.Columns)
		b.table.Columns = append(b.table.Columns, h)
	}
	return b
}

// add appends one record. Fields missing from a short record get fill; fields beyond
// the header are dropped. Later duplicates of a header name win.
func (b *tableBuilder) add(record []string, fill Cell) {
	if len(record) != len(b.names) {
		b.table.Ragged++
	}

	row := make(Row, len(b.table.Columns))
	for j, name := range b.table.Columns {
		row[j] = Field{Name: name, Cell: fill}
	}
	for i := range b.names {
		cell := fill
		if i < len(record) {
			v := record[i]
			if b.trim {
				v = strings.TrimSpace(v)
			}
			cell = Value(v)
		}
		row[b.slots[i]].Cell = cell
	}
	b.table.Rows = append(b.table.Rows, row)
}
