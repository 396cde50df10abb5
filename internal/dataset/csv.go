package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrNoHeader is returned when the input has no header row.
	ErrNoHeader = errors.New("dataset has no header row")
	// ErrNoRows is returned when the input has a header but no data rows.
	ErrNoRows = errors.New("dataset is empty")
	// ErrUnsupportedFormat is returned by LoadFile for unknown extensions.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// ParseError reports a malformed record.
type ParseError struct {
	Row int
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("read row %d: %v", e.Row, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// Options controls how raw records are decoded into a Table.
type Options struct {
	// Delimiter for CSV. If 0, chosen from the file name (',' or '\t').
	Delimiter rune
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// DecimalSeparator and ThousandsSeparator force a numeric locale; 0 auto-detects per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// SheetName / SheetIndex select an XLSX worksheet. SheetIndex is 1-based.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns the decoder defaults.
func DefaultOptions() Options {
	return Options{MaxRows: 100000, SheetIndex: 1}
}

var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
	"-nan": {},
}

// IsMissing reports whether a raw cell denotes an absent value.
func IsMissing(raw string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// LoadFile decodes a .csv, .tsv or .xlsx file.
func LoadFile(path string, opt Options) (*Table, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return ReadXLSX(path, opt)
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".tsv"), strings.HasSuffix(lower, ".txt"):
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()
		if opt.Delimiter == 0 {
			opt.Delimiter = SniffDelimiter(path)
		}
		t, err := ReadCSV(f, opt)
		if err != nil {
			return nil, err
		}
		t.Name = filepath.Base(path)
		return t, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// SniffDelimiter picks a delimiter from the file name.
func SniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}

// ReadCSV decodes delimited text with a header row into a typed Table.
func ReadCSV(r io.Reader, opt Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var records [][]string
	truncated := false
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Row: len(records) + 1, Err: err}
		}
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			truncated = true
			break
		}
		records = append(records, rec)
	}
	t, err := FromRecords(header, records, opt)
	if err != nil {
		return nil, err
	}
	t.Truncated = truncated
	return t, nil
}

// FromRecords infers column types and builds a Table from a header and raw rows.
// A column is numeric when it has at least one present value and every present
// value parses as a number; otherwise it is categorical.
func FromRecords(header []string, records [][]string, opt Options) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrNoHeader
	}
	if len(records) == 0 {
		return nil, ErrNoRows
	}
	t := &Table{Columns: make([]*Column, len(header))}
	seen := make(map[string]int, len(header))
	for j, h := range header {
		name := uniqueName(strings.TrimSpace(h), j, seen)
		t.Columns[j] = decodeColumn(name, j, records, opt)
	}
	return t, nil
}

func uniqueName(name string, idx int, seen map[string]int) string {
	if name == "" {
		name = fmt.Sprintf("column_%d", idx+1)
	}
	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s.%d", name, n)
}

func decodeColumn(name string, j int, records [][]string, opt Options) *Column {
	nums := make([]float64, len(records))
	strs := make([]string, len(records))
	null := make([]bool, len(records))
	present, numeric := 0, true
	for i, rec := range records {
		var raw string
		if j < len(rec) {
			raw = strings.TrimSpace(rec[j])
		}
		if IsMissing(raw) {
			null[i] = true
			continue
		}
		present++
		strs[i] = raw
		if !numeric {
			continue
		}
		x, ok := ParseNumeric(raw, opt)
		if !ok {
			numeric = false
			continue
		}
		nums[i] = x
	}
	if present > 0 && numeric {
		return &Column{Name: name, Type: Numeric, Nums: nums, Null: null}
	}
	return &Column{Name: name, Type: Categorical, Strs: strs, Null: null}
}

// ParseNumeric parses a number written with either '.' or ',' as decimal
// separator and optional thousands grouping. Percent signs are dropped.
func ParseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0 && strings.Count(raw, ",") == 1 && len(raw)-cpos-1 != 3:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
