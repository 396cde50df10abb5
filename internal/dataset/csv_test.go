package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVInfersTypes(t *testing.T) {
	in := strings.Join([]string{
		"date,region,sales,units,notes",
		"2024-01-01,North,100.5,3,",
		"2024-01-02,South,NA,4,late",
		"2024-01-03,,120,n/a,",
		"2024-01-04,North,130,6",
	}, "\n")

	tbl, err := ReadCSV(strings.NewReader(in), Options{})
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Rows())
	require.Len(t, tbl.Columns, 5)

	date, _ := tbl.Column("date")
	assert.Equal(t, Categorical, date.Type)

	region, _ := tbl.Column("region")
	assert.Equal(t, Categorical, region.Type)
	assert.Equal(t, []bool{false, false, true, false}, region.Null)

	sales, _ := tbl.Column("sales")
	assert.Equal(t, Numeric, sales.Type)
	assert.Equal(t, 1, sales.MissingCount())
	assert.Equal(t, []float64{100.5, 120, 130}, sales.Present())

	units, _ := tbl.Column("units")
	assert.Equal(t, Numeric, units.Type)
	assert.True(t, units.IsNull(2))

	// short final row is padded with absent cells
	notes, _ := tbl.Column("notes")
	assert.Equal(t, Categorical, notes.Type)
	assert.Equal(t, 3, notes.MissingCount())
	assert.Equal(t, []string{"late"}, notes.PresentStrings())
}

func TestReadCSVAllMissingColumnIsCategorical(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a,b\n1,\n2,\n"), Options{})
	require.NoError(t, err)
	b, _ := tbl.Column("b")
	assert.Equal(t, Categorical, b.Type)
	assert.Equal(t, 2, b.MissingCount())
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), Options{})
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = ReadCSV(strings.NewReader("a,b\n"), Options{})
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = ReadCSV(strings.NewReader("a,b\n\"unterminated,1\n"), Options{})
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Row)
}

func TestReadCSVMaxRowsAndDuplicateHeaders(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("x,x,\n1,2,3\n4,5,6\n7,8,9\n"), Options{MaxRows: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Rows())
	assert.True(t, tbl.Truncated)
	assert.Equal(t, "x", tbl.Columns[0].Name)
	assert.Equal(t, "x.1", tbl.Columns[1].Name)
	assert.Equal(t, "column_3", tbl.Columns[2].Name)
}

func TestReadCSVTruncatedOnlyWhenRowsDropped(t *testing.T) {
	exact, err := ReadCSV(strings.NewReader("a\n1\n2\n"), Options{MaxRows: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, exact.Rows())
	assert.False(t, exact.Truncated)

	over, err := ReadCSV(strings.NewReader("a\n1\n2\n3\n"), Options{MaxRows: 2})
	require.NoError(t, err)
	assert.True(t, over.Truncated)
	assert.True(t, over.Clone().Truncated)
}

func TestParseNumericLocales(t *testing.T) {
	cases := []struct {
		in   string
		opt  Options
		want float64
		ok   bool
	}{
		{"42", Options{}, 42, true},
		{"-3.5e2", Options{}, -350, true},
		{"0,5", Options{}, 0.5, true},
		{"1,000", Options{}, 1000, true},
		{"1.234,5", Options{}, 1234.5, true},
		{"1,234.5", Options{}, 1234.5, true},
		{"12%", Options{}, 12, true},
		{"1.000,0", Options{DecimalSeparator: ',', ThousandsSeparator: '.'}, 1000, true},
		{"abc", Options{}, 0, false},
		{"Inf", Options{}, 0, false},
		{"2024-01-01", Options{}, 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseNumeric(tc.in, tc.opt)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, tc.in)
		}
	}
}

func TestLoadFileDispatch(t *testing.T) {
	dir := t.TempDir()
	tsv := filepath.Join(dir, "data.tsv")
	require.NoError(t, os.WriteFile(tsv, []byte("a\tb\n1\tx\n2\ty\n"), 0o644))

	tbl, err := LoadFile(tsv, Options{})
	require.NoError(t, err)
	assert.Equal(t, "data.tsv", tbl.Name)
	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, Numeric, tbl.Columns[0].Type)

	_, err = LoadFile(filepath.Join(dir, "data.json"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTableHelpers(t *testing.T) {
	x := 1.5
	tbl := NewTable("t",
		NewNumericColumn("n", []*float64{&x, nil}),
		Strings("s", "a", "a"),
	)
	assert.Equal(t, 2, tbl.Rows())
	assert.Len(t, tbl.NumericColumns(), 1)
	assert.Len(t, tbl.CategoricalColumns(), 1)
	assert.NotEqual(t, tbl.RowKey(0), tbl.RowKey(1))

	cp := tbl.Clone()
	cp.Columns[0].Nums[0] = 99
	assert.Equal(t, 1.5, tbl.Columns[0].Nums[0])
	assert.Equal(t, "numeric", Numeric.String())
}
