package dataset

import (
	"strconv"
	"strings"
)

// ColumnType tags a column as numeric or categorical.
type ColumnType int

const (
	Numeric ColumnType = iota
	Categorical
)

func (t ColumnType) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column holds one named, typed sequence of cells. Numeric columns use Nums,
// categorical columns use Strs. Null[i] marks cell i as absent.
type Column struct {
	Name string
	Type ColumnType
	Nums []float64
	Strs []string
	Null []bool
}

// NewNumericColumn builds a numeric column; a nil entry in vals is absent.
func NewNumericColumn(name string, vals []*float64) *Column {
	c := &Column{Name: name, Type: Numeric, Nums: make([]float64, len(vals)), Null: make([]bool, len(vals))}
	for i, v := range vals {
		if v == nil {
			c.Null[i] = true
			continue
		}
		c.Nums[i] = *v
	}
	return c
}

// NewCategoricalColumn builds a categorical column; a nil entry in vals is absent.
func NewCategoricalColumn(name string, vals []*string) *Column {
	c := &Column{Name: name, Type: Categorical, Strs: make([]string, len(vals)), Null: make([]bool, len(vals))}
	for i, v := range vals {
		if v == nil {
			c.Null[i] = true
			continue
		}
		c.Strs[i] = *v
	}
	return c
}

// Floats builds a numeric column with every cell present.
func Floats(name string, vals ...float64) *Column {
	c := &Column{Name: name, Type: Numeric, Nums: append([]float64(nil), vals...), Null: make([]bool, len(vals))}
	return c
}

// Strings builds a categorical column with every cell present.
func Strings(name string, vals ...string) *Column {
	c := &Column{Name: name, Type: Categorical, Strs: append([]string(nil), vals...), Null: make([]bool, len(vals))}
	return c
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Null) }

// IsNull reports whether cell i is absent.
func (c *Column) IsNull(i int) bool { return c.Null[i] }

// MissingCount returns the number of absent cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, null := range c.Null {
		if null {
			n++
		}
	}
	return n
}

// Present returns the numeric values that are not absent, in row order.
func (c *Column) Present() []float64 {
	out := make([]float64, 0, len(c.Nums))
	for i, v := range c.Nums {
		if !c.Null[i] {
			out = append(out, v)
		}
	}
	return out
}

// PresentStrings returns the categorical values that are not absent, in row order.
func (c *Column) PresentStrings() []string {
	out := make([]string, 0, len(c.Strs))
	for i, v := range c.Strs {
		if !c.Null[i] {
			out = append(out, v)
		}
	}
	return out
}

// CellKey renders cell i as a stable string; absent cells share one marker
// that cannot collide with a real value.
func (c *Column) CellKey(i int) string {
	if c.Null[i] {
		return "\x00"
	}
	if c.Type == Numeric {
		return strconv.FormatFloat(c.Nums[i], 'g', -1, 64)
	}
	return c.Strs[i]
}

// Clone returns a deep copy.
func (c *Column) Clone() *Column {
	cp := &Column{Name: c.Name, Type: c.Type, Null: append([]bool(nil), c.Null...)}
	if c.Nums != nil {
		cp.Nums = append([]float64(nil), c.Nums...)
	}
	if c.Strs != nil {
		cp.Strs = append([]string(nil), c.Strs...)
	}
	return cp
}

// Table is an ordered set of equal-length columns. Row order is significant.
// Truncated is set by the decoders when rows beyond Options.MaxRows were dropped.
type Table struct {
	Name      string
	Columns   []*Column
	Truncated bool
}

// NewTable assembles a table from columns.
func NewTable(name string, cols ...*Column) *Table {
	return &Table{Name: name, Columns: cols}
}

// Rows returns the shared row count.
func (t *Table) Rows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// NumericColumns returns numeric columns in table order.
func (t *Table) NumericColumns() []*Column { return t.ofType(Numeric) }

// CategoricalColumns returns categorical columns in table order.
func (t *Table) CategoricalColumns() []*Column { return t.ofType(Categorical) }

func (t *Table) ofType(kind ColumnType) []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.Type == kind {
			out = append(out, c)
		}
	}
	return out
}

// RowKey joins the cell keys of row i.
func (t *Table) RowKey(i int) string {
	parts := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		parts[j] = c.CellKey(i)
	}
	return strings.Join(parts, "\x1f")
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cp := &Table{Name: t.Name, Columns: make([]*Column, len(t.Columns)), Truncated: t.Truncated}
	for i, c := range t.Columns {
		cp.Columns[i] = c.Clone()
	}
	return cp
}
