package analysis

import "github.com/KaramelBytes/insight-cli/internal/dataset"

// UnknownCategory fills categorical columns that have no present values.
const UnknownCategory = "Unknown"

// Clean returns a copy of t with every absent cell imputed: numeric columns
// take the median of their present values, categorical columns take their
// most frequent value (first encountered on ties). A numeric column with no
// present values yields *AllAbsentColumnError.
func Clean(t *dataset.Table) (*dataset.Table, error) {
	out := &dataset.Table{Name: t.Name, Columns: make([]*dataset.Column, len(t.Columns))}
	for j, c := range t.Columns {
		cp := c.Clone()
		if c.MissingCount() > 0 {
			if err := impute(cp); err != nil {
				return nil, err
			}
		}
		out.Columns[j] = cp
	}
	return out, nil
}

func impute(c *dataset.Column) error {
	switch c.Type {
	case dataset.Numeric:
		present := c.Present()
		if len(present) == 0 {
			return &AllAbsentColumnError{Column: c.Name}
		}
		fill := median(present)
		for i := range c.Nums {
			if c.Null[i] {
				c.Nums[i] = fill
				c.Null[i] = false
			}
		}
	default:
		fill, n := mode(c.PresentStrings())
		if n == 0 {
			fill = UnknownCategory
		}
		if c.Strs == nil {
			c.Strs = make([]string, c.Len())
		}
		for i := range c.Strs {
			if c.Null[i] {
				c.Strs[i] = fill
				c.Null[i] = false
			}
		}
	}
	return nil
}
