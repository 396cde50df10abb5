package analysis

import (
	"github.com/KaramelBytes/insight-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Describe computes descriptive statistics for every column of a cleaned
// table, in column order. Absent cells, if any remain, are ignored.
func Describe(t *dataset.Table) Statistics {
	out := make(Statistics, 0, len(t.Columns))
	for _, c := range t.Columns {
		cs := ColumnStats{Name: c.Name, Type: c.Type}
		if c.Type == dataset.Numeric {
			cs.Numeric = describeNumeric(c.Present())
		} else {
			cs.Categorical = describeCategorical(c.PresentStrings())
		}
		out = append(out, cs)
	}
	return out
}

// describeNumeric uses the Bessel-corrected standard deviation; a single
// value has a standard deviation of 0.
func describeNumeric(vals []float64) *NumericStats {
	if len(vals) == 0 {
		return &NumericStats{}
	}
	sorted := sortedCopy(vals)
	ns := &NumericStats{
		Mean:   stat.Mean(vals, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: quantile(sorted, 0.5),
		Q25:    quantile(sorted, 0.25),
		Q75:    quantile(sorted, 0.75),
	}
	if len(vals) > 1 {
		ns.Std = stat.StdDev(vals, nil)
	}
	return ns
}

func describeCategorical(vals []string) *CategoricalStats {
	if len(vals) == 0 {
		return &CategoricalStats{Top: "N/A"}
	}
	top, freq := mode(vals)
	return &CategoricalStats{Count: len(vals), Unique: distinct(vals), Top: top, Freq: freq}
}
