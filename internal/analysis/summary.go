package analysis

import (
	"math"

	"github.com/KaramelBytes/insight-cli/internal/dataset"
)

// duplicatePenalty weights the duplicate ratio against the missing ratio in
// the quality score.
const duplicatePenalty = 2

// Summarize computes record counts, missing cells, duplicate rows and the
// 0–100 quality score of t.
func Summarize(t *dataset.Table) (Summary, error) {
	rows := t.Rows()
	if rows == 0 {
		return Summary{}, ErrEmptyDataset
	}
	s := Summary{
		TotalRecords:       rows,
		TotalColumns:       len(t.Columns),
		NumericColumns:     len(t.NumericColumns()),
		CategoricalColumns: len(t.CategoricalColumns()),
	}
	for _, c := range t.Columns {
		s.MissingValues += c.MissingCount()
	}
	seen := make(map[string]struct{}, rows)
	for i := 0; i < rows; i++ {
		key := t.RowKey(i)
		if _, dup := seen[key]; dup {
			s.Duplicates++
			continue
		}
		seen[key] = struct{}{}
	}

	var missingRatio float64
	if cells := rows * len(t.Columns); cells > 0 {
		missingRatio = float64(s.MissingValues) / float64(cells)
	}
	dupRatio := float64(s.Duplicates) / float64(rows)
	score := 100 - missingRatio*100 - dupRatio*100*duplicatePenalty
	s.QualityScore = round(math.Max(0, score), 1)
	return s, nil
}
