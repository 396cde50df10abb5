package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/insight-cli/internal/dataset"
)

// Markdown renders a compact text report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	s := r.Summary
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.TotalRecords))
	b.WriteString(fmt.Sprintf("Columns: %d (numeric %d, categorical %d)\n", s.TotalColumns, s.NumericColumns, s.CategoricalColumns))
	b.WriteString(fmt.Sprintf("Missing values: %d\n", s.MissingValues))
	b.WriteString(fmt.Sprintf("Duplicate rows: %d\n", s.Duplicates))
	b.WriteString(fmt.Sprintf("Quality score: %.1f/100\n\n", s.QualityScore))

	b.WriteString("[STATISTICS]\n")
	for _, c := range r.Statistics {
		b.WriteString(fmt.Sprintf("- %s: %s", safeName(c.Name), c.Type))
		switch {
		case c.Type == dataset.Numeric && c.Numeric != nil:
			n := c.Numeric
			b.WriteString(fmt.Sprintf(" — mean %.4g, std %.4g, min %.4g, q25 %.4g, median %.4g, q75 %.4g, max %.4g",
				n.Mean, n.Std, n.Min, n.Q25, n.Median, n.Q75, n.Max))
		case c.Categorical != nil:
			k := c.Categorical
			b.WriteString(fmt.Sprintf(" — count %d, unique %d, top %s(%d)", k.Count, k.Unique, safeVal(k.Top), k.Freq))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[PATTERNS]\n")
	for _, p := range r.Patterns {
		b.WriteString(fmt.Sprintf("- %s: %s", p.Kind, p.Description))
		if p.Value != nil {
			b.WriteString(fmt.Sprintf(" (%s)", *p.Value))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[FORECAST]\n")
	f := r.Predictions
	if !f.OK() {
		b.WriteString(fmt.Sprintf("- %s\n", f.Message))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("- target: %s\n", safeName(f.TargetColumn)))
	b.WriteString(fmt.Sprintf("- model: %s\n", f.ModelUsed))
	b.WriteString(fmt.Sprintf("- R²: %.4f, MSE: %.4g\n", f.Score, f.MSE))
	vals := make([]string, len(f.Predictions))
	for i, v := range f.Predictions {
		vals[i] = fmt.Sprintf("%.4g", v)
	}
	b.WriteString(fmt.Sprintf("- next %d: %s\n", len(vals), strings.Join(vals, ", ")))
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
