// Package render writes analysis reports in the formats offered by the CLI.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/insight-cli/internal/analysis"
	"github.com/KaramelBytes/insight-cli/internal/dataset"
	"github.com/KaramelBytes/insight-cli/internal/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	Markdown Format = "markdown"
	JSON     Format = "json"
	YAML     Format = "yaml"
	Table    Format = "table"
)

// Formats lists every supported format.
var Formats = []Format{Markdown, JSON, YAML, Table}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return Markdown, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "table", "text":
		return Table, nil
	default:
		return "", fmt.Errorf("unknown format %q (use markdown, json, yaml or table)", s)
	}
}

// Ext returns the file extension used when writing a report to disk.
func (f Format) Ext() string {
	switch f {
	case JSON:
		return ".json"
	case YAML:
		return ".yaml"
	case Table:
		return ".txt"
	default:
		return ".md"
	}
}

// Write encodes rep to w.
func Write(w io.Writer, rep *analysis.Report, f Format) error {
	switch f {
	case JSON:
		b, err := utils.PrettyJSON(rep)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		return enc.Close()
	case Table:
		return writeTables(w, rep)
	default:
		_, err := io.WriteString(w, rep.Markdown())
		return err
	}
}

// Bytes encodes rep into memory.
func Bytes(rep *analysis.Report, f Format) ([]byte, error) {
	var b strings.Builder
	if err := Write(&b, rep, f); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func writeTables(w io.Writer, rep *analysis.Report) error {
	if rep.Name != "" {
		_, _ = fmt.Fprintf(w, "%s\n", rep.Name)
	}
	s := rep.Summary
	t := newTable(w, "Summary")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Records", s.TotalRecords},
		{"Columns", s.TotalColumns},
		{"Numeric columns", s.NumericColumns},
		{"Categorical columns", s.CategoricalColumns},
		{"Missing values", s.MissingValues},
		{"Duplicate rows", s.Duplicates},
		{"Quality score", fmt.Sprintf("%.1f", s.QualityScore)},
	})
	t.Render()

	t = newTable(w, "Numeric columns")
	t.AppendHeader(table.Row{"Column", "Mean", "Std", "Min", "Q25", "Median", "Q75", "Max"})
	var cats []analysis.ColumnStats
	for _, c := range rep.Statistics {
		if c.Type != dataset.Numeric || c.Numeric == nil {
			cats = append(cats, c)
			continue
		}
		n := c.Numeric
		t.AppendRow(table.Row{c.Name, num(n.Mean), num(n.Std), num(n.Min), num(n.Q25), num(n.Median), num(n.Q75), num(n.Max)})
	}
	if t.Length() > 0 {
		t.Render()
	}

	t = newTable(w, "Categorical columns")
	t.AppendHeader(table.Row{"Column", "Count", "Unique", "Top", "Freq"})
	for _, c := range cats {
		if k := c.Categorical; k != nil {
			t.AppendRow(table.Row{c.Name, k.Count, k.Unique, k.Top, k.Freq})
		}
	}
	if t.Length() > 0 {
		t.Render()
	}

	t = newTable(w, "Patterns")
	t.AppendHeader(table.Row{"Type", "Description", "Value"})
	for _, p := range rep.Patterns {
		val := ""
		if p.Value != nil {
			val = *p.Value
		}
		t.AppendRow(table.Row{p.Kind, p.Description, val})
	}
	t.Render()

	f := rep.Predictions
	t = newTable(w, "Forecast")
	if !f.OK() {
		t.AppendRow(table.Row{f.Message})
		t.Render()
		return nil
	}
	t.AppendHeader(table.Row{"Step", f.TargetColumn})
	for i, v := range f.Predictions {
		t.AppendRow(table.Row{i + 1, num(v)})
	}
	t.AppendFooter(table.Row{f.ModelUsed, fmt.Sprintf("R² %.4f  MSE %s", f.Score, num(f.MSE))})
	t.Render()
	return nil
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

func num(v float64) string { return fmt.Sprintf("%.4g", v) }
