package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/KaramelBytes/insight-cli/internal/analysis"
	"github.com/KaramelBytes/insight-cli/internal/dataset"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport(t *testing.T) *analysis.Report {
	t.Helper()
	tbl := dataset.NewTable("sample.csv",
		dataset.Floats("units", 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30, 32),
		dataset.Strings("region", "n", "s", "n", "e", "n", "s", "w", "n", "e", "s", "n", "w"),
	)
	rep, err := analysis.NewAnalyzer(analysis.Options{}, nil).Analyze(context.Background(), tbl)
	require.NoError(t, err)
	return rep
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": Markdown, "md": Markdown, "JSON": JSON, "yml": YAML, "table": Table} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
	assert.Equal(t, ".json", JSON.Ext())
	assert.Equal(t, ".md", Markdown.Ext())
}

func TestWriteJSON(t *testing.T) {
	b, err := Bytes(sampleReport(t), JSON)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	summary := out["summary"].(map[string]any)
	assert.EqualValues(t, 12, summary["total_records"])
	assert.EqualValues(t, 100, summary["data_quality_score"])
	preds := out["predictions"].(map[string]any)
	assert.Equal(t, "Linear Regression", preds["model_used"])
	assert.Len(t, preds["future_predictions"], 10)
}

func TestWriteYAML(t *testing.T) {
	b, err := Bytes(sampleReport(t), YAML)
	require.NoError(t, err)

	var out struct {
		Summary    map[string]any            `yaml:"summary"`
		Statistics map[string]map[string]any `yaml:"statistics"`
	}
	require.NoError(t, yaml.Unmarshal(b, &out))
	assert.Equal(t, 12, out.Summary["total_records"])
	assert.Contains(t, out.Statistics["units"], "mean")
	assert.Equal(t, "n", out.Statistics["region"]["top"])
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(t), Table))
	out := buf.String()
	for _, want := range []string{"sample.csv", "Summary", "Quality score", "Numeric columns", "Categorical columns", "Patterns", "Forecast", "Linear Regression"} {
		assert.Contains(t, out, want)
	}
}

func TestWriteMarkdown(t *testing.T) {
	rep := sampleReport(t)
	b, err := Bytes(rep, Markdown)
	require.NoError(t, err)
	assert.Equal(t, rep.Markdown(), string(b))
}
