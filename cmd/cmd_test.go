package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cfgpkg "github.com/KaramelBytes/insight-cli/internal/config"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir so config is read from and written there.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

// resetFlags clears values and Changed state that persist on the shared
// command tree between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns stdout and stderr.
func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeCSV(t *testing.T, dir, name string, rows int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("day,sales,store\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%d,%d,%s\n", i+1, 100+5*i, []string{"a", "b"}[i%2])
	}
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(b.String()), 0o644))
	return p
}

func TestAnalyzeMarkdownToStdout(t *testing.T) {
	home := isolate(t)
	p := writeCSV(t, home, "sales.csv", 15)

	out, _, err := runCmd(t, "analyze", p)
	require.NoError(t, err)
	assert.Contains(t, out, "[DATASET SUMMARY]")
	assert.Contains(t, out, "File: sales.csv")
	assert.Contains(t, out, "Rows: 15")
	assert.Contains(t, out, "model: Linear Regression")
}

func TestAnalyzeJSONWithTargetAndModel(t *testing.T) {
	home := isolate(t)
	p := writeCSV(t, home, "sales.csv", 15)

	out, _, err := runCmd(t, "analyze", p, "--format", "json", "--target", "sales", "--model", "forest", "--trees", "10", "--horizon", "3")
	require.NoError(t, err)

	var rep struct {
		Summary struct {
			TotalRecords int `json:"total_records"`
		} `json:"summary"`
		Predictions struct {
			TargetColumn string    `json:"target_column"`
			ModelUsed    string    `json:"model_used"`
			Predictions  []float64 `json:"future_predictions"`
		} `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 15, rep.Summary.TotalRecords)
	assert.Equal(t, "sales", rep.Predictions.TargetColumn)
	assert.Equal(t, "Random Forest", rep.Predictions.ModelUsed)
	assert.Len(t, rep.Predictions.Predictions, 3)
}

func TestAnalyzeWritesOutputFile(t *testing.T) {
	home := isolate(t)
	p := writeCSV(t, home, "sales.csv", 12)
	dst := filepath.Join(home, "reports", "sales.yaml")

	out, _, err := runCmd(t, "analyze", p, "-f", "yaml", "-o", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote analysis to")
	body, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(body), "data_quality_score:")
}

func TestAnalyzeRejectsBadFlags(t *testing.T) {
	home := isolate(t)
	p := writeCSV(t, home, "sales.csv", 12)

	_, _, err := runCmd(t, "analyze", p, "--model", "svm")
	assert.ErrorContains(t, err, "unsupported --model")
	_, _, err = runCmd(t, "analyze", p, "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
	_, _, err = runCmd(t, "analyze", p, "--delimiter", "#")
	assert.ErrorContains(t, err, "unsupported --delimiter")
	_, _, err = runCmd(t, "analyze", filepath.Join(home, "missing.parquet"))
	assert.Error(t, err)
}

func TestSeedFlagAcceptsZero(t *testing.T) {
	c := &cfgpkg.Global{RandomSeed: 42}

	cmd := &cobra.Command{Use: "x"}
	var fl analyzeFlags
	fl.bind(cmd)
	opt, err := fl.forecastOptions(c)
	require.NoError(t, err)
	assert.Equal(t, int64(42), opt.Seed)

	require.NoError(t, cmd.Flags().Parse([]string{"--seed", "0"}))
	opt, err = fl.forecastOptions(c)
	require.NoError(t, err)
	assert.Equal(t, int64(0), opt.Seed)
}

func TestAnalyzeBatchWritesOneReportPerInput(t *testing.T) {
	home := isolate(t)
	writeCSV(t, filepath.Join(home, "d1"), "metrics.csv", 12)
	writeCSV(t, filepath.Join(home, "d2"), "metrics.csv", 12)
	outDir := filepath.Join(home, "out")

	_, progress, err := runCmd(t, "analyze-batch", filepath.Join(home, "d*", "metrics.csv"), "--out-dir", outDir, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, progress, "[1/2] Processing metrics.csv")
	assert.Contains(t, progress, "[2/2] Processing metrics.csv")

	for _, name := range []string{"metrics.json", "metrics__2.json"} {
		body, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(body), `"total_records": 12`)
	}
}

func TestAnalyzeBatchReportsFailures(t *testing.T) {
	home := isolate(t)
	good := writeCSV(t, home, "good.csv", 12)
	bad := filepath.Join(home, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("only,header\n"), 0o644))

	out, _, err := runCmd(t, "analyze-batch", good, bad, "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out, "File: good.csv")

	_, _, err = runCmd(t, "analyze-batch", filepath.Join(home, "nothing-*.csv"))
	assert.ErrorContains(t, err, "no input files matched")
}

func TestModels(t *testing.T) {
	isolate(t)
	out, _, err := runCmd(t, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "Random Forest")
	assert.Contains(t, out, "Correlation")

	out, _, err = runCmd(t, "models", "--json")
	require.NoError(t, err)
	var caps capabilities
	require.NoError(t, json.Unmarshal([]byte(out), &caps))
	require.Len(t, caps.Models, 2)
	assert.Equal(t, "linear", caps.Models[0].Name)
	assert.Equal(t, 0.7, caps.Thresholds["correlation"])
}

func TestConfigSetAndShow(t *testing.T) {
	home := isolate(t)

	_, _, err := runCmd(t, "config", "set", "default_model", "forest")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(home, ".insight", "config.yaml"))
	require.NoError(t, err)

	out, _, err := runCmd(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_model: forest")
	assert.Contains(t, out, "server_addr:")
	assert.Contains(t, out, ":5000")

	_, _, err = runCmd(t, "config", "set", "nope", "1")
	assert.ErrorContains(t, err, "unknown key")
}

func TestConfigDefaultModelDrivesAnalyze(t *testing.T) {
	home := isolate(t)
	p := writeCSV(t, home, "sales.csv", 12)
	cfgPath := filepath.Join(home, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("default_model: forest\nforest_trees: 5\noutput_format: json\n"), 0o644))

	out, _, err := runCmd(t, "--config", cfgPath, "analyze", p)
	require.NoError(t, err)
	assert.Contains(t, out, `"model_used": "Random Forest"`)
}
