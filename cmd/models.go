package cmd

import (
	"fmt"

	"github.com/KaramelBytes/insight-cli/internal/analysis"
	"github.com/KaramelBytes/insight-cli/internal/regression"
	"github.com/KaramelBytes/insight-cli/internal/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var modelsJSON bool

type modelInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type capabilities struct {
	Models     []modelInfo        `json:"models"`
	Patterns   []string           `json:"patterns"`
	Thresholds map[string]float64 `json:"thresholds"`
}

func listCapabilities() capabilities {
	c := capabilities{
		Patterns: []string{
			string(analysis.PatternCorrelation),
			string(analysis.PatternOutliers),
			string(analysis.PatternTrend),
			string(analysis.PatternDistribution),
		},
		Thresholds: map[string]float64{
			"correlation":       analysis.CorrelationThreshold,
			"outlier_iqr":       analysis.OutlierIQRMultiplier,
			"min_trend_rows":    analysis.MinTrendRows,
			"trend_slope":       analysis.TrendSlopeThreshold,
			"skewness":          analysis.SkewThreshold,
			"min_forecast_rows": analysis.MinForecastRows,
		},
	}
	for _, k := range regression.Kinds {
		c.Models = append(c.Models, modelInfo{Name: k.String(), Label: k.Label()})
	}
	return c
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List forecast models, pattern kinds and detection thresholds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		caps := listCapabilities()
		w := cmd.OutOrStdout()
		if modelsJSON {
			b, err := utils.PrettyJSON(caps)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(b))
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle("Forecast models")
		t.AppendHeader(table.Row{"Model", "Label"})
		for _, m := range caps.Models {
			t.AppendRow(table.Row{m.Name, m.Label})
		}
		t.Render()

		t = table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle("Pattern detection")
		t.AppendHeader(table.Row{"Pattern", "Rule"})
		t.AppendRows([]table.Row{
			{analysis.PatternCorrelation, fmt.Sprintf("|pearson r| > %.2f", analysis.CorrelationThreshold)},
			{analysis.PatternOutliers, fmt.Sprintf("outside Q1/Q3 ± %.1f·IQR", analysis.OutlierIQRMultiplier)},
			{analysis.PatternTrend, fmt.Sprintf("> %d rows and |slope| > %.2f", analysis.MinTrendRows, analysis.TrendSlopeThreshold)},
			{analysis.PatternDistribution, fmt.Sprintf("|skewness| > %.1f", analysis.SkewThreshold)},
		})
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "print as JSON")
}
