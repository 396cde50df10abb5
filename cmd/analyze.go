package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/insight-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/insight-cli/internal/config"
	"github.com/KaramelBytes/insight-cli/internal/dataset"
	"github.com/KaramelBytes/insight-cli/internal/regression"
	"github.com/KaramelBytes/insight-cli/internal/render"
	"github.com/KaramelBytes/insight-cli/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// analyzeFlags are shared by analyze and analyze-batch.
type analyzeFlags struct {
	target     string
	model      string
	format     string
	delimiter  string
	decimal    string
	thousands  string
	maxRows    int
	sheetName  string
	sheetIndex int
	seed       int64
	trees      int
	horizon    int

	fs *pflag.FlagSet
}

func (f *analyzeFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	f.fs = fs
	fs.StringVarP(&f.target, "target", "t", "", "numeric column to forecast (default: first numeric column)")
	fs.StringVarP(&f.model, "model", "m", "", "forecast model: linear|forest (default from config)")
	fs.StringVarP(&f.format, "format", "f", "", "output format: markdown|json|yaml|table (default from config)")
	fs.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	fs.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	fs.StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	fs.IntVar(&f.maxRows, "max-rows", 0, "maximum rows to process (default from config, 0 = config value)")
	fs.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	fs.IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fs.Int64Var(&f.seed, "seed", 0, "random seed for the train/test split and forest; 0 is a valid seed (default from config random_seed)")
	fs.IntVar(&f.trees, "trees", 0, "number of trees for the forest model (default from config)")
	fs.IntVar(&f.horizon, "horizon", 0, "number of future steps to predict (default from config)")
}

func (f *analyzeFlags) decodeOptions(c *cfgpkg.Global) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	if c.MaxRows > 0 {
		opt.MaxRows = c.MaxRows
	}
	if f.maxRows > 0 {
		opt.MaxRows = f.maxRows
	}
	switch f.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(f.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	opt.SheetName = f.sheetName
	opt.SheetIndex = f.sheetIndex
	return opt, nil
}

func (f *analyzeFlags) forecastOptions(c *cfgpkg.Global) (analysis.ForecastOptions, error) {
	model := c.DefaultModel
	if f.model != "" {
		model = f.model
	}
	switch strings.ToLower(strings.TrimSpace(model)) {
	case "", "linear", "forest", "random_forest", "rf":
	default:
		return analysis.ForecastOptions{}, fmt.Errorf("unsupported --model: %s (use linear|forest)", model)
	}
	opt := analysis.ForecastOptions{
		TargetColumn: f.target,
		Model:        regression.ParseKind(model),
		Seed:         c.RandomSeed,
		Trees:        c.ForestTrees,
		Horizon:      c.ForecastHorizon,
	}
	if f.fs != nil && f.fs.Changed("seed") {
		opt.Seed = f.seed
	}
	if f.trees > 0 {
		opt.Trees = f.trees
	}
	if f.horizon > 0 {
		opt.Horizon = f.horizon
	}
	return opt, nil
}

func (f *analyzeFlags) outputFormat(c *cfgpkg.Global) (render.Format, error) {
	if f.format != "" {
		return render.ParseFormat(f.format)
	}
	return render.ParseFormat(c.OutputFormat)
}

// runAnalysis decodes one file and analyzes it.
func runAnalysis(ctx context.Context, path string, dopt dataset.Options, fopt analysis.ForecastOptions) (*analysis.Report, error) {
	start := time.Now()
	tbl, err := dataset.LoadFile(path, dopt)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	logger.Debug("dataset decoded",
		zap.String("path", path),
		zap.Int("rows", tbl.Rows()),
		zap.Int("columns", len(tbl.Columns)),
		zap.Duration("duration", time.Since(start)),
	)
	if tbl.Truncated {
		logger.Warn("dataset truncated; analyzing the first rows only",
			zap.String("path", path),
			zap.Int("max_rows", dopt.MaxRows),
		)
	}
	rep, err := analysis.NewAnalyzer(analysis.Options{Forecast: fopt}, logger).Analyze(ctx, tbl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rep, nil
}

var (
	anaFlags      analyzeFlags
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a CSV/TSV/XLSX file and print a report",
	Example: `  insight analyze sales.csv
  insight analyze sales.csv --target revenue --model forest --format json
  insight analyze book.xlsx --sheet-name Data --output report.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadedConfig()
		if err != nil {
			return err
		}
		dopt, err := anaFlags.decodeOptions(c)
		if err != nil {
			return err
		}
		fopt, err := anaFlags.forecastOptions(c)
		if err != nil {
			return err
		}
		format, err := anaFlags.outputFormat(c)
		if err != nil {
			return err
		}

		rep, err := runAnalysis(cmd.Context(), args[0], dopt, fopt)
		if err != nil {
			return err
		}
		out, err := render.Bytes(rep, format)
		if err != nil {
			return err
		}
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.bind(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
}
