package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/insight-cli/internal/render"
	"github.com/KaramelBytes/insight-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	abFlags  analyzeFlags
	abOutDir string
	abQuiet  bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files with progress output",
	Example: `  insight analyze-batch data/*.csv --out-dir reports --format json
  insight analyze-batch q1.xlsx q2.xlsx --sheet-name Data`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		c, err := loadedConfig()
		if err != nil {
			return err
		}
		dopt, err := abFlags.decodeOptions(c)
		if err != nil {
			return err
		}
		fopt, err := abFlags.forecastOptions(c)
		if err != nil {
			return err
		}
		format, err := abFlags.outputFormat(c)
		if err != nil {
			return err
		}

		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		written := map[string]struct{}{}
		var failed []error
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(errOut, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			rep, err := runAnalysis(cmd.Context(), path, dopt, fopt)
			if err != nil {
				if !abQuiet {
					fmt.Fprintf(errOut, "✗ %v\n", err)
				}
				failed = append(failed, err)
				continue
			}
			body, err := render.Bytes(rep, format)
			if err != nil {
				return err
			}
			if abOutDir == "" {
				if _, err := out.Write(body); err != nil {
					return err
				}
				continue
			}

			outFile := uniqueReportPath(abOutDir, path, format.Ext(), written)
			if err := utils.SafeWriteFile(outFile, body); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			written[outFile] = struct{}{}
			if !abQuiet {
				fmt.Fprintf(errOut, "✓ Wrote %s\n", outFile)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d files failed: %w", len(failed), total, errors.Join(failed...))
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths into a sorted, de-duplicated list.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// uniqueReportPath avoids overwriting reports from inputs that share a base
// name, appending __2, __3, ... as needed.
func uniqueReportPath(dir, input, ext string, taken map[string]struct{}) string {
	outFile := utils.ReportPath(dir, input, ext)
	if _, ok := taken[outFile]; !ok {
		return outFile
	}
	base := strings.TrimSuffix(filepath.Base(outFile), ext)
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, ext))
		if _, ok := taken[cand]; !ok {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abFlags.bind(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for one report per input (default: stdout)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
