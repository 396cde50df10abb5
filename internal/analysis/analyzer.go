package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/KaramelBytes/insight-cli/internal/dataset"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures an Analyzer.
type Options struct {
	Forecast ForecastOptions
}

// Analyzer runs the full pipeline over one table: summary, cleaning,
// statistics, patterns and forecast.
type Analyzer struct {
	opt    Options
	logger *zap.Logger
}

// NewAnalyzer returns an Analyzer. A nil logger disables logging.
func NewAnalyzer(opt Options, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{opt: opt, logger: logger}
}

// Analyze produces the report for t. The summary reflects the table as given;
// the remaining components see the cleaned table. t is not modified.
func (a *Analyzer) Analyze(ctx context.Context, t *dataset.Table) (*Report, error) {
	if t.Rows() == 0 {
		return nil, ErrEmptyDataset
	}
	start := time.Now()
	log := a.logger.With(zap.String("dataset", t.Name), zap.Int("rows", t.Rows()), zap.Int("columns", len(t.Columns)))
	log.Debug("analysis started")

	summary, err := Summarize(t)
	if err != nil {
		return nil, wrap("summary", err)
	}
	cleaned, err := Clean(t)
	if err != nil {
		return nil, wrap("clean", err)
	}

	rep := &Report{Name: t.Name, Summary: summary}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		rep.Statistics = Describe(cleaned)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		rep.Patterns = DetectPatterns(cleaned)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		fc, err := PredictTrend(cleaned, a.opt.Forecast)
		if err != nil {
			return wrap("forecast", err)
		}
		rep.Predictions = fc
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn("analysis failed", zap.Error(err))
		return nil, err
	}
	if err := checkFinite(rep); err != nil {
		log.Warn("analysis failed", zap.Error(err))
		return nil, err
	}

	log.Debug("analysis complete",
		zap.Duration("duration", time.Since(start)),
		zap.Int("patterns", len(rep.Patterns)),
		zap.String("status", string(rep.Predictions.Status)),
		zap.String("target", rep.Predictions.TargetColumn),
		zap.String("model", a.opt.Forecast.Model.String()),
	)
	return rep, nil
}

// ErrNonFinite is wrapped when a computed value overflows to ±Inf or NaN.
var ErrNonFinite = errors.New("non-finite result")

// checkFinite rejects a report carrying values that cannot be encoded.
func checkFinite(rep *Report) error {
	for _, c := range rep.Statistics {
		if c.Numeric == nil {
			continue
		}
		n := c.Numeric
		for _, v := range []float64{n.Mean, n.Std, n.Min, n.Max, n.Median, n.Q25, n.Q75} {
			if !finite(v) {
				return &AnalysisError{Op: "statistics", Err: fmt.Errorf("column %q: %w", c.Name, ErrNonFinite)}
			}
		}
	}
	fc := rep.Predictions
	vals := append([]float64{fc.Score, fc.MSE}, fc.Predictions...)
	for _, v := range vals {
		if !finite(v) {
			return &AnalysisError{Op: "forecast", Err: fmt.Errorf("target %q: %w", fc.TargetColumn, ErrNonFinite)}
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
