package analysis

import (
	"fmt"

	"github.com/KaramelBytes/insight-cli/internal/dataset"
	"github.com/KaramelBytes/insight-cli/internal/regression"
)

const (
	// MinForecastRows is the number of usable rows a forecast needs.
	MinForecastRows = 10
	// DefaultHorizon is the number of future steps predicted.
	DefaultHorizon = 10
	// testFraction is the share of rows held out for evaluation.
	testFraction = 0.2
)

const (
	msgNoNumeric    = "No numeric columns available for prediction"
	msgInsufficient = "Insufficient data for prediction"
)

// ForecastOptions selects the target column and model. Zero Trees and Horizon
// take the package defaults. Seed is always used as given, so 0 is a valid
// seed; DefaultForecastOptions starts from regression.DefaultSeed.
type ForecastOptions struct {
	TargetColumn string
	Model        regression.Kind
	Seed         int64
	Trees        int
	Horizon      int
}

// DefaultForecastOptions returns linear regression with the default seed,
// tree count and horizon.
func DefaultForecastOptions() ForecastOptions {
	return ForecastOptions{
		Model:   regression.Linear,
		Seed:    regression.DefaultSeed,
		Trees:   regression.DefaultTrees,
		Horizon: DefaultHorizon,
	}
}

func (o ForecastOptions) withDefaults() ForecastOptions {
	if o.Trees <= 0 {
		o.Trees = regression.DefaultTrees
	}
	if o.Horizon <= 0 {
		o.Horizon = DefaultHorizon
	}
	return o
}

// PredictTrend regresses one numeric column against row order and predicts
// the next Horizon values. Results are reproducible for a fixed seed.
func PredictTrend(t *dataset.Table, opt ForecastOptions) (Forecast, error) {
	opt = opt.withDefaults()
	target := forecastTarget(t, opt.TargetColumn)
	if target == nil {
		return Forecast{Status: StatusNoNumericData, Predictions: []float64{}, Message: msgNoNumeric}, nil
	}

	var xs, ys []float64
	for i, v := range target.Nums {
		if target.Null[i] {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, v)
	}
	if len(ys) < MinForecastRows {
		return Forecast{Status: StatusInsufficientData, Predictions: []float64{}, Message: msgInsufficient}, nil
	}

	trainIdx, testIdx := regression.TrainTestSplit(len(ys), testFraction, opt.Seed)
	xTrain, yTrain := gather(xs, ys, trainIdx)
	xTest, yTest := gather(xs, ys, testIdx)

	var scaler regression.StandardScaler
	xTrainS, err := scaler.FitTransform(regression.Columnize(xTrain))
	if err != nil {
		return Forecast{}, fmt.Errorf("scale features: %w", err)
	}
	xTestS, err := scaler.Transform(regression.Columnize(xTest))
	if err != nil {
		return Forecast{}, fmt.Errorf("scale features: %w", err)
	}

	model := regression.New(opt.Model, regression.Config{Seed: opt.Seed, Trees: opt.Trees})
	if err := model.Fit(xTrainS, yTrain); err != nil {
		return Forecast{}, fmt.Errorf("fit %s: %w", model.Kind(), err)
	}
	yPred, err := model.Predict(xTestS)
	if err != nil {
		return Forecast{}, fmt.Errorf("evaluate %s: %w", model.Kind(), err)
	}

	rows := t.Rows()
	future := make([]float64, opt.Horizon)
	for i := range future {
		future[i] = float64(rows + i)
	}
	futureS, err := scaler.Transform(regression.Columnize(future))
	if err != nil {
		return Forecast{}, fmt.Errorf("scale future steps: %w", err)
	}
	preds, err := model.Predict(futureS)
	if err != nil {
		return Forecast{}, fmt.Errorf("predict %s: %w", model.Kind(), err)
	}

	return Forecast{
		Status:       StatusForecast,
		Score:        regression.R2Score(yTest, yPred),
		MSE:          regression.MeanSquaredError(yTest, yPred),
		Predictions:  preds,
		TargetColumn: target.Name,
		ModelUsed:    model.Kind().Label(),
	}, nil
}

// forecastTarget returns the named numeric column, falling back to the first
// numeric column of the table.
func forecastTarget(t *dataset.Table, name string) *dataset.Column {
	if name != "" {
		if c, ok := t.Column(name); ok && c.Type == dataset.Numeric {
			return c
		}
	}
	nums := t.NumericColumns()
	if len(nums) == 0 {
		return nil
	}
	return nums[0]
}

func gather(xs, ys []float64, idx []int) ([]float64, []float64) {
	gx := make([]float64, len(idx))
	gy := make([]float64, len(idx))
	for k, i := range idx {
		gx[k], gy[k] = xs[i], ys[i]
	}
	return gx, gy
}
