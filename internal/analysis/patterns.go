package analysis

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/insight-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Detection thresholds.
const (
	// CorrelationThreshold is the |r| a column pair must exceed.
	CorrelationThreshold = 0.7
	// OutlierIQRMultiplier scales the interquartile range into Tukey fences.
	OutlierIQRMultiplier = 1.5
	// MinTrendRows is the row count a column must exceed to be tested for trend.
	MinTrendRows = 10
	// TrendSlopeThreshold is the |slope| per row that counts as a trend.
	TrendSlopeThreshold = 0.01
	// SkewThreshold is the |skewness| that counts as a skewed distribution.
	SkewThreshold = 1.0
)

const noPatternsMessage = "No significant patterns detected in the current dataset"

// DetectPatterns scans the numeric columns of a cleaned table for strong
// correlations, outliers, linear trends and skew, in that order. When none
// qualify a single Info pattern is returned.
func DetectPatterns(t *dataset.Table) []Pattern {
	nums := t.NumericColumns()
	var out []Pattern
	out = append(out, correlationPatterns(nums)...)
	out = append(out, outlierPatterns(nums)...)
	out = append(out, trendPatterns(nums)...)
	out = append(out, distributionPatterns(nums)...)
	if len(out) == 0 {
		return []Pattern{{Kind: PatternInfo, Description: noPatternsMessage}}
	}
	return out
}

func correlationPatterns(cols []*dataset.Column) []Pattern {
	if len(cols) < 2 {
		return nil
	}
	var out []Pattern
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			r := stat.Correlation(cols[i].Nums, cols[j].Nums, nil)
			if math.IsNaN(r) || math.Abs(r) <= CorrelationThreshold {
				continue
			}
			dir := "positive"
			if r < 0 {
				dir = "negative"
			}
			out = append(out, pattern(PatternCorrelation,
				fmt.Sprintf("Strong %s correlation between %s and %s", dir, cols[i].Name, cols[j].Name),
				fmt.Sprintf("%.3f", r)))
		}
	}
	return out
}

func outlierPatterns(cols []*dataset.Column) []Pattern {
	var out []Pattern
	for _, c := range cols {
		vals := c.Present()
		if len(vals) == 0 {
			continue
		}
		sorted := sortedCopy(vals)
		q1, q3 := quantile(sorted, 0.25), quantile(sorted, 0.75)
		iqr := q3 - q1
		lo, hi := q1-OutlierIQRMultiplier*iqr, q3+OutlierIQRMultiplier*iqr
		n := 0
		for _, v := range vals {
			if v < lo || v > hi {
				n++
			}
		}
		if n > 0 {
			out = append(out, pattern(PatternOutliers,
				fmt.Sprintf("Detected %d outliers in %s", n, c.Name),
				fmt.Sprintf("%d records", n)))
		}
	}
	return out
}

func trendPatterns(cols []*dataset.Column) []Pattern {
	var out []Pattern
	for _, c := range cols {
		if c.Len() <= MinTrendRows {
			continue
		}
		slope := trendSlope(c.Nums)
		if math.IsNaN(slope) || math.Abs(slope) <= TrendSlopeThreshold {
			continue
		}
		dir := "increasing"
		if slope < 0 {
			dir = "decreasing"
		}
		out = append(out, pattern(PatternTrend,
			fmt.Sprintf("%s shows %s trend over time", c.Name, dir),
			fmt.Sprintf("Slope: %.4f", slope)))
	}
	return out
}

// trendSlope fits y against the 0-based row index by least squares.
func trendSlope(y []float64) float64 {
	_, beta := stat.LinearRegression(rowIndex(len(y)), y, nil, false)
	return beta
}

func distributionPatterns(cols []*dataset.Column) []Pattern {
	var out []Pattern
	for _, c := range cols {
		skew := skewness(c.Present())
		if math.IsNaN(skew) || math.Abs(skew) <= SkewThreshold {
			continue
		}
		side := "right-skewed"
		if skew < 0 {
			side = "left-skewed"
		}
		out = append(out, pattern(PatternDistribution,
			fmt.Sprintf("%s has a %s distribution", c.Name, side),
			fmt.Sprintf("Skewness: %.3f", skew)))
	}
	return out
}

// skewness is the adjusted Fisher-Pearson coefficient. It is NaN for fewer
// than three values or zero variance.
func skewness(vals []float64) float64 {
	if len(vals) < 3 {
		return math.NaN()
	}
	s := stat.Skew(vals, nil)
	if math.IsInf(s, 0) {
		return math.NaN()
	}
	return s
}

func pattern(kind PatternKind, desc, value string) Pattern {
	return Pattern{Kind: kind, Description: desc, Value: &value}
}
