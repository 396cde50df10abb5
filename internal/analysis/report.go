package analysis

import (
	"bytes"

	"github.com/KaramelBytes/insight-cli/internal/dataset"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Summary holds dataset-level quality metrics.
type Summary struct {
	TotalRecords       int     `json:"total_records" yaml:"total_records"`
	TotalColumns       int     `json:"total_columns" yaml:"total_columns"`
	NumericColumns     int     `json:"numeric_columns" yaml:"numeric_columns"`
	CategoricalColumns int     `json:"categorical_columns" yaml:"categorical_columns"`
	MissingValues      int     `json:"missing_values" yaml:"missing_values"`
	Duplicates         int     `json:"duplicates" yaml:"duplicates"`
	QualityScore       float64 `json:"data_quality_score" yaml:"data_quality_score"`
}

// NumericStats describes a numeric column.
type NumericStats struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	Std    float64 `json:"std" yaml:"std"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Median float64 `json:"median" yaml:"median"`
	Q25    float64 `json:"q25" yaml:"q25"`
	Q75    float64 `json:"q75" yaml:"q75"`
}

// CategoricalStats describes a categorical column.
type CategoricalStats struct {
	Count  int    `json:"count" yaml:"count"`
	Unique int    `json:"unique" yaml:"unique"`
	Top    string `json:"top" yaml:"top"`
	Freq   int    `json:"freq" yaml:"freq"`
}

// ColumnStats is exactly one of Numeric or Categorical, selected by Type.
type ColumnStats struct {
	Name        string
	Type        dataset.ColumnType
	Numeric     *NumericStats
	Categorical *CategoricalStats
}

func (c ColumnStats) variant() any {
	if c.Type == dataset.Numeric {
		return c.Numeric
	}
	return c.Categorical
}

// MarshalJSON emits only the active variant's fields.
func (c ColumnStats) MarshalJSON() ([]byte, error) { return json.Marshal(c.variant()) }

// MarshalYAML emits only the active variant's fields.
func (c ColumnStats) MarshalYAML() (any, error) { return c.variant(), nil }

// Statistics keeps per-column stats in table order.
type Statistics []ColumnStats

// Get returns the stats for the named column.
func (s Statistics) Get(name string) (ColumnStats, bool) {
	for _, c := range s {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnStats{}, false
}

// MarshalJSON encodes an object keyed by column name, preserving column order.
func (s Statistics) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, c := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		val, err := c.MarshalJSON()
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// MarshalYAML encodes a mapping keyed by column name, preserving column order.
func (s Statistics) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range s {
		var val yaml.Node
		if err := val.Encode(c.variant()); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Name}, &val)
	}
	return node, nil
}

// PatternKind categorises a detected pattern.
type PatternKind string

const (
	PatternCorrelation  PatternKind = "Correlation"
	PatternOutliers     PatternKind = "Outliers"
	PatternTrend        PatternKind = "Trend"
	PatternDistribution PatternKind = "Distribution"
	PatternInfo         PatternKind = "Info"
)

// Pattern is one finding of the pattern detector.
type Pattern struct {
	Kind        PatternKind `json:"type" yaml:"type"`
	Description string      `json:"description" yaml:"description"`
	Value       *string     `json:"value" yaml:"value"`
}

// ForecastStatus tells whether a forecast was produced.
type ForecastStatus string

const (
	StatusNoNumericData    ForecastStatus = "no_numeric_data"
	StatusInsufficientData ForecastStatus = "insufficient_data"
	StatusForecast         ForecastStatus = "forecast"
)

// Forecast is the outcome of the trend forecaster. Only StatusForecast
// carries a target column, model label and predictions.
type Forecast struct {
	Status       ForecastStatus `json:"status" yaml:"status"`
	Score        float64        `json:"model_score" yaml:"model_score"`
	MSE          float64        `json:"mse" yaml:"mse"`
	Predictions  []float64      `json:"future_predictions" yaml:"future_predictions"`
	TargetColumn string         `json:"target_column,omitempty" yaml:"target_column,omitempty"`
	ModelUsed    string         `json:"model_used,omitempty" yaml:"model_used,omitempty"`
	Message      string         `json:"message,omitempty" yaml:"message,omitempty"`
}

// OK reports whether predictions are available.
func (f Forecast) OK() bool { return f.Status == StatusForecast }

// Report aggregates every analysis output for one dataset.
type Report struct {
	Name        string     `json:"-" yaml:"-"`
	Summary     Summary    `json:"summary" yaml:"summary"`
	Statistics  Statistics `json:"statistics" yaml:"statistics"`
	Patterns    []Pattern  `json:"patterns" yaml:"patterns"`
	Predictions Forecast   `json:"predictions" yaml:"predictions"`
}
