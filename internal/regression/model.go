// Package regression provides the small set of regressors used to forecast a
// numeric column against row order: ordinary least squares and a seeded random
// forest, plus the preprocessing and scoring helpers around them.
package regression

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects a regression model. The set of kinds is closed.
type Kind int

const (
	Linear Kind = iota
	Forest
)

// Kinds lists every supported model kind.
var Kinds = []Kind{Linear, Forest}

// ParseKind maps a selector such as "linear" or "forest" to a Kind.
// Unknown selectors fall back to Linear.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forest", "random_forest", "randomforest", "rf":
		return Forest
	default:
		return Linear
	}
}

func (k Kind) String() string {
	if k == Forest {
		return "forest"
	}
	return "linear"
}

// Label is the human-readable model name used in reports.
func (k Kind) Label() string {
	if k == Forest {
		return "Random Forest"
	}
	return "Linear Regression"
}

// MarshalText encodes the selector form so configs and JSON round-trip.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText accepts any selector understood by ParseKind.
func (k *Kind) UnmarshalText(b []byte) error {
	*k = ParseKind(string(b))
	return nil
}

// Config carries model hyperparameters.
type Config struct {
	Seed  int64
	Trees int
}

// DefaultSeed is the seed callers start from; DefaultTrees replaces a
// non-positive Config.Trees.
const (
	DefaultSeed  int64 = 42
	DefaultTrees       = 100
)

var (
	// ErrNotFitted is returned by Predict before a successful Fit.
	ErrNotFitted = errors.New("model is not fitted")
	// ErrShape is returned when feature and target dimensions disagree.
	ErrShape = errors.New("feature/target shape mismatch")
)

// Model is a regressor over dense float features. Implementations live in
// this package only.
type Model interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
	Kind() Kind
	sealed()
}

// New constructs an unfitted model of the given kind.
func New(kind Kind, cfg Config) Model {
	switch kind {
	case Forest:
		trees := cfg.Trees
		if trees <= 0 {
			trees = DefaultTrees
		}
		return &RandomForest{Trees: trees, Seed: cfg.Seed, MinSamplesSplit: 2}
	default:
		return &LinearRegression{}
	}
}

func checkShape(X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, fmt.Errorf("%w: no samples", ErrShape)
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("%w: %d rows vs %d targets", ErrShape, len(X), len(y))
	}
	p := len(X[0])
	for i, row := range X {
		if len(row) != p {
			return 0, fmt.Errorf("%w: row %d has %d features, want %d", ErrShape, i, len(row), p)
		}
	}
	return p, nil
}
