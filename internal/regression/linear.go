package regression

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression is ordinary least squares with an intercept.
type LinearRegression struct {
	intercept float64
	coef      []float64
	fitted    bool
}

func (*LinearRegression) sealed() {}

// Kind returns Linear.
func (*LinearRegression) Kind() Kind { return Linear }

// Fit solves the least-squares problem [1 X]·β = y.
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	p, err := checkShape(X, y)
	if err != nil {
		return err
	}
	n := len(X)
	if n < p+1 {
		return fmt.Errorf("linear regression: need at least %d samples, got %d", p+1, n)
	}
	design := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	var beta mat.VecDense
	if err := beta.SolveVec(design, mat.NewVecDense(n, append([]float64(nil), y...))); err != nil {
		return fmt.Errorf("linear regression: %w", err)
	}
	m.intercept = beta.AtVec(0)
	m.coef = make([]float64, p)
	for j := range m.coef {
		m.coef[j] = beta.AtVec(j + 1)
	}
	m.fitted = true
	return nil
}

// Predict evaluates the fitted hyperplane for each row.
func (m *LinearRegression) Predict(X [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.coef) {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrShape, i, len(row), len(m.coef))
		}
		v := m.intercept
		for j, x := range row {
			v += m.coef[j] * x
		}
		out[i] = v
	}
	return out, nil
}

// Intercept returns the fitted intercept.
func (m *LinearRegression) Intercept() float64 { return m.intercept }

// Coefficients returns a copy of the fitted slopes.
func (m *LinearRegression) Coefficients() []float64 { return append([]float64(nil), m.coef...) }
