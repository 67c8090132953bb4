package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// linearModel is an ordinary least squares fit with intercept, the fallback
// when the ensemble cannot be fit.
type linearModel struct {
	// coeffs holds the intercept first, then one weight per feature.
	coeffs []float64
}

func fitLinear(features [][]float64, labels []float64) (*linearModel, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("linear: empty training set")
	}
	if len(features) != len(labels) {
		return nil, fmt.Errorf("linear: %d feature rows for %d labels", len(features), len(labels))
	}

	rows := len(features)
	cols := len(features[0]) + 1

	data := make([]float64, 0, rows*cols)
	for i, row := range features {
		if len(row) != cols-1 {
			return nil, fmt.Errorf("linear: feature row %d has width %d, want %d", i, len(row), cols-1)
		}
		data = append(data, 1)
		data = append(data, row...)
	}

	x := mat.NewDense(rows, cols, data)
	y := mat.NewVecDense(rows, labels)

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return nil, fmt.Errorf("linear: solve failed: %w", err)
	}

	coeffs := make([]float64, cols)
	for i := range coeffs {
		coeffs[i] = beta.AtVec(i)
	}
	return &linearModel{coeffs: coeffs}, nil
}

func (m *linearModel) Predict(row []float64) float64 {
	pred := m.coeffs[0]
	for i, v := range row {
		pred += m.coeffs[i+1] * v
	}
	return pred
}
