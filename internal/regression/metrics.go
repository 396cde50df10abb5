package regression

// R2Score is the coefficient of determination. When the true values are
// constant it is 1 for a perfect prediction and 0 otherwise.
func R2Score(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0
	}
	var mean float64
	for _, v := range yTrue {
		mean += v
	}
	mean /= float64(len(yTrue))
	var ssRes, ssTot float64
	for i, v := range yTrue {
		r := v - yPred[i]
		d := v - mean
		ssRes += r * r
		ssTot += d * d
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// MeanSquaredError averages squared residuals.
func MeanSquaredError(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0
	}
	var s float64
	for i, v := range yTrue {
		d := v - yPred[i]
		s += d * d
	}
	return s / float64(len(yTrue))
}
