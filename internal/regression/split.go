package regression

import (
	"math"
	"math/rand"
)

// TrainTestSplit shuffles 0..n-1 with a seeded source and returns disjoint
// train and test index sets. The test set holds ceil(testSize·n) rows.
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int) {
	if n <= 0 {
		return nil, nil
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest]
}

// Columnize turns a single feature vector into an n×1 matrix.
func Columnize(x []float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, v := range x {
		out[i] = []float64{v}
	}
	return out
}
