package regression

import (
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// RandomForest averages regression trees grown on bootstrap samples.
// Fitting is deterministic for a given Seed: each tree draws from its own
// source seeded from the forest's source before any tree is built.
type RandomForest struct {
	Trees           int
	Seed            int64
	MinSamplesSplit int
	// MaxDepth limits tree depth; 0 grows until leaves are pure.
	MaxDepth int

	nFeatures int
	trees     []*treeNode
}

func (*RandomForest) sealed() {}

// Kind returns Forest.
func (*RandomForest) Kind() Kind { return Forest }

// Fit grows the ensemble.
func (f *RandomForest) Fit(X [][]float64, y []float64) error {
	p, err := checkShape(X, y)
	if err != nil {
		return err
	}
	trees := f.Trees
	if trees <= 0 {
		trees = DefaultTrees
	}
	minSplit := f.MinSamplesSplit
	if minSplit < 2 {
		minSplit = 2
	}
	master := rand.New(rand.NewSource(f.Seed))
	seeds := make([]int64, trees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	built := make([]*treeNode, trees)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range built {
		i := i
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seeds[i]))
			n := len(X)
			sample := make([]int, n)
			for k := range sample {
				sample[k] = rng.Intn(n)
			}
			gr := &grower{X: X, y: y, nFeatures: p, minSplit: minSplit, maxDepth: f.MaxDepth, rng: rng}
			built[i] = gr.grow(sample, 0)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	f.trees = built
	f.nFeatures = p
	return nil
}

// Predict averages the trees' outputs for each row.
func (f *RandomForest) Predict(X [][]float64) ([]float64, error) {
	if len(f.trees) == 0 {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != f.nFeatures {
			return nil, ErrShape
		}
		var s float64
		for _, t := range f.trees {
			s += t.predict(row)
		}
		out[i] = s / float64(len(f.trees))
	}
	return out, nil
}

type treeNode struct {
	leaf        bool
	value       float64
	feature     int
	threshold   float64
	left, right *treeNode
}

func (n *treeNode) predict(row []float64) float64 {
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// grower builds one CART tree with squared-error splits over all features.
type grower struct {
	X         [][]float64
	y         []float64
	nFeatures int
	minSplit  int
	maxDepth  int
	rng       *rand.Rand
}

func (g *grower) grow(idx []int, depth int) *treeNode {
	var sum, sumSq float64
	for _, i := range idx {
		sum += g.y[i]
		sumSq += g.y[i] * g.y[i]
	}
	n := float64(len(idx))
	mean := sum / n
	impurity := sumSq - sum*sum/n
	if len(idx) < g.minSplit || impurity <= 1e-12 || (g.maxDepth > 0 && depth >= g.maxDepth) {
		return &treeNode{leaf: true, value: mean}
	}

	feature, threshold, ok := g.bestSplit(idx, impurity)
	if !ok {
		return &treeNode{leaf: true, value: mean}
	}
	var left, right []int
	for _, i := range idx {
		if g.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: mean}
	}
	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      g.grow(left, depth+1),
		right:     g.grow(right, depth+1),
	}
}

func (g *grower) bestSplit(idx []int, parent float64) (int, float64, bool) {
	bestScore := parent
	bestFeature, bestThreshold, found := 0, 0.0, false
	order := make([]int, len(idx))
	for _, feat := range g.rng.Perm(g.nFeatures) {
		copy(order, idx)
		sort.SliceStable(order, func(a, b int) bool { return g.X[order[a]][feat] < g.X[order[b]][feat] })

		var total, totalSq float64
		for _, i := range order {
			total += g.y[i]
			totalSq += g.y[i] * g.y[i]
		}
		var lSum, lSq float64
		for k := 0; k < len(order)-1; k++ {
			yi := g.y[order[k]]
			lSum += yi
			lSq += yi * yi
			cur, next := g.X[order[k]][feat], g.X[order[k+1]][feat]
			if cur == next {
				continue
			}
			nl := float64(k + 1)
			nr := float64(len(order) - k - 1)
			rSum, rSq := total-lSum, totalSq-lSq
			score := (lSq - lSum*lSum/nl) + (rSq - rSum*rSum/nr)
			if score < bestScore-1e-12 {
				bestScore = score
				bestFeature = feat
				bestThreshold = cur + (next-cur)/2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}
