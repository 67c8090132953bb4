package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

const (
	minSplitSamples = 2

	// maxThresholdCandidates bounds the split search per feature per node.
	maxThresholdCandidates = 16
)

// forestConfig bounds the ensemble fit.
type forestConfig struct {
	Trees    int
	MaxDepth int
	Seed     int64
}

// forest is a bagged ensemble of regression trees grown on bootstrap
// samples. Prediction averages the trees' outputs.
type forest struct {
	trees []*treeNode
}

// treeNode is one node of a regression tree. Leaves carry feature == -1.
type treeNode struct {
	feature   int
	threshold float64
	value     float64
	left      *treeNode
	right     *treeNode
}

func fitForest(features [][]float64, labels []float64, cfg forestConfig) (*forest, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("forest: empty training set")
	}
	if len(features) != len(labels) {
		return nil, fmt.Errorf("forest: %d feature rows for %d labels", len(features), len(labels))
	}
	width := len(features[0])
	for i, row := range features {
		if len(row) != width {
			return nil, fmt.Errorf("forest: feature row %d has width %d, want %d", i, len(row), width)
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	trees := make([]*treeNode, cfg.Trees)
	for i := range trees {
		sample := make([]int, len(features))
		for j := range sample {
			sample[j] = rng.Intn(len(features))
		}
		trees[i] = growTree(features, labels, sample, cfg.MaxDepth, rng)
	}
	return &forest{trees: trees}, nil
}

func (f *forest) Predict(row []float64) float64 {
	sum := 0.0
	for _, tree := range f.trees {
		sum += tree.predict(row)
	}
	return sum / float64(len(f.trees))
}

func (n *treeNode) predict(row []float64) float64 {
	for n.feature >= 0 {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// growTree splits recursively on the variance-minimizing threshold until
// the depth budget, the sample size, or the attainable gain runs out.
func growTree(features [][]float64, labels []float64, indices []int, depth int, rng *rand.Rand) *treeNode {
	if depth == 0 || len(indices) < minSplitSamples {
		return leaf(labels, indices)
	}

	feature, threshold, ok := bestSplit(features, labels, indices, rng)
	if !ok {
		return leaf(labels, indices)
	}

	var left, right []int
	for _, idx := range indices {
		if features[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leaf(labels, indices)
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      growTree(features, labels, left, depth-1, rng),
		right:     growTree(features, labels, right, depth-1, rng),
	}
}

// bestSplit scans every feature, sampling up to maxThresholdCandidates
// thresholds each, for the split with the lowest summed squared error.
// ok is false when no split improves on the unsplit node.
func bestSplit(features [][]float64, labels []float64, indices []int, rng *rand.Rand) (int, float64, bool) {
	parent := sse(labels, indices)
	if parent == 0 {
		return 0, 0, false
	}

	bestFeature := -1
	bestThreshold := 0.0
	bestScore := math.Inf(1)

	width := len(features[indices[0]])
	for f := 0; f < width; f++ {
		for _, threshold := range candidateThresholds(features, indices, f, rng) {
			score := splitSSE(features, labels, indices, f, threshold)
			if score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 || bestScore >= parent {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// candidateThresholds returns midpoints between adjacent distinct values of
// one feature, downsampled when there are too many.
func candidateThresholds(features [][]float64, indices []int, feature int, rng *rand.Rand) []float64 {
	values := make([]float64, 0, len(indices))
	for _, idx := range indices {
		values = append(values, features[idx][feature])
	}
	sort.Float64s(values)

	midpoints := make([]float64, 0, len(values))
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1] {
			midpoints = append(midpoints, (values[i]+values[i-1])/2)
		}
	}
	if len(midpoints) <= maxThresholdCandidates {
		return midpoints
	}

	sampled := make([]float64, maxThresholdCandidates)
	for i, j := range rng.Perm(len(midpoints))[:maxThresholdCandidates] {
		sampled[i] = midpoints[j]
	}
	return sampled
}

func splitSSE(features [][]float64, labels []float64, indices []int, feature int, threshold float64) float64 {
	var left, right []int
	for _, idx := range indices {
		if features[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	return sse(labels, left) + sse(labels, right)
}

// sse is the sum of squared deviations from the subset mean.
func sse(labels []float64, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}

	mean := 0.0
	for _, idx := range indices {
		mean += labels[idx]
	}
	mean /= float64(len(indices))

	total := 0.0
	for _, idx := range indices {
		d := labels[idx] - mean
		total += d * d
	}
	return total
}

func leaf(labels []float64, indices []int) *treeNode {
	mean := 0.0
	for _, idx := range indices {
		mean += labels[idx]
	}
	if len(indices) > 0 {
		mean /= float64(len(indices))
	}
	return &treeNode{feature: -1, value: mean}
}
