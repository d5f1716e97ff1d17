// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package mlpipeline

import (
	"fmt"
	"math"
	"math/rand"
)

// ForestConfig contains configuration for random forest training.
type ForestConfig struct {
	// NumTrees is the number of trees in the ensemble.
	// Typical range: 10-200.
	NumTrees int

	// MaxDepth limits tree depth. Deeper trees fit more but overfit sooner.
	MaxDepth int

	// MinSamplesLeaf is the minimum number of samples in a leaf node.
	MinSamplesLeaf int

	// Seed makes training deterministic for a given dataset.
	Seed int64
}

// DefaultForestConfig returns default forest configuration.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NumTrees:       50,
		MaxDepth:       8,
		MinSamplesLeaf: 2,
		Seed:           42,
	}
}

// TreeNode is one node of a decision tree. Fields are exported so the
// whole forest round-trips through gob.
type TreeNode struct {
	// Leaf marks a terminal node carrying a class prediction.
	Leaf  bool
	Class int

	// Split definition for internal nodes: samples with
	// feature value <= Threshold go left.
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

// Forest is a bagged ensemble of CART trees for binary classification.
// Each tree is grown on a bootstrap sample with a random feature subset
// considered at every split, and prediction is by majority vote.
type Forest struct {
	Trees       []*TreeNode
	NumFeatures int
}

// TrainForest fits a random forest on the given feature matrix and
// binary labels. Training is deterministic for a fixed config and input.
func TrainForest(features [][]float64, labels []int, cfg ForestConfig) (*Forest, error) {
	if cfg.NumTrees <= 0 {
		cfg.NumTrees = 50
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 8
	}
	if cfg.MinSamplesLeaf <= 0 {
		cfg.MinSamplesLeaf = 1
	}

	n := len(features)
	if n == 0 {
		return nil, fmt.Errorf("train forest: empty dataset")
	}
	if len(labels) != n {
		return nil, fmt.Errorf("train forest: %d feature rows but %d labels", n, len(labels))
	}
	numFeatures := len(features[0])
	if numFeatures == 0 {
		return nil, fmt.Errorf("train forest: zero-width feature rows")
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic sampling, not cryptographic

	// sqrt(p) features per split, the usual classification default.
	mtry := int(math.Sqrt(float64(numFeatures)))
	if mtry < 1 {
		mtry = 1
	}

	f := &Forest{
		Trees:       make([]*TreeNode, 0, cfg.NumTrees),
		NumFeatures: numFeatures,
	}

	for t := 0; t < cfg.NumTrees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		f.Trees = append(f.Trees, growTree(features, labels, sample, cfg.MaxDepth, cfg.MinSamplesLeaf, mtry, rng))
	}

	return f, nil
}

// Predict returns the majority-vote class for one feature vector.
func (f *Forest) Predict(x []float64) int {
	votes := 0
	for _, tree := range f.Trees {
		votes += classify(tree, x)
	}
	if votes*2 > len(f.Trees) {
		return 1
	}
	return 0
}

// PredictBatch classifies every row of the feature matrix.
func (f *Forest) PredictBatch(features [][]float64) []int {
	out := make([]int, len(features))
	for i, x := range features {
		out[i] = f.Predict(x)
	}
	return out
}

func classify(node *TreeNode, x []float64) int {
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Class
}

// growTree builds one CART tree on the index subset via recursive
// greedy gini splits.
func growTree(features [][]float64, labels []int, idxs []int, depth, minLeaf, mtry int, rng *rand.Rand) *TreeNode {
	positives := 0
	for _, i := range idxs {
		positives += labels[i]
	}

	// Pure node, depth exhausted, or too few samples to split.
	if positives == 0 || positives == len(idxs) || depth <= 0 || len(idxs) < 2*minLeaf {
		return leafNode(positives, len(idxs))
	}

	feature, threshold, ok := bestSplit(features, labels, idxs, mtry, minLeaf, rng)
	if !ok {
		return leafNode(positives, len(idxs))
	}

	var left, right []int
	for _, i := range idxs {
		if features[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leafNode(positives, len(idxs))
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(features, labels, left, depth-1, minLeaf, mtry, rng),
		Right:     growTree(features, labels, right, depth-1, minLeaf, mtry, rng),
	}
}

func leafNode(positives, total int) *TreeNode {
	class := 0
	if positives*2 > total {
		class = 1
	}
	return &TreeNode{Leaf: true, Class: class}
}

// bestSplit scans a random feature subset for the threshold with the
// lowest weighted gini impurity. Candidate thresholds are the observed
// values of each feature within the node.
func bestSplit(features [][]float64, labels []int, idxs []int, mtry, minLeaf int, rng *rand.Rand) (feature int, threshold float64, ok bool) {
	numFeatures := len(features[idxs[0]])
	candidates := rng.Perm(numFeatures)[:mtry]

	bestGini := math.Inf(1)

	for _, f := range candidates {
		for _, i := range idxs {
			t := features[i][f]

			leftTotal, leftPos, rightTotal, rightPos := 0, 0, 0, 0
			for _, j := range idxs {
				if features[j][f] <= t {
					leftTotal++
					leftPos += labels[j]
				} else {
					rightTotal++
					rightPos += labels[j]
				}
			}
			if leftTotal < minLeaf || rightTotal < minLeaf {
				continue
			}

			g := weightedGini(leftTotal, leftPos, rightTotal, rightPos)
			if g < bestGini {
				bestGini = g
				feature = f
				threshold = t
				ok = true
			}
		}
	}

	return feature, threshold, ok
}

func weightedGini(leftTotal, leftPos, rightTotal, rightPos int) float64 {
	total := float64(leftTotal + rightTotal)
	return float64(leftTotal)/total*gini(leftPos, leftTotal) +
		float64(rightTotal)/total*gini(rightPos, rightTotal)
}

func gini(positives, total int) float64 {
	if total == 0 {
		return 0
	}
	p := float64(positives) / float64(total)
	return 2 * p * (1 - p)
}
