// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package mlpipeline

import (
	"reflect"
	"testing"
)

// separableDataset builds a two-cluster dataset where the first feature
// alone separates the classes.
func separableDataset(n int) ([][]float64, []int) {
	var features [][]float64
	var labels []int
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			features = append(features, []float64{1, 0.5, float64(i % 3)})
			labels = append(labels, 0)
		} else {
			features = append(features, []float64{10, 0.6, float64(i % 3)})
			labels = append(labels, 1)
		}
	}
	return features, labels
}

func TestTrainForestLearnsSeparableData(t *testing.T) {
	features, labels := separableDataset(40)

	forest, err := TrainForest(features, labels, DefaultForestConfig())
	if err != nil {
		t.Fatalf("TrainForest: %v", err)
	}

	preds := forest.PredictBatch(features)
	for i, p := range preds {
		if p != labels[i] {
			t.Errorf("sample %d: predicted %d, want %d", i, p, labels[i])
		}
	}
}

func TestTrainForestDeterministic(t *testing.T) {
	features, labels := separableDataset(30)

	a, err := TrainForest(features, labels, DefaultForestConfig())
	if err != nil {
		t.Fatalf("TrainForest: %v", err)
	}
	b, err := TrainForest(features, labels, DefaultForestConfig())
	if err != nil {
		t.Fatalf("TrainForest: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("identical config and data must produce identical forests")
	}
}

func TestTrainForestSingleClass(t *testing.T) {
	features := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	labels := []int{1, 1, 1}

	forest, err := TrainForest(features, labels, DefaultForestConfig())
	if err != nil {
		t.Fatalf("TrainForest: %v", err)
	}

	for _, x := range features {
		if forest.Predict(x) != 1 {
			t.Error("pure training set should predict its only class")
		}
	}
}

func TestTrainForestErrors(t *testing.T) {
	if _, err := TrainForest(nil, nil, DefaultForestConfig()); err == nil {
		t.Error("empty dataset should be rejected")
	}
	if _, err := TrainForest([][]float64{{1}}, []int{0, 1}, DefaultForestConfig()); err == nil {
		t.Error("mismatched feature and label lengths should be rejected")
	}
}

func TestForestContradictoryRowsFallToMajority(t *testing.T) {
	// The same feature row appears with both labels; the forest can only
	// predict the per-row majority.
	var features [][]float64
	var labels []int
	for i := 0; i < 30; i++ {
		features = append(features, []float64{1, 1})
		if i < 20 {
			labels = append(labels, 1)
		} else {
			labels = append(labels, 0)
		}
	}

	forest, err := TrainForest(features, labels, DefaultForestConfig())
	if err != nil {
		t.Fatalf("TrainForest: %v", err)
	}
	if forest.Predict([]float64{1, 1}) != 1 {
		t.Error("contradictory rows should resolve to the majority label")
	}
}
