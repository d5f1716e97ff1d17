// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package mlpipeline

import (
	"reflect"
	"testing"
	"time"

	"github.com/nestscout/nestscout/internal/recommend"
)

func TestArtifactStoreRoundTrip(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewArtifactStore: %v", err)
	}

	features, labels := separableDataset(20)
	forest, err := TrainForest(features, labels, DefaultForestConfig())
	if err != nil {
		t.Fatalf("TrainForest: %v", err)
	}

	in := &Artifact{
		Version:   "v20260830_120000",
		TrainedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Metrics:   Metrics{Accuracy: 0.95, Precision: 0.9, Recall: 0.92, F1: 0.9099},
		Samples:   20,
		Scaler: recommend.ScalerParams{
			Mean: []float64{1, 2, 3, 4, 5, 6},
			Std:  []float64{1, 1, 1, 1, 1, 1},
		},
		Forest: forest,
	}

	if err := store.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := store.Load(in.Version)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !reflect.DeepEqual(in, out) {
		t.Errorf("artifact did not round-trip:\nin:  %+v\nout: %+v", in, out)
	}

	// The restored forest still predicts.
	for i, x := range features {
		if out.Forest.Predict(x) != labels[i] {
			t.Errorf("sample %d: restored forest prediction differs", i)
		}
	}
}

func TestArtifactStoreMissingVersion(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewArtifactStore: %v", err)
	}

	if _, err := store.Load("v20990101_000000"); err == nil {
		t.Error("loading an unknown version should fail")
	}
}
