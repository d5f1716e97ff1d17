// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package mlpipeline

import (
	"math"
	"math/rand"

	"github.com/nestscout/nestscout/internal/recommend"
)

// Training feature layout: the six listing features followed by
// interaction popularity.
const numTrainFeatures = 7

// Dataset is a labeled feature matrix ready for training.
type Dataset struct {
	Features [][]float64
	Labels   []int
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Features) }

// BuildDataset joins events against the listing inventory to produce one
// labeled sample per interaction. A sample is positive when the user
// saved the listing; clicks and searches are negatives. Events without a
// resolvable listing are skipped.
func BuildDataset(listings []recommend.Listing, events []recommend.Event) *Dataset {
	byID := make(map[int]recommend.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = recommend.EngineerFeatures(l)
	}

	// Popularity is the total interaction count per listing, regardless
	// of event kind.
	popularity := make(map[int]float64)
	for _, e := range events {
		if e.ListingID != nil {
			popularity[*e.ListingID]++
		}
	}

	ds := &Dataset{}
	for _, e := range events {
		if e.ListingID == nil {
			continue
		}
		l, ok := byID[*e.ListingID]
		if !ok {
			continue
		}

		row := []float64{
			l.Price,
			l.Bedrooms,
			l.Bathrooms,
			l.Sqft,
			l.PricePerSqft,
			l.BedBathRatio,
			popularity[l.ID],
		}

		label := 0
		if e.Kind == recommend.EventSave {
			label = 1
		}

		ds.Features = append(ds.Features, row)
		ds.Labels = append(ds.Labels, label)
	}

	return ds
}

// SplitDataset shuffles the dataset with the given seed and carves off
// the requested fraction as a held-out test set. The split is
// deterministic: the same seed and dataset always produce the same
// partition.
func SplitDataset(ds *Dataset, testFraction float64, seed int64) (train, test *Dataset) {
	n := ds.Len()
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic shuffling, not cryptographic
	perm := rng.Perm(n)

	nTest := int(math.Round(float64(n) * testFraction))
	if nTest < 1 && n > 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}

	train = &Dataset{}
	test = &Dataset{}
	for i, p := range perm {
		if i < nTest {
			test.Features = append(test.Features, ds.Features[p])
			test.Labels = append(test.Labels, ds.Labels[p])
		} else {
			train.Features = append(train.Features, ds.Features[p])
			train.Labels = append(train.Labels, ds.Labels[p])
		}
	}
	return train, test
}

// FitListingScaler fits standardization parameters over the engineered
// feature vectors of the listing inventory. The result travels with the
// trained artifact so serving can reuse the training-time distribution.
func FitListingScaler(listings []recommend.Listing) recommend.ScalerParams {
	vectors := make([][]float64, 0, len(listings))
	for _, raw := range listings {
		l := recommend.EngineerFeatures(raw)
		vectors = append(vectors, []float64{
			l.Price, l.Bedrooms, l.Bathrooms, l.Sqft, l.PricePerSqft, l.BedBathRatio,
		})
	}
	return fitColumns(vectors)
}

// fitColumns computes per-column mean and population standard deviation.
func fitColumns(vectors [][]float64) recommend.ScalerParams {
	if len(vectors) == 0 {
		return recommend.ScalerParams{}
	}
	width := len(vectors[0])
	mean := make([]float64, width)
	std := make([]float64, width)

	for _, v := range vectors {
		for j, x := range v {
			mean[j] += x
		}
	}
	for j := range mean {
		mean[j] /= float64(len(vectors))
	}
	for _, v := range vectors {
		for j, x := range v {
			d := x - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / float64(len(vectors)))
	}

	return recommend.ScalerParams{Mean: mean, Std: std}
}

// standardize applies the scaler in place to a training feature matrix.
// Constant columns map to zero.
func standardize(features [][]float64, params recommend.ScalerParams) {
	for _, row := range features {
		for j := range row {
			if j >= len(params.Mean) {
				break
			}
			if params.Std[j] == 0 {
				row[j] = 0
				continue
			}
			row[j] = (row[j] - params.Mean[j]) / params.Std[j]
		}
	}
}
