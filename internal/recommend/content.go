// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package recommend

import "math"

// scoreContent computes the content-match score for each engineered
// candidate: cosine similarity between the standardized ideal vector and
// each standardized candidate vector. Scores are returned in candidate
// order and may be negative; the ranker clips them for output.
//
// When the live model carries persisted scaler parameters those are used,
// keeping scores comparable across calls. Otherwise a standard-score
// transform is fit per call on the combined ideal+candidate batch, which
// needs no pre-trained state but drifts with inventory size.
func scoreContent(p *Profile, candidates []Listing, persisted *ScalerParams) []float64 {
	ideal := featureVector(idealListing(p))

	vectors := make([][]float64, 0, len(candidates)+1)
	vectors = append(vectors, ideal)
	for _, l := range candidates {
		vectors = append(vectors, featureVector(l))
	}

	var scaler ScalerParams
	if persisted != nil && len(persisted.Mean) == numFeatures && len(persisted.Std) == numFeatures {
		scaler = *persisted
	} else {
		scaler = fitScaler(vectors)
	}

	for _, v := range vectors {
		scaler.apply(v)
	}

	scores := make([]float64, len(candidates))
	for i := range candidates {
		scores[i] = cosineSimilarity(vectors[0], vectors[i+1])
	}
	return scores
}

// fitScaler computes per-feature mean and population standard deviation
// over the batch.
func fitScaler(vectors [][]float64) ScalerParams {
	n := float64(len(vectors))
	mean := make([]float64, numFeatures)
	std := make([]float64, numFeatures)

	for _, v := range vectors {
		for j, x := range v {
			mean[j] += x
		}
	}
	for j := range mean {
		mean[j] /= n
	}

	for _, v := range vectors {
		for j, x := range v {
			d := x - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
	}

	return ScalerParams{Mean: mean, Std: std}
}

// apply standardizes a vector in place. A zero deviation maps the
// feature to zero so constant columns cannot dominate the similarity.
func (s ScalerParams) apply(v []float64) {
	for j := range v {
		if s.Std[j] == 0 {
			v[j] = 0
			continue
		}
		v[j] = (v[j] - s.Mean[j]) / s.Std[j]
	}
}

// cosineSimilarity computes cosine similarity between two vectors.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
