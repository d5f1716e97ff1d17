// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package mlpipeline

import "math"

// evaluateBinary computes accuracy, precision, recall, and F1 for binary
// predictions. Undefined ratios (zero denominators) evaluate to zero
// rather than NaN so degenerate test sets still produce a usable record.
func evaluateBinary(yTrue, yPred []int) Metrics {
	var tp, tn, fp, fn int
	for i := range yTrue {
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			tp++
		case yTrue[i] == 0 && yPred[i] == 0:
			tn++
		case yTrue[i] == 0 && yPred[i] == 1:
			fp++
		default:
			fn++
		}
	}

	accuracy := safeRatio(float64(tp+tn), float64(len(yTrue)))
	precision := safeRatio(float64(tp), float64(tp+fp))
	recall := safeRatio(float64(tp), float64(tp+fn))
	f1 := safeRatio(2*precision*recall, precision+recall)

	return Metrics{
		Accuracy:  round4(accuracy),
		Precision: round4(precision),
		Recall:    round4(recall),
		F1:        round4(f1),
	}
}

func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
