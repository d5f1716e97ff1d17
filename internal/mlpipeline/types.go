// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package mlpipeline

import (
	"context"
	"errors"
	"time"

	"github.com/nestscout/nestscout/internal/recommend"
)

// State identifies the current stage of the training pipeline.
type State int32

const (
	// StateIdle means no training run is active.
	StateIdle State = iota

	// StateFetching means the pipeline is loading listings and events.
	StateFetching

	// StateEngineering means features and labels are being assembled.
	StateEngineering

	// StateTraining means the classifier is being fit.
	StateTraining

	// StateEvaluating means held-out metrics are being computed.
	StateEvaluating

	// StateVersioning means the artifact and registry entry are being written.
	StateVersioning

	// StatePromoting means the new model is replacing the production model.
	StatePromoting

	// StateSkipped means the run finished without promotion.
	StateSkipped
)

// String returns the lowercase state name used in API responses and logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateEngineering:
		return "engineering"
	case StateTraining:
		return "training"
	case StateEvaluating:
		return "evaluating"
	case StateVersioning:
		return "versioning"
	case StatePromoting:
		return "promoting"
	case StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

var (
	// ErrTrainingInProgress is returned when a run is requested while
	// another run holds the training lock.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrNotEnoughData is returned when the interaction history is too
	// small to produce a meaningful split.
	ErrNotEnoughData = errors.New("not enough interactions to train")
)

// DataProvider supplies the training inputs. The store implements this
// interface; keeping it here avoids a dependency on the storage layer.
type DataProvider interface {
	Listings(ctx context.Context) ([]recommend.Listing, error)
	Events(ctx context.Context) ([]recommend.Event, error)
}

// Metrics holds held-out classification quality for one trained model.
// All values are rounded to four decimal places.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
}

// Artifact is a fully trained model together with everything the serving
// path needs: the fitted scaler and the version identity.
type Artifact struct {
	Version   string
	TrainedAt time.Time
	Metrics   Metrics
	Samples   int
	Scaler    recommend.ScalerParams
	Forest    *Forest
}

// RunResult summarizes one completed training run.
type RunResult struct {
	Version  string        `json:"version"`
	Promoted bool          `json:"promoted"`
	Metrics  Metrics       `json:"metrics"`
	Samples  int           `json:"samples"`
	Duration time.Duration `json:"-"`
}

// Status is a point-in-time snapshot of the pipeline for the API.
type Status struct {
	State       string    `json:"state"`
	Production  string    `json:"production_version,omitempty"`
	LastVersion string    `json:"last_version,omitempty"`
	LastRunAt   time.Time `json:"last_run_at,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
}
