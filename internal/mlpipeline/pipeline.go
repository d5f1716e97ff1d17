// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package mlpipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/metrics"
)

// Config contains training pipeline configuration.
type Config struct {
	// Schedule is the cron expression for automatic retraining.
	Schedule string `json:"schedule" koanf:"schedule"`

	// TestFraction is the share of samples held out for evaluation.
	TestFraction float64 `json:"test_fraction" koanf:"test_fraction"`

	// Seed drives the dataset split and forest sampling.
	Seed int64 `json:"seed" koanf:"seed"`

	// NumTrees and MaxDepth configure the forest.
	NumTrees int `json:"num_trees" koanf:"num_trees"`
	MaxDepth int `json:"max_depth" koanf:"max_depth"`

	// MinInteractions is the smallest dataset a run will train on.
	MinInteractions int `json:"min_interactions" koanf:"min_interactions"`

	// RegistryPath is the model registry JSON file.
	RegistryPath string `json:"registry_path" koanf:"registry_path"`

	// ArtifactDir is where trained artifacts are stored.
	ArtifactDir string `json:"artifact_dir" koanf:"artifact_dir"`
}

// DefaultConfig returns production-ready pipeline defaults.
func DefaultConfig() Config {
	return Config{
		Schedule:        "0 3 * * *",
		TestFraction:    0.2,
		Seed:            42,
		NumTrees:        50,
		MaxDepth:        8,
		MinInteractions: 20,
		RegistryPath:    "data/models/registry.json",
		ArtifactDir:     "data/models",
	}
}

// Validate checks configuration bounds.
func (c Config) Validate() error {
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test_fraction must be in (0, 1), got %v", c.TestFraction)
	}
	if c.NumTrees <= 0 {
		return fmt.Errorf("num_trees must be positive, got %d", c.NumTrees)
	}
	if c.MinInteractions < 2 {
		return fmt.Errorf("min_interactions must be at least 2, got %d", c.MinInteractions)
	}
	return nil
}

// lastRun captures the outcome of the most recent run for Status.
type lastRun struct {
	version string
	at      time.Time
	err     error
}

// Pipeline orchestrates model retraining: fetch, engineer, train,
// evaluate, version, and promote. Exactly one run is active at a time;
// overlapping triggers are rejected rather than queued. A failed run
// returns the pipeline to idle without touching the registry or the
// serving model.
type Pipeline struct {
	cfg       Config
	logger    zerolog.Logger
	data      DataProvider
	registry  *Registry
	artifacts *ArtifactStore
	live      *LiveModel

	runMu sync.Mutex
	state atomic.Int32

	lastMu sync.Mutex
	last   lastRun

	onPromote func(*Artifact)
}

// NewPipeline wires the pipeline against a data provider and the serving
// handle. If the registry names a production model, its artifact is
// loaded into the handle so serving resumes where the last process
// stopped.
func NewPipeline(cfg Config, data DataProvider, live *LiveModel, logger zerolog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}

	registry, err := OpenRegistry(cfg.RegistryPath)
	if err != nil {
		return nil, err
	}
	artifacts, err := NewArtifactStore(cfg.ArtifactDir)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:       cfg,
		logger:    logger.With().Str("component", "mlpipeline").Logger(),
		data:      data,
		registry:  registry,
		artifacts: artifacts,
		live:      live,
	}
	p.restoreProduction()
	return p, nil
}

// SetPromotionHook registers a callback invoked after each promotion,
// outside the training lock.
func (p *Pipeline) SetPromotionHook(fn func(*Artifact)) {
	p.onPromote = fn
}

// restoreProduction loads the promoted artifact from disk on startup.
func (p *Pipeline) restoreProduction() {
	version := p.registry.ProductionVersion()
	if version == "" {
		return
	}
	a, err := p.artifacts.Load(version)
	if err != nil {
		p.logger.Warn().Err(err).Str("version", version).
			Msg("production artifact could not be restored; serving without a model")
		return
	}
	p.live.Swap(a)
	metrics.ProductionModelF1.Set(a.Metrics.F1)
	p.logger.Info().Str("version", version).Msg("production model restored")
}

// TriggerAsync starts a training run in the background. It returns
// ErrTrainingInProgress when another run holds the lock.
func (p *Pipeline) TriggerAsync(ctx context.Context) error {
	if !p.runMu.TryLock() {
		return ErrTrainingInProgress
	}
	go func() {
		defer p.runMu.Unlock()
		if _, err := p.runLocked(ctx); err != nil {
			p.logger.Error().Err(err).Msg("training run failed")
		}
	}()
	return nil
}

// Run executes a training run synchronously. It returns
// ErrTrainingInProgress when another run holds the lock.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	if !p.runMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer p.runMu.Unlock()
	return p.runLocked(ctx)
}

//nolint:gocyclo // the run walks every pipeline stage in sequence
func (p *Pipeline) runLocked(ctx context.Context) (result *RunResult, err error) {
	started := time.Now()
	samples := 0

	defer func() {
		p.setState(StateIdle)
		p.recordLast(result, err)
		if err != nil {
			metrics.RecordTrainingRun("failed", samples, time.Since(started))
		}
	}()

	p.setState(StateFetching)
	listings, err := p.data.Listings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	events, err := p.data.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	p.setState(StateEngineering)
	ds := BuildDataset(listings, events)
	samples = ds.Len()
	if samples < p.cfg.MinInteractions {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughData, samples, p.cfg.MinInteractions)
	}

	p.setState(StateTraining)
	train, test := SplitDataset(ds, p.cfg.TestFraction, p.cfg.Seed)

	trainScaler := fitColumns(train.Features)
	standardize(train.Features, trainScaler)
	standardize(test.Features, trainScaler)

	forest, err := TrainForest(train.Features, train.Labels, ForestConfig{
		NumTrees: p.cfg.NumTrees,
		MaxDepth: p.cfg.MaxDepth,
		Seed:     p.cfg.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	p.setState(StateEvaluating)
	quality := evaluateBinary(test.Labels, forest.PredictBatch(test.Features))

	p.setState(StateVersioning)
	artifact := &Artifact{
		Version:   p.versionTag(time.Now().UTC()),
		TrainedAt: time.Now().UTC(),
		Metrics:   quality,
		Samples:   samples,
		Scaler:    FitListingScaler(listings),
		Forest:    forest,
	}
	if err := p.artifacts.Save(artifact); err != nil {
		return nil, fmt.Errorf("save artifact: %w", err)
	}

	promote := p.shouldPromote(quality)
	entry := RegistryEntry{
		Version:   artifact.Version,
		TrainedAt: artifact.TrainedAt,
		Metrics:   quality,
		Samples:   samples,
	}
	if err := p.registry.Record(entry, promote); err != nil {
		return nil, fmt.Errorf("record version: %w", err)
	}

	outcome := "skipped"
	if promote {
		p.setState(StatePromoting)
		p.live.Swap(artifact)
		metrics.ProductionModelF1.Set(quality.F1)
		outcome = "promoted"
		if p.onPromote != nil {
			p.onPromote(artifact)
		}
	} else {
		p.setState(StateSkipped)
	}

	duration := time.Since(started)
	metrics.RecordTrainingRun(outcome, samples, duration)
	p.logger.Info().
		Str("version", artifact.Version).
		Bool("promoted", promote).
		Float64("f1", quality.F1).
		Int("samples", samples).
		Dur("duration", duration).
		Msg("training run complete")

	return &RunResult{
		Version:  artifact.Version,
		Promoted: promote,
		Metrics:  quality,
		Samples:  samples,
		Duration: duration,
	}, nil
}

// shouldPromote compares the new model against the production entry.
// Ties go to the newer model.
func (p *Pipeline) shouldPromote(quality Metrics) bool {
	prod, ok := p.registry.Production()
	if !ok {
		return true
	}
	return quality.F1 >= prod.Metrics.F1
}

// versionTag derives a timestamp tag, suffixing a counter when two runs
// land within the same second.
func (p *Pipeline) versionTag(now time.Time) string {
	tag := now.Format("v20060102_150405")
	if !p.registry.HasVersion(tag) {
		return tag
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", tag, i)
		if !p.registry.HasVersion(candidate) {
			return candidate
		}
	}
}

// Status returns a snapshot of the pipeline state.
func (p *Pipeline) Status() Status {
	p.lastMu.Lock()
	last := p.last
	p.lastMu.Unlock()

	st := Status{
		State:       p.getState().String(),
		Production:  p.registry.ProductionVersion(),
		LastVersion: last.version,
		LastRunAt:   last.at,
	}
	if last.err != nil {
		st.LastError = last.err.Error()
	}
	return st
}

// Registry exposes the version history for the API layer.
func (p *Pipeline) Registry() *Registry {
	return p.registry
}

func (p *Pipeline) recordLast(result *RunResult, err error) {
	p.lastMu.Lock()
	defer p.lastMu.Unlock()

	p.last = lastRun{at: time.Now(), err: err}
	if result != nil {
		p.last.version = result.Version
	}
}

func (p *Pipeline) setState(s State) {
	p.state.Store(int32(s))
}

func (p *Pipeline) getState() State {
	return State(p.state.Load())
}
