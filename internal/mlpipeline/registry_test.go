// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package mlpipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func registryEntry(version string, f1 float64) RegistryEntry {
	return RegistryEntry{
		Version:   version,
		TrainedAt: time.Date(2026, 8, 1, 3, 0, 0, 0, time.UTC),
		Metrics:   Metrics{Accuracy: f1, Precision: f1, Recall: f1, F1: f1},
		Samples:   100,
	}
}

func TestOpenRegistryMissingFile(t *testing.T) {
	r, err := OpenRegistry(filepath.Join(t.TempDir(), "registry.json"))
	if err != nil {
		t.Fatalf("OpenRegistry: %v", err)
	}

	if len(r.Entries()) != 0 {
		t.Error("missing file should open as an empty registry")
	}
	if r.ProductionVersion() != "" {
		t.Error("empty registry must have no production version")
	}
}

func TestRegistryRecordAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")

	r, err := OpenRegistry(path)
	if err != nil {
		t.Fatalf("OpenRegistry: %v", err)
	}

	if err := r.Record(registryEntry("v20260801_030000", 0.8), true); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := r.Record(registryEntry("v20260802_030000", 0.7), false); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if got := r.ProductionVersion(); got != "v20260801_030000" {
		t.Errorf("production = %q, want the promoted version", got)
	}
	if prod, ok := r.Production(); !ok || prod.Metrics.F1 != 0.8 {
		t.Errorf("production entry = %+v, ok=%v", prod, ok)
	}

	// A fresh handle sees the persisted state.
	reloaded, err := OpenRegistry(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Entries()) != 2 {
		t.Fatalf("reloaded %d entries, want 2", len(reloaded.Entries()))
	}
	if reloaded.ProductionVersion() != "v20260801_030000" {
		t.Error("production version must survive reload")
	}
	if !reloaded.HasVersion("v20260802_030000") {
		t.Error("unpromoted version must survive reload")
	}
}

func TestRegistryRecordFailureLeavesStateUntouched(t *testing.T) {
	dir := t.TempDir()
	r, err := OpenRegistry(filepath.Join(dir, "sub", "registry.json"))
	if err != nil {
		t.Fatalf("OpenRegistry: %v", err)
	}
	if err := r.Record(registryEntry("v1", 0.5), true); err != nil {
		t.Fatalf("Record: %v", err)
	}

	// Replace the parent directory with a file so the rewrite fails.
	if err := os.RemoveAll(filepath.Join(dir, "sub")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := r.Record(registryEntry("v2", 0.9), true); err == nil {
		t.Fatal("expected persist failure")
	}
	if r.ProductionVersion() != "v1" {
		t.Error("failed record must not change the in-memory production version")
	}
	if r.HasVersion("v2") {
		t.Error("failed record must not leave the entry behind")
	}
}
