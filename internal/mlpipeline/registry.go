// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package mlpipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// RegistryEntry records one trained model version.
type RegistryEntry struct {
	Version   string    `json:"version"`
	TrainedAt time.Time `json:"trained_at"`
	Metrics   Metrics   `json:"metrics"`
	Samples   int       `json:"samples"`
}

// registryDoc is the on-disk registry format.
type registryDoc struct {
	Production *string         `json:"production"`
	Versions   []RegistryEntry `json:"versions"`
}

// Registry tracks every trained model version and which one serves
// production traffic. The whole document is rewritten atomically on each
// change via a temp file and rename, so readers never observe a partial
// registry and a failed write leaves the previous state intact.
type Registry struct {
	path string

	mu  sync.RWMutex
	doc registryDoc
}

// OpenRegistry loads the registry at the given path, creating an empty
// one in memory when the file does not exist yet.
func OpenRegistry(path string) (*Registry, error) {
	r := &Registry{path: path}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from trusted configuration
	if errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	if err := json.Unmarshal(data, &r.doc); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return r, nil
}

// Record appends a version entry and, when promote is set, marks it as
// the production model. Both changes land in a single atomic rewrite.
func (r *Registry) Record(entry RegistryEntry, promote bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.doc
	r.doc.Versions = append(r.doc.Versions, entry)
	if promote {
		v := entry.Version
		r.doc.Production = &v
	}

	if err := r.persistLocked(); err != nil {
		r.doc = prev
		return err
	}
	return nil
}

// Production returns the entry currently serving production traffic.
func (r *Registry) Production() (RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.doc.Production == nil {
		return RegistryEntry{}, false
	}
	for _, e := range r.doc.Versions {
		if e.Version == *r.doc.Production {
			return e, true
		}
	}
	return RegistryEntry{}, false
}

// ProductionVersion returns the promoted version tag, or "" when no
// model has been promoted yet.
func (r *Registry) ProductionVersion() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.doc.Production == nil {
		return ""
	}
	return *r.doc.Production
}

// Entries returns a copy of all recorded versions in insertion order.
func (r *Registry) Entries() []RegistryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RegistryEntry, len(r.doc.Versions))
	copy(out, r.doc.Versions)
	return out
}

// HasVersion reports whether a version tag is already recorded.
func (r *Registry) HasVersion(version string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.doc.Versions {
		if e.Version == version {
			return true
		}
	}
	return false
}

func (r *Registry) persistLocked() error {
	data, err := json.MarshalIndent(r.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return fmt.Errorf("create registry directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".registry-*.json")
	if err != nil {
		return fmt.Errorf("create temp registry: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()        //nolint:errcheck // cleanup after write failure
		_ = os.Remove(tmpName) //nolint:errcheck // cleanup after write failure
		return fmt.Errorf("write temp registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // cleanup after close failure
		return fmt.Errorf("close temp registry: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // cleanup after rename failure
		return fmt.Errorf("replace registry: %w", err)
	}
	return nil
}
