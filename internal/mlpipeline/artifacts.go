// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package mlpipeline

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// storedArtifact is the on-disk format for artifact files.
type storedArtifact struct {
	Checksum       string
	CompressedData []byte
}

// ArtifactStore persists trained artifacts as gzip-compressed gob files,
// one per version, with a SHA-256 checksum verified on load.
type ArtifactStore struct {
	baseDir string
	mu      sync.RWMutex
}

// NewArtifactStore creates an artifact store rooted at the given directory.
func NewArtifactStore(baseDir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &ArtifactStore{baseDir: baseDir}, nil
}

// Save writes the artifact under its version tag.
func (s *ArtifactStore) Save(a *Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(a); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	raw := buf.Bytes()

	hash := sha256.Sum256(raw)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return fmt.Errorf("compress artifact: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	f, err := os.Create(s.artifactPath(a.Version)) //nolint:gosec // path is constructed from the version tag
	if err != nil {
		return fmt.Errorf("create artifact file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after write is surfaced via encode

	sa := storedArtifact{
		Checksum:       hex.EncodeToString(hash[:]),
		CompressedData: compressed.Bytes(),
	}
	if err := gob.NewEncoder(f).Encode(sa); err != nil {
		return fmt.Errorf("write artifact file: %w", err)
	}
	return nil
}

// Load reads and verifies the artifact stored under the version tag.
func (s *ArtifactStore) Load(version string) (*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.artifactPath(version)) //nolint:gosec // path is constructed from the version tag
	if err != nil {
		return nil, fmt.Errorf("open artifact file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sa storedArtifact
	if err := gob.NewDecoder(f).Decode(&sa); err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sa.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress artifact: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed artifact: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sa.Checksum {
		return nil, fmt.Errorf("artifact checksum mismatch: expected %s, got %s", sa.Checksum, checksum)
	}

	var a Artifact
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &a, nil
}

func (s *ArtifactStore) artifactPath(version string) string {
	return filepath.Join(s.baseDir, version+".gob.gz")
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(Artifact{})
	gob.Register(storedArtifact{})
}
