// Package cache provides pluggable result caching for pipeline runs.
//
// A [Cache] stores opaque byte blobs under string keys with per-entry TTLs.
// Three backends ship with the engine: a file-based cache for CLI usage, a
// Redis cache for the HTTP server, and a null cache that disables caching.
// Keys are derived by a [Keyer] from content hashes, so identical manifests
// with identical source images share cache entries.
package cache

import (
	"context"
	"time"
)

// TTLs for the cached artifact classes.
const (
	// TTLRun is how long a completed run result stays cached.
	TTLRun = 24 * time.Hour

	// TTLArtifact is how long an individual rendered artifact stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores byte blobs under string keys.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores the entry without
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys from content hashes.
type Keyer interface {
	// RunKey generates a key for a full pipeline run, derived from the
	// manifest content and the hashes of every injected source image.
	RunKey(manifestHash string, inputHashes []string) string

	// ArtifactKey generates a key for a single rendered artifact, derived
	// from the run key and the producing sink's name.
	ArtifactKey(runKey, sink string) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RunKey generates a key for a full pipeline run.
func (k *DefaultKeyer) RunKey(manifestHash string, inputHashes []string) string {
	return hashKey("run", manifestHash, inputHashes)
}

// ArtifactKey generates a key for a single rendered artifact.
func (k *DefaultKeyer) ArtifactKey(runKey, sink string) string {
	return hashKey("artifact", runKey, sink)
}
