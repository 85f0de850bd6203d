// Package pipeline provides the core manifest → graph → process pipeline for
// pixelgrid.
//
// This package implements the complete parse → build → run flow that can be
// used by CLI and API components. By centralizing this logic, we ensure
// consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read a TOML manifest into nodes and edges
//  2. Build: Instantiate the node graph and wire its connections
//  3. Run: Execute every node in dependency order and collect sink artifacts
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Manifest: manifestTOML,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["final"]
//
// Run individual stages:
//
//	// Parse only
//	m, err := pipeline.ParseManifest([]byte(manifestTOML))
//
//	// Build a graph from a parsed manifest
//	g, byName, err := runner.Build(m)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lunehart/pixelgrid/pkg/graph"
)

// Format constants for rendered artifacts.
const (
	// FormatPNG is the interchange format for sink artifacts.
	FormatPNG = "png"
)

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Manifest is the TOML manifest text describing the graph.
	Manifest string `json:"manifest"`

	// Inputs maps source node names to PNG-encoded images injected before
	// the run. A source whose manifest declares a path keeps its file image
	// unless overridden here.
	Inputs map[string][]byte `json:"inputs,omitempty"`

	// Refresh bypasses the run cache and overwrites the stored entry.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID uuid.UUID

	// ManifestHash is the content hash of the manifest.
	ManifestHash string

	// Artifacts contains PNG-encoded sink outputs keyed by sink name.
	Artifacts map[string][]byte

	// Report describes what the scheduler did with each node.
	Report graph.Report

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the artifacts came from the run cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount int
	EdgeCount int
	BuildTime time.Duration
	RunTime   time.Duration
	Processed int
	Skipped   int
	Failed    int
}
