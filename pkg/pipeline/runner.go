package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lunehart/pixelgrid/pkg/cache"
	apperrors "github.com/lunehart/pixelgrid/pkg/errors"
	"github.com/lunehart/pixelgrid/pkg/graph"
	"github.com/lunehart/pixelgrid/pkg/nodes"
	"github.com/lunehart/pixelgrid/pkg/observability"
	"github.com/lunehart/pixelgrid/pkg/pixel"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedRun is the serialized form of a completed run stored in the cache.
type cachedRun struct {
	Artifacts map[string][]byte `json:"artifacts"`
	Processed int               `json:"processed"`
	Skipped   int               `json:"skipped"`
}

// Execute runs the complete parse → build → run pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger

	result := &Result{
		RunID:        uuid.New(),
		ManifestHash: cache.Hash([]byte(opts.Manifest)),
		Artifacts:    make(map[string][]byte),
	}
	runKey := r.Keyer.RunKey(result.ManifestHash, inputHashes(opts.Inputs))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, runKey); err == nil && hit {
			var cached cachedRun
			if json.Unmarshal(data, &cached) == nil {
				observability.Cache().OnCacheHit("run")
				result.Artifacts = cached.Artifacts
				result.Stats.Processed = cached.Processed
				result.Stats.Skipped = cached.Skipped
				result.CacheHit = true
				logger.Info("run served from cache",
					"run_id", result.RunID,
					"artifacts", len(cached.Artifacts))
				return result, nil
			}
		}
		observability.Cache().OnCacheMiss("run")
	}

	// Stage 1+2: Parse and build
	buildStart := time.Now()
	m, err := ParseManifest([]byte(opts.Manifest))
	if err != nil {
		return nil, err
	}
	g, byName, err := Build(m)
	if err != nil {
		return nil, err
	}
	if err := r.injectInputs(byName, opts.Inputs); err != nil {
		return nil, err
	}
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.Len()
	result.Stats.EdgeCount = g.EdgeCount()

	logger.Info("built graph",
		"manifest", m.Name,
		"nodes", g.Len(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Unconnected inputs are tolerated at run time: the scheduler skips the
	// affected nodes and their dependents run against empty artifacts.
	if err := g.Validate(); err != nil {
		logger.Warn("graph has structural gaps, some nodes will be skipped", "reason", err)
	}

	// Stage 3: Run
	runStart := time.Now()
	report := g.Process()
	result.Report = report
	result.Stats.RunTime = time.Since(runStart)
	result.Stats.Processed = len(report.Processed)
	result.Stats.Skipped = len(report.Skipped)
	result.Stats.Failed = len(report.Failed)

	for id, nodeErr := range report.Failed {
		if n, ok := g.Node(id); ok {
			logger.Error("node failed", "node", n.Name(), "kind", n.Kind(), "error", nodeErr)
		}
	}

	// Collect sink artifacts in manifest order
	for _, spec := range m.Nodes {
		sink, ok := byName[spec.Name].(*nodes.Sink)
		if ok && !sink.Image().Empty() {
			data, err := sink.Image().EncodePNG()
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode sink %q", spec.Name)
			}
			result.Artifacts[spec.Name] = data
		}
	}

	logger.Info("run complete",
		"run_id", result.RunID,
		"processed", result.Stats.Processed,
		"skipped", result.Stats.Skipped,
		"failed", result.Stats.Failed,
		"artifacts", len(result.Artifacts),
		"duration", result.Stats.RunTime)

	// Cache the result only when every node ran clean
	if result.Stats.Failed == 0 {
		if data, err := json.Marshal(cachedRun{
			Artifacts: result.Artifacts,
			Processed: result.Stats.Processed,
			Skipped:   result.Stats.Skipped,
		}); err == nil {
			if r.Cache.Set(ctx, runKey, data, cache.TTLRun) == nil {
				observability.Cache().OnCacheSet("run", len(data))
			}
		}
	}

	return result, nil
}

// Build parses a manifest and instantiates its graph without running it.
// CLI validation and visualization use this to inspect structure cheaply.
func (r *Runner) Build(manifest []byte) (*graph.Graph, *Manifest, error) {
	m, err := ParseManifest(manifest)
	if err != nil {
		return nil, nil, err
	}
	g, _, err := Build(m)
	if err != nil {
		return nil, nil, err
	}
	return g, m, nil
}

// Validate parses and builds a manifest, then checks the graph for
// structural gaps. A nil error means every input is connected and the graph
// is acyclic.
func (r *Runner) Validate(manifest []byte) error {
	g, _, err := r.Build(manifest)
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeUnconnectedInput, err, "graph validation")
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// injectInputs decodes and installs PNG images on named source nodes.
func (r *Runner) injectInputs(byName map[string]graph.Node, inputs map[string][]byte) error {
	for name, data := range inputs {
		n, ok := byName[name]
		if !ok {
			return apperrors.New(apperrors.ErrCodeNodeNotFound, "input target %q not in manifest", name)
		}
		src, ok := n.(*nodes.Source)
		if !ok {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "input target %q is a %s node, not a source", name, n.Kind())
		}
		img, err := pixel.DecodePNG(data)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode input %q", name)
		}
		src.SetImage(img)
	}
	return nil
}

// inputHashes derives a stable digest list from injected inputs for cache
// keying. Names are sorted so map order cannot perturb the key.
func inputHashes(inputs map[string][]byte) []string {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	hashes := make([]string, 0, len(names))
	for _, name := range names {
		hashes = append(hashes, name+":"+cache.Hash(inputs[name]))
	}
	return hashes
}
