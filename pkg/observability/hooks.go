// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about graph execution and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the engine dependency-free from observability frameworks
//   - Allows different backends (Prometheus, OpenTelemetry, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    // ... run application
//	}
//
// The engine calls hooks as it executes:
//
//	observability.Engine().OnNodeProcessed(kind, name, duration, err)
package observability

import (
	"sync"
	"time"
)

// EngineHooks receives events from graph execution.
type EngineHooks interface {
	// OnRunStart records the start of a full pipeline run.
	OnRunStart(scheduled int)

	// OnNodeSkipped records a node skipped because it was not ready.
	OnNodeSkipped(kind, name string)

	// OnNodeProcessed records one node's Process call, successful or not.
	OnNodeProcessed(kind, name string, duration time.Duration, err error)

	// OnRunComplete records the end of a full pipeline run.
	OnRunComplete(duration time.Duration, processed, skipped int)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(keyType string, size int)
}

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnRunStart(int)                                      {}
func (NoopEngineHooks) OnNodeSkipped(string, string)                        {}
func (NoopEngineHooks) OnNodeProcessed(string, string, time.Duration, error) {}
func (NoopEngineHooks) OnRunComplete(time.Duration, int, int)               {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(string)       {}
func (NoopCacheHooks) OnCacheMiss(string)      {}
func (NoopCacheHooks) OnCacheSet(string, int)  {}

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any graph runs.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	cacheHooks = NoopCacheHooks{}
}
