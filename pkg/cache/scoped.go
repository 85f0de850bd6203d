package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments or users
// sharing one backend get isolated namespaces.
//
// Example usage:
//
//	// Per-project keys on a shared Redis
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "proj:render-farm:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RunKey generates a prefixed key for a full pipeline run.
func (k *ScopedKeyer) RunKey(manifestHash string, inputHashes []string) string {
	return k.prefix + k.inner.RunKey(manifestHash, inputHashes)
}

// ArtifactKey generates a prefixed key for a single rendered artifact.
func (k *ScopedKeyer) ArtifactKey(runKey, sink string) string {
	return k.prefix + k.inner.ArtifactKey(runKey, sink)
}
