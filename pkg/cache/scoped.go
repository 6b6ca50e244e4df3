package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several environments (for example staging and
// production renderers) share one Redis instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// DatasetKey generates a prefixed key for dataset bytes.
func (k *ScopedKeyer) DatasetKey(locator string) string {
	return k.prefix + k.inner.DatasetKey(locator)
}

// ArtifactKey generates a prefixed key for a rendered chart.
func (k *ScopedKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(datasetHash, opts)
}
