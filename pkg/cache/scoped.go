package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several independent search projects share one
// cache directory or store and need separate key namespaces.
//
// Example usage:
//
//	// Per-project keys
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "rubik333:")
//
//	// Global keys
//	keyer := NewDefaultKeyer()
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

// SearchKey generates a prefixed key for a serialized search result.
func (k *ScopedKeyer) SearchKey(graphHash string, opts SearchKeyOpts) string {
	return k.prefix + k.inner.SearchKey(graphHash, opts)
}

// ScoreKey generates a prefixed key for a memoized heuristic score.
func (k *ScopedKeyer) ScoreKey(scorerID, stateKey string) string {
	return k.prefix + k.inner.ScoreKey(scorerID, stateKey)
}
