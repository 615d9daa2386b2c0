// Package state defines graph states and the codec that turns them into
// fixed-width keys.
//
// A state is an ordered sequence of small integers, typically a permutation
// of 0..n-1 but in general any string over the alphabet [0, n). States are
// the vertices of the implicit Cayley graph; two states are the same vertex
// exactly when their encoded keys are equal.
//
// # Keys
//
// The Codec packs each element into a fixed number of bits, so a key is a
// compact, comparable string that round-trips exactly back to its state.
// Deduplication stores hold keys, never full states, which keeps memory
// growth proportional to the number of discovered vertices rather than
// n times that.
//
// # Fingerprints
//
// Fingerprint hashes a key to 64 bits for shard routing in partitioned
// stores. Fingerprints may collide and must never be used for
// deduplication; keys are the sole identity.
package state

import (
	"github.com/cespare/xxhash/v2"
)

// State is an ordered sequence of symbols in [0, n). States are immutable
// by convention: search code never mutates a state after publishing it.
type State []int

// Clone returns an independent copy of s.
func (s State) Clone() State {
	out := make(State, len(s))
	copy(out, s)
	return out
}

// Equal reports whether s and o are element-wise equal.
func (s State) Equal(o State) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Identity returns the identity permutation of size n: [0, 1, ..., n-1].
func Identity(n int) State {
	s := make(State, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// Key is the canonical encoded form of a State. Keys are plain strings so
// they work as map keys and store payloads without conversion. Two states
// are graph-equal iff their keys are equal.
type Key string

// Fingerprint hashes a key to 64 bits. Used for shard selection in
// partitioned frontier stores, never for deduplication.
func Fingerprint(k Key) uint64 {
	return xxhash.Sum64String(string(k))
}
