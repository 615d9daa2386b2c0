// Package gens defines generator sets: the fixed, ordered collections of
// permutations whose repeated application generates the Cayley graph.
//
// A generator is a permutation p of 0..n-1; applying it to a state s
// yields the successor s' with s'[j] = s[p[j]]. The graph is never
// materialized: its edges exist only as (generator index, state) pairs
// fed through Apply.
//
// A Set is built once, validated eagerly, and immutable afterwards, so it
// is freely shared across search workers without locking. Generator order
// is part of run configuration: explorers apply generators in index order,
// which makes discovery order deterministic.
package gens

import (
	"strconv"
	"strings"

	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
)

// Generator is a single named transformation rule.
type Generator struct {
	Name string
	Perm []int
}

// Set is a fixed, ordered collection of generators sharing one state size.
// The zero value is not usable; construct with NewSet or NewSetNamed.
type Set struct {
	n             int
	perms         [][]int
	names         []string
	inverse       []int // inverse[i] = index of the generator inverting perms[i], or -1
	inverseClosed bool
}

// NewSet builds a generator set from permutation definitions. Each perm
// must be a permutation of 0..n-1, where n is the length of the first.
// Generators are auto-named by joining their images with commas
// (e.g. "1,0,2").
func NewSet(perms [][]int) (*Set, error) {
	return NewSetNamed(perms, nil)
}

// NewSetNamed builds a generator set with explicit names. names must be
// nil (auto-name everything) or have exactly one entry per perm.
func NewSetNamed(perms [][]int, names []string) (*Set, error) {
	if len(perms) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGenerator, "generator set cannot be empty")
	}
	n := len(perms[0])
	if n == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGenerator, "generators cannot be empty permutations")
	}
	if names != nil && len(names) != len(perms) {
		return nil, errors.New(errors.ErrCodeInvalidGenerator, "got %d names for %d generators", len(names), len(perms))
	}

	s := &Set{
		n:       n,
		perms:   make([][]int, len(perms)),
		names:   make([]string, len(perms)),
		inverse: make([]int, len(perms)),
	}

	byImage := make(map[string]int, len(perms))
	for i, p := range perms {
		if err := validatePermutation(p, n); err != nil {
			return nil, err
		}
		s.perms[i] = append([]int(nil), p...)
		byImage[imageString(p)] = i

		if names != nil {
			if err := errors.ValidateGeneratorName(names[i]); err != nil {
				return nil, err
			}
			s.names[i] = names[i]
		} else {
			s.names[i] = imageString(p)
		}
	}

	s.inverseClosed = true
	for i, p := range s.perms {
		inv, ok := byImage[imageString(inversePermutation(p))]
		if !ok {
			inv = -1
			s.inverseClosed = false
		}
		s.inverse[i] = inv
	}

	return s, nil
}

// Size returns the number of generators. Fixed for the lifetime of the set.
func (s *Set) Size() int { return len(s.perms) }

// N returns the state size every generator acts on.
func (s *Set) N() int { return s.n }

// Name returns the name of generator i.
func (s *Set) Name(i int) string { return s.names[i] }

// Names returns a copy of all generator names in index order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Generator returns generator i as a named value with a copied perm.
func (s *Set) Generator(i int) (Generator, error) {
	if i < 0 || i >= len(s.perms) {
		return Generator{}, errors.New(errors.ErrCodeInvalidGenerator, "generator index %d out of range [0, %d)", i, len(s.perms))
	}
	return Generator{
		Name: s.names[i],
		Perm: append([]int(nil), s.perms[i]...),
	}, nil
}

// InverseClosed reports whether every generator's inverse is also in the
// set. When true the graph is effectively undirected, which enables the
// two-layer dedup window in BFS.
func (s *Set) InverseClosed() bool { return s.inverseClosed }

// Inverse returns the index of the generator inverting generator i, if
// present in the set.
func (s *Set) Inverse(i int) (int, bool) {
	if i < 0 || i >= len(s.inverse) || s.inverse[i] < 0 {
		return 0, false
	}
	return s.inverse[i], true
}

// Apply applies generator i to src and returns a freshly allocated
// successor. It validates the index and state length; use ApplyInto on
// hot paths where both are known good.
func (s *Set) Apply(i int, src state.State) (state.State, error) {
	if i < 0 || i >= len(s.perms) {
		return nil, errors.New(errors.ErrCodeInvalidGenerator, "generator index %d out of range [0, %d)", i, len(s.perms))
	}
	if len(src) != s.n {
		return nil, errors.New(errors.ErrCodeInvalidState, "state has %d elements, generators act on %d", len(src), s.n)
	}
	dst := make(state.State, s.n)
	s.ApplyInto(i, src, dst)
	return dst, nil
}

// ApplyInto applies generator i to src, writing the successor into dst.
// This is the search hot path: no allocation, no validation. src and dst
// must both have length N and must not alias.
func (s *Set) ApplyInto(i int, src, dst state.State) {
	p := s.perms[i]
	for j, pj := range p {
		dst[j] = src[pj]
	}
}

// Expand applies every generator to every state in states, writing
// successors into dst. dst must have length len(states) * Size(); the
// successor of states[b] under generator g lands at dst[g*len(states)+b].
// Existing dst slices of the right length are reused, others are
// allocated, so a caller can recycle one dst buffer across layers.
func (s *Set) Expand(states []state.State, dst []state.State) error {
	if len(dst) != len(states)*len(s.perms) {
		return errors.New(errors.ErrCodeInvalidState, "dst has %d slots, want %d", len(dst), len(states)*len(s.perms))
	}
	for g := range s.perms {
		base := g * len(states)
		for b, src := range states {
			if len(src) != s.n {
				return errors.New(errors.ErrCodeInvalidState, "state %d has %d elements, generators act on %d", b, len(src), s.n)
			}
			out := dst[base+b]
			if len(out) != s.n {
				out = make(state.State, s.n)
				dst[base+b] = out
			}
			s.ApplyInto(g, src, out)
		}
	}
	return nil
}

// validatePermutation checks that p is a permutation of 0..n-1.
func validatePermutation(p []int, n int) error {
	if len(p) != n {
		return errors.New(errors.ErrCodeInvalidGenerator, "generator has length %d, want %d", len(p), n)
	}
	seen := make([]bool, n)
	for _, v := range p {
		if v < 0 || v >= n {
			return errors.New(errors.ErrCodeInvalidGenerator, "%v is not a permutation of length %d", p, n)
		}
		if seen[v] {
			return errors.New(errors.ErrCodeInvalidGenerator, "%v is not a permutation of length %d", p, n)
		}
		seen[v] = true
	}
	return nil
}

// inversePermutation returns q with q[p[i]] = i.
func inversePermutation(p []int) []int {
	q := make([]int, len(p))
	for i, v := range p {
		q[v] = i
	}
	return q
}

// imageString renders a perm as comma-joined images, the auto-name format.
func imageString(p []int) string {
	var b strings.Builder
	for i, v := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}
