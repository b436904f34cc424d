// Package rnd provides the seedable random source injected into every
// stochastic system so simulation runs are reproducible.
package rnd

import (
	exprand "golang.org/x/exp/rand"
)

// Source is the minimal random surface most systems need. Tests substitute
// scripted implementations to force specific rolls.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Rand wraps an x/exp/rand generator and keeps its underlying source so
// gonum samplers can share the same stream.
type Rand struct {
	*exprand.Rand
	src exprand.Source
}

// New creates a seeded generator.
func New(seed uint64) *Rand {
	src := exprand.NewSource(seed)
	return &Rand{Rand: exprand.New(src), src: src}
}

// Src exposes the underlying source for gonum's distuv/sampleuv types.
func (r *Rand) Src() exprand.Source { return r.src }

// Between returns a uniform float64 in [lo, hi).
func (r *Rand) Between(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
