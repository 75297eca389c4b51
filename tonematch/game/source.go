package game

import "math/rand/v2"

// Source draws uniformly distributed integers in [0, n).
type Source interface {
	Draw(n int) int
}

// RandSource is a seeded PCG generator.
type RandSource struct {
	r *rand.Rand
}

// NewRandSource creates a generator. Equal seeds give equal round sequences.
func NewRandSource(seed uint64) *RandSource {
	return &RandSource{r: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

// Draw returns a value in [0, n).
func (s *RandSource) Draw(n int) int {
	return s.r.IntN(n)
}
