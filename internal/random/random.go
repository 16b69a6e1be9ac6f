// Package random provides byte sources for the random instruction.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source produces independent uniformly distributed bytes.
type Source interface {
	Byte() uint8
}

// PCG is a Source backed by a seeded PCG generator.
type PCG struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Source seeded from the runtime's random seed.
func New() *PCG {
	return NewSeeded(rand.Uint64(), rand.Uint64())
}

// NewSeeded returns a reproducible Source for the given seed pair.
func NewSeeded(seed1, seed2 uint64) *PCG {
	return &PCG{
		rng: rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// Byte returns the next random byte.
func (p *PCG) Byte() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return uint8(p.rng.UintN(256))
}

// Sequence is a Source that cycles through a fixed list of bytes.
// It returns 0 when the list is empty.
type Sequence struct {
	values []uint8
	next   int
}

// NewSequence returns a Source that replays the given values in order.
func NewSequence(values ...uint8) *Sequence {
	return &Sequence{values: values}
}

// Byte returns the next value of the sequence.
func (s *Sequence) Byte() uint8 {
	if len(s.values) == 0 {
		return 0
	}
	b := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return b
}
