package game

import (
	"math/rand/v2"
	"sync"
)

// Rand is the source for the rarity draw. Float64 returns a value in [0, 1).
type Rand interface {
	Float64() float64
}

type mathRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRand returns a Rand seeded from seed. A zero seed draws from the
// runtime's random source.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		return &mathRand{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return &mathRand{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *mathRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// SequenceRand replays a fixed list of values, cycling when exhausted.
// An empty sequence always returns 0.99 (never rare at the default chance).
type SequenceRand struct {
	mu     sync.Mutex
	values []float64
	next   int
}

func NewSequenceRand(values ...float64) *SequenceRand {
	return &SequenceRand{values: values}
}

func (r *SequenceRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0.99
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}
