package engine

import "math/rand/v2"

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// SystemRNG delegates to math/rand/v2 (auto-seeded).
type SystemRNG struct{}

func (SystemRNG) Intn(n int) int { return rand.IntN(n) }

type seededRNG struct {
	r *rand.Rand
}

func (s *seededRNG) Intn(n int) int { return s.r.IntN(n) }

// NewSeededRNG returns a reproducible RNG. It is not safe for concurrent use;
// each wheel owns its own.
func NewSeededRNG(seed uint64) RNG {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Selector picks the winning sector.
type Selector struct {
	rng RNG
}

func NewSelector(rng RNG) *Selector {
	if rng == nil {
		rng = SystemRNG{}
	}
	return &Selector{rng: rng}
}

// Select draws a winning index uniformly from [0, n). A wheel with fewer than
// two entrants cannot be spun.
func (s *Selector) Select(n int) (int, error) {
	if n < 2 {
		return 0, ErrInsufficientEntrants
	}
	return s.rng.Intn(n), nil
}
