package descent

// Random supplies uniform values in [0,1]. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// Linear congruential generator parameters (the MSVC rand constants).
const (
	lcgA     = 214013
	lcgC     = 2531011
	lcgM     = 2147483648
	lcgRange = 32767
)

// PseudoRandom is a small deterministic generator, so that layouts started
// from the same seed are reproducible across platforms.
type PseudoRandom struct {
	seed int64
}

// NewPseudoRandom returns a generator starting from seed.
func NewPseudoRandom(seed int64) *PseudoRandom {
	return &PseudoRandom{seed: seed}
}

// Float64 returns the next value in [0,1].
func (p *PseudoRandom) Float64() float64 {
	p.seed = (p.seed*lcgA + lcgC) % lcgM
	if p.seed < 0 {
		p.seed += lcgM
	}
	return float64(p.seed>>16) / lcgRange
}

// Between returns the next value in [lo,hi].
func (p *PseudoRandom) Between(lo, hi float64) float64 {
	return lo + p.Float64()*(hi-lo)
}
