package cubefield

import (
	"math/rand/v2"
	"time"
)

// Random is the source of every randomized decision: positions, axes,
// directions, speeds and colors.
type Random interface {
	// UniformInt returns an integer in [min, max], both inclusive.
	UniformInt(min, max int) int
	UniformBool() bool
}

type pcgRandom struct {
	r *rand.Rand
}

// NewRandom returns a PCG backed Random. Seed 0 picks a time based seed.
func NewRandom(seed uint64) Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &pcgRandom{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *pcgRandom) UniformInt(min, max int) int {
	if max <= min {
		return min
	}
	return min + p.r.IntN(max-min+1)
}

func (p *pcgRandom) UniformBool() bool {
	return p.r.IntN(2) == 1
}
