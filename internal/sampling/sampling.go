package sampling

import (
	"math/rand"
)

const eps = 1e-6

// SampleOne returns an index drawn from the distribution pv.
func SampleOne(rng *rand.Rand, pv []float64) int {
	x := rng.Float64()
	var cumProb float64
	for i, p := range pv {
		cumProb += p
		if cumProb > x {
			return i
		}
	}

	if cumProb < 1.0-eps { // Leave room for floating point error.
		panic("probability distribution does not sum to 1!")
	}

	// Return the last index with positive probability.
	for i := len(pv) - 1; i >= 0; i-- {
		if pv[i] > 0 {
			return i
		}
	}

	return len(pv) - 1
}
