package sampling

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampleOne(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pv := []float64{0.2, 0.0, 0.5, 0.3}
	counts := make([]int, len(pv))
	n := 100000
	for i := 0; i < n; i++ {
		counts[SampleOne(rng, pv)]++
	}

	for i, p := range pv {
		freq := float64(counts[i]) / float64(n)
		if math.Abs(freq-p) > 0.01 {
			t.Errorf("index %d: expected frequency %v, got %v", i, p, freq)
		}
	}

	if counts[1] != 0 {
		t.Errorf("sampled zero probability index %d times", counts[1])
	}
}
