package cfr

import (
	"testing"
)

func TestUtilitySlicePool(t *testing.T) {
	pool := &utilitySlicePool{}
	v := pool.alloc(3)
	v[1] = utility{1, -1}
	pool.free(v)

	w := pool.alloc(4)
	if len(w) != 4 {
		t.Errorf("expected length %d, got %d", 4, len(w))
	}

	for i, u := range w {
		if u != (utility{}) {
			t.Errorf("expected zeroed slice, got %v at %d", u, i)
		}
	}
}

func BenchmarkAllocFree(b *testing.B) {
	pool := &utilitySlicePool{}
	for i := 0; i < b.N; i++ {
		v := pool.alloc(10)
		pool.free(v)
	}
}
