package f64

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	x := []float64{1, 3, 0, 4}
	total := Normalize(x)
	if total != 8 {
		t.Errorf("expected sum %v, got %v", 8, total)
	}

	expected := []float64{0.125, 0.375, 0, 0.5}
	for i := range x {
		if x[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, x)
		}
	}
}

func TestNormalize_Zero(t *testing.T) {
	x := []float64{0, 0, 0, 0}
	Normalize(x)
	for _, v := range x {
		if v != 0.25 {
			t.Errorf("expected uniform distribution, got %v", x)
		}
	}
}

func TestPositivePartTo(t *testing.T) {
	x := []float64{-1, 2, 0, -0.5, 3}
	dst := make([]float64, len(x))
	PositivePartTo(dst, x)
	expected := []float64{0, 2, 0, 0, 3}
	for i := range dst {
		if dst[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, dst)
		}
	}
}
