package cfr

import (
	"math"
	"testing"
)

func TestGetDiscountFactors(t *testing.T) {
	testCases := []struct {
		params                  DiscountParams
		iter                    int
		positive, negative, sum float64
	}{
		{DiscountParams{}, 10, 1, 1, 1},
		{DiscountParams{UseRegretMatchingPlus: true}, 10, 1, 0, 1},
		{DiscountParams{LinearWeighting: true}, 3, 1, 1, 0.75},
		{DiscountParams{DiscountAlpha: 1.5, DiscountBeta: 0, DiscountGamma: 2}, 4, 8.0 / 9, 1, 0.64},
	}

	for _, tc := range testCases {
		positive, negative, sum := tc.params.GetDiscountFactors(tc.iter)
		if math.Abs(positive-tc.positive) > 1e-9 ||
			math.Abs(negative-tc.negative) > 1e-9 ||
			math.Abs(sum-tc.sum) > 1e-9 {
			t.Errorf("%+v at iter %d: expected (%v, %v, %v), got (%v, %v, %v)",
				tc.params, tc.iter, tc.positive, tc.negative, tc.sum,
				positive, negative, sum)
		}
	}
}

func TestParams_Validate(t *testing.T) {
	if err := (Params{}).Validate(); err != nil {
		t.Errorf("empty params should be valid: %v", err)
	}

	if err := (Params{Iterations: -1}).Validate(); err == nil {
		t.Error("expected error for negative iterations")
	}

	if err := (DepthLimitedParams{}).Validate(); err == nil {
		t.Error("expected error for zero max depth")
	}

	if err := (DepthLimitedParams{MaxDepth: 2}).Validate(); err != nil {
		t.Errorf("expected valid params: %v", err)
	}
}
