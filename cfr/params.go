package cfr

import (
	"math"

	"github.com/pkg/errors"
)

// DiscountParams configure how accumulated regrets and policy mass are
// reweighted between iterations. The zero value is vanilla CFR.
type DiscountParams struct {
	UseRegretMatchingPlus bool    // CFR+
	LinearWeighting       bool    // Linear CFR
	DiscountAlpha         float64 // Discounted CFR
	DiscountBeta          float64 // Discounted CFR
	DiscountGamma         float64 // Discounted CFR
}

// GetDiscountFactors returns the factors applied to positive regrets,
// negative regrets and cumulative policy mass after iteration iter (1-based).
func (p DiscountParams) GetDiscountFactors(iter int) (positive, negative, sum float64) {
	positive = 1.0
	negative = 1.0
	sum = 1.0

	// See: https://arxiv.org/pdf/1809.04040.pdf
	// Linear CFR is equivalent to weighting the reach prob on each
	// iteration by (t / (t+1)), and this reduces numerical instability.
	if p.LinearWeighting {
		sum = float64(iter) / float64(iter+1)
	}

	if p.UseRegretMatchingPlus {
		negative = 0.0 // No negative regrets.
	}

	if p.DiscountAlpha != 0 {
		// t^alpha / (t^alpha + 1)
		x := math.Pow(float64(iter), p.DiscountAlpha)
		positive = x / (x + 1.0)
	}

	if p.DiscountBeta != 0 {
		// t^beta / (t^beta + 1)
		x := math.Pow(float64(iter), p.DiscountBeta)
		negative = x / (x + 1.0)
	}

	if p.DiscountGamma != 0 {
		// (t / (t+1)) ^ gamma
		x := float64(iter) / float64(iter+1)
		sum = math.Pow(x, p.DiscountGamma)
	}

	return
}

func (p DiscountParams) isVanilla() bool {
	return p == DiscountParams{}
}

// Params configure a CFR solver. An empty Params struct is valid; it
// runs no iterations from TrainPolicy.
type Params struct {
	Iterations int
	// Update the current policy after each player's traversal instead of
	// after both.
	AlternatingUpdates bool
	Discount           DiscountParams
}

func (p Params) Validate() error {
	if p.Iterations < 0 {
		return errors.Errorf("iterations must be non-negative, got %d", p.Iterations)
	}

	if p.Discount.DiscountGamma < 0 {
		return errors.Errorf("discount gamma must be non-negative, got %v", p.Discount.DiscountGamma)
	}

	return nil
}

// DepthLimitedParams configure a depth-limited subgame solver.
type DepthLimitedParams struct {
	Params
	// Number of actions below the root PBS after which Histories are
	// leaves valued by the value function.
	MaxDepth int
	// Maximum number of concurrent value function calls when setting
	// leaf values. Values <= 1 evaluate leaves serially.
	LeafParallelism int
	// Seed for SamplePBS.
	Seed int64
}

func (p DepthLimitedParams) Validate() error {
	if err := p.Params.Validate(); err != nil {
		return err
	}

	if p.MaxDepth < 1 {
		return errors.Errorf("max depth must be positive, got %d", p.MaxDepth)
	}

	return nil
}
