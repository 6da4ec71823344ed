package cfr

import (
	"math"
	"testing"

	"github.com/timpalpant/go-rebel/fog"
	"github.com/timpalpant/go-rebel/kuhn"
	"github.com/timpalpant/go-rebel/policy"
)

// The value of Kuhn Poker to the first player.
const kuhnGameValue = -1.0 / 18

func checkSimplex(t *testing.T, p *policy.TabularPolicy) {
	t.Helper()
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestKuhn_Exploitability_Uniform(t *testing.T) {
	tree := fog.NewTree(kuhn.New())
	for _, pol := range []fog.Policy{policy.Uniform{}, policy.NewTabular(tree)} {
		expl := Exploitability(tree, pol)
		if math.Abs(expl-0.4583333333) > 1e-6 {
			t.Errorf("expected exploitability %v, got %v", 0.4583333333, expl)
		}
	}

	if v := PolicyValue(tree, policy.Uniform{}); math.Abs(v-0.125) > 1e-9 {
		t.Errorf("expected uniform game value %v, got %v", 0.125, v)
	}
}

func TestKuhn_VanillaCFR(t *testing.T) {
	tree := fog.NewTree(kuhn.New())
	solver, err := New(tree, Params{})
	if err != nil {
		t.Fatal(err)
	}

	if solver.NumInfoStates() != 12 {
		t.Errorf("expected %d information states, got %d", 12, solver.NumInfoStates())
	}

	checkpoints := []int{10, 100, 1000}
	if !testing.Short() {
		checkpoints = append(checkpoints, 10000)
	}

	var exploitability []float64
	for _, n := range checkpoints {
		for solver.Iter() < n {
			solver.Iterate()
			checkSimplex(t, solver.CurrentPolicy())
		}

		avg := solver.AveragePolicy()
		checkSimplex(t, avg)
		expl := Exploitability(tree, avg)
		exploitability = append(exploitability, expl)
		t.Logf("[iter=%d] Exploitability: %.5f, Expected game value: %.4f",
			n, expl, solver.ExpectedValue())
	}

	first, last := exploitability[0], exploitability[len(exploitability)-1]
	if last >= first {
		t.Errorf("exploitability did not decrease: %v", exploitability)
	}

	if exploitability[2] > 0.05 {
		t.Errorf("exploitability after 1000 iterations is %v", exploitability[2])
	}

	if !testing.Short() && last > 0.01 {
		t.Errorf("exploitability after 10000 iterations is %v", last)
	}

	if ev := solver.ExpectedValue(); math.Abs(ev-kuhnGameValue) > 0.01 {
		t.Errorf("expected game value %.4f, got %.4f", kuhnGameValue, ev)
	}
}

func TestKuhn_TrainPolicy(t *testing.T) {
	testCases := []struct {
		name   string
		params Params
	}{
		{"Vanilla", Params{Iterations: 1000}},
		{"Alternating", Params{Iterations: 1000, AlternatingUpdates: true}},
		{"CFRPlus", Params{
			Iterations: 1000,
			Discount: DiscountParams{
				UseRegretMatchingPlus: true,
				LinearWeighting:       true,
			},
		}},
		{"DiscountedCFR", Params{
			Iterations: 1000,
			// From https://arxiv.org/pdf/1809.04040.pdf
			Discount: DiscountParams{
				DiscountAlpha: 1.5,
				DiscountBeta:  0.0,
				DiscountGamma: 2.0,
			},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tree := fog.NewTree(kuhn.New())
			solver, err := New(tree, tc.params)
			if err != nil {
				t.Fatal(err)
			}

			avg := solver.TrainPolicy()
			if solver.Iter() != tc.params.Iterations {
				t.Errorf("expected %d iterations, got %d", tc.params.Iterations, solver.Iter())
			}

			checkSimplex(t, avg)
			expl := Exploitability(tree, avg)
			t.Logf("Exploitability: %.5f", expl)
			if expl > 0.05 {
				t.Errorf("exploitability after %d iterations is %v", tc.params.Iterations, expl)
			}
		})
	}
}

func TestKuhn_InfoStateNodes(t *testing.T) {
	tree := fog.NewTree(kuhn.New())
	solver, err := New(tree, Params{Iterations: 100})
	if err != nil {
		t.Fatal(err)
	}

	solver.TrainPolicy()
	for _, h := range tree.AllHistories() {
		if !h.Player().IsPlayer() {
			continue
		}

		key := h.InfoState(int(h.Player())).Key()
		node, ok := solver.InfoStateNode(key)
		if !ok {
			t.Fatalf("no node for %v", h)
		}

		if node.Player() != int(h.Player()) || node.NumActions() != 2 {
			t.Errorf("unexpected node %+v for %v", node, h)
		}

		for _, m := range node.CumulativePolicy() {
			if m < 0 {
				t.Errorf("negative policy mass at %v: %v", key, node.CumulativePolicy())
			}
		}
	}
}

func TestKuhn_AlternatingDiscountOncePerIteration(t *testing.T) {
	discount := DiscountParams{DiscountAlpha: 1.5, DiscountBeta: 0.0, DiscountGamma: 2.0}
	tree := fog.NewTree(kuhn.New())
	simultaneous, err := New(tree, Params{Discount: discount})
	if err != nil {
		t.Fatal(err)
	}

	alternating, err := New(tree, Params{Discount: discount, AlternatingUpdates: true})
	if err != nil {
		t.Fatal(err)
	}

	simultaneous.Iterate()
	alternating.Iterate()

	// Player 0 is traversed first from the same uniform policy either way,
	// so their nodes must match after a single discount.
	for _, h := range tree.AllHistories() {
		if h.Player() != 0 {
			continue
		}

		key := h.InfoState(0).Key()
		want, _ := simultaneous.InfoStateNode(key)
		got, _ := alternating.InfoStateNode(key)
		for i := range want.CumulativeRegret() {
			if math.Abs(want.CumulativeRegret()[i]-got.CumulativeRegret()[i]) > 1e-12 {
				t.Errorf("regrets at %v: expected %v, got %v",
					key, want.CumulativeRegret(), got.CumulativeRegret())
			}

			if math.Abs(want.CumulativePolicy()[i]-got.CumulativePolicy()[i]) > 1e-12 {
				t.Errorf("policy mass at %v: expected %v, got %v",
					key, want.CumulativePolicy(), got.CumulativePolicy())
			}
		}
	}
}
