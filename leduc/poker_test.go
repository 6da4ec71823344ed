package leduc

import (
	"math"
	"testing"

	"github.com/timpalpant/go-rebel/cfr"
	"github.com/timpalpant/go-rebel/fog"
	"github.com/timpalpant/go-rebel/policy"
)

func walk(t *testing.T, tree *fog.Tree, actions ...string) *fog.History {
	t.Helper()
	h := tree.Root()
	for _, s := range actions {
		var next *fog.History
		for _, a := range h.LegalActions() {
			if a.String() == s {
				next = tree.Child(h, a)
				break
			}
		}

		if next == nil {
			t.Fatalf("no action %q at %v", s, h)
		}

		h = next
	}

	return h
}

func TestChanceOutcomes(t *testing.T) {
	tree := fog.NewTree(New())
	for _, h := range tree.AllHistories() {
		if !h.IsChance() {
			continue
		}

		actions, probs := h.ChanceOutcomes()
		if len(actions) != len(probs) {
			t.Fatalf("%d outcomes with %d probabilities at %v", len(actions), len(probs), h)
		}

		total := 0.0
		for _, p := range probs {
			total += p
		}

		if math.Abs(total-1) > 1e-9 {
			t.Errorf("chance probabilities sum to %v at %v", total, h)
		}
	}

	// A pair is half as likely as two different cards.
	deals, probs := tree.Root().ChanceOutcomes()
	if len(deals) != 9 {
		t.Fatalf("expected %d deals, got %d", 9, len(deals))
	}

	for i, a := range deals {
		d := a.(Action).deal
		expected := 2.0 / 15
		if d[0] == d[1] {
			expected = 1.0 / 15
		}

		if math.Abs(probs[i]-expected) > 1e-9 {
			t.Errorf("expected probability %v for %v, got %v", expected, a, probs[i])
		}
	}

	// No third king after both players hold one.
	h := walk(t, tree, "K, K", "pass", "pass")
	if !h.IsChance() {
		t.Fatalf("expected public deal at %v", h)
	}

	_, probs = h.ChanceOutcomes()
	if probs[King] != 0 {
		t.Errorf("expected zero probability for a third king, got %v", probs)
	}
}

func TestReturns(t *testing.T) {
	tree := fog.NewTree(New())
	testCases := []struct {
		actions []string
		want    float64
	}{
		{[]string{"K, Q", "bet", "pass"}, 1},
		{[]string{"K, Q", "pass", "bet", "pass"}, -1},
		{[]string{"K, Q", "bet", "bet", "J", "pass", "pass"}, 2},
		{[]string{"K, Q", "bet", "bet", "Q", "pass", "pass"}, -2},
		{[]string{"K, Q", "bet", "bet", "J", "bet", "bet"}, 4},
		{[]string{"K, Q", "pass", "pass", "Q", "bet", "pass"}, 1},
		{[]string{"J, J", "pass", "pass", "Q", "pass", "pass"}, 0},
	}

	for _, tc := range testCases {
		h := walk(t, tree, tc.actions...)
		if !h.IsTerminal() {
			t.Errorf("%v is not terminal", tc.actions)
			continue
		}

		if h.Return() != tc.want {
			t.Errorf("%v: expected return %v, got %v", tc.actions, tc.want, h.Return())
		}
	}
}

func TestPublicState(t *testing.T) {
	tree := fog.NewTree(New())
	h1 := walk(t, tree, "K, Q", "bet", "bet", "J")
	h2 := walk(t, tree, "Q, J", "bet", "bet", "J")
	if !h1.PublicState().Equal(h2.PublicState()) {
		t.Errorf("expected equal public states: %v, %v", h1.PublicState(), h2.PublicState())
	}

	if h1.InfoState(1).Equal(h2.InfoState(1)) {
		t.Errorf("player 1 holds different cards: %v", h1.InfoState(1))
	}

	if h := walk(t, tree, "K, Q", "bet", "bet"); h.State().(State).Round() != 1 {
		t.Errorf("expected second round at public deal %v", h)
	}
}

func TestEncodePBS(t *testing.T) {
	tree := fog.NewTree(New())
	root, err := tree.InitialPBS()
	if err != nil {
		t.Fatal(err)
	}

	if root.Len() != 9 {
		t.Fatalf("expected %d histories, got %d", 9, root.Len())
	}

	enc, err := tree.Encode(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(enc) != 5+9 {
		t.Fatalf("expected encoding of length %d, got %d", 14, len(enc))
	}

	if enc[1] != 1 || enc[2] != 1 || enc[3] != float64(noCard) || enc[4] != 0 {
		t.Errorf("unexpected encoding: %v", enc)
	}
}

func TestCFR(t *testing.T) {
	tree := fog.NewTree(New())
	uniform := cfr.Exploitability(tree, policy.Uniform{})

	solver, err := cfr.New(tree, cfr.Params{Iterations: 100})
	if err != nil {
		t.Fatal(err)
	}

	avg := solver.TrainPolicy()
	expl := cfr.Exploitability(tree, avg)
	t.Logf("Exploitability: uniform %.4f, after %d iterations %.4f", uniform, solver.Iter(), expl)
	if expl > uniform/2 {
		t.Errorf("exploitability %v is not much better than uniform %v", expl, uniform)
	}
}
