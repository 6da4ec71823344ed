package policy

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/timpalpant/go-rebel/fog"
	"github.com/timpalpant/go-rebel/kuhn"
)

func TestNewTabular_Kuhn(t *testing.T) {
	tree := fog.NewTree(kuhn.New())
	p := NewTabular(tree)
	if p.Len() != 12 {
		t.Errorf("expected %d rows, got %d", 12, p.Len())
	}

	// Player 0's rows are registered first.
	for i := 0; i < p.Len(); i++ {
		expected := 0
		if i >= 6 {
			expected = 1
		}

		if p.Player(i) != expected {
			t.Errorf("row %d (%s): expected player %d, got %d", i, p.Key(i), expected, p.Player(i))
		}

		row := p.RowAt(i)
		if len(row) != 2 || row[0] != 0.5 || row[1] != 0.5 {
			t.Errorf("row %d: expected uniform, got %v", i, row)
		}
	}

	if err := p.Validate(); err != nil {
		t.Error(err)
	}
}

func TestTabularPolicy_LookupMiss(t *testing.T) {
	tree := fog.NewTree(kuhn.New())
	p := NewTabular(tree)

	_, err := p.Row("not an information state")
	if errors.Cause(err) != ErrUnknownInfoState {
		t.Errorf("expected ErrUnknownInfoState, got %v", err)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for history without a row")
		}
	}()

	root, err := tree.InitialPBS()
	if err != nil {
		t.Fatal(err)
	}

	sub, err := NewSubgame(tree, root, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Player 1's histories are leaves of the depth 1 subgame.
	h := root.History(0)
	leaf := tree.Child(h, h.LegalActions()[0])
	sub.Policy(leaf)
}

func TestTabularPolicy_ActionProbability(t *testing.T) {
	tree := fog.NewTree(kuhn.New())
	p := NewTabular(tree)

	h := tree.Child(tree.Root(), tree.Root().LegalActions()[0])
	i, ok := p.Index(h.InfoState(0).Key())
	if !ok {
		t.Fatalf("no row for %v", h)
	}

	p.SetRow(i, []float64{0.25, 0.75})
	legal := h.LegalActions()
	if prob := p.ActionProbability(h, legal[1]); prob != 0.75 {
		t.Errorf("expected %v, got %v", 0.75, prob)
	}

	if prob := p.ActionProbability(tree.Root(), tree.Root().LegalActions()[3]); prob != 1.0/6 {
		t.Errorf("expected chance probability %v, got %v", 1.0/6, prob)
	}

	if prob := (Uniform{}).ActionProbability(h, legal[1]); prob != 0.5 {
		t.Errorf("expected %v, got %v", 0.5, prob)
	}
}

func TestNewSubgame_Leaves(t *testing.T) {
	tree := fog.NewTree(kuhn.New())
	root, err := tree.InitialPBS()
	if err != nil {
		t.Fatal(err)
	}

	sub, err := NewSubgame(tree, root, 1)
	if err != nil {
		t.Fatal(err)
	}

	if sub.Len() != 3 {
		t.Errorf("expected %d rows, got %d", 3, sub.Len())
	}

	if sub.NumLeaves() != 12 {
		t.Errorf("expected %d leaves, got %d", 12, sub.NumLeaves())
	}

	for _, h := range root.Histories() {
		if sub.IsLeaf(h) {
			t.Errorf("root history %v tagged as leaf", h)
		}

		if d, ok := sub.Depth(h); !ok || d != 0 {
			t.Errorf("expected depth 0 for %v, got %d", h, d)
		}

		for _, c := range tree.Children(h) {
			if !sub.IsLeaf(c) {
				t.Errorf("expected %v to be a leaf", c)
			}
		}
	}

	deeper, err := NewSubgame(tree, root, 3)
	if err != nil {
		t.Fatal(err)
	}

	// Every information state is reachable within 3 actions of the deal.
	if deeper.Len() != 12 {
		t.Errorf("expected %d rows, got %d", 12, deeper.Len())
	}

	if deeper.NumLeaves() != 0 {
		t.Errorf("expected no leaves, got %d", deeper.NumLeaves())
	}

	if _, err := NewSubgame(tree, root, 0); err == nil {
		t.Error("expected error for max depth 0")
	}
}

func TestTabularPolicy_CloneAndUpdate(t *testing.T) {
	tree := fog.NewTree(kuhn.New())
	full := NewTabular(tree)
	clone := full.Clone()
	clone.SetRow(0, []float64{1, 0})
	if full.RowAt(0)[0] != 0.5 {
		t.Errorf("clone shares probabilities with original: %v", full.RowAt(0))
	}

	root, err := tree.InitialPBS()
	if err != nil {
		t.Fatal(err)
	}

	sub, err := NewSubgame(tree, root, 1)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < sub.Len(); i++ {
		sub.SetRow(i, []float64{0.1, 0.9})
	}

	if n := full.Update(sub); n != 3 {
		t.Errorf("expected %d rows updated, got %d", 3, n)
	}

	for i := 0; i < sub.Len(); i++ {
		row, err := full.Row(sub.Key(i))
		if err != nil {
			t.Fatal(err)
		}

		if row[1] != 0.9 {
			t.Errorf("expected updated row, got %v", row)
		}
	}
}
