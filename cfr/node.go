package cfr

import (
	"github.com/timpalpant/go-rebel/fog"
	"github.com/timpalpant/go-rebel/internal/f64"
)

// InfoStateNode accumulates the regrets and reach-weighted policy mass of
// one information state across iterations.
type InfoStateNode struct {
	key          string
	player       int
	legalActions []fog.Action
	index        int

	cumulativeRegret []float64
	cumulativePolicy []float64
}

func newInfoStateNode(key string, player int, legalActions []fog.Action, index int) *InfoStateNode {
	return &InfoStateNode{
		key:              key,
		player:           player,
		legalActions:     legalActions,
		index:            index,
		cumulativeRegret: make([]float64, len(legalActions)),
		cumulativePolicy: make([]float64, len(legalActions)),
	}
}

func (n *InfoStateNode) Key() string                { return n.key }
func (n *InfoStateNode) Player() int                { return n.player }
func (n *InfoStateNode) LegalActions() []fog.Action { return n.legalActions }
func (n *InfoStateNode) NumActions() int            { return len(n.legalActions) }

// Index is the row of this information state in the solver's policies.
func (n *InfoStateNode) Index() int { return n.index }

// CumulativeRegret returns the accumulated regret of each action.
// The slice must not be modified.
func (n *InfoStateNode) CumulativeRegret() []float64 { return n.cumulativeRegret }

// CumulativePolicy returns the accumulated reach-weighted policy mass of
// each action. The slice must not be modified.
func (n *InfoStateNode) CumulativePolicy() []float64 { return n.cumulativePolicy }

// RegretMatching writes the next current policy into dst: proportional
// to positive regret, or uniform if no action has positive regret.
func (n *InfoStateNode) RegretMatching(dst []float64) {
	f64.PositivePartTo(dst, n.cumulativeRegret)
	f64.Normalize(dst)
}

// AveragePolicy writes the normalized cumulative policy into dst, or the
// uniform distribution if the node was never reached.
func (n *InfoStateNode) AveragePolicy(dst []float64) {
	copy(dst, n.cumulativePolicy)
	f64.Normalize(dst)
}

func (n *InfoStateNode) discount(positive, negative, sum float64) {
	if sum != 1.0 {
		f64.ScalUnitary(sum, n.cumulativePolicy)
	}

	if positive != 1.0 {
		for i, x := range n.cumulativeRegret {
			if x > 0 {
				n.cumulativeRegret[i] *= positive
			}
		}
	}

	if negative != 1.0 {
		for i, x := range n.cumulativeRegret {
			if x < 0 {
				n.cumulativeRegret[i] *= negative
			}
		}
	}
}
