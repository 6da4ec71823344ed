package cfr

import (
	"github.com/golang/glog"

	"github.com/timpalpant/go-rebel/fog"
	"github.com/timpalpant/go-rebel/policy"
)

// CFR is vanilla counterfactual regret minimization over a full finite
// game tree.
type CFR struct {
	solver
	root *fog.History
}

// New returns a solver for the game of tree, starting from a uniform policy.
func New(tree *fog.Tree, params Params) (*CFR, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	current := policy.NewTabular(tree)
	c := &CFR{
		solver: newSolver(tree, params, current),
		root:   tree.Root(),
	}

	c.initializeNodes(c.root)
	glog.V(1).Infof("Initialized CFR for %s: %d histories, %d information states",
		tree.Game().Name(), tree.Len(), c.NumInfoStates())
	return c, nil
}

// Iterate runs a single iteration of CFR.
func (c *CFR) Iterate() {
	c.iterate([]*fog.History{c.root}, []float64{1.0})
}

// TrainPolicy runs Params.Iterations iterations and returns the average policy.
func (c *CFR) TrainPolicy() *policy.TabularPolicy {
	for i := 0; i < c.params.Iterations; i++ {
		c.Iterate()
		if glog.V(1) && c.iter%1000 == 0 {
			glog.Infof("[iter=%d] Expected game value: %.4f", c.iter, c.ExpectedValue())
		}
	}

	return c.AveragePolicy()
}

// ExpectedValue returns the value of the game to player 0 under the
// average policy.
func (c *CFR) ExpectedValue() float64 {
	return c.evaluate(c.root, c.updateAveragePolicy())[0]
}
