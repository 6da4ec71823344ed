package cfr

import (
	"math/rand"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/timpalpant/go-rebel/fog"
	"github.com/timpalpant/go-rebel/internal/sampling"
	"github.com/timpalpant/go-rebel/policy"
	"github.com/timpalpant/go-rebel/value"
)

// leafValues are the values of the Histories of one leaf PBS, in the
// order of its support.
type leafValues struct {
	pbs    *fog.PublicBeliefState
	values []float64
}

// DepthLimitedCFR solves the subgame rooted at a public belief state,
// down to MaxDepth actions. Histories at the depth bound are valued by a
// value function instead of being expanded.
type DepthLimitedCFR struct {
	solver
	root    *fog.PublicBeliefState
	valueFn value.Function
	params  DepthLimitedParams
	rng     *rand.Rand

	leaves map[string]*leafValues
}

// NewDepthLimited returns a solver for the subgame rooted at root.
func NewDepthLimited(tree *fog.Tree, root *fog.PublicBeliefState, valueFn value.Function,
	params DepthLimitedParams) (*DepthLimitedCFR, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if _, err := tree.Encode(root); err != nil {
		return nil, err
	}

	current, err := policy.NewSubgame(tree, root, params.MaxDepth)
	if err != nil {
		return nil, err
	}

	d := &DepthLimitedCFR{
		solver:  newSolver(tree, params.Params, current),
		root:    root,
		valueFn: valueFn,
		params:  params,
		rng:     rand.New(rand.NewSource(params.Seed)),
	}

	d.leafValue = d.getLeafValue
	for _, h := range root.Histories() {
		d.initializeNodes(h)
	}

	glog.V(1).Infof("Initialized depth-limited CFR at %v: %d information states, %d leaves",
		root.PublicState(), d.NumInfoStates(), current.NumLeaves())
	return d, nil
}

// Root returns the public belief state at the root of the subgame.
func (d *DepthLimitedCFR) Root() *fog.PublicBeliefState { return d.root }

// SetLeafValues walks the public belief states of the subgame under the
// current policy and queries the value function once per leaf PBS.
func (d *DepthLimitedCFR) SetLeafValues() error {
	var leaves []*fog.PublicBeliefState
	d.collectLeaves(d.root, &leaves)

	encodings := make([][]float64, len(leaves))
	for i, pbs := range leaves {
		enc, err := d.tree.Encode(pbs)
		if err != nil {
			return err
		}

		encodings[i] = enc
	}

	values, err := d.evaluateLeaves(encodings)
	if err != nil {
		return err
	}

	result := make(map[string]*leafValues, len(leaves))
	for i, pbs := range leaves {
		if len(values[i]) != pbs.Len() {
			return errors.Errorf("value function returned %d values for %d histories at %v",
				len(values[i]), pbs.Len(), pbs.PublicState())
		}

		key := pbs.PublicState().Key()
		if _, ok := result[key]; ok {
			return errors.Wrapf(fog.ErrInconsistentPBS, "two leaf belief states share public state %v", key)
		}

		result[key] = &leafValues{pbs: pbs, values: values[i]}
	}

	d.leaves = result
	leafEvaluations.Add(int64(len(leaves)))
	glog.V(3).Infof("Set values for %d leaf belief states", len(leaves))
	return nil
}

func (d *DepthLimitedCFR) collectLeaves(pbs *fog.PublicBeliefState, leaves *[]*fog.PublicBeliefState) {
	if pbs.IsTerminal() {
		return
	}

	if d.current.IsLeaf(pbs.History(0)) {
		*leaves = append(*leaves, pbs)
		return
	}

	for _, a := range pbs.LegalActions() {
		d.collectLeaves(d.tree.ChildPBS(pbs, a, d.current), leaves)
	}
}

// evaluateLeaves calls the value function for each encoding. Each result
// is written to its own slot, so the outcome does not depend on the
// order in which calls complete.
func (d *DepthLimitedCFR) evaluateLeaves(encodings [][]float64) ([][]float64, error) {
	values := make([][]float64, len(encodings))
	if d.params.LeafParallelism <= 1 {
		for i, enc := range encodings {
			v, err := d.valueFn.Value(enc)
			if err != nil {
				return nil, errors.Wrap(err, "evaluate leaf")
			}

			values[i] = v
		}

		return values, nil
	}

	var g errgroup.Group
	g.SetLimit(d.params.LeafParallelism)
	for i, enc := range encodings {
		i, enc := i, enc
		g.Go(func() error {
			v, err := d.valueFn.Value(enc)
			if err != nil {
				return errors.Wrap(err, "evaluate leaf")
			}

			values[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return values, nil
}

func (d *DepthLimitedCFR) getLeafValue(h *fog.History) float64 {
	leaf, ok := d.leaves[h.PublicState().Key()]
	if !ok {
		panic(errors.Wrapf(fog.ErrUnknownHistory, "no leaf values for public state %v", h.PublicState()))
	}

	i, ok := leaf.pbs.Index(h)
	if !ok {
		panic(errors.Wrapf(fog.ErrUnknownHistory, "%v not in leaf belief state %v", h, leaf.pbs))
	}

	return leaf.values[i]
}

// Iterate sets leaf values under the current policy and runs a single
// iteration of CFR from every History of the root belief state.
func (d *DepthLimitedCFR) Iterate() error {
	if err := d.SetLeafValues(); err != nil {
		return err
	}

	d.iterate(d.root.Histories(), d.root.Probs())
	return nil
}

// TrainPolicy runs Params.Iterations iterations and returns the average policy.
func (d *DepthLimitedCFR) TrainPolicy() (*policy.TabularPolicy, error) {
	for i := 0; i < d.params.Iterations; i++ {
		if err := d.Iterate(); err != nil {
			return nil, err
		}

		if glog.V(2) && d.iter%100 == 0 {
			glog.Infof("[iter=%d] Subgame %v", d.iter, d.root.PublicState())
		}
	}

	return d.AveragePolicy(), nil
}

// TrainingData returns the encoding of the root belief state and the value
// to player 0 of each History in its support under the average policy.
func (d *DepthLimitedCFR) TrainingData() (value.Example, error) {
	if d.leaves == nil {
		if err := d.SetLeafValues(); err != nil {
			return value.Example{}, err
		}
	}

	encoding, err := d.tree.Encode(d.root)
	if err != nil {
		return value.Example{}, err
	}

	avg := d.updateAveragePolicy()
	labels := make([]float64, d.root.Len())
	for i, h := range d.root.Histories() {
		labels[i] = d.evaluate(h, avg)[0]
	}

	return value.Example{Encoding: encoding, Values: labels}, nil
}

// SamplePBS returns the root belief state of a next subgame. A History is
// drawn from the root belief and played forward to a leaf or terminal
// History: one randomly chosen player explores uniformly, chance follows
// its distribution and the other player follows the average policy. The
// actions taken are then applied to the root belief state.
func (d *DepthLimitedCFR) SamplePBS() *fog.PublicBeliefState {
	avg := d.updateAveragePolicy()
	h := d.root.History(sampling.SampleOne(d.rng, d.root.Probs()))
	explorer := fog.Role(d.rng.Intn(fog.NumPlayers))

	var actions []fog.Action
	for !h.IsTerminal() && !d.current.IsLeaf(h) {
		legal := h.LegalActions()
		var a fog.Action
		switch {
		case h.IsChance():
			outcomes, probs := h.ChanceOutcomes()
			a = outcomes[sampling.SampleOne(d.rng, probs)]
		case h.Player() == explorer:
			a = legal[d.rng.Intn(len(legal))]
		default:
			a = legal[sampling.SampleOne(d.rng, avg.Policy(h))]
		}

		actions = append(actions, a)
		h = d.tree.Child(h, a)
	}

	pbs := d.root
	for _, a := range actions {
		pbs = d.tree.ChildPBS(pbs, a, avg)
	}

	glog.V(2).Infof("Sampled %v after %v", pbs.PublicState(), actions)
	return pbs
}
