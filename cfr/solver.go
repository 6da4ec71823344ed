// Package cfr implements counterfactual regret minimization over fog game
// trees: vanilla CFR on the full game, and depth-limited CFR on subgames
// rooted at a public belief state with leaf values supplied by a value
// function.
package cfr

import (
	"expvar"
	"fmt"

	"github.com/pkg/errors"

	"github.com/timpalpant/go-rebel/fog"
	"github.com/timpalpant/go-rebel/policy"
)

var (
	nodesVisited    = expvar.NewInt("cfr_nodes_visited")
	leafEvaluations = expvar.NewInt("cfr_leaf_evaluations")
)

// reachProbs holds the reach probability of each player, followed by chance.
type reachProbs [fog.NumPlayers + 1]float64

const chanceIdx = fog.NumPlayers

func newReachProbs(chance float64) reachProbs {
	var r reachProbs
	for i := range r {
		r[i] = 1.0
	}
	r[chanceIdx] = chance
	return r
}

// counterfactual returns the product of every reach probability except
// that of player.
func (r reachProbs) counterfactual(player int) float64 {
	result := 1.0
	for i, x := range r {
		if i != player {
			result *= x
		}
	}
	return result
}

func (r reachProbs) playersUnreachable() bool {
	for _, x := range r[:chanceIdx] {
		if x != 0 {
			return false
		}
	}
	return true
}

// utility is the value of a History to each player.
type utility [fog.NumPlayers]float64

func zeroSum(u float64) utility {
	return utility{u, -u}
}

// solver is the regret accumulation shared by the vanilla and
// depth-limited variants.
type solver struct {
	tree    *fog.Tree
	params  Params
	iter    int
	current *policy.TabularPolicy
	average *policy.TabularPolicy

	nodes map[string]*InfoStateNode
	order []*InfoStateNode

	// Value of a leaf History to player 0. Only called if current has leaves.
	leafValue func(h *fog.History) float64

	pool    *utilitySlicePool
	visited int64
}

func newSolver(tree *fog.Tree, params Params, current *policy.TabularPolicy) solver {
	return solver{
		tree:    tree,
		params:  params,
		current: current,
		average: current.Clone(),
		nodes:   make(map[string]*InfoStateNode),
		pool:    &utilitySlicePool{},
	}
}

func (s *solver) initializeNodes(h *fog.History) {
	if h.IsTerminal() || s.current.IsLeaf(h) {
		return
	}

	if !h.IsChance() {
		s.getNode(h, true)
	}

	for _, child := range s.tree.Children(h) {
		s.initializeNodes(child)
	}
}

func (s *solver) getNode(h *fog.History, create bool) *InfoStateNode {
	player := int(h.Player())
	key := h.InfoState(player).Key()
	if node, ok := s.nodes[key]; ok {
		if node.NumActions() != len(h.LegalActions()) {
			panic(fmt.Errorf("node has n_actions=%v but history has n_actions=%v: %v",
				node.NumActions(), len(h.LegalActions()), h))
		}

		return node
	}

	if !create {
		panic(errors.Wrapf(policy.ErrUnknownInfoState, "no node for %q at %v", key, h))
	}

	index, ok := s.current.Index(key)
	if !ok {
		panic(errors.Wrapf(policy.ErrUnknownInfoState, "no policy row for %q at %v", key, h))
	}

	node := newInfoStateNode(key, player, h.LegalActions(), index)
	s.nodes[key] = node
	s.order = append(s.order, node)
	return node
}

// iterate runs one CFR iteration from the given roots, each seeded with
// its chance reach probability.
func (s *solver) iterate(roots []*fog.History, chance []float64) {
	for player := 0; player < fog.NumPlayers; player++ {
		for i, h := range roots {
			s.computeRegret(h, newReachProbs(chance[i]), player)
		}

		if s.params.AlternatingUpdates {
			s.updateCurrentPolicy(player)
		}
	}

	if !s.params.AlternatingUpdates {
		s.updateCurrentPolicy(allPlayers)
	}

	s.iter++
	nodesVisited.Add(s.visited)
	s.visited = 0
}

// computeRegret returns the value of h under the current policy and
// accumulates regrets and policy mass for player's information states.
func (s *solver) computeRegret(h *fog.History, reach reachProbs, player int) utility {
	s.visited++
	if h.IsTerminal() {
		return zeroSum(h.Return())
	}

	if s.current.IsLeaf(h) {
		return zeroSum(s.leafValue(h))
	}

	if h.IsChance() {
		var value utility
		actions, probs := h.ChanceOutcomes()
		for i, a := range actions {
			childReach := reach
			childReach[chanceIdx] *= probs[i]
			u := s.computeRegret(s.tree.Child(h, a), childReach, player)
			for j := range value {
				value[j] += probs[i] * u[j]
			}
		}

		return value
	}

	if reach.playersUnreachable() {
		return utility{}
	}

	actor := int(h.Player())
	node := s.getNode(h, false)
	strategy := s.current.RowAt(node.index)
	childUtils := s.pool.alloc(node.NumActions())
	defer s.pool.free(childUtils)

	var value utility
	for i, a := range node.legalActions {
		childReach := reach
		childReach[actor] *= strategy[i]
		childUtils[i] = s.computeRegret(s.tree.Child(h, a), childReach, player)
		for j := range value {
			value[j] += strategy[i] * childUtils[i][j]
		}
	}

	if actor != player {
		return value
	}

	reachP := reach[actor]
	counterfactualP := reach.counterfactual(actor)
	for i := range node.legalActions {
		node.cumulativeRegret[i] += counterfactualP * (childUtils[i][actor] - value[actor])
		node.cumulativePolicy[i] += reachP * strategy[i]
	}

	return value
}

const allPlayers = -1

// updateCurrentPolicy discounts and regret matches the nodes of player, or
// of every player. Each node is updated once per iteration.
func (s *solver) updateCurrentPolicy(player int) {
	discountPositive, discountNegative, discountSum := 1.0, 1.0, 1.0
	if !s.params.Discount.isVanilla() {
		discountPositive, discountNegative, discountSum = s.params.Discount.GetDiscountFactors(s.iter + 1)
	}

	for _, node := range s.order {
		if player != allPlayers && node.player != player {
			continue
		}

		node.discount(discountPositive, discountNegative, discountSum)
		node.RegretMatching(s.current.RowAt(node.index))
	}
}

func (s *solver) updateAveragePolicy() *policy.TabularPolicy {
	for _, node := range s.order {
		node.AveragePolicy(s.average.RowAt(node.index))
	}

	return s.average
}

// evaluate returns the value of h when both players follow pol.
func (s *solver) evaluate(h *fog.History, pol *policy.TabularPolicy) utility {
	if h.IsTerminal() {
		return zeroSum(h.Return())
	}

	if s.current.IsLeaf(h) {
		return zeroSum(s.leafValue(h))
	}

	var value utility
	var probs []float64
	if h.IsChance() {
		_, probs = h.ChanceOutcomes()
	} else {
		probs = pol.Policy(h)
	}

	for i, child := range s.tree.Children(h) {
		u := s.evaluate(child, pol)
		for j := range value {
			value[j] += probs[i] * u[j]
		}
	}

	return value
}

// Iter returns the number of completed iterations.
func (s *solver) Iter() int { return s.iter }

// NumInfoStates returns the number of information states being solved.
func (s *solver) NumInfoStates() int { return len(s.order) }

// InfoStateNode returns the regret bookkeeping for an information state.
func (s *solver) InfoStateNode(key string) (*InfoStateNode, bool) {
	node, ok := s.nodes[key]
	return node, ok
}

// CurrentPolicy returns the policy of the next iteration. It is owned by
// the solver and changes as the solver runs.
func (s *solver) CurrentPolicy() *policy.TabularPolicy { return s.current }

// AveragePolicy returns a copy of the average policy so far.
func (s *solver) AveragePolicy() *policy.TabularPolicy {
	return s.updateAveragePolicy().Clone()
}
