package cfr

import (
	"math"

	"github.com/pkg/errors"

	"github.com/timpalpant/go-rebel/fog"
)

// Exploitability returns the average over players of the value of a best
// response to pol, in a finite two-player zero-sum game. It is zero
// exactly when pol is a Nash equilibrium.
func Exploitability(tree *fog.Tree, pol fog.Policy) float64 {
	return NashConv(tree, pol) / fog.NumPlayers
}

// NashConv returns the sum over players of the gain from deviating to a
// best response against pol.
func NashConv(tree *fog.Tree, pol fog.Policy) float64 {
	onPolicy := PolicyValue(tree, pol)
	total := 0.0
	for player := 0; player < fog.NumPlayers; player++ {
		v := onPolicy
		if player == 1 {
			v = -onPolicy
		}

		total += BestResponseValue(tree, pol, player) - v
	}

	return total
}

// PolicyValue returns the value of the game to player 0 when both players
// follow pol.
func PolicyValue(tree *fog.Tree, pol fog.Policy) float64 {
	var value func(h *fog.History) float64
	value = func(h *fog.History) float64 {
		if h.IsTerminal() {
			return h.Return()
		}

		total := 0.0
		for _, a := range h.LegalActions() {
			total += actionProbability(h, a, pol) * value(tree.Child(h, a))
		}
		return total
	}

	return value(tree.Root())
}

// BestResponseValue returns the value to player of the best response
// against the other player's part of pol.
func BestResponseValue(tree *fog.Tree, pol fog.Policy, player int) float64 {
	br := &bestResponse{
		tree:       tree,
		policy:     pol,
		player:     player,
		infoStates: make(map[string][]reachedHistory),
		values:     make(map[fog.HistoryID]float64),
		actions:    make(map[string]int),
	}

	br.collect(tree.Root(), 1.0)
	return br.value(tree.Root())
}

type reachedHistory struct {
	history *fog.History
	// Probability that chance and the opponent reach the History.
	reach float64
}

type bestResponse struct {
	tree   *fog.Tree
	policy fog.Policy
	player int

	infoStates map[string][]reachedHistory
	values     map[fog.HistoryID]float64
	actions    map[string]int
}

func (br *bestResponse) collect(h *fog.History, reach float64) {
	if h.IsTerminal() {
		return
	}

	if h.Player() == fog.Role(br.player) {
		key := h.InfoState(br.player).Key()
		br.infoStates[key] = append(br.infoStates[key], reachedHistory{h, reach})
		for _, child := range br.tree.Children(h) {
			br.collect(child, reach)
		}

		return
	}

	for _, a := range h.LegalActions() {
		br.collect(br.tree.Child(h, a), reach*actionProbability(h, a, br.policy))
	}
}

func (br *bestResponse) value(h *fog.History) float64 {
	if v, ok := br.values[h.ID()]; ok {
		return v
	}

	var v float64
	switch {
	case h.IsTerminal():
		v = h.Return()
		if br.player == 1 {
			v = -v
		}
	case h.Player() == fog.Role(br.player):
		a := h.LegalActions()[br.bestAction(h.InfoState(br.player).Key())]
		v = br.value(br.tree.Child(h, a))
	default:
		for _, a := range h.LegalActions() {
			v += actionProbability(h, a, br.policy) * br.value(br.tree.Child(h, a))
		}
	}

	br.values[h.ID()] = v
	return v
}

func (br *bestResponse) bestAction(key string) int {
	if i, ok := br.actions[key]; ok {
		return i
	}

	reached := br.infoStates[key]
	legal := reached[0].history.LegalActions()
	best, bestValue := 0, math.Inf(-1)
	for i, a := range legal {
		total := 0.0
		for _, rh := range reached {
			total += rh.reach * br.value(br.tree.Child(rh.history, a))
		}

		if total > bestValue {
			best, bestValue = i, total
		}
	}

	br.actions[key] = best
	return best
}

func actionProbability(h *fog.History, a fog.Action, pol fog.Policy) float64 {
	if h.IsChance() {
		p, ok := fog.ChanceProbability(h.State(), a)
		if !ok {
			panic(errors.Wrapf(fog.ErrIllegalAction, "%v at %v", a, h))
		}

		return p
	}

	return pol.ActionProbability(h, a)
}
