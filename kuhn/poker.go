// Package kuhn implements Kuhn Poker as a factored-observation game.
//
// A single chance action deals one card to each player from a three card
// deck. Each player antes 1 and may pass or bet 1; the public observation
// is the pair of bets.
package kuhn

import (
	"fmt"

	"github.com/timpalpant/go-rebel/fog"
)

type Card int

const (
	Jack Card = iota
	Queen
	King

	noCard Card = -1
)

var cardStr = [...]string{
	"J",
	"Q",
	"K",
}

// String implements fmt.Stringer.
func (c Card) String() string {
	if c == noCard {
		return "?"
	}

	return cardStr[c]
}

type Choice int

const (
	Pass Choice = iota
	Bet
)

var choiceStr = [...]string{
	"pass",
	"bet",
}

// Action is either the deal (by chance) or a player's pass or bet.
type Action struct {
	player fog.Role
	choice Choice
	deal   [2]Card
}

// Player implements fog.Action.
func (a Action) Player() fog.Role { return a.player }

func (a Action) Choice() Choice { return a.choice }

// String implements fog.Action.
func (a Action) String() string {
	if a.player.IsChance() {
		return fmt.Sprintf("%v, %v", a.deal[0], a.deal[1])
	}

	return choiceStr[a.choice]
}

// Deals enumerates the six ordered pairs of distinct cards.
func Deals() []Action {
	result := make([]Action, 0, 6)
	for i := 0; i < 3; i++ {
		for j := 1; j < 3; j++ {
			result = append(result, Action{
				player: fog.Chance,
				deal:   [2]Card{Card(i), Card((i + j) % 3)},
			})
		}
	}

	return result
}

// State implements fog.WorldState for Kuhn Poker.
type State struct {
	Hands  [2]Card
	Bets   [2]int
	player fog.Role
}

// Player implements fog.WorldState.
func (s State) Player() fog.Role { return s.player }

// LegalActions implements fog.WorldState.
func (s State) LegalActions() []fog.Action {
	switch {
	case s.player.IsTerminal():
		return nil
	case s.player.IsChance():
		actions, _ := s.ChanceOutcomes()
		return actions
	default:
		return []fog.Action{
			Action{player: s.player, choice: Pass},
			Action{player: s.player, choice: Bet},
		}
	}
}

// ChanceOutcomes implements fog.WorldState.
func (s State) ChanceOutcomes() ([]fog.Action, []float64) {
	if !s.player.IsChance() {
		return nil, nil
	}

	deals := Deals()
	actions := make([]fog.Action, len(deals))
	probs := make([]float64, len(deals))
	for i, d := range deals {
		actions[i] = d
		probs[i] = 1.0 / float64(len(deals))
	}

	return actions, probs
}

// String implements fog.WorldState.
func (s State) String() string {
	return fmt.Sprintf("[%v, %v], [%d, %d], %d",
		s.Hands[0], s.Hands[1], s.Bets[0], s.Bets[1], int(s.player))
}

// PrivateObs is the card a player holds, or "?" before the deal.
type PrivateObs Card

// String implements fog.Observation.
func (o PrivateObs) String() string { return Card(o).String() }

// PublicObs is the bet of each player.
type PublicObs [2]int

// String implements fog.Observation.
func (o PublicObs) String() string { return fmt.Sprintf("%d, %d", o[0], o[1]) }

// Game implements fog.Game and fog.Encoder for Kuhn Poker.
type Game struct{}

var _ fog.Game = Game{}
var _ fog.Encoder = Game{}

func New() Game {
	return Game{}
}

// Name implements fog.Game.
func (Game) Name() string { return "KuhnPoker" }

// InitialState implements fog.Game.
func (Game) InitialState() fog.WorldState {
	return State{
		Hands:  [2]Card{noCard, noCard},
		Bets:   [2]int{1, 1},
		player: fog.Chance,
	}
}

// InitialObs implements fog.Game.
func (Game) InitialObs() fog.Observations {
	return fog.Observations{
		Private: [fog.NumPlayers]fog.Observation{PrivateObs(noCard), PrivateObs(noCard)},
		Public:  PublicObs{1, 1},
	}
}

// Step implements fog.Game.
func (Game) Step(state fog.WorldState, action fog.Action) fog.StepRecord {
	s := state.(State)
	a := action.(Action)

	next := s
	reward := 0.0
	if s.player.IsChance() {
		next.Hands = a.deal
		next.player = 0
	} else if a.choice == Pass {
		if s.Bets == [2]int{1, 1} && s.player == 0 {
			next.player = 1
		} else {
			next.player = fog.Terminal
			if s.Bets == [2]int{1, 1} {
				reward = showdown(s.Hands, 1)
			} else if s.player == 1 {
				// The player who passes facing a bet folds.
				reward = 1
			} else {
				reward = -1
			}
		}
	} else {
		next.Bets[s.player]++
		if next.Bets == [2]int{2, 2} {
			next.player = fog.Terminal
			reward = showdown(s.Hands, 2)
		} else {
			next.player = 1 - s.player
		}
	}

	return fog.StepRecord{
		State:     s,
		Action:    a,
		NextState: next,
		Obs: fog.Observations{
			Private: [fog.NumPlayers]fog.Observation{
				PrivateObs(next.Hands[0]),
				PrivateObs(next.Hands[1]),
			},
			Public: PublicObs(next.Bets),
		},
		Reward: reward,
	}
}

func showdown(hands [2]Card, stake float64) float64 {
	if hands[0] > hands[1] {
		return stake
	}

	return -stake
}

// EncodePBS implements fog.Encoder as
// [round, bet0, bet1, acting role, beliefs...].
func (Game) EncodePBS(pbs *fog.PublicBeliefState) []float64 {
	public := pbs.PublicState()
	bets := public.Last().(PublicObs)
	result := make([]float64, 0, 4+pbs.Len())
	result = append(result,
		float64(public.Len()),
		float64(bets[0]),
		float64(bets[1]),
		float64(pbs.Player()))
	for i := 0; i < pbs.Len(); i++ {
		result = append(result, pbs.Prob(i))
	}

	return result
}
