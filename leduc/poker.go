// Package leduc implements Leduc Hold'em as a factored-observation game.
//
// The deck has two copies each of J, Q and K. Each player is dealt one
// private card, then bets; a public card is dealt and a second betting
// round follows. A bet doubles the bettor's total stake. A player holding
// the public card's rank wins at showdown, otherwise the higher card wins.
package leduc

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

const numRanks = 3

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

// Action is a private deal or public card by chance, or a player's
// pass or bet.
type Action struct {
	player fog.Role
	choice Choice
	deal   [2]Card
	public Card
}

// Player implements fog.Action.
func (a Action) Player() fog.Role { return a.player }

func (a Action) Choice() Choice { return a.choice }

// String implements fog.Action.
func (a Action) String() string {
	if !a.player.IsChance() {
		return choiceStr[a.choice]
	} else if a.public != noCard {
		return a.public.String()
	}

	return fmt.Sprintf("%v, %v", a.deal[0], a.deal[1])
}

// State implements fog.WorldState for Leduc Hold'em.
type State struct {
	Hands  [2]Card
	Public Card
	Bets   [2]int
	player fog.Role
}

// Round returns 0 before the public card is dealt (including the
// private deal) and 1 afterward (including the public deal).
func (s State) Round() int {
	if s.Public != noCard || (s.player.IsChance() && s.Hands != [2]Card{noCard, noCard}) {
		return 1
	}

	return 0
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
			Action{player: s.player, choice: Pass, public: noCard},
			Action{player: s.player, choice: Bet, public: noCard},
		}
	}
}

// ChanceOutcomes implements fog.WorldState.
func (s State) ChanceOutcomes() ([]fog.Action, []float64) {
	if !s.player.IsChance() {
		return nil, nil
	}

	var actions []fog.Action
	var weights []float64
	if s.Round() == 0 {
		for i := Card(0); i < numRanks; i++ {
			for j := Card(0); j < numRanks; j++ {
				actions = append(actions, Action{
					player: fog.Chance,
					deal:   [2]Card{i, j},
					public: noCard,
				})

				if i == j {
					weights = append(weights, 1)
				} else {
					weights = append(weights, 2)
				}
			}
		}
	} else {
		for c := Card(0); c < numRanks; c++ {
			actions = append(actions, Action{player: fog.Chance, public: c})
			w := 2
			for _, h := range s.Hands {
				if h == c {
					w--
				}
			}
			weights = append(weights, float64(w))
		}
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	for i := range weights {
		weights[i] /= total
	}

	return actions, weights
}

// Winner returns the winning player of a terminal state, or -1 for a draw.
func (s State) Winner() int {
	if s.Bets[0] != s.Bets[1] {
		// The player who passed facing a bet folded.
		if s.Bets[0] > s.Bets[1] {
			return 0
		}
		return 1
	}

	switch {
	case s.Hands[0] == s.Hands[1]:
		return -1
	case s.Hands[0] == s.Public:
		return 0
	case s.Hands[1] == s.Public:
		return 1
	case s.Hands[0] > s.Hands[1]:
		return 0
	default:
		return 1
	}
}

// String implements fog.WorldState.
func (s State) String() string {
	return fmt.Sprintf("[%v, %v, %v], [%d, %d], %d",
		s.Hands[0], s.Hands[1], s.Public, s.Bets[0], s.Bets[1], int(s.player))
}

// PrivateObs is the card a player holds, or "?" before the deal.
type PrivateObs Card

// String implements fog.Observation.
func (o PrivateObs) String() string { return Card(o).String() }

// PublicObs is the bet of each player and the public card.
type PublicObs struct {
	Bets   [2]int
	Public Card
}

// String implements fog.Observation.
func (o PublicObs) String() string {
	return fmt.Sprintf("[%d, %d], %v", o.Bets[0], o.Bets[1], o.Public)
}

// Game implements fog.Game and fog.Encoder for Leduc Hold'em.
type Game struct{}

var _ fog.Game = Game{}
var _ fog.Encoder = Game{}

func New() Game {
	return Game{}
}

// Name implements fog.Game.
func (Game) Name() string { return "LeducPoker" }

// InitialState implements fog.Game.
func (Game) InitialState() fog.WorldState {
	return State{
		Hands:  [2]Card{noCard, noCard},
		Public: noCard,
		Bets:   [2]int{1, 1},
		player: fog.Chance,
	}
}

// InitialObs implements fog.Game.
func (Game) InitialObs() fog.Observations {
	return fog.Observations{
		Private: [fog.NumPlayers]fog.Observation{PrivateObs(noCard), PrivateObs(noCard)},
		Public:  PublicObs{Bets: [2]int{1, 1}, Public: noCard},
	}
}

// Step implements fog.Game.
func (Game) Step(state fog.WorldState, action fog.Action) fog.StepRecord {
	s := state.(State)
	a := action.(Action)

	next := s
	if s.player.IsChance() {
		if s.Round() == 0 {
			next.Hands = a.deal
		} else {
			next.Public = a.public
		}
		next.player = 0
	} else if a.choice == Pass {
		switch {
		case s.Bets[0] != s.Bets[1] || (s.player == 1 && s.Round() == 1):
			next.player = fog.Terminal
		case s.player == 1:
			next.player = fog.Chance
		default:
			next.player = 1 - s.player
		}
	} else {
		next.Bets[s.player] *= 2
		switch {
		case next.Bets[0] != next.Bets[1]:
			next.player = 1 - s.player
		case s.Round() == 1:
			next.player = fog.Terminal
		default:
			next.player = fog.Chance
		}
	}

	reward := 0.0
	if next.player.IsTerminal() {
		switch next.Winner() {
		case 0:
			reward = float64(next.Bets[1])
		case 1:
			reward = -float64(next.Bets[0])
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
			Public: PublicObs{Bets: next.Bets, Public: next.Public},
		},
		Reward: reward,
	}
}

// EncodePBS implements fog.Encoder as
// [round, bet0, bet1, public card, acting role, beliefs...].
func (Game) EncodePBS(pbs *fog.PublicBeliefState) []float64 {
	public := pbs.PublicState()
	obs := public.Last().(PublicObs)
	result := make([]float64, 0, 5+pbs.Len())
	result = append(result,
		float64(public.Len()),
		float64(obs.Bets[0]),
		float64(obs.Bets[1]),
		float64(obs.Public),
		float64(pbs.Player()))
	for i := 0; i < pbs.Len(); i++ {
		result = append(result, pbs.Prob(i))
	}

	return result
}
