// Package fog models finite extensive-form games as Factored-Observation
// Games: world states, actions, and the private and public observations
// emitted by each transition. A Tree built over a Game derives Histories,
// information states, public states and public belief states from them.
package fog

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// NumPlayers is the number of acting players. Chance is not counted.
const NumPlayers = 2

// Role identifies who acts at a world state: a player index, chance, or
// nobody (terminal).
type Role int

const (
	Chance   Role = -1
	Terminal Role = -2
)

func (r Role) IsChance() bool   { return r == Chance }
func (r Role) IsTerminal() bool { return r == Terminal }
func (r Role) IsPlayer() bool   { return r >= 0 }

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case Chance:
		return "chance"
	case Terminal:
		return "terminal"
	default:
		return "player" + strconv.Itoa(int(r))
	}
}

// WorldState is the full (hidden) state of a game at one point in time.
// Implementations are immutable values owned by a single game.
type WorldState interface {
	// Player returns the acting role. Exactly one of chance, a player
	// index, or terminal holds.
	Player() Role
	// LegalActions is empty iff the state is terminal.
	LegalActions() []Action
	// ChanceOutcomes returns the legal actions of a chance state and a
	// matching probability simplex. It is only defined for chance states.
	ChanceOutcomes() ([]Action, []float64)
	String() string
}

// Action is a move by chance or a player.
type Action interface {
	Player() Role
	String() string
}

// Observation is something perceived by one player, or by everyone if public.
type Observation interface {
	String() string
}

// Observations is the observation tuple emitted by a transition: one
// private entry per player and one public entry.
type Observations struct {
	Private [NumPlayers]Observation
	Public  Observation
}

// String implements fmt.Stringer.
func (o Observations) String() string {
	parts := make([]string, 0, NumPlayers+1)
	for _, p := range o.Private {
		parts = append(parts, obsString(p))
	}
	parts = append(parts, obsString(o.Public))
	return "(" + strings.Join(parts, "; ") + ")"
}

// StepRecord is a single immutable transition. The initial record of a
// History has a nil State and Action.
type StepRecord struct {
	State     WorldState
	Action    Action
	NextState WorldState
	Obs       Observations
	Reward    float64
}

// Equal reports whether two records describe the same transition.
func (r StepRecord) Equal(other StepRecord) bool {
	return stateString(r.State) == stateString(other.State) &&
		actionString(r.Action) == actionString(other.Action) &&
		stateString(r.NextState) == stateString(other.NextState) &&
		r.Obs.String() == other.Obs.String() &&
		r.Reward == other.Reward
}

// Game is the rules of a FOG. Step is the only place the rules execute
// and must be a pure function of its arguments.
type Game interface {
	Name() string
	InitialState() WorldState
	InitialObs() Observations
	// Step applies a legal action to a non-terminal state.
	Step(state WorldState, action Action) StepRecord
}

// Encoder is implemented by games that can encode a public belief state
// into a fixed-width vector for a value function.
type Encoder interface {
	EncodePBS(pbs *PublicBeliefState) []float64
}

// Policy gives the probability that the acting role at a History
// chooses the given action.
type Policy interface {
	ActionProbability(h *History, action Action) float64
}

// ValidateAction returns an error if action may not be applied to state.
func ValidateAction(state WorldState, action Action) error {
	if action == nil {
		return errors.Wrapf(ErrIllegalAction, "nil action at %v", state)
	}

	player := state.Player()
	if player.IsTerminal() {
		return errors.Wrapf(ErrTerminalState, "%v at %v", action, state)
	}

	if action.Player() != player {
		return errors.Wrapf(ErrIllegalAction, "%v by %v but %v acts at %v",
			action, action.Player(), player, state)
	}

	var legal []Action
	if player.IsChance() {
		legal, _ = state.ChanceOutcomes()
	} else {
		legal = state.LegalActions()
	}

	if actionIndex(legal, action) < 0 {
		return errors.Wrapf(ErrIllegalAction, "%v (%v) at %v", action, player, state)
	}

	return nil
}

// ChanceProbability returns the probability of a chance outcome at state.
func ChanceProbability(state WorldState, action Action) (float64, bool) {
	actions, probs := state.ChanceOutcomes()
	i := actionIndex(actions, action)
	if i < 0 {
		return 0, false
	}

	return probs[i], true
}

func actionIndex(actions []Action, action Action) int {
	s := action.String()
	for i, a := range actions {
		if a.String() == s {
			return i
		}
	}

	return -1
}

func actionString(a Action) string {
	if a == nil {
		return "None"
	}

	return a.String()
}

func stateString(s WorldState) string {
	if s == nil {
		return "None"
	}

	return s.String()
}

func obsString(o Observation) string {
	if o == nil {
		return "None"
	}

	return o.String()
}

func uniformDist(n int) []float64 {
	result := make([]float64, n)
	for i := range result {
		result[i] = 1.0 / float64(n)
	}
	return result
}
