package fog

import (
	"strings"
)

// InfoStep is one element of an information state: the player's own action
// that led to it (nil if the player did not act, or for the initial
// observation) and the private and public observations that followed.
type InfoStep struct {
	Action  Action
	Private Observation
	Public  Observation
}

func (s InfoStep) obsString() string {
	return obsString(s.Private) + "; " + obsString(s.Public)
}

func (s InfoStep) equal(other InfoStep) bool {
	return actionString(s.Action) == actionString(other.Action) &&
		obsString(s.Private) == obsString(other.Private) &&
		obsString(s.Public) == obsString(other.Public)
}

// InfoState is the projection of a History onto what one player has
// observed and done: [O^0, a^0, O^1, a^1, ..., O^t].
type InfoState struct {
	player int
	steps  []InfoStep
	key    string
}

func newInfoState(player int, obs Observations) InfoState {
	step := InfoStep{Private: obs.Private[player], Public: obs.Public}
	return InfoState{
		player: player,
		steps:  []InfoStep{step},
		key:    step.obsString(),
	}
}

// extend returns the information state after a transition. The action is
// only recorded if it was taken by this player.
func (s InfoState) extend(action Action, obs Observations) InfoState {
	step := InfoStep{Private: obs.Private[s.player], Public: obs.Public}
	if action != nil && action.Player() == Role(s.player) {
		step.Action = action
	}

	steps := make([]InfoStep, len(s.steps)+1)
	copy(steps, s.steps)
	steps[len(s.steps)] = step

	var sb strings.Builder
	sb.WriteString(s.key)
	sb.WriteString(" -> ")
	sb.WriteString(actionString(step.Action))
	sb.WriteString(" -> ")
	sb.WriteString(step.obsString())

	return InfoState{player: s.player, steps: steps, key: sb.String()}
}

func (s InfoState) Player() int { return s.player }

// Len returns the number of observations in the information state.
func (s InfoState) Len() int { return len(s.steps) }

func (s InfoState) Step(i int) InfoStep { return s.steps[i] }

// Key is the canonical string identity used to index policy tables.
func (s InfoState) Key() string { return s.key }

// String implements fmt.Stringer.
func (s InfoState) String() string { return s.key }

// Equal reports structural (element-wise) equality.
func (s InfoState) Equal(other InfoState) bool {
	if s.player != other.player || len(s.steps) != len(other.steps) {
		return false
	}

	for i := range s.steps {
		if !s.steps[i].equal(other.steps[i]) {
			return false
		}
	}

	return true
}

// PublicState is the sequence of public observations of a History.
type PublicState struct {
	obs []Observation
	key string
}

func newPublicState(obs Observation) PublicState {
	return PublicState{
		obs: []Observation{obs},
		key: obsString(obs),
	}
}

func (s PublicState) extend(obs Observation) PublicState {
	result := make([]Observation, len(s.obs)+1)
	copy(result, s.obs)
	result[len(s.obs)] = obs
	return PublicState{
		obs: result,
		key: s.key + " -> " + obsString(obs),
	}
}

func (s PublicState) Len() int { return len(s.obs) }

func (s PublicState) Obs(i int) Observation { return s.obs[i] }

// Last returns the most recent public observation.
func (s PublicState) Last() Observation { return s.obs[len(s.obs)-1] }

func (s PublicState) Key() string { return s.key }

// String implements fmt.Stringer.
func (s PublicState) String() string { return s.key }

// Equal reports structural (element-wise) equality.
func (s PublicState) Equal(other PublicState) bool {
	if len(s.obs) != len(other.obs) {
		return false
	}

	for i := range s.obs {
		if obsString(s.obs[i]) != obsString(other.obs[i]) {
			return false
		}
	}

	return true
}
