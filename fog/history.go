package fog

import (
	"math"
)

// HistoryID is the stable identity of a History within its Tree.
type HistoryID int32

// NoHistory is the parent id of the root.
const NoHistory HistoryID = -1

// History is a trajectory of transitions from the initial record: a node
// of the perfect-information game tree. Histories are created only by a
// Tree and are never modified afterward; derived views are computed
// once at creation.
type History struct {
	id      HistoryID
	parent  HistoryID
	records []StepRecord
	key     string

	infoStates [NumPlayers]InfoState
	public     PublicState
}

func newRootHistory(id HistoryID, record StepRecord) *History {
	h := &History{
		id:      id,
		parent:  NoHistory,
		records: []StepRecord{record},
		key:     stateString(record.NextState),
		public:  newPublicState(record.Obs.Public),
	}

	for p := range h.infoStates {
		h.infoStates[p] = newInfoState(p, record.Obs)
	}

	return h
}

func (h *History) extend(id HistoryID, record StepRecord) *History {
	records := make([]StepRecord, len(h.records)+1)
	copy(records, h.records)
	records[len(h.records)] = record

	child := &History{
		id:      id,
		parent:  h.id,
		records: records,
		key:     h.key + " -> " + actionString(record.Action) + " -> " + stateString(record.NextState),
		public:  h.public.extend(record.Obs.Public),
	}

	for p := range child.infoStates {
		child.infoStates[p] = h.infoStates[p].extend(record.Action, record.Obs)
	}

	return child
}

func (h *History) ID() HistoryID { return h.id }

// Parent returns the id of the parent History, or NoHistory for the root.
func (h *History) Parent() HistoryID { return h.parent }

// Len returns the number of records, including the initial one.
func (h *History) Len() int { return len(h.records) }

// Record returns the i'th StepRecord.
func (h *History) Record(i int) StepRecord { return h.records[i] }

// Last returns the most recent StepRecord.
func (h *History) Last() StepRecord { return h.records[len(h.records)-1] }

// State returns the current world state.
func (h *History) State() WorldState { return h.Last().NextState }

// Actions returns the actions taken since the initial record.
func (h *History) Actions() []Action {
	result := make([]Action, 0, len(h.records)-1)
	for _, r := range h.records[1:] {
		result = append(result, r.Action)
	}
	return result
}

func (h *History) Player() Role           { return h.State().Player() }
func (h *History) IsChance() bool         { return h.Player().IsChance() }
func (h *History) IsTerminal() bool       { return h.Player().IsTerminal() }
func (h *History) LegalActions() []Action { return h.State().LegalActions() }

func (h *History) ChanceOutcomes() ([]Action, []float64) {
	return h.State().ChanceOutcomes()
}

// Return is the sum of rewards along the History, from player 0's perspective.
func (h *History) Return() float64 {
	total := 0.0
	for _, r := range h.records {
		total += r.Reward
	}
	return total
}

// DiscountedReturn is the sum of rewards discounted by gamma per step.
func (h *History) DiscountedReturn(gamma float64) float64 {
	total := 0.0
	for i, r := range h.records {
		total += r.Reward * math.Pow(gamma, float64(i))
	}
	return total
}

// InfoState returns the information state of the given player.
func (h *History) InfoState(player int) InfoState { return h.infoStates[player] }

func (h *History) PublicState() PublicState { return h.public }

// Key is the canonical string identity of the History.
func (h *History) Key() string { return h.key }

// String implements fmt.Stringer.
func (h *History) String() string { return h.key }

// Equal reports whether the two Histories have element-wise equal records.
func (h *History) Equal(other *History) bool {
	if len(h.records) != len(other.records) {
		return false
	}

	for i := range h.records {
		if !h.records[i].Equal(other.records[i]) {
			return false
		}
	}

	return true
}
