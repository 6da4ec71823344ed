// Package policy implements tabular policies over the information states
// of a fog.Tree, for a whole game or for a depth-limited subgame rooted
// at a public belief state.
package policy

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/go-rebel/fog"
	"github.com/timpalpant/go-rebel/internal/f64"
)

// ErrUnknownInfoState is returned when looking up an information state
// that was never enumerated.
var ErrUnknownInfoState = errors.New("unknown information state")

// TabularPolicy maps each information state to a probability distribution
// over its legal actions. Rows are registered once at construction and
// their layout never changes; only the probabilities are updated.
type TabularPolicy struct {
	lookup       map[string]int
	keys         []string
	players      []int
	legalActions [][]fog.Action
	actionIndex  []map[string]int
	probs        [][]float64

	// Only set for subgame policies.
	maxDepth int
	depths   map[fog.HistoryID]int
	leaves   map[fog.HistoryID]bool
}

func newTabularPolicy() *TabularPolicy {
	return &TabularPolicy{
		lookup:   make(map[string]int),
		maxDepth: -1,
	}
}

// NewTabular returns a uniform policy over every information state of a
// finite game. Rows are registered player by player in breadth-first
// History order.
func NewTabular(tree *fog.Tree) *TabularPolicy {
	p := newTabularPolicy()
	p.registerAll(tree.AllHistories())
	glog.V(2).Infof("Registered %d information states for %s", p.Len(), tree.Game().Name())
	return p
}

// NewSubgame returns a uniform policy over the information states reachable
// within maxDepth actions of the support of root. Non-terminal Histories
// at maxDepth are leaves and get no rows.
func NewSubgame(tree *fog.Tree, root *fog.PublicBeliefState, maxDepth int) (*TabularPolicy, error) {
	if maxDepth < 1 {
		return nil, errors.Errorf("max depth must be positive, got %d", maxDepth)
	}

	p := newTabularPolicy()
	p.maxDepth = maxDepth
	p.depths = make(map[fog.HistoryID]int)
	p.leaves = make(map[fog.HistoryID]bool)

	visited := tree.Enumerate(root.Histories(), maxDepth)
	var decisions []*fog.History
	for _, v := range visited {
		p.depths[v.History.ID()] = v.Depth
		if v.Depth >= maxDepth && !v.History.IsTerminal() {
			p.leaves[v.History.ID()] = true
		} else {
			decisions = append(decisions, v.History)
		}
	}

	p.registerAll(decisions)
	glog.V(2).Infof("Registered %d information states, %d leaves for subgame at %v",
		p.Len(), len(p.leaves), root.PublicState())
	return p, nil
}

func (p *TabularPolicy) registerAll(histories []*fog.History) {
	for player := 0; player < fog.NumPlayers; player++ {
		for _, h := range histories {
			if h.Player() != fog.Role(player) {
				continue
			}

			legal := h.LegalActions()
			if len(legal) == 0 {
				continue
			}

			p.register(player, h.InfoState(player).Key(), legal)
		}
	}
}

func (p *TabularPolicy) register(player int, key string, legal []fog.Action) {
	if i, ok := p.lookup[key]; ok {
		if len(p.legalActions[i]) != len(legal) {
			panic(fmt.Errorf("policy has n_actions=%v but history has n_actions=%v: %v",
				len(p.legalActions[i]), len(legal), key))
		}

		return
	}

	index := make(map[string]int, len(legal))
	for i, a := range legal {
		index[a.String()] = i
	}

	p.lookup[key] = len(p.keys)
	p.keys = append(p.keys, key)
	p.players = append(p.players, player)
	p.legalActions = append(p.legalActions, legal)
	p.actionIndex = append(p.actionIndex, index)
	p.probs = append(p.probs, uniformDist(len(legal)))
}

// Len returns the number of rows.
func (p *TabularPolicy) Len() int { return len(p.keys) }

// Index returns the row of an information state.
func (p *TabularPolicy) Index(key string) (int, bool) {
	i, ok := p.lookup[key]
	return i, ok
}

// Key returns the information state of row i.
func (p *TabularPolicy) Key(i int) string { return p.keys[i] }

// Player returns the player acting in row i.
func (p *TabularPolicy) Player(i int) int { return p.players[i] }

// LegalActions returns the legal actions of row i.
func (p *TabularPolicy) LegalActions(i int) []fog.Action { return p.legalActions[i] }

// RowAt returns the probabilities of row i. The slice is owned by the
// policy and may be updated in place by its owner.
func (p *TabularPolicy) RowAt(i int) []float64 { return p.probs[i] }

// Row returns the probabilities for an information state.
func (p *TabularPolicy) Row(key string) ([]float64, error) {
	i, ok := p.lookup[key]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownInfoState, "%q", key)
	}

	return p.probs[i], nil
}

// SetRow replaces the probabilities of row i.
func (p *TabularPolicy) SetRow(i int, probs []float64) {
	if len(probs) != len(p.probs[i]) {
		panic(fmt.Errorf("row %d has n_actions=%v but got %v probabilities",
			i, len(p.probs[i]), len(probs)))
	}

	copy(p.probs[i], probs)
}

// Policy returns the row of the player acting at h. Histories
// outside the table are a lookup miss and panic.
func (p *TabularPolicy) Policy(h *fog.History) []float64 {
	return p.probs[p.mustIndex(h)]
}

func (p *TabularPolicy) mustIndex(h *fog.History) int {
	if !h.Player().IsPlayer() {
		panic(errors.Errorf("no policy for %v at %v", h.Player(), h))
	}

	key := h.InfoState(int(h.Player())).Key()
	i, ok := p.lookup[key]
	if !ok {
		panic(errors.Wrapf(ErrUnknownInfoState, "%q at %v", key, h))
	}

	return i
}

// ActionProbability implements fog.Policy. At chance Histories it is the
// chance probability of action.
func (p *TabularPolicy) ActionProbability(h *fog.History, action fog.Action) float64 {
	if h.IsChance() {
		prob, ok := fog.ChanceProbability(h.State(), action)
		if !ok {
			panic(errors.Wrapf(fog.ErrIllegalAction, "%v at %v", action, h))
		}

		return prob
	}

	i := p.mustIndex(h)
	j, ok := p.actionIndex[i][action.String()]
	if !ok {
		panic(errors.Wrapf(fog.ErrIllegalAction, "%v at %v", action, h))
	}

	return p.probs[i][j]
}

// IsLeaf reports whether h is at the depth bound of a subgame policy.
func (p *TabularPolicy) IsLeaf(h *fog.History) bool {
	return p.leaves[h.ID()]
}

// Depth returns the depth of h below the subgame root, if it was enumerated.
func (p *TabularPolicy) Depth(h *fog.History) (int, bool) {
	d, ok := p.depths[h.ID()]
	return d, ok
}

// MaxDepth returns the depth bound of a subgame policy, or -1.
func (p *TabularPolicy) MaxDepth() int { return p.maxDepth }

// NumLeaves returns the number of leaf Histories of a subgame policy.
func (p *TabularPolicy) NumLeaves() int { return len(p.leaves) }

// Clone returns a copy of p whose probabilities may be changed
// independently. The row layout is shared.
func (p *TabularPolicy) Clone() *TabularPolicy {
	result := *p
	result.probs = make([][]float64, len(p.probs))
	for i, row := range p.probs {
		result.probs[i] = append([]float64(nil), row...)
	}

	return &result
}

// Update copies every row of other whose information state is also in p,
// and returns the number of rows copied.
func (p *TabularPolicy) Update(other *TabularPolicy) int {
	n := 0
	for j, key := range other.keys {
		if i, ok := p.lookup[key]; ok {
			p.SetRow(i, other.probs[j])
			n++
		}
	}

	return n
}

// Validate checks that every row is a probability distribution.
func (p *TabularPolicy) Validate() error {
	for i, row := range p.probs {
		for _, x := range row {
			if x < 0 {
				return errors.Errorf("negative probability in row %q: %v", p.keys[i], row)
			}
		}

		if total := f64.Sum(row); total < 1-1e-6 || total > 1+1e-6 {
			return errors.Errorf("row %q sums to %v", p.keys[i], total)
		}
	}

	return nil
}

// String implements fmt.Stringer.
func (p *TabularPolicy) String() string {
	var sb strings.Builder
	for i, key := range p.keys {
		fmt.Fprintf(&sb, "%s:", key)
		for j, a := range p.legalActions[i] {
			fmt.Fprintf(&sb, " %v=%.4f", a, p.probs[i][j])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func uniformDist(n int) []float64 {
	result := make([]float64, n)
	f64.Fill(1.0/float64(n), result)
	return result
}
