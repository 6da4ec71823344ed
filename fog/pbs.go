package fog

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// PublicBeliefState is a public state together with a probability
// distribution over the Histories consistent with it. The support is
// kept in a stable order, which is also the order of value vectors.
type PublicBeliefState struct {
	public  PublicState
	support []*History
	probs   []float64
	index   map[HistoryID]int
	mass    float64
}

// NewPublicBeliefState returns a PBS over the given Histories, with
// probabilities normalized to sum to 1. All Histories must share a public
// state, an acting role and a legal action set.
func NewPublicBeliefState(support []*History, probs []float64) (*PublicBeliefState, error) {
	if len(support) == 0 {
		return nil, errors.Wrap(ErrInconsistentPBS, "empty support")
	}

	if len(support) != len(probs) {
		return nil, errors.Wrapf(ErrInconsistentPBS,
			"%d histories but %d probabilities", len(support), len(probs))
	}

	if err := checkSupport(support); err != nil {
		return nil, err
	}

	normalized := make([]float64, len(probs))
	total := 0.0
	for i, p := range probs {
		if p < 0 || math.IsNaN(p) {
			return nil, errors.Wrapf(ErrInconsistentPBS, "invalid probability %v for %v", p, support[i])
		}

		normalized[i] = p
		total += p
	}

	if total <= 0 {
		return nil, errors.Wrapf(ErrInconsistentPBS, "zero belief mass over %v", support[0].PublicState())
	}

	for i := range normalized {
		normalized[i] /= total
	}

	return newPBS(support, normalized, total), nil
}

func newPBS(support []*History, probs []float64, mass float64) *PublicBeliefState {
	index := make(map[HistoryID]int, len(support))
	for i, h := range support {
		index[h.id] = i
	}

	return &PublicBeliefState{
		public:  support[0].PublicState(),
		support: support,
		probs:   probs,
		index:   index,
		mass:    mass,
	}
}

func checkSupport(support []*History) error {
	rep := support[0]
	legal := actionsKey(rep.LegalActions())
	for _, h := range support[1:] {
		if !h.PublicState().Equal(rep.PublicState()) {
			return errors.Wrapf(ErrInconsistentPBS, "public state %v != %v",
				h.PublicState(), rep.PublicState())
		}

		if h.Player() != rep.Player() {
			return errors.Wrapf(ErrInconsistentPBS, "%v acts at %v but %v acts at %v",
				h.Player(), h, rep.Player(), rep)
		}

		if actionsKey(h.LegalActions()) != legal {
			return errors.Wrapf(ErrInconsistentPBS, "legal actions differ at %v and %v", h, rep)
		}
	}

	return nil
}

func actionsKey(actions []Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}

func (b *PublicBeliefState) PublicState() PublicState { return b.public }

// Len returns the size of the support.
func (b *PublicBeliefState) Len() int { return len(b.support) }

// History returns the i'th History of the support.
func (b *PublicBeliefState) History(i int) *History { return b.support[i] }

// Histories returns the support. The slice must not be modified.
func (b *PublicBeliefState) Histories() []*History { return b.support }

// Prob returns the belief of the i'th History of the support.
func (b *PublicBeliefState) Prob(i int) float64 { return b.probs[i] }

// Probs returns a copy of the belief vector.
func (b *PublicBeliefState) Probs() []float64 {
	result := make([]float64, len(b.probs))
	copy(result, b.probs)
	return result
}

// Index returns the position of h in the support.
func (b *PublicBeliefState) Index(h *History) (int, bool) {
	i, ok := b.index[h.id]
	return i, ok
}

// ProbOf returns the belief of h, or an error if h is not in the support.
func (b *PublicBeliefState) ProbOf(h *History) (float64, error) {
	i, ok := b.index[h.id]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownHistory, "%v not in support of %v", h, b.public)
	}

	return b.probs[i], nil
}

// Mass is the total belief mass before normalization. For a child PBS
// this is the probability of the action given the parent belief.
func (b *PublicBeliefState) Mass() float64 { return b.mass }

// Player returns the acting role shared by every History of the support.
func (b *PublicBeliefState) Player() Role { return b.support[0].Player() }

func (b *PublicBeliefState) IsChance() bool   { return b.Player().IsChance() }
func (b *PublicBeliefState) IsTerminal() bool { return b.Player().IsTerminal() }

func (b *PublicBeliefState) LegalActions() []Action {
	return b.support[0].LegalActions()
}

func (b *PublicBeliefState) ChanceOutcomes() ([]Action, []float64) {
	return b.support[0].ChanceOutcomes()
}

// String implements fmt.Stringer.
func (b *PublicBeliefState) String() string {
	var sb strings.Builder
	sb.WriteString(b.public.String())
	sb.WriteString(" {")
	for i, h := range b.support {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d: %.4f", h.id, b.probs[i])
	}
	sb.WriteString("}")
	return sb.String()
}

// InitialPBS returns the belief state at the first decision point. If the
// game starts with chance, the support is the chance outcomes weighted by
// their probability.
func (t *Tree) InitialPBS() (*PublicBeliefState, error) {
	root := t.Root()
	if !root.IsChance() {
		return NewPublicBeliefState([]*History{root}, []float64{1.0})
	}

	actions, probs := root.ChanceOutcomes()
	support := make([]*History, len(actions))
	for i, a := range actions {
		support[i] = t.Child(root, a)
	}

	return NewPublicBeliefState(support, probs)
}

// ChildPBS advances every History of b by action and reweights each by the
// probability that the acting role chose action: the chance probability
// at chance Histories, otherwise the probability under policy. If no
// History assigns positive probability to action, the child belief is
// uniform.
func (t *Tree) ChildPBS(b *PublicBeliefState, action Action, policy Policy) *PublicBeliefState {
	support := make([]*History, len(b.support))
	probs := make([]float64, len(b.support))
	total := 0.0
	for i, h := range b.support {
		support[i] = t.Child(h, action)
		probs[i] = b.probs[i] * actionProbability(h, action, policy)
		total += probs[i]
	}

	if err := checkSupport(support); err != nil {
		panic(err)
	}

	if total > 0 {
		for i := range probs {
			probs[i] /= total
		}
	} else {
		glog.V(2).Infof("Zero belief mass after %v at %v, using uniform", action, b.public)
		probs = uniformDist(len(probs))
	}

	return newPBS(support, probs, total)
}

// Encode returns the value function input for b.
func (t *Tree) Encode(b *PublicBeliefState) ([]float64, error) {
	enc, ok := t.game.(Encoder)
	if !ok {
		return nil, errors.Wrapf(ErrNoEncoder, "game %s", t.game.Name())
	}

	return enc.EncodePBS(b), nil
}

func actionProbability(h *History, action Action, policy Policy) float64 {
	if h.IsChance() {
		p, ok := ChanceProbability(h.State(), action)
		if !ok {
			panic(errors.Wrapf(ErrIllegalAction, "%v is not a chance outcome at %v", action, h))
		}

		return p
	}

	return policy.ActionProbability(h, action)
}
