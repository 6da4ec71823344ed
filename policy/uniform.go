package policy

import (
	"github.com/pkg/errors"

	"github.com/timpalpant/go-rebel/fog"
)

// Uniform is the policy that plays every legal action with equal
// probability. At chance Histories it is the chance probability.
type Uniform struct{}

var _ fog.Policy = Uniform{}

// ActionProbability implements fog.Policy.
func (Uniform) ActionProbability(h *fog.History, action fog.Action) float64 {
	if h.IsChance() {
		p, ok := fog.ChanceProbability(h.State(), action)
		if !ok {
			panic(errors.Wrapf(fog.ErrIllegalAction, "%v at %v", action, h))
		}

		return p
	}

	return 1.0 / float64(len(h.LegalActions()))
}
