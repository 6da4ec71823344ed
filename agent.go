// Package rebel implements ReBeL-style self-play: repeatedly solving
// depth-limited subgames rooted at public belief states, merging their
// policies into a full-game policy and fitting the leaf value function to
// the values of the solved subgames.
package rebel

import (
	"math/rand"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/timpalpant/go-rebel/cfr"
	"github.com/timpalpant/go-rebel/fog"
	"github.com/timpalpant/go-rebel/policy"
	"github.com/timpalpant/go-rebel/value"
)

// Agent plays a game against itself one subgame at a time.
type Agent struct {
	tree    *fog.Tree
	params  Params
	learner value.Learner
	valueFn value.Function
	cache   *value.Cached
	buffer  Buffer
	rng     *rand.Rand

	policy  *policy.TabularPolicy
	current *fog.PublicBeliefState
	episode uuid.UUID
	step    int
	count   int
}

// NewAgent returns an Agent at the initial belief state of the game.
// Samples are added to buffer, which the Agent does not close.
func NewAgent(tree *fog.Tree, learner value.Learner, buffer Buffer, params Params) (*Agent, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	initial, err := tree.InitialPBS()
	if err != nil {
		return nil, err
	}

	a := &Agent{
		tree:    tree,
		params:  params,
		learner: learner,
		valueFn: learner,
		buffer:  buffer,
		rng:     rand.New(rand.NewSource(params.Seed)),
		policy:  policy.NewTabular(tree),
		current: initial,
		episode: uuid.New(),
	}

	if params.ValueCacheSize > 0 {
		a.cache, err = value.NewCached(learner, params.ValueCacheSize)
		if err != nil {
			return nil, err
		}

		a.valueFn = a.cache
	}

	return a, nil
}

// Step solves the subgame rooted at the current belief state, merges its
// policy into the global policy, saves its training data and moves to a
// sampled next belief state.
func (a *Agent) Step() error {
	if a.current.IsTerminal() {
		return errors.Wrapf(fog.ErrTerminalState, "step from %v", a.current.PublicState())
	}

	solver, err := cfr.NewDepthLimited(a.tree, a.current, a.valueFn, a.params.subgameParams(a.rng.Int63()))
	if err != nil {
		return err
	}

	sub, err := solver.TrainPolicy()
	if err != nil {
		return errors.Wrapf(err, "solve subgame at %v", a.current.PublicState())
	}

	a.policy.Update(sub)
	data, err := solver.TrainingData()
	if err != nil {
		return err
	}

	if err := a.buffer.Add(NewSample(a.episode, a.step, data)); err != nil {
		return errors.Wrap(err, "add sample")
	}

	a.current = solver.SamplePBS()
	a.step++
	a.count++
	glog.V(1).Infof("[step=%d] Solved subgame, next belief state: %v", a.count, a.current.PublicState())

	if a.count%a.params.LearnEvery == 0 {
		return a.learn()
	}

	return nil
}

func (a *Agent) learn() error {
	n := a.buffer.Len()
	if n < a.params.BatchSize || n < a.params.MinBufferSize {
		glog.V(1).Infof("Skipping learning with %d samples in buffer", n)
		return nil
	}

	batch, err := a.buffer.Sample(a.rng, a.params.BatchSize)
	if err != nil {
		return err
	}

	examples := make([]value.Example, len(batch))
	for i, s := range batch {
		examples[i] = s.Example
	}

	if err := a.learner.Learn(examples); err != nil {
		return errors.Wrap(err, "learn value function")
	}

	if a.cache != nil {
		a.cache.Purge()
	}

	glog.V(1).Infof("Learned from %d of %d samples", len(batch), n)
	return nil
}

// ResetEpisode starts a new episode at the initial belief state if the
// current one is terminal.
func (a *Agent) ResetEpisode() error {
	if !a.current.IsTerminal() {
		return nil
	}

	initial, err := a.tree.InitialPBS()
	if err != nil {
		return err
	}

	a.current = initial
	a.episode = uuid.New()
	a.step = 0
	return nil
}

// RunEpisode steps until a terminal belief state, then resets.
func (a *Agent) RunEpisode() error {
	for !a.current.IsTerminal() {
		if err := a.Step(); err != nil {
			return err
		}
	}

	glog.V(1).Infof("Episode %v finished after %d steps", a.episode, a.step)
	return a.ResetEpisode()
}

// Policy returns the full-game policy, made of the most recent policy
// solved for each information state. It is owned by the Agent.
func (a *Agent) Policy() *policy.TabularPolicy { return a.policy }

// Current returns the belief state the next Step solves from.
func (a *Agent) Current() *fog.PublicBeliefState { return a.current }

// Episode returns the id of the current episode.
func (a *Agent) Episode() uuid.UUID { return a.episode }

// NumSteps returns the total number of subgames solved.
func (a *Agent) NumSteps() int { return a.count }
