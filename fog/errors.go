package fog

import (
	"github.com/pkg/errors"
)

var (
	// ErrIllegalAction is returned (or panicked) when an action is not
	// in the legal actions or chance outcomes of a state.
	ErrIllegalAction = errors.New("illegal action")
	// ErrTerminalState is returned when stepping a terminal state.
	ErrTerminalState = errors.New("cannot step a terminal state")
	// ErrUnknownHistory is a lookup miss in the history arena or a PBS support.
	ErrUnknownHistory = errors.New("unknown history")
	// ErrInconsistentPBS is returned when a PBS support mixes public
	// states, acting roles or legal action sets.
	ErrInconsistentPBS = errors.New("inconsistent public belief state")
	// ErrNoEncoder is returned when a game cannot encode belief states.
	ErrNoEncoder = errors.New("game does not implement fog.Encoder")
)
