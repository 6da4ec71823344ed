// Package value defines the value functions that supply leaf values to
// depth-limited CFR. A value function maps the encoding of a public belief
// state to one value (for player 0) per History in its support.
package value

import (
	"github.com/pkg/errors"
)

// Function estimates the value of each History in a public belief state
// from the state's encoding. Implementations must be safe for concurrent use.
type Function interface {
	Value(encoding []float64) ([]float64, error)
}

// FunctionFunc adapts an ordinary function to a Function.
type FunctionFunc func(encoding []float64) ([]float64, error)

// Value implements Function.
func (f FunctionFunc) Value(encoding []float64) ([]float64, error) {
	return f(encoding)
}

// Constant returns the same value for each of Width Histories.
type Constant struct {
	Width int
	Const float64
}

// Value implements Function.
func (c Constant) Value(encoding []float64) ([]float64, error) {
	if c.Width <= 0 {
		return nil, errors.Errorf("invalid width: %d", c.Width)
	}

	result := make([]float64, c.Width)
	for i := range result {
		result[i] = c.Const
	}

	return result, nil
}

// Example is a single training example for a value function: the encoding
// of a public belief state and the value of each History in its support.
type Example struct {
	Encoding []float64
	Values   []float64
}

// Learner is a value function that can be fit to training examples.
type Learner interface {
	Function
	Learn(examples []Example) error
}
