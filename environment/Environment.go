// Package environment implements the electric motor environment core:
// the module interfaces that physical systems, reference generators,
// reward functions, and visualizations satisfy, and the environment
// that composes them into a reset/step/close lifecycle.
package environment

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/magic-alt/gym-electric-motor/spaces"
)

// ErrNeedsReset is returned by Step when the environment has not been
// reset since construction, since the last terminal step, or since a
// module was swapped.
var ErrNeedsReset = errors.New("environment must be reset before stepping")

// Info carries optional per-step or per-reset metadata produced by a
// module for downstream consumers.
type Info map[string]interface{}

// Observation is the composite observation of the environment: the
// filtered state of the physical system together with the reference
// observation of the reference generator.
type Observation struct {
	State     mat.Vector
	Reference mat.Vector
}

// Phase is the lifecycle phase of an environment. An environment
// starts Uninitialized, becomes Ready on Reset, and becomes Done when
// a step terminates the episode. Only a Ready environment may be
// stepped; any phase may be reset.
type Phase int

const (
	Uninitialized Phase = iota
	Ready
	Done
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "Uninitialized"
	case Ready:
		return "Ready"
	case Done:
		return "Done"
	}
	return "Unknown"
}

// PhysicalSystem is the simulated plant. It publishes its action and
// state spaces, the ordered unique names of its state dimensions, the
// per-dimension absolute limits, and the cycle time tau. Simulate
// advances the plant by one step of length tau and increments the step
// counter k; Reset restores the initial state and sets k to 0.
//
// The lengths of the state space, the state names, and the limits must
// agree. A PhysicalSystem is owned exclusively by one environment.
type PhysicalSystem interface {
	ActionSpace() spaces.Space
	StateSpace() *spaces.Box
	StateNames() []string
	Limits() mat.Vector
	Tau() float64
	K() int
	Reset() mat.Vector
	Simulate(action mat.Vector) (mat.Vector, error)
	Close() error
}

// ReferenceGenerator produces the reference trajectory the agent is
// rewarded for tracking. Reference returns the reference value for
// every state dimension aligned to the given state;
// ReferenceObservation returns the encoding of the current reference
// that is part of the agent's observation. Reset produces both for the
// initial state along with optional metadata. Trajectory exposes the
// recent reference history for visualization.
type ReferenceGenerator interface {
	ReferenceSpace() spaces.Space
	Reset(initialState mat.Vector) (reference, observation mat.Vector, info Info)
	Reference(state mat.Vector) mat.Vector
	ReferenceObservation(state mat.Vector) mat.Vector
	Trajectory() mat.Matrix
	Close() error
}

// RewardFunction maps a state and a reference onto a reward and an
// episode-termination flag. SetModules binds the reward function to a
// concrete physical system and reference generator and must be called
// before Reward. Reset informs the reward function of the initial
// state and reference of a new episode along with the metadata the
// reference generator produced on its own reset.
type RewardFunction interface {
	SetModules(ps PhysicalSystem, rg ReferenceGenerator) error
	Reset(initialState, initialReference mat.Vector, info Info)
	Reward(state, reference mat.Vector) (reward float64, done bool)
	RewardRange() r1.Interval
	Close() error
}

// Visualization consumes state and reference trajectories for
// rendering. The core consumes no return values from a visualization
// apart from its teardown error.
type Visualization interface {
	Reset(referenceTrajectory mat.Matrix, referenceObservation mat.Vector)
	Step(state, reference mat.Vector, reward float64)
	Close() error
}

// noVisualization is the visualization used when an environment is
// constructed without one.
type noVisualization struct{}

func (noVisualization) Reset(mat.Matrix, mat.Vector)         {}
func (noVisualization) Step(mat.Vector, mat.Vector, float64) {}
func (noVisualization) Close() error                         { return nil }
