// Package reference implements reference generators: the modules that
// produce the target trajectories an agent is rewarded for tracking.
// The Base generator composes a trajectory Profile into the reference
// generator contract; concrete profiles decide the shape of the
// trajectory (constant, sinusoid, random walk, step profile).
package reference

import (
	"gonum.org/v1/gonum/mat"

	"github.com/magic-alt/gym-electric-motor/environment"
	"github.com/magic-alt/gym-electric-motor/spaces"
)

// Profile is the trajectory-generation policy of a Base generator.
// Reference returns the reference value for every state dimension
// aligned to the given state; ReferenceObservation returns the
// observation encoding of the current reference. Concrete profiles
// implement these two hooks and nothing else of the generator
// contract.
type Profile interface {
	Reference(state mat.Vector) mat.Vector
	ReferenceObservation(state mat.Vector) mat.Vector
}

// Starter is implemented by profiles that re-draw their trajectory at
// the start of every episode.
type Starter interface {
	Start()
}

// Base implements the reference generator contract by composing the
// two Profile hooks. Reset is pure composition: it starts the profile
// when the profile is a Starter and produces the initial reference and
// observation through the hooks. Base also keeps the recent reference
// history for visualization.
type Base struct {
	Profile

	space      spaces.Space
	trajectory [][]float64
	horizon    int
}

// NewBase creates and returns a new Base generator around the given
// profile. The space describes the observation the generator
// contributes to the environment's observation space; horizon is the
// number of recent reference values kept for visualization.
func NewBase(profile Profile, space spaces.Space, horizon int) *Base {
	return &Base{
		Profile: profile,
		space:   space,
		horizon: horizon,
	}
}

// ReferenceSpace returns the space of the generator's observations
func (b *Base) ReferenceSpace() spaces.Space {
	return b.space
}

// Reset produces the reference and reference observation for the
// initial state of a new episode. The returned info is nil; profiles
// carry no metadata.
func (b *Base) Reset(initialState mat.Vector) (mat.Vector, mat.Vector,
	environment.Info) {
	if starter, ok := b.Profile.(Starter); ok {
		starter.Start()
	}
	b.trajectory = b.trajectory[:0]

	reference := b.Reference(initialState)
	observation := b.Profile.ReferenceObservation(initialState)
	return reference, observation, nil
}

// Reference returns the reference aligned to the given state and
// records it in the trajectory history.
func (b *Base) Reference(state mat.Vector) mat.Vector {
	reference := b.Profile.Reference(state)
	b.record(reference)
	return reference
}

// Trajectory returns the recorded reference history, one row per step
// in chronological order.
func (b *Base) Trajectory() mat.Matrix {
	if len(b.trajectory) == 0 {
		return &mat.Dense{}
	}
	width := len(b.trajectory[0])
	out := mat.NewDense(len(b.trajectory), width, nil)
	for i, row := range b.trajectory {
		out.SetRow(i, row)
	}
	return out
}

// Close releases the generator's resources. Base holds none.
func (b *Base) Close() error {
	return nil
}

func (b *Base) record(reference mat.Vector) {
	row := make([]float64, reference.Len())
	for i := range row {
		row[i] = reference.AtVec(i)
	}
	if len(b.trajectory) == b.horizon {
		b.trajectory = append(b.trajectory[1:], row)
		return
	}
	b.trajectory = append(b.trajectory, row)
}
