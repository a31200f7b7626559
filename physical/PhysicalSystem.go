// Package physical implements physical systems: the simulated plants
// that environments advance one cycle per action. The package provides
// the common base that concrete plants embed and a discrete-time
// linear system used as the default test plant.
package physical

import (
	"gonum.org/v1/gonum/mat"

	"github.com/magic-alt/gym-electric-motor/spaces"
)

// Base establishes the fields every physical system exposes: the
// action and state spaces, the ordered unique state names, the
// per-dimension absolute limits, the cycle time tau, and the step
// counter k. Concrete systems embed Base and implement Reset, Simulate
// and Close.
//
// Dimensional consistency between the state space, the state names,
// and the limits is a precondition of NewBase, not a runtime check.
type Base struct {
	actionSpace spaces.Space
	stateSpace  *spaces.Box
	stateNames  []string
	limits      *mat.VecDense
	tau         float64
	k           int
}

// NewBase creates and returns a new physical system Base
func NewBase(actionSpace spaces.Space, stateSpace *spaces.Box,
	stateNames []string, limits mat.Vector, tau float64) *Base {
	l := mat.NewVecDense(limits.Len(), nil)
	l.CloneFromVec(limits)

	return &Base{
		actionSpace: actionSpace,
		stateSpace:  stateSpace,
		stateNames:  stateNames,
		limits:      l,
		tau:         tau,
	}
}

// ActionSpace returns the action space of the system
func (b *Base) ActionSpace() spaces.Space {
	return b.actionSpace
}

// StateSpace returns the state space of the system
func (b *Base) StateSpace() *spaces.Box {
	return b.stateSpace
}

// StateNames returns the ordered names of the state dimensions
func (b *Base) StateNames() []string {
	return b.stateNames
}

// Limits returns the absolute limit of each state dimension in state
// order. States are normalized to these limits, so a normalized
// magnitude above 1 denotes a limit violation.
func (b *Base) Limits() mat.Vector {
	return b.limits
}

// Tau returns the cycle time of the system
func (b *Base) Tau() float64 {
	return b.tau
}

// K returns the number of simulation steps since the last reset
func (b *Base) K() int {
	return b.k
}

// IncrementK advances the step counter. Concrete systems call
// IncrementK once per Simulate.
func (b *Base) IncrementK() {
	b.k++
}

// ResetK sets the step counter back to 0. Concrete systems call ResetK
// in their Reset.
func (b *Base) ResetK() {
	b.k = 0
}
