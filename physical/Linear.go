package physical

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/magic-alt/gym-electric-motor/spaces"
	"github.com/magic-alt/gym-electric-motor/utils/floatutils"
)

// Linear is a discrete-time linear system x' = Ax + Bu operating on
// normalized states: every state dimension lives in [-1, 1] relative
// to its limit, and every action dimension lives in [-1, 1]. Actions
// outside the action space are clipped before propagation; states are
// clipped to the state space after propagation.
type Linear struct {
	*Base
	a       *mat.Dense
	b       *mat.Dense
	initial *mat.VecDense
	state   *mat.VecDense
}

// NewLinear creates and returns a new Linear system with the given
// system matrix a, input matrix b, initial state, state names, limits,
// and cycle time tau. The dimensions of a and b must agree with the
// number of state names.
func NewLinear(a, b *mat.Dense, initial mat.Vector, stateNames []string,
	limits mat.Vector, tau float64, seed uint64) (*Linear, error) {
	n := len(stateNames)
	rows, cols := a.Dims()
	if rows != n || cols != n {
		return nil, fmt.Errorf("newLinear: system matrix is %vx%v, need "+
			"%vx%v", rows, cols, n, n)
	}
	bRows, bCols := b.Dims()
	if bRows != n {
		return nil, fmt.Errorf("newLinear: input matrix has %v rows, "+
			"need %v", bRows, n)
	}
	if initial.Len() != n {
		return nil, fmt.Errorf("newLinear: initial state length %v, "+
			"need %v", initial.Len(), n)
	}

	actionSpace := spaces.NewUniformBox(-1, 1, bCols, seed)
	stateSpace := spaces.NewUniformBox(-1, 1, n, seed)

	init := mat.NewVecDense(n, nil)
	init.CloneFromVec(initial)

	system := &Linear{
		Base:    NewBase(actionSpace, stateSpace, stateNames, limits, tau),
		a:       mat.DenseCopyOf(a),
		b:       mat.DenseCopyOf(b),
		initial: init,
		state:   mat.NewVecDense(n, nil),
	}
	system.state.CloneFromVec(init)
	return system, nil
}

// Reset restores the initial state and sets the step counter to 0
func (l *Linear) Reset() mat.Vector {
	l.state.CloneFromVec(l.initial)
	l.ResetK()

	out := mat.NewVecDense(l.state.Len(), nil)
	out.CloneFromVec(l.state)
	return out
}

// Simulate propagates the system by one cycle under the given action
// and returns the next state. The action is clipped to the action
// space element-wise.
func (l *Linear) Simulate(action mat.Vector) (mat.Vector, error) {
	_, inputs := l.b.Dims()
	if action.Len() != inputs {
		return nil, fmt.Errorf("simulate: action length %v, need %v",
			action.Len(), inputs)
	}

	low := l.ActionSpace().Low()
	high := l.ActionSpace().High()
	clipped := mat.NewVecDense(inputs, nil)
	for i := 0; i < inputs; i++ {
		clipped.SetVec(i, floatutils.Clip(action.AtVec(i), low.AtVec(i),
			high.AtVec(i)))
	}

	next := mat.NewVecDense(l.state.Len(), nil)
	next.MulVec(l.a, l.state)

	forced := mat.NewVecDense(l.state.Len(), nil)
	forced.MulVec(l.b, clipped)
	next.AddVec(next, forced)

	sLow := l.StateSpace().Low()
	sHigh := l.StateSpace().High()
	for i := 0; i < next.Len(); i++ {
		next.SetVec(i, floatutils.Clip(next.AtVec(i), sLow.AtVec(i),
			sHigh.AtVec(i)))
	}

	l.state.CloneFromVec(next)
	l.IncrementK()

	out := mat.NewVecDense(next.Len(), nil)
	out.CloneFromVec(next)
	return out, nil
}

// Close releases the system's resources. Linear holds none.
func (l *Linear) Close() error {
	return nil
}
