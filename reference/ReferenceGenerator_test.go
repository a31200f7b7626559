package reference

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/magic-alt/gym-electric-motor/spaces"
)

// countingProfile records how often each hook runs.
type countingProfile struct {
	started      int
	references   int
	observations int
	lastState    mat.Vector
}

func (c *countingProfile) Start() { c.started++ }

func (c *countingProfile) Reference(state mat.Vector) mat.Vector {
	c.references++
	c.lastState = state
	return mat.NewVecDense(2, []float64{0.25, 0})
}

func (c *countingProfile) ReferenceObservation(state mat.Vector) mat.Vector {
	c.observations++
	return mat.NewVecDense(1, []float64{0.25})
}

func TestBaseResetComposesHooks(t *testing.T) {
	profile := &countingProfile{}
	base := NewBase(profile, spaces.NewUniformBox(-1, 1, 1, 7), 10)

	initial := mat.NewVecDense(2, []float64{0.2, 0.4})
	reference, observation, info := base.Reset(initial)

	if profile.started != 1 {
		t.Errorf("reset: profile started %v times, want 1", profile.started)
	}
	if profile.references != 1 || profile.observations != 1 {
		t.Errorf("reset: hooks ran (%v, %v) times, want (1, 1)",
			profile.references, profile.observations)
	}
	if profile.lastState != mat.Vector(initial) {
		t.Error("reset: initial state not passed to the hooks")
	}
	if reference.AtVec(0) != 0.25 || observation.AtVec(0) != 0.25 {
		t.Errorf("reset: got reference %v, observation %v, want 0.25 each",
			reference.AtVec(0), observation.AtVec(0))
	}
	if info != nil {
		t.Errorf("reset: info = %v, want nil", info)
	}
}

func TestBaseTrajectory(t *testing.T) {
	profile := &countingProfile{}
	base := NewBase(profile, spaces.NewUniformBox(-1, 1, 1, 7), 3)

	state := mat.NewVecDense(2, nil)
	base.Reset(state)
	for i := 0; i < 5; i++ {
		base.Reference(state)
	}

	trajectory := base.Trajectory()
	rows, cols := trajectory.Dims()
	if rows != 3 || cols != 2 {
		t.Errorf("trajectory is %vx%v, want 3x2 after horizon wrap", rows,
			cols)
	}
}

func TestWienerStaysWithinMargin(t *testing.T) {
	gen := NewWiener(3, 1, 0.5, DefaultMargin, 42)

	state := mat.NewVecDense(3, nil)
	gen.Reset(state)
	for i := 0; i < 1000; i++ {
		reference := gen.Reference(state)
		value := reference.AtVec(1)
		if value < DefaultMargin.Min || value > DefaultMargin.Max {
			t.Fatalf("step %v: reference %v outside margin", i, value)
		}
		if reference.AtVec(0) != 0 || reference.AtVec(2) != 0 {
			t.Fatal("reference set for non-referenced dimensions")
		}

		observation := gen.ReferenceObservation(state)
		if observation.AtVec(0) != value {
			t.Fatalf("step %v: observation %v does not match reference %v",
				i, observation.AtVec(0), value)
		}
	}
}

func TestSinusoidalFollowsSine(t *testing.T) {
	tau := 0.001
	gen := NewSinusoidal(2, 0, 0.5, 50, 0.1, tau, 42)

	state := mat.NewVecDense(2, nil)
	gen.Reset(state)
	for i := 1; i < 100; i++ {
		reference := gen.Reference(state)
		want := 0.1 + 0.5*math.Sin(2*math.Pi*50*float64(i)*tau)
		if math.Abs(reference.AtVec(0)-want) > 1e-12 {
			t.Fatalf("step %v: reference %v, want %v", i,
				reference.AtVec(0), want)
		}
	}
}

func TestStepProfileHoldsLevels(t *testing.T) {
	gen := NewStepProfile(2, 0, 5, 10, DefaultMargin, 42)

	state := mat.NewVecDense(2, nil)
	gen.Reset(state)

	levels := 1
	previous := gen.ReferenceObservation(state).AtVec(0)
	holds := 1
	for i := 0; i < 200; i++ {
		value := gen.Reference(state).AtVec(0)
		if value < DefaultMargin.Min || value > DefaultMargin.Max {
			t.Fatalf("step %v: level %v outside margin", i, value)
		}
		if value != previous {
			if holds < 4 || holds > 10 {
				t.Fatalf("level held for %v steps, want within [5, 10]",
					holds)
			}
			levels++
			holds = 1
			previous = value
		} else {
			holds++
		}
	}
	if levels < 2 {
		t.Error("step profile produced a single level over 200 steps")
	}
}

func TestConstReference(t *testing.T) {
	gen := NewConst(3, 2, 0.3, 42)

	state := mat.NewVecDense(3, nil)
	reference, observation, _ := gen.Reset(state)
	if reference.AtVec(2) != 0.3 || observation.AtVec(0) != 0.3 {
		t.Errorf("got reference %v, observation %v, want 0.3 each",
			reference.AtVec(2), observation.AtVec(0))
	}
}
