package environment_test

import (
	"errors"
	"fmt"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/magic-alt/gym-electric-motor/environment"
	"github.com/magic-alt/gym-electric-motor/spaces"
)

// dummySystem is a physical system whose state after k steps is k/10
// in every dimension.
type dummySystem struct {
	names      []string
	limits     *mat.VecDense
	action     spaces.Space
	states     *spaces.Box
	state      *mat.VecDense
	k          int
	lastAction mat.Vector
	closed     bool
	closeErr   error
}

func newDummySystem(n int, prefix string) *dummySystem {
	names := make([]string, n)
	limits := make([]float64, n)
	for i := range names {
		names[i] = fmt.Sprintf("%v_%v", prefix, i)
		limits[i] = float64((i + 1) * 10)
	}
	return &dummySystem{
		names:  names,
		limits: mat.NewVecDense(n, limits),
		action: spaces.NewDiscrete(3, 11),
		states: spaces.NewUniformBox(-1, 1, n, 11),
		state:  mat.NewVecDense(n, nil),
	}
}

func (d *dummySystem) ActionSpace() spaces.Space { return d.action }
func (d *dummySystem) StateSpace() *spaces.Box   { return d.states }
func (d *dummySystem) StateNames() []string      { return d.names }
func (d *dummySystem) Limits() mat.Vector        { return d.limits }
func (d *dummySystem) Tau() float64              { return 1e-4 }
func (d *dummySystem) K() int                    { return d.k }

func (d *dummySystem) Reset() mat.Vector {
	d.k = 0
	for i := 0; i < d.state.Len(); i++ {
		d.state.SetVec(i, 0)
	}
	return d.cloneState()
}

func (d *dummySystem) Simulate(action mat.Vector) (mat.Vector, error) {
	d.lastAction = action
	d.k++
	for i := 0; i < d.state.Len(); i++ {
		d.state.SetVec(i, float64(d.k)/10)
	}
	return d.cloneState(), nil
}

func (d *dummySystem) Close() error {
	d.closed = true
	return d.closeErr
}

func (d *dummySystem) cloneState() mat.Vector {
	out := mat.NewVecDense(d.state.Len(), nil)
	out.CloneFromVec(d.state)
	return out
}

// dummyReference produces a constant reference of 0.5 for every state
// dimension.
type dummyReference struct {
	space          spaces.Space
	lastResetState mat.Vector
	lastRefState   mat.Vector
	closed         bool
}

func newDummyReference() *dummyReference {
	return &dummyReference{space: spaces.NewUniformBox(-1, 1, 1, 13)}
}

func (d *dummyReference) ReferenceSpace() spaces.Space { return d.space }

func (d *dummyReference) Reset(initial mat.Vector) (mat.Vector, mat.Vector,
	env.Info) {
	d.lastResetState = initial
	return d.Reference(initial), d.ReferenceObservation(initial),
		env.Info{"profile": "dummy"}
}

func (d *dummyReference) Reference(state mat.Vector) mat.Vector {
	d.lastRefState = state
	out := mat.NewVecDense(state.Len(), nil)
	for i := 0; i < out.Len(); i++ {
		out.SetVec(i, 0.5)
	}
	return out
}

func (d *dummyReference) ReferenceObservation(state mat.Vector) mat.Vector {
	return mat.NewVecDense(1, []float64{0.5})
}

func (d *dummyReference) Trajectory() mat.Matrix { return &mat.Dense{} }

func (d *dummyReference) Close() error {
	d.closed = true
	return nil
}

// dummyReward returns reward 1 until armed, then reward -1 with
// termination.
type dummyReward struct {
	done          bool
	closed        bool
	moduleCalls   int
	lastResetRef  mat.Vector
	lastResetStat mat.Vector
	lastResetInfo env.Info
}

func (d *dummyReward) SetModules(env.PhysicalSystem,
	env.ReferenceGenerator) error {
	d.moduleCalls++
	return nil
}

func (d *dummyReward) Reset(state, reference mat.Vector, info env.Info) {
	d.lastResetStat = state
	d.lastResetRef = reference
	d.lastResetInfo = info
}

func (d *dummyReward) Reward(state, reference mat.Vector) (float64, bool) {
	if d.done {
		return -1, true
	}
	return 1, false
}

func (d *dummyReward) RewardRange() r1.Interval {
	return r1.Interval{Min: -1, Max: 1}
}

func (d *dummyReward) Close() error {
	d.closed = true
	return nil
}

// dummyVis counts lifecycle calls.
type dummyVis struct {
	resets int
	steps  int
	closed int
}

func (d *dummyVis) Reset(mat.Matrix, mat.Vector)         { d.resets++ }
func (d *dummyVis) Step(mat.Vector, mat.Vector, float64) { d.steps++ }
func (d *dummyVis) Close() error {
	d.closed++
	return nil
}

func newTestEnv(t *testing.T, n int, filter []string) (*env.ElectricMotorEnv,
	*dummySystem, *dummyReference, *dummyReward, *dummyVis) {
	t.Helper()
	ps := newDummySystem(n, "dummy_state")
	rg := newDummyReference()
	rf := &dummyReward{}
	vs := &dummyVis{}

	e, err := env.New(ps, rg, rf, vs, filter, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return e, ps, rg, rf, vs
}

func TestStepBeforeResetFails(t *testing.T) {
	e, _, _, _, _ := newTestEnv(t, 3, nil)

	_, _, _, _, err := e.Step(e.ActionSpace().Sample())
	if !errors.Is(err, env.ErrNeedsReset) {
		t.Errorf("step before reset: got %v, want ErrNeedsReset", err)
	}
}

func TestResetReturnsPlantState(t *testing.T) {
	e, ps, rg, rf, vs := newTestEnv(t, 3, nil)

	obs, err := e.Reset()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}

	if !e.ObservationSpace().Contains([]mat.Vector{obs.State,
		obs.Reference}) {
		t.Error("reset: observation not in observation space")
	}
	for i := 0; i < obs.State.Len(); i++ {
		if obs.State.AtVec(i) != ps.state.AtVec(i) {
			t.Errorf("reset: state %v is %v, want plant state %v", i,
				obs.State.AtVec(i), ps.state.AtVec(i))
		}
	}
	if rg.lastResetState == nil {
		t.Error("reset: no state passed to the reference generator")
	}
	if rf.lastResetStat == nil || rf.lastResetRef == nil {
		t.Error("reset: no state/reference passed to the reward function")
	}
	if rf.lastResetInfo["profile"] != "dummy" {
		t.Error("reset: reference metadata not passed to the reward function")
	}
	if vs.resets != 1 {
		t.Errorf("reset: visualization reset %v times, want 1", vs.resets)
	}
}

func TestStep(t *testing.T) {
	e, ps, rg, _, vs := newTestEnv(t, 3, nil)

	if _, err := e.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	action := e.ActionSpace().Sample()
	obs, reward, done, _, err := e.Step(action)
	if err != nil {
		t.Fatalf("step: %v", err)
	}

	if ps.lastAction != action {
		t.Error("step: action not passed to the physical system")
	}
	if rg.lastRefState == nil {
		t.Error("step: state not passed to the reference generator")
	}
	for i := 0; i < obs.State.Len(); i++ {
		if obs.State.AtVec(i) != ps.state.AtVec(i) {
			t.Errorf("step: state %v is %v, want plant state %v", i,
				obs.State.AtVec(i), ps.state.AtVec(i))
		}
	}
	if reward != 1 || done {
		t.Errorf("step: got (%v, %v), want (1, false)", reward, done)
	}
	if vs.steps != 1 {
		t.Errorf("step: visualization stepped %v times, want 1", vs.steps)
	}
	if !e.ObservationSpace().Contains([]mat.Vector{obs.State,
		obs.Reference}) {
		t.Error("step: observation not in observation space")
	}
}

func TestStepAfterDoneFails(t *testing.T) {
	e, _, _, rf, _ := newTestEnv(t, 3, nil)

	if _, err := e.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	rf.done = true
	_, reward, done, _, err := e.Step(e.ActionSpace().Sample())
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if reward != -1 || !done {
		t.Errorf("terminal step: got (%v, %v), want (-1, true)", reward, done)
	}
	if e.Phase() != env.Done {
		t.Errorf("terminal step: phase is %v, want Done", e.Phase())
	}

	_, _, _, _, err = e.Step(e.ActionSpace().Sample())
	if !errors.Is(err, env.ErrNeedsReset) {
		t.Errorf("step after done: got %v, want ErrNeedsReset", err)
	}

	rf.done = false
	if _, err := e.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, _, _, _, err := e.Step(e.ActionSpace().Sample()); err != nil {
		t.Errorf("step after reset: %v", err)
	}
}

func TestObservationSpaceWithStateFilter(t *testing.T) {
	e, _, _, _, _ := newTestEnv(t, 3,
		[]string{"dummy_state_0", "dummy_state_2"})

	stateSpace, ok := e.ObservationSpace().At(0).(*spaces.Box)
	if !ok {
		t.Fatal("observation space state component is no Box")
	}
	if stateSpace.Len() != 2 {
		t.Errorf("filtered state space has %v dims, want 2",
			stateSpace.Len())
	}

	obs, err := e.Reset()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if obs.State.Len() != 2 {
		t.Errorf("filtered state has %v dims, want 2", obs.State.Len())
	}
}

func TestStateFilterUnknownNameFails(t *testing.T) {
	ps := newDummySystem(3, "dummy_state")
	_, err := env.New(ps, newDummyReference(), &dummyReward{}, nil,
		[]string{"no_such_state"}, nil)
	if err == nil {
		t.Error("new: expected error for unknown state filter entry")
	}
}

func TestEmptyStateFilterFails(t *testing.T) {
	ps := newDummySystem(3, "dummy_state")
	_, err := env.New(ps, newDummyReference(), &dummyReward{}, nil,
		[]string{}, nil)
	if err == nil {
		t.Error("new: expected error for a filter retaining no states")
	}
}

func TestLimits(t *testing.T) {
	tests := []struct {
		states int
		filter []string
		want   []float64
	}{
		{1, []string{"dummy_state_0"}, []float64{10}},
		{3, []string{"dummy_state_0", "dummy_state_1", "dummy_state_2"},
			[]float64{10, 20, 30}},
		{3, []string{"dummy_state_1"}, []float64{20}},
	}

	for _, test := range tests {
		e, _, _, _, _ := newTestEnv(t, test.states, test.filter)

		limits := e.Limits()
		if limits.Len() != len(test.want) {
			t.Errorf("limits %v: got %v values, want %v", test.filter,
				limits.Len(), len(test.want))
			continue
		}
		for i, want := range test.want {
			if limits.AtVec(i) != want {
				t.Errorf("limits %v: limit %v is %v, want %v", test.filter,
					i, limits.AtVec(i), want)
			}
		}
	}
}

func TestSetReferenceGeneratorInvalidatesEpisode(t *testing.T) {
	e, _, _, _, _ := newTestEnv(t, 3, nil)

	if _, err := e.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := e.SetReferenceGenerator(newDummyReference()); err != nil {
		t.Fatalf("setReferenceGenerator: %v", err)
	}

	_, _, _, _, err := e.Step(e.ActionSpace().Sample())
	if !errors.Is(err, env.ErrNeedsReset) {
		t.Errorf("step after generator change: got %v, want ErrNeedsReset",
			err)
	}

	if _, err := e.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, _, _, _, err := e.Step(e.ActionSpace().Sample()); err != nil {
		t.Errorf("step after reset: %v", err)
	}
}

func TestSetRewardFunctionInvalidatesEpisode(t *testing.T) {
	e, _, _, _, _ := newTestEnv(t, 3, nil)

	if _, err := e.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	replacement := &dummyReward{}
	if err := e.SetRewardFunction(replacement); err != nil {
		t.Fatalf("setRewardFunction: %v", err)
	}
	if replacement.moduleCalls != 1 {
		t.Errorf("setRewardFunction: setModules called %v times, want 1",
			replacement.moduleCalls)
	}

	_, _, _, _, err := e.Step(e.ActionSpace().Sample())
	if !errors.Is(err, env.ErrNeedsReset) {
		t.Errorf("step after reward change: got %v, want ErrNeedsReset", err)
	}

	if _, err := e.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, _, _, _, err := e.Step(e.ActionSpace().Sample()); err != nil {
		t.Errorf("step after reset: %v", err)
	}
}

func TestClose(t *testing.T) {
	e, ps, rg, rf, vs := newTestEnv(t, 3, nil)

	if err := e.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !ps.closed || !rf.closed || !rg.closed || vs.closed != 1 {
		t.Error("close: not every module was closed")
	}
}

func TestCloseAggregatesErrors(t *testing.T) {
	e, ps, rg, _, vs := newTestEnv(t, 3, nil)
	ps.closeErr = errors.New("plant teardown failed")

	err := e.Close()
	if err == nil {
		t.Fatal("close: expected the plant teardown error")
	}
	if !rg.closed || vs.closed != 1 {
		t.Error("close: remaining modules not closed after a failure")
	}
}
