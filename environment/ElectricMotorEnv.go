package environment

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/magic-alt/gym-electric-motor/spaces"
)

// ElectricMotorEnv composes a physical system, a reference generator,
// a reward function, and a visualization into a step-wise simulation
// with the usual reset/step/close lifecycle.
//
// The action space is the physical system's action space. The
// observation space is the tuple of the state space restricted to the
// state filter and the reference generator's reference space. One
// caller drives one environment sequentially; an environment instance
// owns its modules exclusively.
type ElectricMotorEnv struct {
	physicalSystem     PhysicalSystem
	referenceGenerator ReferenceGenerator
	rewardFunction     RewardFunction
	visualization      Visualization

	// stateFilter holds the retained state dimension indices in state
	// order
	stateFilter []int

	actionSpace      spaces.Space
	observationSpace *spaces.Tuple

	phase Phase
}

// New creates and returns a new ElectricMotorEnv. The physical system,
// reference generator, and reward function may each be given either as
// an already constructed instance or as a string key to be resolved
// through the registry with the given kwargs. The visualization may
// additionally be nil, in which case no rendering takes place.
//
// stateFilter names the state dimensions retained in observations; nil
// retains all of them. Names not present in the physical system's
// state names are a configuration error.
func New(physicalSystem, referenceGenerator, rewardFunction,
	visualization interface{}, stateFilter []string,
	kwargs Kwargs) (*ElectricMotorEnv, error) {
	ps, err := Instantiate(PhysicalSystems, physicalSystem, kwargs)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	rg, err := Instantiate(ReferenceGenerators, referenceGenerator, kwargs)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	rf, err := Instantiate(RewardFunctions, rewardFunction, kwargs)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	var vis Visualization = noVisualization{}
	if visualization != nil {
		v, err := Instantiate(Visualizations, visualization, kwargs)
		if err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
		vis = v.(Visualization)
	}

	env := &ElectricMotorEnv{
		physicalSystem:     ps.(PhysicalSystem),
		referenceGenerator: rg.(ReferenceGenerator),
		rewardFunction:     rf.(RewardFunction),
		visualization:      vis,
		phase:              Uninitialized,
	}

	env.stateFilter, err = resolveStateFilter(
		env.physicalSystem.StateNames(), stateFilter)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	if err := env.rewardFunction.SetModules(env.physicalSystem,
		env.referenceGenerator); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	env.actionSpace = env.physicalSystem.ActionSpace()
	env.observationSpace = spaces.NewTuple(
		env.physicalSystem.StateSpace().Project(env.stateFilter),
		env.referenceGenerator.ReferenceSpace(),
	)
	return env, nil
}

// resolveStateFilter maps the retained state names onto state
// dimension indices. Indices follow the order of the state names, not
// the order of the filter. Every filter entry must name a state.
func resolveStateFilter(stateNames, filter []string) ([]int, error) {
	if filter == nil {
		indices := make([]int, len(stateNames))
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}
	if len(filter) == 0 {
		return nil, fmt.Errorf("state filter retains no state dimensions")
	}

	retain := make(map[string]bool, len(filter))
	for _, name := range filter {
		retain[name] = true
	}

	var indices []int
	for i, name := range stateNames {
		if retain[name] {
			indices = append(indices, i)
			delete(retain, name)
		}
	}
	for name := range retain {
		return nil, fmt.Errorf("state filter entry %q is not a state of "+
			"the physical system", name)
	}
	return indices, nil
}

// PhysicalSystem returns the environment's physical system
func (e *ElectricMotorEnv) PhysicalSystem() PhysicalSystem {
	return e.physicalSystem
}

// ReferenceGenerator returns the environment's reference generator
func (e *ElectricMotorEnv) ReferenceGenerator() ReferenceGenerator {
	return e.referenceGenerator
}

// RewardFunction returns the environment's reward function
func (e *ElectricMotorEnv) RewardFunction() RewardFunction {
	return e.rewardFunction
}

// Phase returns the current lifecycle phase of the environment
func (e *ElectricMotorEnv) Phase() Phase {
	return e.phase
}

// ActionSpace returns the action space of the physical system
func (e *ElectricMotorEnv) ActionSpace() spaces.Space {
	return e.actionSpace
}

// ObservationSpace returns the composite observation space: the state
// space restricted to the state filter, and the reference space.
func (e *ElectricMotorEnv) ObservationSpace() *spaces.Tuple {
	return e.observationSpace
}

// RewardRange returns the reward range of the reward function
func (e *ElectricMotorEnv) RewardRange() r1.Interval {
	return e.rewardFunction.RewardRange()
}

// Limits returns the physical system's limits restricted to the state
// filter, preserving state order.
func (e *ElectricMotorEnv) Limits() mat.Vector {
	return e.filterState(e.physicalSystem.Limits())
}

// SetReferenceGenerator replaces the environment's reference
// generator. The running episode is invalidated: the environment must
// be reset before the next step. The reward function is rebound to the
// new generator.
func (e *ElectricMotorEnv) SetReferenceGenerator(rg ReferenceGenerator) error {
	e.referenceGenerator = rg
	e.phase = Uninitialized
	if err := e.rewardFunction.SetModules(e.physicalSystem, rg); err != nil {
		return fmt.Errorf("setReferenceGenerator: %v", err)
	}
	return nil
}

// SetRewardFunction replaces the environment's reward function. The
// running episode is invalidated: the environment must be reset before
// the next step.
func (e *ElectricMotorEnv) SetRewardFunction(rf RewardFunction) error {
	if err := rf.SetModules(e.physicalSystem,
		e.referenceGenerator); err != nil {
		return fmt.Errorf("setRewardFunction: %v", err)
	}
	e.rewardFunction = rf
	e.phase = Uninitialized
	return nil
}

// Reset starts a new episode. The physical system is reset to its
// initial state, the reference generator produces the initial
// reference for that state, and the visualization and reward function
// are informed; the generator's reset metadata is handed on to the
// reward function. Reset returns the composite initial observation.
func (e *ElectricMotorEnv) Reset() (Observation, error) {
	state := e.physicalSystem.Reset()
	reference, referenceObs, info := e.referenceGenerator.Reset(state)
	e.visualization.Reset(e.referenceGenerator.Trajectory(), referenceObs)
	e.rewardFunction.Reset(state, reference, info)
	e.phase = Ready

	return Observation{
		State:     e.filterState(state),
		Reference: referenceObs,
	}, nil
}

// Step advances the environment by one cycle: the physical system
// simulates the action, the reference generator produces the reference
// aligned to the new state, and the reward function scores the pair
// and decides termination. Step fails with ErrNeedsReset unless the
// environment is Ready.
func (e *ElectricMotorEnv) Step(action mat.Vector) (Observation, float64,
	bool, Info, error) {
	switch e.phase {
	case Uninitialized:
		return Observation{}, 0, false, nil,
			fmt.Errorf("step: %w: no reset since construction or module "+
				"change", ErrNeedsReset)
	case Done:
		return Observation{}, 0, false, nil,
			fmt.Errorf("step: %w: episode has terminated", ErrNeedsReset)
	}

	state, err := e.physicalSystem.Simulate(action)
	if err != nil {
		return Observation{}, 0, false, nil, fmt.Errorf("step: %v", err)
	}

	reference := e.referenceGenerator.Reference(state)
	referenceObs := e.referenceGenerator.ReferenceObservation(state)
	reward, done := e.rewardFunction.Reward(state, reference)
	e.visualization.Step(state, reference, reward)

	if done {
		e.phase = Done
	}

	obs := Observation{
		State:     e.filterState(state),
		Reference: referenceObs,
	}
	return obs, reward, done, Info{}, nil
}

// Close tears down the physical system, the reward function, the
// reference generator, and the visualization, in that order. All four
// are always closed; their errors are aggregated.
func (e *ElectricMotorEnv) Close() error {
	return errors.Join(
		e.physicalSystem.Close(),
		e.rewardFunction.Close(),
		e.referenceGenerator.Close(),
		e.visualization.Close(),
	)
}

// filterState returns the elements of state selected by the state
// filter, in state order.
func (e *ElectricMotorEnv) filterState(state mat.Vector) mat.Vector {
	filtered := mat.NewVecDense(len(e.stateFilter), nil)
	for i, index := range e.stateFilter {
		filtered.SetVec(i, state.AtVec(index))
	}
	return filtered
}
