package reward

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/magic-alt/gym-electric-motor/environment"
)

// WeightedSumOfErrors rewards the negative weighted sum of the
// tracking errors |state - reference|^power over all state
// dimensions, normalized by the total weight. Rewards lie in
// [-2^power, 0] on normalized states; a limit violation yields a
// fixed, typically much lower, reward.
type WeightedSumOfErrors struct {
	*Base
	weights         []float64
	power           float64
	violationReward float64
	totalWeight     float64
}

// NewWeightedSumOfErrors creates and returns a new WeightedSumOfErrors
// reward function observing the given states for limit violations.
// weights holds one weight per state dimension; nil weighs all
// dimensions equally. power is the error exponent (1 for absolute
// error, 2 for squared error).
func NewWeightedSumOfErrors(observedStates []string, weights []float64,
	power, violationReward float64) *WeightedSumOfErrors {
	w := &WeightedSumOfErrors{
		weights:         weights,
		power:           power,
		violationReward: violationReward,
	}
	w.Base = NewBase(observedStates, w)
	return w
}

// SetModules binds the reward function to a concrete physical system.
// Given weights must have one entry per state dimension.
func (w *WeightedSumOfErrors) SetModules(ps environment.PhysicalSystem,
	rg environment.ReferenceGenerator) error {
	if err := w.Base.SetModules(ps, rg); err != nil {
		return err
	}

	n := len(ps.StateNames())
	if w.weights == nil {
		w.weights = make([]float64, n)
		for i := range w.weights {
			w.weights[i] = 1
		}
	} else if len(w.weights) != n {
		return fmt.Errorf("setModules: %v reward weights given for %v "+
			"state dimensions", len(w.weights), n)
	}

	w.totalWeight = 0
	for _, weight := range w.weights {
		w.totalWeight += weight
	}
	if w.totalWeight == 0 {
		return fmt.Errorf("setModules: reward weights must not sum to 0")
	}
	return nil
}

// StandardReward returns the negative normalized weighted sum of
// errors between state and reference.
func (w *WeightedSumOfErrors) StandardReward(state,
	reference mat.Vector) float64 {
	sum := 0.0
	for i, weight := range w.weights {
		err := math.Abs(state.AtVec(i) - reference.AtVec(i))
		sum += weight * math.Pow(err, w.power)
	}
	return -sum / w.totalWeight
}

// LimitViolationReward returns the fixed violation reward
func (w *WeightedSumOfErrors) LimitViolationReward(state,
	reference mat.Vector) float64 {
	return w.violationReward
}

// RewardRange returns the range of rewards the function can produce
func (w *WeightedSumOfErrors) RewardRange() r1.Interval {
	min := -math.Pow(2, w.power)
	if w.violationReward < min {
		min = w.violationReward
	}
	return r1.Interval{Min: min, Max: 0}
}
