// Package reward implements reward functions: the modules that map a
// state and a reference onto a reward and decide episode termination
// on limit violations. The Base reward function implements the
// violation-detection control flow and delegates the numeric policy to
// a Shaper; WeightedSumOfErrors is the default concrete shaper.
package reward

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/magic-alt/gym-electric-motor/environment"
)

// Group tokens resolvable in an observed-states specification. Each
// token maps onto a predicate over state names; tokens combine with
// literal state names and each other by union.
var groups = map[string]func(string) bool{
	"all":      func(string) bool { return true },
	"currents": func(name string) bool { return strings.HasPrefix(name, "i_") },
	"voltages": func(name string) bool { return strings.HasPrefix(name, "u_") },
	"omega":    func(name string) bool { return name == "omega" },
	"torque":   func(name string) bool { return name == "torque" },
}

// Shaper is the numeric reward policy of a Base reward function.
// StandardReward scores a non-violating step; LimitViolationReward
// scores the terminal violating step.
type Shaper interface {
	StandardReward(state, reference mat.Vector) float64
	LimitViolationReward(state, reference mat.Vector) float64
	RewardRange() r1.Interval
}

// Base implements the reward function contract around a Shaper. Base
// resolves the observed-states specification against the concrete
// state names at SetModules time and checks every observed dimension
// for limit violations on each Reward call. A violation is a
// normalized magnitude strictly greater than 1; the check is symmetric
// in sign, and exactly 1 is not a violation.
type Base struct {
	Shaper

	observedSpec []string
	observed     []bool
}

// NewBase creates and returns a new Base reward function observing the
// given states. Entries of observedStates are state names or group
// tokens ("all", "currents", "voltages", "omega", "torque"); the union
// of all entries is observed. The shaper must not be nil.
func NewBase(observedStates []string, shaper Shaper) *Base {
	return &Base{
		Shaper:       shaper,
		observedSpec: observedStates,
	}
}

// SetModules binds the reward function to a concrete physical system,
// resolving the observed-states specification into a boolean mask over
// the system's state names. SetModules must be called before Reward.
// Entries that are neither a group token nor a state name are a
// configuration error.
func (b *Base) SetModules(ps environment.PhysicalSystem,
	_ environment.ReferenceGenerator) error {
	stateNames := ps.StateNames()
	observed := make([]bool, len(stateNames))

	for _, entry := range b.observedSpec {
		if predicate, ok := groups[entry]; ok {
			for i, name := range stateNames {
				observed[i] = observed[i] || predicate(name)
			}
			continue
		}

		found := false
		for i, name := range stateNames {
			if name == entry {
				observed[i] = true
				found = true
			}
		}
		if !found {
			return fmt.Errorf("setModules: observed state %q is neither a "+
				"group token nor a state of the physical system", entry)
		}
	}

	b.observed = observed
	return nil
}

// ObservedStates returns the resolved observation mask aligned to the
// physical system's state names. ObservedStates returns nil before
// SetModules.
func (b *Base) ObservedStates() []bool {
	return b.observed
}

// Reset informs the reward function of the initial state, reference,
// and reference metadata of a new episode. Base keeps no episodic
// state.
func (b *Base) Reset(initialState, initialReference mat.Vector,
	info environment.Info) {
}

// Reward scores a state/reference pair. If any observed state
// dimension exceeds its normalized limit in magnitude, Reward returns
// the shaper's limit-violation reward and terminates the episode;
// otherwise it returns the shaper's standard reward.
func (b *Base) Reward(state, reference mat.Vector) (float64, bool) {
	for i, observed := range b.observed {
		if observed && math.Abs(state.AtVec(i)) > 1.0 {
			return b.LimitViolationReward(state, reference), true
		}
	}
	return b.StandardReward(state, reference), false
}

// Close releases the reward function's resources. Base holds none.
func (b *Base) Close() error {
	return nil
}
