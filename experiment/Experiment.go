// Package experiment implements functionality for running an
// experiment: driving an agent through the reset/step lifecycle of an
// environment while trackers cache the generated data for later
// saving.
package experiment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/magic-alt/gym-electric-motor/environment"
	"github.com/magic-alt/gym-electric-motor/spaces"
)

// Agent selects actions from observations
type Agent interface {
	Act(observation environment.Observation) mat.Vector
}

// RandomAgent selects actions uniformly from an action space. It is
// the baseline policy of the command line runner.
type RandomAgent struct {
	space spaces.Space
}

// NewRandomAgent creates and returns a new RandomAgent acting on the
// given action space
func NewRandomAgent(space spaces.Space) *RandomAgent {
	return &RandomAgent{space: space}
}

// Act returns a uniform sample of the action space
func (r *RandomAgent) Act(environment.Observation) mat.Vector {
	return r.space.Sample()
}

// Step packages the data one environment step generates for trackers
type Step struct {
	Observation environment.Observation
	Reward      float64
	Done        bool
	Number      int
}

// Tracker caches data generated during an experiment and saves it to
// disk once the experiment has finished.
type Tracker interface {
	Track(step Step)
	Save() error
}

// Online is an experiment that runs an agent online on an environment.
// Episodes end on environment termination or after the episode cutoff;
// the experiment ends once the total step budget is exhausted.
type Online struct {
	env           *environment.ElectricMotorEnv
	agent         Agent
	maxSteps      uint
	currentSteps  uint
	episodeCutoff int
	trackers      []Tracker
}

// NewOnline creates and returns a new Online experiment of at most
// maxSteps total environment steps with episodes cut off after
// episodeCutoff steps. A cutoff below 1 is treated as 1, so every
// episode consumes at least one step of the budget.
func NewOnline(env *environment.ElectricMotorEnv, agent Agent,
	maxSteps uint, episodeCutoff int, trackers ...Tracker) *Online {
	if episodeCutoff < 1 {
		episodeCutoff = 1
	}
	return &Online{
		env:           env,
		agent:         agent,
		maxSteps:      maxSteps,
		episodeCutoff: episodeCutoff,
		trackers:      trackers,
	}
}

// Register adds a tracker to the experiment
func (o *Online) Register(t Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode and returns whether the total step
// budget has been exhausted.
func (o *Online) RunEpisode() (bool, error) {
	obs, err := o.env.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: %v", err)
	}

	for steps := 0; steps < o.episodeCutoff &&
		o.currentSteps < o.maxSteps; steps++ {
		action := o.agent.Act(obs)

		next, reward, done, _, err := o.env.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}
		o.currentSteps++

		o.track(Step{
			Observation: next,
			Reward:      reward,
			Done:        done,
			Number:      steps,
		})

		if done {
			break
		}
		obs = next
	}
	return o.currentSteps >= o.maxSteps, nil
}

// Run runs episodes until the total step budget is exhausted. onStep,
// when non-nil, is called after every environment step; the command
// line runner uses it to drive its progress bar.
func (o *Online) Run(onStep func()) error {
	ended := false
	for !ended {
		before := o.currentSteps

		var err error
		ended, err = o.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %v", err)
		}

		if onStep != nil {
			for i := before; i < o.currentSteps; i++ {
				onStep()
			}
		}
	}
	return nil
}

// Save saves the data of all registered trackers
func (o *Online) Save() error {
	for _, tracker := range o.trackers {
		if err := tracker.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

func (o *Online) track(step Step) {
	for _, tracker := range o.trackers {
		tracker.Track(step)
	}
}
