package envconfig

import (
	"os"

	"github.com/magic-alt/gym-electric-motor/environment"
	"github.com/magic-alt/gym-electric-motor/visualization"
)

// configFrom returns the *Config passed under the "config" kwarg, or
// the default configuration. Every constructor registered by this
// package resolves its parameters this way, so a single kwarg
// reconfigures all modules consistently.
func configFrom(kwargs environment.Kwargs) *Config {
	if config, ok := kwargs["config"].(*Config); ok {
		return config
	}
	return DefaultConfig()
}

func init() {
	environment.Register(environment.PhysicalSystems, KeyLinearSystem,
		func(kwargs environment.Kwargs) (interface{}, error) {
			return configFrom(kwargs).buildSystem()
		})

	referenceTypes := []string{KeyWienerReference, KeySinusoidalReference,
		KeyStepReference, KeyConstReference}
	for _, key := range referenceTypes {
		key := key
		environment.Register(environment.ReferenceGenerators, key,
			func(kwargs environment.Kwargs) (interface{}, error) {
				// copy so resolving a key never rewrites the caller's config
				config := *configFrom(kwargs)
				config.Reference.Type = key
				return config.buildReference()
			})
	}

	environment.Register(environment.RewardFunctions, KeyWeightedSumOfErrors,
		func(kwargs environment.Kwargs) (interface{}, error) {
			return configFrom(kwargs).buildReward(), nil
		})

	environment.Register(environment.Visualizations, KeyConsolePrinter,
		func(kwargs environment.Kwargs) (interface{}, error) {
			return visualization.NewConsole(os.Stdout,
				kwargs.Int("plot_index", 0)), nil
		})
	environment.Register(environment.Visualizations, KeyTrajectoryPlot,
		func(kwargs environment.Kwargs) (interface{}, error) {
			return visualization.NewPlot(
				kwargs.String("plot_file", "trajectory.png"),
				kwargs.Int("plot_index", 0)), nil
		})
	environment.Register(environment.Visualizations, KeyRecorder,
		func(kwargs environment.Kwargs) (interface{}, error) {
			return visualization.NewRecorder(
				kwargs.Int("capacity", DefaultConfig().EpisodeCutoff)), nil
		})

	environment.Register(environment.Environments, KeyLinearTracking,
		func(kwargs environment.Kwargs) (interface{}, error) {
			return configFrom(kwargs).Create()
		})
}
