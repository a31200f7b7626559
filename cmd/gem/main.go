// Command gem runs electric motor environments from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/magic-alt/gym-electric-motor/environment"
	"github.com/magic-alt/gym-electric-motor/environment/envconfig"
	"github.com/magic-alt/gym-electric-motor/experiment"
	"github.com/magic-alt/gym-electric-motor/utils/progressbar"
)

var (
	configPath    string
	steps         uint
	returnsPath   string
	visualization string
)

var rootCmd = &cobra.Command{
	Use:   "gem",
	Short: "Electric motor reinforcement learning environments",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a random agent on a configured environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		config := envconfig.DefaultConfig()
		if configPath != "" {
			loaded, err := envconfig.Load(configPath)
			if err != nil {
				return err
			}
			config = loaded
		}
		if visualization != "" {
			config.Visualization = visualization
		}

		env, err := config.Create()
		if err != nil {
			return err
		}

		agent := experiment.NewRandomAgent(env.ActionSpace())
		tracker := experiment.NewReturn(returnsPath)
		exp := experiment.NewOnline(env, agent, steps,
			config.EpisodeCutoff, tracker)

		bar := progressbar.New(40, int(steps), os.Stdout)
		if err := exp.Run(func() {
			bar.Increment()
			bar.Display()
		}); err != nil {
			return err
		}
		bar.Close()

		if err := env.Close(); err != nil {
			return err
		}
		if err := exp.Save(); err != nil {
			return err
		}

		returns := tracker.Returns()
		fmt.Printf("%v episodes over %v steps\n", len(returns), steps)
		if len(returns) > 0 {
			fmt.Printf("mean episodic return: %.4f\n",
				stat.Mean(returns, nil))
		}
		return nil
	},
}

var envsCmd = &cobra.Command{
	Use:   "envs",
	Short: "List the registered environment keys",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range environment.Registered(environment.Environments) {
			fmt.Println(name)
		}
	},
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to a YAML environment configuration")
	runCmd.Flags().UintVarP(&steps, "steps", "n", 50000,
		"total number of environment steps")
	runCmd.Flags().StringVarP(&returnsPath, "returns", "r", "returns.bin",
		"file to save episodic returns to")
	runCmd.Flags().StringVarP(&visualization, "viz", "v", "",
		"visualization to attach (ConsolePrinter, TrajectoryPlot, Recorder)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(envsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
