// Package envconfig provides configuration structs for building
// complete electric motor environments with default parameters.
// Configurations are YAML serializable, and the package registers the
// default module constructors so that environments can also be built
// purely from symbolic keys through the registry.
package envconfig

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/magic-alt/gym-electric-motor/environment"
	"github.com/magic-alt/gym-electric-motor/physical"
	"github.com/magic-alt/gym-electric-motor/reference"
	"github.com/magic-alt/gym-electric-motor/reward"
	"github.com/magic-alt/gym-electric-motor/visualization"
)

// Registry keys provided by this package
const (
	KeyLinearSystem        = "LinearSystem"
	KeyWienerReference     = "WienerProcessReference"
	KeySinusoidalReference = "SinusoidalReference"
	KeyStepReference       = "StepReference"
	KeyConstReference      = "ConstReference"
	KeyWeightedSumOfErrors = "WeightedSumOfErrors"
	KeyConsolePrinter      = "ConsolePrinter"
	KeyTrajectoryPlot      = "TrajectoryPlot"
	KeyRecorder            = "Recorder"
	KeyLinearTracking      = "LinearTracking-v0"
)

// SystemConfig describes the discrete-time linear plant
type SystemConfig struct {
	A       [][]float64 `yaml:"a"`
	B       [][]float64 `yaml:"b"`
	Initial []float64   `yaml:"initial"`
}

// ReferenceConfig describes the reference trajectory profile
type ReferenceConfig struct {
	Type      string  `yaml:"type"`
	State     string  `yaml:"state"`
	Sigma     float64 `yaml:"sigma"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Offset    float64 `yaml:"offset"`
	Value     float64 `yaml:"value"`
	MinDwell  int     `yaml:"min_dwell"`
	MaxDwell  int     `yaml:"max_dwell"`
}

// RewardConfig describes the reward function
type RewardConfig struct {
	ObservedStates  []string  `yaml:"observed_states"`
	Weights         []float64 `yaml:"weights"`
	Power           float64   `yaml:"power"`
	ViolationReward float64   `yaml:"violation_reward"`
}

// Config is a complete, YAML-serializable environment configuration
type Config struct {
	StateNames    []string        `yaml:"state_names"`
	Limits        []float64       `yaml:"limits"`
	Tau           float64         `yaml:"tau"`
	Seed          uint64          `yaml:"seed"`
	EpisodeCutoff int             `yaml:"episode_cutoff"`
	StateFilter   []string        `yaml:"state_filter"`
	System        SystemConfig    `yaml:"system"`
	Reference     ReferenceConfig `yaml:"reference"`
	Reward        RewardConfig    `yaml:"reward"`
	Visualization string          `yaml:"visualization"`
	PlotState     string          `yaml:"plot_state"`
	PlotFile      string          `yaml:"plot_file"`
}

// DefaultConfig returns the configuration of the default linear
// tracking environment: a stable three-state plant with one input,
// a Wiener process speed reference, and a weighted sum of errors
// reward observing the currents.
func DefaultConfig() *Config {
	return &Config{
		StateNames:    []string{"omega", "torque", "i_a"},
		Limits:        []float64{300, 50, 20},
		Tau:           1e-4,
		Seed:          12345,
		EpisodeCutoff: 10000,
		System: SystemConfig{
			A: [][]float64{
				{0.99, 0.01, 0.0},
				{0.0, 0.95, 0.04},
				{-0.01, 0.0, 0.97},
			},
			B:       [][]float64{{0.0}, {0.01}, {0.05}},
			Initial: []float64{0, 0, 0},
		},
		Reference: ReferenceConfig{
			Type:  KeyWienerReference,
			State: "omega",
			Sigma: 0.01,
		},
		Reward: RewardConfig{
			ObservedStates:  []string{"currents"},
			Power:           1,
			ViolationReward: -10,
		},
		PlotState: "omega",
	}
}

// Load reads a YAML configuration from path. Fields absent from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %v", err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("load: %v", err)
	}
	return config, nil
}

// Save writes the configuration as YAML to path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("save: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}

// Create builds the environment described by the configuration
func (c *Config) Create() (*environment.ElectricMotorEnv, error) {
	ps, err := c.buildSystem()
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	rg, err := c.buildReference()
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	rf := c.buildReward()

	vis, err := c.buildVisualization()
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	env, err := environment.New(ps, rg, rf, vis, c.StateFilter, nil)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	return env, nil
}

func (c *Config) buildSystem() (*physical.Linear, error) {
	n := len(c.StateNames)
	if len(c.Limits) != n {
		return nil, fmt.Errorf("got %v limits for %v state names",
			len(c.Limits), n)
	}
	a, err := denseFromRows(c.System.A, n, n)
	if err != nil {
		return nil, fmt.Errorf("system matrix: %v", err)
	}
	b, err := denseFromRows(c.System.B, n, -1)
	if err != nil {
		return nil, fmt.Errorf("input matrix: %v", err)
	}

	initial := c.System.Initial
	if initial == nil {
		initial = make([]float64, n)
	} else if len(initial) != n {
		return nil, fmt.Errorf("got an initial state of length %v for %v "+
			"state names", len(initial), n)
	}
	return physical.NewLinear(a, b, mat.NewVecDense(n, initial),
		c.StateNames, mat.NewVecDense(n, c.Limits), c.Tau, c.Seed)
}

func (c *Config) buildReference() (*reference.Base, error) {
	index := -1
	for i, name := range c.StateNames {
		if name == c.Reference.State {
			index = i
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("referenced state %q is not a state name",
			c.Reference.State)
	}

	width := len(c.StateNames)
	ref := c.Reference
	switch ref.Type {
	case KeyWienerReference:
		return reference.NewWiener(width, index, ref.Sigma,
			reference.DefaultMargin, c.Seed), nil
	case KeySinusoidalReference:
		return reference.NewSinusoidal(width, index, ref.Amplitude,
			ref.Frequency, ref.Offset, c.Tau, c.Seed), nil
	case KeyStepReference:
		if ref.MinDwell < 1 || ref.MaxDwell < ref.MinDwell {
			return nil, fmt.Errorf("step reference dwell [%v, %v] must "+
				"satisfy 1 <= min <= max", ref.MinDwell, ref.MaxDwell)
		}
		return reference.NewStepProfile(width, index, ref.MinDwell,
			ref.MaxDwell, reference.DefaultMargin, c.Seed), nil
	case KeyConstReference:
		return reference.NewConst(width, index, ref.Value, c.Seed), nil
	}
	return nil, fmt.Errorf("no reference generator of type %q", ref.Type)
}

func (c *Config) buildReward() *reward.WeightedSumOfErrors {
	return reward.NewWeightedSumOfErrors(c.Reward.ObservedStates,
		c.Reward.Weights, c.Reward.Power, c.Reward.ViolationReward)
}

// buildVisualization returns nil when no visualization is configured;
// the environment then runs without rendering.
func (c *Config) buildVisualization() (interface{}, error) {
	plotIndex := 0
	for i, name := range c.StateNames {
		if name == c.PlotState {
			plotIndex = i
		}
	}

	switch c.Visualization {
	case "":
		return nil, nil
	case KeyConsolePrinter:
		return visualization.NewConsole(os.Stdout, plotIndex), nil
	case KeyTrajectoryPlot:
		file := c.PlotFile
		if file == "" {
			file = "trajectory.png"
		}
		return visualization.NewPlot(file, plotIndex), nil
	case KeyRecorder:
		return visualization.NewRecorder(c.EpisodeCutoff), nil
	}
	return nil, fmt.Errorf("no visualization of type %q", c.Visualization)
}

func denseFromRows(rows [][]float64, wantRows, wantCols int) (*mat.Dense,
	error) {
	if len(rows) != wantRows {
		return nil, fmt.Errorf("got %v rows, need %v", len(rows), wantRows)
	}
	cols := wantCols
	if cols < 0 {
		cols = len(rows[0])
	}
	data := make([]float64, 0, wantRows*cols)
	for _, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("got a row of %v columns, need %v",
				len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(wantRows, cols, data), nil
}
