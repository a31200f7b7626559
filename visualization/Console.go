// Package visualization implements visualizations of the state and
// reference trajectories an environment produces. Visualizations are
// passive consumers: the environment core reads nothing back from
// them.
package visualization

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/mat"
)

// consoleHistory is the number of recent steps a Console keeps for its
// trajectory graph.
const consoleHistory = 120

// Console prints episode summaries and an ASCII graph of the tracked
// state dimension against its reference to a terminal.
type Console struct {
	out       io.Writer
	plotIndex int

	episode   int
	steps     int
	cumReward float64

	states     []float64
	references []float64
}

// NewConsole creates and returns a new Console printing to out. The
// graph tracks the state dimension at plotIndex.
func NewConsole(out io.Writer, plotIndex int) *Console {
	return &Console{out: out, plotIndex: plotIndex}
}

// Reset starts a new episode, printing the summary of the finished one
func (c *Console) Reset(mat.Matrix, mat.Vector) {
	c.summarize()
	c.episode++
	c.steps = 0
	c.cumReward = 0
	c.states = c.states[:0]
	c.references = c.references[:0]
}

// Step records one environment step
func (c *Console) Step(state, reference mat.Vector, reward float64) {
	c.steps++
	c.cumReward += reward

	c.states = appendBounded(c.states, state.AtVec(c.plotIndex))
	c.references = appendBounded(c.references, reference.AtVec(c.plotIndex))
}

// Close prints the summary and trajectory graph of the last episode
func (c *Console) Close() error {
	c.summarize()
	if len(c.states) > 1 {
		graph := asciigraph.PlotMany(
			[][]float64{c.states, c.references},
			asciigraph.Height(10),
			asciigraph.Caption("state (first series) vs reference"),
		)
		fmt.Fprintln(c.out, graph)
	}
	return nil
}

func (c *Console) summarize() {
	if c.episode == 0 || c.steps == 0 {
		return
	}
	fmt.Fprintf(c.out, "episode %v: %v steps, cumulative reward %.4f\n",
		c.episode, c.steps, c.cumReward)
}

func appendBounded(series []float64, value float64) []float64 {
	if len(series) == consoleHistory {
		series = series[1:]
	}
	return append(series, value)
}
