package visualization

import (
	"fmt"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/mat"

	"github.com/magic-alt/gym-electric-motor/utils/floatutils"
)

const (
	plotWidth  = 800
	plotHeight = 400
	plotMargin = 20
)

// Plot renders the tracked state dimension and its reference over the
// whole run into a PNG file on Close.
type Plot struct {
	filename  string
	plotIndex int

	states     []float64
	references []float64
}

// NewPlot creates and returns a new Plot rendering the state dimension
// at plotIndex into the PNG file named by filename.
func NewPlot(filename string, plotIndex int) *Plot {
	return &Plot{filename: filename, plotIndex: plotIndex}
}

// Reset is a no-op; Plot renders across episode boundaries
func (p *Plot) Reset(mat.Matrix, mat.Vector) {}

// Step records one environment step
func (p *Plot) Step(state, reference mat.Vector, _ float64) {
	p.states = append(p.states, state.AtVec(p.plotIndex))
	p.references = append(p.references, reference.AtVec(p.plotIndex))
}

// Close renders the recorded trajectories and writes the PNG file
func (p *Plot) Close() error {
	if len(p.states) < 2 {
		return nil
	}

	dc := gg.NewContext(plotWidth, plotHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	low := floatutils.Min(append(append([]float64{}, p.states...),
		p.references...)...)
	high := floatutils.Max(append(append([]float64{}, p.states...),
		p.references...)...)
	if high == low {
		high = low + 1
	}

	dc.SetRGB(0.2, 0.4, 0.8)
	p.stroke(dc, p.states, low, high)
	dc.SetRGB(0.8, 0.3, 0.2)
	p.stroke(dc, p.references, low, high)

	if err := dc.SavePNG(p.filename); err != nil {
		return fmt.Errorf("close: could not save trajectory plot: %v", err)
	}
	return nil
}

func (p *Plot) stroke(dc *gg.Context, series []float64, low, high float64) {
	scaleX := float64(plotWidth-2*plotMargin) / float64(len(series)-1)
	scaleY := float64(plotHeight - 2*plotMargin)

	for i, value := range series {
		x := plotMargin + float64(i)*scaleX
		y := float64(plotHeight-plotMargin) - (value-low)/(high-low)*scaleY
		if i == 0 {
			dc.MoveTo(x, y)
			continue
		}
		dc.LineTo(x, y)
	}
	dc.Stroke()
}
