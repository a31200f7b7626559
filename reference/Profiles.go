package reference

import (
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/magic-alt/gym-electric-motor/spaces"
	"github.com/magic-alt/gym-electric-motor/utils/floatutils"
)

// DefaultHorizon is the number of recent reference values a generator
// keeps for visualization.
const DefaultHorizon = 1000

// DefaultMargin bounds generated references away from the normalized
// limits so that tracking a reference never requires a limit
// violation.
var DefaultMargin = r1.Interval{Min: -0.8, Max: 0.8}

// referenced spreads a scalar reference for one state dimension into a
// full-width reference vector.
func referenced(width, index int, value float64) mat.Vector {
	out := mat.NewVecDense(width, nil)
	out.SetVec(index, value)
	return out
}

func scalarObservation(value float64) mat.Vector {
	return mat.NewVecDense(1, []float64{value})
}

func scalarSpace(seed uint64) spaces.Space {
	return spaces.NewUniformBox(-1, 1, 1, seed)
}

// constProfile holds the reference at a fixed value.
type constProfile struct {
	width int
	index int
	value float64
}

// NewConst creates and returns a reference generator that keeps the
// reference of the state dimension at index constant at value. width
// is the number of state dimensions of the physical system.
func NewConst(width, index int, value float64, seed uint64) *Base {
	return NewBase(&constProfile{width: width, index: index, value: value},
		scalarSpace(seed), DefaultHorizon)
}

func (c *constProfile) Reference(mat.Vector) mat.Vector {
	return referenced(c.width, c.index, c.value)
}

func (c *constProfile) ReferenceObservation(mat.Vector) mat.Vector {
	return scalarObservation(c.value)
}

// sinusoidalProfile follows a sinusoid in simulation time.
type sinusoidalProfile struct {
	width     int
	index     int
	amplitude float64
	frequency float64
	offset    float64
	tau       float64
	t         float64
	value     float64
}

// NewSinusoidal creates and returns a reference generator following
// offset + amplitude*sin(2π·frequency·t) for the state dimension at
// index, advanced by tau per step.
func NewSinusoidal(width, index int, amplitude, frequency, offset,
	tau float64, seed uint64) *Base {
	return NewBase(&sinusoidalProfile{
		width:     width,
		index:     index,
		amplitude: amplitude,
		frequency: frequency,
		offset:    offset,
		tau:       tau,
	}, scalarSpace(seed), DefaultHorizon)
}

func (s *sinusoidalProfile) Start() {
	s.t = 0
	s.value = s.offset
}

func (s *sinusoidalProfile) Reference(mat.Vector) mat.Vector {
	s.value = s.offset + s.amplitude*math.Sin(2*math.Pi*s.frequency*s.t)
	s.t += s.tau
	return referenced(s.width, s.index, s.value)
}

func (s *sinusoidalProfile) ReferenceObservation(mat.Vector) mat.Vector {
	return scalarObservation(s.value)
}

// wienerProfile follows a clipped random walk.
type wienerProfile struct {
	width  int
	index  int
	sigma  float64
	margin r1.Interval
	value  float64
	start  distuv.Uniform
	noise  distuv.Normal
}

// NewWiener creates and returns a reference generator following a
// Wiener process with step deviation sigma for the state dimension at
// index. The walk starts uniformly within margin at every episode and
// is clipped to margin.
func NewWiener(width, index int, sigma float64, margin r1.Interval,
	seed uint64) *Base {
	src := rand.NewSource(seed)
	profile := &wienerProfile{
		width:  width,
		index:  index,
		sigma:  sigma,
		margin: margin,
		start:  distuv.Uniform{Min: margin.Min, Max: margin.Max, Src: src},
		noise:  distuv.Normal{Mu: 0, Sigma: sigma, Src: src},
	}
	return NewBase(profile, scalarSpace(seed), DefaultHorizon)
}

func (w *wienerProfile) Start() {
	w.value = w.start.Rand()
}

func (w *wienerProfile) Reference(mat.Vector) mat.Vector {
	w.value = floatutils.ClipInterval(w.value+w.noise.Rand(), w.margin)
	return referenced(w.width, w.index, w.value)
}

func (w *wienerProfile) ReferenceObservation(mat.Vector) mat.Vector {
	return scalarObservation(w.value)
}

// stepProfile holds piecewise-constant levels for random dwell times.
type stepProfile struct {
	width     int
	index     int
	minDwell  int
	maxDwell  int
	value     float64
	remaining int
	level     distuv.Uniform
	rng       *rand.Rand
}

// NewStepProfile creates and returns a reference generator producing
// piecewise-constant references for the state dimension at index.
// Levels are drawn uniformly within margin and held for a dwell drawn
// uniformly from [minDwell, maxDwell] steps.
func NewStepProfile(width, index, minDwell, maxDwell int, margin r1.Interval,
	seed uint64) *Base {
	src := rand.NewSource(seed)
	profile := &stepProfile{
		width:    width,
		index:    index,
		minDwell: minDwell,
		maxDwell: maxDwell,
		level:    distuv.Uniform{Min: margin.Min, Max: margin.Max, Src: src},
		rng:      rand.New(src),
	}
	return NewBase(profile, scalarSpace(seed), DefaultHorizon)
}

func (s *stepProfile) Start() {
	s.next()
}

func (s *stepProfile) next() {
	s.value = s.level.Rand()
	s.remaining = s.minDwell + s.rng.Intn(s.maxDwell-s.minDwell+1)
}

func (s *stepProfile) Reference(mat.Vector) mat.Vector {
	if s.remaining == 0 {
		s.next()
	}
	s.remaining--
	return referenced(s.width, s.index, s.value)
}

func (s *stepProfile) ReferenceObservation(mat.Vector) mat.Vector {
	return scalarObservation(s.value)
}
