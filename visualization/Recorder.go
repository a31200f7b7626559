package visualization

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Recorder buffers the state and reference trajectories of the current
// episode in dense tensors, one row per step. Recorder is itself a
// visualization and also serves as the data source of other consumers.
type Recorder struct {
	capacity int
	steps    int

	states     *tensor.Dense
	references *tensor.Dense
}

// NewRecorder creates and returns a new Recorder buffering up to
// capacity steps per episode. Steps beyond the capacity are dropped.
func NewRecorder(capacity int) *Recorder {
	return &Recorder{capacity: capacity}
}

// Reset discards the previous episode's buffers
func (r *Recorder) Reset(mat.Matrix, mat.Vector) {
	r.steps = 0
	r.states = nil
	r.references = nil
}

// Step records the state and reference of one environment step
func (r *Recorder) Step(state, reference mat.Vector, _ float64) {
	if r.steps >= r.capacity {
		return
	}
	if r.states == nil {
		r.states = tensor.New(tensor.WithShape(r.capacity, state.Len()),
			tensor.Of(tensor.Float64))
		r.references = tensor.New(
			tensor.WithShape(r.capacity, reference.Len()),
			tensor.Of(tensor.Float64))
	}

	for i := 0; i < state.Len(); i++ {
		r.states.SetAt(state.AtVec(i), r.steps, i)
	}
	for i := 0; i < reference.Len(); i++ {
		r.references.SetAt(reference.AtVec(i), r.steps, i)
	}
	r.steps++
}

// Steps returns the number of recorded steps of the current episode
func (r *Recorder) Steps() int {
	return r.steps
}

// States returns the state buffer of the current episode. Only the
// first Steps() rows are meaningful.
func (r *Recorder) States() *tensor.Dense {
	return r.states
}

// References returns the reference buffer of the current episode. Only
// the first Steps() rows are meaningful.
func (r *Recorder) References() *tensor.Dense {
	return r.references
}

// StateColumn returns the recorded values of one state dimension in
// step order.
func (r *Recorder) StateColumn(index int) ([]float64, error) {
	return r.column(r.states, index)
}

// ReferenceColumn returns the recorded values of one reference
// dimension in step order.
func (r *Recorder) ReferenceColumn(index int) ([]float64, error) {
	return r.column(r.references, index)
}

func (r *Recorder) column(buffer *tensor.Dense, index int) ([]float64,
	error) {
	if buffer == nil {
		return nil, nil
	}
	out := make([]float64, r.steps)
	for k := 0; k < r.steps; k++ {
		value, err := buffer.At(k, index)
		if err != nil {
			return nil, fmt.Errorf("column: %v", err)
		}
		out[k] = value.(float64)
	}
	return out, nil
}

// Close releases the Recorder's buffers
func (r *Recorder) Close() error {
	r.states = nil
	r.references = nil
	return nil
}
