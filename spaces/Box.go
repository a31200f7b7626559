package spaces

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// Box is a continuous space bounded element-wise by a lower and an
// upper bound vector. Sampling is uniform within the bounds.
type Box struct {
	low  *mat.VecDense
	high *mat.VecDense
	rng  *distmv.Uniform
	seed uint64
}

// NewBox creates and returns a new Box with the given element-wise
// bounds. NewBox panics if the bounds have different lengths, since
// mismatched bounds are a programming error.
func NewBox(low, high mat.Vector, seed uint64) *Box {
	if low.Len() != high.Len() {
		panic(fmt.Sprintf("newBox: lower bounds length %v must match upper "+
			"bounds length %v", low.Len(), high.Len()))
	}

	l := mat.NewVecDense(low.Len(), nil)
	l.CloneFromVec(low)
	h := mat.NewVecDense(high.Len(), nil)
	h.CloneFromVec(high)

	b := &Box{low: l, high: h}
	b.Seed(seed)
	return b
}

// NewUniformBox creates and returns a new Box with all lower bounds
// equal to low and all upper bounds equal to high.
func NewUniformBox(low, high float64, dims int, seed uint64) *Box {
	l := make([]float64, dims)
	h := make([]float64, dims)
	for i := range l {
		l[i] = low
		h[i] = high
	}
	return NewBox(mat.NewVecDense(dims, l), mat.NewVecDense(dims, h), seed)
}

// Len returns the number of dimensions of the Box
func (b *Box) Len() int {
	return b.low.Len()
}

// Sample draws a vector uniformly from within the Box's bounds
func (b *Box) Sample() mat.Vector {
	return mat.NewVecDense(b.Len(), b.rng.Rand(nil))
}

// Contains returns whether x is within the bounds of the Box. Only
// mat.Vector arguments of matching length can be contained.
func (b *Box) Contains(x interface{}) bool {
	vec, ok := x.(mat.Vector)
	if !ok || vec.Len() != b.Len() {
		return false
	}
	for i := 0; i < vec.Len(); i++ {
		if vec.AtVec(i) < b.low.AtVec(i) || vec.AtVec(i) > b.high.AtVec(i) {
			return false
		}
	}
	return true
}

// Seed seeds the Box's sampler
func (b *Box) Seed(seed uint64) {
	b.seed = seed
	bounds := make([]r1.Interval, b.Len())
	for i := range bounds {
		bounds[i] = r1.Interval{Min: b.low.AtVec(i), Max: b.high.AtVec(i)}
	}
	b.rng = distmv.NewUniform(bounds, rand.NewSource(seed))
}

// Low returns the lower bounds of the Box
func (b *Box) Low() mat.Vector {
	return b.low
}

// High returns the upper bounds of the Box
func (b *Box) High() mat.Vector {
	return b.high
}

// Project returns a new Box consisting of only the given dimensions of
// b, in the given order. Project is used to derive the observation
// space of an environment whose state filter retains a subset of the
// state dimensions.
func (b *Box) Project(indices []int) *Box {
	low := make([]float64, len(indices))
	high := make([]float64, len(indices))
	for i, index := range indices {
		low[i] = b.low.AtVec(index)
		high[i] = b.high.AtVec(index)
	}
	return NewBox(mat.NewVecDense(len(indices), low),
		mat.NewVecDense(len(indices), high), b.seed)
}

// Equal returns whether b and other have identical bounds
func (b *Box) Equal(other *Box) bool {
	return vecEqual(b.low, other.low) && vecEqual(b.high, other.high)
}
