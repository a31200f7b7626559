package spaces

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
)

// Discrete is a space of n discrete actions {0, 1, ..., n-1}. Members
// are 1-dimensional vectors holding an integral value.
type Discrete struct {
	n    int
	rng  *rand.Rand
	seed uint64
}

// NewDiscrete creates and returns a new Discrete space of n elements.
// NewDiscrete panics if n is not positive.
func NewDiscrete(n int, seed uint64) *Discrete {
	if n <= 0 {
		panic(fmt.Sprintf("newDiscrete: number of elements must be "+
			"positive, got %v", n))
	}
	d := &Discrete{n: n}
	d.Seed(seed)
	return d
}

// N returns the number of elements in the space
func (d *Discrete) N() int {
	return d.n
}

// Sample draws a uniform random element of the space
func (d *Discrete) Sample() mat.Vector {
	return mat.NewVecDense(1, []float64{float64(d.rng.Intn(d.n))})
}

// Contains returns whether x is a member of the space. Members are
// 1-dimensional vectors with an integral value in [0, n).
func (d *Discrete) Contains(x interface{}) bool {
	vec, ok := x.(mat.Vector)
	if !ok || vec.Len() != 1 {
		return false
	}
	value := vec.AtVec(0)
	if value != math.Trunc(value) {
		return false
	}
	return value >= 0 && value < float64(d.n)
}

// Seed seeds the space's sampler
func (d *Discrete) Seed(seed uint64) {
	d.seed = seed
	d.rng = rand.New(rand.NewSource(seed))
}

// Low returns the lower bound of the space
func (d *Discrete) Low() mat.Vector {
	return mat.NewVecDense(1, []float64{0})
}

// High returns the upper bound of the space
func (d *Discrete) High() mat.Vector {
	return mat.NewVecDense(1, []float64{float64(d.n - 1)})
}
