package spaces

import "gonum.org/v1/gonum/mat"

// Tuple is an ordered composite of spaces. The environment observation
// space is a Tuple of the filtered state space and the reference space.
type Tuple struct {
	spaces []Space
}

// NewTuple creates and returns a new Tuple of the given spaces
func NewTuple(s ...Space) *Tuple {
	return &Tuple{spaces: s}
}

// Spaces returns the component spaces of the Tuple in order
func (t *Tuple) Spaces() []Space {
	return t.spaces
}

// At returns the i-th component space of the Tuple
func (t *Tuple) At(i int) Space {
	return t.spaces[i]
}

// Sample draws a sample from each component space and returns the
// concatenation of the component samples.
func (t *Tuple) Sample() mat.Vector {
	var data []float64
	for _, space := range t.spaces {
		sample := space.Sample()
		for i := 0; i < sample.Len(); i++ {
			data = append(data, sample.AtVec(i))
		}
	}
	return mat.NewVecDense(len(data), data)
}

// Contains returns whether x is a member of the Tuple. Members are
// slices of mat.Vector with one vector per component space, each
// contained in its component.
func (t *Tuple) Contains(x interface{}) bool {
	members, ok := x.([]mat.Vector)
	if !ok || len(members) != len(t.spaces) {
		return false
	}
	for i, space := range t.spaces {
		if !space.Contains(members[i]) {
			return false
		}
	}
	return true
}

// Seed seeds the sampler of every component space
func (t *Tuple) Seed(seed uint64) {
	for _, space := range t.spaces {
		space.Seed(seed)
	}
}

// Low returns the concatenated lower bounds of the component spaces
func (t *Tuple) Low() mat.Vector {
	return t.concat(func(s Space) mat.Vector { return s.Low() })
}

// High returns the concatenated upper bounds of the component spaces
func (t *Tuple) High() mat.Vector {
	return t.concat(func(s Space) mat.Vector { return s.High() })
}

func (t *Tuple) concat(bound func(Space) mat.Vector) mat.Vector {
	var data []float64
	for _, space := range t.spaces {
		b := bound(space)
		for i := 0; i < b.Len(); i++ {
			data = append(data, b.AtVec(i))
		}
	}
	return mat.NewVecDense(len(data), data)
}
