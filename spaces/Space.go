// Package spaces describes the action and observation domains of an
// environment. A space knows its bounds, can check membership, and can
// draw uniform samples from within its bounds.
package spaces

import "gonum.org/v1/gonum/mat"

// Space describes a domain of actions, observations, or references. It
// is the description format shared by all environment modules: a
// physical system publishes its action and state spaces as Spaces, and
// a reference generator publishes its reference space as a Space.
type Space interface {
	// Sample draws a uniform sample from within the space's bounds
	Sample() mat.Vector

	// Contains returns whether x is a member of the space
	Contains(x interface{}) bool

	// Seed seeds the sampler for the space
	Seed(uint64)

	// Low returns the lower bounds of the space
	Low() mat.Vector

	// High returns the upper bounds of the space
	High() mat.Vector
}

// vecEqual returns whether two vectors have equal length and elements
func vecEqual(a, b mat.Vector) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.AtVec(i) != b.AtVec(i) {
			return false
		}
	}
	return true
}
