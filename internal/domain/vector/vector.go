// Package vector provides the sparse term vector used by the scoring core.
package vector

import "math"

// Vector is a sparse mapping from vocabulary term index to non-negative weight.
type Vector map[int]float64

// Dot returns the dot product of two vectors. For L2-normalized vectors this
// equals their cosine similarity.
func (v Vector) Dot(other Vector) float64 {
	// Iterate over the smaller vector
	a, b := v, other
	if len(b) < len(a) {
		a, b = b, a
	}
	sum := 0.0
	for idx, w := range a {
		sum += w * b[idx]
	}
	return sum
}

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 {
	sum := 0.0
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Normalize returns an L2-normalized copy. A zero vector stays zero.
func (v Vector) Normalize() Vector {
	norm := v.Norm()
	if norm == 0 {
		return Vector{}
	}
	out := make(Vector, len(v))
	for idx, w := range v {
		out[idx] = w / norm
	}
	return out
}

// IsZero reports whether the vector has no non-zero weights. A zero user
// vector is the cold-start signal.
func (v Vector) IsZero() bool {
	for _, w := range v {
		if w != 0 {
			return false
		}
	}
	return true
}
