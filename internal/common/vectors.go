package common

import "math"

// Dot returns the dot product of two equal-length vectors. For L2-normalized
// vectors this equals their cosine similarity, which is what the path finder
// relies on in its hot loop.
func Dot(a, b []float64) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dotProduct float64
	for i := range a {
		dotProduct += a[i] * b[i]
	}
	return dotProduct, true
}

// Normalize scales the vector to unit L2 norm in place and returns it.
// A zero vector is returned unchanged.
func Normalize(v []float64) []float64 {
	norm := L2Norm(v)
	if norm == 0 {
		return v
	}

	for i := range v {
		v[i] /= norm
	}
	return v
}

// L2Norm returns the Euclidean norm of the vector.
func L2Norm(v []float64) float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	return math.Sqrt(norm)
}
