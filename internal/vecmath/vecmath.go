// Package vecmath provides the float32 vector helpers shared by the index,
// the retriever and the evaluation service.
package vecmath

import "math"

// Dot computes the inner product of two vectors of equal length.
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm computes the L2 norm of a vector.
func Norm(v []float32) float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return float32(math.Sqrt(sum))
}

// NormalizeInPlace scales v to unit length. Zero vectors are left as is.
func NormalizeInPlace(v []float32) {
	norm := Norm(v)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

// Normalize returns a unit-length copy of v.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	NormalizeInPlace(out)
	return out
}

// Cosine computes the cosine similarity of two vectors.
// It returns 0 when either vector is zero.
func Cosine(a, b []float32) float32 {
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// IsUnit reports whether v has unit length within tolerance.
func IsUnit(v []float32, tolerance float64) bool {
	return math.Abs(float64(Norm(v))-1) <= tolerance
}
