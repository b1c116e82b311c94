// Package numeric holds the small array helpers the transition model is built
// on: zero padding, saturating (bounded) sums and weighted column averages.
//
// Matrices are gonum dense matrices indexed [row, col]. Column-wise helpers
// collapse the row axis, so an N×N input yields an N-length result.
package numeric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Epsilon is added to every denominator to keep divisions finite.
const Epsilon = 1e-9

// machineEpsilon is the float64 unit round-off, used by MapOneToInf.
const machineEpsilon = 2.220446049250313e-16

// Pad zero-extends v to length n. The input is never modified.
func Pad(v []float64, n int) ([]float64, error) {
	if len(v) > n {
		return nil, fmt.Errorf("pad %d values to %d: %w", len(v), n, ErrPadTooShort)
	}
	out := make([]float64, n)
	copy(out, v)
	return out, nil
}

// MapOneToInf maps [0,1) onto [0,inf) and (-1,0] onto (-inf,0].
func MapOneToInf(x float64) float64 {
	s := sign(x)
	return s/(1-math.Abs(x)+machineEpsilon) - s
}

// MapInfToOne is the inverse of MapOneToInf.
func MapInfToOne(y float64) float64 {
	return sign(y) * (1 - 1/(math.Abs(y)+1))
}

// BoundedSum combines equal-length vectors elementwise so that the result
// stays within [0,1] for inputs in [0,1]. A single input is returned
// unchanged (up to rounding); all-zero inputs give zero.
func BoundedSum(vs ...[]float64) ([]float64, error) {
	if len(vs) == 0 {
		return nil, nil
	}
	n := len(vs[0])
	total := make([]float64, n)
	for k, v := range vs {
		if len(v) != n {
			return nil, fmt.Errorf("bounded sum input %d has length %d, want %d: %w", k, len(v), n, ErrLengthMismatch)
		}
		for i, x := range v {
			total[i] += MapOneToInf(x)
		}
	}
	for i, y := range total {
		total[i] = MapInfToOne(y)
	}
	return total, nil
}

// BoundedSumAxis computes the bounded sum down each column of m.
func BoundedSumAxis(m mat.Matrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, c)
	for j := 0; j < c; j++ {
		var total float64
		for i := 0; i < r; i++ {
			total += MapOneToInf(m.At(i, j))
		}
		out[j] = MapInfToOne(total)
	}
	return out
}

// WeightedAverage averages each column of values using the matching column of
// weights. All-zero weight columns average to zero rather than dividing by zero.
func WeightedAverage(values, weights mat.Matrix) ([]float64, error) {
	r, c := values.Dims()
	wr, wc := weights.Dims()
	if r != wr || c != wc {
		return nil, fmt.Errorf("weighted average of %dx%d values with %dx%d weights: %w", r, c, wr, wc, ErrLengthMismatch)
	}
	out := make([]float64, c)
	for j := 0; j < c; j++ {
		var sum, norm float64
		for i := 0; i < r; i++ {
			w := weights.At(i, j)
			sum += values.At(i, j) * w
			norm += w
		}
		out[j] = sum / (norm + Epsilon)
	}
	return out, nil
}

// Tile returns an n×n matrix whose every column equals v.
func Tile(v []float64) *mat.Dense {
	n := len(v)
	m := mat.NewDense(n, n, nil)
	for i, x := range v {
		for j := 0; j < n; j++ {
			m.Set(i, j, x)
		}
	}
	return m
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// ArgMax returns the index of the largest value, preferring the first on ties.
// It returns -1 for an empty slice.
func ArgMax(v []float64) int {
	best := -1
	for i, x := range v {
		if best < 0 || x > v[best] {
			best = i
		}
	}
	return best
}

// Sign returns -1, 0 or 1.
func Sign(x float64) float64 {
	return sign(x)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
