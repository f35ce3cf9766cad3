// Package mixer computes the IQ-mixer correction matrix that compensates gain
// and phase imbalance between the I and Q channels of an upconversion stage.
package mixer

import (
	"fmt"
	"math"

	"github.com/specialistvlad/pulsegrid/internal/validation"
)

// degenerateEpsilon is the magnitude below which the normalisation
// denominator is treated as zero.
const degenerateEpsilon = 1e-12

// Matrix is a row-major 2x2 correction matrix [c00, c01, c10, c11].
type Matrix [4]float64

// Correction maps a gain imbalance g and a phase imbalance theta (radians) to
//
//	[(1-g)cos θ, (1+g)sin θ, (1-g)sin θ, (1+g)cos θ] / ((1-g²)(2cos²θ-1))
//
// The matrix is returned only if every entry lies inside the correction
// bounds of l; otherwise nothing is returned.
func Correction(l validation.Limits, gain, theta float64) (Matrix, error) {
	c := math.Cos(theta)
	s := math.Sin(theta)
	denom := (1 - gain*gain) * (2*c*c - 1)
	if math.Abs(denom) < degenerateEpsilon {
		return Matrix{}, validation.New(validation.ErrDegenerateCorrection, "",
			fmt.Sprintf("gain=%g phase=%g", gain, theta), "gain != ±1 and cos²(phase) != 0.5")
	}
	n := 1 / denom
	m := Matrix{
		(1 - gain) * c * n,
		(1 + gain) * s * n,
		(1 - gain) * s * n,
		(1 + gain) * c * n,
	}
	for i, v := range m {
		if _, err := l.Correction(v); err != nil {
			return Matrix{}, validation.Annotate(err, fmt.Sprintf("correction[%d]", i))
		}
	}
	return m, nil
}

// Recover solves the correction closed form back to (gain, theta). theta is
// recovered modulo π, in (-π/2, π/2].
func Recover(m Matrix) (gain, theta float64) {
	// c11/c00 and c01/c10 both equal (1+g)/(1-g); pick the better conditioned.
	var r float64
	if math.Abs(m[0]) >= math.Abs(m[2]) {
		r = m[3] / m[0]
	} else {
		r = m[1] / m[2]
	}
	gain = (r - 1) / (r + 1)

	// c10/c00 = tan θ.
	if m[0] == 0 {
		return gain, math.Pi / 2
	}
	return gain, math.Atan(m[2] / m[0])
}

// Slice returns the matrix in the list form used by the configuration
// document.
func (m Matrix) Slice() []float64 {
	return []float64{m[0], m[1], m[2], m[3]}
}
