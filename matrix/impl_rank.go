// SPDX-License-Identifier: MIT

// Package matrix - numerical rank and the gonum bridge.
//
// Purpose:
//   - Estimate the numerical rank of a (typically tall) design matrix so
//     structural collinearity is surfaced instead of silently pivoted away.
//   - Hand Dense data to gonum-based fitting routines without re-typing.
//
// Implementation notes:
//   - Singular values come from gonum's SVD (mat.SVDNone: values only).
//   - Default threshold: max(r,c) · ε · σmax, the LAPACK/NumPy convention.

package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ToGonum copies m into a freshly allocated *mat.Dense.
// MAIN DESCRIPTION:
//   - Bridge for external fitting code (OLS/IRLS) written against gonum/mat.
//
// Errors:
//   - ErrNilMatrix; ErrInvalidDimensions for zero-sized input (gonum forbids it).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func ToGonum(m Matrix) (*mat.Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opToGonum, err)
	}
	r, c := m.Rows(), m.Cols()
	if r == 0 || c == 0 {
		return nil, matrixErrorf(opToGonum, ErrInvalidDimensions)
	}
	if d, ok := m.(*Dense); ok {
		return mat.NewDense(r, c, d.RawData()), nil
	}

	buf := make([]float64, r*c)
	var (
		i, j int
		err  error
	)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if buf[i*c+j], err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opToGonum, err)
			}
		}
	}

	return mat.NewDense(r, c, buf), nil
}

// SingularValues returns the singular values of m in descending order.
//
// Errors:
//   - ErrNilMatrix, ErrNaNInf (SVD of non-finite data is meaningless),
//     ErrDecompositionFailed when the factorization does not converge.
//
// Complexity:
//   - Time O(r*c*min(r,c)), Space O(r*c).
func SingularValues(m Matrix) ([]float64, error) {
	if err := ValidateFinite(m); err != nil {
		return nil, matrixErrorf(opRank, err)
	}
	if m.Rows() == 0 || m.Cols() == 0 {
		return []float64{}, nil
	}
	g, err := ToGonum(m)
	if err != nil {
		return nil, matrixErrorf(opRank, err)
	}

	var svd mat.SVD
	if ok := svd.Factorize(g, mat.SVDNone); !ok {
		return nil, matrixErrorf(opRank, ErrDecompositionFailed)
	}

	return svd.Values(nil), nil
}

// Rank returns the numerical rank of m: the count of singular values above
// the tolerance (WithRankTolerance, or max(r,c)·ε·σmax by default).
//
// Behavior highlights:
//   - Zero-sized or all-zero matrices have rank 0.
//   - Deterministic for identical input.
//
// Complexity:
//   - Dominated by the SVD: O(r*c*min(r,c)).
func Rank(m Matrix, opts ...Option) (int, error) {
	sv, err := SingularValues(m)
	if err != nil {
		return 0, err
	}
	if len(sv) == 0 || sv[0] == 0 {
		return 0, nil
	}
	o := gatherOptions(opts...)
	tol := o.rankTol
	if tol == DefaultRankTolerance {
		tol = float64(max(m.Rows(), m.Cols())) * epsilon64 * sv[0]
	}

	rank := 0
	for _, s := range sv {
		if s > tol {
			rank++
		}
	}

	return rank, nil
}

// epsilon64 is the float64 machine epsilon (2^-52).
var epsilon64 = math.Nextafter(1, 2) - 1
