// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// transpose, matrix multiplication, matrix-vector product, column sums and
// the cross product XᵀX. All functions perform strict fail-fast validation
// and return clear errors on dimension mismatches.
//
// Notes:
//   - *Dense operands take a flat-slice fast path; other implementations go
//     through At/Set in the same fixed order, so both paths agree bitwise.

package matrix

import "fmt"

// ZeroSum is the initial value for accumulations.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opTranspose = "Transpose"
	opMul       = "Mul"
	opMatVec    = "MatVec"
	opColSums   = "ColSums"
	opCrossProd = "CrossProduct"
	opRank      = "Rank"
	opToGonum   = "ToGonum"
)

// matrixErrorf wraps err with an operation tag, preserving the sentinel via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Transpose returns a new Dense holding mᵀ; m is never mutated.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	r, c := m.Rows(), m.Cols()
	out, err := newDenseZeroOK(c, r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j int
	if d, ok := m.(*Dense); ok {
		for i = 0; i < r; i++ {
			for j = 0; j < c; j++ {
				out.data[j*r+i] = d.data[i*c+j]
			}
		}

		return out, nil
	}

	var v float64
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, err)
			}
			out.data[j*r+i] = v
		}
	}

	return out, nil
}

// Mul performs the standard product C = A × B (no aliasing).
// MAIN DESCRIPTION:
//   - i→k→j loop order so the inner loop walks both B and C rows contiguously.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (a.Cols != b.Rows).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	r, n, c := a.Rows(), a.Cols(), b.Cols()
	out, err := newDenseZeroOK(r, c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	ad, aFast := a.(*Dense)
	bd, bFast := b.(*Dense)
	var (
		i, k, j int
		aik     float64
		bkj     float64
	)
	for i = 0; i < r; i++ {
		for k = 0; k < n; k++ {
			if aFast {
				aik = ad.data[i*n+k]
			} else if aik, err = a.At(i, k); err != nil {
				return nil, matrixErrorf(opMul, err)
			}
			if aik == 0 {
				continue // sparse indicator columns: skip the whole row of B
			}
			for j = 0; j < c; j++ {
				if bFast {
					bkj = bd.data[k*c+j]
				} else if bkj, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				out.data[i*c+j] += aik * bkj
			}
		}
	}

	return out, nil
}

// MatVec computes y = m·x for a column vector x (len(x) == Cols()).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	r, c := m.Rows(), m.Cols()
	y := make([]float64, r)

	var (
		i, j int
		sum  float64
		v    float64
		err  error
	)
	d, fast := m.(*Dense)
	for i = 0; i < r; i++ {
		sum = ZeroSum
		for j = 0; j < c; j++ {
			if fast {
				v = d.data[i*c+j]
			} else if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, err)
			}
			sum += v * x[j]
		}
		y[i] = sum
	}

	return y, nil
}

// ColSums returns c where c[j] = Σ_i m[i,j].
// Complexity: O(r*c).
func ColSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opColSums, err)
	}
	r, c := m.Rows(), m.Cols()
	sums := make([]float64, c)

	var (
		i, j int
		v    float64
		err  error
	)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opColSums, err)
			}
			sums[j] += v
		}
	}

	return sums, nil
}

// CrossProduct returns XᵀX (c×c), the normal-equations matrix a least-squares
// routine factorizes. Composition only: Transpose → Mul.
// Complexity: O(r*c²).
func CrossProduct(x Matrix) (*Dense, error) {
	xt, err := Transpose(x)
	if err != nil {
		return nil, matrixErrorf(opCrossProd, err)
	}
	xtx, err := Mul(xt, x)
	if err != nil {
		return nil, matrixErrorf(opCrossProd, err)
	}

	return xtx, nil
}
