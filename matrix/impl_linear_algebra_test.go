// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/lvformula/matrix"
	"github.com/stretchr/testify/require"
)

func TestTranspose_FastAndFallbackAgree(t *testing.T) {
	t.Parallel()

	X := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	fast, err := matrix.Transpose(X)
	require.NoError(t, err)
	slow, err := matrix.Transpose(hide{X})
	require.NoError(t, err)

	require.Equal(t, []float64{1, 4, 2, 5, 3, 6}, fast.RawData())
	CompareClose(t, fast, slow, 0, 0)
}

func TestMul(t *testing.T) {
	t.Parallel()

	A := NewFilledDense(t, 2, 3, []float64{1, 0, 2, 0, 1, 1})
	B := NewFilledDense(t, 3, 2, []float64{1, 2, 3, 4, 5, 6})

	C, err := matrix.Mul(A, B)
	require.NoError(t, err)
	require.Equal(t, []float64{11, 14, 8, 10}, C.RawData())

	Cs, err := matrix.Mul(hide{A}, hide{B})
	require.NoError(t, err)
	CompareClose(t, C, Cs, 0, 0)

	_, err = matrix.Mul(A, A)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Mul(nil, A)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestMatVecAndColSums(t *testing.T) {
	t.Parallel()

	X := NewFilledDense(t, 3, 2, []float64{1, -1, 1, 0, 1, 1})

	y, err := matrix.MatVec(X, []float64{2, 3})
	require.NoError(t, err)
	require.Equal(t, []float64{-1, 2, 5}, y)

	_, err = matrix.MatVec(X, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	sums, err := matrix.ColSums(X)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 0}, sums)
}

func TestCrossProduct(t *testing.T) {
	t.Parallel()

	X := NewFilledDense(t, 3, 2, []float64{1, 0, 1, 1, 1, 1})
	xtx, err := matrix.CrossProduct(X)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 2, 2, 2}, xtx.RawData())
}
