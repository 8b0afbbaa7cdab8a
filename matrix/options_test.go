// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvformula/matrix"
	"github.com/stretchr/testify/require"
)

func TestDefaults_Documented(t *testing.T) {
	require.Zero(t, matrix.DefaultRankTolerance)
}

// TestRankTolerance_LastWriterWins checks that later options override earlier
// ones and nil options are skipped.
func TestRankTolerance_LastWriterWins(t *testing.T) {
	// Singular values of diag(1, 1e-3) are 1 and 1e-3.
	X := NewFilledDense(t, 2, 2, []float64{1, 0, 0, 1e-3})

	r, err := matrix.Rank(X, matrix.WithRankTolerance(0.5), nil, matrix.WithRankTolerance(1e-6))
	require.NoError(t, err)
	require.Equal(t, 2, r)

	r, err = matrix.Rank(X, matrix.WithRankTolerance(1e-6), matrix.WithRankTolerance(0.5))
	require.NoError(t, err)
	require.Equal(t, 1, r)
}

func TestWithRankTolerance_Panics(t *testing.T) {
	const msg = "matrix: WithRankTolerance: tol must be finite, non-negative"
	for _, tol := range []float64{-1, math.NaN(), math.Inf(1)} {
		require.PanicsWithValue(t, msg, func() { matrix.WithRankTolerance(tol) })
	}
	require.NotPanics(t, func() { matrix.WithRankTolerance(0) })
	require.NotPanics(t, func() { matrix.WithRankTolerance(1e-9) })
}
