// SPDX-License-Identifier: MIT

package contrast_test

import (
	"testing"

	"github.com/katalvlaran/lvformula/contrast"
	"github.com/katalvlaran/lvformula/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(t *testing.T, m *matrix.Dense) [][]float64 {
	t.Helper()
	out := make([][]float64, m.Rows())
	for i := range out {
		r, err := m.Row(i)
		require.NoError(t, err)
		out[i] = r
	}

	return out
}

func TestTreatment(t *testing.T) {
	c, suffixes, err := contrast.Treatment{}.Coding([]string{"a", "b", "c"}, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {0, 0}, {0, 1}}, rows(t, c))
	assert.Equal(t, []string{"a", "c"}, suffixes)
	assert.True(t, contrast.Treatment{}.AllowsFullCoding())

	lvl, ok := contrast.Treatment{Baseline: map[string]string{"g": "c"}}.BaselineFor("g")
	assert.True(t, ok)
	assert.Equal(t, "c", lvl)
	_, ok = contrast.Treatment{}.BaselineFor("g")
	assert.False(t, ok)
}

func TestSum_GenderSigns(t *testing.T) {
	c, suffixes, err := contrast.Sum{}.Coding([]string{"male", "female"}, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{-1}, {1}}, rows(t, c))
	assert.Equal(t, []string{"1"}, suffixes)
	assert.False(t, contrast.Sum{}.AllowsFullCoding())
}

func TestSum_ThreeLevels(t *testing.T) {
	c, _, err := contrast.Sum{}.Coding([]string{"a", "b", "c"}, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {-1, -1}, {0, 1}}, rows(t, c))
}

func TestHelmert(t *testing.T) {
	c, suffixes, err := contrast.Helmert{}.Coding([]string{"a", "b", "c", "d"}, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{-1, -1, -1},
		{1, -1, -1},
		{0, 2, -1},
		{0, 0, 3},
	}, rows(t, c))
	assert.Equal(t, []string{"1", "2", "3"}, suffixes)
}

func TestCentered(t *testing.T) {
	levels := []string{"p", "q", "r", "s", "t"}
	for _, s := range []contrast.Scheme{contrast.Sum{}, contrast.Helmert{}} {
		for base := range levels {
			c, _, err := s.Coding(levels, base)
			require.NoError(t, err)
			require.Equal(t, len(levels), c.Rows())
			require.Equal(t, len(levels)-1, c.Cols())

			sums, err := matrix.ColSums(c)
			require.NoError(t, err)
			for j, v := range sums {
				assert.Equal(t, matrix.ZeroSum, v, "%s baseline %d column %d", s.Name(), base, j)
			}
			ok, err := contrast.Centered(c)
			require.NoError(t, err)
			assert.True(t, ok, "%s baseline %d", s.Name(), base)
		}
	}

	c, _, err := contrast.Treatment{}.Coding(levels, 0)
	require.NoError(t, err)
	ok, err := contrast.Centered(c)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = contrast.Centered(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestTreatment_OneLevelPerRow(t *testing.T) {
	c, _, err := contrast.Treatment{}.Coding([]string{"x", "y", "z", "w"}, 0)
	require.NoError(t, err)
	for i, r := range rows(t, c) {
		ones := 0
		for _, v := range r {
			if v == 1 {
				ones++
			}
		}
		if i == 0 {
			assert.Zero(t, ones, "baseline row")
		} else {
			assert.Equal(t, 1, ones, "row %d", i)
		}
	}
}

func TestCoding_Errors(t *testing.T) {
	for _, s := range []contrast.Scheme{contrast.Treatment{}, contrast.Sum{}, contrast.Helmert{}} {
		_, _, err := s.Coding([]string{"only"}, 0)
		require.ErrorIs(t, err, contrast.ErrTooFewLevels, s.Name())

		_, _, err = s.Coding([]string{"a", "b"}, 2)
		require.ErrorIs(t, err, contrast.ErrBaselineOutOfRange, s.Name())

		_, _, err = s.Coding([]string{"a", "b"}, -1)
		require.ErrorIs(t, err, contrast.ErrBaselineOutOfRange, s.Name())
	}
}

func TestIndicator(t *testing.T) {
	c, suffixes, err := contrast.Indicator([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, rows(t, c))
	assert.Equal(t, []string{"a", "b", "c"}, suffixes)

	_, _, err = contrast.Indicator(nil)
	require.ErrorIs(t, err, contrast.ErrTooFewLevels)
}

func TestByName(t *testing.T) {
	for name, want := range map[string]string{
		"treatment": contrast.NameTreatment,
		" Sum ":     contrast.NameSum,
		"HELMERT":   contrast.NameHelmert,
	} {
		s, err := contrast.ByName(name)
		require.NoError(t, err)
		assert.Equal(t, want, s.Name())
	}

	_, err := contrast.ByName("poly")
	require.ErrorIs(t, err, contrast.ErrUnknownScheme)
}
