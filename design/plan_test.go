// SPDX-License-Identifier: MIT

package design_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/lvformula/contrast"
	"github.com/katalvlaran/lvformula/design"
	"github.com/katalvlaran/lvformula/formula"
	"github.com/katalvlaran/lvformula/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuild_Errors(t *testing.T) {
	tbl := crossedTable(t)
	one := mustCategorical(t, "solo", []string{"x", "x", "x", "x", "x", "x", "x", "x", "x", "x", "x", "x"}, []string{"x"})
	tri := mustCategorical(t, "tri", []string{"a", "b", "c", "a", "b", "c", "a", "b", "c", "a", "b", "c"}, []string{"a", "b", "c"})
	wide, err := frame.NewTable(append(tbl.Columns(), one, tri)...)
	require.NoError(t, err)

	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown column", "y ~ nope", design.ErrInvalidFormula},
		{"unknown response", "nope ~ x1", design.ErrInvalidFormula},
		{"syntax", "y ~ x1 +", design.ErrInvalidFormula},
		{"empty model", "y ~ 0", design.ErrInvalidFormula},
		{"single level factor", "y ~ solo", design.ErrDegenerateFactor},
		{"collinear covariates", "y ~ x1 + x3", design.ErrRankDeficiency},
		{"interaction before main effect", "y ~ a:b + a", design.ErrRankDeficiency},
		{"three-level response", "tri ~ x1", design.ErrTypeMismatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := design.BuildString(tc.src, wide, contrast.Treatment{})
			require.ErrorIs(t, err, tc.want)
			assert.Nil(t, m)
		})
	}
}

func TestBuild_UnobservedLevelAfterFilter(t *testing.T) {
	tbl := crossedTable(t)
	a, err := tbl.Column("a")
	require.NoError(t, err)
	noR := tbl.Filter(func(row int) bool { return a.Label(row) != "r" })

	_, err = design.BuildString("y ~ a", noR, contrast.Treatment{})
	require.ErrorIs(t, err, design.ErrDegenerateFactor)

	// A factor the formula does not use may keep empty levels.
	_, err = design.BuildString("y ~ b", noR, contrast.Treatment{})
	require.NoError(t, err)
}

func TestBuild_NilInputs(t *testing.T) {
	_, err := design.Build(nil, crossedTable(t), contrast.Treatment{})
	require.ErrorIs(t, err, design.ErrInvalidFormula)

	_, err = design.Build(formula.MustParse("y ~ x"), nil, contrast.Treatment{})
	require.ErrorIs(t, err, design.ErrTypeMismatch)

	m, err := design.Build(formula.MustParse("y ~ gender"), genderTable(t), nil)
	require.NoError(t, err)
	assert.Equal(t, contrast.NameTreatment, m.Codings["gender"].Scheme)
}

func TestBuild_AllowRankDeficient(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m, err := design.BuildString("y ~ x1 + x3", crossedTable(t), contrast.Treatment{},
		design.WithAllowRankDeficient(),
		design.WithLogger(zap.New(core)))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Cols())

	entries := logs.FilterMessage("design: rank-deficient design matrix kept").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 2, entries[0].ContextMap()["rank"])
}

func TestBuild_DebugLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := design.BuildString("y ~ a*b", crossedTable(t), contrast.Sum{}, design.WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.Equal(t, 2, logs.FilterMessage("design: factor coding").Len())
	assert.Equal(t, 1, logs.FilterMessage("design: compiled").Len())
	assert.Equal(t, 1, logs.FilterMessage("design: built").Len())
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { design.WithLogger(nil) })
	assert.Panics(t, func() { design.WithRankTolerance(-1) })
	assert.NotPanics(t, func() { design.WithRankTolerance(0) })
}

func TestPlan_EncodeReferenceGrid(t *testing.T) {
	tbl := crossedTable(t)
	plan, err := design.Compile(formula.MustParse("y ~ a*b + x1"), tbl, contrast.Treatment{})
	require.NoError(t, err)
	assert.Equal(t, []string{design.InterceptColumn, "aq", "ar", "bv", "aq:bv", "ar:bv", "x1"}, plan.Columns())
	assert.Len(t, plan.Terms(), 4)
	assert.Equal(t, "y ~ a + b + a:b + x1", plan.Formula().String())

	grid, err := frame.ReferenceGrid(tbl, "a", "b", "x1")
	require.NoError(t, err)
	require.Equal(t, 6, grid.Rows())

	m, err := plan.Encode(grid)
	require.NoError(t, err)
	assert.Nil(t, m.Y, "grid carries no response")
	assert.Equal(t, plan.Columns(), m.Columns)

	// Row 4 of the grid is (a=q, b=v) with x1 at its mean 5.5.
	assert.Equal(t, []float64{1, 1, 0, 1, 1, 0, 5.5}, rowsOf(t, m)[4])
	assert.Equal(t, []float64{1, 0, 0, 0, 0, 0, 5.5}, rowsOf(t, m)[0])
}

func TestPlan_EncodeSubsetWithoutRankCheck(t *testing.T) {
	tbl := crossedTable(t)
	plan, err := design.Compile(formula.MustParse("y ~ a"), tbl, contrast.Treatment{})
	require.NoError(t, err)

	first, err := tbl.Subset([]int{0})
	require.NoError(t, err)
	m, err := plan.Encode(first)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0, 0}}, rowsOf(t, m))
	require.NotNil(t, m.Y)
	assert.Equal(t, []float64{0.5}, m.Y.RawData())
}

func TestPlan_EncodeMismatch(t *testing.T) {
	tbl := crossedTable(t)
	plan, err := design.Compile(formula.MustParse("y ~ a + x1"), tbl, contrast.Treatment{})
	require.NoError(t, err)

	x1 := mustNumeric(t, "x1", []float64{1, 2})
	twoLevels := mustCategorical(t, "a", []string{"p", "q"}, []string{"p", "q"})
	reordered := mustCategorical(t, "a", []string{"p", "q"}, []string{"q", "p", "r"})
	asNumeric := mustNumeric(t, "a", []float64{1, 2})

	tests := []struct {
		name string
		cols []*frame.Column
		want error
	}{
		{"missing column", []*frame.Column{x1}, design.ErrInvalidFormula},
		{"different levels", []*frame.Column{x1, twoLevels}, design.ErrTypeMismatch},
		{"reordered levels", []*frame.Column{x1, reordered}, design.ErrTypeMismatch},
		{"different kind", []*frame.Column{x1, asNumeric}, design.ErrTypeMismatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nt, err := frame.NewTable(tc.cols...)
			require.NoError(t, err)
			_, err = plan.Encode(nt)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err = plan.Encode(nil)
	require.ErrorIs(t, err, design.ErrTypeMismatch)
}

func TestBuildAll(t *testing.T) {
	tbl := crossedTable(t)
	fs := []*formula.Formula{
		formula.MustParse("y ~ a"),
		formula.MustParse("y ~ a + b"),
		formula.MustParse("y ~ a*b"),
		formula.MustParse("y ~ a*b + x1"),
	}
	ms, err := design.BuildAll(context.Background(), tbl, contrast.Sum{}, fs)
	require.NoError(t, err)
	require.Len(t, ms, len(fs))
	for i, want := range []int{3, 4, 6, 7} {
		assert.Equal(t, want, ms[i].Cols(), fs[i].String())
	}
}

func TestBuildAll_FirstErrorWins(t *testing.T) {
	tbl := crossedTable(t)
	fs := []*formula.Formula{
		formula.MustParse("y ~ a"),
		formula.MustParse("y ~ missing"),
		formula.MustParse("y ~ b"),
	}
	ms, err := design.BuildAll(context.Background(), tbl, contrast.Treatment{}, fs)
	require.ErrorIs(t, err, design.ErrInvalidFormula)
	assert.Nil(t, ms)
}

func TestBuildAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := design.BuildAll(ctx, crossedTable(t), contrast.Treatment{}, []*formula.Formula{formula.MustParse("y ~ a")})
	require.ErrorIs(t, err, context.Canceled)
}
