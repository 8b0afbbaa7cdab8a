// Package design builds the numeric design (model) matrix of a linear model
// from a formula, a typed table and a contrast scheme.
//
// Quick start:
//
//	m, err := design.BuildString("rt ~ gender", tbl, contrast.Sum{})
//	// m.X: n×p, m.Columns: names, m.Terms: term→column spans, m.Y: response
//
// Coding rules:
//
//   - Numeric variables contribute their values as one column.
//   - A categorical factor contributes its scheme's k−1 contrast columns,
//     or all k indicator columns when marginality requires it: in a term T
//     the factor f uses contrasts when T without f is empty or contained in
//     an earlier term. Without an intercept the first categorical factor is
//     fully coded. Only Treatment permits full coding; Sum and Helmert always
//     use contrasts, so "0 + a" under Sum still yields k−1 columns.
//   - With an intercept, a purely categorical term whose factors are all fully
//     coded drops the all-baseline cell: "y ~ a:b" gives 1 + (k·m − 1)
//     columns, "y ~ 0 + a:b" gives k·m.
//   - Interaction columns are products of their factors' columns, the first
//     factor varying fastest. The intercept comes first, then the terms in
//     formula order (or by degree with WithTermOrderByDegree).
//
// Build rejects collinear designs with ErrRankDeficiency (rank via SVD) and
// never drops or pivots columns. Compile returns a Plan that re-encodes new
// tables with identical columns, for prediction rows and reference grids.
// BuildAll builds competing formulas concurrently.
//
// Everything here is pure: inputs are never mutated, so concurrent calls over
// shared tables need no coordination.
package design
