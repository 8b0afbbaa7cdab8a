// Package lvformula turns symbolic model formulas into design matrices.
//
// Given a formula such as "rt ~ gender*group", a table whose columns are
// explicitly declared Numeric or Categorical, and a contrast scheme, it
// produces the numeric matrix a linear-model fitting routine consumes,
// together with the term→column map term-significance tests need.
//
// Packages:
//
//	matrix/    row-major Dense storage, small kernels, rank via SVD, gonum bridge
//	frame/     typed columns and tables, row filtering, reference grids, CSV + YAML schema
//	formula/   lexer, recursive-descent parser and term expansion (+ - : * / ^ . cbind)
//	contrast/  Treatment, Sum and Helmert coding
//	design/    Compile / Encode / Build / BuildAll with marginality rules and rank check
//
// Quick example:
//
//	tbl, _ := frame.NewTable(rt, gender)
//	m, err := design.BuildString("rt ~ gender", tbl, contrast.Sum{})
//	// m.Columns == ["(Intercept)" "gender1"]; male rows [1 -1], female rows [1 1]
//
// Fitting, ANOVA tables, mixed models and marginal means stay outside: they
// consume Matrix.X (or Matrix.Gonum(), Gram(), CrossY()), Matrix.Terms and Plan.Encode output.
//
// See cmd/designmat for a command-line front end and examples/ for runnable
// scenarios.
package lvformula
