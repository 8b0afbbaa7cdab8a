// Package frame holds the explicitly typed tables a design matrix is built from.
//
// Every column is declared Numeric or Categorical by the caller, either in
// code (NewNumeric, NewCategorical) or through a YAML Schema when reading
// CSV. Nothing is inferred from the values: a column of "1", "2", "3" is
// numeric only if the schema says so. Categorical columns carry an ordered
// level set and a baseline (reference) level; the level set survives row
// filtering, so a level can be declared yet unobserved, which the design
// builder reports as a degenerate factor.
//
// Tables and columns are immutable after construction and safe to share
// across goroutines.
//
// Errors (sentinel):
//
//   - ErrTypeMismatch     value inconsistent with the declared kind/levels.
//   - ErrInvalidLevels    empty/duplicated levels or unknown baseline.
//   - ErrDuplicateColumn  two columns with the same name.
//   - ErrLengthMismatch   columns of different lengths.
//   - ErrUnknownColumn    lookup of an absent name.
//   - ErrInvalidSchema    schema failing validation.
package frame
