// SPDX-License-Identifier: MIT

// Package matrix provides the dense numeric storage behind design matrices.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked accessors and a
//     finite-only numeric policy (NaN/±Inf rejected on Set).
//   - Column helpers (Col, SetCol, Induced) used to assemble a model matrix
//     one term block at a time.
//   - Small deterministic kernels: Transpose, Mul, MatVec, ColSums,
//     CrossProduct (XᵀX), AllClose.
//   - Rank estimation through gonum's SVD and a ToGonum bridge so fitting
//     routines built on gonum.org/v1/gonum/mat can consume a Dense directly.
//
// All loops run in fixed row-major order, so identical inputs always yield
// bit-identical outputs.
package matrix
