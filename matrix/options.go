// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for rank estimation. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal).
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultRankTolerance of zero means "derive it": Rank then uses
	// max(rows, cols) · ε · σmax, the LAPACK/NumPy convention.
	DefaultRankTolerance = 0.0
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicRankToleranceInvalid = "matrix: WithRankTolerance: tol must be finite, non-negative"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	rankTol float64 // >= 0; DefaultRankTolerance
}

// WithRankTolerance sets the absolute singular-value threshold used by Rank.
// Singular values <= tol count as zero. tol == 0 restores the derived default.
//
// Errors:
//   - Panics with a stable message when tol is NaN, ±Inf or negative.
func WithRankTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicRankToleranceInvalid)
	}

	return func(o *Options) { o.rankTol = tol }
}

// defaultOptions returns Options populated from the Default* constants.
func defaultOptions() Options {
	return Options{rankTol: DefaultRankTolerance}
}

// gatherOptions applies opts over defaults in order; later options win.
// Complexity: O(len(opts)).
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
