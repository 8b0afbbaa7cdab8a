// SPDX-License-Identifier: MIT

// Package design: functional options for Compile/Build/BuildAll.
//   - Defaults are documented constants.
//   - WithX constructors panic on nonsensical arguments (programmer error).
package design

import (
	"math"

	"go.uber.org/zap"
)

const (
	// DefaultRankTolerance of zero derives the threshold from the matrix:
	// max(n, p) · ε · σmax.
	DefaultRankTolerance = 0.0

	// DefaultTermOrderByDegree keeps terms in formula order.
	DefaultTermOrderByDegree = false

	// DefaultAllowRankDeficient rejects collinear designs.
	DefaultAllowRankDeficient = false
)

const (
	panicNilLogger        = "design: WithLogger: logger must be non-nil"
	panicInvalidTolerance = "design: WithRankTolerance: tol must be finite, non-negative"
)

// Option configures a build.
type Option func(*Options)

// Options holds the resolved configuration. Fields are unexported; use the
// WithX constructors.
type Options struct {
	logger             *zap.Logger
	byDegree           bool
	rankTol            float64
	allowRankDeficient bool
}

// WithLogger routes Debug/Warn records about resolved terms, codings and
// tolerated rank deficiency to l. The default logger discards everything.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic(panicNilLogger)
	}

	return func(o *Options) { o.logger = l }
}

// WithTermOrderByDegree orders terms main effects first, then two-way
// interactions, and so on (stable within a degree).
func WithTermOrderByDegree() Option {
	return func(o *Options) { o.byDegree = true }
}

// WithRankTolerance sets the absolute singular-value threshold of the rank
// check; zero restores the derived default.
func WithRankTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicInvalidTolerance)
	}

	return func(o *Options) { o.rankTol = tol }
}

// WithAllowRankDeficient skips the rank check. Columns are never dropped; the
// caller receives the full, collinear matrix.
func WithAllowRankDeficient() Option {
	return func(o *Options) { o.allowRankDeficient = true }
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		logger:             zap.NewNop(),
		byDegree:           DefaultTermOrderByDegree,
		rankTol:            DefaultRankTolerance,
		allowRankDeficient: DefaultAllowRankDeficient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
