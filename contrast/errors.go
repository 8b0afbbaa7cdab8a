// SPDX-License-Identifier: MIT

package contrast

import (
	"errors"
	"fmt"
)

var (
	// ErrTooFewLevels indicates a factor with fewer than two levels; no
	// contrast can be formed.
	ErrTooFewLevels = errors.New("contrast: factor needs at least two levels")

	// ErrBaselineOutOfRange indicates a baseline index outside [0, k).
	ErrBaselineOutOfRange = errors.New("contrast: baseline index out of range")

	// ErrUnknownScheme indicates a scheme name ByName does not recognize.
	ErrUnknownScheme = errors.New("contrast: unknown scheme")
)

// codingErrorf prefixes err with the scheme name.
func codingErrorf(scheme string, err error) error {
	return fmt.Errorf("%s.Coding: %w", scheme, err)
}
