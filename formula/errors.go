// SPDX-License-Identifier: MIT

package formula

import (
	"errors"
	"fmt"
)

// ErrInvalidFormula is the single sentinel for every formula problem: lexical
// errors, malformed operator nesting, a missing '~', unsupported syntax, and
// (at build time) references to columns the data does not have.
var ErrInvalidFormula = errors.New("formula: invalid formula")

// syntaxError wraps ErrInvalidFormula with the byte offset and a reason.
func syntaxError(pos int, format string, args ...any) error {
	return fmt.Errorf("%w: at %d: %s", ErrInvalidFormula, pos, fmt.Sprintf(format, args...))
}

// invalidf wraps ErrInvalidFormula with a position-free reason.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFormula, fmt.Sprintf(format, args...))
}
