// SPDX-License-Identifier: MIT

package frame

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the frame package. Match with errors.Is.
var (
	// ErrTypeMismatch indicates that a value is inconsistent with the column's
	// declared kind: a non-finite number in a Numeric column, a label outside
	// the declared level set of a Categorical column, or an unparsable CSV cell.
	ErrTypeMismatch = errors.New("frame: value inconsistent with declared column type")

	// ErrEmptyName indicates a column was declared without a name.
	ErrEmptyName = errors.New("frame: column name is empty")

	// ErrDuplicateColumn indicates two columns share a name in one table.
	ErrDuplicateColumn = errors.New("frame: duplicate column name")

	// ErrLengthMismatch indicates columns of different lengths in one table.
	ErrLengthMismatch = errors.New("frame: column lengths differ")

	// ErrUnknownColumn indicates a lookup of a column name absent from the table.
	ErrUnknownColumn = errors.New("frame: unknown column")

	// ErrInvalidLevels indicates a bad declared level set: empty, duplicated
	// labels, empty labels, or a baseline that is not one of the levels.
	ErrInvalidLevels = errors.New("frame: invalid level set")

	// ErrInvalidSchema indicates a schema file that fails validation.
	ErrInvalidSchema = errors.New("frame: invalid schema")

	// ErrOutOfRange indicates a row index outside [0, Rows()).
	ErrOutOfRange = errors.New("frame: row index out of range")
)

// columnErrorf tags err with the column name: `column "x": <err>`.
func columnErrorf(name string, err error) error {
	return fmt.Errorf("column %q: %w", name, err)
}
