package merge

import (
	"errors"
	"fmt"
)

// ErrUnsupportedColumnType is matched by every *UnsupportedColumnTypeError.
var ErrUnsupportedColumnType = errors.New("unsupported column type")

// UnsupportedColumnTypeError reports a column whose database type has no
// TypeScript mapping. The file being generated fails; the run goes on.
type UnsupportedColumnTypeError struct {
	Table  string
	Column string
	DBType string
}

func (e *UnsupportedColumnTypeError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("%s: column %q has type %q", ErrUnsupportedColumnType, e.Column, e.DBType)
	}
	return fmt.Sprintf("%s: column %s.%s has type %q", ErrUnsupportedColumnType, e.Table, e.Column, e.DBType)
}

func (e *UnsupportedColumnTypeError) Unwrap() error {
	return ErrUnsupportedColumnType
}

// IsUnsupportedColumnType reports whether err carries an UnsupportedColumnTypeError.
func IsUnsupportedColumnType(err error) bool {
	var e *UnsupportedColumnTypeError
	return errors.As(err, &e)
}
