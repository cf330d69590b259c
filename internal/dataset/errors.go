package dataset

import (
	"errors"
	"fmt"
)

var errIsDir = errors.New("is a directory")

// IOError indicates the source file is missing or unreadable.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError indicates the file was readable but is not valid tabular data.
// Line is 1-based; zero when unknown.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid data in %s at line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("invalid data in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
