package recognize

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedStart means the first line does not begin with
	// UNCLASSIFIED. The document is quarantined without further inspection.
	ErrMalformedStart = errors.New("document does not start with UNCLASSIFIED")

	// ErrMalformedHeader means a legacy header block started but one of its
	// continuation lines was missing or wrong.
	ErrMalformedHeader = errors.New("malformed header block")
)

// HeaderError locates the line that broke a legacy header block.
type HeaderError struct {
	Index    int    // 0-based line index in the document
	Line     string // normalized content of the offending line
	Expected string // marker the line should have started with
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("header problem line %d: expected %q, got %q", e.Index, e.Expected, e.Line)
}

func (e *HeaderError) Unwrap() error { return ErrMalformedHeader }
