package formats

import (
	"errors"
	"fmt"
)

// OBJ format errors.
var (
	ErrMalformedNumber = errors.New("malformed number")
	ErrMalformedRecord = errors.New("malformed record")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrTooFewVertices  = errors.New("face has fewer than 3 vertices")
)

// ParseError describes why a source could not be loaded. A load that
// returns a ParseError produced no usable mesh.
type ParseError struct {
	Path   string // Source path, if known
	Line   int    // 1-based line number, 0 when not line-specific
	Record string // Record keyword ("v", "f", ...)
	Err    error
}

func (e *ParseError) Error() string {
	src := e.Path
	if src == "" {
		src = "<input>"
	}
	if e.Line == 0 {
		return fmt.Sprintf("parse %s: %v", src, e.Err)
	}
	if e.Record == "" {
		return fmt.Sprintf("parse %s:%d: %v", src, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s:%d: %s: %v", src, e.Line, e.Record, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
