// Package matchlog reads match logs and aggregates their game records.
package matchlog

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord is wrapped by every ParseError.
var ErrMalformedRecord = errors.New("wrong file format")

// ParseError reports a line that does not follow the record grammar.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("line %d: %v", e.Line, ErrMalformedRecord)
	}
	return fmt.Sprintf("line %d: %v (%s)", e.Line, ErrMalformedRecord, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedRecord
}
