package converter

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates the input stream held no table.
	ErrEmptyInput = errors.New("empty input")
	// ErrUndecodable indicates the input stream is not valid text.
	ErrUndecodable = errors.New("not decodable as text")
	// ErrBadDelimiter indicates the delimiter is unsupported or splits nothing.
	ErrBadDelimiter = errors.New("delimiter does not separate any field")
	// ErrSheetName indicates a sheet name that cannot be used in a workbook.
	ErrSheetName = errors.New("invalid sheet name")
)

// ParseError reports a delimited table that could not be read.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parse error: %v", e.Err)
	}
	return fmt.Sprintf("parse error in %q: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WriteError reports a failure serializing a sheet or workbook.
type WriteError struct {
	Sheet string
	Err   error
}

func (e *WriteError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("write error: %v", e.Err)
	}
	return fmt.Sprintf("write error in sheet %q: %v", e.Sheet, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IOError reports a failure assembling the final archive or workbook.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
