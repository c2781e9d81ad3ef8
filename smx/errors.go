// Package smx provides parsing and querying of compiled SourcePawn
// plugin images (SMX files).
package smx

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrInvalidMagic indicates the file does not start with the SMX magic.
	ErrInvalidMagic = errors.New("smx: invalid magic")

	// ErrInvalidSize indicates a size field inconsistent with the image.
	ErrInvalidSize = errors.New("smx: invalid size")

	// ErrInvalidOffset indicates an offset outside the image.
	ErrInvalidOffset = errors.New("smx: invalid offset")

	// ErrInvalidIndex indicates an index past the end of a table.
	ErrInvalidIndex = errors.New("smx: invalid index")

	// ErrOffsetOverflow indicates an offset computation that overflowed.
	ErrOffsetOverflow = errors.New("smx: offset overflow")

	// ErrSizeOverflow indicates a size computation that overflowed.
	ErrSizeOverflow = errors.New("smx: size overflow")

	// ErrSectionNotFound indicates a named section is absent.
	ErrSectionNotFound = errors.New("smx: section not found")

	// ErrUnsupportedCompression indicates an unknown compression byte.
	ErrUnsupportedCompression = errors.New("smx: unsupported compression")
)

// ParseError provides detailed information about parsing failures.
type ParseError struct {
	Section string // Section name where the error occurred
	Offset  int64  // Byte offset within the section
	Message string // Description of the error
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("smx: parse error in %s at offset 0x%x: %s: %v",
			e.Section, e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("smx: parse error in %s at offset 0x%x: %s",
		e.Section, e.Offset, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }
