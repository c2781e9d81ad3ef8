package rtti

import (
	"fmt"

	"github.com/skdltmxn/smx-go/internal/stream"
)

// RowTableHeaderSize is the fixed size of the leading row-table
// header shared by every RTTI and debug row table.
const RowTableHeaderSize = 12

// RowTableHeader is the three-field header at the start of every
// RTTI-style section: header size, row size and row count, each a
// little-endian u32.
type RowTableHeader struct {
	HeaderSize uint32
	RowSize    uint32
	RowCount   uint32
}

// ParseRowTableHeader reads the row-table header from the start of a
// section and validates that the declared rows fit in the section.
func ParseRowTableHeader(data []byte) (*RowTableHeader, error) {
	r := stream.NewReader(data)
	h := &RowTableHeader{}

	var err error
	if h.HeaderSize, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if h.RowSize, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if h.RowCount, err = r.ReadU32(); err != nil {
		return nil, err
	}

	// A zero row size with a nonzero count would pass the byte-budget
	// check below while letting the count grow unbounded.
	if h.RowSize == 0 && h.RowCount > 0 {
		return nil, fmt.Errorf("rtti: row table declares %d rows of size 0", h.RowCount)
	}

	need := uint64(h.HeaderSize) + uint64(h.RowSize)*uint64(h.RowCount)
	if need > uint64(len(data)) {
		return nil, fmt.Errorf("rtti: row table needs %d bytes, section has %d", need, len(data))
	}

	return h, nil
}

// Row returns a reader positioned at row i. Rows are strided by
// RowSize starting immediately after the header.
func (h *RowTableHeader) Row(data []byte, i uint32) *stream.Reader {
	offset := int(h.HeaderSize) + int(i)*int(h.RowSize)
	return stream.NewReader(data[offset : offset+int(h.RowSize)])
}
