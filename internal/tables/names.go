// Package tables implements the flat record tables of an SMX image:
// the name tables plus the v1 natives, publics, pubvars and tags
// sections.
package tables

import (
	"errors"
	"strings"
	"sync"
)

// ErrNameOffsetOutOfRange indicates a name offset past the end of the
// name section.
var ErrNameOffsetOutOfRange = errors.New("tables: name offset out of range")

// NameTable decodes a NUL-terminated string pool section (.names or
// .dbg.names). Lookups are memoized per offset; the underlying bytes
// are immutable for the table's lifetime so entries are never
// invalidated.
type NameTable struct {
	data []byte

	names sync.Map // map[uint32]string

	extents     []uint32
	extentsOnce sync.Once
}

// NewNameTable creates a NameTable over the given section bytes.
func NewNameTable(data []byte) *NameTable {
	return &NameTable{data: data}
}

// StringAt returns the string starting at the given byte offset. The
// string runs until the next NUL byte or the end of the section, and
// invalid UTF-8 sequences are replaced. Two calls with the same offset
// return identical strings; the second call does not rescan.
func (t *NameTable) StringAt(offset uint32) (string, error) {
	if cached, ok := t.names.Load(offset); ok {
		return cached.(string), nil
	}

	if offset >= uint32(len(t.data)) {
		return "", ErrNameOffsetOutOfRange
	}

	end := int(offset)
	for end < len(t.data) && t.data[end] != 0 {
		end++
	}

	s := strings.ToValidUTF8(string(t.data[offset:end]), "�")
	t.names.Store(offset, s)
	return s, nil
}

// Extents returns all root offsets of the table: offset 0 plus every
// offset immediately following a NUL byte. The set is computed once by
// a single linear scan and cached.
func (t *NameTable) Extents() []uint32 {
	t.extentsOnce.Do(func() {
		var last uint32
		for i := 0; i < len(t.data); i++ {
			if t.data[i] == 0 {
				t.extents = append(t.extents, last)
				last = uint32(i) + 1
			}
		}
	})
	return t.extents
}

// Size returns the section size in bytes.
func (t *NameTable) Size() int {
	return len(t.data)
}
