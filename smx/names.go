package smx

import "github.com/skdltmxn/smx-go/internal/tables"

// NameTable provides lookup into a NUL-terminated string pool section.
// Lookups are memoized; the same offset always decodes to the same
// string.
type NameTable struct {
	table *tables.NameTable
}

// StringAt returns the string starting at the given byte offset.
func (t *NameTable) StringAt(offset uint32) (string, error) {
	s, err := t.table.StringAt(offset)
	if err != nil {
		return "", ErrInvalidIndex
	}
	return s, nil
}

// Extents returns all root string offsets of the table. The result is
// computed once and cached.
func (t *NameTable) Extents() []uint32 {
	return t.table.Extents()
}

// Size returns the section size in bytes.
func (t *NameTable) Size() int {
	return t.table.Size()
}
