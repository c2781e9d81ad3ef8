package tables

import (
	"fmt"
	"sort"

	"github.com/skdltmxn/smx-go/internal/stream"
)

// Sizes of the fixed-width v1 rows.
const (
	NativeRowSize = 4
	PublicRowSize = 8
	PubvarRowSize = 8
	TagRowSize    = 8
)

// NativeEntry is a row of the .natives section.
type NativeEntry struct {
	Name string
}

// ParseNatives reads the .natives section: one name offset per row.
func ParseNatives(data []byte, names *NameTable) ([]NativeEntry, error) {
	r := stream.NewReader(data)
	count := len(data) / NativeRowSize

	entries := make([]NativeEntry, 0, count)
	for i := 0; i < count; i++ {
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := names.StringAt(nameOffset)
		if err != nil {
			return nil, err
		}
		entries = append(entries, NativeEntry{Name: name})
	}

	return entries, nil
}

// PublicEntry is a row of the .publics section.
type PublicEntry struct {
	Address uint32
	Name    string
}

// ParsePublics reads the .publics section.
func ParsePublics(data []byte, names *NameTable) ([]PublicEntry, error) {
	r := stream.NewReader(data)
	count := len(data) / PublicRowSize

	entries := make([]PublicEntry, 0, count)
	for i := 0; i < count; i++ {
		address, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := names.StringAt(nameOffset)
		if err != nil {
			return nil, err
		}
		entries = append(entries, PublicEntry{Address: address, Name: name})
	}

	return entries, nil
}

// PubvarEntry is a row of the .pubvars section.
type PubvarEntry struct {
	Address uint32
	Name    string
}

// ParsePubvars reads the .pubvars section.
func ParsePubvars(data []byte, names *NameTable) ([]PubvarEntry, error) {
	r := stream.NewReader(data)
	count := len(data) / PubvarRowSize

	entries := make([]PubvarEntry, 0, count)
	for i := 0; i < count; i++ {
		address, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := names.StringAt(nameOffset)
		if err != nil {
			return nil, err
		}
		entries = append(entries, PubvarEntry{Address: address, Name: name})
	}

	return entries, nil
}

// Tag flag bits stored in the high bits of a tag value.
const (
	TagFlagFixed     uint32 = 0x40000000
	TagFlagFunction  uint32 = 0x20000000
	TagFlagObject    uint32 = 0x10000000
	TagFlagEnum      uint32 = 0x08000000
	TagFlagMethodMap uint32 = 0x04000000
	TagFlagStruct    uint32 = 0x02000000

	// TagFlagMask covers all flag bits.
	TagFlagMask uint32 = 0x7e000000
)

// TagEntry is a row of the .tags section.
type TagEntry struct {
	Value uint32
	Name  string
}

// ID returns the tag id with the flag bits stripped.
func (t *TagEntry) ID() uint32 {
	return t.Value &^ TagFlagMask
}

// Flags returns only the flag bits of the tag value.
func (t *TagEntry) Flags() uint32 {
	return t.Value & TagFlagMask
}

// ParseTags reads the .tags section.
func ParseTags(data []byte, names *NameTable) ([]TagEntry, error) {
	r := stream.NewReader(data)
	count := len(data) / TagRowSize

	entries := make([]TagEntry, 0, count)
	for i := 0; i < count; i++ {
		value, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := names.StringAt(nameOffset)
		if err != nil {
			return nil, err
		}
		entries = append(entries, TagEntry{Value: value, Name: name})
	}

	return entries, nil
}

// CodeHeader is the fixed header of the .code section.
type CodeHeader struct {
	CodeSize    uint32
	CellSize    uint8
	CodeVersion uint8
	Flags       uint16
	MainOffset  uint32
	CodeOffset  uint32

	// Features is present only for code version 13 and later.
	Features uint32
}

// Code version at which the features field was added.
const codeVersionFeatures = 13

// ParseCodeHeader reads the .code section header.
func ParseCodeHeader(data []byte) (*CodeHeader, error) {
	r := stream.NewReader(data)
	h := &CodeHeader{}

	var err error
	if h.CodeSize, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if h.CellSize, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if h.CodeVersion, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if h.Flags, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if h.MainOffset, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if h.CodeOffset, err = r.ReadU32(); err != nil {
		return nil, err
	}

	if h.CodeVersion >= codeVersionFeatures {
		if h.Features, err = r.ReadU32(); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// DataHeader is the fixed header of the .data section.
type DataHeader struct {
	DataSize   uint32
	MemSize    uint32
	DataOffset uint32
}

// ParseDataHeader reads the .data section header.
func ParseDataHeader(data []byte) (*DataHeader, error) {
	r := stream.NewReader(data)
	h := &DataHeader{}

	var err error
	if h.DataSize, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if h.MemSize, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if h.DataOffset, err = r.ReadU32(); err != nil {
		return nil, err
	}

	return h, nil
}

// CalledFunctionEntry names a function discovered from call sites.
type CalledFunctionEntry struct {
	Address uint32
	Name    string
}

// CalledFunctions collects functions that are known only from call
// instructions. Entries are synthesized with sub_<addr> names.
type CalledFunctions struct {
	entries []CalledFunctionEntry
}

// Add records a function address unless it is already known.
func (c *CalledFunctions) Add(addr uint32) {
	i := sort.Search(len(c.entries), func(i int) bool {
		return c.entries[i].Address >= addr
	})
	if i < len(c.entries) && c.entries[i].Address == addr {
		return
	}

	entry := CalledFunctionEntry{
		Address: addr,
		Name:    fmt.Sprintf("sub_%x", addr),
	}
	c.entries = append(c.entries, CalledFunctionEntry{})
	copy(c.entries[i+1:], c.entries[i:])
	c.entries[i] = entry
}

// Entries returns all known called functions in address order.
func (c *CalledFunctions) Entries() []CalledFunctionEntry {
	return c.entries
}

// FindByAddress returns the entry for an exact address.
func (c *CalledFunctions) FindByAddress(addr uint32) (CalledFunctionEntry, bool) {
	i := sort.Search(len(c.entries), func(i int) bool {
		return c.entries[i].Address >= addr
	})
	if i < len(c.entries) && c.entries[i].Address == addr {
		return c.entries[i], true
	}
	return CalledFunctionEntry{}, false
}

// Len returns the number of entries.
func (c *CalledFunctions) Len() int {
	return len(c.entries)
}
