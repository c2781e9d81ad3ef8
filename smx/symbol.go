package smx

import (
	"sync"

	"github.com/skdltmxn/smx-go/internal/tables"
)

// Native is a row of the .natives table.
type Native struct {
	Name string
}

// Public is a row of the .publics table: an exported function.
type Public struct {
	Address uint32
	Name    string
}

// Pubvar is a row of the .pubvars table: an exported variable.
type Pubvar struct {
	Address uint32
	Name    string
}

// CalledFunction names a function known only from call sites.
type CalledFunction struct {
	Address uint32
	Name    string
}

// CodeHeader describes the .code section.
type CodeHeader struct {
	CodeSize    uint32
	CellSize    uint8
	CodeVersion uint8
	Flags       uint16
	MainOffset  uint32
	CodeOffset  uint32
	Features    uint32
}

// DataHeader describes the .data section.
type DataHeader struct {
	DataSize   uint32
	MemSize    uint32
	DataOffset uint32
}

// Tag flag bits stored in the high bits of a tag value.
const (
	TagFlagFixed     = tables.TagFlagFixed
	TagFlagFunction  = tables.TagFlagFunction
	TagFlagObject    = tables.TagFlagObject
	TagFlagEnum      = tables.TagFlagEnum
	TagFlagMethodMap = tables.TagFlagMethodMap
	TagFlagStruct    = tables.TagFlagStruct
)

// Tag is a row of the .tags table.
type Tag struct {
	Value uint32
	Name  string
}

// ID returns the tag id with the flag bits stripped.
func (t *Tag) ID() uint32 {
	return t.Value &^ tables.TagFlagMask
}

// Flags returns only the flag bits of the tag value.
func (t *Tag) Flags() uint32 {
	return t.Value & tables.TagFlagMask
}

// TagTable holds the .tags rows plus a lookup cache keyed by tag id.
type TagTable struct {
	tags  []Tag
	cache sync.Map // map[uint16]*Tag
}

// Entries returns all tags in section order.
func (tt *TagTable) Entries() []Tag {
	return tt.tags
}

// Len returns the number of tags.
func (tt *TagTable) Len() int {
	return len(tt.tags)
}

// Get returns the tag at the given index.
func (tt *TagTable) Get(index int) (*Tag, error) {
	if index < 0 || index >= len(tt.tags) {
		return nil, ErrInvalidIndex
	}
	return &tt.tags[index], nil
}

// FindTag returns the tag with the given id. The result is cached per
// id; a repeated lookup does not rescan the table.
func (tt *TagTable) FindTag(tag uint16) (*Tag, bool) {
	if cached, ok := tt.cache.Load(tag); ok {
		return cached.(*Tag), true
	}

	for i := range tt.tags {
		if uint16(tt.tags[i].ID()) == tag {
			tt.cache.Store(tag, &tt.tags[i])
			return &tt.tags[i], true
		}
	}
	return nil, false
}
