package tables

import (
	"encoding/binary"
	"testing"

	qt "github.com/frankban/quicktest"
)

func u32s(values ...uint32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}

func TestParseNatives(t *testing.T) {
	c := qt.New(t)

	names := NewNameTable([]byte("PrintToServer\x00GetClientCount\x00"))
	entries, err := ParseNatives(u32s(0, 14), names)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.DeepEquals, []NativeEntry{
		{Name: "PrintToServer"},
		{Name: "GetClientCount"},
	})
}

func TestParsePublics(t *testing.T) {
	c := qt.New(t)

	names := NewNameTable([]byte("OnPluginStart\x00"))
	entries, err := ParsePublics(u32s(0x40, 0), names)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.DeepEquals, []PublicEntry{
		{Address: 0x40, Name: "OnPluginStart"},
	})
}

func TestParsePublicsBadName(t *testing.T) {
	c := qt.New(t)

	names := NewNameTable([]byte("x\x00"))
	_, err := ParsePublics(u32s(0x40, 99), names)
	c.Assert(err, qt.Equals, ErrNameOffsetOutOfRange)
}

func TestTagFlags(t *testing.T) {
	c := qt.New(t)

	names := NewNameTable([]byte("Float\x00"))
	entries, err := ParseTags(u32s(TagFlagFixed|3, 0), names)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)

	tag := &entries[0]
	c.Assert(tag.Name, qt.Equals, "Float")
	c.Assert(tag.ID(), qt.Equals, uint32(3))
	c.Assert(tag.Flags(), qt.Equals, TagFlagFixed)
}

func TestParseCodeHeader(t *testing.T) {
	c := qt.New(t)

	data := []byte{
		0x10, 0x00, 0x00, 0x00, // codesize
		4,          // cellsize
		12,         // codeversion
		0x00, 0x00, // flags
		0x08, 0x00, 0x00, 0x00, // main
		0x18, 0x00, 0x00, 0x00, // code offset
	}
	h, err := ParseCodeHeader(data)
	c.Assert(err, qt.IsNil)
	c.Assert(h.CodeSize, qt.Equals, uint32(0x10))
	c.Assert(h.CellSize, qt.Equals, uint8(4))
	c.Assert(h.CodeVersion, qt.Equals, uint8(12))
	c.Assert(h.Features, qt.Equals, uint32(0))
}

func TestParseCodeHeaderFeatures(t *testing.T) {
	c := qt.New(t)

	data := []byte{
		0x10, 0x00, 0x00, 0x00,
		4,
		13, // version with features word
		0x00, 0x00,
		0x08, 0x00, 0x00, 0x00,
		0x18, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00, // features
	}
	h, err := ParseCodeHeader(data)
	c.Assert(err, qt.IsNil)
	c.Assert(h.Features, qt.Equals, uint32(1))
}

func TestCalledFunctions(t *testing.T) {
	c := qt.New(t)

	var cf CalledFunctions
	cf.Add(0x30)
	cf.Add(0x10)
	cf.Add(0x20)
	cf.Add(0x10) // duplicate

	c.Assert(cf.Len(), qt.Equals, 3)
	c.Assert(cf.Entries(), qt.DeepEquals, []CalledFunctionEntry{
		{Address: 0x10, Name: "sub_10"},
		{Address: 0x20, Name: "sub_20"},
		{Address: 0x30, Name: "sub_30"},
	})

	e, ok := cf.FindByAddress(0x20)
	c.Assert(ok, qt.IsTrue)
	c.Assert(e.Name, qt.Equals, "sub_20")

	_, ok = cf.FindByAddress(0x40)
	c.Assert(ok, qt.IsFalse)
}
