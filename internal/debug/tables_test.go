package debug

import (
	"encoding/binary"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/skdltmxn/smx-go/internal/tables"
)

func rowTable(rowSize uint32, rows ...[]byte) []byte {
	out := make([]byte, 0, 12+len(rows)*int(rowSize))
	out = binary.LittleEndian.AppendUint32(out, 12)
	out = binary.LittleEndian.AppendUint32(out, rowSize)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(rows)))
	for _, row := range rows {
		padded := make([]byte, rowSize)
		copy(padded, row)
		out = append(out, padded...)
	}
	return out
}

func TestParseInfo(t *testing.T) {
	c := qt.New(t)

	data := make([]byte, 0, 16)
	for _, v := range []uint32{2, 40, 7, 1} {
		data = binary.LittleEndian.AppendUint32(data, v)
	}
	h, err := ParseInfo(data)
	c.Assert(err, qt.IsNil)
	c.Assert(h, qt.DeepEquals, &InfoHeader{NumFiles: 2, NumLines: 40, NumSyms: 7, NumArrays: 1})
}

func TestParseFiles(t *testing.T) {
	c := qt.New(t)

	names := tables.NewNameTable([]byte("plugin.sp\x00"))
	row := make([]byte, 0, 8)
	row = binary.LittleEndian.AppendUint32(row, 0x20)
	row = binary.LittleEndian.AppendUint32(row, 0)

	entries, err := ParseFiles(rowTable(8, row), names)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.DeepEquals, []FileEntry{
		{Address: 0x20, Name: "plugin.sp"},
	})
}

func TestParseVars(t *testing.T) {
	c := qt.New(t)

	names := tables.NewNameTable([]byte("g_count\x00"))

	row := make([]byte, 0, 21)
	row = binary.LittleEndian.AppendUint32(row, 0xfffffffc) // address -4
	row = append(row, VClassLocal)
	row = binary.LittleEndian.AppendUint32(row, 0) // name offset
	row = binary.LittleEndian.AppendUint32(row, 0x10)
	row = binary.LittleEndian.AppendUint32(row, 0x80)
	row = binary.LittleEndian.AppendUint32(row, 0x60) // type id

	entries, err := ParseVars(rowTable(21, row), names)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.DeepEquals, []VarEntry{
		{
			Address:   -4,
			VClass:    VClassLocal,
			Name:      "g_count",
			CodeStart: 0x10,
			CodeEnd:   0x80,
			TypeID:    0x60,
		},
	})
}

func TestParseMethodEntries(t *testing.T) {
	c := qt.New(t)

	row := make([]byte, 0, 8)
	row = binary.LittleEndian.AppendUint32(row, 1)
	row = binary.LittleEndian.AppendUint32(row, 3)

	entries, err := ParseMethods(rowTable(8, row))
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.DeepEquals, []MethodEntry{
		{MethodIndex: 1, FirstLocal: 3},
	})
}
