package tables

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNameTableStringAt(t *testing.T) {
	c := qt.New(t)

	nt := NewNameTable([]byte("foo\x00bar\x00"))

	s, err := nt.StringAt(0)
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "foo")

	s, err = nt.StringAt(4)
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "bar")

	// Interior offsets are legal and decode the string tail.
	s, err = nt.StringAt(1)
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "oo")

	_, err = nt.StringAt(8)
	c.Assert(err, qt.Equals, ErrNameOffsetOutOfRange)
}

func TestNameTableMemoized(t *testing.T) {
	c := qt.New(t)

	data := []byte("quux\x00")
	nt := NewNameTable(data)

	first, err := nt.StringAt(0)
	c.Assert(err, qt.IsNil)

	// Mutating the backing bytes must not change a memoized result.
	data[0] = 'z'
	second, err := nt.StringAt(0)
	c.Assert(err, qt.IsNil)
	c.Assert(second, qt.Equals, first)
}

func TestNameTableUnterminated(t *testing.T) {
	c := qt.New(t)

	nt := NewNameTable([]byte("abc"))
	s, err := nt.StringAt(0)
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "abc")
}

func TestNameTableInvalidUTF8(t *testing.T) {
	c := qt.New(t)

	nt := NewNameTable([]byte{'a', 0xff, 'b', 0})
	s, err := nt.StringAt(0)
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "a�b")
}

func TestNameTableExtents(t *testing.T) {
	c := qt.New(t)

	nt := NewNameTable([]byte("foo\x00bar\x00"))
	c.Assert(nt.Extents(), qt.DeepEquals, []uint32{0, 4})

	// Cached on second call.
	c.Assert(nt.Extents(), qt.DeepEquals, []uint32{0, 4})
}

func TestNameTableExtentsEmpty(t *testing.T) {
	c := qt.New(t)

	nt := NewNameTable(nil)
	c.Assert(len(nt.Extents()), qt.Equals, 0)
}
