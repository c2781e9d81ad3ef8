package debug

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/skdltmxn/smx-go/internal/rtti"
)

func TestFindFile(t *testing.T) {
	c := qt.New(t)

	r := NewResolver(
		[]FileEntry{
			{Address: 0, Name: "plugin.sp"},
			{Address: 0x100, Name: "include/console.inc"},
		},
		nil, nil, nil, nil, nil,
	)

	name, ok := r.FindFile(0x20)
	c.Assert(ok, qt.IsTrue)
	c.Assert(name, qt.Equals, "plugin.sp")

	name, ok = r.FindFile(0x100)
	c.Assert(ok, qt.IsTrue)
	c.Assert(name, qt.Equals, "include/console.inc")
}

func TestFindLine(t *testing.T) {
	c := qt.New(t)

	r := NewResolver(nil,
		[]LineEntry{
			{Address: 0x10, Line: 4},
			{Address: 0x30, Line: 9},
		},
		nil, nil, nil, nil,
	)

	// Stored lines are zero-based; reported lines are one-based.
	line, ok := r.FindLine(0x10)
	c.Assert(ok, qt.IsTrue)
	c.Assert(line, qt.Equals, uint32(5))

	line, ok = r.FindLine(0x2f)
	c.Assert(ok, qt.IsTrue)
	c.Assert(line, qt.Equals, uint32(5))

	line, ok = r.FindLine(0x1000)
	c.Assert(ok, qt.IsTrue)
	c.Assert(line, qt.Equals, uint32(10))

	_, ok = r.FindLine(0x0f)
	c.Assert(ok, qt.IsFalse)
}

func TestFindGlobal(t *testing.T) {
	c := qt.New(t)

	globals := NewSymbolTable([]VarEntry{
		{Address: 0, Name: "g_first"},
		{Address: 8, Name: "g_second"},
		{Address: 16, Name: "g_third"},
	})
	r := NewResolver(nil, nil, nil, globals, nil, nil)

	cases := []struct {
		addr int32
		name string
		ok   bool
	}{
		{0, "g_first", true},
		{7, "g_first", true},
		{8, "g_second", true},
		{15, "g_second", true},
		{16, "g_third", true},
		{20, "g_third", true}, // no upper bound past the last global
		{-4, "", false},
	}
	for _, tc := range cases {
		sym, ok := r.FindGlobal(tc.addr)
		c.Assert(ok, qt.Equals, tc.ok, qt.Commentf("addr %d", tc.addr))
		if ok {
			c.Assert(sym.Name, qt.Equals, tc.name, qt.Commentf("addr %d", tc.addr))
		}
	}
}

func TestFindGlobalUnsortedInput(t *testing.T) {
	c := qt.New(t)

	// Raw section order is not address order; the resolver sorts a
	// working copy and leaves Entries() untouched.
	globals := NewSymbolTable([]VarEntry{
		{Address: 16, Name: "g_third"},
		{Address: 0, Name: "g_first"},
		{Address: 8, Name: "g_second"},
	})
	r := NewResolver(nil, nil, nil, globals, nil, nil)

	sym, ok := r.FindGlobal(9)
	c.Assert(ok, qt.IsTrue)
	c.Assert(sym.Name, qt.Equals, "g_second")

	c.Assert(globals.Entries()[0].Name, qt.Equals, "g_third")

	// A second query sees the same working copy.
	sym, ok = r.FindGlobal(9)
	c.Assert(ok, qt.IsTrue)
	c.Assert(sym.Name, qt.Equals, "g_second")
}

func TestFindLocalWithMethods(t *testing.T) {
	c := qt.New(t)

	rttiMethods := []rtti.Method{
		{Name: "main", PcodeStart: 0x00, PcodeEnd: 0x40},
		{Name: "helper", PcodeStart: 0x40, PcodeEnd: 0x80},
	}
	methods := []MethodEntry{
		{MethodIndex: 0, FirstLocal: 0},
		{MethodIndex: 1, FirstLocal: 2},
	}
	locals := NewSymbolTable([]VarEntry{
		{Address: -4, Name: "i", CodeStart: 0x00, CodeEnd: 0x3f},
		{Address: -8, Name: "buf", CodeStart: 0x00, CodeEnd: 0x3f},
		{Address: -4, Name: "count", CodeStart: 0x40, CodeEnd: 0x7f},
	})
	r := NewResolver(nil, nil, methods, nil, locals, rttiMethods)

	// Same stack offset, different method: the enclosing method's
	// window decides which symbol wins.
	sym, ok := r.FindLocal(0x10, -4)
	c.Assert(ok, qt.IsTrue)
	c.Assert(sym.Name, qt.Equals, "i")

	sym, ok = r.FindLocal(0x50, -4)
	c.Assert(ok, qt.IsTrue)
	c.Assert(sym.Name, qt.Equals, "count")

	// No method covers the address.
	_, ok = r.FindLocal(0x200, -4)
	c.Assert(ok, qt.IsFalse)
}

func TestFindLocalCodeRangeScoping(t *testing.T) {
	c := qt.New(t)

	rttiMethods := []rtti.Method{
		{Name: "main", PcodeStart: 0x00, PcodeEnd: 0x80},
	}
	methods := []MethodEntry{
		{MethodIndex: 0, FirstLocal: 0},
	}

	// Two symbols at the same stack offset whose live ranges split the
	// method body.
	locals := NewSymbolTable([]VarEntry{
		{Address: -4, Name: "early", CodeStart: 0x00, CodeEnd: 0x3f},
		{Address: -4, Name: "late", CodeStart: 0x40, CodeEnd: 0x7f},
	})
	r := NewResolver(nil, nil, methods, nil, locals, rttiMethods)

	sym, ok := r.FindLocal(0x20, -4)
	c.Assert(ok, qt.IsTrue)
	c.Assert(sym.Name, qt.Equals, "early")

	sym, ok = r.FindLocal(0x60, -4)
	c.Assert(ok, qt.IsTrue)
	c.Assert(sym.Name, qt.Equals, "late")
}

func TestFindLocalWithoutMethods(t *testing.T) {
	c := qt.New(t)

	locals := NewSymbolTable([]VarEntry{
		{Address: -8, Name: "buf", CodeStart: 0x00, CodeEnd: 0xff},
		{Address: -4, Name: "i", CodeStart: 0x00, CodeEnd: 0xff},
	})
	r := NewResolver(nil, nil, nil, nil, locals, nil)

	// Without method ranges the whole table is searched, with the
	// between-neighbors rule over the sorted copy.
	sym, ok := r.FindLocal(0x10, -6)
	c.Assert(ok, qt.IsTrue)
	c.Assert(sym.Name, qt.Equals, "buf")

	// Out-of-range code address matches nothing.
	_, ok = r.FindLocal(0x200, -4)
	c.Assert(ok, qt.IsFalse)
}

func TestFindLocalBadWindow(t *testing.T) {
	c := qt.New(t)

	rttiMethods := []rtti.Method{
		{Name: "main", PcodeStart: 0x00, PcodeEnd: 0x40},
	}
	methods := []MethodEntry{
		{MethodIndex: 0, FirstLocal: 10}, // past the end of the table
	}
	locals := NewSymbolTable([]VarEntry{
		{Address: -4, Name: "i", CodeStart: 0x00, CodeEnd: 0x3f},
	})
	r := NewResolver(nil, nil, methods, nil, locals, rttiMethods)

	_, ok := r.FindLocal(0x10, -4)
	c.Assert(ok, qt.IsFalse)
}

func TestNewResolverNilTables(t *testing.T) {
	c := qt.New(t)

	r := NewResolver(nil, nil, nil, nil, nil, nil)

	_, ok := r.FindFile(0)
	c.Assert(ok, qt.IsFalse)
	_, ok = r.FindGlobal(0)
	c.Assert(ok, qt.IsFalse)
	_, ok = r.FindLocal(0, 0)
	c.Assert(ok, qt.IsFalse)
	c.Assert(r.Globals().Len(), qt.Equals, 0)
}
