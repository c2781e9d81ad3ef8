package rtti

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

// stubTables resolves references against fixed name lists.
type stubTables struct {
	enums       []string
	typedefs    []string
	typesets    []string
	classdefs   []string
	enumstructs []string
}

func lookup(names []string, index uint32) (string, bool) {
	if index >= uint32(len(names)) {
		return "", false
	}
	return names[index], true
}

func (s *stubTables) EnumName(i uint32) (string, bool)       { return lookup(s.enums, i) }
func (s *stubTables) TypedefName(i uint32) (string, bool)    { return lookup(s.typedefs, i) }
func (s *stubTables) TypesetName(i uint32) (string, bool)    { return lookup(s.typesets, i) }
func (s *stubTables) ClassDefName(i uint32) (string, bool)   { return lookup(s.classdefs, i) }
func (s *stubTables) EnumStructName(i uint32) (string, bool) { return lookup(s.enumstructs, i) }

func newTestTypeData(blob []byte) *TypeData {
	return NewTypeData(blob, &stubTables{
		enums:       []string{"Action"},
		typedefs:    []string{"Timer"},
		typesets:    []string{"EventHook"},
		classdefs:   []string{"Plugin"},
		enumstructs: []string{"Vector3"},
	})
}

// complexID builds a type id addressing the given blob offset.
func complexID(offset uint32) uint32 {
	return offset<<4 | TypeIDComplex
}

func TestTypeFromBlob(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		blob []byte
		want string
	}{
		{[]byte{TypeInt32}, "int"},
		{[]byte{TypeBool}, "bool"},
		{[]byte{TypeFloat32}, "float"},
		{[]byte{TypeChar8}, "char"},
		{[]byte{TypeAny}, "any"},
		{[]byte{TypeTopFunction}, "Function"},
		{[]byte{TypeArray, TypeInt32}, "int[]"},
		{[]byte{TypeFixedArray, 4, TypeInt32}, "int[4]"},
		{[]byte{TypeFixedArray, 0x81, 0x01, TypeChar8}, "char[129]"},
		{[]byte{TypeConst, TypeInt32}, "const int"},
		{[]byte{TypeConst, TypeArray, TypeInt32}, "const int[]"},
		{[]byte{TypeEnum, 0}, "Action"},
		{[]byte{TypeTypedef, 0}, "Timer"},
		{[]byte{TypeTypeset, 0}, "EventHook"},
		{[]byte{TypeStruct, 0}, "Plugin"},
		{[]byte{TypeEnumStruct, 0}, "Vector3"},
		{[]byte{TypeEnum, 5}, "invalid enum index 5"},
		{[]byte{0xff}, "unknown type code: 255"},
		{[]byte{}, "<truncated>"},
		{[]byte{TypeFixedArray, 4}, "<truncated>[4]"},
	}
	for _, tc := range cases {
		d := newTestTypeData(tc.blob)
		c.Assert(d.TypeFromID(complexID(0)), qt.Equals, tc.want, qt.Commentf("blob %#v", tc.blob))
	}
}

func TestTypeFromIDInline(t *testing.T) {
	c := qt.New(t)

	// An inline id packs the encoding bytes into the payload itself.
	c.Assert(newTestTypeData(nil).TypeFromID(uint32(TypeInt32)<<4), qt.Equals, "int")
	c.Assert(newTestTypeData(nil).TypeFromID(uint32(TypeFloat32)<<4), qt.Equals, "float")
}

func TestTypeFromIDUnknownKind(t *testing.T) {
	c := qt.New(t)

	c.Assert(newTestTypeData(nil).TypeFromID(0x2), qt.Equals, "Unknown type_id kind: 2")
}

func TestTypeFromIDOffset(t *testing.T) {
	c := qt.New(t)

	// The complex payload selects a position inside the blob.
	d := newTestTypeData([]byte{TypeInt32, TypeFloat32})
	c.Assert(d.TypeFromID(complexID(1)), qt.Equals, "float")
}

func TestFunctionType(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		blob []byte
		want string
	}{
		{[]byte{0, TypeVoid}, "function void ()"},
		{[]byte{2, TypeVoid, TypeInt32, TypeFloat32}, "function void (int, float)"},
		{[]byte{2, TypeVoid, TypeInt32, TypeByRef, TypeFloat32}, "function void (int, float&)"},
		{[]byte{1, TypeVariadic, TypeChar8, TypeAny}, "function char (any...)"},
		{[]byte{1, TypeInt32, TypeConst, TypeArray, TypeChar8}, "function int (const char[])"},
	}
	for _, tc := range cases {
		d := newTestTypeData(tc.blob)
		c.Assert(d.FunctionTypeFromOffset(0), qt.Equals, tc.want, qt.Commentf("blob %#v", tc.blob))
	}
}

func TestConstDoesNotLeakAcrossArguments(t *testing.T) {
	c := qt.New(t)

	// The const flag belongs to the argument that carries the marker;
	// the arguments before and after it stay unqualified.
	d := newTestTypeData([]byte{3, TypeVoid, TypeInt32, TypeConst, TypeChar8, TypeInt32})
	c.Assert(d.FunctionTypeFromOffset(0), qt.Equals, "function void (int, const char, int)")
}

func TestTypesetTypesFromOffset(t *testing.T) {
	c := qt.New(t)

	d := newTestTypeData([]byte{2, TypeInt32, TypeArray, TypeFloat32})
	c.Assert(d.TypesetTypesFromOffset(0), qt.DeepEquals, []string{"int", "float[]"})
}

func TestTypesetTypesEmpty(t *testing.T) {
	c := qt.New(t)

	d := newTestTypeData([]byte{0})
	c.Assert(d.TypesetTypesFromOffset(0), qt.HasLen, 0)
}

func TestTypesetTypesInflatedCount(t *testing.T) {
	c := qt.New(t)

	// A count far beyond the blob must not drive the allocation or the
	// decode loop; the exhausted blob renders a single truncation
	// marker.
	d := newTestTypeData([]byte{0xff, 0xff, 0xff, 0xff, 0x0f})
	c.Assert(d.TypesetTypesFromOffset(0), qt.DeepEquals, []string{"<truncated>"})
}

func TestTypesetTypesTruncatedMidList(t *testing.T) {
	c := qt.New(t)

	// Three members declared, bytes for one.
	d := newTestTypeData([]byte{3, TypeInt32})
	c.Assert(d.TypesetTypesFromOffset(0), qt.DeepEquals, []string{"int", "<truncated>"})
}
