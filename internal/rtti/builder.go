package rtti

import (
	"fmt"
	"strings"
)

// TableSet resolves symbolic references out of a type signature into
// the already-parsed RTTI tables. Lookups report false for an
// out-of-range index.
type TableSet interface {
	EnumName(index uint32) (string, bool)
	TypedefName(index uint32) (string, bool)
	TypesetName(index uint32) (string, bool)
	ClassDefName(index uint32) (string, bool)
	EnumStructName(index uint32) (string, bool)
}

// TypeData decodes type ids and type signatures against the rtti.data
// blob. Decoding is display-oriented: malformed bytes render as
// diagnostic placeholder strings, never as errors.
type TypeData struct {
	blob []byte
	refs TableSet
}

// NewTypeData creates a TypeData over the rtti.data section bytes.
func NewTypeData(blob []byte, refs TableSet) *TypeData {
	return &TypeData{blob: blob, refs: refs}
}

// TypeFromID renders the type referenced by a 32-bit type id. The low
// 4 bits select the kind: an inline id packs a one-byte type encoding
// into the payload, a complex id is a byte offset into the signature
// blob.
func (d *TypeData) TypeFromID(typeID uint32) string {
	kind := typeID & 0xf
	payload := (typeID >> 4) & 0xfffffff

	if kind == TypeIDInline {
		inline := []byte{
			byte(payload),
			byte(payload >> 8),
			byte(payload >> 16),
			byte(payload >> 24),
		}
		b := &typeBuilder{bytes: inline, refs: d.refs}
		text, _ := b.decodeNew(frame{})
		return text
	}

	if kind != TypeIDComplex {
		return fmt.Sprintf("Unknown type_id kind: %d", kind)
	}

	b := &typeBuilder{bytes: d.blob, refs: d.refs}
	text, _ := b.decodeNew(frame{offset: int(payload)})
	return text
}

// FunctionTypeFromOffset renders the function signature starting at
// the given blob offset.
func (d *TypeData) FunctionTypeFromOffset(offset uint32) string {
	b := &typeBuilder{bytes: d.blob, refs: d.refs}
	text, _ := b.decodeFunction(frame{offset: int(offset)})
	return text
}

// TypesetTypesFromOffset reads the leading varint count at the given
// blob offset and renders that many type signatures in sequence.
func (d *TypeData) TypesetTypesFromOffset(offset uint32) []string {
	b := &typeBuilder{bytes: d.blob, refs: d.refs}

	f := frame{offset: int(offset)}
	count, f := b.readVarU32(f)

	// The count is untrusted; every member needs at least one byte, so
	// the remaining blob bounds the allocation.
	capHint := int(count)
	remain := len(b.bytes) - f.offset
	if remain < 0 {
		remain = 0
	}
	if capHint > remain {
		capHint = remain
	}

	types := make([]string, 0, capHint)
	for i := uint32(0); i < count; i++ {
		if f.offset >= len(b.bytes) {
			types = append(types, truncatedType)
			break
		}
		var text string
		text, f = b.decodeNew(f)
		types = append(types, text)
	}

	return types
}

// frame is the per-call decoder state: the read cursor and the const
// flag owned by the current type boundary. It is passed by value into
// each recursive decode so the save/clear/restore discipline of the
// const flag is explicit.
type frame struct {
	offset  int
	isConst bool
}

// rendering used when the signature ends mid-type
const truncatedType = "<truncated>"

type typeBuilder struct {
	bytes []byte
	refs  TableSet
}

// decodeNew decodes a type that does not depend on its caller: the
// caller's const flag is saved and cleared, and a "const " prefix is
// emitted here only if this type set the flag itself.
func (b *typeBuilder) decodeNew(f frame) (string, frame) {
	wasConst := f.isConst
	f.isConst = false

	result, f := b.decode(f)

	if f.isConst {
		result = "const " + result
	}

	f.isConst = wasConst
	return result, f
}

func (b *typeBuilder) decode(f frame) (string, frame) {
	var matched bool
	matched, f = b.match(f, TypeConst)
	f.isConst = f.isConst || matched

	if f.offset >= len(b.bytes) {
		return truncatedType, f
	}
	tag := b.bytes[f.offset]
	f.offset++

	switch tag {
	case TypeBool:
		return "bool", f
	case TypeInt32:
		return "int", f
	case TypeFloat32:
		return "float", f
	case TypeChar8:
		return "char", f
	case TypeAny:
		return "any", f
	case TypeTopFunction:
		return "Function", f
	case TypeFixedArray:
		var size uint32
		size, f = b.readVarU32(f)
		var inner string
		inner, f = b.decode(f)
		return fmt.Sprintf("%s[%d]", inner, size), f
	case TypeArray:
		var inner string
		inner, f = b.decode(f)
		return inner + "[]", f
	case TypeEnum:
		return b.reference(f, "enum", b.refs.EnumName)
	case TypeTypedef:
		return b.reference(f, "typedef", b.refs.TypedefName)
	case TypeTypeset:
		return b.reference(f, "typeset", b.refs.TypesetName)
	case TypeStruct:
		return b.reference(f, "struct", b.refs.ClassDefName)
	case TypeFunction:
		return b.decodeFunction(f)
	case TypeEnumStruct:
		return b.reference(f, "enum struct", b.refs.EnumStructName)
	default:
		return fmt.Sprintf("unknown type code: %d", tag), f
	}
}

// reference reads a varint table index and resolves it through the
// given lookup. A miss renders as diagnostic text; the source format
// guarantees the index is valid in well-formed files.
func (b *typeBuilder) reference(f frame, kind string, lookup func(uint32) (string, bool)) (string, frame) {
	var index uint32
	index, f = b.readVarU32(f)

	name, ok := lookup(index)
	if !ok {
		return fmt.Sprintf("invalid %s index %d", kind, index), f
	}
	return name, f
}

func (b *typeBuilder) decodeFunction(f frame) (string, frame) {
	if f.offset >= len(b.bytes) {
		return truncatedType, f
	}
	argc := int(b.bytes[f.offset])
	f.offset++

	var variadic bool
	variadic, f = b.match(f, TypeVariadic)

	var returnType string
	if voidReturn, vf := b.match(f, TypeVoid); voidReturn {
		returnType = "void"
		f = vf
	} else {
		returnType, f = b.decodeNew(f)
	}

	argv := make([]string, 0, argc)
	for i := 0; i < argc; i++ {
		var byRef bool
		byRef, f = b.match(f, TypeByRef)

		var text string
		text, f = b.decodeNew(f)
		if byRef {
			text += "&"
		}
		argv = append(argv, text)
	}

	signature := fmt.Sprintf("function %s (%s", returnType, strings.Join(argv, ", "))
	if variadic {
		signature += "..."
	}
	signature += ")"

	return signature, f
}

// match consumes the next byte if it equals tag.
func (b *typeBuilder) match(f frame, tag uint8) (bool, frame) {
	if f.offset >= len(b.bytes) || b.bytes[f.offset] != tag {
		return false, f
	}
	f.offset++
	return true, f
}

// readVarU32 decodes a little-endian base-128 varint at the cursor.
func (b *typeBuilder) readVarU32(f frame) (uint32, frame) {
	var value uint32
	shift := uint(0)
	for f.offset < len(b.bytes) {
		c := b.bytes[f.offset]
		f.offset++
		value |= uint32(c&0x7f) << shift
		if c&0x80 == 0 {
			break
		}
		shift += 7
	}
	return value, f
}
