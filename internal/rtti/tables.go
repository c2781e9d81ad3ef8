package rtti

import (
	"github.com/skdltmxn/smx-go/internal/tables"
)

// Method is a row of the rtti.methods section.
type Method struct {
	Name       string
	PcodeStart int32
	PcodeEnd   int32
	Signature  int32
}

// Native is a row of the rtti.natives section.
type Native struct {
	Name      string
	Signature int32
}

// Typedef is a row of the rtti.typedefs section.
type Typedef struct {
	Name   string
	TypeID int32
}

// Typeset is a row of the rtti.typesets section.
type Typeset struct {
	Name      string
	Signature int32
}

// ClassDef is a row of the rtti.classdefs section.
type ClassDef struct {
	Flags      int32
	Name       string
	FirstField int32
}

// Field is a row of the rtti.fields section.
type Field struct {
	Flags  int32
	Name   string
	TypeID int32
}

// EnumStruct is a row of the rtti.enumstructs section.
type EnumStruct struct {
	Name       string
	FirstField int32
	Size       int32
}

// EnumStructField is a row of the rtti.enumstruct_fields section.
type EnumStructField struct {
	Name   string
	TypeID int32
	Offset int32
}

// ParseEnums reads the rtti.enums section. Each row is a name offset
// followed by three reserved words.
func ParseEnums(data []byte, names *tables.NameTable) ([]string, error) {
	hdr, err := ParseRowTableHeader(data)
	if err != nil {
		return nil, err
	}

	enums := make([]string, 0, hdr.RowCount)
	for i := uint32(0); i < hdr.RowCount; i++ {
		r := hdr.Row(data, i)
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := names.StringAt(nameOffset)
		if err != nil {
			return nil, err
		}
		enums = append(enums, name)
	}

	return enums, nil
}

// ParseMethods reads the rtti.methods section.
func ParseMethods(data []byte, names *tables.NameTable) ([]Method, error) {
	hdr, err := ParseRowTableHeader(data)
	if err != nil {
		return nil, err
	}

	methods := make([]Method, 0, hdr.RowCount)
	for i := uint32(0); i < hdr.RowCount; i++ {
		r := hdr.Row(data, i)
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := names.StringAt(nameOffset)
		if err != nil {
			return nil, err
		}

		var m Method
		m.Name = name
		if m.PcodeStart, err = r.ReadI32(); err != nil {
			return nil, err
		}
		if m.PcodeEnd, err = r.ReadI32(); err != nil {
			return nil, err
		}
		if m.Signature, err = r.ReadI32(); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}

	return methods, nil
}

// ParseNatives reads the rtti.natives section.
func ParseNatives(data []byte, names *tables.NameTable) ([]Native, error) {
	hdr, err := ParseRowTableHeader(data)
	if err != nil {
		return nil, err
	}

	natives := make([]Native, 0, hdr.RowCount)
	for i := uint32(0); i < hdr.RowCount; i++ {
		r := hdr.Row(data, i)
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := names.StringAt(nameOffset)
		if err != nil {
			return nil, err
		}
		signature, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		natives = append(natives, Native{Name: name, Signature: signature})
	}

	return natives, nil
}

// ParseTypedefs reads the rtti.typedefs section.
func ParseTypedefs(data []byte, names *tables.NameTable) ([]Typedef, error) {
	hdr, err := ParseRowTableHeader(data)
	if err != nil {
		return nil, err
	}

	typedefs := make([]Typedef, 0, hdr.RowCount)
	for i := uint32(0); i < hdr.RowCount; i++ {
		r := hdr.Row(data, i)
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := names.StringAt(nameOffset)
		if err != nil {
			return nil, err
		}
		typeID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		typedefs = append(typedefs, Typedef{Name: name, TypeID: typeID})
	}

	return typedefs, nil
}

// ParseTypesets reads the rtti.typesets section.
func ParseTypesets(data []byte, names *tables.NameTable) ([]Typeset, error) {
	hdr, err := ParseRowTableHeader(data)
	if err != nil {
		return nil, err
	}

	typesets := make([]Typeset, 0, hdr.RowCount)
	for i := uint32(0); i < hdr.RowCount; i++ {
		r := hdr.Row(data, i)
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := names.StringAt(nameOffset)
		if err != nil {
			return nil, err
		}
		signature, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		typesets = append(typesets, Typeset{Name: name, Signature: signature})
	}

	return typesets, nil
}

// ParseClassDefs reads the rtti.classdefs section. Each row carries
// four reserved words after the listed fields.
func ParseClassDefs(data []byte, names *tables.NameTable) ([]ClassDef, error) {
	hdr, err := ParseRowTableHeader(data)
	if err != nil {
		return nil, err
	}

	defs := make([]ClassDef, 0, hdr.RowCount)
	for i := uint32(0); i < hdr.RowCount; i++ {
		r := hdr.Row(data, i)

		var d ClassDef
		if d.Flags, err = r.ReadI32(); err != nil {
			return nil, err
		}
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if d.Name, err = names.StringAt(nameOffset); err != nil {
			return nil, err
		}
		if d.FirstField, err = r.ReadI32(); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}

	return defs, nil
}

// ParseFields reads the rtti.fields section.
func ParseFields(data []byte, names *tables.NameTable) ([]Field, error) {
	hdr, err := ParseRowTableHeader(data)
	if err != nil {
		return nil, err
	}

	fields := make([]Field, 0, hdr.RowCount)
	for i := uint32(0); i < hdr.RowCount; i++ {
		r := hdr.Row(data, i)

		var f Field
		if f.Flags, err = r.ReadI32(); err != nil {
			return nil, err
		}
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if f.Name, err = names.StringAt(nameOffset); err != nil {
			return nil, err
		}
		if f.TypeID, err = r.ReadI32(); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	return fields, nil
}

// ParseEnumStructs reads the rtti.enumstructs section.
func ParseEnumStructs(data []byte, names *tables.NameTable) ([]EnumStruct, error) {
	hdr, err := ParseRowTableHeader(data)
	if err != nil {
		return nil, err
	}

	entries := make([]EnumStruct, 0, hdr.RowCount)
	for i := uint32(0); i < hdr.RowCount; i++ {
		r := hdr.Row(data, i)

		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := names.StringAt(nameOffset)
		if err != nil {
			return nil, err
		}

		var e EnumStruct
		e.Name = name
		if e.FirstField, err = r.ReadI32(); err != nil {
			return nil, err
		}
		if e.Size, err = r.ReadI32(); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// ParseEnumStructFields reads the rtti.enumstruct_fields section.
func ParseEnumStructFields(data []byte, names *tables.NameTable) ([]EnumStructField, error) {
	hdr, err := ParseRowTableHeader(data)
	if err != nil {
		return nil, err
	}

	entries := make([]EnumStructField, 0, hdr.RowCount)
	for i := uint32(0); i < hdr.RowCount; i++ {
		r := hdr.Row(data, i)

		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := names.StringAt(nameOffset)
		if err != nil {
			return nil, err
		}

		var f EnumStructField
		f.Name = name
		if f.TypeID, err = r.ReadI32(); err != nil {
			return nil, err
		}
		if f.Offset, err = r.ReadI32(); err != nil {
			return nil, err
		}
		entries = append(entries, f)
	}

	return entries, nil
}
