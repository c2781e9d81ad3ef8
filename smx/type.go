package smx

import (
	"github.com/skdltmxn/smx-go/internal/rtti"
)

// Method is a row of the rtti.methods table. PcodeStart and PcodeEnd
// delimit the method's code-address range.
type Method struct {
	Name       string
	PcodeStart int32
	PcodeEnd   int32
	Signature  uint32
}

// RTTINative is a row of the rtti.natives table.
type RTTINative struct {
	Name      string
	Signature uint32
}

// Typedef is a row of the rtti.typedefs table.
type Typedef struct {
	Name   string
	TypeID uint32
}

// Typeset is a row of the rtti.typesets table.
type Typeset struct {
	Name      string
	Signature uint32
}

// ClassDef is a row of the rtti.classdefs table.
type ClassDef struct {
	Flags      int32
	Name       string
	FirstField int32
}

// Field is a row of the rtti.fields table.
type Field struct {
	Flags  int32
	Name   string
	TypeID uint32
}

// EnumStruct is a row of the rtti.enumstructs table.
type EnumStruct struct {
	Name       string
	FirstField int32
	Size       int32
}

// EnumStructField is a row of the rtti.enumstruct_fields table.
type EnumStructField struct {
	Name   string
	TypeID uint32
	Offset int32
}

// TypeTable provides access to the RTTI tables and renders type ids
// and type signatures as source-level type strings.
type TypeTable struct {
	enums            []string
	methods          []Method
	natives          []RTTINative
	typedefs         []Typedef
	typesets         []Typeset
	classDefs        []ClassDef
	fields           []Field
	enumStructs      []EnumStruct
	enumStructFields []EnumStructField

	// rttiMethods keeps the internal rows for the debug resolver.
	rttiMethods []rtti.Method

	typeData *rtti.TypeData
}

// Types returns the RTTI type table. All RTTI sections are parsed on
// first use; absent sections yield empty tables.
func (f *File) Types() (*TypeTable, error) {
	f.typesOnce.Do(func() {
		f.types, f.typesErr = f.loadTypes()
	})
	if f.typesErr != nil {
		return nil, f.typesErr
	}
	return f.types, nil
}

func (f *File) loadTypes() (*TypeTable, error) {
	names, err := f.Names()
	if err != nil {
		return nil, err
	}

	tt := &TypeTable{}

	load := func(section string, parse func(data []byte) error) error {
		data, err := f.namedSectionData(section)
		if err != nil {
			return err
		}
		if data == nil {
			return nil
		}
		if err := parse(data); err != nil {
			return &ParseError{Section: section, Message: "bad rtti table", Err: err}
		}
		return nil
	}

	if err := load(SectionRTTIEnums, func(data []byte) error {
		rows, err := rtti.ParseEnums(data, names.table)
		if err != nil {
			return err
		}
		tt.enums = rows
		return nil
	}); err != nil {
		return nil, err
	}

	if err := load(SectionRTTIMethods, func(data []byte) error {
		rows, err := rtti.ParseMethods(data, names.table)
		if err != nil {
			return err
		}
		tt.rttiMethods = rows
		tt.methods = make([]Method, len(rows))
		for i, row := range rows {
			tt.methods[i] = Method{
				Name:       row.Name,
				PcodeStart: row.PcodeStart,
				PcodeEnd:   row.PcodeEnd,
				Signature:  uint32(row.Signature),
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := load(SectionRTTINatives, func(data []byte) error {
		rows, err := rtti.ParseNatives(data, names.table)
		if err != nil {
			return err
		}
		tt.natives = make([]RTTINative, len(rows))
		for i, row := range rows {
			tt.natives[i] = RTTINative{Name: row.Name, Signature: uint32(row.Signature)}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := load(SectionRTTITypedefs, func(data []byte) error {
		rows, err := rtti.ParseTypedefs(data, names.table)
		if err != nil {
			return err
		}
		tt.typedefs = make([]Typedef, len(rows))
		for i, row := range rows {
			tt.typedefs[i] = Typedef{Name: row.Name, TypeID: uint32(row.TypeID)}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := load(SectionRTTITypesets, func(data []byte) error {
		rows, err := rtti.ParseTypesets(data, names.table)
		if err != nil {
			return err
		}
		tt.typesets = make([]Typeset, len(rows))
		for i, row := range rows {
			tt.typesets[i] = Typeset{Name: row.Name, Signature: uint32(row.Signature)}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := load(SectionRTTIClassDefs, func(data []byte) error {
		rows, err := rtti.ParseClassDefs(data, names.table)
		if err != nil {
			return err
		}
		tt.classDefs = make([]ClassDef, len(rows))
		for i, row := range rows {
			tt.classDefs[i] = ClassDef{Flags: row.Flags, Name: row.Name, FirstField: row.FirstField}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := load(SectionRTTIFields, func(data []byte) error {
		rows, err := rtti.ParseFields(data, names.table)
		if err != nil {
			return err
		}
		tt.fields = make([]Field, len(rows))
		for i, row := range rows {
			tt.fields[i] = Field{Flags: row.Flags, Name: row.Name, TypeID: uint32(row.TypeID)}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := load(SectionRTTIEnumStructs, func(data []byte) error {
		rows, err := rtti.ParseEnumStructs(data, names.table)
		if err != nil {
			return err
		}
		tt.enumStructs = make([]EnumStruct, len(rows))
		for i, row := range rows {
			tt.enumStructs[i] = EnumStruct{Name: row.Name, FirstField: row.FirstField, Size: row.Size}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := load(SectionRTTIEnumStructFields, func(data []byte) error {
		rows, err := rtti.ParseEnumStructFields(data, names.table)
		if err != nil {
			return err
		}
		tt.enumStructFields = make([]EnumStructField, len(rows))
		for i, row := range rows {
			tt.enumStructFields[i] = EnumStructField{Name: row.Name, TypeID: uint32(row.TypeID), Offset: row.Offset}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	blob, err := f.namedSectionData(SectionRTTIData)
	if err != nil {
		return nil, err
	}
	tt.typeData = rtti.NewTypeData(blob, tableSet{tt})

	return tt, nil
}

// Enums returns the enum names.
func (tt *TypeTable) Enums() []string { return tt.enums }

// Methods returns the rtti.methods rows.
func (tt *TypeTable) Methods() []Method { return tt.methods }

// Natives returns the rtti.natives rows.
func (tt *TypeTable) Natives() []RTTINative { return tt.natives }

// Typedefs returns the rtti.typedefs rows.
func (tt *TypeTable) Typedefs() []Typedef { return tt.typedefs }

// Typesets returns the rtti.typesets rows.
func (tt *TypeTable) Typesets() []Typeset { return tt.typesets }

// ClassDefs returns the rtti.classdefs rows.
func (tt *TypeTable) ClassDefs() []ClassDef { return tt.classDefs }

// Fields returns the rtti.fields rows.
func (tt *TypeTable) Fields() []Field { return tt.fields }

// EnumStructs returns the rtti.enumstructs rows.
func (tt *TypeTable) EnumStructs() []EnumStruct { return tt.enumStructs }

// EnumStructFields returns the rtti.enumstruct_fields rows.
func (tt *TypeTable) EnumStructFields() []EnumStructField { return tt.enumStructFields }

// TypeFromID renders the type referenced by a 32-bit type id.
// Malformed ids render as diagnostic text rather than failing; type
// ids are display-only.
func (tt *TypeTable) TypeFromID(typeID uint32) string {
	return tt.typeData.TypeFromID(typeID)
}

// FunctionTypeFromOffset renders the function signature stored at the
// given rtti.data offset.
func (tt *TypeTable) FunctionTypeFromOffset(offset uint32) string {
	return tt.typeData.FunctionTypeFromOffset(offset)
}

// TypesetTypesFromOffset renders the member types of the typeset
// signature stored at the given rtti.data offset.
func (tt *TypeTable) TypesetTypesFromOffset(offset uint32) []string {
	return tt.typeData.TypesetTypesFromOffset(offset)
}

// MethodSignature renders a method's full function signature.
func (tt *TypeTable) MethodSignature(m *Method) string {
	return tt.FunctionTypeFromOffset(m.Signature)
}

// NativeSignature renders a native's full function signature.
func (tt *TypeTable) NativeSignature(n *RTTINative) string {
	return tt.FunctionTypeFromOffset(n.Signature)
}

// tableSet adapts a TypeTable to the reference lookups the signature
// decoder needs, without handing it the whole file.
type tableSet struct {
	tt *TypeTable
}

func (s tableSet) EnumName(index uint32) (string, bool) {
	if int(index) >= len(s.tt.enums) {
		return "", false
	}
	return s.tt.enums[index], true
}

func (s tableSet) TypedefName(index uint32) (string, bool) {
	if int(index) >= len(s.tt.typedefs) {
		return "", false
	}
	return s.tt.typedefs[index].Name, true
}

func (s tableSet) TypesetName(index uint32) (string, bool) {
	if int(index) >= len(s.tt.typesets) {
		return "", false
	}
	return s.tt.typesets[index].Name, true
}

func (s tableSet) ClassDefName(index uint32) (string, bool) {
	if int(index) >= len(s.tt.classDefs) {
		return "", false
	}
	return s.tt.classDefs[index].Name, true
}

func (s tableSet) EnumStructName(index uint32) (string, bool) {
	if int(index) >= len(s.tt.enumStructs) {
		return "", false
	}
	return s.tt.enumStructs[index].Name, true
}
