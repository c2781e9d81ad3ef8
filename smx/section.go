package smx

import "fmt"

// Well-known section names.
const (
	SectionNames    = ".names"
	SectionDbgNames = ".dbg.names"
	SectionNatives  = ".natives"
	SectionPublics  = ".publics"
	SectionPubvars  = ".pubvars"
	SectionTags     = ".tags"
	SectionData     = ".data"
	SectionCode     = ".code"

	SectionRTTIData             = "rtti.data"
	SectionRTTIEnums            = "rtti.enums"
	SectionRTTIMethods          = "rtti.methods"
	SectionRTTINatives          = "rtti.natives"
	SectionRTTITypedefs         = "rtti.typedefs"
	SectionRTTITypesets         = "rtti.typesets"
	SectionRTTIClassDefs        = "rtti.classdefs"
	SectionRTTIFields           = "rtti.fields"
	SectionRTTIEnumStructs      = "rtti.enumstructs"
	SectionRTTIEnumStructFields = "rtti.enumstruct_fields"

	SectionDbgInfo    = ".dbg.info"
	SectionDbgFiles   = ".dbg.files"
	SectionDbgLines   = ".dbg.lines"
	SectionDbgMethods = ".dbg.methods"
	SectionDbgGlobals = ".dbg.globals"
	SectionDbgLocals  = ".dbg.locals"
)

// Section is one entry of the section directory: a named byte range
// within the image buffer.
type Section struct {
	Name       string
	NameOffset uint32
	DataOffset uint32
	Size       uint32
}

// Sections returns the full section directory.
func (f *File) Sections() []Section {
	return f.sections
}

// SectionByName returns the first section with the given name.
func (f *File) SectionByName(name string) (*Section, bool) {
	for i := range f.sections {
		if f.sections[i].Name == name {
			return &f.sections[i], true
		}
	}
	return nil, false
}

// sectionData returns exactly Size bytes of the section starting at
// its DataOffset. The range was validated against the image when the
// directory was parsed, but the bounds are rechecked so a Section
// value constructed by hand cannot read out of bounds.
func (f *File) sectionData(s *Section) ([]byte, error) {
	end := uint64(s.DataOffset) + uint64(s.Size)
	if end > uint64(len(f.image)) {
		return nil, fmt.Errorf("%w: section %s range [0x%x, 0x%x)", ErrInvalidOffset, s.Name, s.DataOffset, end)
	}
	return f.image[s.DataOffset:end], nil
}

// namedSectionData returns the bytes of a named section, or nil with
// no error if the section is absent.
func (f *File) namedSectionData(name string) ([]byte, error) {
	s, ok := f.SectionByName(name)
	if !ok {
		return nil, nil
	}
	return f.sectionData(s)
}
