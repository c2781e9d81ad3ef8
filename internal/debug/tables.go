package debug

import (
	"github.com/skdltmxn/smx-go/internal/rtti"
	"github.com/skdltmxn/smx-go/internal/stream"
	"github.com/skdltmxn/smx-go/internal/tables"
)

// InfoHeader is the legacy .dbg.info section: row counts for the
// other debug sections.
type InfoHeader struct {
	NumFiles  uint32
	NumLines  uint32
	NumSyms   uint32
	NumArrays uint32
}

// ParseInfo reads the .dbg.info section.
func ParseInfo(data []byte) (*InfoHeader, error) {
	r := stream.NewReader(data)
	h := &InfoHeader{}

	var err error
	if h.NumFiles, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if h.NumLines, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if h.NumSyms, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if h.NumArrays, err = r.ReadU32(); err != nil {
		return nil, err
	}

	return h, nil
}

// FileEntry maps a code address to the source file active from that
// address on. Rows are stored in ascending address order.
type FileEntry struct {
	Address uint32
	Name    string
}

// ParseFiles reads the .dbg.files section.
func ParseFiles(data []byte, names *tables.NameTable) ([]FileEntry, error) {
	hdr, err := rtti.ParseRowTableHeader(data)
	if err != nil {
		return nil, err
	}

	entries := make([]FileEntry, 0, hdr.RowCount)
	for i := uint32(0); i < hdr.RowCount; i++ {
		r := hdr.Row(data, i)

		address, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := names.StringAt(nameOffset)
		if err != nil {
			return nil, err
		}
		entries = append(entries, FileEntry{Address: address, Name: name})
	}

	return entries, nil
}

// LineEntry maps a code address to a zero-based source line.
type LineEntry struct {
	Address uint32
	Line    uint32
}

// ParseLines reads the .dbg.lines section.
func ParseLines(data []byte) ([]LineEntry, error) {
	hdr, err := rtti.ParseRowTableHeader(data)
	if err != nil {
		return nil, err
	}

	entries := make([]LineEntry, 0, hdr.RowCount)
	for i := uint32(0); i < hdr.RowCount; i++ {
		r := hdr.Row(data, i)

		var e LineEntry
		if e.Address, err = r.ReadU32(); err != nil {
			return nil, err
		}
		if e.Line, err = r.ReadU32(); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// MethodEntry links a debug-visible method to the index of its first
// local in the .dbg.locals table. The method's code range comes from
// the rtti.methods row it references.
type MethodEntry struct {
	MethodIndex int32
	FirstLocal  int32
}

// ParseMethods reads the .dbg.methods section.
func ParseMethods(data []byte) ([]MethodEntry, error) {
	hdr, err := rtti.ParseRowTableHeader(data)
	if err != nil {
		return nil, err
	}

	entries := make([]MethodEntry, 0, hdr.RowCount)
	for i := uint32(0); i < hdr.RowCount; i++ {
		r := hdr.Row(data, i)

		var e MethodEntry
		if e.MethodIndex, err = r.ReadI32(); err != nil {
			return nil, err
		}
		if e.FirstLocal, err = r.ReadI32(); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// Variable classes stored in a VarEntry.
const (
	VClassGlobal uint8 = 0
	VClassLocal  uint8 = 1
	VClassStatic uint8 = 2
	VClassArg    uint8 = 3
)

// VarEntry is a row of the .dbg.globals or .dbg.locals section. The
// address is a data address for globals and a stack offset for
// locals; CodeStart and CodeEnd bound the code range in which a local
// is live.
type VarEntry struct {
	Address   int32
	VClass    uint8
	Name      string
	CodeStart uint32
	CodeEnd   uint32
	TypeID    uint32
}

// ParseVars reads a .dbg.globals or .dbg.locals section.
func ParseVars(data []byte, names *tables.NameTable) ([]VarEntry, error) {
	hdr, err := rtti.ParseRowTableHeader(data)
	if err != nil {
		return nil, err
	}

	entries := make([]VarEntry, 0, hdr.RowCount)
	for i := uint32(0); i < hdr.RowCount; i++ {
		r := hdr.Row(data, i)

		var e VarEntry
		if e.Address, err = r.ReadI32(); err != nil {
			return nil, err
		}
		if e.VClass, err = r.ReadU8(); err != nil {
			return nil, err
		}
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if e.Name, err = names.StringAt(nameOffset); err != nil {
			return nil, err
		}
		if e.CodeStart, err = r.ReadU32(); err != nil {
			return nil, err
		}
		if e.CodeEnd, err = r.ReadU32(); err != nil {
			return nil, err
		}
		if e.TypeID, err = r.ReadU32(); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, nil
}
