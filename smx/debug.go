package smx

import (
	"github.com/skdltmxn/smx-go/internal/debug"
)

// SymbolClass classifies a debug variable symbol.
type SymbolClass uint8

// Variable classes stored in debug symbol rows.
const (
	ClassGlobal SymbolClass = SymbolClass(debug.VClassGlobal)
	ClassLocal  SymbolClass = SymbolClass(debug.VClassLocal)
	ClassStatic SymbolClass = SymbolClass(debug.VClassStatic)
	ClassArg    SymbolClass = SymbolClass(debug.VClassArg)
)

func (c SymbolClass) String() string {
	switch c {
	case ClassGlobal:
		return "global"
	case ClassLocal:
		return "local"
	case ClassStatic:
		return "static"
	case ClassArg:
		return "arg"
	default:
		return "unknown"
	}
}

// DebugFile maps a code address to the source file active from that
// address on.
type DebugFile struct {
	Address uint32
	Name    string
}

// DebugLine maps a code address to a zero-based source line.
type DebugLine struct {
	Address uint32
	Line    uint32
}

// DebugMethod links a debug-visible method to the index of its first
// local symbol.
type DebugMethod struct {
	MethodIndex int32
	FirstLocal  int32
}

// DebugVar is a variable symbol from .dbg.globals or .dbg.locals. The
// address is a data address for globals and a stack offset for
// locals; CodeStart and CodeEnd bound the code range in which a local
// is live.
type DebugVar struct {
	Address   int32
	Class     SymbolClass
	Name      string
	CodeStart uint32
	CodeEnd   uint32
	TypeID    uint32
}

// DebugInfoHeader is the legacy .dbg.info section.
type DebugInfoHeader struct {
	NumFiles  uint32
	NumLines  uint32
	NumSyms   uint32
	NumArrays uint32
}

// DebugInfo answers source-level queries about code and data
// addresses.
type DebugInfo struct {
	resolver *debug.Resolver
	info     *DebugInfoHeader
}

// Debug returns the debug resolution engine. All debug sections are
// parsed on first use; absent sections yield empty tables whose
// queries report no match.
func (f *File) Debug() (*DebugInfo, error) {
	f.debugOnce.Do(func() {
		f.debug, f.debugErr = f.loadDebug()
	})
	if f.debugErr != nil {
		return nil, f.debugErr
	}
	return f.debug, nil
}

func (f *File) loadDebug() (*DebugInfo, error) {
	names, err := f.DebugNames()
	if err != nil {
		return nil, err
	}

	types, err := f.Types()
	if err != nil {
		return nil, err
	}

	var files []debug.FileEntry
	if data, err := f.namedSectionData(SectionDbgFiles); err != nil {
		return nil, err
	} else if data != nil {
		if files, err = debug.ParseFiles(data, names.table); err != nil {
			return nil, &ParseError{Section: SectionDbgFiles, Message: "bad file row", Err: err}
		}
	}

	var lines []debug.LineEntry
	if data, err := f.namedSectionData(SectionDbgLines); err != nil {
		return nil, err
	} else if data != nil {
		if lines, err = debug.ParseLines(data); err != nil {
			return nil, &ParseError{Section: SectionDbgLines, Message: "bad line row", Err: err}
		}
	}

	var methods []debug.MethodEntry
	if data, err := f.namedSectionData(SectionDbgMethods); err != nil {
		return nil, err
	} else if data != nil {
		if methods, err = debug.ParseMethods(data); err != nil {
			return nil, &ParseError{Section: SectionDbgMethods, Message: "bad method row", Err: err}
		}
	}

	var globals, locals []debug.VarEntry
	if data, err := f.namedSectionData(SectionDbgGlobals); err != nil {
		return nil, err
	} else if data != nil {
		if globals, err = debug.ParseVars(data, names.table); err != nil {
			return nil, &ParseError{Section: SectionDbgGlobals, Message: "bad symbol row", Err: err}
		}
	}
	if data, err := f.namedSectionData(SectionDbgLocals); err != nil {
		return nil, err
	} else if data != nil {
		if locals, err = debug.ParseVars(data, names.table); err != nil {
			return nil, &ParseError{Section: SectionDbgLocals, Message: "bad symbol row", Err: err}
		}
	}

	var info *DebugInfoHeader
	if data, err := f.namedSectionData(SectionDbgInfo); err != nil {
		return nil, err
	} else if data != nil {
		h, err := debug.ParseInfo(data)
		if err != nil {
			return nil, &ParseError{Section: SectionDbgInfo, Message: "bad info header", Err: err}
		}
		info = &DebugInfoHeader{
			NumFiles:  h.NumFiles,
			NumLines:  h.NumLines,
			NumSyms:   h.NumSyms,
			NumArrays: h.NumArrays,
		}
	}

	resolver := debug.NewResolver(files, lines, methods,
		debug.NewSymbolTable(globals), debug.NewSymbolTable(locals),
		types.rttiMethods)

	return &DebugInfo{resolver: resolver, info: info}, nil
}

// Info returns the legacy .dbg.info counts, or nil if the section is
// absent.
func (d *DebugInfo) Info() *DebugInfoHeader {
	return d.info
}

// Files returns the .dbg.files rows in address order.
func (d *DebugInfo) Files() []DebugFile {
	entries := d.resolver.Files()
	result := make([]DebugFile, len(entries))
	for i, e := range entries {
		result[i] = DebugFile{Address: e.Address, Name: e.Name}
	}
	return result
}

// Lines returns the .dbg.lines rows in address order.
func (d *DebugInfo) Lines() []DebugLine {
	entries := d.resolver.Lines()
	result := make([]DebugLine, len(entries))
	for i, e := range entries {
		result[i] = DebugLine{Address: e.Address, Line: e.Line}
	}
	return result
}

// Methods returns the .dbg.methods rows.
func (d *DebugInfo) Methods() []DebugMethod {
	entries := d.resolver.Methods()
	result := make([]DebugMethod, len(entries))
	for i, e := range entries {
		result[i] = DebugMethod{MethodIndex: e.MethodIndex, FirstLocal: e.FirstLocal}
	}
	return result
}

// Globals returns the .dbg.globals rows in section order.
func (d *DebugInfo) Globals() []DebugVar {
	return convertVars(d.resolver.Globals().Entries())
}

// Locals returns the .dbg.locals rows in section order.
func (d *DebugInfo) Locals() []DebugVar {
	return convertVars(d.resolver.Locals().Entries())
}

func convertVars(entries []debug.VarEntry) []DebugVar {
	result := make([]DebugVar, len(entries))
	for i := range entries {
		result[i] = convertVar(&entries[i])
	}
	return result
}

func convertVar(e *debug.VarEntry) DebugVar {
	return DebugVar{
		Address:   e.Address,
		Class:     SymbolClass(e.VClass),
		Name:      e.Name,
		CodeStart: e.CodeStart,
		CodeEnd:   e.CodeEnd,
		TypeID:    e.TypeID,
	}
}

// FindFile returns the source file covering the given code address.
func (d *DebugInfo) FindFile(addr uint32) (string, bool) {
	return d.resolver.FindFile(addr)
}

// FindLine returns the one-based source line covering the given code
// address.
func (d *DebugInfo) FindLine(addr uint32) (uint32, bool) {
	return d.resolver.FindLine(addr)
}

// FindGlobal resolves a data address to a global variable. A global
// covers the half-open range from its own address up to the next
// global's address.
func (d *DebugInfo) FindGlobal(addr int32) (DebugVar, bool) {
	e, ok := d.resolver.FindGlobal(addr)
	if !ok {
		return DebugVar{}, false
	}
	return convertVar(e), true
}

// FindLocal resolves a stack address to a local variable live at the
// given code address.
func (d *DebugInfo) FindLocal(codeAddr uint32, addr int32) (DebugVar, bool) {
	e, ok := d.resolver.FindLocal(codeAddr, addr)
	if !ok {
		return DebugVar{}, false
	}
	return convertVar(e), true
}
