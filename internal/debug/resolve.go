package debug

import (
	"sort"
	"sync"

	"github.com/skdltmxn/smx-go/internal/rtti"
)

// SymbolTable holds the variable symbols of one debug section
// (.dbg.globals or .dbg.locals). The raw row order is preserved, and
// an address-sorted working copy is built lazily on the first
// resolution query.
type SymbolTable struct {
	entries []VarEntry

	sorted   []VarEntry
	sortOnce sync.Once
}

// NewSymbolTable wraps parsed variable rows.
func NewSymbolTable(entries []VarEntry) *SymbolTable {
	return &SymbolTable{entries: entries}
}

// Entries returns the rows in raw section order.
func (t *SymbolTable) Entries() []VarEntry {
	return t.entries
}

// Len returns the number of rows.
func (t *SymbolTable) Len() int {
	return len(t.entries)
}

// sortedEntries returns the address-ascending working copy, building
// it on first use. Repeated calls are no-ops.
func (t *SymbolTable) sortedEntries() []VarEntry {
	t.sortOnce.Do(func() {
		t.sorted = make([]VarEntry, len(t.entries))
		copy(t.sorted, t.entries)
		sort.SliceStable(t.sorted, func(i, j int) bool {
			return t.sorted[i].Address < t.sorted[j].Address
		})
	})
	return t.sorted
}

// Resolver answers "what is active at this address" queries by
// composing the debug tables with the RTTI method ranges.
type Resolver struct {
	files   []FileEntry
	lines   []LineEntry
	methods []MethodEntry
	globals *SymbolTable
	locals  *SymbolTable

	// rttiMethods supplies the pcode range of each method referenced
	// by the .dbg.methods table.
	rttiMethods []rtti.Method
}

// NewResolver builds a Resolver. Any of the tables may be empty; the
// corresponding queries then report no match.
func NewResolver(files []FileEntry, lines []LineEntry, methods []MethodEntry,
	globals, locals *SymbolTable, rttiMethods []rtti.Method) *Resolver {
	if globals == nil {
		globals = NewSymbolTable(nil)
	}
	if locals == nil {
		locals = NewSymbolTable(nil)
	}
	return &Resolver{
		files:       files,
		lines:       lines,
		methods:     methods,
		globals:     globals,
		locals:      locals,
		rttiMethods: rttiMethods,
	}
}

// Files returns the file rows in address order.
func (r *Resolver) Files() []FileEntry { return r.files }

// Lines returns the line rows in address order.
func (r *Resolver) Lines() []LineEntry { return r.lines }

// Methods returns the method rows.
func (r *Resolver) Methods() []MethodEntry { return r.methods }

// Globals returns the global variable symbols.
func (r *Resolver) Globals() *SymbolTable { return r.globals }

// Locals returns the local variable symbols.
func (r *Resolver) Locals() *SymbolTable { return r.locals }

// FindFile returns the source file covering the given code address:
// the row with the greatest address not exceeding it.
func (r *Resolver) FindFile(addr uint32) (string, bool) {
	i, ok := LowerBound(r.files, func(e *FileEntry) uint32 { return e.Address }, addr)
	if !ok {
		return "", false
	}
	return r.files[i].Name, true
}

// FindLine returns the one-based source line covering the given code
// address. The table stores zero-based lines.
func (r *Resolver) FindLine(addr uint32) (uint32, bool) {
	i, ok := LowerBound(r.lines, func(e *LineEntry) uint32 { return e.Address }, addr)
	if !ok {
		return 0, false
	}
	return r.lines[i].Line + 1, true
}

// FindGlobal resolves a data address to a global variable. A global
// covers the half-open range from its own address up to the next
// global's address; past the last global there is no upper bound.
func (r *Resolver) FindGlobal(addr int32) (*VarEntry, bool) {
	entries := r.globals.sortedEntries()
	return findSymbol(entries, 0, len(entries), nil, addr)
}

// FindLocal resolves a stack address to a local variable live at the
// given code address. When method-range information is available the
// search is narrowed to the locals of the enclosing method; symbols
// whose own code range does not contain codeAddr are skipped either
// way.
func (r *Resolver) FindLocal(codeAddr uint32, addr int32) (*VarEntry, bool) {
	inScope := func(e *VarEntry) bool {
		return codeAddr >= e.CodeStart && codeAddr <= e.CodeEnd
	}

	if len(r.methods) == 0 || len(r.rttiMethods) == 0 {
		entries := r.locals.sortedEntries()
		return findSymbol(entries, 0, len(entries), inScope, addr)
	}

	// first_local indexes the raw row order, so the method window is
	// taken over the unsorted table.
	entries := r.locals.Entries()
	for i, m := range r.methods {
		if m.MethodIndex < 0 || int(m.MethodIndex) >= len(r.rttiMethods) {
			continue
		}
		method := &r.rttiMethods[m.MethodIndex]
		if int32(codeAddr) < method.PcodeStart || int32(codeAddr) >= method.PcodeEnd {
			continue
		}

		start := int(m.FirstLocal)
		stop := len(entries)
		if i+1 < len(r.methods) {
			stop = int(r.methods[i+1].FirstLocal)
		}
		if start < 0 || start > len(entries) || stop > len(entries) || start > stop {
			return nil, false
		}
		return findSymbol(entries, start, stop, inScope, addr)
	}

	return nil, false
}

// findSymbol applies the exact-match-or-between-neighbors rule over
// entries[start:stop]: an address belongs to the symbol whose start
// address is the closest one below it, before the next symbol starts.
// The low edge is inclusive, the high edge exclusive; past the last
// candidate the match is unbounded.
func findSymbol(entries []VarEntry, start, stop int, filter func(*VarEntry) bool, addr int32) (*VarEntry, bool) {
	var prev *VarEntry
	for i := start; i < stop; i++ {
		sym := &entries[i]
		if filter != nil && !filter(sym) {
			continue
		}
		if sym.Address == addr {
			return sym, true
		}
		if prev != nil && prev.Address < addr && addr < sym.Address {
			return prev, true
		}
		prev = sym
	}

	if prev != nil && prev.Address < addr {
		return prev, true
	}
	return nil, false
}
