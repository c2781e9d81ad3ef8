package smx

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/skdltmxn/smx-go/internal/tables"
)

// File represents an opened SMX plugin image.
// It is safe for concurrent read access after opening.
type File struct {
	header   *FileHeader
	image    []byte
	sections []Section

	// Lazy-loaded tables
	names     *NameTable
	namesOnce sync.Once
	namesErr  error

	dbgNames     *NameTable
	dbgNamesOnce sync.Once
	dbgNamesErr  error

	natives     []Native
	nativesOnce sync.Once
	nativesErr  error

	publics     []Public
	publicsOnce sync.Once
	publicsErr  error

	pubvars     []Pubvar
	pubvarsOnce sync.Once
	pubvarsErr  error

	tags     *TagTable
	tagsOnce sync.Once
	tagsErr  error

	code     *CodeHeader
	codeOnce sync.Once
	codeErr  error

	data     *DataHeader
	dataOnce sync.Once
	dataErr  error

	types     *TypeTable
	typesOnce sync.Once
	typesErr  error

	debug     *DebugInfo
	debugOnce sync.Once
	debugErr  error

	called   tables.CalledFunctions
	calledMu sync.Mutex
}

// Open opens an SMX file from the given path.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("smx: failed to open file: %w", err)
	}
	return NewFile(data)
}

// OpenReader opens an SMX image from an io.ReaderAt.
// This allows reading from arbitrary sources (embedded, network, etc.)
func OpenReader(r io.ReaderAt, size int64) (*File, error) {
	data := make([]byte, size)
	if _, err := r.ReadAt(data, 0); err != nil {
		return nil, fmt.Errorf("smx: failed to read image: %w", err)
	}
	return NewFile(data)
}

// NewFile parses an SMX image from raw file bytes. The header is
// validated, the image decompressed if needed, and the section
// directory read; individual tables are parsed lazily on first use.
func NewFile(data []byte) (*File, error) {
	header, image, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	sections, err := parseSections(header, image)
	if err != nil {
		return nil, err
	}

	return &File{
		header:   header,
		image:    image,
		sections: sections,
	}, nil
}

// Header returns the file header.
func (f *File) Header() *FileHeader {
	return f.header
}

// ImageSize returns the size of the decompressed image in bytes.
func (f *File) ImageSize() int {
	return len(f.image)
}

// Names returns the .names string table.
func (f *File) Names() (*NameTable, error) {
	f.namesOnce.Do(func() {
		f.names, f.namesErr = f.loadNameTable(SectionNames)
	})
	if f.namesErr != nil {
		return nil, f.namesErr
	}
	return f.names, nil
}

// DebugNames returns the .dbg.names string table, falling back to
// .names when the image has no separate debug name table.
func (f *File) DebugNames() (*NameTable, error) {
	f.dbgNamesOnce.Do(func() {
		if _, ok := f.SectionByName(SectionDbgNames); !ok {
			f.dbgNames, f.dbgNamesErr = f.Names()
			return
		}
		f.dbgNames, f.dbgNamesErr = f.loadNameTable(SectionDbgNames)
	})
	if f.dbgNamesErr != nil {
		return nil, f.dbgNamesErr
	}
	return f.dbgNames, nil
}

func (f *File) loadNameTable(section string) (*NameTable, error) {
	data, err := f.namedSectionData(section)
	if err != nil {
		return nil, err
	}
	return &NameTable{table: tables.NewNameTable(data)}, nil
}

// Natives returns the .natives table.
func (f *File) Natives() ([]Native, error) {
	f.nativesOnce.Do(func() {
		f.natives, f.nativesErr = f.loadNatives()
	})
	if f.nativesErr != nil {
		return nil, f.nativesErr
	}
	return f.natives, nil
}

func (f *File) loadNatives() ([]Native, error) {
	data, err := f.namedSectionData(SectionNatives)
	if err != nil || data == nil {
		return nil, err
	}
	names, err := f.Names()
	if err != nil {
		return nil, err
	}

	rows, err := tables.ParseNatives(data, names.table)
	if err != nil {
		return nil, &ParseError{Section: SectionNatives, Message: "bad native row", Err: err}
	}

	natives := make([]Native, len(rows))
	for i, row := range rows {
		natives[i] = Native{Name: row.Name}
	}
	return natives, nil
}

// Publics returns the .publics table.
func (f *File) Publics() ([]Public, error) {
	f.publicsOnce.Do(func() {
		f.publics, f.publicsErr = f.loadPublics()
	})
	if f.publicsErr != nil {
		return nil, f.publicsErr
	}
	return f.publics, nil
}

func (f *File) loadPublics() ([]Public, error) {
	data, err := f.namedSectionData(SectionPublics)
	if err != nil || data == nil {
		return nil, err
	}
	names, err := f.Names()
	if err != nil {
		return nil, err
	}

	rows, err := tables.ParsePublics(data, names.table)
	if err != nil {
		return nil, &ParseError{Section: SectionPublics, Message: "bad public row", Err: err}
	}

	publics := make([]Public, len(rows))
	for i, row := range rows {
		publics[i] = Public{Address: row.Address, Name: row.Name}
	}
	return publics, nil
}

// Pubvars returns the .pubvars table.
func (f *File) Pubvars() ([]Pubvar, error) {
	f.pubvarsOnce.Do(func() {
		f.pubvars, f.pubvarsErr = f.loadPubvars()
	})
	if f.pubvarsErr != nil {
		return nil, f.pubvarsErr
	}
	return f.pubvars, nil
}

func (f *File) loadPubvars() ([]Pubvar, error) {
	data, err := f.namedSectionData(SectionPubvars)
	if err != nil || data == nil {
		return nil, err
	}
	names, err := f.Names()
	if err != nil {
		return nil, err
	}

	rows, err := tables.ParsePubvars(data, names.table)
	if err != nil {
		return nil, &ParseError{Section: SectionPubvars, Message: "bad pubvar row", Err: err}
	}

	pubvars := make([]Pubvar, len(rows))
	for i, row := range rows {
		pubvars[i] = Pubvar{Address: row.Address, Name: row.Name}
	}
	return pubvars, nil
}

// Tags returns the .tags table.
func (f *File) Tags() (*TagTable, error) {
	f.tagsOnce.Do(func() {
		f.tags, f.tagsErr = f.loadTags()
	})
	if f.tagsErr != nil {
		return nil, f.tagsErr
	}
	return f.tags, nil
}

func (f *File) loadTags() (*TagTable, error) {
	data, err := f.namedSectionData(SectionTags)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return &TagTable{}, nil
	}
	names, err := f.Names()
	if err != nil {
		return nil, err
	}

	rows, err := tables.ParseTags(data, names.table)
	if err != nil {
		return nil, &ParseError{Section: SectionTags, Message: "bad tag row", Err: err}
	}

	entries := make([]Tag, len(rows))
	for i, row := range rows {
		entries[i] = Tag{Value: row.Value, Name: row.Name}
	}
	return &TagTable{tags: entries}, nil
}

// Code returns the .code section header.
func (f *File) Code() (*CodeHeader, error) {
	f.codeOnce.Do(func() {
		f.code, f.codeErr = f.loadCode()
	})
	if f.codeErr != nil {
		return nil, f.codeErr
	}
	return f.code, nil
}

func (f *File) loadCode() (*CodeHeader, error) {
	data, err := f.namedSectionData(SectionCode)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrSectionNotFound
	}

	h, err := tables.ParseCodeHeader(data)
	if err != nil {
		return nil, &ParseError{Section: SectionCode, Message: "bad code header", Err: err}
	}
	return &CodeHeader{
		CodeSize:    h.CodeSize,
		CellSize:    h.CellSize,
		CodeVersion: h.CodeVersion,
		Flags:       h.Flags,
		MainOffset:  h.MainOffset,
		CodeOffset:  h.CodeOffset,
		Features:    h.Features,
	}, nil
}

// CodeBytes returns the raw pcode of the .code section.
func (f *File) CodeBytes() ([]byte, error) {
	h, err := f.Code()
	if err != nil {
		return nil, err
	}
	data, err := f.namedSectionData(SectionCode)
	if err != nil {
		return nil, err
	}

	end := uint64(h.CodeOffset) + uint64(h.CodeSize)
	if end > math.MaxUint32 {
		return nil, fmt.Errorf("%w: code size 0x%x at 0x%x", ErrSizeOverflow, h.CodeSize, h.CodeOffset)
	}
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("%w: code range [0x%x, 0x%x)", ErrInvalidOffset, h.CodeOffset, end)
	}
	return data[h.CodeOffset:end], nil
}

// Data returns the .data section header.
func (f *File) Data() (*DataHeader, error) {
	f.dataOnce.Do(func() {
		f.data, f.dataErr = f.loadData()
	})
	if f.dataErr != nil {
		return nil, f.dataErr
	}
	return f.data, nil
}

func (f *File) loadData() (*DataHeader, error) {
	data, err := f.namedSectionData(SectionData)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrSectionNotFound
	}

	h, err := tables.ParseDataHeader(data)
	if err != nil {
		return nil, &ParseError{Section: SectionData, Message: "bad data header", Err: err}
	}
	return &DataHeader{
		DataSize:   h.DataSize,
		MemSize:    h.MemSize,
		DataOffset: h.DataOffset,
	}, nil
}

// DataBytes returns the raw contents of the .data section.
func (f *File) DataBytes() ([]byte, error) {
	h, err := f.Data()
	if err != nil {
		return nil, err
	}
	data, err := f.namedSectionData(SectionData)
	if err != nil {
		return nil, err
	}

	end := uint64(h.DataOffset) + uint64(h.DataSize)
	if end > math.MaxUint32 {
		return nil, fmt.Errorf("%w: data size 0x%x at 0x%x", ErrSizeOverflow, h.DataSize, h.DataOffset)
	}
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("%w: data range [0x%x, 0x%x)", ErrInvalidOffset, h.DataOffset, end)
	}
	return data[h.DataOffset:end], nil
}

// AddCalledFunction records a function address discovered from a call
// instruction. A disassembler feeds this as it walks the pcode.
func (f *File) AddCalledFunction(addr uint32) {
	f.calledMu.Lock()
	defer f.calledMu.Unlock()
	f.called.Add(addr)
}

// CalledFunctions returns all recorded called functions in address
// order.
func (f *File) CalledFunctions() []CalledFunction {
	f.calledMu.Lock()
	defer f.calledMu.Unlock()

	entries := f.called.Entries()
	result := make([]CalledFunction, len(entries))
	for i, e := range entries {
		result[i] = CalledFunction{Address: e.Address, Name: e.Name}
	}
	return result
}

// FindCalledFunction returns the recorded function at an exact
// address.
func (f *File) FindCalledFunction(addr uint32) (CalledFunction, bool) {
	f.calledMu.Lock()
	defer f.calledMu.Unlock()

	e, ok := f.called.FindByAddress(addr)
	if !ok {
		return CalledFunction{}, false
	}
	return CalledFunction{Address: e.Address, Name: e.Name}, true
}
