package smx

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"math"

	"github.com/skdltmxn/smx-go/internal/stream"
)

// FileMagic is the little-endian magic at the start of every SMX file.
const FileMagic uint32 = 0x53504646

// Supported file format versions.
const (
	FileVersion0101 uint16 = 0x0101
	FileVersion0102 uint16 = 0x0102
)

// Compression bytes in the file header.
const (
	CompressionNone uint8 = 0
	CompressionGz   uint8 = 1
)

// headerSize is the fixed size of the file header.
const headerSize = 24

// sectionEntrySize is the size of one section directory entry.
const sectionEntrySize = 12

// FileHeader is the fixed header at the start of an SMX file.
type FileHeader struct {
	Magic        uint32
	Version      uint16
	Compression  uint8
	DiskSize     uint32
	ImageSize    uint32
	SectionCount uint8
	StringTab    uint32
	DataOffset   uint32
}

// parseHeader reads and validates the file header, returning it along
// with the fully decompressed image bytes.
func parseHeader(data []byte) (*FileHeader, []byte, error) {
	if len(data) < headerSize {
		return nil, nil, fmt.Errorf("%w: file shorter than header", ErrInvalidSize)
	}

	r := stream.NewReader(data)
	h := &FileHeader{}

	h.Magic, _ = r.ReadU32()
	if h.Magic != FileMagic {
		return nil, nil, ErrInvalidMagic
	}

	h.Version, _ = r.ReadU16()
	h.Compression, _ = r.ReadU8()
	h.DiskSize, _ = r.ReadU32()
	h.ImageSize, _ = r.ReadU32()
	h.SectionCount, _ = r.ReadU8()
	h.StringTab, _ = r.ReadU32()
	h.DataOffset, _ = r.ReadU32()

	if h.DiskSize < headerSize || int(h.DiskSize) > len(data) {
		return nil, nil, fmt.Errorf("%w: disksize %d, file %d bytes", ErrInvalidSize, h.DiskSize, len(data))
	}
	if h.ImageSize < h.DiskSize && h.Compression == CompressionNone {
		return nil, nil, fmt.Errorf("%w: imagesize %d below disksize %d", ErrInvalidSize, h.ImageSize, h.DiskSize)
	}
	if h.DataOffset < headerSize || h.DataOffset > h.DiskSize {
		return nil, nil, fmt.Errorf("%w: dataoffs 0x%x", ErrInvalidOffset, h.DataOffset)
	}

	image, err := expandImage(h, data)
	if err != nil {
		return nil, nil, err
	}
	return h, image, nil
}

// expandImage produces the full image buffer: everything before
// DataOffset is stored raw, the remainder is zlib-compressed when the
// header says so.
func expandImage(h *FileHeader, data []byte) ([]byte, error) {
	switch h.Compression {
	case CompressionNone:
		return data[:h.DiskSize], nil

	case CompressionGz:
		image := make([]byte, 0, h.ImageSize)
		image = append(image, data[:h.DataOffset]...)

		zr, err := zlib.NewReader(bytes.NewReader(data[h.DataOffset:h.DiskSize]))
		if err != nil {
			return nil, fmt.Errorf("smx: failed to open compressed image: %w", err)
		}
		defer zr.Close()

		rest, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("smx: failed to decompress image: %w", err)
		}
		image = append(image, rest...)

		if uint32(len(image)) != h.ImageSize {
			return nil, fmt.Errorf("%w: decompressed to %d bytes, header says %d",
				ErrInvalidSize, len(image), h.ImageSize)
		}
		return image, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, h.Compression)
	}
}

// parseSections reads the section directory that follows the header
// and resolves each entry's name from the string table.
func parseSections(h *FileHeader, image []byte) ([]Section, error) {
	r := stream.NewReader(image)
	if err := r.SetOffset(headerSize); err != nil {
		return nil, err
	}

	need := headerSize + int(h.SectionCount)*sectionEntrySize
	if need > len(image) {
		return nil, fmt.Errorf("%w: section directory extends past image", ErrInvalidSize)
	}
	if int(h.StringTab) >= len(image) {
		return nil, fmt.Errorf("%w: stringtab 0x%x", ErrInvalidOffset, h.StringTab)
	}

	sections := make([]Section, 0, h.SectionCount)
	for i := 0; i < int(h.SectionCount); i++ {
		nameOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		dataOffset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		size, err := r.ReadU32()
		if err != nil {
			return nil, err
		}

		end := uint64(dataOffset) + uint64(size)
		if end > math.MaxUint32 {
			return nil, &ParseError{
				Section: fmt.Sprintf("directory entry %d", i),
				Offset:  int64(headerSize + i*sectionEntrySize),
				Message: fmt.Sprintf("section end 0x%x exceeds 32 bits", end),
				Err:     ErrOffsetOverflow,
			}
		}
		if end > uint64(len(image)) {
			return nil, &ParseError{
				Section: fmt.Sprintf("directory entry %d", i),
				Offset:  int64(headerSize + i*sectionEntrySize),
				Message: fmt.Sprintf("section range [0x%x, 0x%x) exceeds image", dataOffset, end),
				Err:     ErrInvalidOffset,
			}
		}

		nameAt := uint64(h.StringTab) + uint64(nameOffset)
		if nameAt >= uint64(len(image)) {
			return nil, &ParseError{
				Section: fmt.Sprintf("directory entry %d", i),
				Offset:  int64(headerSize + i*sectionEntrySize),
				Message: fmt.Sprintf("name offset 0x%x exceeds image", nameOffset),
				Err:     ErrInvalidOffset,
			}
		}
		name := readCString(image, int(nameAt))

		sections = append(sections, Section{
			Name:       name,
			NameOffset: nameOffset,
			DataOffset: dataOffset,
			Size:       size,
		})
	}

	return sections, nil
}

func readCString(data []byte, offset int) string {
	end := offset
	for end < len(data) && data[end] != 0 {
		end++
	}
	return string(data[offset:end])
}
