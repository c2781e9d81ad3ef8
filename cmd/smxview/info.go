package main

import (
	"fmt"

	"github.com/skdltmxn/smx-go/smx"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <smx-file>",
	Short: "Display SMX file information",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	f, err := smx.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open SMX file: %w", err)
	}

	h := f.Header()
	fmt.Fprintf(output, "SMX File Information\n")
	fmt.Fprintf(output, "====================\n")
	fmt.Fprintf(output, "Version:     0x%04X\n", h.Version)
	fmt.Fprintf(output, "Compression: %s\n", compressionName(h.Compression))
	fmt.Fprintf(output, "Disk Size:   %d bytes\n", h.DiskSize)
	fmt.Fprintf(output, "Image Size:  %d bytes\n", h.ImageSize)
	fmt.Fprintf(output, "Sections:    %d\n", h.SectionCount)

	if code, err := f.Code(); err == nil {
		fmt.Fprintf(output, "\nCode\n")
		fmt.Fprintf(output, "  Size:      %d bytes\n", code.CodeSize)
		fmt.Fprintf(output, "  Cell Size: %d\n", code.CellSize)
		fmt.Fprintf(output, "  Version:   %d\n", code.CodeVersion)
		fmt.Fprintf(output, "  Main:      0x%08X\n", code.MainOffset)
	}

	if data, err := f.Data(); err == nil {
		fmt.Fprintf(output, "\nData\n")
		fmt.Fprintf(output, "  Size:      %d bytes\n", data.DataSize)
		fmt.Fprintf(output, "  Memory:    %d bytes\n", data.MemSize)
	}

	if info, err := f.Debug(); err == nil && info.Info() != nil {
		dh := info.Info()
		fmt.Fprintf(output, "\nDebug Info\n")
		fmt.Fprintf(output, "  Files:   %d\n", dh.NumFiles)
		fmt.Fprintf(output, "  Lines:   %d\n", dh.NumLines)
		fmt.Fprintf(output, "  Symbols: %d\n", dh.NumSyms)
	}

	return nil
}

func compressionName(c uint8) string {
	switch c {
	case smx.CompressionNone:
		return "none"
	case smx.CompressionGz:
		return "gz"
	default:
		return fmt.Sprintf("unknown (%d)", c)
	}
}
