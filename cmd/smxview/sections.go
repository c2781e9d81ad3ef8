package main

import (
	"fmt"

	"github.com/skdltmxn/smx-go/smx"
	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections <smx-file>",
	Short: "List sections in an SMX file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSections,
}

func runSections(cmd *cobra.Command, args []string) error {
	f, err := smx.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open SMX file: %w", err)
	}

	sections := f.Sections()
	log.Debug().Int("count", len(sections)).Msg("parsed section directory")

	fmt.Fprintf(output, "%-24s %10s %10s\n", "NAME", "OFFSET", "SIZE")
	for _, s := range sections {
		fmt.Fprintf(output, "%-24s 0x%08X %10d\n", s.Name, s.DataOffset, s.Size)
	}
	fmt.Fprintf(output, "\n%d section(s)\n", len(sections))

	return nil
}
