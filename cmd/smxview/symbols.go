package main

import (
	"fmt"

	"github.com/skdltmxn/smx-go/smx"
	"github.com/spf13/cobra"
)

var (
	symbolsNatives bool
	symbolsPublics bool
	symbolsPubvars bool
	symbolsTags    bool
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols <smx-file>",
	Short: "Display natives, publics, pubvars and tags",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func init() {
	symbolsCmd.Flags().BoolVar(&symbolsNatives, "natives", false, "show natives only")
	symbolsCmd.Flags().BoolVar(&symbolsPublics, "publics", false, "show publics only")
	symbolsCmd.Flags().BoolVar(&symbolsPubvars, "pubvars", false, "show pubvars only")
	symbolsCmd.Flags().BoolVar(&symbolsTags, "tags", false, "show tags only")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	f, err := smx.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open SMX file: %w", err)
	}

	all := !symbolsNatives && !symbolsPublics && !symbolsPubvars && !symbolsTags

	if all || symbolsNatives {
		natives, err := f.Natives()
		if err != nil {
			return fmt.Errorf("failed to parse natives: %w", err)
		}

		// RTTI signatures are available for natives when the compiler
		// emitted the rtti.natives table.
		var types *smx.TypeTable
		if t, err := f.Types(); err == nil {
			types = t
		}

		fmt.Fprintf(output, "Natives (%d):\n", len(natives))
		for i, n := range natives {
			line := n.Name
			if types != nil {
				rttiNatives := types.Natives()
				if i < len(rttiNatives) {
					line = fmt.Sprintf("%s: %s", n.Name, types.NativeSignature(&rttiNatives[i]))
				}
			}
			fmt.Fprintf(output, "  [%3d] %s\n", i, line)
		}
		fmt.Fprintln(output)
	}

	if all || symbolsPublics {
		publics, err := f.Publics()
		if err != nil {
			return fmt.Errorf("failed to parse publics: %w", err)
		}
		fmt.Fprintf(output, "Publics (%d):\n", len(publics))
		for _, p := range publics {
			fmt.Fprintf(output, "  0x%08X %s\n", p.Address, p.Name)
		}
		fmt.Fprintln(output)
	}

	if all || symbolsPubvars {
		pubvars, err := f.Pubvars()
		if err != nil {
			return fmt.Errorf("failed to parse pubvars: %w", err)
		}
		fmt.Fprintf(output, "Pubvars (%d):\n", len(pubvars))
		for _, p := range pubvars {
			fmt.Fprintf(output, "  0x%08X %s\n", p.Address, p.Name)
		}
		fmt.Fprintln(output)
	}

	if all || symbolsTags {
		tags, err := f.Tags()
		if err != nil {
			return fmt.Errorf("failed to parse tags: %w", err)
		}
		fmt.Fprintf(output, "Tags (%d):\n", tags.Len())
		for i := range tags.Entries() {
			t := &tags.Entries()[i]
			fmt.Fprintf(output, "  [%3d] 0x%08X %s\n", t.ID(), t.Flags(), t.Name)
		}
	}

	return nil
}
