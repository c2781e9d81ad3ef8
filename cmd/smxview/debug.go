package main

import (
	"fmt"

	"github.com/skdltmxn/smx-go/smx"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug <smx-file>",
	Short: "Display debug tables",
	Long: `Display the debug tables of an SMX file: source files, line
mappings and variable symbols.`,
	Args: cobra.ExactArgs(1),
	RunE: runDebug,
}

func runDebug(cmd *cobra.Command, args []string) error {
	f, err := smx.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open SMX file: %w", err)
	}

	info, err := f.Debug()
	if err != nil {
		return fmt.Errorf("failed to parse debug tables: %w", err)
	}
	log.Debug().
		Int("files", len(info.Files())).
		Int("lines", len(info.Lines())).
		Int("globals", len(info.Globals())).
		Int("locals", len(info.Locals())).
		Msg("parsed debug tables")

	var types *smx.TypeTable
	if t, err := f.Types(); err == nil {
		types = t
	}

	if files := info.Files(); len(files) > 0 {
		fmt.Fprintf(output, "Files (%d):\n", len(files))
		for _, file := range files {
			fmt.Fprintf(output, "  0x%08X %s\n", file.Address, file.Name)
		}
		fmt.Fprintln(output)
	}

	if lines := info.Lines(); len(lines) > 0 {
		fmt.Fprintf(output, "Lines: %d mapping(s)\n\n", len(lines))
	}

	printVars := func(label string, vars []smx.DebugVar) {
		if len(vars) == 0 {
			return
		}
		fmt.Fprintf(output, "%s (%d):\n", label, len(vars))
		for i := range vars {
			v := &vars[i]
			typeName := ""
			if types != nil {
				typeName = types.TypeFromID(v.TypeID) + " "
			}
			fmt.Fprintf(output, "  %-8s 0x%08X %s%s [0x%X, 0x%X]\n",
				v.Class, uint32(v.Address), typeName, v.Name, v.CodeStart, v.CodeEnd)
		}
		fmt.Fprintln(output)
	}

	printVars("Globals", info.Globals())
	printVars("Locals", info.Locals())

	return nil
}
