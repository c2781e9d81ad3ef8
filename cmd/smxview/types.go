package main

import (
	"fmt"

	"github.com/skdltmxn/smx-go/smx"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types <smx-file>",
	Short: "Display RTTI type information",
	Long: `Display the RTTI tables of an SMX file: enums, typedefs,
typesets, class definitions and enum structs, with type signatures
rendered as source-level type strings.`,
	Args: cobra.ExactArgs(1),
	RunE: runTypes,
}

func runTypes(cmd *cobra.Command, args []string) error {
	f, err := smx.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open SMX file: %w", err)
	}

	types, err := f.Types()
	if err != nil {
		return fmt.Errorf("failed to parse RTTI tables: %w", err)
	}
	log.Debug().
		Int("enums", len(types.Enums())).
		Int("typedefs", len(types.Typedefs())).
		Int("typesets", len(types.Typesets())).
		Int("classdefs", len(types.ClassDefs())).
		Int("methods", len(types.Methods())).
		Msg("parsed rtti tables")

	if enums := types.Enums(); len(enums) > 0 {
		fmt.Fprintf(output, "Enums (%d):\n", len(enums))
		for _, name := range enums {
			fmt.Fprintf(output, "  enum %s\n", name)
		}
		fmt.Fprintln(output)
	}

	if typedefs := types.Typedefs(); len(typedefs) > 0 {
		fmt.Fprintf(output, "Typedefs (%d):\n", len(typedefs))
		for i := range typedefs {
			td := &typedefs[i]
			fmt.Fprintf(output, "  typedef %s = %s\n", td.Name, types.TypeFromID(td.TypeID))
		}
		fmt.Fprintln(output)
	}

	if typesets := types.Typesets(); len(typesets) > 0 {
		fmt.Fprintf(output, "Typesets (%d):\n", len(typesets))
		for i := range typesets {
			ts := &typesets[i]
			fmt.Fprintf(output, "  typeset %s\n", ts.Name)
			for _, member := range types.TypesetTypesFromOffset(ts.Signature) {
				fmt.Fprintf(output, "    %s\n", member)
			}
		}
		fmt.Fprintln(output)
	}

	if defs := types.ClassDefs(); len(defs) > 0 {
		fields := types.Fields()
		fmt.Fprintf(output, "Classes (%d):\n", len(defs))
		for i := range defs {
			def := &defs[i]
			fmt.Fprintf(output, "  %s\n", def.Name)

			// Fields run from FirstField to the next class's FirstField.
			stop := len(fields)
			if i+1 < len(defs) {
				stop = int(defs[i+1].FirstField)
			}
			for j := int(def.FirstField); j < stop && j >= 0 && j < len(fields); j++ {
				fmt.Fprintf(output, "    %s %s\n", types.TypeFromID(fields[j].TypeID), fields[j].Name)
			}
		}
		fmt.Fprintln(output)
	}

	if structs := types.EnumStructs(); len(structs) > 0 {
		esFields := types.EnumStructFields()
		fmt.Fprintf(output, "Enum structs (%d):\n", len(structs))
		for i := range structs {
			es := &structs[i]
			fmt.Fprintf(output, "  enum struct %s (%d bytes)\n", es.Name, es.Size)

			stop := len(esFields)
			if i+1 < len(structs) {
				stop = int(structs[i+1].FirstField)
			}
			for j := int(es.FirstField); j < stop && j >= 0 && j < len(esFields); j++ {
				fmt.Fprintf(output, "    %s %s\n", types.TypeFromID(esFields[j].TypeID), esFields[j].Name)
			}
		}
		fmt.Fprintln(output)
	}

	if methods := types.Methods(); len(methods) > 0 {
		fmt.Fprintf(output, "Methods (%d):\n", len(methods))
		for i := range methods {
			m := &methods[i]
			fmt.Fprintf(output, "  [0x%08X, 0x%08X) %s: %s\n",
				m.PcodeStart, m.PcodeEnd, m.Name, types.MethodSignature(m))
		}
	}

	return nil
}
