package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skdltmxn/smx-go/smx"
	"github.com/spf13/cobra"
)

var lookupDataAddr string

var lookupCmd = &cobra.Command{
	Use:   "lookup <smx-file> <code-address>",
	Short: "Resolve a code address to file, line and function",
	Long: `Resolve a code address against the debug tables.

Shows the source file, line and enclosing method for the address.
With --data, additionally resolves a data/stack address to the
variable covering it:

  lookup plugin.smx 0x1234
  lookup plugin.smx 0x1234 --data 0xc`,
	Args: cobra.ExactArgs(2),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupDataAddr, "data", "", "also resolve a data/stack address")
}

func runLookup(cmd *cobra.Command, args []string) error {
	f, err := smx.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open SMX file: %w", err)
	}

	codeAddr, err := parseAddr(args[1])
	if err != nil {
		return fmt.Errorf("invalid code address: %s", args[1])
	}

	info, err := f.Debug()
	if err != nil {
		return fmt.Errorf("failed to parse debug tables: %w", err)
	}
	log.Debug().
		Uint64("code_addr", codeAddr).
		Int("lines", len(info.Lines())).
		Int("locals", len(info.Locals())).
		Msg("resolving code address")

	fmt.Fprintf(output, "Address 0x%08X:\n", codeAddr)

	if file, ok := info.FindFile(uint32(codeAddr)); ok {
		fmt.Fprintf(output, "  File: %s\n", file)
	} else {
		fmt.Fprintf(output, "  File: <unknown>\n")
	}

	if line, ok := info.FindLine(uint32(codeAddr)); ok {
		fmt.Fprintf(output, "  Line: %d\n", line)
	} else {
		fmt.Fprintf(output, "  Line: <unknown>\n")
	}

	if types, err := f.Types(); err == nil {
		for i := range types.Methods() {
			m := &types.Methods()[i]
			if int32(codeAddr) >= m.PcodeStart && int32(codeAddr) < m.PcodeEnd {
				log.Debug().Str("method", m.Name).
					Int32("pcode_start", m.PcodeStart).
					Int32("pcode_end", m.PcodeEnd).
					Msg("matched enclosing method")
				fmt.Fprintf(output, "  Method: %s %s\n", m.Name, types.MethodSignature(m))
				break
			}
		}
	}

	if lookupDataAddr == "" {
		return nil
	}

	dataAddr, err := parseAddr(lookupDataAddr)
	if err != nil {
		return fmt.Errorf("invalid data address: %s", lookupDataAddr)
	}

	if v, ok := info.FindLocal(uint32(codeAddr), int32(dataAddr)); ok {
		fmt.Fprintf(output, "  Local: %s (%s)\n", v.Name, v.Class)
	} else if v, ok := info.FindGlobal(int32(dataAddr)); ok {
		fmt.Fprintf(output, "  Global: %s\n", v.Name)
	} else {
		fmt.Fprintf(output, "  Variable: <unknown>\n")
	}

	return nil
}

func parseAddr(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 32)
	}
	return strconv.ParseUint(s, 10, 32)
}
