package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	outputFile string
	verbose    bool
	output     io.Writer
	log        zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "smxview",
	Short: "SMX plugin viewer and analyzer",
	Long: `smxview is a command-line tool for viewing and analyzing
compiled SourcePawn plugins (SMX files).

It can display sections, types, natives, publics and debug
information stored in SMX images.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = os.Stdout
		}

		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(lookupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
