// Package cmd wires the SciScript toolchain into a cobra command tree. It is
// the only layer that performs I/O: reading source files, writing generated
// host source, invoking the host interpreter, and formatting diagnostics.
package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sciscript",
	Short: "A compiler for the SciScript language.",
	Long: `A compiler for SciScript, a small language for scientific computation with
first-class physical units, symbolic values, matrices and closures. Programs
are statically typed and dimensionally analyzed, then lowered to Python.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main() exactly once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}
