package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/joranmulderij/sciscript/pkg/sciscript"
	"github.com/joranmulderij/sciscript/pkg/sciscript/check"
)

// defaultInput is the source path used when no file argument is given.
const defaultInput = "input.sci"

var buildCmd = &cobra.Command{
	Use:   "build [flags] [source_file]",
	Short: "compile a SciScript program to Python source.",
	Long: `Parse, type-check and dimensionally analyze a SciScript program, then write
the generated Python source to the output file. Parse and check failures are
reported on stderr without a failing exit status.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := defaultInput
		if len(args) == 1 {
			input = args[0]
		}
		output := getString(cmd, "output")

		src, err := os.ReadFile(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot read %s: %v\n", input, err)
			os.Exit(1)
		}

		code, err := sciscript.CompileWithConfig(string(src), checkConfig(cmd))
		if err != nil {
			writeDiagnostic(err)
			return
		}
		if err := os.WriteFile(output, []byte(code), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "cannot write %s: %v\n", output, err)
			os.Exit(1)
		}
		log.WithFields(log.Fields{"input": input, "output": output}).
			Debug("compiled program")
	},
}

// checkConfig maps the shared checker flags onto a check.Config.
func checkConfig(cmd *cobra.Command) check.Config {
	return check.Config{
		Strict:   getFlag(cmd, "strict"),
		NoStdlib: getFlag(cmd, "no-stdlib"),
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("output", "o", "output.py", "specify output file.")
	buildCmd.Flags().Bool("strict", false, "reject collection literals that widen to any")
	buildCmd.Flags().Bool("no-stdlib", false, "do not seed the standard library scope")
}
