package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joranmulderij/sciscript/pkg/sciscript"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [source_file]",
	Short: "compile and execute a SciScript program.",
	Long: `Compile a SciScript program and immediately execute the generated source
under the host interpreter, printing its captured output.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := defaultInput
		if len(args) == 1 {
			input = args[0]
		}
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
		out, err := sciscript.RunGenerated(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(out)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("strict", false, "reject collection literals that widen to any")
	runCmd.Flags().Bool("no-stdlib", false, "do not seed the standard library scope")
}
