package cmd

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// writeDiagnostic reports a parse or check failure on stderr. The message
// prefix is highlighted only when stderr is an interactive terminal, so
// piped output stays plain text.
func writeDiagnostic(err error) {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintf(os.Stderr, "\x1b[1;31merror:\x1b[0m %s\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", err)
}
