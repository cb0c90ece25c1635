// Package sciscripttest provides the shared harness for end-to-end fixture
// tests: each fixture is a SciScript source file under testdata/ with a
// sibling .out file holding the expected captured host stdout.
package sciscripttest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/joranmulderij/sciscript/pkg/sciscript"
)

var (
	hostOnce sync.Once
	hostOK   bool
)

// HostAvailable reports whether a python interpreter with the numeric and
// symbolic runtime libraries is reachable. The generated preamble imports
// numpy and sympy unconditionally, so both must be importable.
func HostAvailable() bool {
	hostOnce.Do(func() {
		python, err := exec.LookPath("python3")
		if err != nil {
			if python, err = exec.LookPath("python"); err != nil {
				return
			}
		}
		hostOK = exec.Command(python, "-c", "import numpy, sympy").Run() == nil
	})
	return hostOK
}

// Check compiles testdata/<name>.sci, executes it under the host
// interpreter, and compares the captured stdout against testdata/<name>.out.
func Check(t *testing.T, name string) {
	t.Helper()
	if !HostAvailable() {
		t.Skip("no python interpreter with numpy and sympy on PATH")
	}
	src, err := os.ReadFile(filepath.Join("testdata", name+".sci"))
	if err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile(filepath.Join("testdata", name+".out"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := sciscript.Run(string(src))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != strings.TrimRight(string(want), "\n") {
		t.Fatalf("fixture %s:\ngot:\n%s\nwant:\n%s", name, got, want)
	}
}
