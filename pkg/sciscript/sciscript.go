// Package sciscript is the library surface of the SciScript toolchain: it
// composes the parser, type/unit checker, and Python code generator into a
// single Compile step, and can additionally drive the host interpreter over
// the generated source to capture its output.
package sciscript

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/joranmulderij/sciscript/pkg/sciscript/check"
	"github.com/joranmulderij/sciscript/pkg/sciscript/codegen"
	"github.com/joranmulderij/sciscript/pkg/sciscript/parser"
)

// Diagnostic is the single textual error type the front end produces for
// name, type, unit, shape and mutability failures.
type Diagnostic = check.Diagnostic

// stdLibPy is the host-side support module the generated source imports as
// `std`: print, the runtime halves of the type-constructor family, and
// linspace.
//
//go:embed runtime/std_lib.py
var stdLibPy string

// Compile translates SciScript source text into Python source text. The
// translation is fully static: every expression is parsed, typed,
// dimensionally analyzed and lowered before anything runs.
func Compile(src string) (string, error) {
	return CompileWithConfig(src, check.Config{})
}

// CompileWithConfig is Compile with an explicit checker configuration.
func CompileWithConfig(src string, cfg check.Config) (string, error) {
	lines, err := parser.Parse(src)
	if err != nil {
		return "", err
	}
	checked, err := check.CheckWithConfig(lines, cfg)
	if err != nil {
		return "", err
	}
	return codegen.Generate(checked), nil
}

// Run compiles src, writes the generated program and its support module to a
// scratch directory, executes the host interpreter on it, and returns
// captured stdout with line endings normalized and trailing whitespace
// trimmed.
func Run(src string) (string, error) {
	code, err := Compile(src)
	if err != nil {
		return "", err
	}
	return RunGenerated(code)
}

// RunGenerated executes already-generated Python source under the host
// interpreter and returns its normalized stdout.
func RunGenerated(code string) (string, error) {
	python, err := exec.LookPath("python3")
	if err != nil {
		python, err = exec.LookPath("python")
		if err != nil {
			return "", fmt.Errorf("no python interpreter on PATH")
		}
	}

	dir, err := os.MkdirTemp("", "sciscript-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	program := filepath.Join(dir, "program.py")
	if err := os.WriteFile(program, []byte(code), 0o644); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "std_lib.py"), []byte(stdLibPy), 0o644); err != nil {
		return "", err
	}

	cmd := exec.Command(python, "program.py")
	cmd.Dir = dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("host interpreter failed: %v\n%s", err, stderr.String())
	}
	return normalizeOutput(stdout.String()), nil
}

// normalizeOutput converts CRLF line endings to LF and trims trailing
// whitespace from the captured output.
func normalizeOutput(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimRight(s, " \t\n")
}
