package sciscript

import (
	"strings"
	"testing"

	"github.com/joranmulderij/sciscript/pkg/sciscript/check"
)

func Test_Compile_Program(t *testing.T) {
	code, err := Compile("print(1 + 2)")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(code, check.HostImports) {
		t.Fatalf("missing preamble:\n%s", code)
	}
	if !strings.Contains(code, "std.my_print(value=3)") {
		t.Fatalf("unexpected lowering:\n%s", code)
	}
}

func Test_Compile_Deterministic(t *testing.T) {
	src := "unitdef m\nlet d = 3 m\nlet a = 4 m\nprint(d + a)\n" +
		"let f = (x: num) -> num x + 1\nprint(f(1))"
	first, err := Compile(src)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		got, err := Compile(src)
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatal("compilation is not byte-stable")
		}
	}
}

func Test_Compile_ParseErrorPassesThrough(t *testing.T) {
	if _, err := Compile("let = 3"); err == nil {
		t.Fatal("expected a parse error")
	}
}

func Test_Compile_Diagnostics(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"unit mismatch", "unitdef m\nlet x = 1 m\nlet y = 1\nprint(x + y)"},
		{"const reassignment", "const pi2 = 3.14\npi2 = 3.15"},
		{"missing required argument", "let f = (x: num) -> num x + 1\nprint(f(y=3))"},
	}
	for _, c := range cases {
		_, err := Compile(c.src)
		if err == nil {
			t.Errorf("%s: expected a diagnostic", c.name)
			continue
		}
		if err.Error() == "" {
			t.Errorf("%s: empty diagnostic", c.name)
		}
		if _, ok := err.(*Diagnostic); !ok {
			t.Errorf("%s: diagnostic has unexpected type %T", c.name, err)
		}
	}
}

func Test_CompileWithConfig_Strict(t *testing.T) {
	if _, err := CompileWithConfig("[1, true]", check.Config{Strict: true}); err == nil {
		t.Fatal("strict mode accepted a heterogeneous list")
	}
	if _, err := CompileWithConfig("[1, true]", check.Config{}); err != nil {
		t.Fatalf("default mode rejected a heterogeneous list: %v", err)
	}
}

func Test_NormalizeOutput(t *testing.T) {
	if got := normalizeOutput("a\r\nb\r\n"); got != "a\nb" {
		t.Fatalf("got %q", got)
	}
	if got := normalizeOutput("x  \n"); got != "x" {
		t.Fatalf("got %q", got)
	}
}
