package parser

import (
	"testing"

	"github.com/joranmulderij/sciscript/pkg/sciscript/ast"
)

func parseOne(t *testing.T, src string) ast.LineUnchecked {
	t.Helper()
	lines, err := Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if len(lines) != 1 {
		t.Fatalf("parse %q: got %d lines", src, len(lines))
	}
	return lines[0]
}

func parseExpr(t *testing.T, src string) ast.ExprUnchecked {
	t.Helper()
	line, ok := parseOne(t, src).(ast.ExprLineUnchecked)
	if !ok {
		t.Fatalf("parse %q: not an expression line", src)
	}
	return line.Expr
}

func Test_Parser_Precedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3)
	e, ok := parseExpr(t, "1 + 2 * 3").(ast.BinOpUnchecked)
	if !ok || e.Op != ast.OpAdd {
		t.Fatalf("top operator is not +: %#v", e)
	}
	rhs, ok := e.Rhs.(ast.BinOpUnchecked)
	if !ok || rhs.Op != ast.OpMultiply {
		t.Fatalf("rhs is not a multiplication: %#v", e.Rhs)
	}
}

func Test_Parser_LeftAssociative(t *testing.T) {
	// 1 - 2 - 3 parses as (1 - 2) - 3
	e, ok := parseExpr(t, "1 - 2 - 3").(ast.BinOpUnchecked)
	if !ok || e.Op != ast.OpSubtract {
		t.Fatalf("top operator is not -: %#v", e)
	}
	if _, ok := e.Lhs.(ast.BinOpUnchecked); !ok {
		t.Fatalf("lhs is not the nested subtraction: %#v", e.Lhs)
	}
}

func Test_Parser_Power(t *testing.T) {
	e, ok := parseExpr(t, "2 ** 3").(ast.BinOpUnchecked)
	if !ok || e.Op != ast.OpPower {
		t.Fatalf("got %#v", e)
	}
}

func Test_Parser_Range(t *testing.T) {
	e, ok := parseExpr(t, "1..5").(ast.BinOpUnchecked)
	if !ok || e.Op != ast.OpRange {
		t.Fatalf("got %#v", e)
	}
}

func Test_Parser_Sequencial(t *testing.T) {
	// juxtaposition parses as a neutral Sequencial node
	e, ok := parseExpr(t, "3 m").(ast.SequencialUnchecked)
	if !ok {
		t.Fatalf("got %#v", parseExpr(t, "3 m"))
	}
	if _, ok := e.Lhs.(ast.NumberUnchecked); !ok {
		t.Fatalf("lhs: %#v", e.Lhs)
	}
	if v, ok := e.Rhs.(ast.VariableUnchecked); !ok || v.Name != "m" {
		t.Fatalf("rhs: %#v", e.Rhs)
	}
}

func Test_Parser_SequencialBindsTighterThanAdd(t *testing.T) {
	// 3 m + 4 m parses as (3 m) + (4 m)
	e, ok := parseExpr(t, "3 m + 4 m").(ast.BinOpUnchecked)
	if !ok || e.Op != ast.OpAdd {
		t.Fatalf("got %#v", e)
	}
	if _, ok := e.Lhs.(ast.SequencialUnchecked); !ok {
		t.Fatalf("lhs: %#v", e.Lhs)
	}
	if _, ok := e.Rhs.(ast.SequencialUnchecked); !ok {
		t.Fatalf("rhs: %#v", e.Rhs)
	}
}

func Test_Parser_NamedArguments(t *testing.T) {
	e, ok := parseExpr(t, "add(2, b=5)").(ast.FunctionCallUnchecked)
	if !ok {
		t.Fatalf("got %#v", parseExpr(t, "add(2, b=5)"))
	}
	if len(e.Args) != 2 {
		t.Fatalf("got %d args", len(e.Args))
	}
	if e.Args[0].Name != "" {
		t.Fatalf("first argument should be positional, got name %q", e.Args[0].Name)
	}
	if e.Args[1].Name != "b" {
		t.Fatalf("second argument name: %q", e.Args[1].Name)
	}
}

func Test_Parser_Lambda(t *testing.T) {
	e, ok := parseExpr(t, "(a: num, b: num = 1) -> num a + b").(ast.LambdaUnchecked)
	if !ok {
		t.Fatalf("got %#v", parseExpr(t, "(a: num, b: num = 1) -> num a + b"))
	}
	if len(e.Params) != 2 {
		t.Fatalf("got %d params", len(e.Params))
	}
	if e.Params[0].Annotation.Name != "num" || e.Params[1].Default == nil {
		t.Fatalf("params: %#v", e.Params)
	}
	if e.ReturnType == nil || e.ReturnType.Name != "num" {
		t.Fatalf("return type: %#v", e.ReturnType)
	}
	if _, ok := e.Body.(ast.BinOpUnchecked); !ok {
		t.Fatalf("body: %#v", e.Body)
	}
}

func Test_Parser_LambdaNoReturnType(t *testing.T) {
	// `-> x` keeps x as the body, not as a return annotation
	e, ok := parseExpr(t, "(x: num) -> x").(ast.LambdaUnchecked)
	if !ok {
		t.Fatalf("got %#v", parseExpr(t, "(x: num) -> x"))
	}
	if e.ReturnType != nil {
		t.Fatalf("phantom return type: %#v", e.ReturnType)
	}
	if v, ok := e.Body.(ast.VariableUnchecked); !ok || v.Name != "x" {
		t.Fatalf("body: %#v", e.Body)
	}
}

func Test_Parser_SingleParamLambda(t *testing.T) {
	e, ok := parseExpr(t, "x -> x + 1").(ast.LambdaUnchecked)
	if !ok {
		t.Fatalf("got %#v", parseExpr(t, "x -> x + 1"))
	}
	if len(e.Params) != 1 || e.Params[0].Name != "x" {
		t.Fatalf("params: %#v", e.Params)
	}
}

func Test_Parser_FunctionLineSugar(t *testing.T) {
	line, ok := parseOne(t, "add(a: num, b: num) -> num { a + b }").(ast.NewAssignmentLineUnchecked)
	if !ok {
		t.Fatalf("got %#v", parseOne(t, "add(a: num, b: num) -> num { a + b }"))
	}
	if line.Name != "add" || line.Modifier != ast.ModLet {
		t.Fatalf("line: %#v", line)
	}
	lambda, ok := line.Value.(ast.LambdaUnchecked)
	if !ok {
		t.Fatalf("value: %#v", line.Value)
	}
	if _, ok := lambda.Body.(ast.BlockUnchecked); !ok {
		t.Fatalf("body: %#v", lambda.Body)
	}
}

func Test_Parser_StructLineSugar(t *testing.T) {
	src := "struct Point { x: num = 0; y: num = 0; norm() -> num { x * x + y * y } }"
	line, ok := parseOne(t, src).(ast.NewAssignmentLineUnchecked)
	if !ok {
		t.Fatalf("got %#v", parseOne(t, src))
	}
	if line.Name != "Point" {
		t.Fatalf("name: %q", line.Name)
	}
	s, ok := line.Value.(ast.StructUnchecked)
	if !ok {
		t.Fatalf("value: %#v", line.Value)
	}
	if len(s.Fields) != 3 {
		t.Fatalf("got %d fields", len(s.Fields))
	}
	if s.Fields[2].Kind != ast.FieldMethod {
		t.Fatalf("third field kind: %v", s.Fields[2].Kind)
	}
	if _, ok := s.Fields[2].Default.(ast.LambdaUnchecked); !ok {
		t.Fatalf("method default: %#v", s.Fields[2].Default)
	}
}

func Test_Parser_Matrix(t *testing.T) {
	e, ok := parseExpr(t, "[[1, 2]; [3, 4]]").(ast.MatrixUnchecked)
	if !ok {
		t.Fatalf("got %#v", parseExpr(t, "[[1, 2]; [3, 4]]"))
	}
	if len(e.Rows) != 2 || len(e.Rows[0]) != 2 || len(e.Rows[1]) != 2 {
		t.Fatalf("shape: %#v", e.Rows)
	}
}

func Test_Parser_ListAndMap(t *testing.T) {
	if _, ok := parseExpr(t, "[1, 2, 3]").(ast.ListUnchecked); !ok {
		t.Fatal("list literal did not parse")
	}
	m, ok := parseExpr(t, "{a: 1, b: 2}").(ast.MapUnchecked)
	if !ok || len(m.Entries) != 2 {
		t.Fatalf("map literal: %#v", m)
	}
}

func Test_Parser_BlockVsMap(t *testing.T) {
	b, ok := parseExpr(t, "{ let x = 10\n x * 2 }").(ast.BlockUnchecked)
	if !ok || len(b.Lines) != 2 {
		t.Fatalf("block: %#v", b)
	}
}

func Test_Parser_ReAssignmentChain(t *testing.T) {
	line, ok := parseOne(t, "p.x = 3").(ast.ReAssignmentLineUnchecked)
	if !ok {
		t.Fatalf("got %#v", parseOne(t, "p.x = 3"))
	}
	if line.Name != "p" || len(line.Extensions) != 1 {
		t.Fatalf("line: %#v", line)
	}
	if ext, ok := line.Extensions[0].(ast.PropGetUnchecked); !ok || ext.Name != "x" {
		t.Fatalf("extension: %#v", line.Extensions[0])
	}
}

func Test_Parser_IndexReAssignment(t *testing.T) {
	line, ok := parseOne(t, "xs[0] = 3").(ast.ReAssignmentLineUnchecked)
	if !ok {
		t.Fatalf("got %#v", parseOne(t, "xs[0] = 3"))
	}
	if _, ok := line.Extensions[0].(ast.IndexUnchecked); !ok {
		t.Fatalf("extension: %#v", line.Extensions[0])
	}
}

func Test_Parser_IfElseChain(t *testing.T) {
	src := "if (true) { 1 } else if (false) { 2 } else { 3 }"
	e, ok := parseExpr(t, src).(ast.IfUnchecked)
	if !ok {
		t.Fatalf("got %#v", parseExpr(t, src))
	}
	if len(e.Conditions) != 2 || len(e.Blocks) != 2 || e.Else == nil {
		t.Fatalf("if: %#v", e)
	}
}

func Test_Parser_For(t *testing.T) {
	e, ok := parseExpr(t, "for (i in 0..10) { print(i) }").(ast.ForUnchecked)
	if !ok {
		t.Fatalf("got %#v", parseExpr(t, "for (i in 0..10) { print(i) }"))
	}
	if e.Name != "i" {
		t.Fatalf("loop variable: %q", e.Name)
	}
}

func Test_Parser_TypeAnnotation(t *testing.T) {
	line, ok := parseOne(t, "let xs: list[num] = [1]").(ast.NewAssignmentLineUnchecked)
	if !ok || line.Annotation == nil {
		t.Fatalf("got %#v", line)
	}
	if line.Annotation.Name != "list" || len(line.Annotation.Generics) != 1 {
		t.Fatalf("annotation: %#v", line.Annotation)
	}
}

func Test_Parser_UnitdefAndSyms(t *testing.T) {
	if _, ok := parseOne(t, "unitdef m").(ast.UnitDefLineUnchecked); !ok {
		t.Fatal("unitdef did not parse")
	}
	if _, ok := parseOne(t, "syms k").(ast.SymsDefLineUnchecked); !ok {
		t.Fatal("syms did not parse")
	}
}

func Test_Parser_LineOriented(t *testing.T) {
	// a primary opening a new line starts a new statement, it is not
	// juxtaposed onto the previous one
	lines, err := Parse("let r = 2\nprint(r * r)")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if _, ok := lines[0].(ast.NewAssignmentLineUnchecked); !ok {
		t.Fatalf("line 0: %#v", lines[0])
	}

	// same for operators, brackets and call parentheses
	for _, src := range []string{
		"let x = 2\n-1",
		"let xs = [1]\n[2]",
		"let f = (x: num) -> num x\n(1 + 2)",
	} {
		lines, err := Parse(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		if len(lines) != 2 {
			t.Fatalf("parse %q: got %d lines, want 2", src, len(lines))
		}
	}
}

func Test_Parser_JuxtapositionSameLineOnly(t *testing.T) {
	if _, ok := parseExpr(t, "3 m").(ast.SequencialUnchecked); !ok {
		t.Fatal("same-line juxtaposition did not parse")
	}
	lines, err := Parse("3\nm")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
}

func Test_Parser_Errors(t *testing.T) {
	for _, src := range []string{
		"let = 3",
		"let x 3",
		"1 +",
		"[1, 2",
		"if (true)",
	} {
		if _, err := Parse(src); err == nil {
			t.Errorf("parse %q: expected an error", src)
		}
	}
}
