// Package codegen lowers a checked SciScript program (pkg/sciscript/ast) to
// Python source text. Every lowered expression produces a (prelude, rvalue)
// pair: zero or more preceding statements plus a single expression usable
// inline at the call site. Statement-oriented constructs (blocks, loops,
// nested functions, classes) hoist themselves into the prelude.
package codegen

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/joranmulderij/sciscript/pkg/sciscript/ast"
	"github.com/joranmulderij/sciscript/pkg/sciscript/check"
)

// Generate lowers a checked program to a complete, runnable Python module.
func Generate(lines []ast.Line) string {
	g := &generator{}
	var sb strings.Builder
	sb.WriteString(check.HostImports)
	for _, line := range lines {
		sb.WriteString(g.lineCode(line))
		sb.WriteString("\n")
	}
	log.WithFields(log.Fields{"lines": len(lines), "bytes": sb.Len()}).
		Debug("lowered checked program to host source")
	return sb.String()
}

// generator carries the small amount of state codegen needs beyond the AST
// itself: counters for synthetic names it must mint fresh per occurrence.
type generator struct {
	ifCounter     int
	structCounter int
}

func (g *generator) freshIfVar() string {
	name := fmt.Sprintf("_if_%d", g.ifCounter)
	g.ifCounter++
	return name
}

func (g *generator) freshStructName() string {
	name := fmt.Sprintf("_Struct_%d", g.structCounter)
	g.structCounter++
	return name
}

// traceHoist records the hoisted prelude size for one lowered construct.
func traceHoist(construct, prelude string) {
	log.WithFields(log.Fields{"construct": construct, "preludeBytes": len(prelude)}).
		Debug("hoisted prelude")
}

func indent(input string) string {
	if input == "" {
		return ""
	}
	lines := strings.Split(input, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}

func joinPreludes(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

func pyOp(op ast.BinOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSubtract:
		return "-"
	case ast.OpMultiply:
		return "*"
	case ast.OpDivide:
		return "/"
	case ast.OpModulo:
		return "%"
	case ast.OpPower:
		return "**"
	case ast.OpEquals:
		return "=="
	case ast.OpNotEquals:
		return "!="
	}
	return "?"
}

// lineCode renders a full statement line, folding its prelude above it.
func (g *generator) lineCode(line ast.Line) string {
	pl, code := g.lineParts(line)
	if pl == "" {
		return code
	}
	return pl + "\n" + code
}

func (g *generator) lineParts(line ast.Line) (string, string) {
	switch l := line.(type) {
	case ast.ExprLine:
		return g.exprCode(l.Expr)
	case ast.NewAssignmentLine:
		pl, expr := g.exprCode(l.Expr)
		return pl, fmt.Sprintf("%s = %s", l.ID, expr)
	case ast.ReAssignmentLine:
		var pl strings.Builder
		var suffix strings.Builder
		for _, ext := range l.Extensions {
			switch e := ext.(type) {
			case ast.IndexExtension:
				p, idx := g.exprCode(e.Index)
				pl.WriteString(p)
				suffix.WriteString("[" + idx + "]")
			case ast.PropertyExtension:
				suffix.WriteString("." + e.Name)
			}
		}
		p, expr := g.exprCode(l.Expr)
		if pl.Len() > 0 && p != "" {
			pl.WriteString("\n")
		}
		pl.WriteString(p)
		return pl.String(), fmt.Sprintf("%s%s = %s", l.ID, suffix.String(), expr)
	}
	return "", ""
}

// lineCodeReturn renders the trailing line of a value-producing body
// (Block/Lambda): a bare expression statement becomes the body's resulting
// value directly, while an assignment line stays a statement and the body's
// value becomes `None`.
func (g *generator) lineCodeReturn(line ast.Line) (string, string) {
	if _, ok := line.(ast.ExprLine); ok {
		return "", g.lineCode(line)
	}
	return g.lineCode(line), "None"
}

// bodyCode renders a statement list the way a Block or Lambda body threads a
// value out: every line but the last becomes a plain statement, the last
// becomes the body's resulting (prelude, value) pair.
func (g *generator) bodyCode(lines []ast.Line) (string, string) {
	if len(lines) == 0 {
		return "", "None"
	}
	var out []string
	for _, l := range lines[:len(lines)-1] {
		out = append(out, g.lineCode(l))
	}
	lastPl, lastExpr := g.lineCodeReturn(lines[len(lines)-1])
	if lastPl != "" {
		out = append(out, lastPl)
	}
	return strings.Join(out, "\n"), lastExpr
}

// statementsCode renders every line of a statement list as an executed
// statement, discarding any trailing expression's value. Used by for-loop
// bodies, which run for their side effects once per iteration rather than
// threading a single value out the way a Block does.
func (g *generator) statementsCode(lines []ast.Line) string {
	var out []string
	for _, l := range lines {
		out = append(out, g.lineCode(l))
	}
	return strings.Join(out, "\n")
}

func (g *generator) exprCode(expr ast.Expr) (string, string) {
	switch e := expr.(type) {
	case ast.Number:
		return "", e.Value.String()

	case ast.NewSymbol:
		return "", fmt.Sprintf("sp.Symbol('%s')", e.Name)

	case ast.Boolean:
		if e.Value {
			return "", "True"
		}
		return "", "False"

	case ast.Null:
		return "", "None"

	case ast.Variable:
		return "", e.ID

	case ast.UnaryMinus:
		pl, code := g.exprCode(e.Operand)
		return pl, "-" + code

	case ast.BinOpExpr:
		pl1, lhs := g.exprCode(e.Lhs)
		pl2, rhs := g.exprCode(e.Rhs)
		pl := joinPreludes(pl1, pl2)
		if e.Op == ast.OpRange {
			return pl, fmt.Sprintf("range(%s, %s)", lhs, rhs)
		}
		return pl, fmt.Sprintf("(%s %s %s)", lhs, pyOp(e.Op), rhs)

	case ast.Block:
		pl, code := g.bodyCode(e.Lines)
		traceHoist("block", pl)
		return pl, code

	case ast.If:
		return g.ifCode(e)

	case ast.For:
		return g.forCode(e)

	case ast.Lambda:
		return g.lambdaCode(e, "func", false)

	case ast.List:
		var pl strings.Builder
		items := make([]string, len(e.Items))
		for i, item := range e.Items {
			p, code := g.exprCode(item)
			pl.WriteString(p)
			items[i] = code
		}
		return pl.String(), "[" + strings.Join(items, ", ") + "]"

	case ast.Map:
		var pl strings.Builder
		parts := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			kpl, kcode := g.exprCode(entry.Key)
			vpl, vcode := g.exprCode(entry.Value)
			pl.WriteString(kpl)
			pl.WriteString(vpl)
			parts[i] = fmt.Sprintf("%s: %s", kcode, vcode)
		}
		return pl.String(), "{" + strings.Join(parts, ", ") + "}"

	case ast.Matrix:
		var pl strings.Builder
		rows := make([]string, len(e.Rows))
		for i, row := range e.Rows {
			items := make([]string, len(row))
			for j, item := range row {
				p, code := g.exprCode(item)
				pl.WriteString(p)
				items[j] = code
			}
			rows[i] = "[" + strings.Join(items, ", ") + "]"
		}
		return pl.String(), "np.matrix([" + strings.Join(rows, ", ") + "])"

	case ast.Index:
		pl1, target := g.exprCode(e.Target)
		pl2, idx := g.exprCode(e.Index)
		return joinPreludes(pl1, pl2), fmt.Sprintf("%s[%s]", target, idx)

	case ast.GetProperty:
		pl, target := g.exprCode(e.Target)
		return pl, fmt.Sprintf("%s.%s", target, e.Field)

	case ast.FunctionCall:
		return g.callCode(e)

	case ast.Struct:
		return g.structCode(e)
	}
	return "", ""
}

func (g *generator) callCode(e ast.FunctionCall) (string, string) {
	pl1, fun := g.exprCode(e.Callee)
	var pl strings.Builder
	pl.WriteString(pl1)
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		p, code := g.exprCode(a.Expr)
		pl.WriteString(p)
		args[i] = fmt.Sprintf("%s=%s", a.Name, code)
	}
	return pl.String(), fmt.Sprintf("%s(%s)", fun, strings.Join(args, ", "))
}

func (g *generator) paramsCode(params []ast.LambdaParam) (string, string) {
	var pl strings.Builder
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Default != nil {
			dpl, dcode := g.exprCode(p.Default)
			pl.WriteString(dpl)
			parts[i] = fmt.Sprintf("%s=%s", p.ID, dcode)
		} else {
			parts[i] = p.ID
		}
	}
	return pl.String(), strings.Join(parts, ", ")
}

// lambdaCode renders a lambda (or a struct method, via isMethod) as a named
// `def` in the prelude. Any capture the checker computed that isn't a dotted
// "self.field" path is declared `global` so the function can reach the
// enclosing module's bindings; dotted self-paths never need a global
// statement, they resolve through the bound `self` parameter instead.
func (g *generator) lambdaCode(e ast.Lambda, name string, isMethod bool) (string, string) {
	var pl strings.Builder
	paramsPl, paramsCode := g.paramsCode(e.Params)
	pl.WriteString(paramsPl)

	var def strings.Builder
	def.WriteString("def ")
	def.WriteString(name)
	def.WriteString("(")
	if isMethod {
		def.WriteString("self")
		if paramsCode != "" {
			def.WriteString(", ")
		}
	}
	def.WriteString(paramsCode)
	def.WriteString("):\n")
	for _, dep := range e.Captures.ToSlice() {
		if !strings.Contains(dep, ".") {
			def.WriteString(fmt.Sprintf("    global %s\n", dep))
		}
	}
	bodyPl, bodyExpr := g.exprCode(e.Body)
	if bodyPl != "" {
		def.WriteString(indent(bodyPl))
		def.WriteString("\n")
	}
	def.WriteString(indent("return " + bodyExpr))

	pl.WriteString(def.String())
	traceHoist("lambda", pl.String())
	return pl.String(), name
}

// structCode renders a struct literal as a freshly named class definition
// (one per literal, so that two distinct struct types used in the same
// program never collide on a shared class name) and returns that name as
// the literal's value.
func (g *generator) structCode(e ast.Struct) (string, string) {
	className := g.freshStructName()
	var pl strings.Builder
	var params []string
	var ctorBody strings.Builder
	var methods strings.Builder

	for _, f := range e.Fields {
		switch f.Kind {
		case ast.FieldProperty:
			if f.Default != nil {
				p, def := g.exprCode(f.Default)
				pl.WriteString(p)
				params = append(params, fmt.Sprintf("%s=%s", f.Name, def))
			} else {
				params = append(params, f.Name)
			}
			ctorBody.WriteString(fmt.Sprintf("        self.%s = %s\n", f.Name, f.Name))
		case ast.FieldMethod:
			lambda, ok := f.Default.(ast.Lambda)
			if !ok {
				panic("struct method default must be a lambda")
			}
			methodCode, _ := g.lambdaCode(lambda, f.Name, true)
			methods.WriteString(indent(methodCode) + "\n")
		}
	}

	if ctorBody.Len() == 0 {
		ctorBody.WriteString("        pass\n")
	}
	pl.WriteString(fmt.Sprintf(
		"\nclass %s:\n    def __init__(self, %s):\n%s\n%s\n",
		className, strings.Join(params, ", "), ctorBody.String(), methods.String()))
	traceHoist("struct", pl.String())
	return pl.String(), className
}

// ifCode lowers an if/elif/else chain to a hoisted synthetic variable
// assigned inside every branch, so the If expression's value can be read
// back at its use site the same way a Block's trailing expression is.
func (g *generator) ifCode(e ast.If) (string, string) {
	resultVar := g.freshIfVar()
	var sb strings.Builder

	for i, cond := range e.Conditions {
		condPl, condCode := g.exprCode(cond)
		if condPl != "" {
			sb.WriteString(condPl)
			sb.WriteString("\n")
		}
		keyword := "elif"
		if i == 0 {
			keyword = "if"
		}
		sb.WriteString(fmt.Sprintf("%s %s:\n", keyword, condCode))
		blockPl, blockExpr := g.bodyCode(e.Blocks[i])
		sb.WriteString(indent(blockPl))
		if blockPl != "" {
			sb.WriteString("\n")
		}
		sb.WriteString(indent(fmt.Sprintf("%s = %s", resultVar, blockExpr)))
		sb.WriteString("\n")
	}

	sb.WriteString("else:\n")
	if e.Else != nil {
		blockPl, blockExpr := g.bodyCode(e.Else)
		sb.WriteString(indent(blockPl))
		if blockPl != "" {
			sb.WriteString("\n")
		}
		sb.WriteString(indent(fmt.Sprintf("%s = %s", resultVar, blockExpr)))
	} else {
		sb.WriteString(indent(fmt.Sprintf("%s = None", resultVar)))
	}

	traceHoist("if", sb.String())
	return sb.String(), resultVar
}

// forCode runs the loop body purely for its side effects once per
// iteration; a for-expression's own value is always None.
func (g *generator) forCode(e ast.For) (string, string) {
	rangePl, rangeExpr := g.exprCode(e.Range)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("for %s in %s:\n", e.ID, rangeExpr))
	bodyStmts := g.statementsCode(e.Body)
	if bodyStmts == "" {
		bodyStmts = "pass"
	}
	sb.WriteString(indent(bodyStmts))
	pl := joinPreludes(rangePl, sb.String())
	traceHoist("for", pl)
	return pl, "None"
}
