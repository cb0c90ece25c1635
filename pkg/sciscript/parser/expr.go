package parser

import (
	"strconv"

	"github.com/joranmulderij/sciscript/pkg/sciscript/ast"
	"github.com/joranmulderij/sciscript/pkg/sciscript/lexer"
)

// binPrec gives each infix BinOp its precedence, low to high: range, then
// equality, then additive, then multiplicative, then power. Every operator
// parses left-associative.
func binPrec(op ast.BinOp) int {
	switch op {
	case ast.OpRange:
		return 1
	case ast.OpEquals, ast.OpNotEquals:
		return 2
	case ast.OpAdd, ast.OpSubtract:
		return 3
	case ast.OpMultiply, ast.OpDivide, ast.OpModulo:
		return 4
	case ast.OpPower:
		return 5
	}
	return 0
}

func puncToBinOp(text string) (ast.BinOp, bool) {
	switch text {
	case "..":
		return ast.OpRange, true
	case "==":
		return ast.OpEquals, true
	case "!=":
		return ast.OpNotEquals, true
	case "+":
		return ast.OpAdd, true
	case "-":
		return ast.OpSubtract, true
	case "*":
		return ast.OpMultiply, true
	case "/":
		return ast.OpDivide, true
	case "%":
		return ast.OpModulo, true
	case "**":
		return ast.OpPower, true
	}
	return 0, false
}

// parseExpr parses a full expression at the lowest precedence.
func (p *Parser) parseExpr() (ast.ExprUnchecked, error) {
	return p.parseBinExpr(1)
}

func (p *Parser) parseBinExpr(minPrec int) (ast.ExprUnchecked, error) {
	lhs, err := p.parseSequencial()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.Kind != lexer.Punct {
			break
		}
		op, ok := puncToBinOp(tok.Text)
		if !ok {
			break
		}
		prec := binPrec(op)
		if prec < minPrec {
			break
		}
		// an operator opening a new line starts a new statement instead
		if !p.sameLine() {
			break
		}
		p.advance()

		rhs, err := p.parseBinExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = ast.BinOpUnchecked{Lhs: lhs, Op: op, Rhs: rhs}
	}
	return lhs, nil
}

// parseSequencial parses one or more juxtaposed unary expressions with no
// infix operator between them (`2 m`, `f 3`), folding them left-associative
// into SequencialUnchecked nodes for the checker to later disambiguate into
// multiplication or function application.
func (p *Parser) parseSequencial() (ast.ExprUnchecked, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.startsPrimary() && p.sameLine() {
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = ast.SequencialUnchecked{Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

// sameLine reports whether the current token sits on the same source line as
// the token just before it. Juxtaposition, infix operators and call/index
// postfixes never reach across a line break; a token opening a new line
// belongs to the next statement.
func (p *Parser) sameLine() bool {
	if p.pos == 0 {
		return true
	}
	return p.tokens[p.pos].Line == p.tokens[p.pos-1].Line
}

// startsPrimary reports whether the current token could begin a new primary
// expression, used to detect juxtaposition without consuming input.
func (p *Parser) startsPrimary() bool {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Ident, lexer.Int, lexer.Float:
		return true
	case lexer.Keyword:
		switch tok.Text {
		case "true", "false", "null", "if", "for", "struct":
			return true
		}
		return false
	case lexer.Punct:
		switch tok.Text {
		case "(", "[", "{":
			return true
		}
	}
	return false
}

func (p *Parser) parseUnary() (ast.ExprUnchecked, error) {
	if p.isPunct("-") {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.UnaryMinusUnchecked{Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.ExprUnchecked, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isPunct("."):
			p.advance()
			field, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			expr = ast.GetPropertyUnchecked{Target: expr, Field: field}
		case p.isPunct("[") && p.sameLine():
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			expr = ast.IndexExprUnchecked{Target: expr, Index: idx}
		case p.isPunct("(") && p.sameLine():
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			expr = ast.FunctionCallUnchecked{Callee: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseCallArgs() ([]ast.CallArgUnchecked, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var args []ast.CallArgUnchecked
	for !p.isPunct(")") {
		name := ""
		if p.lookaheadIsNamedArg() {
			name, _ = p.expectIdent()
			p.advance() // '='
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, ast.CallArgUnchecked{Name: name, Value: val})
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return args, nil
}

// lookaheadIsNamedArg reports whether the tokens at the current position are
// IDENT `=` (a named-argument prefix), without consuming them. `==` is lexed
// as a single token, so an equality comparison never matches here.
func (p *Parser) lookaheadIsNamedArg() bool {
	if p.tokens[p.pos].Kind != lexer.Ident {
		return false
	}
	next := p.tokens[p.pos+1]
	return next.Kind == lexer.Punct && next.Text == "="
}

func (p *Parser) parsePrimary() (ast.ExprUnchecked, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Int:
		p.advance()
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.errorf("malformed integer literal %q", tok.Text)
		}
		return ast.NumberUnchecked{Value: ast.NewIntConstant(n)}, nil
	case lexer.Float:
		p.advance()
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorf("malformed float literal %q", tok.Text)
		}
		return ast.NumberUnchecked{Value: ast.NewFloatConstant(f)}, nil
	case lexer.Keyword:
		switch tok.Text {
		case "true":
			p.advance()
			return ast.BooleanUnchecked{Value: true}, nil
		case "false":
			p.advance()
			return ast.BooleanUnchecked{Value: false}, nil
		case "null":
			p.advance()
			return ast.NullUnchecked{}, nil
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "struct":
			return p.parseStruct()
		}
		return nil, p.errorf("unexpected keyword %q", tok.Text)
	case lexer.Ident:
		if p.lambdaAhead() {
			return p.parseLambda()
		}
		p.advance()
		return ast.VariableUnchecked{Name: tok.Text}, nil
	case lexer.Punct:
		switch tok.Text {
		case "(":
			if p.lambdaAhead() {
				return p.parseLambda()
			}
			p.advance()
			inner, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return inner, nil
		case "{":
			return p.parseBraceExpr()
		case "[":
			return p.parseBracketExpr()
		}
	}
	return nil, p.errorf("unexpected token")
}

// parseBraceExpr disambiguates `{ lines }` (a Block) from `{k: v, ...}` (a
// Map) by looking for an IDENT `:` prefix immediately after `{`.
func (p *Parser) parseBraceExpr() (ast.ExprUnchecked, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	if p.isPunct("}") {
		p.advance()
		return ast.BlockUnchecked{}, nil
	}
	if p.mapEntryAhead() {
		var entries []ast.MapEntryUnchecked
		for !p.isPunct("}") {
			key, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(":"); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.MapEntryUnchecked{Key: key, Value: val})
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		return ast.MapUnchecked{Entries: entries}, nil
	}

	closer := "}"
	lines, err := p.parseLines(&closer)
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return ast.BlockUnchecked{Lines: lines}, nil
}

// mapEntryAhead looks past one expression to see whether a `:` follows,
// distinguishing a map literal's first entry from a block's first statement.
// Only an IDENT `:` prefix is recognized, so a brace literal whose first
// key is not a bare identifier is parsed as a block.
func (p *Parser) mapEntryAhead() bool {
	tok := p.peek()
	if tok.Kind != lexer.Ident {
		return false
	}
	next := p.tokens[p.pos+1]
	return next.Kind == lexer.Punct && next.Text == ":"
}

func (p *Parser) parseBracketExpr() (ast.ExprUnchecked, error) {
	if err := p.expectPunct("["); err != nil {
		return nil, err
	}
	if p.isPunct("]") {
		p.advance()
		return ast.ListUnchecked{}, nil
	}
	if p.isPunct("[") {
		return p.parseMatrixRows()
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	items := []ast.ExprUnchecked{first}
	for p.isPunct(",") {
		p.advance()
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return ast.ListUnchecked{Items: items}, nil
}

// parseMatrixRows parses `[` `[` expr (`,` expr)* `]` (`;` `[` ... `]`)* `]`.
// The opening `[` has already been consumed by parseBracketExpr.
func (p *Parser) parseMatrixRows() (ast.ExprUnchecked, error) {
	var rows [][]ast.ExprUnchecked
	for {
		row, err := p.parseMatrixRow()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		if p.isPunct(";") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return ast.MatrixUnchecked{Rows: rows}, nil
}

func (p *Parser) parseMatrixRow() ([]ast.ExprUnchecked, error) {
	if err := p.expectPunct("["); err != nil {
		return nil, err
	}
	var row []ast.ExprUnchecked
	for !p.isPunct("]") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		row = append(row, e)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return row, nil
}

func (p *Parser) parseIf() (ast.ExprUnchecked, error) {
	var conditions []ast.ExprUnchecked
	var blocks [][]ast.LineUnchecked
	var elseLines []ast.LineUnchecked

	for {
		if err := p.expectKeyword("if"); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		block, err := p.parseBlockLines()
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
		blocks = append(blocks, block)

		if !p.isKeyword("else") {
			break
		}
		p.advance()
		if p.isKeyword("if") {
			continue
		}
		elseLines, err = p.parseBlockLines()
		if err != nil {
			return nil, err
		}
		break
	}
	return ast.IfUnchecked{Conditions: conditions, Blocks: blocks, Else: elseLines}, nil
}

func (p *Parser) expectKeyword(text string) error {
	if !p.isKeyword(text) {
		return p.errorf("expected keyword %q", text)
	}
	p.advance()
	return nil
}

// parseBlockLines parses a brace-delimited statement list used by if/for
// bodies and lambda/struct-method bodies, where a plain braced block (not a
// map literal) is always meant.
func (p *Parser) parseBlockLines() ([]ast.LineUnchecked, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	closer := "}"
	lines, err := p.parseLines(&closer)
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return lines, nil
}

func (p *Parser) parseFor() (ast.ExprUnchecked, error) {
	if err := p.expectKeyword("for"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("in"); err != nil {
		return nil, err
	}
	rangeExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockLines()
	if err != nil {
		return nil, err
	}
	return ast.ForUnchecked{Name: name, Range: rangeExpr, Body: body}, nil
}

// lambdaAhead scans forward from the current `(` or bare identifier to
// determine whether a `->` lambda arrow follows the matching parameter list,
// without consuming any tokens.
func (p *Parser) lambdaAhead() bool {
	save := p.pos
	defer func() { p.pos = save }()

	if p.peek().Kind == lexer.Ident {
		p.advance()
		return p.isPunct("->")
	}
	if !p.isPunct("(") {
		return false
	}
	if !p.skipBalancedParens() {
		return false
	}
	return p.isPunct("->")
}

// skipBalancedParens advances past a balanced `( ... )` group starting at the
// current token, reporting false when the input ends first.
func (p *Parser) skipBalancedParens() bool {
	depth := 0
	for {
		if p.atEOF() {
			return false
		}
		if p.isPunct("(") {
			depth++
		} else if p.isPunct(")") {
			depth--
			p.advance()
			if depth == 0 {
				return true
			}
			continue
		}
		p.advance()
	}
}

// parseLambdaParamList parses `(` (NAME (`:` TYPE)? (`=` EXPR)? `,`?)* `)`.
func (p *Parser) parseLambdaParamList() ([]ast.LambdaParamUnchecked, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var params []ast.LambdaParamUnchecked
	for !p.isPunct(")") {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		param := ast.LambdaParamUnchecked{Name: name}
		if p.isPunct(":") {
			p.advance()
			ann, err := p.parseTypeAnnotation()
			if err != nil {
				return nil, err
			}
			param.Annotation = ann
		}
		if p.isPunct("=") {
			p.advance()
			def, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseLambda() (ast.ExprUnchecked, error) {
	var params []ast.LambdaParamUnchecked
	if p.peek().Kind == lexer.Ident {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.LambdaParamUnchecked{Name: name})
	} else {
		ps, err := p.parseLambdaParamList()
		if err != nil {
			return nil, err
		}
		params = ps
	}

	if err := p.expectPunct("->"); err != nil {
		return nil, err
	}
	returnType := p.tryReturnAnnotation()
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.LambdaUnchecked{Params: params, Body: body, ReturnType: returnType}, nil
}

// tryReturnAnnotation speculatively parses a return-type annotation directly
// after a lambda arrow (`-> num x + 1`, `-> num { ... }`). The annotation is
// only kept when another expression follows it; otherwise the consumed tokens
// belong to the body itself and the position is rewound.
func (p *Parser) tryReturnAnnotation() *ast.TypeAnnotationUnchecked {
	if p.peek().Kind != lexer.Ident {
		return nil
	}
	save := p.pos
	ann, err := p.parseTypeAnnotation()
	if err == nil && p.startsPrimary() && p.sameLine() {
		return &ann
	}
	p.pos = save
	return nil
}

func (p *Parser) parseStruct() (ast.ExprUnchecked, error) {
	if err := p.expectKeyword("struct"); err != nil {
		return nil, err
	}
	return p.parseStructBody()
}

// parseStructBody parses the brace-delimited field list of a struct literal;
// the `struct` keyword (and, for a struct declaration line, the name) has
// already been consumed.
func (p *Parser) parseStructBody() (ast.ExprUnchecked, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var fields []ast.StructFieldUnchecked
	for !p.isPunct("}") {
		for p.isPunct(";") {
			p.advance()
		}
		if p.isPunct("}") {
			break
		}
		field, err := p.parseStructField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		for p.isPunct(";") {
			p.advance()
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return ast.StructUnchecked{Fields: fields}, nil
}

func (p *Parser) parseStructField() (ast.StructFieldUnchecked, error) {
	name, err := p.expectIdent()
	if err != nil {
		return ast.StructFieldUnchecked{}, err
	}

	if p.isPunct("(") {
		// method: name(params) -> ReturnType? { body }
		params, err := p.parseLambdaParamList()
		if err != nil {
			return ast.StructFieldUnchecked{}, err
		}
		if err := p.expectPunct("->"); err != nil {
			return ast.StructFieldUnchecked{}, err
		}
		returnType := p.tryReturnAnnotation()
		body, err := p.parseBlockLines()
		if err != nil {
			return ast.StructFieldUnchecked{}, err
		}
		lambda := ast.LambdaUnchecked{
			Params:     params,
			Body:       ast.BlockUnchecked{Lines: body},
			ReturnType: returnType,
		}
		return ast.StructFieldUnchecked{Name: name, Default: lambda, Kind: ast.FieldMethod}, nil
	}

	field := ast.StructFieldUnchecked{Name: name, Kind: ast.FieldProperty}
	if p.isPunct(":") {
		p.advance()
		ann, err := p.parseTypeAnnotation()
		if err != nil {
			return ast.StructFieldUnchecked{}, err
		}
		field.Annotation = &ann
	}
	if p.isPunct("=") {
		p.advance()
		def, err := p.parseExpr()
		if err != nil {
			return ast.StructFieldUnchecked{}, err
		}
		field.Default = def
	}
	return field, nil
}
