// Package parser builds the unchecked AST (pkg/sciscript/ast) from a token
// stream. It is a hand-rolled recursive-descent parser with a
// precedence-climbing expression core rather than a generated or
// parser-combinator grammar.
package parser

import (
	"fmt"

	"github.com/joranmulderij/sciscript/pkg/sciscript/ast"
	"github.com/joranmulderij/sciscript/pkg/sciscript/lexer"
)

// Parser consumes a token stream and produces a program: a flat list of
// top-level LineUnchecked nodes.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse tokenizes and parses a complete SciScript source file.
func Parse(src string) ([]ast.LineUnchecked, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens}
	lines, err := p.parseLines(nil)
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected trailing token %q", p.peek().Text)
	}
	return lines, nil
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) atEOF() bool {
	return p.peek().Kind == lexer.EOF
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(format string, args ...any) error {
	tok := p.peek()
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("parse error at offset %d (near %q): %s", tok.Offset, tok.Text, msg)
}

func (p *Parser) isPunct(text string) bool {
	tok := p.peek()
	return tok.Kind == lexer.Punct && tok.Text == text
}

func (p *Parser) isKeyword(text string) bool {
	tok := p.peek()
	return tok.Kind == lexer.Keyword && tok.Text == text
}

func (p *Parser) expectPunct(text string) error {
	if !p.isPunct(text) {
		return p.errorf("expected %q", text)
	}
	p.advance()
	return nil
}

func (p *Parser) expectIdent() (string, error) {
	tok := p.peek()
	if tok.Kind != lexer.Ident {
		return "", p.errorf("expected identifier")
	}
	p.advance()
	return tok.Text, nil
}

// parseLines parses statements until a closing delimiter (closer == nil for
// top level, which stops at end of input; "}" for a block body) is seen.
func (p *Parser) parseLines(closer *string) ([]ast.LineUnchecked, error) {
	var lines []ast.LineUnchecked
	for {
		if closer != nil && p.isPunct(*closer) {
			return lines, nil
		}
		if closer == nil && p.atEOF() {
			return lines, nil
		}
		for p.isPunct(";") {
			p.advance()
		}
		if closer != nil && p.isPunct(*closer) {
			return lines, nil
		}
		if closer == nil && p.atEOF() {
			return lines, nil
		}
		line, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		for p.isPunct(";") {
			p.advance()
		}
	}
}

func (p *Parser) parseLine() (ast.LineUnchecked, error) {
	switch {
	case p.isKeyword("let") || p.isKeyword("const"):
		return p.parseNewAssignment()
	case p.isKeyword("unitdef"):
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return ast.UnitDefLineUnchecked{Name: name}, nil
	case p.isKeyword("syms"):
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return ast.SymsDefLineUnchecked{Name: name}, nil
	case p.isKeyword("struct") && p.tokens[p.pos+1].Kind == lexer.Ident:
		return p.parseStructLine()
	}

	if p.peek().Kind == lexer.Ident && p.isReAssignmentAhead() {
		return p.parseReAssignment()
	}
	if p.peek().Kind == lexer.Ident && p.funcDeclAhead() {
		return p.parseFunctionLine()
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.ExprLineUnchecked{Expr: expr}, nil
}

// isReAssignmentAhead looks past a leading identifier and any `.field`/
// `[expr]` chain to see whether a bare `=` follows (as opposed to `==`,
// which the lexer already tokenizes as one punct, so no ambiguity arises).
func (p *Parser) isReAssignmentAhead() bool {
	save := p.pos
	defer func() { p.pos = save }()

	p.advance() // identifier
	for {
		if p.isPunct(".") {
			p.advance()
			if p.peek().Kind != lexer.Ident {
				return false
			}
			p.advance()
			continue
		}
		if p.isPunct("[") {
			depth := 0
			for {
				if p.atEOF() {
					return false
				}
				if p.isPunct("[") {
					depth++
				} else if p.isPunct("]") {
					depth--
					p.advance()
					if depth == 0 {
						break
					}
					continue
				}
				p.advance()
			}
			continue
		}
		break
	}
	return p.isPunct("=")
}

// funcDeclAhead reports whether the line ahead is a function declaration
// (IDENT `(` params `)` `->` ...) rather than an expression statement that
// merely starts with a call.
func (p *Parser) funcDeclAhead() bool {
	save := p.pos
	defer func() { p.pos = save }()

	p.advance() // identifier
	if !p.isPunct("(") {
		return false
	}
	if !p.skipBalancedParens() {
		return false
	}
	return p.isPunct("->")
}

// parseFunctionLine parses `f(a: T, b: T = expr) -> T? { ... }`, sugar for a
// new assignment of a lambda whose body is the braced block.
func (p *Parser) parseFunctionLine() (ast.LineUnchecked, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	params, err := p.parseLambdaParamList()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("->"); err != nil {
		return nil, err
	}
	returnType := p.tryReturnAnnotation()
	body, err := p.parseBlockLines()
	if err != nil {
		return nil, err
	}
	return ast.NewAssignmentLineUnchecked{
		Name: name,
		Value: ast.LambdaUnchecked{
			Params:     params,
			Body:       ast.BlockUnchecked{Lines: body},
			ReturnType: returnType,
		},
		Modifier: ast.ModLet,
	}, nil
}

// parseStructLine parses `struct S { ... }`, sugar for a new assignment of
// the struct literal to S.
func (p *Parser) parseStructLine() (ast.LineUnchecked, error) {
	p.advance() // 'struct'
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	value, err := p.parseStructBody()
	if err != nil {
		return nil, err
	}
	return ast.NewAssignmentLineUnchecked{Name: name, Value: value, Modifier: ast.ModLet}, nil
}

func (p *Parser) parseNewAssignment() (ast.LineUnchecked, error) {
	modifier := ast.ModLet
	if p.isKeyword("const") {
		modifier = ast.ModConst
	}
	p.advance()

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	var annotation *ast.TypeAnnotationUnchecked
	if p.isPunct(":") {
		p.advance()
		a, err := p.parseTypeAnnotation()
		if err != nil {
			return nil, err
		}
		annotation = &a
	}

	if err := p.expectPunct("="); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewAssignmentLineUnchecked{
		Name:       name,
		Annotation: annotation,
		Value:      value,
		Modifier:   modifier,
	}, nil
}

func (p *Parser) parseReAssignment() (ast.LineUnchecked, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	var extensions []ast.ReAssignmentExtensionUnchecked
	for {
		switch {
		case p.isPunct("."):
			p.advance()
			field, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			extensions = append(extensions, ast.PropGetUnchecked{Name: field})
		case p.isPunct("["):
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			extensions = append(extensions, ast.IndexUnchecked{Index: idx})
		default:
			goto done
		}
	}
done:
	if err := p.expectPunct("="); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.ReAssignmentLineUnchecked{Name: name, Extensions: extensions, Value: value}, nil
}

// parseTypeAnnotation parses NAME (`[` EXPR (`,` EXPR)* `]`)?.
func (p *Parser) parseTypeAnnotation() (ast.TypeAnnotationUnchecked, error) {
	name, err := p.expectIdent()
	if err != nil {
		return ast.TypeAnnotationUnchecked{}, err
	}
	ann := ast.TypeAnnotationUnchecked{Name: name}
	if p.isPunct("[") {
		p.advance()
		for !p.isPunct("]") {
			g, err := p.parseExpr()
			if err != nil {
				return ast.TypeAnnotationUnchecked{}, err
			}
			ann.Generics = append(ann.Generics, g)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct("]"); err != nil {
			return ast.TypeAnnotationUnchecked{}, err
		}
	}
	return ann, nil
}
