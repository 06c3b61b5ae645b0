// Package parser implements a predictive (LL(1)) recursive-descent parser
// that builds an *ast.Program from a token stream.
//
// Grammar (spec.md §4.2), with the comparison-precedence fix from spec.md
// §9 note 5 applied: comparison gets its own level strictly below additive,
// so `a < b + c` parses as `a < (b + c)` rather than `(a < b) + c`.
//
//	program     := statement*
//	statement   := varDecl | ifStmt | forStmt | call ';' | assign ';'
//	varDecl     := ('num'|'str') IDENT ('=' expression)? ';'
//	ifStmt      := 'when' '(' expression ')' block ('otherwise' block)?
//	forStmt     := 'repeat' '(' varDecl expression ';' assign ')' block
//	assign      := IDENT '=' expression
//	call        := (SHOW|ASK|IDENT) '(' expression? ')'
//	block       := '{' statement* '}'
//	expression  := comparison
//	comparison  := additive (('<'|'>') additive)*
//	additive    := term (('+'|'-') term)*
//	term        := unary (('*'|'/') unary)*
//	unary       := '-' unary | primary
//	primary     := NUMBER | STRING | IDENT | call | '(' expression ')'
package parser

import (
	"fmt"

	"github.com/Harshit13-12/bakc/internal/ast"
	"github.com/Harshit13-12/bakc/internal/lexer"
	"github.com/Harshit13-12/bakc/internal/token"
)

// Parser holds our object-state.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token
}

// New constructs a Parser reading from l, and primes the cur/peek token
// buffer. Every grammar decision is made on cur alone; peek is not read.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func pos(t token.Token) ast.Position {
	return ast.Position{Line: t.Line, Column: t.Column}
}

// parseError is the one diagnostic kind the parser itself emits: a single
// "Expected X but got Y at L:C" failure that aborts the current production
// (spec.md §7 — parser errors are first-fail, no later stage runs).
type parseError struct {
	msg string
}

func (e *parseError) Error() string { return e.msg }

func (p *Parser) errorf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return &parseError{msg: fmt.Sprintf("%s at %d:%d", msg, p.cur.Line, p.cur.Column)}
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if p.cur.Kind != kind {
		return token.Token{}, p.errorf("Expected %s but got %s", kind, p.cur.Kind)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// ParseProgram parses the whole token stream into an *ast.Program. On the
// first syntax error it returns (nil, err) — the caller owns no partial
// tree in that case, since Program holds no interior references to
// subtrees it didn't finish building.
func ParseProgram(l *lexer.Lexer) (*ast.Program, error) {
	p := New(l)
	prog := &ast.Program{Position: pos(p.cur)}

	for p.cur.Kind != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.cur.Kind {
	case token.NUM, token.STR:
		decl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return decl, nil

	case token.WHEN:
		return p.parseIf()

	case token.REPEAT:
		return p.parseFor()

	case token.IDENT, token.SHOW, token.ASK:
		stmt, err := p.parseIdentOrCallStatement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return stmt, nil

	default:
		return nil, p.errorf("Expected a statement but got %s", p.cur.Kind)
	}
}

// parseIdentOrCallStatement handles the three forms a bare name or builtin
// can open: a call `show(x)`, an assignment `x = expr`, or — if neither
// '(' nor '=' follows — a descriptive hint per spec.md §4.2.
func (p *Parser) parseIdentOrCallStatement() (ast.Node, error) {
	name := p.cur
	isBuiltin := name.Kind == token.SHOW || name.Kind == token.ASK

	if isBuiltin {
		p.advance()
		return p.finishCall(name)
	}

	p.advance()
	switch p.cur.Kind {
	case token.LPAREN:
		return p.finishCall(name)
	case token.ASSIGN:
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Name: name.Lexeme, Value: value, Position: pos(name)}, nil
	default:
		return nil, p.errorf(
			"Expected '(' to start a call or '=' to start an assignment after %q (did you mean a 'num'/'str' declaration, an assignment, or a call?)",
			name.Lexeme)
	}
}

func (p *Parser) finishCall(name token.Token) (*ast.FunctionCall, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	call := &ast.FunctionCall{Name: name.Lexeme, Position: pos(name)}
	if p.cur.Kind != token.RPAREN {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	typeTok := p.cur
	p.advance() // consume 'num'/'str'

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	decl := &ast.VarDecl{
		TypeName: ast.DataType(typeTok.Kind),
		Name:     nameTok.Lexeme,
		Position: pos(typeTok),
	}

	if p.cur.Kind == token.ASSIGN {
		p.advance()
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Initializer = init
	}
	return decl, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	lbrace, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}

	block := &ast.Block{Position: pos(lbrace)}
	for p.cur.Kind != token.RBRACE {
		if p.cur.Kind == token.EOF {
			return nil, p.errorf("Expected '}' but got %s", p.cur.Kind)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	p.advance() // consume '}'
	return block, nil
}

func (p *Parser) parseIf() (*ast.If, error) {
	whenTok := p.cur
	p.advance() // consume 'when'

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	ifNode := &ast.If{Condition: cond, Then: thenBlock, Position: pos(whenTok)}

	if p.cur.Kind == token.OTHERWISE {
		p.advance()
		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		ifNode.Else = elseBlock
	}
	return ifNode, nil
}

func (p *Parser) parseFor() (*ast.For, error) {
	repeatTok := p.cur
	p.advance() // consume 'repeat'

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	init, err := p.parseVarDecl()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	incName, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	incValue, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	inc := &ast.Assign{Name: incName.Lexeme, Value: incValue, Position: pos(incName)}

	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.For{Init: init, Condition: cond, Increment: inc, Body: body, Position: pos(repeatTok)}, nil
}

// parseExpression is the top of the precedence chain.
func (p *Parser) parseExpression() (ast.Node, error) {
	return p.parseComparison()
}

// parseComparison gives '<'/'>' their own level strictly below additive
// (spec.md §9 note 5, resolved per SPEC_FULL.md §5.5).
func (p *Parser) parseComparison() (ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == token.LT || p.cur.Kind == token.GT {
		opTok := p.cur
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		op, _ := ast.BinOpFromToken(opTok.Kind)
		left = &ast.BinaryOp{Op: op, Left: left, Right: right, Position: pos(opTok)}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == token.PLUS || p.cur.Kind == token.MINUS {
		opTok := p.cur
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		op, _ := ast.BinOpFromToken(opTok.Kind)
		left = &ast.BinaryOp{Op: op, Left: left, Right: right, Position: pos(opTok)}
	}
	return left, nil
}

func (p *Parser) parseTerm() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == token.STAR || p.cur.Kind == token.SLASH {
		opTok := p.cur
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		op, _ := ast.BinOpFromToken(opTok.Kind)
		left = &ast.BinaryOp{Op: op, Left: left, Right: right, Position: pos(opTok)}
	}
	return left, nil
}

// parseUnary is where the lexer's context-free MINUS token becomes a
// negative-number literal or a negation: spec.md §9 note 1 requires this
// disambiguation live in the parser, at statement-start/'('/'='/','/operator
// positions, which is exactly where parseUnary is ever invoked from.
func (p *Parser) parseUnary() (ast.Node, error) {
	if p.cur.Kind == token.MINUS {
		minusTok := p.cur
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if num, ok := operand.(*ast.Number); ok {
			return &ast.Number{Value: -num.Value, Position: pos(minusTok)}, nil
		}
		// Negating a non-literal (e.g. `-x`) has no dedicated AST node in
		// spec.md §3; model it as `0 - x` so lowering/codegen need no new
		// case.
		zero := &ast.Number{Value: 0, Position: pos(minusTok)}
		return &ast.BinaryOp{Op: ast.OpSub, Left: zero, Right: operand, Position: pos(minusTok)}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.cur

	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		var value int64
		fmt.Sscanf(tok.Lexeme, "%d", &value)
		return &ast.Number{Value: value, Position: pos(tok)}, nil

	case token.STRING:
		p.advance()
		return &ast.String{Value: tok.Lexeme, Position: pos(tok)}, nil

	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case token.SHOW, token.ASK:
		p.advance()
		return p.finishCall(tok)

	case token.IDENT:
		p.advance()
		if p.cur.Kind == token.LPAREN {
			return p.finishCall(tok)
		}
		return &ast.Identifier{Name: tok.Lexeme, Position: pos(tok)}, nil

	default:
		return nil, p.errorf("Expected a number, string, identifier or '(' but got %s", tok.Kind)
	}
}
