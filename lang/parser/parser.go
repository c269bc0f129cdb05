// Package parser implements a recursive-descent, precedence-climbing parser
// that turns a token stream into an unresolved *ast.Program, in the idiom of
// mna/nenuphar/lang/parser: a parser struct holding the current token plus
// an accumulated token.ErrorList, advanced one token at a time, with one
// method per grammar production.
package parser

import (
	"fmt"
	"os"

	"github.com/ember-lang/ember/lang/ast"
	"github.com/ember-lang/ember/lang/scanner"
	"github.com/ember-lang/ember/lang/token"
)

// ParseFile reads and parses filename. The returned error, if non-nil, is a
// token.ErrorList.
func ParseFile(filename string) (*ast.Program, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		var el token.ErrorList
		el.Add(token.Position{}, err.Error())
		return nil, el.Err()
	}
	return ParseSource(filename, src)
}

// ParseSource parses src in full, attributing errors to filename.
func ParseSource(filename string, src []byte) (*ast.Program, error) {
	var p parser
	p.init(filename, src)
	prog := p.parseProgram()
	p.errors.Sort()
	return prog, p.errors.Err()
}

type parser struct {
	scanner scanner.Scanner
	errors  token.ErrorList

	tok token.Token // current token
}

func (p *parser) init(filename string, src []byte) {
	p.scanner.Init(filename, src, p.errors.Add)
	p.advance()
}

func (p *parser) advance() {
	p.tok = p.scanner.Scan()
}

func (p *parser) at(k token.Kind) bool { return p.tok.Kind == k }

func (p *parser) match(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		p.errorf(p.tok.Pos, "expected %s, found %s", k, p.tok.Kind)
		return p.tok
	}
	tok := p.tok
	p.advance()
	return tok
}

func (p *parser) errorf(pos token.Position, format string, args ...any) {
	p.errors.Add(pos, fmt.Sprintf(format, args...))
}

// parseProgram parses an entire file as an implicit top-level block: a
// sequence of statements with optional semicolons between them, the same
// shape as the body of a Block but without surrounding braces.
func (p *parser) parseProgram() *ast.Program {
	return &ast.Program{Stmts: p.parseStmtList(token.EOF)}
}

// parseStmtList parses statements until the current token is end or EOF,
// consuming an optional SEMI after each one.
func (p *parser) parseStmtList(end token.Kind) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.at(end) && !p.at(token.EOF) {
		stmt := p.parseStmt()
		if stmt == nil {
			// parseStmt already reported an error; avoid looping forever on
			// unexpected tokens.
			p.advance()
			continue
		}
		stmts = append(stmts, stmt)
		p.match(token.SEMI)
	}
	return stmts
}

func (p *parser) parseStmt() ast.Stmt {
	switch p.tok.Kind {
	case token.MUT:
		return p.parseMutDecl()
	case token.FN:
		return p.parseFnDecl()
	default:
		e := p.parseExpr()
		if e == nil {
			return nil
		}
		return &ast.ExprStmt{X: e}
	}
}

func (p *parser) parseMutDecl() ast.Stmt {
	mutPos := p.tok.Pos
	p.advance() // 'mut'
	name := p.expect(token.IDENT)
	p.expect(token.EQ)
	init := p.parseExpr()
	return &ast.MutDecl{MutPos: mutPos, Name: name.Lexeme, Init: init}
}

func (p *parser) parseFnDecl() ast.Stmt {
	fnPos := p.tok.Pos
	p.advance() // 'fn'
	name := p.expect(token.IDENT)
	p.expect(token.LPAREN)
	var params []string
	if !p.at(token.RPAREN) {
		params = append(params, p.expect(token.IDENT).Lexeme)
		for p.match(token.COMMA) {
			params = append(params, p.expect(token.IDENT).Lexeme)
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.COLON)
	body := p.parseExpr()
	return &ast.FnDecl{FnPos: fnPos, Name: name.Lexeme, Params: params, Body: body}
}

// parseExpr parses a full expression, starting at assignment precedence.
func (p *parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

// parseAssignment handles `target = value`, right-associative. The parser
// does not check that target is an identifier; per the language design that
// check (and the resulting "Invalid assignment target" diagnostic) belongs
// to the resolver so its error position matches the target token exactly.
func (p *parser) parseAssignment() ast.Expr {
	lhs := p.parseLogicOr()
	if p.at(token.EQ) {
		opPos := p.tok.Pos
		p.advance()
		rhs := p.parseAssignment()
		return &ast.Binary{Lhs: lhs, Op: token.EQ, OpPos: opPos, Rhs: rhs}
	}
	return lhs
}

func (p *parser) parseLogicOr() ast.Expr {
	e := p.parseLogicAnd()
	for p.at(token.PIPEPIPE) {
		opPos := p.tok.Pos
		p.advance()
		rhs := p.parseLogicAnd()
		e = &ast.Binary{Lhs: e, Op: token.PIPEPIPE, OpPos: opPos, Rhs: rhs}
	}
	return e
}

func (p *parser) parseLogicAnd() ast.Expr {
	e := p.parseEquality()
	for p.at(token.AMPAMP) {
		opPos := p.tok.Pos
		p.advance()
		rhs := p.parseEquality()
		e = &ast.Binary{Lhs: e, Op: token.AMPAMP, OpPos: opPos, Rhs: rhs}
	}
	return e
}

func (p *parser) parseEquality() ast.Expr {
	e := p.parseComparison()
	for p.at(token.EQEQ) || p.at(token.BANGEQ) {
		op := p.tok
		p.advance()
		rhs := p.parseComparison()
		e = &ast.Binary{Lhs: e, Op: op.Kind, OpPos: op.Pos, Rhs: rhs}
	}
	return e
}

func (p *parser) parseComparison() ast.Expr {
	e := p.parseTerm()
	for p.at(token.LT) || p.at(token.GT) || p.at(token.LE) || p.at(token.GE) {
		op := p.tok
		p.advance()
		rhs := p.parseTerm()
		e = &ast.Binary{Lhs: e, Op: op.Kind, OpPos: op.Pos, Rhs: rhs}
	}
	return e
}

func (p *parser) parseTerm() ast.Expr {
	e := p.parseFactor()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := p.tok
		p.advance()
		rhs := p.parseFactor()
		e = &ast.Binary{Lhs: e, Op: op.Kind, OpPos: op.Pos, Rhs: rhs}
	}
	return e
}

func (p *parser) parseFactor() ast.Expr {
	e := p.parseUnary()
	for p.at(token.STAR) || p.at(token.SLASH) {
		op := p.tok
		p.advance()
		rhs := p.parseUnary()
		e = &ast.Binary{Lhs: e, Op: op.Kind, OpPos: op.Pos, Rhs: rhs}
	}
	return e
}

// parseUnary handles the tight-binding prefix operators -, + and !, plus
// `trace`, which is also a prefix unary operator in the grammar but binds
// looser: its operand is a full expression (assignment precedence), so
// `trace 1 + 2;` traces 3, not 1 (with `+2` then discarded).
func (p *parser) parseUnary() ast.Expr {
	switch p.tok.Kind {
	case token.TRACE:
		opPos := p.tok.Pos
		p.advance()
		operand := p.parseAssignment()
		return &ast.Unary{OpPos: opPos, Op: token.TRACE, Operand: operand}
	case token.MINUS, token.PLUS, token.BANG:
		op := p.tok
		p.advance()
		operand := p.parseUnary()
		return &ast.Unary{OpPos: op.Pos, Op: op.Kind, Operand: operand}
	default:
		return p.parseCall()
	}
}

func (p *parser) parseCall() ast.Expr {
	e := p.parsePrimary()
	for p.at(token.LPAREN) {
		e = p.finishCall(e)
	}
	return e
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	p.advance() // '('
	var args []ast.Expr
	if !p.at(token.RPAREN) {
		args = append(args, p.parseExpr())
		for p.match(token.COMMA) {
			args = append(args, p.parseExpr())
		}
	}
	p.expect(token.RPAREN)
	return &ast.FnCall{Callee: callee, Args: args, ArgCount: len(args)}
}

func (p *parser) parsePrimary() ast.Expr {
	tok := p.tok
	switch tok.Kind {
	case token.NUMBER, token.STRING:
		p.advance()
		return &ast.Constant{Token: tok}
	case token.IDENT:
		p.advance()
		return &ast.Access{NamePos: tok.Pos, Name: tok.Lexeme}
	case token.TRUE:
		p.advance()
		return &ast.TrueLiteral{TokPos: tok.Pos}
	case token.FALSE:
		p.advance()
		return &ast.FalseLiteral{TokPos: tok.Pos}
	case token.NULL:
		p.advance()
		return &ast.NullLiteral{TokPos: tok.Pos}
	case token.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIfElse()
	default:
		p.errorf(tok.Pos, "unexpected token %s", tok.Kind)
		p.advance()
		return &ast.NullLiteral{TokPos: tok.Pos}
	}
}

func (p *parser) parseBlock() *ast.Block {
	bracePos := p.tok.Pos
	p.advance() // '{'
	stmts := p.parseStmtList(token.RBRACE)
	p.expect(token.RBRACE)
	return &ast.Block{BracePos: bracePos, Stmts: stmts}
}

func (p *parser) parseIfElse() *ast.IfElse {
	ifPos := p.tok.Pos
	p.advance() // 'if'
	cond := p.parseExpr()
	p.expect(token.ARROW)
	then := p.parseExpr()
	var elseExpr ast.Expr
	if p.match(token.ELSE) {
		elseExpr = p.parseExpr()
	}
	return &ast.IfElse{IfPos: ifPos, Cond: cond, Then: then, Else: elseExpr}
}
