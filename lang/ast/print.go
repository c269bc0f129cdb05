package ast

import (
	"fmt"
	"io"
	"strings"
)

// Print writes a parenthesized, indented dump of prog to w, one node per
// line, in the style of the tokenize/parse/resolve command family: good
// enough to eyeball a tree's shape, not a pretty-printer that round-trips
// back to source.
func Print(w io.Writer, prog *Program) {
	p := printer{w: w}
	for _, s := range prog.Stmts {
		p.stmt(s, 0)
	}
}

type printer struct{ w io.Writer }

func (p *printer) line(depth int, format string, args ...any) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (p *printer) stmt(s Stmt, depth int) {
	switch s := s.(type) {
	case *ExprStmt:
		p.line(depth, "ExprStmt")
		p.expr(s.X, depth+1)
	case *MutDecl:
		p.line(depth, "MutDecl %s", s.Name)
		p.expr(s.Init, depth+1)
	case *ResolvedMutDecl:
		p.line(depth, "MutDecl slot=%d", s.Slot)
		p.expr(s.Init, depth+1)
	case *FnDecl:
		p.line(depth, "FnDecl %s(%s)", s.Name, strings.Join(s.Params, ", "))
		p.expr(s.Body, depth+1)
	case *ResolvedFnDecl:
		p.line(depth, "FnDecl %s(%s) slot=%d upvalues=%d captured=%v", s.Name, strings.Join(s.Params, ", "), s.Slot, len(s.Upvalues), s.Captured)
		p.expr(s.Body, depth+1)
	default:
		p.line(depth, "<unknown stmt %T>", s)
	}
}

func (p *printer) expr(e Expr, depth int) {
	switch e := e.(type) {
	case *Constant:
		p.line(depth, "Constant %s", e.Token.Lexeme)
	case *TrueLiteral:
		p.line(depth, "True")
	case *FalseLiteral:
		p.line(depth, "False")
	case *NullLiteral:
		p.line(depth, "Null")
	case *Unary:
		p.line(depth, "Unary %s", e.Op)
		p.expr(e.Operand, depth+1)
	case *Binary:
		p.line(depth, "Binary %s", e.Op)
		p.expr(e.Lhs, depth+1)
		p.expr(e.Rhs, depth+1)
	case *IfElse:
		p.line(depth, "IfElse")
		p.expr(e.Cond, depth+1)
		p.expr(e.Then, depth+1)
		if e.Else != nil {
			p.expr(e.Else, depth+1)
		}
	case *Block:
		p.line(depth, "Block")
		for _, s := range e.Stmts {
			p.stmt(s, depth+1)
		}
	case *ResolvedBlock:
		p.line(depth, "Block")
		for _, s := range e.Stmts {
			p.stmt(s, depth+1)
		}
	case *FnCall:
		p.line(depth, "FnCall argc=%d", e.ArgCount)
		p.expr(e.Callee, depth+1)
		for _, a := range e.Args {
			p.expr(a, depth+1)
		}
	case *Access:
		p.line(depth, "Access %s", e.Name)
	case *ResolvedAccess:
		p.line(depth, "Access %s %s", e.Name, e.Kind)
	case *ResolvedAssign:
		p.line(depth, "Assign %s %s", e.Name, e.Kind)
		p.expr(e.Value, depth+1)
	default:
		p.line(depth, "<unknown expr %T>", e)
	}
}

func (k ResolveKind) String() string {
	if k.Tag == UpValueKind {
		return fmt.Sprintf("upvalue[%d]", k.Slot)
	}
	return fmt.Sprintf("local[%d]", k.Slot)
}
