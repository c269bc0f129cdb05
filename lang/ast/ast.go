// Package ast defines the abstract syntax tree produced by the parser and
// enriched in place by the resolver. The unresolved shape (Access,
// Binary-as-assignment) and the resolved shape (ResolvedAccess,
// ResolvedAssign, ResolvedBlock, ResolvedMutDecl, ResolvedFnDecl) coexist in
// the same node set: resolving a node replaces it in its parent's slice
// rather than mutating it in place, so a half-resolved tree is never
// observable.
package ast

import "github.com/ember-lang/ember/lang/token"

// Node is implemented by every AST node, resolved or not.
type Node interface {
	Pos() token.Position
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root of a parsed source file: an ordered list of top-level
// statements, compiled as if they were the body of an implicit top-level
// function.
type Program struct {
	Stmts []Stmt

	// Captured lists the top-level local slots that some top-level function
	// declaration captures as an upvalue. The resolver fills this in exactly
	// as it would for a ResolvedFnDecl, since the top-level program is
	// resolved and, ultimately, run as a frame like any other: when its
	// synthetic Return executes, the VM needs to know which of its own
	// locals to close.
	Captured []uint16
}

func (p *Program) Pos() token.Position {
	if len(p.Stmts) == 0 {
		return token.Position{Line: 1, FromCol: 1, ToCol: 1}
	}
	return p.Stmts[0].Pos()
}
