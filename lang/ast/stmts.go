package ast

import "github.com/ember-lang/ember/lang/token"

// ExprStmt is an expression used as a statement. Whether the compiler
// follows it with a Pop depends entirely on whether it is the terminal
// statement of its enclosing block, which is a property of the block, not
// of the statement itself.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }
func (*ExprStmt) stmtNode()             {}

// MutDecl is `mut name = init;`, unresolved. Init is resolved before name is
// declared, so init cannot see name (no self-reference in the initializer).
type MutDecl struct {
	MutPos token.Position
	Name   string
	Init   Expr
}

func (d *MutDecl) Pos() token.Position { return d.MutPos }
func (*MutDecl) stmtNode()             {}

// ResolvedMutDecl is a MutDecl once the resolver has assigned name its
// local slot.
type ResolvedMutDecl struct {
	MutPos token.Position
	Slot   uint16
	Init   Expr
}

func (d *ResolvedMutDecl) Pos() token.Position { return d.MutPos }
func (*ResolvedMutDecl) stmtNode()             {}

// FnDecl is `fn name(params): body;`, unresolved.
type FnDecl struct {
	FnPos  token.Position
	Name   string
	Params []string
	Body   Expr
}

func (d *FnDecl) Pos() token.Position { return d.FnPos }
func (*FnDecl) stmtNode()             {}

// UpValueIndex is a compile-time descriptor for one slot of a closure's
// upvalue array: capture local Slot of the directly enclosing function when
// IsLocal, else forward the enclosing function's own upvalue Slot.
type UpValueIndex struct {
	Slot    uint16
	IsLocal bool
}

// ResolvedFnDecl is a FnDecl once the resolver has run over its body: Slot
// is the local slot the closure occupies in the enclosing function, Upvalues
// is the dedicated descriptor table the compiler hands the VM's
// DeclareClosure, and Captured lists this function's own local slots that
// some inner closure captures (consulted by the VM on Return to know which
// upvalues to close).
type ResolvedFnDecl struct {
	FnPos    token.Position
	Name     string
	Slot     uint16
	Upvalues []UpValueIndex
	Captured []uint16
	Params   []string
	Body     Expr
}

func (d *ResolvedFnDecl) Pos() token.Position { return d.FnPos }
func (*ResolvedFnDecl) stmtNode()             {}
