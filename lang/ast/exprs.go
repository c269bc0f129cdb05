package ast

import "github.com/ember-lang/ember/lang/token"

// Constant wraps a single number, string, or identifier-as-literal token;
// the compiler parses its lexeme into a runtime Value when interning it into
// a chunk's constant pool.
type Constant struct {
	Token token.Token
}

func (c *Constant) Pos() token.Position { return c.Token.Pos }
func (*Constant) exprNode()             {}

// TrueLiteral, FalseLiteral and NullLiteral are the three literals that need
// no payload beyond their position.
type TrueLiteral struct{ TokPos token.Position }
type FalseLiteral struct{ TokPos token.Position }
type NullLiteral struct{ TokPos token.Position }

func (l *TrueLiteral) Pos() token.Position  { return l.TokPos }
func (l *FalseLiteral) Pos() token.Position { return l.TokPos }
func (l *NullLiteral) Pos() token.Position  { return l.TokPos }
func (*TrueLiteral) exprNode()              {}
func (*FalseLiteral) exprNode()             {}
func (*NullLiteral) exprNode()              {}

// Unary is `-e`, `+e`, `!e` or `trace e`; Op carries which one.
type Unary struct {
	OpPos   token.Position
	Op      token.Kind
	Operand Expr
}

func (u *Unary) Pos() token.Position { return u.OpPos }
func (*Unary) exprNode()             {}

// Binary covers arithmetic, comparison, logical and assignment operators.
// Assignment is represented as Binary(target, EQ, value) in unresolved form;
// the resolver is the only stage that validates target is an Access.
type Binary struct {
	Lhs   Expr
	Op    token.Kind
	OpPos token.Position
	Rhs   Expr
}

func (b *Binary) Pos() token.Position { return b.Lhs.Pos() }
func (*Binary) exprNode()             {}

// IfElse is always an expression; Else is nil when the source omitted it, in
// which case the compiler emits PushNull for the missing branch.
type IfElse struct {
	IfPos token.Position
	Cond  Expr
	Then  Expr
	Else  Expr
}

func (i *IfElse) Pos() token.Position { return i.IfPos }
func (*IfElse) exprNode()             {}

// Block is the unresolved form of a `{ ... }` sequence; the resolver
// rewrites it in place to a ResolvedBlock once every statement inside has
// been resolved.
type Block struct {
	BracePos token.Position
	Stmts    []Stmt
}

func (b *Block) Pos() token.Position { return b.BracePos }
func (*Block) exprNode()             {}

// ResolvedBlock is a Block whose statements have all been resolved. It
// remains a distinct expression node only so the compiler never has to
// handle an unresolved Block.
type ResolvedBlock struct {
	BracePos token.Position
	Stmts    []Stmt
}

func (b *ResolvedBlock) Pos() token.Position { return b.BracePos }
func (*ResolvedBlock) exprNode()             {}

// FnCall is `callee(args...)`.
type FnCall struct {
	Callee   Expr
	Args     []Expr
	ArgCount int
}

func (f *FnCall) Pos() token.Position { return f.Callee.Pos() }
func (*FnCall) exprNode()             {}

// Access is an unresolved identifier reference; the resolver replaces it
// with a ResolvedAccess carrying a Local or UpValue slot.
type Access struct {
	NamePos token.Position
	Name    string
}

func (a *Access) Pos() token.Position { return a.NamePos }
func (*Access) exprNode()             {}

// ResolveKindTag distinguishes the two places a resolved identifier can
// live.
type ResolveKindTag uint8

const (
	// LocalKind means Slot indexes the owning frame's locals, relative to
	// its stack base.
	LocalKind ResolveKindTag = iota
	// UpValueKind means Slot indexes the owning closure's upvalue array.
	UpValueKind
)

// ResolveKind is the resolver's verdict for a single name: either a local
// slot in the current function's frame, or an upvalue slot in its closure.
type ResolveKind struct {
	Tag  ResolveKindTag
	Slot uint16
}

// ResolvedAccess is an Access once the resolver has classified its name.
type ResolvedAccess struct {
	NamePos token.Position
	Name    string
	Kind    ResolveKind
}

func (a *ResolvedAccess) Pos() token.Position { return a.NamePos }
func (*ResolvedAccess) exprNode()             {}

// ResolvedAssign is a Binary(target, '=', value) once the resolver has
// confirmed target is an identifier and classified it.
type ResolvedAssign struct {
	NamePos token.Position
	Name    string
	Kind    ResolveKind
	Value   Expr
}

func (a *ResolvedAssign) Pos() token.Position { return a.NamePos }
func (*ResolvedAssign) exprNode()             {}
