package compiler

import (
	"fmt"
	"strconv"

	"github.com/ember-lang/ember/lang/ast"
	"github.com/ember-lang/ember/lang/token"
)

// CompileError is returned for compile-time failures: jump offsets that
// overflow 16 bits, or malformed numeric/string literals that survived
// parsing (should not happen with a conforming scanner, but the compiler
// does not trust its input blindly).
type CompileError struct {
	Pos token.Position
	Msg string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Compile lowers a resolved top-level program into a synthetic Function
// wrapping its Chunk, the same shape as any other compiled function body so
// the VM can run it as an ordinary frame: when its final Return executes
// with an empty call stack, the VM halts instead of resuming a caller.
// prog must already have been successfully resolved; compiling an
// unresolved or partially-resolved program produces undefined behavior
// (most likely a panic on an unexpected AST node type).
func Compile(prog *ast.Program) (*Function, error) {
	c := &compiler{chunk: &Chunk{}}
	c.compileStmts(prog.Stmts)
	if c.err != nil {
		return nil, c.err
	}
	c.finish()
	return &Function{Chunk: c.chunk, Name: "<script>", Captured: prog.Captured}, nil
}

// compiler holds the per-chunk emission state for a single function body
// (or the top-level program). Nested function bodies get their own
// compiler instance, chained via nothing but the parent's addFunctionConstant
// call once the child has finished.
type compiler struct {
	chunk    *Chunk
	varCount int
	err      error
}

func (c *compiler) fail(pos token.Position, format string, args ...any) {
	if c.err == nil {
		c.err = &CompileError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
	}
}

func (c *compiler) emit(pos token.Position, op Opcode) int {
	c.chunk.Instructions = append(c.chunk.Instructions, Instruction{Op: op, Line: pos.Line})
	c.chunk.addLine(pos.Line)
	return len(c.chunk.Instructions) - 1
}

func (c *compiler) emitA(pos token.Position, op Opcode, a uint16) int {
	c.chunk.Instructions = append(c.chunk.Instructions, Instruction{Op: op, A: a, Line: pos.Line})
	c.chunk.addLine(pos.Line)
	return len(c.chunk.Instructions) - 1
}

// emitJumpPlaceholder emits a jump instruction with a zero offset and
// returns its index, to be filled in later by patchJump.
func (c *compiler) emitJumpPlaceholder(pos token.Position, op Opcode) int {
	return c.emitA(pos, op, 0)
}

// patchJump sets the jump at idx to land on the instruction that will be
// emitted next. The VM increments its instruction pointer past the jump
// itself before applying the offset (lang/machine/machine.go's dispatch
// loop fetches at cur.ip, then increments, then executes), so the offset is
// relative to idx+1, not idx.
func (c *compiler) patchJump(pos token.Position, idx int) {
	target := len(c.chunk.Instructions)
	offset := target - idx - 1
	if offset < 0 || offset > 0xFFFF {
		c.fail(pos, "jump too large")
		return
	}
	c.chunk.Instructions[idx].A = uint16(offset)
}

// finish prepends the top-of-chunk Reserve (unless there were no locals at
// all) and appends the trailing Return every chunk ends with.
func (c *compiler) finish() {
	if c.varCount > 0 {
		reserve := Instruction{Op: Reserve, A: uint16(c.varCount), Line: c.firstLine()}
		c.chunk.Instructions = append([]Instruction{reserve}, c.chunk.Instructions...)
		c.chunk.lineRuns = append([]lineRun{{line: c.firstLine(), count: 1}}, c.chunk.lineRuns...)
	}
	line := c.firstLine()
	c.emit(token.Position{Line: line}, Return)
}

func (c *compiler) firstLine() int {
	if len(c.chunk.lineRuns) == 0 {
		return 0
	}
	return c.chunk.lineRuns[0].line
}

// compileStmts compiles a statement list where every ExprStmt except the
// last is followed by a Pop (its value is discarded); the last statement,
// if it is an ExprStmt, leaves its value as the block's value. Declarations
// (ResolvedMutDecl/ResolvedFnDecl) never leave a value of their own on the
// stack; when one is the terminal statement, its newly-declared local is
// read back so the block is still expression-valued. An empty list pushes
// null.
func (c *compiler) compileStmts(stmts []ast.Stmt) {
	if len(stmts) == 0 {
		c.emit(token.Position{}, PushNull)
		return
	}
	for i, s := range stmts {
		terminal := i == len(stmts)-1
		c.compileStmt(s, terminal)
	}
}

func (c *compiler) compileStmt(s ast.Stmt, terminal bool) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		c.compileExpr(s.X)
		if !terminal {
			c.emit(s.Pos(), Pop)
		}

	case *ast.ResolvedMutDecl:
		c.varCount++
		c.compileExpr(s.Init)
		c.emitA(s.Pos(), Declare, s.Slot)
		if terminal {
			c.emitA(s.Pos(), GetLocal, s.Slot)
		}

	case *ast.ResolvedFnDecl:
		c.varCount++
		c.compileFnDecl(s)
		if terminal {
			c.emitA(s.Pos(), GetLocal, s.Slot)
		}

	default:
		c.fail(s.Pos(), "unsupported statement in compiled context: %T", s)
	}
}

func (c *compiler) compileFnDecl(d *ast.ResolvedFnDecl) {
	child := &compiler{chunk: &Chunk{}}
	child.compileExpr(d.Body)
	if child.err != nil && c.err == nil {
		c.err = child.err
	}
	child.finish()

	fn := &Function{Chunk: child.chunk, Name: d.Name, Params: len(d.Params), Captured: d.Captured}
	constIdx := c.chunk.addFunctionConstant(fn)

	c.chunk.Instructions = append(c.chunk.Instructions, Instruction{
		Op:       DeclareClosure,
		A:        d.Slot,
		B:        constIdx,
		Upvalues: d.Upvalues,
		Line:     d.Pos().Line,
	})
	c.chunk.addLine(d.Pos().Line)
}

func (c *compiler) compileExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Constant:
		c.compileConstant(e)

	case *ast.TrueLiteral:
		c.emit(e.Pos(), PushTrue)
	case *ast.FalseLiteral:
		c.emit(e.Pos(), PushFalse)
	case *ast.NullLiteral:
		c.emit(e.Pos(), PushNull)

	case *ast.Unary:
		c.compileUnary(e)

	case *ast.Binary:
		c.compileBinary(e)

	case *ast.IfElse:
		c.compileIfElse(e)

	case *ast.ResolvedBlock:
		c.compileStmts(e.Stmts)

	case *ast.FnCall:
		c.compileExpr(e.Callee)
		for _, a := range e.Args {
			c.compileExpr(a)
		}
		c.emitA(e.Pos(), FnCall, uint16(e.ArgCount))

	case *ast.ResolvedAccess:
		switch e.Kind.Tag {
		case ast.LocalKind:
			c.emitA(e.Pos(), GetLocal, e.Kind.Slot)
		case ast.UpValueKind:
			c.emitA(e.Pos(), GetUpValue, e.Kind.Slot)
		}

	case *ast.ResolvedAssign:
		c.compileExpr(e.Value)
		switch e.Kind.Tag {
		case ast.LocalKind:
			c.emitA(e.Pos(), SetLocal, e.Kind.Slot)
		case ast.UpValueKind:
			c.emitA(e.Pos(), SetUpValue, e.Kind.Slot)
		}

	default:
		c.fail(e.Pos(), "unsupported expression in compiled context: %T", e)
	}
}

func (c *compiler) compileConstant(e *ast.Constant) {
	tok := e.Token
	switch tok.Kind {
	case token.NUMBER:
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			c.fail(tok.Pos, "invalid number literal %q", tok.Lexeme)
			return
		}
		c.emitA(tok.Pos, PushConstant, c.chunk.addNumberConstant(f))
	case token.STRING:
		c.emitA(tok.Pos, PushConstant, c.chunk.addStringConstant(tok.Lexeme))
	default:
		c.fail(tok.Pos, "unsupported constant token %s", tok.Kind)
	}
}

func (c *compiler) compileUnary(u *ast.Unary) {
	switch u.Op {
	case token.MINUS:
		c.compileExpr(u.Operand)
		c.emit(u.Pos(), Negate)
	case token.PLUS:
		c.compileExpr(u.Operand)
		c.emit(u.Pos(), ToNumber)
	case token.BANG:
		c.compileExpr(u.Operand)
		c.emit(u.Pos(), Not)
	case token.TRACE:
		c.compileExpr(u.Operand)
		c.emit(u.Pos(), Trace)
	default:
		c.fail(u.Pos(), "unsupported unary operator %s", u.Op)
	}
}

var binaryOpcodes = map[token.Kind]Opcode{
	token.PLUS:   Add,
	token.MINUS:  Subtract,
	token.STAR:   Multiply,
	token.SLASH:  Divide,
	token.EQEQ:   Equal,
	token.BANGEQ: NotEqual,
	token.GT:     Greater,
	token.LT:     Less,
	token.GE:     GreaterEqual,
	token.LE:     LessEqual,
}

func (c *compiler) compileBinary(b *ast.Binary) {
	switch b.Op {
	case token.AMPAMP:
		c.compileExpr(b.Lhs)
		jmp := c.emitJumpPlaceholder(b.Pos(), JumpIfFalsy)
		c.emit(b.Pos(), Pop)
		c.compileExpr(b.Rhs)
		c.patchJump(b.Pos(), jmp)
		return

	case token.PIPEPIPE:
		c.compileExpr(b.Lhs)
		jmp := c.emitJumpPlaceholder(b.Pos(), JumpIfTruthy)
		c.emit(b.Pos(), Pop)
		c.compileExpr(b.Rhs)
		c.patchJump(b.Pos(), jmp)
		return
	}

	op, ok := binaryOpcodes[b.Op]
	if !ok {
		c.fail(b.Pos(), "unsupported binary operator %s", b.Op)
		return
	}
	c.compileExpr(b.Lhs)
	c.compileExpr(b.Rhs)
	c.emit(b.Pos(), op)
}

func (c *compiler) compileIfElse(i *ast.IfElse) {
	c.compileExpr(i.Cond)
	jmpElse := c.emitJumpPlaceholder(i.Pos(), PopAndJumpIfFalsy)
	c.compileExpr(i.Then)
	jmpEnd := c.emitJumpPlaceholder(i.Pos(), Jump)
	c.patchJump(i.Pos(), jmpElse)
	if i.Else != nil {
		c.compileExpr(i.Else)
	} else {
		c.emit(i.Pos(), PushNull)
	}
	c.patchJump(i.Pos(), jmpEnd)
}
