package compiler_test

import (
	"testing"

	"github.com/ember-lang/ember/lang/compiler"
	"github.com/ember-lang/ember/lang/parser"
	"github.com/ember-lang/ember/lang/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileSrc(t *testing.T, src string) *compiler.Function {
	t.Helper()
	prog, err := parser.ParseSource("t.ember", []byte(src))
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(prog))
	fn, err := compiler.Compile(prog)
	require.NoError(t, err)
	return fn
}

func TestCompileEndsWithExactlyOneReturn(t *testing.T) {
	fn := compileSrc(t, `mut x = 1; trace x;`)
	returns := 0
	for i, instr := range fn.Chunk.Instructions {
		if instr.Op == compiler.Return {
			returns++
			assert.Equal(t, len(fn.Chunk.Instructions)-1, i, "Return must be the last instruction")
		}
	}
	assert.Equal(t, 1, returns)
}

func TestCompileReservePrependedForLocals(t *testing.T) {
	fn := compileSrc(t, `mut x = 1; mut y = 2; trace x + y;`)
	require.NotEmpty(t, fn.Chunk.Instructions)
	assert.Equal(t, compiler.Reserve, fn.Chunk.Instructions[0].Op)
	assert.Equal(t, uint16(2), fn.Chunk.Instructions[0].A)
}

func TestCompileNoLocalsNoReserve(t *testing.T) {
	fn := compileSrc(t, `trace 1 + 1;`)
	for _, instr := range fn.Chunk.Instructions {
		assert.NotEqual(t, compiler.Reserve, instr.Op)
	}
}

func TestCompileConstantPoolDedup(t *testing.T) {
	fn := compileSrc(t, `trace 1 + 1;`)
	assert.Len(t, fn.Chunk.Constants, 1, "the literal 1 should be interned once")
}

func TestCompileShortCircuitEmitsJumps(t *testing.T) {
	fn := compileSrc(t, `trace true && false;`)
	var sawJump bool
	for _, instr := range fn.Chunk.Instructions {
		if instr.Op == compiler.JumpIfFalsy {
			sawJump = true
		}
	}
	assert.True(t, sawJump)
}

func TestCompileIfElseEmitsPopAndJumpIfFalsy(t *testing.T) {
	fn := compileSrc(t, `mut x = if true -> 1 else 2; trace x;`)
	var sawCond, sawJump bool
	for _, instr := range fn.Chunk.Instructions {
		if instr.Op == compiler.PopAndJumpIfFalsy {
			sawCond = true
		}
		if instr.Op == compiler.Jump {
			sawJump = true
		}
	}
	assert.True(t, sawCond)
	assert.True(t, sawJump)
}

func TestCompileNestedFunctionBecomesConstant(t *testing.T) {
	fn := compileSrc(t, `fn f(): 1;`)
	var sawClosure bool
	for _, c := range fn.Chunk.Constants {
		if _, ok := c.(*compiler.Function); ok {
			sawClosure = true
		}
	}
	assert.True(t, sawClosure)
}

func TestCompileJumpOffsetsAreRelative(t *testing.T) {
	// With locals present, finish() prepends a Reserve; jump offsets computed
	// before that prepend must still land on the correct instruction after
	// the shift.
	fn := compileSrc(t, `mut x = 1; mut y = if x > 0 -> 1 else 2; trace y;`)
	for i, instr := range fn.Chunk.Instructions {
		switch instr.Op {
		case compiler.Jump, compiler.JumpIfFalsy, compiler.JumpIfTruthy, compiler.PopAndJumpIfFalsy:
			// The VM applies the offset after advancing its instruction
			// pointer past the jump itself, so the landing instruction is
			// i+1+offset, not i+offset.
			target := i + 1 + int(instr.A)
			assert.GreaterOrEqual(t, target, 0)
			assert.LessOrEqual(t, target, len(fn.Chunk.Instructions))
		}
	}
}
