package resolver_test

import (
	"testing"

	"github.com/ember-lang/ember/lang/ast"
	"github.com/ember-lang/ember/lang/parser"
	"github.com/ember-lang/ember/lang/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveSrc(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.ParseSource("t.ember", []byte(src))
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(prog))
	return prog
}

func TestResolveLocalSlot(t *testing.T) {
	prog := resolveSrc(t, `mut x = 1; x;`)
	decl := prog.Stmts[0].(*ast.ResolvedMutDecl)
	assert.Equal(t, uint16(0), decl.Slot)

	stmt := prog.Stmts[1].(*ast.ExprStmt)
	access := stmt.X.(*ast.ResolvedAccess)
	assert.Equal(t, ast.LocalKind, access.Kind.Tag)
	assert.Equal(t, uint16(0), access.Kind.Slot)
}

func TestResolveUndefinedVariable(t *testing.T) {
	prog, err := parser.ParseSource("t.ember", []byte(`trace y;`))
	require.NoError(t, err)
	err = resolver.Resolve(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Usage of an undefined variable")
}

func TestResolveRedeclarationInSameScope(t *testing.T) {
	prog, err := parser.ParseSource("t.ember", []byte(`mut x = 1; mut x = 2;`))
	require.NoError(t, err)
	err = resolver.Resolve(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tried to redeclare")
}

func TestResolveShadowingInNestedBlockIsAllowed(t *testing.T) {
	prog := resolveSrc(t, `mut x = 1; mut y = { mut x = 2; x };`)
	assert.Len(t, prog.Stmts, 2)
}

func TestResolveInvalidAssignmentTarget(t *testing.T) {
	prog, err := parser.ParseSource("t.ember", []byte(`1 = 2;`))
	require.NoError(t, err)
	err = resolver.Resolve(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid assignment target")
}

func TestResolveRecursiveFnSeesItself(t *testing.T) {
	prog := resolveSrc(t, `fn fact(n): if n < 2 -> 1 else n * fact(n - 1);`)
	decl := prog.Stmts[0].(*ast.ResolvedFnDecl)
	assert.Equal(t, "fact", decl.Name)
}

func TestResolveCapturesUpvalue(t *testing.T) {
	prog := resolveSrc(t, `
fn makeCounter(): {
  mut n = 0;
  fn inc(): { n = n + 1; n }
}
`)
	outer := prog.Stmts[0].(*ast.ResolvedFnDecl)
	block := outer.Body.(*ast.ResolvedBlock)
	require.Len(t, block.Stmts, 2)

	mutDecl := block.Stmts[0].(*ast.ResolvedMutDecl)
	inner := block.Stmts[1].(*ast.ResolvedFnDecl)

	require.Len(t, inner.Upvalues, 1)
	assert.True(t, inner.Upvalues[0].IsLocal)
	assert.Equal(t, mutDecl.Slot, inner.Upvalues[0].Slot)

	require.Len(t, outer.Captured, 1)
	assert.Equal(t, mutDecl.Slot, outer.Captured[0])
}

func TestResolveIsIdempotent(t *testing.T) {
	const src = `mut x = 1; fn f(): x;`

	progOnce, err := parser.ParseSource("t.ember", []byte(src))
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(progOnce))

	progTwice, err := parser.ParseSource("t.ember", []byte(src))
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(progTwice))
	require.NoError(t, resolver.Resolve(progTwice))

	assert.Equal(t, progOnce, progTwice)
}
