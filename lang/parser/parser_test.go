package parser_test

import (
	"testing"

	"github.com/ember-lang/ember/lang/ast"
	"github.com/ember-lang/ember/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMutDecl(t *testing.T) {
	prog, err := parser.ParseSource("t.ember", []byte(`mut x = 1 + 2;`))
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)
	decl, ok := prog.Stmts[0].(*ast.MutDecl)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	_, ok = decl.Init.(*ast.Binary)
	assert.True(t, ok)
}

func TestParseFnDecl(t *testing.T) {
	prog, err := parser.ParseSource("t.ember", []byte(`fn add(a, b): a + b;`))
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)
	decl, ok := prog.Stmts[0].(*ast.FnDecl)
	require.True(t, ok)
	assert.Equal(t, "add", decl.Name)
	assert.Equal(t, []string{"a", "b"}, decl.Params)
}

func TestParseIfElse(t *testing.T) {
	prog, err := parser.ParseSource("t.ember", []byte(`mut x = if true -> 1 else 2;`))
	require.NoError(t, err)
	decl := prog.Stmts[0].(*ast.MutDecl)
	ifElse, ok := decl.Init.(*ast.IfElse)
	require.True(t, ok)
	assert.NotNil(t, ifElse.Else)
}

func TestParseIfWithoutElse(t *testing.T) {
	prog, err := parser.ParseSource("t.ember", []byte(`mut x = if true -> 1;`))
	require.NoError(t, err)
	decl := prog.Stmts[0].(*ast.MutDecl)
	ifElse := decl.Init.(*ast.IfElse)
	assert.Nil(t, ifElse.Else)
}

func TestParseTraceBindsLoosely(t *testing.T) {
	prog, err := parser.ParseSource("t.ember", []byte(`trace 1 + 2;`))
	require.NoError(t, err)
	stmt := prog.Stmts[0].(*ast.ExprStmt)
	un, ok := stmt.X.(*ast.Unary)
	require.True(t, ok)
	// trace must capture the whole binary expression, not just its left
	// operand, so the operand here is itself a Binary.
	_, ok = un.Operand.(*ast.Binary)
	assert.True(t, ok)
}

func TestParseAssignmentIsBinaryEq(t *testing.T) {
	prog, err := parser.ParseSource("t.ember", []byte(`x = 1;`))
	require.NoError(t, err)
	stmt := prog.Stmts[0].(*ast.ExprStmt)
	bin, ok := stmt.X.(*ast.Binary)
	require.True(t, ok)
	_, ok = bin.Lhs.(*ast.Access)
	assert.True(t, ok)
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse so the top-level operator is '+'.
	prog, err := parser.ParseSource("t.ember", []byte(`trace 1 + 2 * 3;`))
	require.NoError(t, err)
	stmt := prog.Stmts[0].(*ast.ExprStmt)
	un := stmt.X.(*ast.Unary)
	top := un.Operand.(*ast.Binary)
	_, ok := top.Rhs.(*ast.Binary)
	assert.True(t, ok, "right operand of + should be the 2*3 binary")
}

func TestParseBlockExpression(t *testing.T) {
	prog, err := parser.ParseSource("t.ember", []byte(`mut x = { mut a = 1; a };`))
	require.NoError(t, err)
	decl := prog.Stmts[0].(*ast.MutDecl)
	block, ok := decl.Init.(*ast.Block)
	require.True(t, ok)
	assert.Len(t, block.Stmts, 2)
}
