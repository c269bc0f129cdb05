package machine_test

import (
	"bytes"
	"testing"

	"github.com/ember-lang/ember/lang/compiler"
	"github.com/ember-lang/ember/lang/machine"
	"github.com/ember-lang/ember/lang/parser"
	"github.com/ember-lang/ember/lang/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run compiles and executes src, returning everything written via trace and
// any error the run produced.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	prog, err := parser.ParseSource("test.ember", []byte(src))
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(prog))
	fn, err := compiler.Compile(prog)
	require.NoError(t, err)

	var out bytes.Buffer
	thread := machine.NewThread(machine.DefaultConfig(), &out)
	runErr := thread.Run(fn)
	return out.String(), runErr
}

func TestArithmetic(t *testing.T) {
	out, err := run(t, `trace 5 - 5 / 2.5 + 1 * 2;`)
	require.NoError(t, err)
	assert.Equal(t, "[1] 5\n", out)
}

func TestShortCircuit(t *testing.T) {
	out, err := run(t, `trace (false && (1/0)); trace (true || (1/0));`)
	require.NoError(t, err)
	assert.Equal(t, "[1] false\n[1] true\n", out)
}

func TestClosureCaptureMutationVisible(t *testing.T) {
	out, err := run(t, `
fn makeCounter(): {
  mut n = 0;
  fn inc(): { n = n + 1; n }
}
mut c = makeCounter();
trace c(); trace c(); trace c();
`)
	require.NoError(t, err)
	assert.Equal(t, "[7] 1\n[7] 2\n[7] 3\n", out)
}

func TestRecursiveFunction(t *testing.T) {
	out, err := run(t, `fn fib(n): if n < 2 -> n else fib(n-1) + fib(n-2); trace fib(10);`)
	require.NoError(t, err)
	assert.Equal(t, "[1] 55\n", out)
}

func TestBlockAsExpression(t *testing.T) {
	out, err := run(t, `mut x = { mut a = 1; mut b = 2; a + b }; trace x;`)
	require.NoError(t, err)
	assert.Equal(t, "[1] 3\n", out)
}

func TestUndefinedVariableIsResolverError(t *testing.T) {
	prog, err := parser.ParseSource("test.ember", []byte(`trace y;`))
	require.NoError(t, err)
	err = resolver.Resolve(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Usage of an undefined variable")
}

func TestDivisionByZeroIsTypeError(t *testing.T) {
	_, err := run(t, `trace 1 / 0;`)
	require.Error(t, err)
	var te *machine.TypeError
	require.ErrorAs(t, err, &te)
}

func TestCallArityMismatch(t *testing.T) {
	_, err := run(t, `fn f(a, b): a + b; f(1);`)
	require.Error(t, err)
	var te *machine.TypeError
	require.ErrorAs(t, err, &te)
}

func TestStringCoercionOnAdd(t *testing.T) {
	out, err := run(t, `trace "n=" + 1;`)
	require.NoError(t, err)
	assert.Equal(t, "[1] n=1\n", out)
}

func TestIndependentClosuresOverDifferentCalls(t *testing.T) {
	out, err := run(t, `
fn makeCounter(): {
  mut n = 0;
  fn inc(): { n = n + 1; n }
}
mut a = makeCounter();
mut b = makeCounter();
trace a(); trace a(); trace b();
`)
	require.NoError(t, err)
	assert.Equal(t, "[8] 1\n[8] 2\n[8] 1\n", out)
}

func TestComparisonOperatorsOnTypeMismatch(t *testing.T) {
	// Greater/Less are only ever true for two numbers; GreaterEqual/LessEqual
	// are "equal || greater", not a negation, so a type-mismatched,
	// non-equal pair is neither >= nor <=.
	out, err := run(t, `trace null > 1; trace null < 1; trace null >= 1; trace null <= 1;`)
	require.NoError(t, err)
	assert.Equal(t, "[1] false\n[1] false\n[1] false\n[1] false\n", out)
}

func TestComparisonOperatorsOnEqualValues(t *testing.T) {
	out, err := run(t, `trace 1 >= 1; trace 1 <= 1; trace "a" >= "a"; trace "a" <= "a";`)
	require.NoError(t, err)
	assert.Equal(t, "[1] true\n[1] true\n[1] true\n[1] true\n", out)
}
