// Package compiler lowers a resolved AST into a Chunk: a linear instruction
// stream, a constant pool, and a run-length line table. It emits forward
// jumps with a placeholder operand and patches them once the target
// instruction index is known, and recurses into a fresh child Chunk for
// every function body, storing the result as a Function constant in the
// parent. The package defines Chunk, Function and the constant pool as its
// own types (constants are stored as `any`, the same loose-typed-constants
// approach mna/nenuphar's own compiler package uses) so that lang/machine
// can depend on lang/compiler without a import cycle running the other way.
package compiler

import (
	"github.com/dolthub/swiss"
	"github.com/ember-lang/ember/lang/ast"
)

// Instruction is one tagged bytecode operation. Which fields are meaningful
// depends on Op: most instructions use only A (a constant index, a local or
// upvalue slot, a jump offset, or an argument/reserve count); DeclareClosure
// additionally uses B (the constant index of the Function) and Upvalues.
type Instruction struct {
	Op       Opcode
	A        uint16
	B        uint16
	Upvalues []ast.UpValueIndex
	Line     int
}

// Function is the compile-time (and runtime-shared) record of a compiled
// function body: its chunk, a name for diagnostics, and the local slots of
// its own frame that some inner closure captures. The VM consults Captured
// on Return to know which upvalues it must close before truncating the
// stack.
type Function struct {
	Chunk    *Chunk
	Name     string
	Params   int
	Captured []uint16
}

// Chunk is immutable once Compile returns: an ordered instruction stream,
// a constant pool, and a run-length encoded line table.
type Chunk struct {
	Instructions []Instruction
	Constants    []any

	// lineRuns is a run-length encoding of (line, count) pairs in
	// instruction-index order, mirroring Instructions one-for-one; kept
	// distinct from Instruction.Line so disassembly/debugging can consult
	// either representation, but populated by the same emission path.
	lineRuns []lineRun

	// constIndex interns number/string constants so that repeated literals
	// within one function body share a pool slot, using the swiss
	// open-addressing table for the compiler's own dedup concern.
	constIndex *swiss.Map[constKey, uint16]
}

// constKey is a comparable key for the constant-pool dedup table: isString
// distinguishes a number key from a string key, since 0 and "" would
// otherwise collide across types.
type constKey struct {
	isString bool
	num      float64
	str      string
}

func numConstKey(f float64) constKey { return constKey{num: f} }
func strConstKey(s string) constKey  { return constKey{isString: true, str: s} }

type lineRun struct {
	line  int
	count int
}

func (c *Chunk) addLine(line int) {
	if n := len(c.lineRuns); n > 0 && c.lineRuns[n-1].line == line {
		c.lineRuns[n-1].count++
		return
	}
	c.lineRuns = append(c.lineRuns, lineRun{line: line, count: 1})
}

// Line returns the source line attributed to the instruction at idx.
func (c *Chunk) Line(idx int) int {
	for _, run := range c.lineRuns {
		if idx < run.count {
			return run.line
		}
		idx -= run.count
	}
	return 0
}

// addNumberConstant interns a numeric literal into the constant pool.
func (c *Chunk) addNumberConstant(f float64) uint16 {
	return c.addConstant(numConstKey(f), f)
}

// addStringConstant interns a string literal into the constant pool.
func (c *Chunk) addStringConstant(s string) uint16 {
	return c.addConstant(strConstKey(s), s)
}

func (c *Chunk) addConstant(key constKey, v any) uint16 {
	if c.constIndex == nil {
		c.constIndex = swiss.NewMap[constKey, uint16](8)
	}
	if idx, ok := c.constIndex.Get(key); ok {
		return idx
	}
	idx := uint16(len(c.Constants))
	c.Constants = append(c.Constants, v)
	c.constIndex.Put(key, idx)
	return idx
}

// addFunctionConstant appends fn unconditionally: two textually identical
// function bodies are still distinct closures, never deduped.
func (c *Chunk) addFunctionConstant(fn *Function) uint16 {
	c.Constants = append(c.Constants, fn)
	return uint16(len(c.Constants) - 1)
}
