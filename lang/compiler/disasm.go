package compiler

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of fn's chunk (and,
// recursively, every Function constant it holds) to w: one instruction per
// line, annotated with its source line and, for DeclareClosure, its
// upvalue descriptor table.
func Disassemble(w io.Writer, fn *Function) {
	disasmFunc(w, fn, "")
}

func disasmFunc(w io.Writer, fn *Function, indent string) {
	fmt.Fprintf(w, "%sfunction %s(%d params)\n", indent, fn.Name, fn.Params)
	for i, instr := range fn.Chunk.Instructions {
		fmt.Fprintf(w, "%s%04d  line %-4d  %s", indent, i, instr.Line, instr.Op)
		switch instr.Op {
		case PushConstant:
			fmt.Fprintf(w, " #%d (%v)", instr.A, fn.Chunk.Constants[instr.A])
		case GetLocal, SetLocal, Declare:
			fmt.Fprintf(w, " slot=%d", instr.A)
		case GetUpValue, SetUpValue:
			fmt.Fprintf(w, " upvalue=%d", instr.A)
		case Jump, JumpIfFalsy, JumpIfTruthy, PopAndJumpIfFalsy:
			// The VM applies the offset after advancing past the jump
			// itself, so the landing instruction is i+1+offset.
			fmt.Fprintf(w, " -> %04d", i+1+int(instr.A))
		case FnCall:
			fmt.Fprintf(w, " argc=%d", instr.A)
		case Reserve:
			fmt.Fprintf(w, " n=%d", instr.A)
		case DeclareClosure:
			fmt.Fprintf(w, " slot=%d const=#%d upvalues=%v", instr.A, instr.B, instr.Upvalues)
		}
		fmt.Fprintln(w)
	}
	for _, c := range fn.Chunk.Constants {
		if nested, ok := c.(*Function); ok {
			disasmFunc(w, nested, indent+"  ")
		}
	}
}
