package compiler

import "fmt"

// Opcode identifies one bytecode instruction. The set is exhaustive and
// fixed by the instruction set the virtual machine dispatches on.
type Opcode uint8

// "x OP y" stack pictures describe the operand stack before and after
// execution, top of stack on the right.
const ( //nolint:revive
	// Constants/literals
	PushConstant Opcode = iota //   - PushConstant<const> v
	PushTrue                   //   - PushTrue             true
	PushFalse                  //   - PushFalse            false
	PushNull                   //   - PushNull             null

	// Arithmetic/logic
	Negate   //   x Negate   -x
	ToNumber //   x ToNumber number(x)
	Not      //   x Not      !truthy(x)
	Add      // x y Add      x+y
	Subtract // x y Subtract x-y
	Multiply // x y Multiply x*y
	Divide   // x y Divide   x/y

	// Comparison
	Equal        // x y Equal        x==y
	NotEqual     // x y NotEqual     x!=y
	Greater      // x y Greater      x>y
	Less         // x y Less         x<y
	GreaterEqual // x y GreaterEqual x>=y
	LessEqual    // x y LessEqual    x<=y

	// I/O
	Trace //   x Trace x   (prints, leaves x on stack)

	// Stack
	Pop //   x Pop -

	// Variables
	GetLocal //   - GetLocal<slot>    v
	SetLocal //   x SetLocal<slot>    x
	GetUpValue
	SetUpValue
	Declare //   x Declare<slot>    -

	// Control flow. Jump operands are unsigned forward offsets in
	// instructions, relative to the instruction right after the jump.
	Jump
	JumpIfFalsy        // x JumpIfFalsy<off>        x (peek, no pop)
	JumpIfTruthy       // x JumpIfTruthy<off>       x (peek, no pop)
	PopAndJumpIfFalsy  // x PopAndJumpIfFalsy<off>  -

	// Functions
	FnCall         // callee a1..an FnCall<argc>                  result
	DeclareClosure //               DeclareClosure<slot,const,uv> -
	Return         //             x Return                        - (unwinds frame)

	// Frame
	Reserve //   - Reserve<n> - (extends stack by n Uninitialized slots)

	maxOpcode
)

var opcodeNames = [...]string{
	PushConstant:      "push_constant",
	PushTrue:          "push_true",
	PushFalse:         "push_false",
	PushNull:          "push_null",
	Negate:            "negate",
	ToNumber:          "to_number",
	Not:               "not",
	Add:               "add",
	Subtract:          "subtract",
	Multiply:          "multiply",
	Divide:            "divide",
	Equal:             "equal",
	NotEqual:          "not_equal",
	Greater:           "greater",
	Less:              "less",
	GreaterEqual:      "greater_equal",
	LessEqual:         "less_equal",
	Trace:             "trace",
	Pop:               "pop",
	GetLocal:          "get_local",
	SetLocal:          "set_local",
	GetUpValue:        "get_upvalue",
	SetUpValue:        "set_upvalue",
	Declare:           "declare",
	Jump:              "jump",
	JumpIfFalsy:       "jump_if_falsy",
	JumpIfTruthy:      "jump_if_truthy",
	PopAndJumpIfFalsy: "pop_and_jump_if_falsy",
	FnCall:            "fn_call",
	DeclareClosure:    "declare_closure",
	Return:            "return",
	Reserve:           "reserve",
}

func (op Opcode) String() string {
	if op < maxOpcode {
		return opcodeNames[op]
	}
	return fmt.Sprintf("opcode(%d)", uint8(op))
}

// hasU16Operand reports whether op carries a single uint16 immediate
// (constant index, slot, jump offset, or argument count).
func hasU16Operand(op Opcode) bool {
	switch op {
	case PushConstant, GetLocal, SetLocal, GetUpValue, SetUpValue, Declare,
		Jump, JumpIfFalsy, JumpIfTruthy, PopAndJumpIfFalsy, FnCall, Reserve:
		return true
	default:
		return false
	}
}
