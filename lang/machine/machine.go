package machine

import (
	"fmt"
	"io"
	"os"

	"github.com/ember-lang/ember/lang/compiler"
)

// StepLimitError is returned when a Thread executes more instructions than
// Config.MaxSteps permits. It exists to bound runaway programs in an
// embedding; the core instruction set itself has no concept of a step
// budget.
type StepLimitError struct {
	MaxSteps int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("exceeded maximum step count (%d)", e.MaxSteps)
}

// Thread is a single-threaded virtual machine: an operand stack, a call
// stack of frames, a list of open upvalues, and the heap and GC they
// share. Nothing about it is safe for concurrent use, by design: the
// language has no concurrency model (§5), so there is exactly one mutator.
type Thread struct {
	stack        []Value
	frames       []frame
	openUpvalues []int

	heap Heap
	gc   gc

	cfg      Config
	nextGCAt int
	steps    int

	out io.Writer
}

// NewThread creates a Thread ready to Run a compiled program. out receives
// Trace output; a nil out defaults to os.Stdout.
func NewThread(cfg Config, out io.Writer) *Thread {
	if out == nil {
		out = os.Stdout
	}
	if cfg.GCEvery <= 0 {
		cfg.GCEvery = 256
	}
	if cfg.GCGrowFactor <= 1 {
		cfg.GCGrowFactor = 2.0
	}
	return &Thread{
		stack:    make([]Value, 0, maxInt(cfg.StackHint, 16)),
		heap:     *NewHeap(64),
		cfg:      cfg,
		nextGCAt: cfg.GCEvery,
		out:      out,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Run loads fn as a synthetic top-level frame and executes until it
// returns (the program's "top frame's Return" per the lifecycle), or until
// a runtime or internal error halts it.
func (t *Thread) Run(fn *Function) (err error) {
	closureIdx := t.heap.AllocClosure(closureObj{fn: fn})
	t.frames = append(t.frames, frame{closureIdx: closureIdx, fn: fn, chunk: fn.Chunk, stackBase: len(t.stack)})

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = bugf("%v", r)
		}
	}()

	return t.dispatch()
}

func (t *Thread) push(v Value) { t.stack = append(t.stack, v) }

func (t *Thread) pop() Value {
	n := len(t.stack)
	if n == 0 {
		panic(bugf("stack underflow"))
	}
	v := t.stack[n-1]
	t.stack = t.stack[:n-1]
	return v
}

func (t *Thread) peek() Value {
	n := len(t.stack)
	if n == 0 {
		panic(bugf("stack underflow"))
	}
	return t.stack[n-1]
}

func (t *Thread) dispatch() error {
	for {
		if len(t.frames) == 0 {
			return nil
		}

		if t.heap.liveCount() >= t.nextGCAt {
			t.gc.collect(t)
			t.nextGCAt = int(float64(t.heap.liveCount()+1) * t.cfg.GCGrowFactor)
			if t.nextGCAt < t.cfg.GCEvery {
				t.nextGCAt = t.cfg.GCEvery
			}
		}

		cur := &t.frames[len(t.frames)-1]
		if cur.ip < 0 || cur.ip >= len(cur.chunk.Instructions) {
			panic(bugf("instruction pointer %d out of range", cur.ip))
		}
		instr := cur.chunk.Instructions[cur.ip]
		cur.ip++

		if t.cfg.MaxSteps > 0 {
			t.steps++
			if t.steps > t.cfg.MaxSteps {
				return &StepLimitError{MaxSteps: t.cfg.MaxSteps}
			}
		}

		if err := t.exec(cur, instr); err != nil {
			return err
		}
	}
}

func (t *Thread) exec(cur *frame, instr compiler.Instruction) error {
	switch instr.Op {
	case compiler.PushConstant:
		t.push(constantValue(cur.chunk, instr.A))

	case compiler.PushTrue:
		t.push(Bool(true))
	case compiler.PushFalse:
		t.push(Bool(false))
	case compiler.PushNull:
		t.push(Null)

	case compiler.Negate:
		n, err := t.pop().ToNumber()
		if err != nil {
			return lineErr(instr.Line, err)
		}
		t.push(Number(-n))

	case compiler.ToNumber:
		n, err := t.pop().ToNumber()
		if err != nil {
			return lineErr(instr.Line, err)
		}
		t.push(Number(n))

	case compiler.Not:
		t.push(Bool(!t.pop().Truthy()))

	case compiler.Add:
		b, a := t.pop(), t.pop()
		v, err := addValues(a, b)
		if err != nil {
			return lineErr(instr.Line, err)
		}
		t.push(v)

	case compiler.Subtract, compiler.Multiply, compiler.Divide:
		b, a := t.pop(), t.pop()
		v, err := arithValue(instr.Op, a, b)
		if err != nil {
			return lineErr(instr.Line, err)
		}
		t.push(v)

	case compiler.Equal:
		b, a := t.pop(), t.pop()
		t.push(Bool(a.Equal(b)))
	case compiler.NotEqual:
		b, a := t.pop(), t.pop()
		t.push(Bool(!a.Equal(b)))
	case compiler.Greater:
		b, a := t.pop(), t.pop()
		t.push(Bool(isGreater(a, b)))
	case compiler.Less:
		b, a := t.pop(), t.pop()
		t.push(Bool(isGreater(b, a)))
	case compiler.GreaterEqual:
		b, a := t.pop(), t.pop()
		t.push(Bool(a.Equal(b) || isGreater(a, b)))
	case compiler.LessEqual:
		b, a := t.pop(), t.pop()
		t.push(Bool(a.Equal(b) || isGreater(b, a)))

	case compiler.Trace:
		v := t.peek()
		s, err := v.ToString()
		if err != nil {
			return lineErr(instr.Line, err)
		}
		fmt.Fprintf(t.out, "[%d] %s\n", instr.Line, s)

	case compiler.Pop:
		t.pop()

	case compiler.GetLocal:
		t.push(t.local(cur, instr.A))
	case compiler.SetLocal:
		t.setLocal(cur, instr.A, t.peek())
	case compiler.Declare:
		t.setLocal(cur, instr.A, t.pop())

	case compiler.GetUpValue:
		t.push(t.getUpvalue(cur, instr.A))
	case compiler.SetUpValue:
		t.setUpvalue(cur, instr.A, t.peek())

	case compiler.Jump:
		cur.ip += int(instr.A)
	case compiler.JumpIfFalsy:
		if !t.peek().Truthy() {
			cur.ip += int(instr.A)
		}
	case compiler.JumpIfTruthy:
		if t.peek().Truthy() {
			cur.ip += int(instr.A)
		}
	case compiler.PopAndJumpIfFalsy:
		if !t.pop().Truthy() {
			cur.ip += int(instr.A)
		}

	case compiler.FnCall:
		if err := t.call(int(instr.A), instr.Line); err != nil {
			return err
		}

	case compiler.DeclareClosure:
		t.declareClosure(cur, instr)

	case compiler.Reserve:
		for i := 0; i < int(instr.A); i++ {
			t.push(Uninitialized)
		}

	case compiler.Return:
		t.doReturn(cur)

	default:
		panic(bugf("malformed instruction %s", instr.Op))
	}
	return nil
}

func lineErr(line int, err error) error {
	if te, ok := err.(*TypeError); ok {
		te.Line = line
		return te
	}
	return err
}

func constantValue(chunk *Chunk, idx uint16) Value {
	if int(idx) >= len(chunk.Constants) {
		panic(bugf("invalid constant index %d", idx))
	}
	switch c := chunk.Constants[idx].(type) {
	case float64:
		return Number(c)
	case string:
		return String(c)
	default:
		panic(bugf("constant %d is not a pushable value", idx))
	}
}

func addValues(a, b Value) (Value, error) {
	if a.Kind == KindNumber && b.Kind == KindNumber {
		return Number(a.AsNumber() + b.AsNumber()), nil
	}
	if a.Kind == KindString || b.Kind == KindString {
		as, err := a.ToString()
		if err != nil {
			return Value{}, err
		}
		bs, err := b.ToString()
		if err != nil {
			return Value{}, err
		}
		return String(as + bs), nil
	}
	return Value{}, &TypeError{Msg: fmt.Sprintf("cannot add a %s and a %s", a.Kind, b.Kind)}
}

func arithValue(op compiler.Opcode, a, b Value) (Value, error) {
	if a.Kind != KindNumber || b.Kind != KindNumber {
		return Value{}, &TypeError{Msg: fmt.Sprintf("operands must be numbers, got %s and %s", a.Kind, b.Kind)}
	}
	switch op {
	case compiler.Subtract:
		return Number(a.AsNumber() - b.AsNumber()), nil
	case compiler.Multiply:
		return Number(a.AsNumber() * b.AsNumber()), nil
	case compiler.Divide:
		if b.AsNumber() == 0 {
			return Value{}, &TypeError{Msg: "division by zero"}
		}
		return Number(a.AsNumber() / b.AsNumber()), nil
	default:
		panic(bugf("arithValue called with non-arithmetic opcode %s", op))
	}
}

// isGreater follows the original source's semantics: only defined for two
// numbers; any other pairing is simply not greater. Greater/Less fall out
// of this directly; GreaterEqual/LessEqual are "equal || greater", not a
// negation of the other (a type-mismatched, non-equal pair is neither
// greater-or-equal nor less-or-equal).
func isGreater(a, b Value) bool {
	if a.Kind == KindNumber && b.Kind == KindNumber {
		return a.AsNumber() > b.AsNumber()
	}
	return false
}

func (t *Thread) local(cur *frame, slot uint16) Value {
	idx := cur.stackBase + int(slot)
	if idx < 0 || idx >= len(t.stack) {
		panic(bugf("invalid local slot %d", slot))
	}
	v := t.stack[idx]
	if v.Kind == KindUninitialized {
		panic(bugf("read of uninitialized local slot %d", slot))
	}
	return v
}

func (t *Thread) setLocal(cur *frame, slot uint16, v Value) {
	idx := cur.stackBase + int(slot)
	if idx < 0 || idx >= len(t.stack) {
		panic(bugf("invalid local slot %d", slot))
	}
	t.stack[idx] = v
}

func (t *Thread) closureUpvalues(cur *frame) []int {
	return t.heap.closureAt(cur.closureIdx).upvalues
}

func (t *Thread) getUpvalue(cur *frame, slot uint16) Value {
	uvs := t.closureUpvalues(cur)
	if int(slot) >= len(uvs) {
		panic(bugf("invalid upvalue slot %d", slot))
	}
	uv := t.heap.upvalueAt(uvs[slot])
	if uv.open {
		return t.stack[uv.stackSlot]
	}
	return uv.closed
}

func (t *Thread) setUpvalue(cur *frame, slot uint16, v Value) {
	uvs := t.closureUpvalues(cur)
	if int(slot) >= len(uvs) {
		panic(bugf("invalid upvalue slot %d", slot))
	}
	uv := t.heap.upvalueAt(uvs[slot])
	if uv.open {
		t.stack[uv.stackSlot] = v
	} else {
		uv.closed = v
	}
}

// captureUpvalue returns an open upvalue for absolute stack slot abs,
// reusing one already created for the same slot if one exists (the
// upvalue-sharing invariant multiple closures over the same variable
// depend on).
func (t *Thread) captureUpvalue(abs int) int {
	for _, idx := range t.openUpvalues {
		uv := t.heap.upvalueAt(idx)
		if uv.open && uv.stackSlot == abs {
			return idx
		}
	}
	idx := t.heap.AllocUpValue(abs)
	t.openUpvalues = append(t.openUpvalues, idx)
	return idx
}

// closeUpvaluesFrom closes every still-open upvalue belonging to the
// locals captured lists, reading their last live value off the stack
// before the frame's window is truncated.
func (t *Thread) closeUpvaluesFrom(stackBase int, captured []uint16) {
	for _, slot := range captured {
		abs := stackBase + int(slot)
		for i, idx := range t.openUpvalues {
			uv := t.heap.upvalueAt(idx)
			if uv.open && uv.stackSlot == abs {
				uv.closed = t.stack[abs]
				uv.open = false
				t.openUpvalues = append(t.openUpvalues[:i], t.openUpvalues[i+1:]...)
				break
			}
		}
	}
}

func (t *Thread) declareClosure(cur *frame, instr compiler.Instruction) {
	fn, ok := cur.chunk.Constants[instr.B].(*Function)
	if !ok {
		panic(bugf("constant %d is not a function", instr.B))
	}
	upvalues := make([]int, len(instr.Upvalues))
	for i, desc := range instr.Upvalues {
		if desc.IsLocal {
			upvalues[i] = t.captureUpvalue(cur.stackBase + int(desc.Slot))
		} else {
			upvalues[i] = t.closureUpvalues(cur)[desc.Slot]
		}
	}
	closureIdx := t.heap.AllocClosure(closureObj{fn: fn, upvalues: upvalues})
	t.setLocal(cur, instr.A, Closure(closureIdx))
}

func (t *Thread) call(argc int, line int) error {
	calleeIdx := len(t.stack) - argc - 1
	if calleeIdx < 0 {
		panic(bugf("stack underflow in call"))
	}
	callee := t.stack[calleeIdx]
	if callee.Kind != KindClosure {
		return &TypeError{Line: line, Msg: fmt.Sprintf("cannot call a %s", callee.Kind)}
	}
	cl := t.heap.closureAt(callee.HeapIndex())
	if cl.fn.Params != argc {
		return &TypeError{Line: line, Msg: fmt.Sprintf("expected %d argument(s), got %d", cl.fn.Params, argc)}
	}
	t.frames = append(t.frames, frame{
		closureIdx: callee.HeapIndex(),
		fn:         cl.fn,
		chunk:      cl.fn.Chunk,
		stackBase:  calleeIdx,
	})
	return nil
}

func (t *Thread) doReturn(cur *frame) {
	retVal := t.pop()
	t.closeUpvaluesFrom(cur.stackBase, cur.fn.Captured)
	t.stack = t.stack[:cur.stackBase]
	t.frames = t.frames[:len(t.frames)-1]
	if len(t.frames) > 0 {
		t.push(retVal)
	}
}
