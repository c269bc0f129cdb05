package machine

// frame is a single call frame: the closure being executed (by heap
// index, so the GC can find it as a root), the chunk and function it was
// compiled from (cached for speed, since both are immutable for the
// frame's lifetime), the instruction pointer, and the stack-base index
// every GetLocal/SetLocal/Declare in this frame is relative to.
type frame struct {
	closureIdx int
	fn         *Function
	chunk      *Chunk
	ip         int
	stackBase  int
}
