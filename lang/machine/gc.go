package machine

// gc implements tri-color mark-and-sweep over a Thread's heap, run only at
// a VM safepoint between instructions. The mark/trace/sweep split mirrors
// the original interpreter's collector exactly: mark every root, drain a
// gray queue tracing each object's own heap references, then sweep every
// slot whose mark bit never got set.
type gc struct {
	gray []int
}

func (g *gc) markHeapIndex(h *Heap, idx int) {
	o := h.get(idx)
	if o.marked {
		return
	}
	o.marked = true
	g.gray = append(g.gray, idx)
}

// markValue marks the heap object a Value references, if any.
func (g *gc) markValue(h *Heap, v Value) {
	if v.Kind == KindClosure {
		g.markHeapIndex(h, v.HeapIndex())
	}
}

func (g *gc) markRoots(t *Thread) {
	for _, v := range t.stack {
		g.markValue(&t.heap, v)
	}
	for _, f := range t.frames {
		g.markHeapIndex(&t.heap, f.closureIdx)
	}
	for _, idx := range t.openUpvalues {
		g.markHeapIndex(&t.heap, idx)
	}
}

func (g *gc) traceRefs(t *Thread) {
	for len(g.gray) > 0 {
		idx := g.gray[len(g.gray)-1]
		g.gray = g.gray[:len(g.gray)-1]
		g.blacken(t, idx)
	}
}

func (g *gc) blacken(t *Thread, idx int) {
	o := t.heap.get(idx)
	switch o.kind {
	case objClosure:
		for _, uv := range o.closure.upvalues {
			g.markHeapIndex(&t.heap, uv)
		}
	case objUpValue:
		if o.upvalue.open {
			if slot := o.upvalue.stackSlot; slot >= 0 && slot < len(t.stack) {
				g.markValue(&t.heap, t.stack[slot])
			}
		} else {
			g.markValue(&t.heap, o.upvalue.closed)
		}
	}
}

func (g *gc) sweep(h *Heap) {
	for i := range h.slots {
		if h.slots[i].freed {
			continue
		}
		if !h.slots[i].marked {
			h.freeSlot(i)
			continue
		}
		h.slots[i].marked = false
	}
}

// collect runs one full mark-sweep cycle against t's current state. Callers
// must only invoke this between instructions, when every live reference is
// reachable from the stack, the frame stack, or the open-upvalue list (the
// VM's safepoint invariant).
func (g *gc) collect(t *Thread) {
	g.gray = g.gray[:0]
	g.markRoots(t)
	g.traceRefs(t)
	g.sweep(&t.heap)
}
