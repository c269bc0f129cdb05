package resolver

import (
	"github.com/ember-lang/ember/lang/ast"
	"golang.org/x/exp/slices"
)

// local is one declared name within a function, at a given lexical block
// depth. Locals are never popped from funcScope.locals when a block exits;
// they remain reserved for the lifetime of the frame, per the "Reserve
// pre-allocates all locals" contract §4.2 places on the compiler.
type local struct {
	name  string
	depth int
	slot  uint16
}

// funcScope tracks resolution state for a single function (or the
// top-level program, which is resolved as if it were a function with no
// enclosing scope).
type funcScope struct {
	enclosing *funcScope

	locals     []local
	upvalues   []ast.UpValueIndex
	captured   map[uint16]bool
	scopeDepth int
}

func newFuncScope(enclosing *funcScope) *funcScope {
	return &funcScope{enclosing: enclosing, captured: make(map[uint16]bool)}
}

// declareLocal appends name to fs.locals at the current scope depth. ok is
// false if name is already declared at the same depth (redeclaration).
func (fs *funcScope) declareLocal(name string) (slot uint16, ok bool) {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		l := fs.locals[i]
		if l.depth < fs.scopeDepth {
			break
		}
		if l.name == name && l.depth == fs.scopeDepth {
			return 0, false
		}
	}
	slot = uint16(len(fs.locals))
	fs.locals = append(fs.locals, local{name: name, depth: fs.scopeDepth, slot: slot})
	return slot, true
}

// resolveLocal scans fs.locals from newest to oldest for name.
func (fs *funcScope) resolveLocal(name string) (slot uint16, found bool) {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		if fs.locals[i].name == name {
			return fs.locals[i].slot, true
		}
	}
	return 0, false
}

// addUpvalue dedupes by (slot, isLocal) and returns the index of the
// descriptor within fs.upvalues, appending a new one if none matched.
func (fs *funcScope) addUpvalue(desc ast.UpValueIndex) uint16 {
	if i := slices.IndexFunc(fs.upvalues, func(u ast.UpValueIndex) bool {
		return u.Slot == desc.Slot && u.IsLocal == desc.IsLocal
	}); i >= 0 {
		return uint16(i)
	}
	fs.upvalues = append(fs.upvalues, desc)
	return uint16(len(fs.upvalues) - 1)
}

// sortedCaptured returns fs.captured's keys in ascending order, the shape
// ResolvedFnDecl.Captured expects.
func (fs *funcScope) sortedCaptured() []uint16 {
	if len(fs.captured) == 0 {
		return nil
	}
	out := make([]uint16, 0, len(fs.captured))
	for slot := range fs.captured {
		out = append(out, slot)
	}
	slices.Sort(out)
	return out
}

// resolveUpvalue implements §4.1's recursive ascent: if fs has no enclosing
// scope, the name is unresolved here. Otherwise look for it as a local one
// level up; if found, mark it captured there and record an isLocal upvalue
// in fs. Otherwise recurse one more level up for an upvalue, and if that
// succeeds, forward it (isLocal=false).
func resolveUpvalue(fs *funcScope, name string) (slot uint16, found bool) {
	if fs.enclosing == nil {
		return 0, false
	}
	if s, ok := fs.enclosing.resolveLocal(name); ok {
		fs.enclosing.captured[s] = true
		return fs.addUpvalue(ast.UpValueIndex{Slot: s, IsLocal: true}), true
	}
	if u, ok := resolveUpvalue(fs.enclosing, name); ok {
		return fs.addUpvalue(ast.UpValueIndex{Slot: u, IsLocal: false}), true
	}
	return 0, false
}
