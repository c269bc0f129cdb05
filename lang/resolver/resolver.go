// Package resolver walks a parsed ember program and classifies every
// identifier reference as either a local-frame slot or an upvalue slot,
// recursively hoisting captures through enclosing functions exactly as
// described for the core's resolution stage. The shape of the walk (a
// resolver struct holding an accumulated token.ErrorList, one method per
// AST node kind, nodes replaced in place by their resolved counterpart)
// follows mna/nenuphar/lang/resolver's structure, simplified to the single
// local/upvalue binding kind this language needs instead of Starlark's full
// predeclared/universal/cell/label lattice.
package resolver

import (
	"github.com/ember-lang/ember/lang/ast"
	"github.com/ember-lang/ember/lang/token"
)

// Resolve resolves prog in place and returns any accumulated errors as a
// token.ErrorList. On error, prog must not be compiled: some of its nodes
// may still be unresolved or carry meaningless slot assignments.
func Resolve(prog *ast.Program) error {
	var r resolver
	fs := newFuncScope(nil)
	prog.Stmts = r.resolveStmts(fs, prog.Stmts)
	prog.Captured = fs.sortedCaptured()
	r.errors.Sort()
	return r.errors.Err()
}

type resolver struct {
	errors token.ErrorList
}

func (r *resolver) errorf(pos token.Position, msg string) {
	r.errors.Add(pos, msg)
}

func (r *resolver) resolveStmts(fs *funcScope, stmts []ast.Stmt) []ast.Stmt {
	for i, s := range stmts {
		stmts[i] = r.resolveStmt(fs, s)
	}
	return stmts
}

func (r *resolver) resolveStmt(fs *funcScope, s ast.Stmt) ast.Stmt {
	switch s := s.(type) {
	case *ast.ExprStmt:
		s.X = r.resolveExpr(fs, s.X)
		return s

	case *ast.MutDecl:
		init := r.resolveExpr(fs, s.Init)
		slot, ok := fs.declareLocal(s.Name)
		if !ok {
			r.errorf(s.MutPos, "Tried to redeclare a variable in the same scope")
		}
		return &ast.ResolvedMutDecl{MutPos: s.MutPos, Slot: slot, Init: init}

	case *ast.ResolvedMutDecl:
		s.Init = r.resolveExpr(fs, s.Init)
		return s

	case *ast.FnDecl:
		return r.resolveFnDecl(fs, s.FnPos, s.Name, s.Params, s.Body)

	case *ast.ResolvedFnDecl:
		return r.resolveFnDecl(fs, s.FnPos, s.Name, s.Params, s.Body)

	default:
		return s
	}
}

func (r *resolver) resolveFnDecl(fs *funcScope, pos token.Position, name string, params []string, body ast.Expr) ast.Stmt {
	// (1) declare name in the enclosing function so the function can call
	// itself by name (recursion).
	slot, ok := fs.declareLocal(name)
	if !ok {
		r.errorf(pos, "Tried to redeclare a variable in the same scope")
	}

	// (2) push a new scope for the function body.
	child := newFuncScope(fs)

	// (3) the closure occupies its own local 0 at call time; declare name
	// again here so the body can reference itself, then each parameter.
	child.declareLocal(name)
	for _, p := range params {
		child.declareLocal(p)
	}

	// (4) resolve the body in the new scope.
	resolvedBody := r.resolveExpr(child, body)

	// (5)-(6) snapshot upvalues/captured and pop back to the enclosing scope
	// (popping is implicit: child simply goes out of scope here).
	return &ast.ResolvedFnDecl{
		FnPos:    pos,
		Name:     name,
		Slot:     slot,
		Upvalues: child.upvalues,
		Captured: child.sortedCaptured(),
		Params:   params,
		Body:     resolvedBody,
	}
}

func (r *resolver) resolveExpr(fs *funcScope, e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.Constant, *ast.TrueLiteral, *ast.FalseLiteral, *ast.NullLiteral:
		return e

	case *ast.Unary:
		e.Operand = r.resolveExpr(fs, e.Operand)
		return e

	case *ast.Binary:
		if e.Op == token.EQ {
			return r.resolveAssign(fs, e)
		}
		e.Lhs = r.resolveExpr(fs, e.Lhs)
		e.Rhs = r.resolveExpr(fs, e.Rhs)
		return e

	case *ast.IfElse:
		e.Cond = r.resolveExpr(fs, e.Cond)
		e.Then = r.resolveExpr(fs, e.Then)
		if e.Else != nil {
			e.Else = r.resolveExpr(fs, e.Else)
		}
		return e

	case *ast.Block:
		fs.scopeDepth++
		stmts := r.resolveStmts(fs, e.Stmts)
		fs.scopeDepth--
		return &ast.ResolvedBlock{BracePos: e.BracePos, Stmts: stmts}

	case *ast.ResolvedBlock:
		fs.scopeDepth++
		e.Stmts = r.resolveStmts(fs, e.Stmts)
		fs.scopeDepth--
		return e

	case *ast.FnCall:
		e.Callee = r.resolveExpr(fs, e.Callee)
		for i, a := range e.Args {
			e.Args[i] = r.resolveExpr(fs, a)
		}
		return e

	case *ast.Access:
		return r.resolveName(fs, e.NamePos, e.Name)

	case *ast.ResolvedAccess:
		return r.resolveName(fs, e.NamePos, e.Name)

	case *ast.ResolvedAssign:
		e.Value = r.resolveExpr(fs, e.Value)
		resolved := r.resolveName(fs, e.NamePos, e.Name)
		if ra, ok := resolved.(*ast.ResolvedAccess); ok {
			e.Kind = ra.Kind
		}
		return e

	default:
		return e
	}
}

func (r *resolver) resolveName(fs *funcScope, pos token.Position, name string) ast.Expr {
	if slot, ok := fs.resolveLocal(name); ok {
		return &ast.ResolvedAccess{NamePos: pos, Name: name, Kind: ast.ResolveKind{Tag: ast.LocalKind, Slot: slot}}
	}
	if slot, ok := resolveUpvalue(fs, name); ok {
		return &ast.ResolvedAccess{NamePos: pos, Name: name, Kind: ast.ResolveKind{Tag: ast.UpValueKind, Slot: slot}}
	}
	r.errorf(pos, "Usage of an undefined variable")
	return &ast.ResolvedAccess{NamePos: pos, Name: name, Kind: ast.ResolveKind{Tag: ast.LocalKind, Slot: 0}}
}

func (r *resolver) resolveAssign(fs *funcScope, b *ast.Binary) ast.Expr {
	access, ok := b.Lhs.(*ast.Access)
	if !ok {
		if ra, ok := b.Lhs.(*ast.ResolvedAccess); ok {
			value := r.resolveExpr(fs, b.Rhs)
			resolved := r.resolveName(fs, ra.NamePos, ra.Name)
			kind := ra.Kind
			if r2, ok := resolved.(*ast.ResolvedAccess); ok {
				kind = r2.Kind
			}
			return &ast.ResolvedAssign{NamePos: ra.NamePos, Name: ra.Name, Kind: kind, Value: value}
		}
		r.errorf(b.Lhs.Pos(), "Invalid assignment target. Expected an identifier")
		return r.resolveExpr(fs, b.Rhs)
	}

	value := r.resolveExpr(fs, b.Rhs)
	resolved := r.resolveName(fs, access.NamePos, access.Name)
	kind := ast.ResolveKind{}
	if ra, ok := resolved.(*ast.ResolvedAccess); ok {
		kind = ra.Kind
	}
	return &ast.ResolvedAssign{NamePos: access.NamePos, Name: access.Name, Kind: kind, Value: value}
}
