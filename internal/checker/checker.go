// Package checker implements the linear-type checker: a traversal over an
// ast.Node that verifies every linear binding is consumed exactly once on
// every path from introduction to function exit.
package checker

import (
	"fmt"

	"github.com/funvibe/arklang/internal/ast"
)

// Kind identifies the category of a checker Error.
type Kind int

const (
	DoubleUse Kind = iota
	UnusedResource
	NotFound
)

func (k Kind) String() string {
	switch k {
	case DoubleUse:
		return "DoubleUse"
	case UnusedResource:
		return "UnusedResource"
	case NotFound:
		return "NotFound"
	default:
		return "unknown"
	}
}

// Error is a linear-checker violation.
type Error struct {
	Kind Kind
	Name string
}

func (e *Error) Error() string { return fmt.Sprintf("%s(%s)", e.Kind, e.Name) }

// linearSet is a simple name set, used for both the active and the
// ever-declared linear bindings of a function.
type linearSet map[string]struct{}

func (s linearSet) clone() linearSet {
	c := make(linearSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

func (s linearSet) has(name string) bool { _, ok := s[name]; return ok }
func (s linearSet) add(name string)      { s[name] = struct{}{} }
func (s linearSet) remove(name string)   { delete(s, name) }

// state is the mutable checker context threaded through a traversal.
type state struct {
	active   linearSet
	declared linearSet
}

func newState() *state {
	return &state{active: linearSet{}, declared: linearSet{}}
}

func (s *state) clone() *state {
	return &state{active: s.active.clone(), declared: s.declared.clone()}
}

// CheckFunction checks one FunctionDef as a fresh sub-problem: each linear
// input is seeded into both active_linears and declared_linears, the body is
// traversed, and active_linears must be empty on every exit path.
func CheckFunction(def ast.FunctionDef) error {
	s := newState()
	for _, p := range def.Inputs {
		if p.Typ != nil && p.Typ.IsLinear() {
			s.active.add(p.Name)
			s.declared.add(p.Name)
		}
	}
	body, ok := def.Body.Content.(ast.StatementNode)
	if !ok {
		// A non-Statement body (bare expression/function) has no linear
		// bindings of its own beyond the inputs already seeded above.
		return checkFunctionExit(s)
	}
	if err := checkStatement(s, body.Stmt); err != nil {
		return err
	}
	return checkFunctionExit(s)
}

func checkFunctionExit(s *state) error {
	for name := range s.active {
		return &Error{Kind: UnusedResource, Name: name}
	}
	return nil
}

func checkStatements(s *state, stmts []ast.Statement) error {
	for _, st := range stmts {
		if err := checkStatement(s, st); err != nil {
			return err
		}
	}
	return nil
}

func checkStatement(s *state, st ast.Statement) error {
	switch n := st.(type) {
	case ast.LetStmt:
		if err := checkExpression(s, n.Value); err != nil {
			return err
		}
		if n.Ty != nil && n.Ty.IsLinear() {
			s.active.add(n.Name)
			s.declared.add(n.Name)
		}
		return nil

	case ast.LetDestructureStmt:
		if err := checkExpression(s, n.Value); err != nil {
			return err
		}
		// Destructured names are never linear-typed (no per-name type
		// annotation exists in this form); nothing to seed.
		return nil

	case ast.SetFieldStmt:
		return checkExpression(s, n.Value)

	case ast.ReturnStmt:
		if n.Expr != nil {
			if err := checkExpression(s, n.Expr); err != nil {
				return err
			}
		}
		return checkFunctionExit(s)

	case ast.BlockStmt:
		return checkStatements(s, n.Stmts)

	case ast.ExprStmt:
		return checkExpression(s, n.Expr)

	case ast.IfStmt:
		if err := checkExpression(s, n.Cond); err != nil {
			return err
		}
		// Snapshot the active set at branch entry, check each branch from
		// its own copy, and require the branches to converge before
		// continuing with either result.
		thenState := s.clone()
		if err := checkStatements(thenState, n.Then); err != nil {
			return err
		}
		if n.Else == nil {
			// No else: the implicit empty branch must already match the
			// then-branch's resulting state, or linears would be
			// inconsistently consumed depending on which path ran.
			if err := requireSameActive(thenState, s); err != nil {
				return err
			}
			*s = *thenState
			return nil
		}
		elseState := s.clone()
		if err := checkStatements(elseState, n.Else); err != nil {
			return err
		}
		if err := requireSameActive(thenState, elseState); err != nil {
			return err
		}
		*s = *thenState
		return nil

	case ast.WhileStmt:
		if err := checkExpression(s, n.Cond); err != nil {
			return err
		}
		// No fixed-point: the body is checked once, against the state
		// after the condition.
		return checkStatements(s, n.Body)

	case ast.FuncDeclStmt:
		// Nested function declarations are checked as fresh sub-problems
		// against their own inputs; they do not touch the enclosing state.
		return CheckFunction(n.Def)

	case ast.ForStmt:
		if err := checkExpression(s, n.Iterable); err != nil {
			return err
		}
		return checkStatements(s, n.Body)

	case ast.MatchStmt:
		if err := checkExpression(s, n.Scrutinee); err != nil {
			return err
		}
		var prev *state
		for _, arm := range n.Arms {
			armState := s.clone()
			if err := checkStatements(armState, arm.Body); err != nil {
				return err
			}
			if prev != nil {
				if err := requireSameActive(prev, armState); err != nil {
					return err
				}
			}
			prev = armState
		}
		if prev != nil {
			*s = *prev
		}
		return nil

	case ast.TryStmt:
		// Lowers to a plain block at compile time; the checker treats it
		// the same way, ignoring the catch arm.
		return checkStatements(s, n.Try)

	case ast.ImportStmt, ast.StructDeclStmt, ast.BreakStmt, ast.ContinueStmt:
		return nil

	default:
		return fmt.Errorf("checker: unhandled statement type %T", st)
	}
}

// requireSameActive enforces branch convergence: two branches of a
// conditional (or match arms) must leave active_linears in the same state,
// otherwise which linears remain unconsumed would depend on a runtime
// condition the checker cannot see through.
func requireSameActive(a, b *state) error {
	for name := range a.active {
		if !b.active.has(name) {
			return &Error{Kind: UnusedResource, Name: name}
		}
	}
	for name := range b.active {
		if !a.active.has(name) {
			return &Error{Kind: UnusedResource, Name: name}
		}
	}
	return nil
}

func checkExpression(s *state, e ast.Expression) error {
	switch n := e.(type) {
	case ast.VariableExpr:
		if s.active.has(n.Name) {
			s.active.remove(n.Name)
			return nil
		}
		if s.declared.has(n.Name) {
			return &Error{Kind: DoubleUse, Name: n.Name}
		}
		return nil

	case ast.LiteralExpr, ast.IntegerExpr:
		return nil

	case ast.CallExpr:
		for _, arg := range n.Args {
			if err := checkExpression(s, arg); err != nil {
				return err
			}
		}
		return nil

	case ast.ListExpr:
		for _, item := range n.Items {
			if err := checkExpression(s, item); err != nil {
				return err
			}
		}
		return nil

	case ast.StructInitExpr:
		for _, f := range n.Fields {
			if err := checkExpression(s, f.Value); err != nil {
				return err
			}
		}
		return nil

	case ast.GetFieldExpr:
		return checkExpression(s, n.Obj)

	default:
		return fmt.Errorf("checker: unhandled expression type %T", e)
	}
}
