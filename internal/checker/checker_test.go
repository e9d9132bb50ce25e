package checker

import (
	"errors"
	"testing"

	"github.com/funvibe/arklang/internal/ast"
)

func linearParam(name string) ast.Param {
	return ast.Param{Name: name, Typ: ast.LinearType{Name: name}}
}

func wrapBody(stmts ...ast.Statement) ast.MastNode {
	return ast.MastNode{Content: ast.StatementNode{Stmt: ast.BlockStmt{Stmts: stmts}}}
}

func TestLinearConsumedOnceOK(t *testing.T) {
	def := ast.FunctionDef{
		Name:   "f",
		Inputs: []ast.Param{linearParam("res")},
		Body: wrapBody(
			ast.ReturnStmt{Expr: ast.VariableExpr{Name: "res"}},
		),
	}
	if err := CheckFunction(def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDoubleUseDetected(t *testing.T) {
	def := ast.FunctionDef{
		Name:   "f",
		Inputs: []ast.Param{linearParam("res")},
		Body: wrapBody(
			ast.ExprStmt{Expr: ast.VariableExpr{Name: "res"}},
			ast.ReturnStmt{Expr: ast.VariableExpr{Name: "res"}},
		),
	}
	err := CheckFunction(def)
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Kind != DoubleUse || cerr.Name != "res" {
		t.Fatalf("expected DoubleUse(res), got %v", err)
	}
}

func TestUnusedResourceDetected(t *testing.T) {
	def := ast.FunctionDef{
		Name:   "f",
		Inputs: []ast.Param{linearParam("res")},
		Body:   wrapBody(ast.ReturnStmt{Expr: ast.IntegerExpr{Value: 0}}),
	}
	err := CheckFunction(def)
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Kind != UnusedResource || cerr.Name != "res" {
		t.Fatalf("expected UnusedResource(res), got %v", err)
	}
}

// TestIfBranchesMustConverge: a linear consumed in only one branch of an
// if/else must be flagged, not silently accepted because the checker
// happened to traverse the other branch last.
func TestIfBranchesMustConverge(t *testing.T) {
	def := ast.FunctionDef{
		Name:   "f",
		Inputs: []ast.Param{linearParam("res")},
		Body: wrapBody(
			ast.IfStmt{
				Cond: ast.IntegerExpr{Value: 1},
				Then: []ast.Statement{ast.ExprStmt{Expr: ast.VariableExpr{Name: "res"}}},
				Else: []ast.Statement{},
			},
			ast.ReturnStmt{Expr: ast.IntegerExpr{Value: 0}},
		),
	}
	if err := CheckFunction(def); err == nil {
		t.Fatal("expected a convergence error when only one branch consumes the linear")
	}
}

// TestIfBranchesBothConsumeOK is the positive counterpart: both branches
// consume the linear, so the checker must accept the function.
func TestIfBranchesBothConsumeOK(t *testing.T) {
	def := ast.FunctionDef{
		Name:   "f",
		Inputs: []ast.Param{linearParam("res")},
		Body: wrapBody(
			ast.IfStmt{
				Cond: ast.IntegerExpr{Value: 1},
				Then: []ast.Statement{ast.ExprStmt{Expr: ast.VariableExpr{Name: "res"}}},
				Else: []ast.Statement{ast.ExprStmt{Expr: ast.VariableExpr{Name: "res"}}},
			},
			ast.ReturnStmt{Expr: ast.IntegerExpr{Value: 0}},
		),
	}
	if err := CheckFunction(def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNestedFunctionCheckedIndependently(t *testing.T) {
	inner := ast.FunctionDef{
		Name:   "inner",
		Inputs: []ast.Param{linearParam("x")},
		Body:   wrapBody(ast.ReturnStmt{Expr: ast.VariableExpr{Name: "x"}}),
	}
	outer := ast.FunctionDef{
		Name:   "outer",
		Inputs: []ast.Param{linearParam("res")},
		Body: wrapBody(
			ast.FuncDeclStmt{Def: inner},
			ast.ReturnStmt{Expr: ast.VariableExpr{Name: "res"}},
		),
	}
	if err := CheckFunction(outer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNonLinearVariableNeverErrors(t *testing.T) {
	def := ast.FunctionDef{
		Name: "f",
		Body: wrapBody(
			ast.LetStmt{Name: "a", Value: ast.IntegerExpr{Value: 1}},
			ast.ExprStmt{Expr: ast.VariableExpr{Name: "a"}},
			ast.ExprStmt{Expr: ast.VariableExpr{Name: "a"}},
			ast.ReturnStmt{Expr: ast.IntegerExpr{Value: 0}},
		),
	}
	if err := CheckFunction(def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
