package compiler

import (
	"testing"

	"github.com/funvibe/arklang/internal/ast"
	"github.com/funvibe/arklang/internal/bytecode"
)

func TestCompileArithmeticUsesDedicatedOpcode(t *testing.T) {
	chunk, err := CompileProgram([]ast.Statement{
		ast.ExprStmt{Expr: ast.CallExpr{
			FunctionName: "add",
			Args:         []ast.Expression{ast.IntegerExpr{Value: 1}, ast.IntegerExpr{Value: 2}},
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, b := range chunk.Code {
		if bytecode.Op(b) == bytecode.OpAdd {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a dedicated OpAdd instruction")
	}
}

func TestCompileUnknownCallFallsBackToLoadAndCall(t *testing.T) {
	chunk, err := CompileProgram([]ast.Statement{
		ast.ExprStmt{Expr: ast.CallExpr{FunctionName: "user_fn", Args: []ast.Expression{ast.IntegerExpr{Value: 1}}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var hasLoad, hasCall bool
	for _, b := range chunk.Code {
		switch bytecode.Op(b) {
		case bytecode.OpLoad:
			hasLoad = true
		case bytecode.OpCall:
			hasCall = true
		}
	}
	if !hasLoad || !hasCall {
		t.Fatal("expected Load+Call fallback for a non-canonical function name")
	}
}

func TestCompileFunctionAppendsReturnUnitTail(t *testing.T) {
	fn, err := CompileFunction(ast.FunctionDef{
		Name: "f",
		Body: ast.MastNode{Content: ast.StatementNode{Stmt: ast.BlockStmt{Stmts: nil}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := len(fn.Chunk.Code)
	if bytecode.Op(fn.Chunk.Code[n-1]) != bytecode.OpRet {
		t.Fatalf("expected trailing Ret, got %v", bytecode.Op(fn.Chunk.Code[n-1]))
	}
}

func TestCompileIfWithoutElsePatchesJumpPastThen(t *testing.T) {
	chunk, err := CompileProgram([]ast.Statement{
		ast.IfStmt{
			Cond: ast.IntegerExpr{Value: 1},
			Then: []ast.Statement{ast.ExprStmt{Expr: ast.IntegerExpr{Value: 2}}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytecode.Op(chunk.Code[3]) != bytecode.OpJmpIfFalse {
		t.Fatalf("expected JmpIfFalse at offset 3, got %v", bytecode.Op(chunk.Code[3]))
	}
	target := chunk.ReadU16(4)
	if int(target) != len(chunk.Code) {
		t.Fatalf("expected jump target to land past the then-block, got %d (len %d)", target, len(chunk.Code))
	}
}

func TestCompileBreakOutsideLoopErrors(t *testing.T) {
	_, err := CompileProgram([]ast.Statement{ast.BreakStmt{}})
	if err == nil {
		t.Fatal("expected an error for break outside a loop")
	}
}

func TestCompileForDesugarsWithoutNewOpcodes(t *testing.T) {
	chunk, err := CompileProgram([]ast.Statement{
		ast.ForStmt{
			Var:      "item",
			Iterable: ast.VariableExpr{Name: "items"},
			Body:     []ast.Statement{ast.ExprStmt{Expr: ast.VariableExpr{Name: "item"}}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunk.Code) == 0 {
		t.Fatal("expected a non-empty compiled program")
	}
}

func TestCompileMatchBinderArmTerminatesChain(t *testing.T) {
	_, err := CompileProgram([]ast.Statement{
		ast.MatchStmt{
			Scrutinee: ast.IntegerExpr{Value: 1},
			Arms: []ast.MatchArm{
				{Pattern: ast.IntegerExpr{Value: 1}, Body: []ast.Statement{ast.ExprStmt{Expr: ast.IntegerExpr{Value: 10}}}},
				{Pattern: ast.VariableExpr{Name: "other"}, Body: []ast.Statement{ast.ExprStmt{Expr: ast.VariableExpr{Name: "other"}}}},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
