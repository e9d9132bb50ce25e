package parser

import (
	"testing"

	"github.com/funvibe/arklang/internal/ast"
	"github.com/funvibe/arklang/internal/lexer"
)

func parseSrc(t *testing.T, src string) []ast.Statement {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	stmts, err := Parse(toks, "test.ark")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return stmts
}

func TestParseLetAndArithmeticPrecedence(t *testing.T) {
	stmts := parseSrc(t, `
		let x := 1 + 2 * 3
	`)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	let, ok := stmts[0].(ast.LetStmt)
	if !ok {
		t.Fatalf("expected LetStmt, got %T", stmts[0])
	}
	call, ok := let.Value.(ast.CallExpr)
	if !ok || call.FunctionName != "add" {
		t.Fatalf("expected top-level add call, got %#v", let.Value)
	}
	rhs, ok := call.Args[1].(ast.CallExpr)
	if !ok || rhs.FunctionName != "mul" {
		t.Fatalf("expected mul to bind tighter than add, got %#v", call.Args[1])
	}
}

func TestParseCompoundAssignmentLowersToLet(t *testing.T) {
	stmts := parseSrc(t, `
		let x := 1
		x += 2
	`)
	let, ok := stmts[1].(ast.LetStmt)
	if !ok || let.Name != "x" {
		t.Fatalf("expected compound assignment to lower to LetStmt(x), got %#v", stmts[1])
	}
	call, ok := let.Value.(ast.CallExpr)
	if !ok || call.FunctionName != "add" {
		t.Fatalf("expected add call in compound assignment, got %#v", let.Value)
	}
}

func TestParseIfElseIfChainNests(t *testing.T) {
	stmts := parseSrc(t, `
		if x {
			let a := 1
		} else if y {
			let b := 2
		} else {
			let c := 3
		}
	`)
	top, ok := stmts[0].(ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", stmts[0])
	}
	if len(top.Else) != 1 {
		t.Fatalf("expected else-if to lower to a single nested statement, got %d", len(top.Else))
	}
	if _, ok := top.Else[0].(ast.IfStmt); !ok {
		t.Fatalf("expected nested IfStmt in else clause, got %T", top.Else[0])
	}
}

func TestParsePipeLowersToCallWithSingleArg(t *testing.T) {
	stmts := parseSrc(t, `
		let y := x |> double
	`)
	let := stmts[0].(ast.LetStmt)
	call, ok := let.Value.(ast.CallExpr)
	if !ok || call.FunctionName != "double" {
		t.Fatalf("expected pipe to lower to a call named after the rhs, got %#v", let.Value)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected pipe call to carry exactly the piped value, got %d args", len(call.Args))
	}
	if v, ok := call.Args[0].(ast.VariableExpr); !ok || v.Name != "x" {
		t.Fatalf("expected the piped value as the sole arg, got %#v", call.Args[0])
	}
}

func TestParseDottedCallDropsReceiverFromArgs(t *testing.T) {
	stmts := parseSrc(t, `
		sys.list.append(xs, 1)
	`)
	exprStmt, ok := stmts[0].(ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", stmts[0])
	}
	call, ok := exprStmt.Expr.(ast.CallExpr)
	if !ok || call.FunctionName != "sys.list.append" {
		t.Fatalf("expected dotted call name sys.list.append, got %#v", exprStmt.Expr)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected the receiver dropped and 2 args left, got %d", len(call.Args))
	}
}

func TestParseFunctionBodyIsMastHashed(t *testing.T) {
	stmts := parseSrc(t, `
		func add_one(n) {
			return add(n, 1)
		}
	`)
	decl, ok := stmts[0].(ast.FuncDeclStmt)
	if !ok {
		t.Fatalf("expected FuncDeclStmt, got %T", stmts[0])
	}
	if decl.Def.Name != "add_one" {
		t.Fatalf("expected function name add_one, got %s", decl.Def.Name)
	}
	if len(decl.Def.Inputs) != 1 || decl.Def.Inputs[0].Name != "n" {
		t.Fatalf("expected a single parameter n, got %#v", decl.Def.Inputs)
	}
	var zero [32]byte
	if decl.Def.Body.Hash == zero {
		t.Fatal("expected the function body to carry a non-zero content hash")
	}
	if _, ok := decl.Def.Body.Content.(ast.StatementNode); !ok {
		t.Fatalf("expected the MAST body content to be a StatementNode, got %T", decl.Def.Body.Content)
	}
}

func TestParseWhileLoop(t *testing.T) {
	stmts := parseSrc(t, `
		while x < 10 {
			x += 1
		}
	`)
	loop, ok := stmts[0].(ast.WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", stmts[0])
	}
	cond, ok := loop.Cond.(ast.CallExpr)
	if !ok || cond.FunctionName != "lt" {
		t.Fatalf("expected lt comparison, got %#v", loop.Cond)
	}
}

func TestParseForInLoop(t *testing.T) {
	stmts := parseSrc(t, `
		for item in items {
			print(item)
		}
	`)
	loop, ok := stmts[0].(ast.ForStmt)
	if !ok {
		t.Fatalf("expected ForStmt, got %T", stmts[0])
	}
	if loop.Var != "item" {
		t.Fatalf("expected loop variable item, got %s", loop.Var)
	}
	if iter, ok := loop.Iterable.(ast.VariableExpr); !ok || iter.Name != "items" {
		t.Fatalf("expected iterable items, got %#v", loop.Iterable)
	}
}

func TestParseMatchStatement(t *testing.T) {
	stmts := parseSrc(t, `
		match x {
			1 => print(1),
			other => print(other),
		}
	`)
	m, ok := stmts[0].(ast.MatchStmt)
	if !ok {
		t.Fatalf("expected MatchStmt, got %T", stmts[0])
	}
	if len(m.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(m.Arms))
	}
}

func TestParseTryRetainsCatchClauseButLowersSeparately(t *testing.T) {
	stmts := parseSrc(t, `
		try {
			risky()
		} catch err {
			print(err)
		}
	`)
	tr, ok := stmts[0].(ast.TryStmt)
	if !ok {
		t.Fatalf("expected TryStmt, got %T", stmts[0])
	}
	if tr.CatchName != "err" {
		t.Fatalf("expected catch variable err, got %s", tr.CatchName)
	}
	if len(tr.Try) != 1 || len(tr.Catch) != 1 {
		t.Fatalf("expected one statement in each of try/catch, got %d/%d", len(tr.Try), len(tr.Catch))
	}
}

func TestParseStructLiteralAndFieldAccess(t *testing.T) {
	stmts := parseSrc(t, `
		let p := {x: 1, y: 2}
		let px := p.x
	`)
	let := stmts[0].(ast.LetStmt)
	init, ok := let.Value.(ast.StructInitExpr)
	if !ok || len(init.Fields) != 2 {
		t.Fatalf("expected a 2-field struct literal, got %#v", let.Value)
	}
	get := stmts[1].(ast.LetStmt)
	field, ok := get.Value.(ast.GetFieldExpr)
	if !ok || field.Field != "x" {
		t.Fatalf("expected field access on x, got %#v", get.Value)
	}
}

func TestParseClassDeclLowersFieldsAndMethodNames(t *testing.T) {
	stmts := parseSrc(t, `
		class Point {
			x
			y
			func dist(self) {
				return 0
			}
		}
	`)
	decl, ok := stmts[0].(ast.StructDeclStmt)
	if !ok {
		t.Fatalf("expected StructDeclStmt, got %T", stmts[0])
	}
	if decl.Name != "Point" {
		t.Fatalf("expected class name Point, got %s", decl.Name)
	}
	if len(decl.Fields) != 3 {
		t.Fatalf("expected 2 data fields plus 1 method name, got %d", len(decl.Fields))
	}
}

func TestParseImportDottedPath(t *testing.T) {
	stmts := parseSrc(t, `
		import sys.crypto
	`)
	imp, ok := stmts[0].(ast.ImportStmt)
	if !ok {
		t.Fatalf("expected ImportStmt, got %T", stmts[0])
	}
	if len(imp.Path) != 2 || imp.Path[0] != "sys" || imp.Path[1] != "crypto" {
		t.Fatalf("expected path [sys crypto], got %#v", imp.Path)
	}
}

func TestParseUnterminatedBlockReportsUnexpectedToken(t *testing.T) {
	toks, err := lexer.Tokenize("func f(n) { return n")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, err = Parse(toks, "test.ark")
	if err == nil {
		t.Fatal("expected a parse error for an unterminated block")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != UnexpectedToken {
		t.Fatalf("expected UnexpectedToken, got %#v", err)
	}
}
