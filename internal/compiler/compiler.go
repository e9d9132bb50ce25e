// Package compiler lowers the AST into bytecode.Chunk programs: canonical
// operator names get a dedicated opcode, anything else falls back to a
// named variable load followed by a Call.
package compiler

import (
	"fmt"

	"github.com/funvibe/arklang/internal/ast"
	"github.com/funvibe/arklang/internal/bytecode"
	"github.com/funvibe/arklang/internal/runtime"
)

// Error reports a statement or expression the compiler cannot lower.
type Error struct{ Message string }

func (e *Error) Error() string { return e.Message }

type loopFrame struct {
	continueTarget  int
	haveTarget      bool
	continuePatches []int
	breakPatches    []int
}

// Compiler accumulates bytecode for a single function or top-level chunk.
type Compiler struct {
	chunk       *bytecode.Chunk
	loops       []loopFrame
	loopCounter int
}

// New returns a Compiler with an empty chunk.
func New() *Compiler {
	return &Compiler{chunk: bytecode.New()}
}

// CompileProgram compiles a sequence of top-level statements into one chunk.
func CompileProgram(stmts []ast.Statement) (*bytecode.Chunk, error) {
	c := New()
	for _, s := range stmts {
		if err := c.compileStmt(s); err != nil {
			return nil, err
		}
	}
	return c.chunk, nil
}

// CompileFunction compiles def's body into a runtime.FunctionValue: params
// are stored off the stack in reverse order (the caller pushes arg1..argN,
// so Store must run argN first), and a trailing Push(Unit);Ret guarantees a
// function that falls off its body still returns a value.
func CompileFunction(def ast.FunctionDef) (*runtime.FunctionValue, error) {
	fc := New()
	for i := len(def.Inputs) - 1; i >= 0; i-- {
		fc.emitStore(def.Inputs[i].Name, 0)
	}
	body, ok := def.Body.Content.(ast.StatementNode)
	if !ok {
		return nil, &Error{Message: fmt.Sprintf("function %s body is not a statement node", def.Name)}
	}
	if err := fc.compileStmt(body.Stmt); err != nil {
		return nil, err
	}
	fc.chunk.EmitConstant(bytecode.OpPush, runtime.Unit(), 0)
	fc.chunk.Emit(bytecode.OpRet, 0)

	names := make([]string, len(def.Inputs))
	for i, p := range def.Inputs {
		names[i] = p.Name
	}
	return &runtime.FunctionValue{Name: def.Name, Params: names, Chunk: fc.chunk}, nil
}

func (c *Compiler) emitStore(name string, line int) {
	c.chunk.EmitConstant(bytecode.OpStore, name, line)
}

func (c *Compiler) emitLoad(name string, line int) {
	c.chunk.EmitConstant(bytecode.OpLoad, name, line)
}

// ---- statements ----

func (c *Compiler) compileStmts(stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := c.compileStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileStmt(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case ast.ExprStmt:
		if err := c.compileExpr(s.Expr); err != nil {
			return err
		}
		c.chunk.Emit(bytecode.OpPop, 0)
		return nil

	case ast.BlockStmt:
		return c.compileStmts(s.Stmts)

	case ast.LetStmt:
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.emitStore(s.Name, 0)
		return nil

	case ast.LetDestructureStmt:
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.chunk.Emit(bytecode.OpDestructure, 0)
		for _, name := range s.Names {
			c.emitStore(name, 0)
		}
		return nil

	case ast.SetFieldStmt:
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.emitLoad(s.ObjName, 0)
		c.chunk.EmitConstant(bytecode.OpSetField, s.Field, 0)
		c.emitStore(s.ObjName, 0)
		return nil

	case ast.ReturnStmt:
		if err := c.compileExpr(s.Expr); err != nil {
			return err
		}
		c.chunk.Emit(bytecode.OpRet, 0)
		return nil

	case ast.FuncDeclStmt:
		fn, err := CompileFunction(s.Def)
		if err != nil {
			return err
		}
		c.chunk.EmitConstant(bytecode.OpPush, runtime.Function(fn), 0)
		c.emitStore(s.Def.Name, 0)
		return nil

	case ast.IfStmt:
		return c.compileIf(s)

	case ast.WhileStmt:
		return c.compileWhile(s)

	case ast.ForStmt:
		return c.compileFor(s)

	case ast.MatchStmt:
		return c.compileMatch(s)

	case ast.TryStmt:
		// try/catch lowers to its try block alone.
		return c.compileStmts(s.Try)

	case ast.BreakStmt:
		return c.compileBreak()

	case ast.ContinueStmt:
		return c.compileContinue()

	case ast.ImportStmt, ast.StructDeclStmt:
		return nil

	default:
		return &Error{Message: fmt.Sprintf("compiler: unhandled statement %T", stmt)}
	}
}

func (c *Compiler) compileIf(s ast.IfStmt) error {
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	jumpPos := c.chunk.EmitU16(bytecode.OpJmpIfFalse, 0, 0)
	if err := c.compileStmts(s.Then); err != nil {
		return err
	}
	if s.Else == nil {
		c.chunk.PatchU16(jumpPos+1, uint16(c.chunk.Len()))
		return nil
	}
	elseJumpPos := c.chunk.EmitU16(bytecode.OpJmp, 0, 0)
	c.chunk.PatchU16(jumpPos+1, uint16(c.chunk.Len()))
	if err := c.compileStmts(s.Else); err != nil {
		return err
	}
	c.chunk.PatchU16(elseJumpPos+1, uint16(c.chunk.Len()))
	return nil
}

func (c *Compiler) compileWhile(s ast.WhileStmt) error {
	loopStart := c.chunk.Len()
	c.loops = append(c.loops, loopFrame{continueTarget: loopStart, haveTarget: true})

	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	exitJump := c.chunk.EmitU16(bytecode.OpJmpIfFalse, 0, 0)
	if err := c.compileStmts(s.Body); err != nil {
		return err
	}
	c.chunk.EmitU16(bytecode.OpJmp, uint16(loopStart), 0)
	c.chunk.PatchU16(exitJump+1, uint16(c.chunk.Len()))

	frame := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]
	for _, p := range frame.breakPatches {
		c.chunk.PatchU16(p+1, uint16(c.chunk.Len()))
	}
	return nil
}

// compileFor desugars `for v in iterable { body }` into an index/length
// loop built on sys.len and sys.list.get, threading the (possibly linear)
// list back through the loop exactly as the intrinsics' [value,
// collection] return convention requires. No dedicated iteration opcode
// is needed.
func (c *Compiler) compileFor(s ast.ForStmt) error {
	n := c.loopCounter
	c.loopCounter++
	iterName := fmt.Sprintf("__for_iter_%d", n)
	idxName := fmt.Sprintf("__for_idx_%d", n)
	lenName := fmt.Sprintf("__for_len_%d", n)

	if err := c.compileExpr(s.Iterable); err != nil {
		return err
	}
	c.emitStore(iterName, 0)
	c.chunk.EmitConstant(bytecode.OpPush, int64(0), 0)
	c.emitStore(idxName, 0)

	if err := c.compileExpr(ast.CallExpr{FunctionName: "sys.len", Args: []ast.Expression{ast.VariableExpr{Name: iterName}}}); err != nil {
		return err
	}
	c.chunk.Emit(bytecode.OpDestructure, 0)
	c.emitStore(lenName, 0)
	c.emitStore(iterName, 0)

	loopStart := c.chunk.Len()
	c.loops = append(c.loops, loopFrame{})

	if err := c.compileExpr(ast.CallExpr{FunctionName: "lt", Args: []ast.Expression{
		ast.VariableExpr{Name: idxName}, ast.VariableExpr{Name: lenName},
	}}); err != nil {
		return err
	}
	exitJump := c.chunk.EmitU16(bytecode.OpJmpIfFalse, 0, 0)

	if err := c.compileExpr(ast.CallExpr{FunctionName: "sys.list.get", Args: []ast.Expression{
		ast.VariableExpr{Name: iterName}, ast.VariableExpr{Name: idxName},
	}}); err != nil {
		return err
	}
	c.chunk.Emit(bytecode.OpDestructure, 0)
	c.emitStore(s.Var, 0)
	c.emitStore(iterName, 0)

	if err := c.compileStmts(s.Body); err != nil {
		return err
	}

	incrPos := c.chunk.Len()
	frame := &c.loops[len(c.loops)-1]
	frame.continueTarget = incrPos
	frame.haveTarget = true
	for _, p := range frame.continuePatches {
		c.chunk.PatchU16(p+1, uint16(incrPos))
	}

	if err := c.compileExpr(ast.CallExpr{FunctionName: "add", Args: []ast.Expression{
		ast.VariableExpr{Name: idxName}, ast.IntegerExpr{Value: 1},
	}}); err != nil {
		return err
	}
	c.emitStore(idxName, 0)
	c.chunk.EmitU16(bytecode.OpJmp, uint16(loopStart), 0)
	c.chunk.PatchU16(exitJump+1, uint16(c.chunk.Len()))

	frame = &c.loops[len(c.loops)-1]
	for _, p := range frame.breakPatches {
		c.chunk.PatchU16(p+1, uint16(c.chunk.Len()))
	}
	c.loops = c.loops[:len(c.loops)-1]
	return nil
}

func (c *Compiler) compileBreak() error {
	if len(c.loops) == 0 {
		return &Error{Message: "break outside of a loop"}
	}
	pos := c.chunk.EmitU16(bytecode.OpJmp, 0, 0)
	frame := &c.loops[len(c.loops)-1]
	frame.breakPatches = append(frame.breakPatches, pos)
	return nil
}

func (c *Compiler) compileContinue() error {
	if len(c.loops) == 0 {
		return &Error{Message: "continue outside of a loop"}
	}
	frame := &c.loops[len(c.loops)-1]
	if frame.haveTarget {
		c.chunk.EmitU16(bytecode.OpJmp, uint16(frame.continueTarget), 0)
		return nil
	}
	pos := c.chunk.EmitU16(bytecode.OpJmp, 0, 0)
	frame.continuePatches = append(frame.continuePatches, pos)
	return nil
}

// compileMatch desugars a match statement into binding the scrutinee once,
// then a chain of equality-guarded ifs; a bare-identifier pattern binds and
// short-circuits the chain, matching ast.MatchArm's documented semantics.
func (c *Compiler) compileMatch(s ast.MatchStmt) error {
	n := c.loopCounter
	c.loopCounter++
	scrutName := fmt.Sprintf("__match_%d", n)

	if err := c.compileExpr(s.Scrutinee); err != nil {
		return err
	}
	c.emitStore(scrutName, 0)

	chain := buildMatchChain(s.Arms, 0, scrutName)
	return c.compileStmts(chain)
}

func buildMatchChain(arms []ast.MatchArm, idx int, scrutName string) []ast.Statement {
	if idx >= len(arms) {
		return nil
	}
	arm := arms[idx]
	if v, ok := arm.Pattern.(ast.VariableExpr); ok {
		bind := ast.LetStmt{Name: v.Name, Value: ast.VariableExpr{Name: scrutName}}
		return append([]ast.Statement{bind}, arm.Body...)
	}
	cond := ast.CallExpr{FunctionName: "eq", Args: []ast.Expression{
		ast.VariableExpr{Name: scrutName}, arm.Pattern,
	}}
	return []ast.Statement{ast.IfStmt{
		Cond: cond,
		Then: arm.Body,
		Else: buildMatchChain(arms, idx+1, scrutName),
	}}
}

// ---- expressions ----

// canonicalOps maps the parser's canonical operator names to a dedicated
// opcode. Anything absent here falls back to a named Load+Call.
var canonicalOps = map[string]bytecode.Op{
	"add": bytecode.OpAdd, "sub": bytecode.OpSub, "mul": bytecode.OpMul,
	"div": bytecode.OpDiv, "mod": bytecode.OpMod,
	"eq": bytecode.OpEq, "neq": bytecode.OpNeq,
	"gt": bytecode.OpGt, "lt": bytecode.OpLt, "ge": bytecode.OpGe, "le": bytecode.OpLe,
	"and": bytecode.OpAnd, "or": bytecode.OpOr,
}

func (c *Compiler) compileExpr(expr ast.Expression) error {
	switch e := expr.(type) {
	case ast.IntegerExpr:
		c.chunk.EmitConstant(bytecode.OpPush, e.Value, 0)
		return nil

	case ast.LiteralExpr:
		c.chunk.EmitConstant(bytecode.OpPush, literalValue(e.Lexeme), 0)
		return nil

	case ast.VariableExpr:
		c.emitLoad(e.Name, 0)
		return nil

	case ast.ListExpr:
		for _, item := range e.Items {
			if err := c.compileExpr(item); err != nil {
				return err
			}
		}
		c.chunk.EmitU16(bytecode.OpMakeList, uint16(len(e.Items)), 0)
		return nil

	case ast.StructInitExpr:
		for _, f := range e.Fields {
			if err := c.compileExpr(f.Value); err != nil {
				return err
			}
			c.chunk.EmitConstant(bytecode.OpPush, f.Name, 0)
		}
		c.chunk.EmitU16(bytecode.OpMakeStruct, uint16(len(e.Fields)), 0)
		return nil

	case ast.GetFieldExpr:
		if err := c.compileExpr(e.Obj); err != nil {
			return err
		}
		c.chunk.EmitConstant(bytecode.OpGetField, e.Field, 0)
		return nil

	case ast.CallExpr:
		return c.compileCall(e)

	default:
		return &Error{Message: fmt.Sprintf("compiler: unhandled expression %T", expr)}
	}
}

func (c *Compiler) compileCall(e ast.CallExpr) error {
	if e.FunctionName == "not" && len(e.Args) == 1 {
		if err := c.compileExpr(e.Args[0]); err != nil {
			return err
		}
		c.chunk.Emit(bytecode.OpNot, 0)
		return nil
	}
	if e.FunctionName == "print" {
		for _, arg := range e.Args {
			if err := c.compileExpr(arg); err != nil {
				return err
			}
			c.chunk.Emit(bytecode.OpPrint, 0)
		}
		c.chunk.EmitConstant(bytecode.OpPush, runtime.Unit(), 0)
		return nil
	}
	if op, ok := canonicalOps[e.FunctionName]; ok && len(e.Args) == 2 {
		if err := c.compileExpr(e.Args[0]); err != nil {
			return err
		}
		if err := c.compileExpr(e.Args[1]); err != nil {
			return err
		}
		c.chunk.Emit(op, 0)
		return nil
	}
	for _, arg := range e.Args {
		if err := c.compileExpr(arg); err != nil {
			return err
		}
	}
	c.emitLoad(e.FunctionName, 0)
	c.chunk.EmitU8(bytecode.OpCall, byte(len(e.Args)), 0)
	return nil
}

// literalValue maps a raw lexeme to the constant pushed for it: true/false
// become Booleans, nil/unit become Unit, and every other lexeme (a
// float-looking one included) is pushed as a String. Integer literals never
// reach here; the parser emits IntegerExpr for them.
func literalValue(lexeme string) runtime.Value {
	switch lexeme {
	case "true":
		return runtime.Bool(true)
	case "false":
		return runtime.Bool(false)
	case "nil", "unit":
		return runtime.Unit()
	default:
		return runtime.Str(lexeme)
	}
}
