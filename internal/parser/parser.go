// Package parser implements a recursive-descent parser over a flat token
// stream, producing the ast package's tagged-union Statement/Expression
// trees and wrapping function bodies in content-hashed MastNodes.
package parser

import (
	"strconv"

	"github.com/funvibe/arklang/internal/ast"
	"github.com/funvibe/arklang/internal/mast"
	"github.com/funvibe/arklang/internal/token"
)

// Parser holds the token stream and a shared position cursor.
type Parser struct {
	tokens []token.Token
	pos    int
	file   string
}

// New returns a Parser over toks, attributing errors to file.
func New(toks []token.Token, file string) *Parser {
	return &Parser{tokens: toks, file: file}
}

// Parse parses a full program: a sequence of top-level statements.
func Parse(toks []token.Token, file string) ([]ast.Statement, error) {
	return New(toks, file).ParseProgram()
}

func (p *Parser) ParseProgram() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for !p.atEnd() {
		if p.check(token.DOC_COMMENT) {
			p.advance()
			continue
		}
		if p.atEnd() {
			break
		}
		stmt, err := p.topLevelItem()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) peek() token.Token   { return p.tokens[p.pos] }
func (p *Parser) atEnd() bool         { return p.peek().Kind == token.EOF }
func (p *Parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.check(k) {
		return p.advance(), nil
	}
	t := p.peek()
	return token.Token{}, &Error{
		Kind: UnexpectedToken, Expected: k.String(), Found: t.Kind.String(),
		Line: t.Pos.Line, Col: t.Pos.Col, File: p.file,
	}
}

func (p *Parser) expectIdent(what string) (string, error) {
	t := p.peek()
	if t.Kind != token.IDENT {
		return "", &Error{
			Kind: UnexpectedToken, Expected: what, Found: t.Kind.String(),
			Line: t.Pos.Line, Col: t.Pos.Col, File: p.file,
		}
	}
	p.advance()
	return t.Lexeme, nil
}

func (p *Parser) syntaxErr(msg string, at token.Token) error {
	return &Error{Kind: Syntax, Message: msg, Line: at.Pos.Line, Col: at.Pos.Col, File: p.file}
}

// ---- top level ----

func (p *Parser) topLevelItem() (ast.Statement, error) {
	switch p.peek().Kind {
	case token.FUNC:
		return p.functionDef()
	case token.CLASS, token.STRUCT:
		return p.classDef()
	default:
		return p.statement()
	}
}

func (p *Parser) functionDef() (ast.Statement, error) {
	if _, err := p.expect(token.FUNC); err != nil {
		return nil, err
	}
	nameTok := p.peek()
	name, err := p.expectIdent("function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Param
	if !p.check(token.RPAREN) {
		for {
			pname, err := p.expectIdent("parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Param{Name: pname, Typ: ast.AnyType{}})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	bodyNode := ast.StatementNode{Stmt: ast.BlockStmt{Stmts: body}}
	node, err := mast.New(bodyNode)
	if err != nil {
		return nil, &Error{Kind: MastConstruction, Message: err.Error(), Line: nameTok.Pos.Line, Col: nameTok.Pos.Col, File: p.file}
	}
	return ast.FuncDeclStmt{Def: ast.FunctionDef{
		Name: name, Inputs: params, Output: ast.AnyType{}, Body: node,
	}}, nil
}

func (p *Parser) classDef() (ast.Statement, error) {
	p.advance() // class or struct
	name, err := p.expectIdent("class name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var fields []ast.Param
	for !p.check(token.RBRACE) && !p.atEnd() {
		if p.check(token.DOC_COMMENT) {
			p.advance()
			continue
		}
		if p.check(token.FUNC) {
			method, err := p.functionDef()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.Param{Name: method.(ast.FuncDeclStmt).Def.Name, Typ: ast.AnyType{}})
			continue
		}
		if p.check(token.IDENT) {
			fname, _ := p.expectIdent("field name")
			fields = append(fields, ast.Param{Name: fname, Typ: ast.AnyType{}})
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.StructDeclStmt{Name: name, Fields: fields}, nil
}

// ---- statements ----

func (p *Parser) statement() (ast.Statement, error) {
	switch p.peek().Kind {
	case token.LET:
		return p.letStmt()
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.FOR:
		return p.forStmt()
	case token.RETURN:
		return p.returnStmt()
	case token.IMPORT:
		return p.importStmt()
	case token.MATCH:
		return p.matchStmt()
	case token.TRY:
		return p.tryStmt()
	case token.BREAK:
		p.advance()
		return ast.BreakStmt{}, nil
	case token.CONTINUE:
		p.advance()
		return ast.ContinueStmt{}, nil
	case token.FUNC:
		return p.functionDef()
	default:
		return p.exprOrAssign()
	}
}

func (p *Parser) letStmt() (ast.Statement, error) {
	p.advance()
	if p.check(token.LPAREN) {
		p.advance()
		var names []string
		for {
			n, err := p.expectIdent("identifier")
			if err != nil {
				return nil, err
			}
			names = append(names, n)
			if !p.match(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ASSIGN); err != nil {
			return nil, err
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		return ast.LetDestructureStmt{Names: names, Value: value}, nil
	}
	name, err := p.expectIdent("variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return ast.LetStmt{Name: name, Value: value}, nil
}

func (p *Parser) ifStmt() (ast.Statement, error) {
	p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	var els []ast.Statement
	if p.match(token.ELSE) {
		if p.check(token.IF) {
			nested, err := p.ifStmt()
			if err != nil {
				return nil, err
			}
			els = []ast.Statement{nested}
		} else {
			els, err = p.block()
			if err != nil {
				return nil, err
			}
		}
	} else {
		els = nil
	}
	return ast.IfStmt{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) whileStmt() (ast.Statement, error) {
	p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Cond: cond, Body: body}, nil
}

func (p *Parser) forStmt() (ast.Statement, error) {
	p.advance()
	v, err := p.expectIdent("loop variable")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iter, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.ForStmt{Var: v, Iterable: iter, Body: body}, nil
}

func (p *Parser) returnStmt() (ast.Statement, error) {
	keyword := p.advance()
	if p.check(token.RBRACE) || p.atEnd() || p.peek().Pos.Line != keyword.Pos.Line {
		return ast.ReturnStmt{Expr: ast.LiteralExpr{Lexeme: "unit"}}, nil
	}
	val, err := p.expression()
	if err != nil {
		return nil, err
	}
	return ast.ReturnStmt{Expr: val}, nil
}

func (p *Parser) importStmt() (ast.Statement, error) {
	p.advance()
	var parts []string
	first, err := p.expectIdent("module name")
	if err != nil {
		return nil, err
	}
	parts = append(parts, first)
	for p.match(token.DOT) {
		part, err := p.expectIdent("module name")
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return ast.ImportStmt{Path: parts}, nil
}

func (p *Parser) matchStmt() (ast.Statement, error) {
	p.advance()
	scrutinee, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var arms []ast.MatchArm
	for !p.check(token.RBRACE) && !p.atEnd() {
		pat, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.FATARROW); err != nil {
			return nil, err
		}
		var body []ast.Statement
		if p.check(token.LBRACE) {
			body, err = p.block()
			if err != nil {
				return nil, err
			}
		} else {
			expr, err := p.expression()
			if err != nil {
				return nil, err
			}
			body = []ast.Statement{ast.ExprStmt{Expr: expr}}
			p.match(token.COMMA)
		}
		arms = append(arms, ast.MatchArm{Pattern: pat, Body: body})
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.MatchStmt{Scrutinee: scrutinee, Arms: arms}, nil
}

// tryStmt lowers to a plain block at compile time (the bytecode has no
// exception-propagation opcode); the parser still records the catch
// clause for source fidelity.
func (p *Parser) tryStmt() (ast.Statement, error) {
	p.advance()
	tryBlock, err := p.block()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CATCH); err != nil {
		return nil, err
	}
	catchName, err := p.expectIdent("catch variable")
	if err != nil {
		return nil, err
	}
	catchBlock, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.TryStmt{Try: tryBlock, CatchName: catchName, Catch: catchBlock}, nil
}

// exprOrAssign handles bare-expression statements plus the three statement
// forms that reuse the leading-expression grammar: `name := expr`,
// `obj.field := expr`, and compound assignment `name op= rhs`.
func (p *Parser) exprOrAssign() (ast.Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	switch p.peek().Kind {
	case token.ASSIGN:
		p.advance()
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		switch e := expr.(type) {
		case ast.VariableExpr:
			return ast.LetStmt{Name: e.Name, Value: value}, nil
		case ast.GetFieldExpr:
			if obj, ok := e.Obj.(ast.VariableExpr); ok {
				return ast.SetFieldStmt{ObjName: obj.Name, Field: e.Field, Value: value}, nil
			}
			return ast.ExprStmt{Expr: value}, nil
		default:
			return ast.ExprStmt{Expr: value}, nil
		}
	case token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ:
		opTok := p.advance()
		rhs, err := p.expression()
		if err != nil {
			return nil, err
		}
		opName := map[token.Kind]string{
			token.PLUS_EQ: "add", token.MINUS_EQ: "sub",
			token.STAR_EQ: "mul", token.SLASH_EQ: "div",
		}[opTok.Kind]
		if v, ok := expr.(ast.VariableExpr); ok {
			return ast.LetStmt{Name: v.Name, Value: ast.CallExpr{
				FunctionName: opName, Args: []ast.Expression{v, rhs},
			}}, nil
		}
		return ast.ExprStmt{Expr: rhs}, nil
	default:
		return ast.ExprStmt{Expr: expr}, nil
	}
}

func (p *Parser) block() ([]ast.Statement, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for !p.check(token.RBRACE) && !p.atEnd() {
		if p.check(token.DOC_COMMENT) {
			p.advance()
			continue
		}
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return stmts, nil
}

// ---- expressions: precedence climbing, lowest to highest ----

func (p *Parser) expression() (ast.Expression, error) { return p.pipeExpr() }

func (p *Parser) pipeExpr() (ast.Expression, error) {
	left, err := p.orExpr()
	if err != nil {
		return nil, err
	}
	for p.check(token.PIPE) {
		p.advance()
		right, err := p.orExpr()
		if err != nil {
			return nil, err
		}
		name := "__pipe__"
		if v, ok := right.(ast.VariableExpr); ok {
			name = v.Name
		}
		left = ast.CallExpr{FunctionName: name, Args: []ast.Expression{left}}
	}
	return left, nil
}

func (p *Parser) orExpr() (ast.Expression, error) {
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.check(token.OROR) || p.check(token.OR) {
		p.advance()
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		left = ast.CallExpr{FunctionName: "or", Args: []ast.Expression{left, right}}
	}
	return left, nil
}

func (p *Parser) andExpr() (ast.Expression, error) {
	left, err := p.comparisonExpr()
	if err != nil {
		return nil, err
	}
	for p.check(token.ANDAND) || p.check(token.AND) {
		p.advance()
		right, err := p.comparisonExpr()
		if err != nil {
			return nil, err
		}
		left = ast.CallExpr{FunctionName: "and", Args: []ast.Expression{left, right}}
	}
	return left, nil
}

var comparisonOps = map[token.Kind]string{
	token.GT: "gt", token.LT: "lt", token.GE: "ge",
	token.LE: "le", token.EQL: "eq", token.NEQ: "neq",
}

func (p *Parser) comparisonExpr() (ast.Expression, error) {
	left, err := p.rangeExpr()
	if err != nil {
		return nil, err
	}
	for {
		name, ok := comparisonOps[p.peek().Kind]
		if !ok {
			break
		}
		p.advance()
		right, err := p.rangeExpr()
		if err != nil {
			return nil, err
		}
		left = ast.CallExpr{FunctionName: name, Args: []ast.Expression{left, right}}
	}
	return left, nil
}

func (p *Parser) rangeExpr() (ast.Expression, error) {
	left, err := p.sumExpr()
	if err != nil {
		return nil, err
	}
	switch p.peek().Kind {
	case token.DOTDOT:
		p.advance()
		right, err := p.sumExpr()
		if err != nil {
			return nil, err
		}
		return ast.CallExpr{FunctionName: "range_exclusive", Args: []ast.Expression{left, right}}, nil
	case token.DOTDOTEQ:
		p.advance()
		right, err := p.sumExpr()
		if err != nil {
			return nil, err
		}
		return ast.CallExpr{FunctionName: "range_inclusive", Args: []ast.Expression{left, right}}, nil
	default:
		return left, nil
	}
}

func (p *Parser) sumExpr() (ast.Expression, error) {
	left, err := p.productExpr()
	if err != nil {
		return nil, err
	}
	for {
		var name string
		switch p.peek().Kind {
		case token.PLUS:
			name = "add"
		case token.MINUS:
			name = "sub"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.productExpr()
		if err != nil {
			return nil, err
		}
		left = ast.CallExpr{FunctionName: name, Args: []ast.Expression{left, right}}
	}
}

func (p *Parser) productExpr() (ast.Expression, error) {
	left, err := p.unaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		var name string
		switch p.peek().Kind {
		case token.STAR:
			name = "mul"
		case token.SLASH:
			name = "div"
		case token.PERCENT:
			name = "mod"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		left = ast.CallExpr{FunctionName: name, Args: []ast.Expression{left, right}}
	}
}

func (p *Parser) unaryExpr() (ast.Expression, error) {
	var name string
	switch p.peek().Kind {
	case token.BANG:
		name = "not"
	case token.MINUS:
		name = "neg"
	case token.TILDE:
		name = "bit_not"
	default:
		return p.postfixExpr()
	}
	p.advance()
	operand, err := p.unaryExpr()
	if err != nil {
		return nil, err
	}
	return ast.CallExpr{FunctionName: name, Args: []ast.Expression{operand}}, nil
}

func dottedName(e ast.Expression, field string) (string, bool) {
	switch n := e.(type) {
	case ast.VariableExpr:
		return n.Name + "." + field, true
	case ast.GetFieldExpr:
		if base, ok := n.Obj.(ast.VariableExpr); ok {
			return base.Name + "." + n.Field + "." + field, true
		}
		return field, false
	default:
		return field, false
	}
}

func (p *Parser) postfixExpr() (ast.Expression, error) {
	expr, err := p.primaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Kind {
		case token.DOT:
			p.advance()
			field, err := p.expectIdent("field name")
			if err != nil {
				return nil, err
			}
			if p.check(token.LPAREN) {
				p.advance()
				args := []ast.Expression{expr}
				if !p.check(token.RPAREN) {
					for {
						arg, err := p.expression()
						if err != nil {
							return nil, err
						}
						args = append(args, arg)
						if !p.match(token.COMMA) {
							break
						}
					}
				}
				if _, err := p.expect(token.RPAREN); err != nil {
					return nil, err
				}
				fullName, dotted := dottedName(expr, field)
				callArgs := args
				if dotted {
					callArgs = args[1:]
				}
				expr = ast.CallExpr{FunctionName: fullName, Args: callArgs}
			} else {
				expr = ast.GetFieldExpr{Obj: expr, Field: field}
			}
		case token.OPTCHAIN:
			p.advance()
			field, err := p.expectIdent("field name")
			if err != nil {
				return nil, err
			}
			expr = ast.GetFieldExpr{Obj: expr, Field: field}
		case token.LPAREN:
			p.advance()
			var args []ast.Expression
			if !p.check(token.RPAREN) {
				for {
					arg, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.match(token.COMMA) {
						break
					}
				}
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			name := "__call__"
			if v, ok := expr.(ast.VariableExpr); ok {
				name = v.Name
			}
			expr = ast.CallExpr{FunctionName: name, Args: args}
		case token.LBRACKET:
			p.advance()
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			expr = ast.CallExpr{FunctionName: "get_item", Args: []ast.Expression{expr, idx}}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) primaryExpr() (ast.Expression, error) {
	t := p.peek()
	switch t.Kind {
	case token.INT:
		p.advance()
		n, err := strconv.ParseInt(t.Lexeme, 10, 64)
		if err != nil {
			return nil, p.syntaxErr("malformed integer literal "+t.Lexeme, t)
		}
		return ast.IntegerExpr{Value: n}, nil
	case token.FLOAT:
		p.advance()
		return ast.LiteralExpr{Lexeme: t.Lexeme}, nil
	case token.STRING, token.MULTISTRING:
		p.advance()
		return ast.LiteralExpr{Lexeme: t.Lexeme}, nil
	case token.FSTRING:
		// Interpolation is not implemented; the raw text (placeholders and
		// all) is carried through as an opaque string literal.
		p.advance()
		return ast.LiteralExpr{Lexeme: t.Lexeme}, nil
	case token.IDENT:
		p.advance()
		return ast.VariableExpr{Name: t.Lexeme}, nil
	case token.TRUE:
		p.advance()
		return ast.LiteralExpr{Lexeme: "true"}, nil
	case token.FALSE:
		p.advance()
		return ast.LiteralExpr{Lexeme: "false"}, nil
	case token.NIL:
		p.advance()
		return ast.LiteralExpr{Lexeme: "nil"}, nil
	case token.LPAREN:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBRACKET:
		p.advance()
		var items []ast.Expression
		if !p.check(token.RBRACKET) {
			for {
				item, err := p.expression()
				if err != nil {
					return nil, err
				}
				items = append(items, item)
				if !p.match(token.COMMA) {
					break
				}
			}
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		return ast.ListExpr{Items: items}, nil
	case token.LBRACE:
		p.advance()
		var fields []ast.StructInitField
		if !p.check(token.RBRACE) {
			for {
				key, err := p.expectIdent("field name")
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(token.COLON); err != nil {
					return nil, err
				}
				value, err := p.expression()
				if err != nil {
					return nil, err
				}
				fields = append(fields, ast.StructInitField{Name: key, Value: value})
				if !p.match(token.COMMA) {
					break
				}
			}
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return ast.StructInitExpr{Fields: fields}, nil
	default:
		return nil, p.syntaxErr("expected expression, found "+t.Kind.String(), t)
	}
}
