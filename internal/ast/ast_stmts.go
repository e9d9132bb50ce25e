package ast

// Statement is the tagged union of statement forms. Each concrete type's
// MarshalJSON renders the externally-tagged canonical form,
// e.g. `{"Let": {"name": ..., "ty": ..., "value": ...}}`.
type Statement interface {
	arkStatement()
	MarshalJSON() ([]byte, error)
}

// LetStmt binds value to name, optionally declaring an ownership type.
// Ty is nil when no type annotation was written.
type LetStmt struct {
	Name  string
	Ty    Type
	Value Expression
}

func (LetStmt) arkStatement() {}
func (s LetStmt) MarshalJSON() ([]byte, error) {
	return taggedValue("Let", struct {
		Name  string     `json:"name"`
		Ty    Type       `json:"ty"`
		Value Expression `json:"value"`
	}{s.Name, s.Ty, s.Value})
}

// LetDestructureStmt binds each of Names, in order, from the elements of a
// List value (`let (a, b) := expr`).
type LetDestructureStmt struct {
	Names []string
	Value Expression
}

func (LetDestructureStmt) arkStatement() {}
func (s LetDestructureStmt) MarshalJSON() ([]byte, error) {
	return taggedValue("LetDestructure", struct {
		Names []string   `json:"names"`
		Value Expression `json:"value"`
	}{s.Names, s.Value})
}

// SetFieldStmt performs a functional field update on obj_name (`obj.field := value`).
type SetFieldStmt struct {
	ObjName string
	Field   string
	Value   Expression
}

func (SetFieldStmt) arkStatement() {}
func (s SetFieldStmt) MarshalJSON() ([]byte, error) {
	return taggedValue("SetField", struct {
		ObjName string     `json:"obj_name"`
		Field   string     `json:"field"`
		Value   Expression `json:"value"`
	}{s.ObjName, s.Field, s.Value})
}

// ReturnStmt exits the current function with the value of Expr.
type ReturnStmt struct{ Expr Expression }

func (ReturnStmt) arkStatement() {}
func (s ReturnStmt) MarshalJSON() ([]byte, error) { return taggedValue("Return", s.Expr) }

// BlockStmt is a sequence of statements executed in order.
type BlockStmt struct{ Stmts []Statement }

func (BlockStmt) arkStatement() {}
func (s BlockStmt) MarshalJSON() ([]byte, error) { return taggedValue("Block", s.Stmts) }

// ExprStmt evaluates Expr and discards its result.
type ExprStmt struct{ Expr Expression }

func (ExprStmt) arkStatement() {}
func (s ExprStmt) MarshalJSON() ([]byte, error) { return taggedValue("Expression", s.Expr) }

// IfStmt is a conditional. Else is nil when no else clause was written.
type IfStmt struct {
	Cond Expression
	Then []Statement
	Else []Statement
}

func (IfStmt) arkStatement() {}
func (s IfStmt) MarshalJSON() ([]byte, error) {
	return taggedValue("If", struct {
		Condition  Expression  `json:"condition"`
		ThenBlock  []Statement `json:"then_block"`
		ElseBlock  []Statement `json:"else_block"`
	}{s.Cond, s.Then, s.Else})
}

// WhileStmt loops over Body while Cond is truthy.
type WhileStmt struct {
	Cond Expression
	Body []Statement
}

func (WhileStmt) arkStatement() {}
func (s WhileStmt) MarshalJSON() ([]byte, error) {
	return taggedValue("While", struct {
		Condition Expression  `json:"condition"`
		Body      []Statement `json:"body"`
	}{s.Cond, s.Body})
}

// FuncDeclStmt declares a named function at statement position.
type FuncDeclStmt struct{ Def FunctionDef }

func (FuncDeclStmt) arkStatement() {}
func (s FuncDeclStmt) MarshalJSON() ([]byte, error) { return taggedValue("Function", s.Def) }
