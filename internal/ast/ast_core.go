// Package ast defines the language's abstract syntax tree: the ArkType
// type-tag union, the ArkNode variants (Function/Statement/Expression/Type),
// and the MastNode wrapper that content-addresses a node by the SHA-256 of
// its canonical JSON serialization.
//
// The AST is a tree, not a graph: a FunctionDef's body is held by value as a
// MastNode, never by a shared or cyclic reference.
package ast

import (
	"encoding/hex"
	"encoding/json"
)

func jsonMarshal(v any) ([]byte, error) { return json.Marshal(v) }

// Node is the ArkNode tagged union: every value placed inside a MastNode is
// one of FunctionNode, StatementNode, ExpressionNode, or TypeNode.
type Node interface {
	arkNode()
	MarshalJSON() ([]byte, error)
}

// MastNode pairs an AST node with the content hash computed over it. It is
// immutable once constructed; there is no mutation API.
type MastNode struct {
	Hash    [32]byte
	Content Node
}

// HexHash returns the lowercase hex encoding of Hash, the canonical external
// representation used in the wire format and diagnostics.
func (m MastNode) HexHash() string {
	return hex.EncodeToString(m.Hash[:])
}

func (m MastNode) MarshalJSON() ([]byte, error) {
	return jsonMarshal(struct {
		Hash    string `json:"hash"`
		Content Node   `json:"content"`
	}{m.HexHash(), m.Content})
}

// Param is a single (name, type) function parameter declaration.
type Param struct {
	Name string
	Typ  Type
}

func (p Param) MarshalJSON() ([]byte, error) {
	return pair(p.Name, p.Typ)
}

// FunctionDef is a named function: its inputs, declared output type, and a
// content-hashed body.
type FunctionDef struct {
	Name   string
	Inputs []Param
	Output Type
	Body   MastNode
}

func (f FunctionDef) MarshalJSON() ([]byte, error) {
	return jsonMarshal(struct {
		Name   string  `json:"name"`
		Inputs []Param `json:"inputs"`
		Output Type    `json:"output"`
		Body   MastNode `json:"body"`
	}{f.Name, f.Inputs, f.Output, f.Body})
}

// FunctionNode wraps a FunctionDef as an ArkNode.
type FunctionNode struct{ Def FunctionDef }

func (FunctionNode) arkNode() {}
func (n FunctionNode) MarshalJSON() ([]byte, error) {
	return taggedValue("Function", n.Def)
}

// StatementNode wraps a Statement as an ArkNode.
type StatementNode struct{ Stmt Statement }

func (StatementNode) arkNode() {}
func (n StatementNode) MarshalJSON() ([]byte, error) {
	return taggedValue("Statement", n.Stmt)
}

// ExpressionNode wraps an Expression as an ArkNode.
type ExpressionNode struct{ Expr Expression }

func (ExpressionNode) arkNode() {}
func (n ExpressionNode) MarshalJSON() ([]byte, error) {
	return taggedValue("Expression", n.Expr)
}

// TypeNode wraps a Type as an ArkNode.
type TypeNode struct{ Typ Type }

func (TypeNode) arkNode() {}
func (n TypeNode) MarshalJSON() ([]byte, error) {
	return taggedValue("Type", n.Typ)
}
