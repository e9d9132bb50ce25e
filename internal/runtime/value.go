// Package runtime defines the VM's Value representation, lexical scopes,
// and the process-wide resource-tracking and memory-accounting singletons.
package runtime

import (
	"fmt"

	"github.com/funvibe/arklang/internal/bytecode"
)

// ValueType identifies which variant of the tagged Value union is active.
type ValueType uint8

const (
	TInteger ValueType = iota
	TString
	TBoolean
	TUnit
	TLinearObject
	TFunction
	TNativeFunction
	TList
	TBuffer
	TStruct
	TReturn
)

func (t ValueType) String() string {
	switch t {
	case TInteger:
		return "Integer"
	case TString:
		return "String"
	case TBoolean:
		return "Boolean"
	case TUnit:
		return "Unit"
	case TLinearObject:
		return "LinearObject"
	case TFunction:
		return "Function"
	case TNativeFunction:
		return "NativeFunction"
	case TList:
		return "List"
	case TBuffer:
		return "Buffer"
	case TStruct:
		return "Struct"
	case TReturn:
		return "Return"
	default:
		return "Unknown"
	}
}

// FunctionValue is a user-defined function: an immutable, sharable handle
// onto its compiled chunk. It is never mutated after construction, so
// plain struct sharing (not deep copy) across pushes is correct.
type FunctionValue struct {
	Name   string
	Params []string
	Chunk  *bytecode.Chunk
}

// NativeFunction is the signature every intrinsic registers under.
type NativeFunction func(args []Value) (Value, error)

// LinearObject is an opaque resource handle threaded through linear-typed
// bindings: id for the resource tracker, typename for diagnostics, payload
// for the intrinsic that owns its shape.
type LinearObject struct {
	ID       string
	Typename string
	Payload  any
}

// Value is a stack-allocatable tagged union: small primitives (Integer,
// Boolean, Unit) live entirely in Data; everything else is held through Obj.
type Value struct {
	Type ValueType
	Data uint64
	Obj  any
}

func Unit() Value               { return Value{Type: TUnit} }
func Int(v int64) Value         { return Value{Type: TInteger, Data: uint64(v)} }
func Bool(v bool) Value {
	var d uint64
	if v {
		d = 1
	}
	return Value{Type: TBoolean, Data: d}
}
func Str(s string) Value             { return Value{Type: TString, Obj: s} }
func List(items []Value) Value       { return Value{Type: TList, Obj: items} }
func Buffer(b []byte) Value          { return Value{Type: TBuffer, Obj: b} }
func Struct(fields map[string]Value) Value { return Value{Type: TStruct, Obj: fields} }
func Function(f *FunctionValue) Value { return Value{Type: TFunction, Obj: f} }
func Native(f NativeFunction) Value   { return Value{Type: TNativeFunction, Obj: f} }
func Linear(o *LinearObject) Value    { return Value{Type: TLinearObject, Obj: o} }
func Returned(v Value) Value          { return Value{Type: TReturn, Obj: &v} }

func (v Value) AsInt() int64   { return int64(v.Data) }
func (v Value) AsBool() bool   { return v.Data == 1 }
func (v Value) AsString() string {
	s, _ := v.Obj.(string)
	return s
}
func (v Value) AsList() []Value {
	l, _ := v.Obj.([]Value)
	return l
}
func (v Value) AsBuffer() []byte {
	b, _ := v.Obj.([]byte)
	return b
}
func (v Value) AsStruct() map[string]Value {
	m, _ := v.Obj.(map[string]Value)
	return m
}
func (v Value) AsFunction() *FunctionValue {
	f, _ := v.Obj.(*FunctionValue)
	return f
}
func (v Value) AsNative() NativeFunction {
	f, _ := v.Obj.(NativeFunction)
	return f
}
func (v Value) AsLinearObject() *LinearObject {
	o, _ := v.Obj.(*LinearObject)
	return o
}
func (v Value) AsReturn() Value {
	p, _ := v.Obj.(*Value)
	if p == nil {
		return Unit()
	}
	return *p
}

// IsLinear reports the linearity predicate:
// Integer/Boolean/Unit/String/Function/NativeFunction are non-linear;
// List/Buffer/Struct/LinearObject are linear-capable; Return inherits from
// the boxed value.
func (v Value) IsLinear() bool {
	switch v.Type {
	case TList, TBuffer, TStruct, TLinearObject:
		return true
	case TReturn:
		return v.AsReturn().IsLinear()
	default:
		return false
	}
}

// Clone produces a value with no aliasing back to v's heap data: no value
// may be aliased across scope boundaries by reference.
// Function/NativeFunction/LinearObject handles are shared, not deep
// copied — they are immutable (or externally owned) resource references,
// not mutable containers.
func (v Value) Clone() Value {
	switch v.Type {
	case TList:
		items := v.AsList()
		cloned := make([]Value, len(items))
		for i, item := range items {
			cloned[i] = item.Clone()
		}
		return List(cloned)
	case TBuffer:
		b := v.AsBuffer()
		cloned := make([]byte, len(b))
		copy(cloned, b)
		return Buffer(cloned)
	case TStruct:
		fields := v.AsStruct()
		cloned := make(map[string]Value, len(fields))
		for k, f := range fields {
			cloned[k] = f.Clone()
		}
		return Struct(cloned)
	case TReturn:
		inner := v.AsReturn().Clone()
		return Returned(inner)
	default:
		return v
	}
}

// Truthy is the single predicate used by JmpIfFalse, And, and Or (Not
// accepts only Boolean operands and does not use it): integer != 0,
// boolean as-is, non-empty string other than "0"/"false", else false.
func Truthy(v Value) bool {
	switch v.Type {
	case TInteger:
		return v.AsInt() != 0
	case TBoolean:
		return v.AsBool()
	case TString:
		s := v.AsString()
		return s != "" && s != "0" && s != "false"
	default:
		return false
	}
}

// Inspect renders a human-readable form, used by the Print opcode.
func (v Value) Inspect() string {
	switch v.Type {
	case TInteger:
		return fmt.Sprintf("%d", v.AsInt())
	case TBoolean:
		return fmt.Sprintf("%t", v.AsBool())
	case TUnit:
		return "unit"
	case TString:
		return v.AsString()
	case TList:
		items := v.AsList()
		s := "["
		for i, it := range items {
			if i > 0 {
				s += ", "
			}
			s += it.Inspect()
		}
		return s + "]"
	case TBuffer:
		return fmt.Sprintf("<buffer %d bytes>", len(v.AsBuffer()))
	case TStruct:
		return fmt.Sprintf("<struct %d fields>", len(v.AsStruct()))
	case TLinearObject:
		o := v.AsLinearObject()
		return fmt.Sprintf("<%s#%s>", o.Typename, o.ID)
	case TFunction:
		return fmt.Sprintf("<function %s>", v.AsFunction().Name)
	case TNativeFunction:
		return "<native function>"
	case TReturn:
		return v.AsReturn().Inspect()
	default:
		return "<?>"
	}
}
