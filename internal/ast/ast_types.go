package ast

import "fmt"

// Type is the ArkType tagged union: ownership tags used by the linear
// checker (Linear/Affine/Shared) plus structural types used for display
// and diagnostics (Integer, Float, ...).
type Type interface {
	arkType()
	// IsLinear is true only for the Linear ownership tag.
	IsLinear() bool
	fmt.Stringer
	MarshalJSON() ([]byte, error)
}

// ---- Ownership tags ----

type LinearType struct{ Name string }

func (LinearType) arkType()         {}
func (LinearType) IsLinear() bool   { return true }
func (t LinearType) String() string { return fmt.Sprintf("Linear(%s)", t.Name) }
func (t LinearType) MarshalJSON() ([]byte, error) {
	return tagged1("Linear", t.Name)
}

type AffineType struct{ Name string }

func (AffineType) arkType()       {}
func (AffineType) IsLinear() bool { return false }
func (t AffineType) String() string {
	return fmt.Sprintf("Affine(%s)", t.Name)
}
func (t AffineType) MarshalJSON() ([]byte, error) {
	return tagged1("Affine", t.Name)
}

type SharedType struct{ Name string }

func (SharedType) arkType()       {}
func (SharedType) IsLinear() bool { return false }
func (t SharedType) String() string {
	return fmt.Sprintf("Shared(%s)", t.Name)
}
func (t SharedType) MarshalJSON() ([]byte, error) {
	return tagged1("Shared", t.Name)
}

// ---- Structural types ----

type IntegerType struct{}

func (IntegerType) arkType()         {}
func (IntegerType) IsLinear() bool   { return false }
func (IntegerType) String() string   { return "Int" }
func (IntegerType) MarshalJSON() ([]byte, error) { return []byte(`"Integer"`), nil }

type FloatType struct{}

func (FloatType) arkType()         {}
func (FloatType) IsLinear() bool   { return false }
func (FloatType) String() string   { return "Float" }
func (FloatType) MarshalJSON() ([]byte, error) { return []byte(`"Float"`), nil }

type StringType struct{}

func (StringType) arkType()         {}
func (StringType) IsLinear() bool   { return false }
func (StringType) String() string   { return "Str" }
func (StringType) MarshalJSON() ([]byte, error) { return []byte(`"String"`), nil }

type BooleanType struct{}

func (BooleanType) arkType()         {}
func (BooleanType) IsLinear() bool   { return false }
func (BooleanType) String() string   { return "Bool" }
func (BooleanType) MarshalJSON() ([]byte, error) { return []byte(`"Boolean"`), nil }

type UnitType struct{}

func (UnitType) arkType()         {}
func (UnitType) IsLinear() bool   { return false }
func (UnitType) String() string   { return "Unit" }
func (UnitType) MarshalJSON() ([]byte, error) { return []byte(`"Unit"`), nil }

type AnyType struct{}

func (AnyType) arkType()         {}
func (AnyType) IsLinear() bool   { return false }
func (AnyType) String() string   { return "Any" }
func (AnyType) MarshalJSON() ([]byte, error) { return []byte(`"Any"`), nil }

type UnknownType struct{}

func (UnknownType) arkType()         {}
func (UnknownType) IsLinear() bool   { return false }
func (UnknownType) String() string   { return "Unknown" }
func (UnknownType) MarshalJSON() ([]byte, error) { return []byte(`"Unknown"`), nil }

type ListType struct{ Elem Type }

func (ListType) arkType()       {}
func (ListType) IsLinear() bool { return false }
func (t ListType) String() string {
	return fmt.Sprintf("List<%s>", t.Elem)
}
func (t ListType) MarshalJSON() ([]byte, error) {
	return taggedValue("List", t.Elem)
}

type MapType struct{ Key, Value Type }

func (MapType) arkType()       {}
func (MapType) IsLinear() bool { return false }
func (t MapType) String() string {
	return fmt.Sprintf("Map<%s, %s>", t.Key, t.Value)
}
func (t MapType) MarshalJSON() ([]byte, error) {
	return taggedValue("Map", [2]Type{t.Key, t.Value})
}

type OptionalType struct{ Elem Type }

func (OptionalType) arkType()       {}
func (OptionalType) IsLinear() bool { return false }
func (t OptionalType) String() string {
	return fmt.Sprintf("%s?", t.Elem)
}
func (t OptionalType) MarshalJSON() ([]byte, error) {
	return taggedValue("Optional", t.Elem)
}

type FunctionType struct {
	Params []Type
	Ret    Type
}

func (FunctionType) arkType()       {}
func (FunctionType) IsLinear() bool { return false }
func (t FunctionType) String() string {
	s := "("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + t.Ret.String()
}
func (t FunctionType) MarshalJSON() ([]byte, error) {
	return taggedValue("Function", [2]any{t.Params, t.Ret})
}

// StructField is a single (name, type) struct field declaration.
type StructField struct {
	Name string
	Typ  Type
}

type StructType struct {
	Name   string
	Fields []StructField
}

func (StructType) arkType()       {}
func (StructType) IsLinear() bool { return false }
func (t StructType) String() string { return t.Name }
func (t StructType) MarshalJSON() ([]byte, error) {
	return taggedValue("Struct", [2]any{t.Name, t.Fields})
}
