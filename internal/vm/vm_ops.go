package vm

import (
	"os"

	"github.com/funvibe/arklang/internal/bytecode"
	rt "github.com/funvibe/arklang/internal/runtime"
)

var defaultOut = os.Stdout

// binaryOp pops b then a (right operand pushed last) and dispatches to
// the dedicated opcode's semantics.
func (vm *VM) binaryOp(op bytecode.Op) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	result, err := evalBinary(op, a, b)
	if err != nil {
		return err
	}
	return vm.push(result)
}

// evalBinary implements each opcode's semantics directly rather than
// delegating to internal/intrinsics: these are VM-level operations (the
// compiler only falls back to Load+Call for names it doesn't recognize as
// canonical operators — see internal/compiler's canonicalOps table). The
// asymmetric-return rules and the Integer/String/Boolean coercions match
// internal/intrinsics's corresponding functions, with two differences:
// arithAdd stringifies an operand of any type (via Inspect) when the other
// is a String, where intrinsics' add accepts only an Integer or Boolean
// beside a String; and Eq gives 1 for Unit == Unit, where intrinsics' eq
// gives 0.
func evalBinary(op bytecode.Op, a, b rt.Value) (rt.Value, error) {
	switch op {
	case bytecode.OpAdd:
		return arithAdd(a, b)
	case bytecode.OpSub:
		return arithIntOnly(a, b, "sub", func(x, y int64) int64 { return x - y })
	case bytecode.OpMul:
		return arithIntOnly(a, b, "mul", func(x, y int64) int64 { return x * y })
	case bytecode.OpDiv:
		if b.Type == rt.TInteger && b.AsInt() == 0 {
			return rt.Value{}, rt.NewError(rt.NotExecutable, "division by zero")
		}
		return arithIntOnly(a, b, "div", func(x, y int64) int64 { return x / y })
	case bytecode.OpMod:
		if b.Type == rt.TInteger && b.AsInt() == 0 {
			return rt.Value{}, rt.NewError(rt.NotExecutable, "modulo by zero")
		}
		return arithIntOnly(a, b, "mod", func(x, y int64) int64 { return x % y })
	case bytecode.OpEq:
		return intBoolEq(a, b), nil
	case bytecode.OpNeq:
		eq := intBoolEq(a, b)
		return rt.Bool(eq.AsInt() == 0), nil
	case bytecode.OpGt:
		return compareIntBool(a, b, "gt", func(c int) bool { return c > 0 })
	case bytecode.OpGe:
		return compareIntBool(a, b, "ge", func(c int) bool { return c >= 0 })
	case bytecode.OpLe:
		return compareIntBool(a, b, "le", func(c int) bool { return c <= 0 })
	case bytecode.OpLt:
		// Lt returns Boolean, not the Integer(0|1) the other comparisons
		// use — deliberately not normalized, programs can observe it.
		return compareBool(a, b, func(c int) bool { return c < 0 })
	case bytecode.OpAnd:
		return rt.Bool(rt.Truthy(a) && rt.Truthy(b)), nil
	case bytecode.OpOr:
		return rt.Bool(rt.Truthy(a) || rt.Truthy(b)), nil
	default:
		return rt.Value{}, rt.NewError(rt.InvalidOperation, "not a binary opcode")
	}
}

func arithAdd(a, b rt.Value) (rt.Value, error) {
	switch {
	case a.Type == rt.TInteger && b.Type == rt.TInteger:
		return rt.Int(a.AsInt() + b.AsInt()), nil
	case a.Type == rt.TString || b.Type == rt.TString:
		return rt.Str(stringify(a) + stringify(b)), nil
	default:
		return rt.Value{}, rt.NewTypeMismatch("Integer or String", a.Type.String())
	}
}

func stringify(v rt.Value) string {
	switch v.Type {
	case rt.TString:
		return v.AsString()
	default:
		return v.Inspect()
	}
}

func arithIntOnly(a, b rt.Value, name string, f func(int64, int64) int64) (rt.Value, error) {
	if a.Type != rt.TInteger || b.Type != rt.TInteger {
		return rt.Value{}, rt.NewTypeMismatch("Integer", a.Type.String())
	}
	return rt.Int(f(a.AsInt(), b.AsInt())), nil
}

func intBoolFrom(b bool) rt.Value {
	if b {
		return rt.Int(1)
	}
	return rt.Int(0)
}

func intBoolEq(a, b rt.Value) rt.Value {
	switch {
	case a.Type == rt.TInteger && b.Type == rt.TInteger:
		return intBoolFrom(a.AsInt() == b.AsInt())
	case a.Type == rt.TString && b.Type == rt.TString:
		return intBoolFrom(a.AsString() == b.AsString())
	case a.Type == rt.TBoolean && b.Type == rt.TBoolean:
		return intBoolFrom(a.AsBool() == b.AsBool())
	case a.Type == rt.TUnit && b.Type == rt.TUnit:
		return rt.Int(1)
	default:
		return rt.Int(0)
	}
}

func orderedStrings(a, b rt.Value) (string, string, bool) {
	switch {
	case a.Type == rt.TString && b.Type == rt.TString:
		return a.AsString(), b.AsString(), true
	case a.Type == rt.TString && b.Type == rt.TInteger:
		return a.AsString(), b.Inspect(), true
	case a.Type == rt.TInteger && b.Type == rt.TString:
		return a.Inspect(), b.AsString(), true
	}
	return "", "", false
}

func compareIntBool(a, b rt.Value, name string, test func(int) bool) (rt.Value, error) {
	if a.Type == rt.TInteger && b.Type == rt.TInteger {
		return intBoolFrom(test(cmpInt(a.AsInt(), b.AsInt()))), nil
	}
	if sa, sb, ok := orderedStrings(a, b); ok {
		return intBoolFrom(test(cmpStr(sa, sb))), nil
	}
	return rt.Value{}, rt.NewTypeMismatch("Integer or String", a.Type.String())
}

func compareBool(a, b rt.Value, test func(int) bool) (rt.Value, error) {
	if a.Type == rt.TInteger && b.Type == rt.TInteger {
		return rt.Bool(test(cmpInt(a.AsInt(), b.AsInt()))), nil
	}
	if sa, sb, ok := orderedStrings(a, b); ok {
		return rt.Bool(test(cmpStr(sa, sb))), nil
	}
	return rt.Value{}, rt.NewTypeMismatch("Integer or String", a.Type.String())
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpStr(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (vm *VM) notOp() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if v.Type != rt.TBoolean {
		return rt.NewTypeMismatch("Boolean", v.Type.String())
	}
	return vm.push(rt.Bool(!v.AsBool()))
}

// destructureOp pops a List and pushes its items in reverse so the
// leftmost declared name (the first Store the compiler emits) lands on
// the topmost element.
func (vm *VM) destructureOp() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if v.Type != rt.TList {
		return rt.NewTypeMismatch("List", v.Type.String())
	}
	items := v.AsList()
	for i := len(items) - 1; i >= 0; i-- {
		if err := vm.push(items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) makeListOp(n int) error {
	items := make([]rt.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return err
		}
		items[i] = v
	}
	return vm.push(rt.List(items))
}

func (vm *VM) makeStructOp(n int) error {
	fields := make(map[string]rt.Value, n)
	for i := 0; i < n; i++ {
		key, err := vm.pop()
		if err != nil {
			return err
		}
		val, err := vm.pop()
		if err != nil {
			return err
		}
		fields[key.AsString()] = val
	}
	return vm.push(rt.Struct(fields))
}

func (vm *VM) getFieldOp(name string) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if v.Type != rt.TStruct {
		return rt.NewTypeMismatch("Struct", v.Type.String())
	}
	fv, ok := v.AsStruct()[name]
	if !ok {
		return rt.NewError(rt.InvalidOperation, "no such field: "+name)
	}
	return vm.push(fv.Clone())
}

func (vm *VM) setFieldOp(name string) error {
	obj, err := vm.pop()
	if err != nil {
		return err
	}
	val, err := vm.pop()
	if err != nil {
		return err
	}
	if obj.Type != rt.TStruct {
		return rt.NewTypeMismatch("Struct", obj.Type.String())
	}
	src := obj.AsStruct()
	updated := make(map[string]rt.Value, len(src)+1)
	for k, v := range src {
		updated[k] = v
	}
	updated[name] = val
	return vm.push(rt.Struct(updated))
}
