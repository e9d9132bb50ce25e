package intrinsics

import (
	"os"
	"path/filepath"
	"testing"

	rt "github.com/funvibe/arklang/internal/runtime"
)

func call(t *testing.T, reg Registry, name string, args ...rt.Value) rt.Value {
	t.Helper()
	fn, ok := reg[name]
	if !ok {
		t.Fatalf("no intrinsic registered under %q", name)
	}
	v, err := fn(args)
	if err != nil {
		t.Fatalf("%s(%v) returned error: %v", name, args, err)
	}
	return v
}

func TestArithmeticOnIntegers(t *testing.T) {
	reg := New()
	if v := call(t, reg, "add", rt.Int(2), rt.Int(3)); v.AsInt() != 5 {
		t.Fatalf("expected 5, got %d", v.AsInt())
	}
	if v := call(t, reg, "mod", rt.Int(7), rt.Int(3)); v.AsInt() != 1 {
		t.Fatalf("expected 1, got %d", v.AsInt())
	}
}

func TestDivByZeroErrors(t *testing.T) {
	reg := New()
	_, err := reg["div"]([]rt.Value{rt.Int(1), rt.Int(0)})
	if err == nil {
		t.Fatal("expected an error for division by zero")
	}
}

func TestAddCoercesStringIntegerBoolean(t *testing.T) {
	reg := New()
	if v := call(t, reg, "add", rt.Str("n="), rt.Int(4)); v.AsString() != "n=4" {
		t.Fatalf("expected string concatenation, got %q", v.AsString())
	}
	if v := call(t, reg, "add", rt.Str("ok="), rt.Bool(true)); v.AsString() != "ok=true" {
		t.Fatalf("expected string/boolean concatenation, got %q", v.AsString())
	}
}

func TestComparisonReturnTypeAsymmetry(t *testing.T) {
	reg := New()
	gt := call(t, reg, "gt", rt.Int(5), rt.Int(3))
	if gt.Type != rt.TInteger || gt.AsInt() != 1 {
		t.Fatalf("expected gt to return Integer(1), got %#v", gt)
	}
	lt := call(t, reg, "lt", rt.Int(5), rt.Int(3))
	if lt.Type != rt.TBoolean || lt.AsBool() {
		t.Fatalf("expected lt to return Boolean(false), got %#v", lt)
	}
}

func TestEqMismatchedTypesDefaultToUnequal(t *testing.T) {
	reg := New()
	v := call(t, reg, "eq", rt.Int(1), rt.Str("1"))
	if v.AsInt() != 0 {
		t.Fatalf("expected mismatched types to be unequal, got %#v", v)
	}
}

func TestNeqIsNegationOfEqAndReturnsBoolean(t *testing.T) {
	reg := New()
	v := call(t, reg, "neq", rt.Int(1), rt.Int(2))
	if v.Type != rt.TBoolean || !v.AsBool() {
		t.Fatalf("expected neq to return Boolean(true), got %#v", v)
	}
}

func TestAndOrUseCentralizedTruthy(t *testing.T) {
	reg := New()
	v := call(t, reg, "and", rt.Str("0"), rt.Bool(true))
	if v.AsBool() {
		t.Fatalf("expected \"0\" to be falsy per centralized Truthy, got true")
	}
	v = call(t, reg, "or", rt.Int(0), rt.Str("nonempty"))
	if !v.AsBool() {
		t.Fatal("expected a non-empty string operand to make or true")
	}
}

func TestListGetReturnsValueAndListPair(t *testing.T) {
	reg := New()
	list := rt.List([]rt.Value{rt.Int(10), rt.Int(20), rt.Int(30)})
	pair := call(t, reg, "sys.list.get", list, rt.Int(1))
	items := pair.AsList()
	if len(items) != 2 {
		t.Fatalf("expected a [value, list] pair, got %d items", len(items))
	}
	if items[0].AsInt() != 20 {
		t.Fatalf("expected element 20, got %d", items[0].AsInt())
	}
	if len(items[1].AsList()) != 3 {
		t.Fatalf("expected the threaded-back list to retain all 3 elements, got %d", len(items[1].AsList()))
	}
}

func TestListAppendReturnsSingleUpdatedList(t *testing.T) {
	reg := New()
	list := rt.List([]rt.Value{rt.Int(1)})
	updated := call(t, reg, "sys.list.append", list, rt.Int(2))
	if updated.Type != rt.TList {
		t.Fatalf("expected a single updated list back, got %#v", updated)
	}
	if len(updated.AsList()) != 2 {
		t.Fatalf("expected 2 elements after append, got %d", len(updated.AsList()))
	}
}

func TestLenThreadsValueBack(t *testing.T) {
	reg := New()
	pair := call(t, reg, "sys.len", rt.Str("hello"))
	items := pair.AsList()
	if items[0].AsInt() != 5 {
		t.Fatalf("expected length 5, got %d", items[0].AsInt())
	}
	if items[1].AsString() != "hello" {
		t.Fatalf("expected the original string threaded back, got %q", items[1].AsString())
	}
}

func TestStructGetAndSet(t *testing.T) {
	reg := New()
	s := rt.Struct(map[string]rt.Value{"x": rt.Int(1)})
	pair := call(t, reg, "sys.struct.get", s, rt.Str("x"))
	if pair.AsList()[0].AsInt() != 1 {
		t.Fatalf("expected field x=1, got %#v", pair.AsList()[0])
	}
	updated := call(t, reg, "sys.struct.set", s, rt.Str("y"), rt.Int(2))
	if updated.AsStruct()["y"].AsInt() != 2 {
		t.Fatal("expected field y to be set to 2")
	}
}

func TestStructGetMissingFieldErrors(t *testing.T) {
	reg := New()
	s := rt.Struct(map[string]rt.Value{})
	_, err := reg["sys.struct.get"]([]rt.Value{s, rt.Str("missing")})
	if err == nil {
		t.Fatal("expected an error for a missing struct field")
	}
}

func TestBufferReadWriteRoundTrip(t *testing.T) {
	reg := New()
	buf := call(t, reg, "sys.mem.alloc", rt.Int(4))
	written := call(t, reg, "sys.mem.write", buf, rt.Int(1), rt.Int(42))
	pair := call(t, reg, "sys.mem.read", written, rt.Int(1))
	if pair.AsList()[0].AsInt() != 42 {
		t.Fatalf("expected byte 42 at index 1, got %d", pair.AsList()[0].AsInt())
	}
}

func TestBufferReadOutOfRangeErrors(t *testing.T) {
	reg := New()
	buf := call(t, reg, "sys.mem.alloc", rt.Int(1))
	_, err := reg["sys.mem.read"]([]rt.Value{buf, rt.Int(5)})
	if err == nil {
		t.Fatal("expected an out-of-range buffer read to error")
	}
}

func TestCryptoHashIsDeterministicSHA256Hex(t *testing.T) {
	reg := New()
	v := call(t, reg, "sys.crypto.hash", rt.Str("hello"))
	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if v.AsString() != want {
		t.Fatalf("expected sha256(hello) hex digest, got %s", v.AsString())
	}
}

func TestMerkleRootEmptyListIsEmptyString(t *testing.T) {
	reg := New()
	v := call(t, reg, "sys.crypto.merkle_root", rt.List(nil))
	if v.AsString() != "" {
		t.Fatalf("expected empty merkle root for empty input, got %q", v.AsString())
	}
}

func TestMerkleRootDuplicatesLastLeafOnOddCount(t *testing.T) {
	reg := New()
	three := call(t, reg, "sys.crypto.merkle_root", rt.List([]rt.Value{rt.Str("a"), rt.Str("b"), rt.Str("c")}))
	four := call(t, reg, "sys.crypto.merkle_root", rt.List([]rt.Value{rt.Str("a"), rt.Str("b"), rt.Str("c"), rt.Str("c")}))
	if three.AsString() != four.AsString() {
		t.Fatalf("expected odd-length merkle root to duplicate the last leaf, got %s vs %s", three.AsString(), four.AsString())
	}
}

func TestFsWriteAndReadRoundTrip(t *testing.T) {
	reg := New()
	path := filepath.Join(t.TempDir(), "out.txt")
	call(t, reg, "sys.fs.write", rt.Str(path), rt.Str("payload"))
	v := call(t, reg, "sys.fs.read", rt.Str(path))
	if v.AsString() != "payload" {
		t.Fatalf("expected roundtrip content, got %q", v.AsString())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected the file to exist on disk: %v", err)
	}
}

func TestRangeExclusiveAndInclusive(t *testing.T) {
	reg := New()
	excl := call(t, reg, "range_exclusive", rt.Int(1), rt.Int(4))
	if len(excl.AsList()) != 3 {
		t.Fatalf("expected [1,2,3], got %#v", excl.AsList())
	}
	incl := call(t, reg, "range_inclusive", rt.Int(1), rt.Int(4))
	if len(incl.AsList()) != 4 {
		t.Fatalf("expected [1,2,3,4], got %#v", incl.AsList())
	}
}

func TestGetItemDiscardsLinearPair(t *testing.T) {
	reg := New()
	list := rt.List([]rt.Value{rt.Int(7), rt.Int(8)})
	v := call(t, reg, "get_item", list, rt.Int(0))
	if v.Type != rt.TInteger || v.AsInt() != 7 {
		t.Fatalf("expected plain element 7, got %#v", v)
	}
}

func TestAskAIStubErrorsUntilBridgeWired(t *testing.T) {
	reg := New()
	_, err := reg["sys.ai.ask"]([]rt.Value{rt.Str("prompt")})
	if err == nil {
		t.Fatal("expected the stub to error until internal/bridge supersedes it")
	}
}
