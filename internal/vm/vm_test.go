package vm

import (
	"bytes"
	"strings"
	"testing"

	rt "github.com/funvibe/arklang/internal/runtime"
)

// The tests below run small programs end to end:
// source -> lexer -> parser -> compiler -> VM.

func TestArithmeticSum(t *testing.T) {
	v, err := RunSource(`return 5 + 3`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type != rt.TInteger || v.AsInt() != 8 {
		t.Fatalf("got %v, want Integer(8)", v.Inspect())
	}
}

func TestLetBindingsAndReturn(t *testing.T) {
	v, err := RunSource(`
let x := 10
let y := 32
return x + y
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type != rt.TInteger || v.AsInt() != 42 {
		t.Fatalf("got %v, want Integer(42)", v.Inspect())
	}
}

func TestIdentityFunction(t *testing.T) {
	v, err := RunSource(`
func id(x) {
	return x
}
return id(7)
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type != rt.TInteger || v.AsInt() != 7 {
		t.Fatalf("got %v, want Integer(7)", v.Inspect())
	}
}

func TestLenOnListReturnsValueAndList(t *testing.T) {
	v, err := RunSource(`
let xs := [1, 2, 3]
return sys.len(xs)
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type != rt.TList || len(v.AsList()) != 2 {
		t.Fatalf("got %v, want a [Integer(3), List(...)] pair", v.Inspect())
	}
	pair := v.AsList()
	if pair[0].Type != rt.TInteger || pair[0].AsInt() != 3 {
		t.Fatalf("got length %v, want Integer(3)", pair[0].Inspect())
	}
	if pair[1].Type != rt.TList || len(pair[1].AsList()) != 3 {
		t.Fatalf("got %v, want the original 3-element list threaded back", pair[1].Inspect())
	}
}

func TestIfElseTakesThenBranch(t *testing.T) {
	v, err := RunSource(`
if 1 > 0 {
	return "a"
} else {
	return "b"
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type != rt.TString || v.AsString() != "a" {
		t.Fatalf("got %v, want String(a)", v.Inspect())
	}
}

func TestWhileLoopCountsToThree(t *testing.T) {
	v, err := RunSource(`
let i := 0
while i < 3 {
	i := i + 1
}
return i
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type != rt.TInteger || v.AsInt() != 3 {
		t.Fatalf("got %v, want Integer(3)", v.Inspect())
	}
}

func TestLetDestructureBindsLeftToRight(t *testing.T) {
	v, err := RunSource(`
let (a, b) := [1, 2]
return a * 10 + b
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type != rt.TInteger || v.AsInt() != 12 {
		t.Fatalf("got %v, want Integer(12)", v.Inspect())
	}
}

func TestForLoopSumsElements(t *testing.T) {
	v, err := RunSource(`
let total := 0
for n in [1, 2, 3] {
	total := total + n
}
return total
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type != rt.TInteger || v.AsInt() != 6 {
		t.Fatalf("got %v, want Integer(6)", v.Inspect())
	}
}

// TestComparisonReturnTypeAsymmetry locks in the observable encoding
// split: Gt/Ge/Le/Eq return Integer(0|1) while Lt/Neq return Boolean.
func TestComparisonReturnTypeAsymmetry(t *testing.T) {
	gt, err := RunSource(`return 2 > 1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gt.Type != rt.TInteger || gt.AsInt() != 1 {
		t.Fatalf("gt: got %v, want Integer(1)", gt.Inspect())
	}

	lt, err := RunSource(`return 1 < 2`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lt.Type != rt.TBoolean || !lt.AsBool() {
		t.Fatalf("lt: got %v, want Boolean(true)", lt.Inspect())
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := RunSource(`return 1 / 0`)
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestRecursionLimitExceeded(t *testing.T) {
	_, err := RunSource(`
func loop(n) {
	return loop(n + 1)
}
return loop(0)
`, WithRecursionLimit(16))
	rtErr, ok := err.(*rt.Error)
	if !ok || rtErr.Kind != rt.RecursionLimitExceeded {
		t.Fatalf("got %v, want RecursionLimitExceeded", err)
	}
}

func TestStructFunctionalUpdate(t *testing.T) {
	v, err := RunSource(`
let p := { x: 1, y: 2 }
p.x := 99
return p
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type != rt.TStruct {
		t.Fatalf("got %v, want Struct", v.Inspect())
	}
	x := v.AsStruct()["x"]
	if x.Type != rt.TInteger || x.AsInt() != 99 {
		t.Fatalf("got x=%v, want Integer(99)", x.Inspect())
	}
}

// TestPrintStaysPlainOnNonTerminal: a non-*os.File writer (here, a
// bytes.Buffer standing in for a piped destination) must never receive
// ANSI styling; only *os.File writers that isatty reports as a terminal
// do.
func TestPrintStaysPlainOnNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	_, err := RunSource(`
let xs := [1, 2, 3]
print(xs)
return 0
`, WithOut(&buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "\033[") {
		t.Fatalf("got ANSI-styled output on a non-terminal writer: %q", buf.String())
	}
}
