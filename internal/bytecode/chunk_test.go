package bytecode

import "testing"

func TestEmitConstantRoundTrip(t *testing.T) {
	c := New()
	c.EmitConstant(OpPush, int64(42), 1)
	if len(c.Code) != 3 {
		t.Fatalf("expected 3 bytes, got %d", len(c.Code))
	}
	if Op(c.Code[0]) != OpPush {
		t.Fatalf("expected OpPush, got %v", Op(c.Code[0]))
	}
	idx := c.ReadU16(1)
	if c.Constants[idx] != int64(42) {
		t.Fatalf("expected constant 42, got %v", c.Constants[idx])
	}
}

func TestPatchU16BackpatchesJumpTarget(t *testing.T) {
	c := New()
	j := c.EmitU16(OpJmpIfFalse, 0, 1)
	c.Emit(OpPop, 1)
	target := uint16(c.Len())
	c.PatchU16(j+1, target)
	if c.ReadU16(j+1) != target {
		t.Fatalf("expected patched target %d, got %d", target, c.ReadU16(j+1))
	}
}

func TestWidthMatchesOperandLayout(t *testing.T) {
	if Width(OpCall) != 1 {
		t.Fatalf("expected OpCall width 1, got %d", Width(OpCall))
	}
	if Width(OpJmp) != 2 {
		t.Fatalf("expected OpJmp width 2, got %d", Width(OpJmp))
	}
	if Width(OpRet) != 0 {
		t.Fatalf("expected OpRet width 0, got %d", Width(OpRet))
	}
}

func TestDisassembleDoesNotPanic(t *testing.T) {
	c := New()
	c.EmitConstant(OpPush, int64(1), 1)
	c.Emit(OpPrint, 1)
	c.Emit(OpRet, 1)
	out := c.Disassemble("test")
	if out == "" {
		t.Fatal("expected non-empty disassembly")
	}
}
