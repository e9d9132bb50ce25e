// Package vm implements the stack machine: a fetch-decode-execute loop
// over a bytecode.Chunk, a value stack, a scope stack, and a frame stack
// that preserves Call/Ret parity. Every user-function Call pushes exactly
// one frame and one scope; every Ret pops exactly one of each.
package vm

import (
	"fmt"
	"io"

	"github.com/funvibe/arklang/internal/bytecode"
	rt "github.com/funvibe/arklang/internal/runtime"
)

// frame saves the caller's execution position across a Call, so Ret can
// restore it.
type frame struct {
	chunk *bytecode.Chunk
	ip    int
}

// VM is the bytecode interpreter. Construct with New, then Run a chunk.
type VM struct {
	stack []rt.Value
	scopes *rt.ScopeStack
	frames []frame

	chunk *bytecode.Chunk
	ip    int

	recursionLimit int

	mem  *rt.MemoryManager
	res  *rt.ResourceTracker
	shut *rt.ShutdownFlag

	// Trace, when non-nil, receives one disassembled line per executed
	// instruction — an explicit sink rather than a global logger.
	Trace io.Writer

	// Out is where the Print opcode writes; when nil, os.Stdout is used.
	Out io.Writer
}

// New constructs a VM with an empty value stack and a fresh global scope
// (seed it with RegisterIntrinsics/RegisterGlobal before Run). mem/res/
// shut are the process-wide singletons; a nil argument is replaced with a
// fresh default instance.
func New(mem *rt.MemoryManager, res *rt.ResourceTracker, shut *rt.ShutdownFlag) *VM {
	if mem == nil {
		mem = rt.NewMemoryManager(256)
	}
	if res == nil {
		res = rt.NewResourceTracker()
	}
	if shut == nil {
		shut = &rt.ShutdownFlag{}
	}
	return &VM{
		stack:          make([]rt.Value, 0, 256),
		scopes:         rt.NewScopeStack(),
		recursionLimit: 512,
		mem:            mem,
		res:            res,
		shut:           shut,
	}
}

// Memory, Resources, and Shutdown expose the process-wide singletons this VM
// was constructed with, for a driver to inspect or share across VM
// instances.
func (vm *VM) Memory() *rt.MemoryManager   { return vm.mem }
func (vm *VM) Resources() *rt.ResourceTracker { return vm.res }
func (vm *VM) Shutdown() *rt.ShutdownFlag  { return vm.shut }

// SetRecursionLimit overrides the default frame-depth ceiling behind
// RecursionLimitExceeded, typically sourced from arkconfig.Config.
func (vm *VM) SetRecursionLimit(n int) { vm.recursionLimit = n }

// RegisterGlobal binds name to v in the VM's outermost (global) scope —
// used to seed the intrinsic registry and any user-supplied native
// functions (e.g. internal/bridge's Ask) before Run.
func (vm *VM) RegisterGlobal(name string, v rt.Value) {
	vm.scopes.StoreAt(0, name, v)
}

func (vm *VM) push(v rt.Value) error {
	if err := vm.mem.TrackAlloc(valueWeight(v)); err != nil {
		return err
	}
	vm.stack = append(vm.stack, v)
	return nil
}

// valueWeight is a coarse per-push accounting unit for MemoryManager:
// scalar values cost a fixed small amount, heap-backed values scale with
// their element/byte count. The ceiling only needs to be enforceable, not
// byte-exact.
func valueWeight(v rt.Value) uint64 {
	switch v.Type {
	case rt.TList:
		return uint64(16 + 8*len(v.AsList()))
	case rt.TBuffer:
		return uint64(16 + len(v.AsBuffer()))
	case rt.TStruct:
		return uint64(16 + 32*len(v.AsStruct()))
	case rt.TString:
		return uint64(16 + len(v.AsString()))
	default:
		return 16
	}
}

func (vm *VM) pop() (rt.Value, error) {
	if len(vm.stack) == 0 {
		return rt.Value{}, rt.NewError(rt.StackUnderflow, "pop on empty stack")
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	vm.mem.TrackDealloc(valueWeight(v))
	return v, nil
}

func (vm *VM) peek() (rt.Value, error) {
	if len(vm.stack) == 0 {
		return rt.Value{}, rt.NewError(rt.StackUnderflow, "peek on empty stack")
	}
	return vm.stack[len(vm.stack)-1], nil
}

// Run executes chunk from ip 0 to completion and returns the resulting
// value. A program that falls off the end of its top-level block returns
// Unit.
func (vm *VM) Run(chunk *bytecode.Chunk) (rt.Value, error) {
	vm.chunk = chunk
	vm.ip = 0
	for {
		if vm.shut.IsSet() {
			return rt.Value{}, rt.NewError(rt.UntrustedCode, "shutdown requested")
		}
		if vm.ip >= vm.chunk.Len() {
			if len(vm.frames) == 0 {
				return rt.Unit(), nil
			}
			vm.popFrame()
			if err := vm.push(rt.Unit()); err != nil {
				return rt.Value{}, err
			}
			continue
		}
		vm.mem.Stats.TotalInstructions.Add(1)
		result, done, err := vm.step()
		if err != nil {
			return rt.Value{}, err
		}
		if done {
			return result, nil
		}
	}
}

func (vm *VM) fetch() bytecode.Op {
	op := bytecode.Op(vm.chunk.Code[vm.ip])
	vm.ip++
	return op
}

func (vm *VM) fetchU8() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) fetchU16() uint16 {
	hi, lo := vm.chunk.Code[vm.ip], vm.chunk.Code[vm.ip+1]
	vm.ip += 2
	return uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) constant(idx uint16) any { return vm.chunk.Constants[idx] }

// step executes exactly one instruction. When the instruction is a Ret with
// no remaining frames, done is true and result is the program's final
// value.
func (vm *VM) step() (result rt.Value, done bool, err error) {
	op := vm.fetch()
	if vm.Trace != nil {
		fmt.Fprintf(vm.Trace, "%04d %s\n", vm.ip-1, op)
	}
	switch op {
	case bytecode.OpPush:
		v, convErr := vm.constantValue(vm.fetchU16())
		if convErr != nil {
			return rt.Value{}, false, convErr
		}
		return rt.Value{}, false, vm.push(v.Clone())

	case bytecode.OpPop:
		_, popErr := vm.pop()
		return rt.Value{}, false, popErr

	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod,
		bytecode.OpEq, bytecode.OpNeq, bytecode.OpGt, bytecode.OpLt, bytecode.OpGe, bytecode.OpLe,
		bytecode.OpAnd, bytecode.OpOr:
		return rt.Value{}, false, vm.binaryOp(op)

	case bytecode.OpNot:
		return rt.Value{}, false, vm.notOp()

	case bytecode.OpLoad:
		name, _ := vm.constant(vm.fetchU16()).(string)
		v, ok := vm.scopes.Load(name)
		if !ok {
			return rt.Value{}, false, rt.NewError(rt.VariableNotFound, name)
		}
		return rt.Value{}, false, vm.push(v)

	case bytecode.OpStore:
		name, _ := vm.constant(vm.fetchU16()).(string)
		v, popErr := vm.pop()
		if popErr != nil {
			return rt.Value{}, false, popErr
		}
		vm.scopes.Store(name, v)
		return rt.Value{}, false, nil

	case bytecode.OpJmp:
		vm.ip = int(vm.fetchU16())
		return rt.Value{}, false, nil

	case bytecode.OpJmpIfFalse:
		target := int(vm.fetchU16())
		cond, popErr := vm.pop()
		if popErr != nil {
			return rt.Value{}, false, popErr
		}
		if !rt.Truthy(cond) {
			vm.ip = target
		}
		return rt.Value{}, false, nil

	case bytecode.OpCall:
		argc := int(vm.fetchU8())
		return vm.callOp(argc)

	case bytecode.OpRet:
		return vm.retOp()

	case bytecode.OpPrint:
		v, popErr := vm.pop()
		if popErr != nil {
			return rt.Value{}, false, popErr
		}
		out := vm.out()
		fmt.Fprint(out, formatPrint(v, out))
		return rt.Value{}, false, nil

	case bytecode.OpDestructure:
		return rt.Value{}, false, vm.destructureOp()

	case bytecode.OpMakeList:
		n := int(vm.fetchU16())
		return rt.Value{}, false, vm.makeListOp(n)

	case bytecode.OpMakeStruct:
		n := int(vm.fetchU16())
		return rt.Value{}, false, vm.makeStructOp(n)

	case bytecode.OpGetField:
		name, _ := vm.constant(vm.fetchU16()).(string)
		return rt.Value{}, false, vm.getFieldOp(name)

	case bytecode.OpSetField:
		name, _ := vm.constant(vm.fetchU16()).(string)
		return rt.Value{}, false, vm.setFieldOp(name)

	default:
		return rt.Value{}, false, rt.NewError(rt.InvalidOperation, fmt.Sprintf("unknown opcode %v", op))
	}
}

// constantValue type-asserts a constant pool entry back to a rt.Value;
// bytecode.Chunk keeps constants as `any` specifically so this package (the
// only one that needs both bytecode and runtime) performs the narrowing —
// see internal/bytecode's doc comment on Constants.
func (vm *VM) constantValue(idx uint16) (rt.Value, error) {
	c := vm.constant(idx)
	switch x := c.(type) {
	case rt.Value:
		return x, nil
	case string:
		return rt.Str(x), nil
	case int64:
		return rt.Int(x), nil
	case int:
		return rt.Int(int64(x)), nil
	default:
		return rt.Value{}, rt.NewError(rt.InvalidOperation, fmt.Sprintf("unrepresentable constant %T", c))
	}
}

func (vm *VM) out() io.Writer {
	if vm.Out == nil {
		return defaultOut
	}
	return vm.Out
}
