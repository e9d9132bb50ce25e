package vm

import (
	rt "github.com/funvibe/arklang/internal/runtime"
)

// callOp pops the callee and dispatches on its kind: a Function value
// pushes exactly one frame and one scope (arguments are left on the stack
// for the callee's leading Store instructions to consume); a
// NativeFunction pops its args (the last one first) into a slice in
// declaration order and is invoked directly.
func (vm *VM) callOp(argc int) (rt.Value, bool, error) {
	callee, err := vm.pop()
	if err != nil {
		return rt.Value{}, false, err
	}
	switch callee.Type {
	case rt.TFunction:
		fn := callee.AsFunction()
		if len(vm.frames) >= vm.recursionLimit {
			return rt.Value{}, false, rt.NewError(rt.RecursionLimitExceeded, fn.Name)
		}
		vm.frames = append(vm.frames, frame{chunk: vm.chunk, ip: vm.ip})
		vm.scopes.Push()
		vm.chunk = fn.Chunk
		vm.ip = 0
		return rt.Value{}, false, nil

	case rt.TNativeFunction:
		args := make([]rt.Value, argc)
		for i := argc - 1; i >= 0; i-- {
			v, popErr := vm.pop()
			if popErr != nil {
				return rt.Value{}, false, popErr
			}
			args[i] = v
		}
		result, callErr := callee.AsNative()(args)
		if callErr != nil {
			return rt.Value{}, false, callErr
		}
		return rt.Value{}, false, vm.push(result)

	default:
		return rt.Value{}, false, rt.NewError(rt.NotExecutable, "value is not callable: "+callee.Type.String())
	}
}

// retOp pops the return value (Unit if the stack is empty — a defensive
// fallback; the compiler always leaves exactly one value for Ret to
// consume). If no frames remain this terminates the program; otherwise it
// restores the caller's chunk/ip, pops the callee's scope, and pushes the
// result back onto the caller's now-current stack.
func (vm *VM) retOp() (rt.Value, bool, error) {
	var result rt.Value
	if len(vm.stack) > 0 {
		v, err := vm.pop()
		if err != nil {
			return rt.Value{}, false, err
		}
		result = v
	} else {
		result = rt.Unit()
	}
	if len(vm.frames) == 0 {
		return result, true, nil
	}
	vm.popFrame()
	return result, false, vm.push(result)
}

// popFrame restores the caller's chunk/ip and closes the callee's scope.
// Used both by retOp and, defensively, by Run when a chunk's code is
// exhausted without an explicit Ret (should not happen for compiler-emitted
// functions, which always end in Push(Unit);Ret, but guards against a
// malformed or hand-assembled chunk falling through).
func (vm *VM) popFrame() {
	last := vm.frames[len(vm.frames)-1]
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.chunk = last.chunk
	vm.ip = last.ip
	vm.scopes.Pop()
}
