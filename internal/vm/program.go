package vm

import (
	"io"

	"github.com/funvibe/arklang/internal/ast"
	"github.com/funvibe/arklang/internal/bytecode"
	"github.com/funvibe/arklang/internal/compiler"
	"github.com/funvibe/arklang/internal/intrinsics"
	"github.com/funvibe/arklang/internal/lexer"
	"github.com/funvibe/arklang/internal/parser"
	rt "github.com/funvibe/arklang/internal/runtime"
)

// RegisterIntrinsics seeds vm's global scope with every entry of reg as a
// NativeFunction, the wiring step between internal/intrinsics's name->fn
// table and the VM's Load/Call dispatch.
func (vm *VM) RegisterIntrinsics(reg intrinsics.Registry) {
	for name, fn := range reg {
		vm.RegisterGlobal(name, rt.Native(fn))
	}
}

// CompileStatements lowers a parsed top-level program into a single chunk,
// the thin wiring RunSource uses so its callers need not reach into
// internal/compiler directly.
func CompileStatements(stmts []ast.Statement) (*bytecode.Chunk, error) {
	return compiler.CompileProgram(stmts)
}

// Option customizes a VM built by RunSource before it executes.
type Option func(*VM)

// WithRecursionLimit overrides the default frame-depth ceiling.
func WithRecursionLimit(n int) Option {
	return func(vm *VM) { vm.SetRecursionLimit(n) }
}

// WithMemory swaps in a caller-owned MemoryManager, so a driver can size
// the ceiling from arkconfig and read the accumulated stats after Run.
func WithMemory(m *rt.MemoryManager) Option {
	return func(vm *VM) { vm.mem = m }
}

// WithGlobal registers an additional native function (e.g.
// internal/bridge's Client.Intrinsic()) under name before Run.
func WithGlobal(name string, fn rt.NativeFunction) Option {
	return func(vm *VM) { vm.RegisterGlobal(name, rt.Native(fn)) }
}

// WithOut redirects the Print opcode's output away from os.Stdout, e.g. to
// a bytes.Buffer for a test. A non-*os.File writer is always treated as
// non-terminal by formatPrint.
func WithOut(w io.Writer) Option {
	return func(vm *VM) { vm.Out = w }
}

// RunSource lexes, parses, and runs src against a freshly constructed VM
// with the default intrinsic registry already registered. This is the
// entry point cmd/arkvm runs programs through (cmd/arkc only parses and
// checks), and the most direct way to exercise the whole pipeline
// end-to-end.
func RunSource(src string, opts ...Option) (rt.Value, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return rt.Value{}, err
	}
	stmts, err := parser.Parse(toks, "<source>")
	if err != nil {
		return rt.Value{}, err
	}
	chunk, err := CompileStatements(stmts)
	if err != nil {
		return rt.Value{}, err
	}
	machine := New(nil, nil, nil)
	machine.RegisterIntrinsics(intrinsics.New())
	for _, opt := range opts {
		opt(machine)
	}
	return machine.Run(chunk)
}
