// Package intrinsics implements the fixed set of native functions the
// compiler falls back to with Load+Call: arithmetic, comparison, logic,
// printing, the linear collection accessors, and the process/filesystem/
// crypto primitives under the sys.* namespace.
package intrinsics

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"

	rt "github.com/funvibe/arklang/internal/runtime"
)

// Registry maps a canonical or dotted name to its native implementation:
// a bare canonical name for compiler-emitted fallbacks, a sys.-namespaced
// name for everything called through a dotted path.
type Registry map[string]rt.NativeFunction

// New builds the full intrinsic table. Comparisons keep an asymmetric
// return encoding (gt/ge/le/eq -> Integer 0|1, lt/neq/not/and/or ->
// Boolean); the split is observable by programs and deliberately not
// unified.
func New() Registry {
	r := Registry{}

	r["add"] = intrinsicAdd
	r["sub"] = intrinsicSub
	r["mul"] = intrinsicMul
	r["div"] = intrinsicDiv
	r["mod"] = intrinsicMod
	r["gt"] = intrinsicGt
	r["lt"] = intrinsicLt
	r["ge"] = intrinsicGe
	r["le"] = intrinsicLe
	r["eq"] = intrinsicEq
	r["neq"] = intrinsicNeq
	r["and"] = intrinsicAnd
	r["or"] = intrinsicOr
	r["not"] = intrinsicNot
	r["neg"] = intrinsicNeg
	r["bit_not"] = intrinsicBitNot
	r["range_exclusive"] = intrinsicRangeExclusive
	r["range_inclusive"] = intrinsicRangeInclusive
	r["get_item"] = intrinsicGetItem
	r["print"] = intrinsicPrint

	r["sys.exec"] = intrinsicExec
	r["sys.fs.read"] = intrinsicFsRead
	r["sys.fs.write"] = intrinsicFsWrite
	r["sys.crypto.hash"] = intrinsicCryptoHash
	r["sys.crypto.merkle_root"] = intrinsicMerkleRoot
	r["sys.mem.alloc"] = intrinsicBufferAlloc
	r["sys.mem.inspect"] = intrinsicBufferInspect
	r["sys.mem.read"] = intrinsicBufferRead
	r["sys.mem.write"] = intrinsicBufferWrite
	r["sys.list.get"] = intrinsicListGet
	r["sys.str.get"] = intrinsicListGet
	r["sys.list.append"] = intrinsicListAppend
	r["sys.len"] = intrinsicLen
	r["sys.struct.get"] = intrinsicStructGet
	r["sys.struct.set"] = intrinsicStructSet
	r["sys.ai.ask"] = intrinsicAskAIStub

	return r
}

func arityErr(name string, want, got int) error {
	return rt.NewError(rt.InvalidOperation, fmt.Sprintf("%s expects %d argument(s), got %d", name, want, got))
}

func typeErr(expected string, got rt.Value) error {
	return rt.NewTypeMismatch(expected, got.Type.String())
}

func intrinsicAdd(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("add", 2, len(args))
	}
	a, b := args[0], args[1]
	switch {
	case a.Type == rt.TInteger && b.Type == rt.TInteger:
		return rt.Int(a.AsInt() + b.AsInt()), nil
	case a.Type == rt.TString && b.Type == rt.TString:
		return rt.Str(a.AsString() + b.AsString()), nil
	case a.Type == rt.TString && b.Type == rt.TInteger:
		return rt.Str(a.AsString() + strconv.FormatInt(b.AsInt(), 10)), nil
	case a.Type == rt.TInteger && b.Type == rt.TString:
		return rt.Str(strconv.FormatInt(a.AsInt(), 10) + b.AsString()), nil
	case a.Type == rt.TString && b.Type == rt.TBoolean:
		return rt.Str(a.AsString() + strconv.FormatBool(b.AsBool())), nil
	case a.Type == rt.TBoolean && b.Type == rt.TString:
		return rt.Str(strconv.FormatBool(a.AsBool()) + b.AsString()), nil
	default:
		return rt.Value{}, typeErr("Integer, String, or Boolean", a)
	}
}

func intrinsicSub(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("sub", 2, len(args))
	}
	if args[0].Type != rt.TInteger || args[1].Type != rt.TInteger {
		return rt.Value{}, typeErr("Integer", args[0])
	}
	return rt.Int(args[0].AsInt() - args[1].AsInt()), nil
}

func intrinsicMul(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("mul", 2, len(args))
	}
	if args[0].Type != rt.TInteger || args[1].Type != rt.TInteger {
		return rt.Value{}, typeErr("Integer", args[0])
	}
	return rt.Int(args[0].AsInt() * args[1].AsInt()), nil
}

func intrinsicDiv(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("div", 2, len(args))
	}
	if args[0].Type != rt.TInteger || args[1].Type != rt.TInteger {
		return rt.Value{}, typeErr("Integer", args[0])
	}
	if args[1].AsInt() == 0 {
		return rt.Value{}, rt.NewError(rt.NotExecutable, "division by zero")
	}
	return rt.Int(args[0].AsInt() / args[1].AsInt()), nil
}

func intrinsicMod(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("mod", 2, len(args))
	}
	if args[0].Type != rt.TInteger || args[1].Type != rt.TInteger {
		return rt.Value{}, typeErr("Integer", args[0])
	}
	if args[1].AsInt() == 0 {
		return rt.Value{}, rt.NewError(rt.NotExecutable, "modulo by zero")
	}
	return rt.Int(args[0].AsInt() % args[1].AsInt()), nil
}

func comparableStrings(a, b rt.Value) (string, string, bool) {
	switch {
	case a.Type == rt.TString && b.Type == rt.TString:
		return a.AsString(), b.AsString(), true
	case a.Type == rt.TString && b.Type == rt.TInteger:
		return a.AsString(), strconv.FormatInt(b.AsInt(), 10), true
	case a.Type == rt.TInteger && b.Type == rt.TString:
		return strconv.FormatInt(a.AsInt(), 10), b.AsString(), true
	}
	return "", "", false
}

// intBool is the Integer(0|1) encoding used by gt/ge/le/eq.
func intBool(b bool) rt.Value {
	if b {
		return rt.Int(1)
	}
	return rt.Int(0)
}

func intrinsicGt(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("gt", 2, len(args))
	}
	a, b := args[0], args[1]
	if a.Type == rt.TInteger && b.Type == rt.TInteger {
		return intBool(a.AsInt() > b.AsInt()), nil
	}
	if sa, sb, ok := comparableStrings(a, b); ok {
		return intBool(sa > sb), nil
	}
	return rt.Value{}, typeErr("Integer or String", a)
}

func intrinsicGe(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("ge", 2, len(args))
	}
	a, b := args[0], args[1]
	if a.Type == rt.TInteger && b.Type == rt.TInteger {
		return intBool(a.AsInt() >= b.AsInt()), nil
	}
	if sa, sb, ok := comparableStrings(a, b); ok {
		return intBool(sa >= sb), nil
	}
	return rt.Value{}, typeErr("Integer or String", a)
}

func intrinsicLe(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("le", 2, len(args))
	}
	a, b := args[0], args[1]
	if a.Type == rt.TInteger && b.Type == rt.TInteger {
		return intBool(a.AsInt() <= b.AsInt()), nil
	}
	if sa, sb, ok := comparableStrings(a, b); ok {
		return intBool(sa <= sb), nil
	}
	return rt.Value{}, typeErr("Integer or String", a)
}

// intrinsicLt uniquely returns a Boolean rather than an Integer 0/1; part
// of the comparison return-type asymmetry, not unified with gt/ge/le.
func intrinsicLt(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("lt", 2, len(args))
	}
	a, b := args[0], args[1]
	if a.Type == rt.TInteger && b.Type == rt.TInteger {
		return rt.Bool(a.AsInt() < b.AsInt()), nil
	}
	if sa, sb, ok := comparableStrings(a, b); ok {
		return rt.Bool(sa < sb), nil
	}
	return rt.Value{}, typeErr("Integer or String", a)
}

func intrinsicEq(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("eq", 2, len(args))
	}
	a, b := args[0], args[1]
	switch {
	case a.Type == rt.TInteger && b.Type == rt.TInteger:
		return intBool(a.AsInt() == b.AsInt()), nil
	case a.Type == rt.TString && b.Type == rt.TString:
		return intBool(a.AsString() == b.AsString()), nil
	case a.Type == rt.TBoolean && b.Type == rt.TBoolean:
		return intBool(a.AsBool() == b.AsBool()), nil
	default:
		return rt.Int(0), nil // mismatched types/objects default to unequal
	}
}

// intrinsicNeq backs the parser's != operator: the negation of eq,
// returning Boolean for symmetry with lt/not rather than eq's
// Integer(0|1) encoding.
func intrinsicNeq(args []rt.Value) (rt.Value, error) {
	eq, err := intrinsicEq(args)
	if err != nil {
		return rt.Value{}, err
	}
	return rt.Bool(eq.AsInt() == 0), nil
}

func intrinsicNot(args []rt.Value) (rt.Value, error) {
	if len(args) != 1 {
		return rt.Value{}, arityErr("not", 1, len(args))
	}
	if args[0].Type != rt.TBoolean {
		return rt.Value{}, typeErr("Boolean", args[0])
	}
	return rt.Bool(!args[0].AsBool()), nil
}

// intrinsicAnd and intrinsicOr call the centralized rt.Truthy predicate
// rather than each declaring a local truthiness rule, so JmpIfFalse and
// the boolean combinators can never disagree.
func intrinsicAnd(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("and", 2, len(args))
	}
	return rt.Bool(rt.Truthy(args[0]) && rt.Truthy(args[1])), nil
}

func intrinsicOr(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("or", 2, len(args))
	}
	return rt.Bool(rt.Truthy(args[0]) || rt.Truthy(args[1])), nil
}

// intrinsicNeg and intrinsicBitNot back the grammar's prefix - and ~
// operators, which lower to single-argument calls rather than a rewrite
// into binary arithmetic.
func intrinsicNeg(args []rt.Value) (rt.Value, error) {
	if len(args) != 1 {
		return rt.Value{}, arityErr("neg", 1, len(args))
	}
	if args[0].Type != rt.TInteger {
		return rt.Value{}, typeErr("Integer", args[0])
	}
	return rt.Int(-args[0].AsInt()), nil
}

func intrinsicBitNot(args []rt.Value) (rt.Value, error) {
	if len(args) != 1 {
		return rt.Value{}, arityErr("bit_not", 1, len(args))
	}
	if args[0].Type != rt.TInteger {
		return rt.Value{}, typeErr("Integer", args[0])
	}
	return rt.Int(^args[0].AsInt()), nil
}

func intrinsicRangeExclusive(args []rt.Value) (rt.Value, error) {
	return buildRange(args, "range_exclusive", false)
}

func intrinsicRangeInclusive(args []rt.Value) (rt.Value, error) {
	return buildRange(args, "range_inclusive", true)
}

func buildRange(args []rt.Value, name string, inclusive bool) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr(name, 2, len(args))
	}
	if args[0].Type != rt.TInteger || args[1].Type != rt.TInteger {
		return rt.Value{}, typeErr("Integer", args[0])
	}
	lo, hi := args[0].AsInt(), args[1].AsInt()
	if inclusive {
		hi++
	}
	items := make([]rt.Value, 0, max64(hi-lo, 0))
	for i := lo; i < hi; i++ {
		items = append(items, rt.Int(i))
	}
	return rt.List(items), nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// intrinsicGetItem backs subscript syntax (`expr[index]`): it dispatches
// to the same list/string indexing sys.list.get implements, discarding
// the linear-threading pair since subscript expressions are read-only in
// this grammar.
func intrinsicGetItem(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("get_item", 2, len(args))
	}
	pair, err := intrinsicListGet(args)
	if err != nil {
		return rt.Value{}, err
	}
	return pair.AsList()[0], nil
}

// intrinsicPrint writes each argument with printValue's per-variant
// recursive formatting, including Return-unwrapping, then a trailing newline.
func intrinsicPrint(args []rt.Value) (rt.Value, error) {
	for _, a := range args {
		fmt.Print(printValue(a))
	}
	fmt.Println()
	return rt.Unit(), nil
}

func printValue(v rt.Value) string {
	switch v.Type {
	case rt.TInteger:
		return strconv.FormatInt(v.AsInt(), 10)
	case rt.TString:
		return v.AsString()
	case rt.TBoolean:
		return strconv.FormatBool(v.AsBool())
	case rt.TUnit:
		return "unit"
	case rt.TLinearObject:
		return fmt.Sprintf("<LinearObject:%s>", v.AsLinearObject().ID)
	case rt.TFunction:
		return "<Function>"
	case rt.TNativeFunction:
		return "<NativeFunction>"
	case rt.TList:
		items := v.AsList()
		s := "["
		for i, it := range items {
			if i > 0 {
				s += ", "
			}
			s += printValue(it)
		}
		return s + "]"
	case rt.TBuffer:
		return fmt.Sprintf("<Buffer: len=%d>", len(v.AsBuffer()))
	case rt.TStruct:
		fields := v.AsStruct()
		s := "{"
		first := true
		for k, fv := range fields {
			if !first {
				s += ", "
			}
			first = false
			s += k + ": " + printValue(fv)
		}
		return s + "}"
	case rt.TReturn:
		return printValue(v.AsReturn())
	default:
		return "<?>"
	}
}

func intrinsicExec(args []rt.Value) (rt.Value, error) {
	if len(args) != 1 {
		return rt.Value{}, arityErr("sys.exec", 1, len(args))
	}
	if args[0].Type != rt.TString {
		return rt.Value{}, typeErr("String", args[0])
	}
	cmdStr := args[0].AsString()
	fmt.Printf("[exec] %s\n", cmdStr)

	shell, flag := "sh", "-c"
	if runtime.GOOS == "windows" {
		shell, flag = "cmd", "/C"
	}
	out, err := exec.Command(shell, flag, cmdStr).Output()
	if err != nil {
		return rt.Value{}, rt.NewError(rt.NotExecutable, err.Error())
	}
	return rt.Str(string(out)), nil
}

func intrinsicFsWrite(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("sys.fs.write", 2, len(args))
	}
	if args[0].Type != rt.TString || args[1].Type != rt.TString {
		return rt.Value{}, typeErr("String", args[0])
	}
	path, content := args[0].AsString(), args[1].AsString()
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("[fs] warning: overwriting existing file %s\n", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return rt.Value{}, rt.NewError(rt.NotExecutable, err.Error())
	}
	return rt.Unit(), nil
}

func intrinsicFsRead(args []rt.Value) (rt.Value, error) {
	if len(args) != 1 {
		return rt.Value{}, arityErr("sys.fs.read", 1, len(args))
	}
	if args[0].Type != rt.TString {
		return rt.Value{}, typeErr("String", args[0])
	}
	content, err := os.ReadFile(args[0].AsString())
	if err != nil {
		return rt.Value{}, rt.NewError(rt.NotExecutable, err.Error())
	}
	return rt.Str(string(content)), nil
}

func sha256Hex(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

func intrinsicCryptoHash(args []rt.Value) (rt.Value, error) {
	if len(args) != 1 {
		return rt.Value{}, arityErr("sys.crypto.hash", 1, len(args))
	}
	if args[0].Type != rt.TString {
		return rt.Value{}, typeErr("String", args[0])
	}
	return rt.Str(sha256Hex(args[0].AsString())), nil
}

// intrinsicMerkleRoot hashes leaves first, then repeatedly hashes
// concatenated adjacent pairs (duplicating the last leaf on an odd count)
// until one root remains.
func intrinsicMerkleRoot(args []rt.Value) (rt.Value, error) {
	if len(args) != 1 {
		return rt.Value{}, arityErr("sys.crypto.merkle_root", 1, len(args))
	}
	if args[0].Type != rt.TList {
		return rt.Value{}, typeErr("List", args[0])
	}
	items := args[0].AsList()
	level := make([]string, len(items))
	for i, it := range items {
		if it.Type != rt.TString {
			return rt.Value{}, typeErr("String inside List", it)
		}
		level[i] = sha256Hex(it.AsString())
	}
	if len(level) == 0 {
		return rt.Str(""), nil
	}
	for len(level) > 1 {
		next := make([]string, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, sha256Hex(left+right))
		}
		level = next
	}
	return rt.Str(level[0]), nil
}

func intrinsicBufferAlloc(args []rt.Value) (rt.Value, error) {
	if len(args) != 1 {
		return rt.Value{}, arityErr("sys.mem.alloc", 1, len(args))
	}
	if args[0].Type != rt.TInteger {
		return rt.Value{}, typeErr("Integer", args[0])
	}
	return rt.Buffer(make([]byte, args[0].AsInt())), nil
}

func intrinsicBufferInspect(args []rt.Value) (rt.Value, error) {
	if len(args) != 1 {
		return rt.Value{}, arityErr("sys.mem.inspect", 1, len(args))
	}
	if args[0].Type != rt.TBuffer {
		return rt.Value{}, typeErr("Buffer", args[0])
	}
	b := args[0].AsBuffer()
	fmt.Printf("<Buffer Inspect: len=%d>\n", len(b))
	return args[0], nil
}

// intrinsicBufferRead returns [byte, buffer]: the linear-threading pair
// convention (as in sys.len and sys.list.get) so the caller can
// destructure-rebind both the extracted byte and the still-owned buffer.
func intrinsicBufferRead(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("sys.mem.read", 2, len(args))
	}
	if args[1].Type != rt.TInteger {
		return rt.Value{}, typeErr("Integer", args[1])
	}
	if args[0].Type != rt.TBuffer {
		return rt.Value{}, typeErr("Buffer", args[0])
	}
	b := args[0].AsBuffer()
	idx := args[1].AsInt()
	if idx < 0 || idx >= int64(len(b)) {
		return rt.Value{}, rt.NewError(rt.NotExecutable, "buffer index out of range")
	}
	return rt.List([]rt.Value{rt.Int(int64(b[idx])), args[0]}), nil
}

// intrinsicBufferWrite mutates the buffer in place and returns the single
// updated buffer (no extracted value, unlike Read) — Buffer.Obj aliases
// the caller's backing array, so consume-mutate-return needs no copy.
func intrinsicBufferWrite(args []rt.Value) (rt.Value, error) {
	if len(args) != 3 {
		return rt.Value{}, arityErr("sys.mem.write", 3, len(args))
	}
	if args[0].Type != rt.TBuffer {
		return rt.Value{}, typeErr("Buffer", args[0])
	}
	if args[1].Type != rt.TInteger || args[2].Type != rt.TInteger {
		return rt.Value{}, typeErr("Integer", args[1])
	}
	b := args[0].AsBuffer()
	idx := args[1].AsInt()
	if idx < 0 || idx >= int64(len(b)) {
		return rt.Value{}, rt.NewError(rt.NotExecutable, "buffer index out of range")
	}
	b[idx] = byte(args[2].AsInt())
	return args[0], nil
}

// intrinsicListGet returns [value, list]: indexing a List returns the
// element, indexing a String returns its rune at that position as a
// one-character string. Both follow the linear-threading pair convention.
func intrinsicListGet(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("sys.list.get", 2, len(args))
	}
	if args[1].Type != rt.TInteger {
		return rt.Value{}, typeErr("Integer", args[1])
	}
	idx := args[1].AsInt()
	switch args[0].Type {
	case rt.TList:
		items := args[0].AsList()
		if idx < 0 || idx >= int64(len(items)) {
			return rt.Value{}, rt.NewError(rt.NotExecutable, "list index out of range")
		}
		return rt.List([]rt.Value{items[idx], args[0]}), nil
	case rt.TString:
		runes := []rune(args[0].AsString())
		if idx < 0 || idx >= int64(len(runes)) {
			return rt.Value{}, rt.NewError(rt.NotExecutable, "string index out of range")
		}
		return rt.List([]rt.Value{rt.Str(string(runes[idx])), args[0]}), nil
	default:
		return rt.Value{}, typeErr("List or String", args[0])
	}
}

// intrinsicListAppend mutates and returns the single updated list; no
// extracted value, so unlike Get it isn't wrapped in a pair.
func intrinsicListAppend(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("sys.list.append", 2, len(args))
	}
	if args[0].Type != rt.TList {
		return rt.Value{}, typeErr("List", args[0])
	}
	items := append(args[0].AsList(), args[1])
	return rt.List(items), nil
}

// intrinsicLen returns [length, value]: the sequence is threaded back
// just like list/struct access, even though len never mutates.
func intrinsicLen(args []rt.Value) (rt.Value, error) {
	if len(args) != 1 {
		return rt.Value{}, arityErr("sys.len", 1, len(args))
	}
	var n int
	switch args[0].Type {
	case rt.TString:
		n = len([]rune(args[0].AsString()))
	case rt.TList:
		n = len(args[0].AsList())
	case rt.TBuffer:
		n = len(args[0].AsBuffer())
	default:
		return rt.Value{}, typeErr("Sequence", args[0])
	}
	return rt.List([]rt.Value{rt.Int(int64(n)), args[0]}), nil
}

func intrinsicStructGet(args []rt.Value) (rt.Value, error) {
	if len(args) != 2 {
		return rt.Value{}, arityErr("sys.struct.get", 2, len(args))
	}
	if args[1].Type != rt.TString {
		return rt.Value{}, typeErr("String Key", args[1])
	}
	if args[0].Type != rt.TStruct {
		return rt.Value{}, typeErr("Struct", args[0])
	}
	fields := args[0].AsStruct()
	v, ok := fields[args[1].AsString()]
	if !ok {
		return rt.Value{}, rt.NewError(rt.VariableNotFound, args[1].AsString())
	}
	return rt.List([]rt.Value{v, args[0]}), nil
}

// intrinsicStructSet mutates and returns the single updated struct.
func intrinsicStructSet(args []rt.Value) (rt.Value, error) {
	if len(args) != 3 {
		return rt.Value{}, arityErr("sys.struct.set", 3, len(args))
	}
	if args[1].Type != rt.TString {
		return rt.Value{}, typeErr("String Key", args[1])
	}
	if args[0].Type != rt.TStruct {
		return rt.Value{}, typeErr("Struct", args[0])
	}
	fields := args[0].AsStruct()
	fields[args[1].AsString()] = args[2]
	return rt.Struct(fields), nil
}

// intrinsicAskAIStub is a placeholder: internal/bridge supersedes this
// entry once wired into the VM's registry, keeping the AI network
// boundary out of the intrinsics package.
func intrinsicAskAIStub(args []rt.Value) (rt.Value, error) {
	if len(args) != 1 {
		return rt.Value{}, arityErr("sys.ai.ask", 1, len(args))
	}
	if args[0].Type != rt.TString {
		return rt.Value{}, typeErr("String", args[0])
	}
	return rt.Value{}, rt.NewError(rt.NotExecutable, "sys.ai.ask requires internal/bridge to be wired in")
}
