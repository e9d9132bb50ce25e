// Print formatting: the Print opcode bolds struct/list previews when the
// VM's output is a terminal, and stays plain when piped.
package vm

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	rt "github.com/funvibe/arklang/internal/runtime"
)

const (
	ansiBoldOn  = "\033[1m"
	ansiBoldOff = "\033[22m"
)

// isTerminalWriter reports whether w is connected to a terminal. Only
// *os.File satisfies the isatty check; any other writer (a buffer, a pipe,
// a test's bytes.Buffer) is treated as non-interactive.
func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// formatPrint renders v for the Print opcode, bolding structured previews
// (List/Struct) when out is a terminal.
func formatPrint(v rt.Value, out io.Writer) string {
	s := v.Inspect()
	if (v.Type == rt.TList || v.Type == rt.TStruct) && isTerminalWriter(out) {
		return ansiBoldOn + s + ansiBoldOff
	}
	return s
}
