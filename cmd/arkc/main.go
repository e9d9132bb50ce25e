// Command arkc is a thin compiler-only driver: it lexes, parses, and
// linear-checks a source file, then writes a compiled artifact (the
// verbatim source plus the content hash of every top-level function body)
// for cmd/arkvm to load and run. The CLI is wiring only; it exists so
// this module is a runnable program.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/funvibe/arklang/internal/ast"
	"github.com/funvibe/arklang/internal/checker"
	"github.com/funvibe/arklang/internal/lexer"
	"github.com/funvibe/arklang/internal/parser"
)

// artifact is the on-disk shape cmd/arkvm expects: the verbatim source plus
// the MAST hash of every function body the parser content-addressed, so a
// consumer can confirm a function body hasn't changed without re-parsing.
type artifact struct {
	Source    string         `json:"source"`
	Functions []functionHash `json:"functions"`
}

type functionHash struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
}

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: arkc <source.ark> <out.arkobj>")
		os.Exit(2)
	}
	srcPath, outPath := os.Args[1], os.Args[2]

	src, err := os.ReadFile(srcPath)
	if err != nil {
		fatal(err)
	}

	toks, err := lexer.Tokenize(string(src))
	if err != nil {
		fatal(err)
	}
	stmts, err := parser.Parse(toks, srcPath)
	if err != nil {
		fatal(err)
	}

	art := artifact{Source: string(src)}
	for _, s := range stmts {
		fn, ok := s.(ast.FuncDeclStmt)
		if !ok {
			continue
		}
		if err := checker.CheckFunction(fn.Def); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s failed the linear checker: %v\n", fn.Def.Name, err)
		}
		art.Functions = append(art.Functions, functionHash{Name: fn.Def.Name, Hash: fn.Def.Body.HexHash()})
	}

	out, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		fatal(err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "arkc:", err)
	os.Exit(1)
}
