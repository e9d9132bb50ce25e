// Command arkvm is a thin VM-only driver: it loads a compiled artifact
// (or a raw .ark source file) and runs it to completion, printing the
// result. Like cmd/arkc, it is wiring only — all behavior lives in the
// internal packages.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/funvibe/arklang/internal/arkconfig"
	"github.com/funvibe/arklang/internal/runtime"
	"github.com/funvibe/arklang/internal/vm"
)

type artifact struct {
	Source    string `json:"source"`
	Functions []struct {
		Name string `json:"name"`
		Hash string `json:"hash"`
	} `json:"functions"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: arkvm <program.arkobj|program.ark> [ark.yaml]")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := arkconfig.Default()
	if len(os.Args) >= 3 {
		loaded, err := arkconfig.Load(os.Args[2])
		if err != nil {
			fatal(err)
		}
		cfg = loaded
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fatal(err)
	}

	src := string(data)
	if strings.HasSuffix(path, ".arkobj") {
		var art artifact
		if err := json.Unmarshal(data, &art); err != nil {
			fatal(fmt.Errorf("invalid artifact: %w", err))
		}
		src = art.Source
	}

	mem := runtime.NewMemoryManager(cfg.MaxMemoryMB)
	result, err := vm.RunSource(src,
		vm.WithRecursionLimit(cfg.RecursionLimit),
		vm.WithMemory(mem),
	)
	if cfg.StatsOnExit {
		fmt.Fprintf(os.Stderr, "instructions: %d, allocations: %d, peak memory: %d bytes\n",
			mem.Stats.TotalInstructions.Load(),
			mem.Stats.TotalAllocations.Load(),
			mem.Stats.PeakMemoryBytes.Load())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "runtime error:", err)
		os.Exit(1)
	}
	fmt.Println(result.Inspect())
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "arkvm:", err)
	os.Exit(1)
}
