// Package mast implements content addressing for the AST: hashing an
// ast.Node's canonical JSON serialization and, optionally, persisting the
// resulting MastNodes in a content-addressed object store.
package mast

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/funvibe/arklang/internal/ast"
)

// New serializes content to its canonical JSON form (via ast.Node's own
// MarshalJSON, which produces a stable field order) and wraps it with the
// SHA-256 hash of the UTF-8 bytes of that serialization. Construction is
// total except when the underlying serialization fails.
func New(content ast.Node) (ast.MastNode, error) {
	payload, err := json.Marshal(content)
	if err != nil {
		return ast.MastNode{}, fmt.Errorf("mast: canonical serialization failed: %w", err)
	}
	sum := sha256.Sum256(payload)
	return ast.MastNode{Hash: sum, Content: content}, nil
}

// Verify recomputes the hash of an existing MastNode's content and reports
// whether it still matches the stored hash — a testable invariant (equal
// content must never disagree on hash).
func Verify(n ast.MastNode) (bool, error) {
	fresh, err := New(n.Content)
	if err != nil {
		return false, err
	}
	return fresh.Hash == n.Hash, nil
}

// LoadError partitions loader failures: a raw JSON document fails either
// at JSON/ArkNode parsing or at MAST construction.
type LoadError struct {
	Stage string // "parse" or "mast_construction"
	Err   error
}

func (e *LoadError) Error() string { return fmt.Sprintf("mast: %s: %v", e.Stage, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// Load accepts a UTF-8 JSON document containing a single top-level ArkNode
// object (`{"Expression": ...}`, `{"Statement": ...}`, etc.) and returns the
// MastNode hashing it. It validates the document is well-formed JSON with
// exactly one recognized top-level tag, failing with LoadError{"parse", ...}
// otherwise; reconstructing typed ast.Node values from arbitrary external
// JSON is not required here (programs are built by the parser, not by
// this loader) — Load exists to hash and admit externally supplied
// documents.
func Load(doc []byte) (ast.MastNode, error) {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(doc, &tagged); err != nil {
		return ast.MastNode{}, &LoadError{Stage: "parse", Err: err}
	}
	if len(tagged) != 1 {
		return ast.MastNode{}, &LoadError{Stage: "parse", Err: fmt.Errorf("expected exactly one tagged key, got %d", len(tagged))}
	}
	for tag := range tagged {
		switch tag {
		case "Function", "Statement", "Expression", "Type":
		default:
			return ast.MastNode{}, &LoadError{Stage: "parse", Err: fmt.Errorf("unrecognized ArkNode tag %q", tag)}
		}
	}
	sum := sha256.Sum256(doc)
	return ast.MastNode{Hash: sum}, nil
}
