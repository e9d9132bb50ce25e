package mast

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/funvibe/arklang/internal/ast"
)

// Store is a content-addressed object store for MastNodes, keyed by hex
// hash, backed by a pure-Go sqlite driver so the core never needs cgo.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) a sqlite-backed Store at path. Use
// ":memory:" for an ephemeral, process-local store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("mast: open store: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS mast_objects (
	hash TEXT PRIMARY KEY,
	content TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("mast: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Put hashes content, inserts it under that hash if not already present,
// and returns the resulting MastNode. Re-inserting content with the same
// hash is a no-op (content addressing makes Put idempotent).
func (s *Store) Put(ctx context.Context, content ast.Node) (ast.MastNode, error) {
	node, err := New(content)
	if err != nil {
		return ast.MastNode{}, err
	}
	payload, err := json.Marshal(content)
	if err != nil {
		return ast.MastNode{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO mast_objects (hash, content) VALUES (?, ?) ON CONFLICT(hash) DO NOTHING`,
		node.HexHash(), string(payload))
	if err != nil {
		return ast.MastNode{}, fmt.Errorf("mast: put %s: %w", node.HexHash(), err)
	}
	return node, nil
}

// ErrNotFound is returned by GetRaw when no object is stored under hexHash.
var ErrNotFound = fmt.Errorf("mast: object not found")

// GetRaw returns the canonical JSON bytes stored under hexHash, without
// attempting to decode them back into a typed ast.Node (see Load's doc
// comment for why full structural decode is out of scope for this core).
func (s *Store) GetRaw(ctx context.Context, hexHash string) ([]byte, error) {
	if _, err := hex.DecodeString(hexHash); err != nil {
		return nil, fmt.Errorf("mast: invalid hash %q: %w", hexHash, err)
	}
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM mast_objects WHERE hash = ?`, hexHash).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mast: get %s: %w", hexHash, err)
	}
	return []byte(content), nil
}

// Has reports whether an object is stored under hexHash.
func (s *Store) Has(ctx context.Context, hexHash string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM mast_objects WHERE hash = ?`, hexHash).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LoadThrough validates doc (see Load) and persists it under its hash.
// Every call validates doc again; the store is not read before validation.
// Store errors do not fail the load — the write is best-effort, not a
// correctness requirement.
func (s *Store) LoadThrough(ctx context.Context, doc []byte) (ast.MastNode, error) {
	node, err := Load(doc)
	if err != nil {
		return ast.MastNode{}, err
	}
	_, _ = s.db.ExecContext(ctx,
		`INSERT INTO mast_objects (hash, content) VALUES (?, ?) ON CONFLICT(hash) DO NOTHING`,
		node.HexHash(), string(doc))
	return node, nil
}

// ManifestEntry is one row of the human-readable YAML index WriteManifest
// emits alongside the sqlite store.
type ManifestEntry struct {
	Hash string `yaml:"hash"`
	Size int    `yaml:"size"`
}

// WriteManifest dumps a YAML listing of every stored object (hash and
// serialized size) to path, for skimming the store without a DB client.
func (s *Store) WriteManifest(ctx context.Context, path string) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hash, LENGTH(content) FROM mast_objects ORDER BY hash`)
	if err != nil {
		return fmt.Errorf("mast: manifest query: %w", err)
	}
	defer rows.Close()

	var entries []ManifestEntry
	for rows.Next() {
		var e ManifestEntry
		if err := rows.Scan(&e.Hash, &e.Size); err != nil {
			return fmt.Errorf("mast: manifest scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("mast: manifest rows: %w", err)
	}

	out, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("mast: manifest encode: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("mast: manifest write: %w", err)
	}
	return nil
}
