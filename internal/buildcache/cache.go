// Package buildcache persists lowered IR text keyed by a hash of the
// source that produced it, generalizing the teacher's in-memory
// moduleCache (cmd/funxy/main.go) into a sqlite-backed, content-addressed
// cache that survives across CLI invocations.
package buildcache

import (
	"database/sql"
	"hash/fnv"

	_ "modernc.org/sqlite"
)

// Cache wraps a single sqlite database holding one table:
// (source_hash TEXT PRIMARY KEY, ir_text TEXT, created_at INTEGER).
type Cache struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite database at path and ensures
// its schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	const schema = `
CREATE TABLE IF NOT EXISTS modules (
	source_hash TEXT PRIMARY KEY,
	ir_text     TEXT NOT NULL,
	created_at  INTEGER NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying sqlite connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// HashSource computes the cache key for source text. FNV-1a, not a
// cryptographic hash, is deliberate here: the cache is a same-machine
// build optimization keyed by exact byte equality, not a security
// boundary, so collision resistance beyond accidental (not adversarial)
// collisions is unneeded — see DESIGN.md.
func HashSource(src string) string {
	h := fnv.New64a()
	h.Write([]byte(src))
	return hexEncode(h.Sum64())
}

func hexEncode(v uint64) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	return string(buf)
}

// Lookup returns the cached IR text for hash, if present.
func (c *Cache) Lookup(hash string) (irText string, hit bool, err error) {
	row := c.db.QueryRow(`SELECT ir_text FROM modules WHERE source_hash = ?`, hash)
	err = row.Scan(&irText)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return irText, true, nil
}

// Store records irText under hash, created at the given Unix timestamp
// (passed in by the caller — the package performs no wall-clock reads so
// that cache behavior stays deterministic under test).
func (c *Cache) Store(hash, irText string, createdAt int64) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO modules (source_hash, ir_text, created_at) VALUES (?, ?, ?)`,
		hash, irText, createdAt,
	)
	return err
}
