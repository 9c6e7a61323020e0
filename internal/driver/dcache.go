package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// cacheSchemaVersion invalidates every stored entry when the payload
// layout changes. Bump on any field change.
const cacheSchemaVersion uint16 = 1

// Summary is what a completed check leaves behind: enough to report the
// outcome and to skip re-checking an unchanged unit.
type Summary struct {
	UnitName        string
	Digest          Digest
	ErrorCount      int
	FuncCount       int
	TypeCount       int
	Specializations []string
	CheckedAt       time.Time
}

type cachePayload struct {
	Schema          uint16   `msgpack:"schema"`
	UnitName        string   `msgpack:"unit"`
	Digest          []byte   `msgpack:"digest"`
	ErrorCount      int      `msgpack:"errors"`
	FuncCount       int      `msgpack:"funcs"`
	TypeCount       int      `msgpack:"types"`
	Specializations []string `msgpack:"specializations"`
	CheckedAtUnix   int64    `msgpack:"checked_at"`
}

func payloadFromSummary(sum *Summary) *cachePayload {
	return &cachePayload{
		Schema:          cacheSchemaVersion,
		UnitName:        sum.UnitName,
		Digest:          sum.Digest[:],
		ErrorCount:      sum.ErrorCount,
		FuncCount:       sum.FuncCount,
		TypeCount:       sum.TypeCount,
		Specializations: sum.Specializations,
		CheckedAtUnix:   sum.CheckedAt.Unix(),
	}
}

func summaryFromPayload(p *cachePayload) *Summary {
	sum := &Summary{
		UnitName:        p.UnitName,
		ErrorCount:      p.ErrorCount,
		FuncCount:       p.FuncCount,
		TypeCount:       p.TypeCount,
		Specializations: p.Specializations,
		CheckedAt:       time.Unix(p.CheckedAtUnix, 0).UTC(),
	}
	copy(sum.Digest[:], p.Digest)
	return sum
}

// DiskCache stores check summaries keyed by unit digest, one msgpack
// file per entry. Writes are atomic (temp file plus rename), so a
// crashed run never leaves a torn entry behind.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache opens (creating if needed) the cache rooted at dir.
// An empty dir places it under the user cache directory.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("driver: locate user cache dir: %w", err)
		}
		dir = filepath.Join(base, "tern")
	}
	dir = filepath.Join(dir, "checks")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("driver: create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the resolved cache directory.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(d Digest) string {
	return filepath.Join(c.dir, d.String()+".mp")
}

// Get looks up the summary for a digest. A missing entry, a stale
// schema, or a digest mismatch is a miss, not an error.
func (c *DiskCache) Get(d Digest) (*Summary, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(d))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("driver: open cache entry: %w", err)
	}
	defer f.Close()

	var p cachePayload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, false, fmt.Errorf("driver: decode cache entry %s: %w", d, err)
	}
	if p.Schema != cacheSchemaVersion || !bytes.Equal(p.Digest, d[:]) {
		return nil, false, nil
	}
	return summaryFromPayload(&p), true, nil
}

// Put stores a summary, replacing any previous entry for the digest.
func (c *DiskCache) Put(sum *Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tmp, err := os.CreateTemp(c.dir, "put-*")
	if err != nil {
		return fmt.Errorf("driver: create cache temp file: %w", err)
	}
	if err := msgpack.NewEncoder(tmp).Encode(payloadFromSummary(sum)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("driver: encode cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("driver: close cache temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.pathFor(sum.Digest)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("driver: commit cache entry: %w", err)
	}
	return nil
}

// DropAll empties the cache. The directory is renamed aside first so a
// concurrent reader never observes a half-deleted tree.
func (c *DiskCache) DropAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doomed := c.dir + ".drop"
	if err := os.Rename(c.dir, doomed); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return fmt.Errorf("driver: drop cache: %w", err)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("driver: recreate cache dir: %w", err)
	}
	return os.RemoveAll(doomed)
}
