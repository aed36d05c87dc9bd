// Package cache is the filesystem-backed implementation of the cache
// collaborator interface spec.md section 6 names but leaves "deliberately
// out of scope" for the core: fetch(uri) -> snapshot?, store(uri, snapshot)
// -> bool, with an opaque TTL. It is grounded on the teacher's own
// cache-file staleness check (fasttld's pslMaxAgeHours /
// fileLastModifiedHours), generalized from "one fixed PSL cache file" to
// "one file per URI, keyed by its hash", and rebuilt on afero.Fs so it can
// be exercised against an in-memory filesystem in tests.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/go-psl/psl"
)

// Cache is a TTL-bounded store of RuleSet snapshots, keyed by the URI they
// were fetched from. A zero TTL disables staleness checks: any cached
// snapshot is returned regardless of age.
type Cache struct {
	fs  afero.Fs
	dir string
	ttl time.Duration
}

// New returns a Cache rooted at dir on fs. dir is created lazily on the
// first Store call.
func New(fs afero.Fs, dir string, ttl time.Duration) *Cache {
	return &Cache{fs: fs, dir: dir, ttl: ttl}
}

// keyFile maps uri onto the cache's on-disk filename, the same way the
// teacher keyed its single default cache file by well-known path, extended
// to arbitrary URIs.
func (c *Cache) keyFile(uri string) string {
	sum := sha256.Sum256([]byte(uri))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

// Fetch returns the cached snapshot for uri, or (nil, false) if there is no
// entry or the entry is older than the cache's TTL — the same staleness
// test as the teacher's fileLastModifiedHours comparison against
// pslMaxAgeHours, generalized to a caller-supplied TTL.
func (c *Cache) Fetch(uri string) (*psl.Snapshot, bool) {
	path := c.keyFile(uri)
	info, err := c.fs.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, false
	}
	var snap psl.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

// Store persists snap under uri's cache key, creating the cache directory
// if needed. It reports whether the write succeeded; a failed write is not
// fatal to a caller that can still resolve against the snapshot it already
// has in memory.
func (c *Cache) Store(uri string, snap psl.Snapshot) bool {
	if err := c.fs.MkdirAll(c.dir, 0o755); err != nil {
		return false
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return false
	}
	if err := afero.WriteFile(c.fs, c.keyFile(uri), data, 0o644); err != nil {
		return false
	}
	return true
}
