package fetch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"boxart/internal/config"
)

// ExistsCache memoizes destination existence checks so a run performs at
// most one filesystem probe per destination. The check happens before the
// downloaded extension is known, so the cache is queried by extension-less
// stem path. Two match modes exist:
//
//   - stem: the stem's directory is listed and any file named "stem" or
//     "stem.<ext>" counts as present, so files written on earlier runs are
//     detected regardless of extension.
//   - exact: only the literal stem path is checked. This reproduces the
//     legacy behavior, which never matches files saved with an extension
//     and therefore re-downloads them on every run.
//
// The check-and-set is performed under one lock so concurrent duplicate
// stems cannot both observe a miss after one of them recorded a write.
type ExistsCache struct {
	mu        sync.Mutex
	entries   map[string]bool
	stemMatch bool
}

// NewExistsCache builds a cache for the given config match mode
// (config.MatchStem or config.MatchExact).
func NewExistsCache(mode string) *ExistsCache {
	return &ExistsCache{
		entries:   make(map[string]bool),
		stemMatch: mode != config.MatchExact,
	}
}

// Exists reports whether the destination stem already has a file on disk.
// The first query for a stem probes the filesystem; later queries are pure
// map lookups.
func (c *ExistsCache) Exists(stemPath string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.entries[stemPath]; ok {
		return cached
	}
	found := c.probe(stemPath)
	c.entries[stemPath] = found
	return found
}

// Record marks paths as existing, called after a successful write so
// subsequent queries for the same destination skip without I/O.
func (c *ExistsCache) Record(paths ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, path := range paths {
		c.entries[path] = true
	}
}

func (c *ExistsCache) probe(stemPath string) bool {
	if !c.stemMatch {
		_, err := os.Stat(stemPath)
		return err == nil
	}

	dir := filepath.Dir(stemPath)
	stem := filepath.Base(stemPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == stem || strings.HasPrefix(name, stem+".") {
			return true
		}
	}
	return false
}
