// Package parsecache caches per-file extraction results across runs.
// Two tiers: a bounded in-memory LRU for the current process and a JSON
// entry per file on disk for the next one. An entry is served only when
// the content hash, the file size, and the modification time all still
// match; any disagreement is a miss, never an error.
package parsecache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cloakwork/objcloak/internal/config"
	"github.com/cloakwork/objcloak/internal/extractor"
)

// formatVersion is bumped whenever the entry layout or the extractor
// output changes shape. Entries written by another version are ignored
// wholesale.
const formatVersion = 1

// entry is one cached extraction result.
type entry struct {
	FormatVersion int                `json:"format_version"`
	Path          string             `json:"path"`
	ContentHash   uint64             `json:"content_hash"`
	Size          int64              `json:"size"`
	ModTimeNano   int64              `json:"mtime_unix_nano"`
	Symbols       []extractor.Symbol `json:"symbols"`
}

// Stats counts cache traffic for one run.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// HitRate returns hits over total lookups, 0 when nothing was asked.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is safe for concurrent use.
type Cache struct {
	dir          string
	diskCapacity int

	mem *lru.Cache[string, entry]

	mu    sync.Mutex
	stats Stats
}

// New opens (or creates) the cache rooted at cfg.Dir. With
// cfg.Invalidate set, everything already on disk is discarded first.
func New(cfg config.CacheConfig) (*Cache, error) {
	capacity := cfg.MemoryCapacity
	if capacity <= 0 {
		capacity = 256
	}
	mem, err := lru.New[string, entry](capacity)
	if err != nil {
		return nil, fmt.Errorf("creating memory cache: %w", err)
	}

	c := &Cache{
		dir:          cfg.Dir,
		diskCapacity: cfg.DiskCapacity,
		mem:          mem,
	}

	if c.dir != "" {
		if cfg.Invalidate {
			if err := c.Clear(); err != nil {
				return nil, err
			}
		}
		if err := os.MkdirAll(c.dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	return c, nil
}

// Get returns the cached symbols for a file, checking memory first and
// falling back to disk. info must describe the file the content was
// read from.
func (c *Cache) Get(path string, content []byte, info os.FileInfo) ([]extractor.Symbol, bool) {
	hash := xxhash.Sum64(content)

	if e, ok := c.mem.Get(path); ok {
		if c.valid(e, hash, info) {
			c.count(true)
			return e.Symbols, true
		}
		c.mem.Remove(path)
	}

	if c.dir != "" {
		if e, ok := c.readDisk(hash); ok && c.valid(e, hash, info) {
			c.mem.Add(path, e)
			c.count(true)
			return e.Symbols, true
		}
	}

	c.count(false)
	return nil, false
}

// Put stores an extraction result in both tiers. Disk write failures
// are returned but the memory tier is always updated, so the current
// run still benefits.
func (c *Cache) Put(path string, content []byte, info os.FileInfo, symbols []extractor.Symbol) error {
	e := entry{
		FormatVersion: formatVersion,
		Path:          path,
		ContentHash:   xxhash.Sum64(content),
		Size:          info.Size(),
		ModTimeNano:   info.ModTime().UnixNano(),
		Symbols:       symbols,
	}
	c.mem.Add(path, e)

	if c.dir == "" {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding cache entry for %s: %w", path, err)
	}
	if err := os.WriteFile(c.entryPath(e.ContentHash), data, 0o644); err != nil {
		return fmt.Errorf("writing cache entry for %s: %w", path, err)
	}
	return c.pruneDisk()
}

// Stats returns the hit and miss counters for this run.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Clear wipes both tiers.
func (c *Cache) Clear() error {
	c.mem.Purge()
	if c.dir == "" {
		return nil
	}
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("clearing cache directory: %w", err)
	}
	return os.MkdirAll(c.dir, 0o755)
}

// EntryCount returns the number of entries currently on disk.
func (c *Cache) EntryCount() int {
	if c.dir == "" {
		return 0
	}
	names, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return 0
	}
	return len(names)
}

func (c *Cache) count(hit bool) {
	c.mu.Lock()
	if hit {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.mu.Unlock()
}

// valid requires the full conjunction. Hash alone would accept a file
// restored from backup with a stale cache entry of identical content
// but different identity on disk; cheap metadata checks close that gap.
func (c *Cache) valid(e entry, hash uint64, info os.FileInfo) bool {
	return e.FormatVersion == formatVersion &&
		e.ContentHash == hash &&
		e.Size == info.Size() &&
		e.ModTimeNano == info.ModTime().UnixNano()
}

func (c *Cache) entryPath(hash uint64) string {
	return filepath.Join(c.dir, strconv.FormatUint(hash, 16)+".json")
}

// readDisk loads one entry. A corrupt or unreadable file is deleted and
// treated as a miss.
func (c *Cache) readDisk(hash uint64) (entry, bool) {
	data, err := os.ReadFile(c.entryPath(hash))
	if err != nil {
		return entry{}, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		os.Remove(c.entryPath(hash))
		return entry{}, false
	}
	return e, true
}

// pruneDisk drops the oldest entries once the disk tier exceeds its
// configured capacity.
func (c *Cache) pruneDisk() error {
	if c.diskCapacity <= 0 {
		return nil
	}
	names, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil || len(names) <= c.diskCapacity {
		return err
	}

	type aged struct {
		name string
		mod  int64
	}
	files := make([]aged, 0, len(names))
	for _, name := range names {
		info, err := os.Stat(name)
		if err != nil {
			continue
		}
		files = append(files, aged{name: name, mod: info.ModTime().UnixNano()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mod < files[j].mod })

	for _, f := range files[:len(files)-c.diskCapacity] {
		if err := os.Remove(f.name); err != nil {
			return fmt.Errorf("pruning cache entry %s: %w", f.name, err)
		}
	}
	return nil
}
