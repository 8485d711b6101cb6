package nncache

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Budgeting constants, carried from the original engine.
const (
	MinCacheCount = 6_000
	MaxCacheCount = 150_000
	// EntrySize is a nominal per-entry memory footprint, used only to
	// translate a playout/size budget into an index (file-map) budget.
	EntrySize = 15_000
	// unlimited caps set_size_from_playouts's input so a pathological
	// playout count can't overflow the budget math.
	unlimitedPlayouts = MaxCacheCount * 1000
)

// reservedHashValue is never stored in the cache.
const reservedHashValue = reservedHash

// NNCache is a two-tier cache of neural-network evaluations: a hot
// in-memory LRU-by-insertion map, and a cold hash-to-file-offset index
// backed by an append-only DiskJournal. See lookup/insert for the
// invariants this type maintains.
type NNCache struct {
	mu sync.RWMutex

	size int // the requested size, as passed to Resize
	n    int // length of every cached policy vector (fixed per game/board size)

	cache map[uint64]CacheEntry
	order []uint64 // FIFO of cache keys; order[0] is the next evictee

	index      map[uint64]int64 // hash -> journal offset
	indexOrder []uint64         // FIFO of index keys, for deterministic eviction

	journal *DiskJournal
	path    string

	maxCacheSize int
	maxIndexSize int

	// Counters are updated under RLock by concurrent readers, so they are
	// plain int64s touched only through sync/atomic - mirrors mcts.Node's
	// atomic-field pattern for state shared across search goroutines.
	hits, fileHits, lookups, inserts int64
}

// New creates an NNCache budgeted for size entries (no journal attached).
// n is the length of the policy vector this cache will hold - fixed for
// the lifetime of the cache, since one NNCache serves one game/board size.
func New(size, n int) *NNCache {
	c := &NNCache{
		n:     n,
		cache: make(map[uint64]CacheEntry),
		index: make(map[uint64]int64),
	}
	c.Resize(size)
	return c
}

// Resize recomputes the cache/index budgets from size: when no journal is
// active, the whole budget goes to the in-memory cache; when a journal is
// active, the budget is split so that roughly half goes to the hot cache
// (bounded to [Min, Max]) and the remainder is translated into an
// index-entry budget.
func (c *NNCache) Resize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resizeLocked(size, c.journal != nil || len(c.index) != 0)
}

// resizeLocked recomputes budgets from size. forceFileBudget is set by
// LoadCachefile to pre-reserve index budget before the journal has been
// scanned (matching the original's resize(size, reserve_filecache=true)).
func (c *NNCache) resizeLocked(size int, forceFileBudget bool) {
	c.size = size
	clamped := clamp(size, MinCacheCount, MaxCacheCount)

	if c.journal == nil && len(c.index) == 0 && !forceFileBudget {
		c.maxCacheSize = clamped
		c.maxIndexSize = 0
	} else {
		cacheBudget := MinCacheCount + (clamped-MinCacheCount)/2
		if cacheBudget > MaxCacheCount {
			cacheBudget = MaxCacheCount
		}
		c.maxCacheSize = cacheBudget
		remaining := size - cacheBudget
		if remaining < 0 {
			remaining = 0
		}
		c.maxIndexSize = remaining * EntrySize / 32
	}

	for len(c.order) > c.maxCacheSize {
		c.evictCacheLocked()
	}
	for len(c.indexOrder) > c.maxIndexSize {
		c.evictIndexLocked()
	}
}

// SetSizeFromPlayouts derives a cache size from an expected number of
// playouts: size = clamp(3 * min(playouts, unlimited/3), Min, Max).
func (c *NNCache) SetSizeFromPlayouts(playouts int) {
	p := playouts
	if p > unlimitedPlayouts/3 {
		p = unlimitedPlayouts / 3
	}
	c.Resize(clamp(3*p, MinCacheCount, MaxCacheCount))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lookup returns the cached result for hash, if any. A hit first checks the
// hot in-memory map, then the cold disk index; a cold hit opens the
// journal read-only and decodes the single record, outside the cache lock.
func (c *NNCache) Lookup(hash uint64) (Netresult, bool) {
	c.mu.RLock()
	atomic.AddInt64(&c.lookups, 1)

	if entry, ok := c.cache[hash]; ok {
		atomic.AddInt64(&c.hits, 1)
		c.mu.RUnlock()
		r, err := entry.Get()
		if err != nil {
			return Netresult{}, false
		}
		return r, true
	}

	offset, ok := c.index[hash]
	path := c.path
	n := c.n
	c.mu.RUnlock()
	if !ok {
		return Netresult{}, false
	}

	r, err := ReadEntryAt(path, offset, hash, n)
	if err != nil {
		return Netresult{}, false
	}

	atomic.AddInt64(&c.fileHits, 1)
	return r, true
}

// Insert adds result under hash unless it is already cached or hash is the
// reserved sentinel. If a journal is writable and the compressed record
// fits the on-disk byte-length limit, it is appended and indexed before
// the hot entry is created. Either tier may evict to stay within budget.
func (c *NNCache) Insert(hash uint64, result Netresult) {
	if hash == reservedHashValue {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.cache[hash]; ok {
		return
	}

	ce := Compress(result)

	if c.journal != nil && c.journal.Writable() {
		if size := (ce.Bits.Size() + 7) / 8; size < 256 {
			if offset, err := c.journal.Append(hash, ce); err == nil {
				if _, existed := c.index[hash]; !existed {
					c.indexOrder = append(c.indexOrder, hash)
				}
				c.index[hash] = offset
				for len(c.indexOrder) > c.maxIndexSize {
					c.evictIndexLocked()
				}
			}
		}
	}

	c.cache[hash] = newCacheEntry(result)
	c.order = append(c.order, hash)
	atomic.AddInt64(&c.inserts, 1)

	for len(c.order) > c.maxCacheSize {
		c.evictCacheLocked()
	}
}

func (c *NNCache) evictCacheLocked() {
	victim := c.order[0]
	c.order = c.order[1:]
	delete(c.cache, victim)
}

// evictIndexLocked drops the oldest index entry. The underlying journal
// bytes are untouched - the entry merely becomes unreachable until the
// journal is rescanned. This resolves the "arbitrary" eviction called out
// in the original design as an explicit FIFO rather than leaving it to Go's
// randomized map iteration order.
func (c *NNCache) evictIndexLocked() {
	if len(c.indexOrder) == 0 {
		return
	}
	victim := c.indexOrder[0]
	c.indexOrder = c.indexOrder[1:]
	delete(c.index, victim)
}

// LoadCachefile attaches path as this cache's journal. If readOnly, path
// must already exist and contain at least one entry; otherwise a new
// journal is created (or an existing one reopened for append) and its
// existing entries, if any, are scanned into the index.
func (c *NNCache) LoadCachefile(path string, readOnly bool) bool {
	c.mu.Lock()
	if c.journal != nil {
		c.journal.Close()
		c.journal = nil
	}
	c.index = make(map[uint64]int64)
	c.indexOrder = c.indexOrder[:0]
	c.path = path
	c.resizeLocked(c.size, true)
	c.mu.Unlock()

	index, order, err := ScanJournal(path)
	if err != nil {
		if readOnly {
			c.mu.Lock()
			c.path = ""
			c.resizeLocked(c.size, false)
			c.mu.Unlock()
			return false
		}
		index, order = make(map[uint64]int64), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range order {
		c.index[h] = index[h]
		c.indexOrder = append(c.indexOrder, h)
	}
	for len(c.indexOrder) > c.maxIndexSize {
		c.evictIndexLocked()
	}

	if len(c.index) == 0 && readOnly {
		c.path = ""
		c.resizeLocked(c.size, false)
		return false
	}

	if !readOnly {
		j, err := CreateJournal(path)
		if err != nil {
			c.path = ""
			c.resizeLocked(c.size, false)
			return false
		}
		c.journal = j
	}
	return true
}

// HitRate returns (hits, lookups) across both tiers.
func (c *NNCache) HitRate() (hits, lookups int) {
	h := atomic.LoadInt64(&c.hits) + atomic.LoadInt64(&c.fileHits)
	l := atomic.LoadInt64(&c.lookups)
	return int(h), int(l)
}

// GetEstimatedSize returns the estimated memory consumption of the cache.
func (c *NNCache) GetEstimatedSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)*EntrySize + len(c.indexOrder)*32
}

// DumpStats returns a human-readable summary of cache hit rates, matching
// the two-line report the original engine prints at shutdown.
func (c *NNCache) DumpStats() string {
	hits := atomic.LoadInt64(&c.hits)
	fileHits := atomic.LoadInt64(&c.fileHits)
	lookups := atomic.LoadInt64(&c.lookups)
	inserts := atomic.LoadInt64(&c.inserts)

	c.mu.RLock()
	cacheSize, indexSize := len(c.cache), len(c.index)
	c.mu.RUnlock()

	return fmt.Sprintf(
		"NNCache memory: %d/%d hits/lookups = %.1f%% hitrate, %d inserts, %d size\n"+
			"NNCache file: %d/%d hits/lookups = %.1f%% hitrate, %d inserts, %d size\n",
		hits, lookups, 100*float64(hits)/float64(lookups+1), inserts, cacheSize,
		fileHits, lookups, 100*float64(fileHits)/float64(lookups+1), inserts, indexSize,
	)
}

// Close releases the journal write handle, if any.
func (c *NNCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.journal == nil {
		return nil
	}
	err := c.journal.Close()
	c.journal = nil
	return err
}
