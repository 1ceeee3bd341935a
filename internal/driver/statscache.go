package driver

import (
	"sync"
)

// minimal per-process cache by file path + options-aware content key
type cached struct {
	key   Digest
	stats Stats
}

// StatsCache keeps Stats in memory and, when a DiskCache is attached, on
// disk. A nil *StatsCache is a valid cache that never hits.
type StatsCache struct {
	mu     sync.RWMutex
	byPath map[string]cached
	disk   *DiskCache
}

// NewStatsCache creates a StatsCache with the given capacity hint. disk may
// be nil.
func NewStatsCache(capHint int, disk *DiskCache) *StatsCache {
	return &StatsCache{byPath: make(map[string]cached, capHint), disk: disk}
}

// Get looks up path in memory, then on disk. A memory entry whose key
// differs (the file changed) is ignored.
func (c *StatsCache) Get(path string, key Digest) (Stats, bool, error) {
	if c == nil {
		return Stats{}, false, nil
	}
	c.mu.RLock()
	rec, ok := c.byPath[path]
	c.mu.RUnlock()
	if ok && rec.key == key {
		return rec.stats, true, nil
	}

	var payload DiskPayload
	found, err := c.disk.Get(key, &payload)
	if err != nil || !found {
		return Stats{}, false, err
	}
	c.remember(path, key, payload.Stats)
	return payload.Stats, true, nil
}

// Put stores stats in memory and on disk.
func (c *StatsCache) Put(path string, key Digest, st Stats) error {
	if c == nil {
		return nil
	}
	c.remember(path, key, st)
	return c.disk.Put(key, &DiskPayload{Path: path, Stats: st})
}

func (c *StatsCache) remember(path string, key Digest, st Stats) {
	c.mu.Lock()
	c.byPath[path] = cached{key: key, stats: st}
	c.mu.Unlock()
}
