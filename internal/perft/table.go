package perft

import (
	"sync"
	"sync/atomic"
)

// Number of lock shards (power of 2 for fast modulo)
const (
	shardCount = 256
	shardMask  = shardCount - 1
)

// tableEntry is one cached subtree count.
type tableEntry struct {
	key   uint64 // full Zobrist hash, checked on probe
	nodes uint64
	depth int32
}

// Table caches subtree node counts by Zobrist hash and depth. It is safe
// for concurrent use by the workers of Parallel.
type Table struct {
	entries []tableEntry
	shards  [shardCount]sync.RWMutex
	mask    uint64

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewTable creates a table of about sizeMB megabytes.
func NewTable(sizeMB int) *Table {
	if sizeMB < 1 {
		sizeMB = 1
	}
	n := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / 24)
	return &Table{
		entries: make([]tableEntry, n),
		mask:    n - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe returns the cached count for hash at depth.
func (t *Table) Probe(hash uint64, depth int) (uint64, bool) {
	t.probes.Add(1)

	idx := hash & t.mask
	shard := &t.shards[idx&shardMask]
	shard.RLock()
	e := t.entries[idx]
	shard.RUnlock()

	if e.key == hash && e.depth == int32(depth) {
		t.hits.Add(1)
		return e.nodes, true
	}
	return 0, false
}

// Store records the count for hash at depth. A deeper entry in the slot is
// not replaced by a shallower one.
func (t *Table) Store(hash uint64, depth int, nodes uint64) {
	idx := hash & t.mask
	shard := &t.shards[idx&shardMask]
	shard.Lock()
	e := &t.entries[idx]
	if e.depth <= int32(depth) || e.key == 0 {
		*e = tableEntry{key: hash, nodes: nodes, depth: int32(depth)}
	}
	shard.Unlock()
}

// Clear empties the table and resets its statistics.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = tableEntry{}
	}
	t.hits.Store(0)
	t.probes.Store(0)
}

// HitRate returns the share of probes answered from the table, in percent.
func (t *Table) HitRate() float64 {
	probes := t.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(t.hits.Load()) / float64(probes) * 100
}

// Size returns the number of entries.
func (t *Table) Size() int {
	return len(t.entries)
}
