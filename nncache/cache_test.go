package nncache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleResult(n int, winrate float32) Netresult {
	policy := make([]float32, n)
	for i := range policy {
		policy[i] = float32(i%7) / 10
	}
	return Netresult{Policy: policy, PolicyPass: 0.02, Winrate: winrate}
}

func TestCacheMonotonicity(t *testing.T) {
	c := New(MinCacheCount, 19*19)
	r := sampleResult(19*19, 0.73)

	c.Insert(42, r)
	got, ok := c.Lookup(42)
	assert.True(t, ok)
	assert.Equal(t, r.PolicyPass, got.PolicyPass)
	assert.Equal(t, r.Winrate, got.Winrate)
	for i := range r.Policy {
		assert.InDelta(t, r.Policy[i], got.Policy[i], 64.0/quantum)
	}
}

func TestCacheLookupMiss(t *testing.T) {
	c := New(MinCacheCount, 9)
	_, ok := c.Lookup(999)
	assert.False(t, ok)
}

func TestCacheReservedHashNeverStored(t *testing.T) {
	c := New(MinCacheCount, 9)
	c.Insert(reservedHashValue, sampleResult(9, 0.1))
	_, ok := c.Lookup(reservedHashValue)
	assert.False(t, ok)
}

func TestCacheEvictionRespectsBound(t *testing.T) {
	c := New(MinCacheCount, 9)

	var firstHash uint64 = 1
	for h := uint64(1); h <= uint64(MinCacheCount+1); h++ {
		c.Insert(h, sampleResult(9, 0.5))
	}

	_, ok := c.Lookup(firstHash)
	assert.False(t, ok, "oldest entry should have been evicted")

	for h := uint64(2); h <= uint64(MinCacheCount+1); h++ {
		_, ok := c.Lookup(h)
		assert.True(t, ok, "hash %d should still be cached", h)
	}
}

func TestCacheResizeFromPlayouts(t *testing.T) {
	c := New(MinCacheCount, 9)
	c.SetSizeFromPlayouts(1000)
	assert.GreaterOrEqual(t, c.size, MinCacheCount)
	assert.LessOrEqual(t, c.size, MaxCacheCount)
}

func TestCacheFileRehydration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.bin")
	n := 9
	// At MinCacheCount the file-backed split gives the whole budget to the
	// hot cache and none to the index, so size the cache above it.
	size := 2 * MinCacheCount

	writer := New(size, n)
	ok := writer.LoadCachefile(path, false)
	assert.True(t, ok)

	const count = 2000
	want := make(map[uint64]Netresult, count)
	for h := uint64(1); h <= count; h++ {
		r := sampleResult(n, float32(h%200)/200)
		writer.Insert(h, r)
		want[h] = r
	}
	assert.NoError(t, writer.Close())

	reader := New(size, n)
	ok = reader.LoadCachefile(path, true)
	assert.True(t, ok)

	found := 0
	for h, r := range want {
		got, ok := reader.Lookup(h)
		if !ok {
			continue
		}
		found++
		assert.Equal(t, r.PolicyPass, got.PolicyPass)
		assert.Equal(t, r.Winrate, got.Winrate)
	}
	assert.Greater(t, found, 0, "at least some entries should survive rehydration")
}

func TestLoadCachefileFailedReadOnlyRevertsBudget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.bin")

	c := New(MinCacheCount, 9)
	before := c.maxCacheSize

	ok := c.LoadCachefile(path, true)
	assert.False(t, ok)
	assert.Equal(t, before, c.maxCacheSize, "a failed read-only load must not leave the cache capped at the file-backed budget")
	assert.Equal(t, 0, c.maxIndexSize)
	assert.Equal(t, "", c.path)
}

func TestHitRateTracksLookups(t *testing.T) {
	c := New(MinCacheCount, 9)
	c.Insert(1, sampleResult(9, 0.5))

	c.Lookup(1)
	c.Lookup(2)

	hits, lookups := c.HitRate()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, lookups)
}
