package nncache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJournalAppendAndScan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.bin")

	j, err := CreateJournal(path)
	assert.NoError(t, err)

	n := 9
	entries := map[uint64]CompressedEntry{}
	for h := uint64(1); h <= 50; h++ {
		ce := Compress(sampleResult(n, float32(h)/50))
		_, err := j.Append(h, ce)
		assert.NoError(t, err)
		entries[h] = ce
	}
	assert.NoError(t, j.Close())

	index, order, err := ScanJournal(path)
	assert.NoError(t, err)
	assert.Len(t, order, len(entries))

	for h := range entries {
		offset, ok := index[h]
		assert.True(t, ok)
		r, err := ReadEntryAt(path, offset, h, n)
		assert.NoError(t, err)
		assert.Equal(t, entries[h].PolicyPass, r.PolicyPass)
		assert.Equal(t, entries[h].Winrate, r.Winrate)
	}
}

// TestJournalRecoverabilityUnderTruncation mirrors the testable property:
// truncating the journal at any byte offset and reloading yields an index
// whose entries all still decode successfully.
func TestJournalRecoverabilityUnderTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.bin")
	n := 9

	j, err := CreateJournal(path)
	assert.NoError(t, err)
	for h := uint64(1); h <= 200; h++ {
		_, err := j.Append(h, Compress(sampleResult(n, 0.5)))
		assert.NoError(t, err)
	}
	assert.NoError(t, j.Close())

	full, err := os.Stat(path)
	assert.NoError(t, err)
	fullSize := full.Size()

	for _, cut := range []int64{fullSize / 4, fullSize / 2, fullSize - 1, fullSize - 10} {
		truncated := filepath.Join(t.TempDir(), "cut.bin")
		data, err := os.ReadFile(path)
		assert.NoError(t, err)
		assert.NoError(t, os.WriteFile(truncated, data[:cut], 0644))

		index, _, err := ScanJournal(truncated)
		assert.NoError(t, err)
		for h, offset := range index {
			_, err := ReadEntryAt(truncated, offset, h, n)
			assert.NoError(t, err, "offset cut at %d", cut)
		}
	}
}

func TestScanJournalRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	assert.NoError(t, os.WriteFile(path, []byte("not-a-journal-header"), 0644))

	_, _, err := ScanJournal(path)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestJournalGuardResync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resync.bin")
	j, err := CreateJournal(path)
	assert.NoError(t, err)

	_, err = j.Append(1, Compress(sampleResult(9, 0.1)))
	assert.NoError(t, err)
	assert.NoError(t, j.writeGuard())
	_, err = j.Append(2, Compress(sampleResult(9, 0.2)))
	assert.NoError(t, err)
	assert.NoError(t, j.Close())

	index, order, err := ScanJournal(path)
	assert.NoError(t, err)
	assert.Len(t, order, 2)
	assert.Contains(t, index, uint64(1))
	assert.Contains(t, index, uint64(2))
}
