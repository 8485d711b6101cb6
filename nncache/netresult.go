package nncache

// Netresult is the immutable output of one neural-network evaluation: a
// per-action policy distribution, the probability assigned to passing, and
// a scalar winrate estimate in [-1, 1].
//
// Unlike the original fixed 19x19 board, N (len(Policy)) is carried per
// result rather than assumed to be a global constant, since this engine
// plays several board games of different sizes.
type Netresult struct {
	Policy     []float32
	PolicyPass float32
	Winrate    float32
}

// CompressedEntry is a Netresult in its on-disk/in-memory compressed form.
// Round-tripping through Decode() is lossy only insofar as each policy
// element is quantized to 1/2048 precision; PolicyPass and Winrate are
// preserved bit-exact.
type CompressedEntry struct {
	PolicyPass float32
	Winrate    float32
	N          int
	Bits       *BitStream
}

// Compress builds a CompressedEntry from a Netresult.
func Compress(r Netresult) CompressedEntry {
	return CompressedEntry{
		PolicyPass: r.PolicyPass,
		Winrate:    r.Winrate,
		N:          len(r.Policy),
		Bits:       EncodePolicy(r.Policy),
	}
}

// Decode reconstructs a Netresult from a CompressedEntry.
func (ce CompressedEntry) Decode() (Netresult, error) {
	policy, err := DecodePolicy(ce.Bits, ce.N)
	if err != nil {
		return Netresult{}, err
	}
	return Netresult{
		Policy:     policy,
		PolicyPass: ce.PolicyPass,
		Winrate:    ce.Winrate,
	}, nil
}

// CacheEntry is the in-memory holder kept in NNCache.cache: a
// (policy_pass, winrate, compressed_policy) tuple, decoded lazily on
// lookup. It never references its owning NNCache.
type CacheEntry struct {
	Compressed CompressedEntry
}

func newCacheEntry(r Netresult) CacheEntry {
	return CacheEntry{Compressed: Compress(r)}
}

// Get decodes the entry back into a Netresult.
func (e CacheEntry) Get() (Netresult, error) {
	return e.Compressed.Decode()
}
