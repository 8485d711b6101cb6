package nncache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var quantizeCases = []struct {
	p float32
	q int
}{
	{0, 0},
	{0.5, 1024},
	{1, quantum - 1},
	{-1, 0},
	{2, quantum - 1},
	{1.0 / 2048, 1},
}

func TestQuantize(t *testing.T) {
	for _, c := range quantizeCases {
		if q := quantize(c.p); q != c.q {
			t.Errorf("quantize(%v) = %v, want %v", c.p, q, c.q)
		}
	}
}

func dequant(q int) float32 {
	return float32(q) / quantum
}

func TestCodecRoundTripAllZero(t *testing.T) {
	n := 361
	policy := make([]float32, n)

	bs := EncodePolicy(policy)
	decoded, err := DecodePolicy(bs, n)
	assert.NoError(t, err)
	assert.Equal(t, policy, decoded)
}

func TestCodecRoundTripSingleNonzero(t *testing.T) {
	n := 361
	policy := make([]float32, n)
	policy[1] = 0.5

	bs := EncodePolicy(policy)
	decoded, err := DecodePolicy(bs, n)
	assert.NoError(t, err)

	for i := range policy {
		if i == 1 {
			assert.InDelta(t, 0.5, decoded[i], 64.0/quantum)
			continue
		}
		assert.Equal(t, float32(0), decoded[i])
	}
}

func TestCodecRoundTripRandomish(t *testing.T) {
	n := 82
	policy := make([]float32, n)
	seed := uint32(12345)
	for i := range policy {
		// deterministic pseudo-random in [0,1), no math/rand dependency needed
		seed = seed*1103515245 + 12345
		if seed%3 == 0 {
			policy[i] = 0
			continue
		}
		policy[i] = float32(seed%2048) / 2048
	}

	bs := EncodePolicy(policy)
	decoded, err := DecodePolicy(bs, n)
	assert.NoError(t, err)
	assert.Len(t, decoded, n)

	for i, p := range policy {
		want := dequant(quantize(p))
		assert.InDelta(t, want, decoded[i], 64.0/quantum, "index %d", i)
	}
}

func TestDecodePolicyDetectsOverflow(t *testing.T) {
	// A Z-run symbol claiming more zeros than the output buffer can hold.
	bs := &BitStream{}
	pushSymbol(bs, zBase+13) // run of 15
	_, err := DecodePolicy(bs, 3)
	assert.Error(t, err)
}
