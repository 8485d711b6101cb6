package nncache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitStreamRoundTrip(t *testing.T) {
	pushes := []struct {
		width int
		v     uint64
	}{
		{4, 0xA}, {1, 1}, {10, 0x3FF}, {7, 0x55}, {64, 0xDEADBEEFCAFEBABE}, {3, 0}, {5, 0x1F},
	}

	bs := &BitStream{}
	offsets := make([]int, len(pushes))
	for i, p := range pushes {
		offsets[i] = bs.Size()
		bs.PushBits(p.width, p.v)
	}

	for i, p := range pushes {
		mask := uint64(1)<<uint(p.width) - 1
		if p.width == 64 {
			mask = ^uint64(0)
		}
		got := bs.ReadBits(offsets[i], p.width)
		assert.Equal(t, p.v&mask, got, "push %d", i)
	}
}

func TestBitStreamBytesRoundTrip(t *testing.T) {
	bs := &BitStream{}
	bs.PushBits(8, 0xAB)
	bs.PushBits(8, 0xCD)
	bs.PushBits(4, 0x5)

	rebuilt := FromBytes(bs.Bytes())
	assert.Equal(t, uint64(0xAB), rebuilt.ReadBits(0, 8))
	assert.Equal(t, uint64(0xCD), rebuilt.ReadBits(8, 8))
}

func TestBitStreamClear(t *testing.T) {
	bs := &BitStream{}
	bs.PushBits(32, 0x12345678)
	bs.Clear()
	assert.Equal(t, 0, bs.Size())
	bs.PushBits(8, 0xFF)
	assert.Equal(t, uint64(0xFF), bs.ReadBits(0, 8))
}
