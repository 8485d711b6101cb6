package nncache

import (
	"github.com/chewxy/math32"
	"gorgonia.org/vecf32"
)

// Quantization precision: every policy element is quantized to one of 2048
// buckets before encoding. Dequantization divides back by this constant.
const quantum = 2048

const (
	vBase = 0  // V0..V63   : literal low-6-bit value
	zBase = 64 // Z0..Z15   : run of k+2 zeros
	xBase = 80 // X0..X31   : extension of the preceding V or Z symbol
)

// codeRow is one row of the 18-entry V/Z/X prefix code table: code
// matches the low width bits of the lookahead, and the matching symbol is
// base + ((lookahead >> width) mod count), where base is the running count
// of symbols from earlier rows.
type codeRow struct {
	code  uint64
	width uint
	count uint
}

// encodeTable mirrors the 18-row table: V0, V1, V2-3, V4-7, V8-15, V16-31,
// V32-63, Z0, Z1, Z2-3, Z4-7, Z8-15, X0, X1, X2-3, X4-7, X8-15, X16-31.
var encodeTable = [18]codeRow{
	{0x4, 4, 1},
	{0x0, 3, 1},
	{0xc, 4, 2},
	{0x2, 4, 4},
	{0xa, 4, 8},
	{0x6, 4, 16},
	{0xe, 4, 32},
	{0x1, 4, 1},
	{0x9, 4, 1},
	{0x5, 4, 2},
	{0xd, 4, 4},
	{0x3, 4, 8},
	{0xb, 4, 1},
	{0x7, 5, 1},
	{0x17, 5, 2},
	{0xf, 5, 4},
	{0x1f, 6, 8},
	{0x3f, 6, 16},
}

// bitLog2 returns log2(x) for the powers of two (1..32) that appear as
// table counts.
func bitLog2(x uint) uint {
	switch x {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	case 8:
		return 3
	case 16:
		return 4
	case 32:
		return 5
	}
	return 7
}

// pushSymbol appends the prefix code for symbol to the stream.
func pushSymbol(bs *BitStream, symbol int) {
	base := 0
	for _, row := range encodeTable {
		if symbol >= base && symbol < base+int(row.count) {
			code := row.code | (uint64(symbol-base) << row.width)
			bs.PushBits(int(row.width+bitLog2(row.count)), code)
			return
		}
		base += int(row.count)
	}
}

// readSymbol peeks 10 bits at iptr, matches a table row, and returns the
// decoded symbol and the number of bits consumed.
func readSymbol(bs *BitStream, iptr int) (symbol, consumed int) {
	lookahead := bs.ReadBits(iptr, 10)
	base := 0
	for _, row := range encodeTable {
		mask := (uint64(1) << row.width) - 1
		if row.code == lookahead&mask {
			symbol = base + int((lookahead>>row.width)%uint64(row.count))
			consumed = int(row.width + bitLog2(row.count))
			return
		}
		base += int(row.count)
	}
	return 0, 0
}

// EncodePolicy encodes a length-N policy vector (values in [0,1]) into a
// fresh BitStream using the V/Z/X symbol classes above.
func EncodePolicy(policy []float32) *BitStream {
	bs := &BitStream{}
	n := len(policy)
	i := 0
	for i < n {
		q := quantize(policy[i])
		if q == 0 {
			count := 0
			for i < n && quantize(policy[i]) == 0 {
				i++
				count++
			}
			if count == 1 {
				pushSymbol(bs, vBase)
				continue
			}
			bias := (count - 2) / 16
			offset := (count - 2) % 16
			pushSymbol(bs, zBase+offset)
			if bias != 0 {
				pushSymbol(bs, xBase+bias-1)
			}
			continue
		}

		bias := q / 64
		offset := q % 64
		pushSymbol(bs, vBase+offset)
		if bias != 0 {
			pushSymbol(bs, xBase+bias-1)
		}
		i++
	}
	return bs
}

// DecodePolicy decodes a BitStream produced by EncodePolicy back into a
// length-n policy vector. n must be the original vector length - it is
// carried alongside the compressed entry since it is no longer a global
// constant (board sizes vary across games). Symbols are accumulated as raw
// quantization buckets and divided down to [0,1] in a single vectorized pass
// at the end, the same scale-the-whole-slice shape encoding_helper.go's
// encodeWhite uses for its own per-element transform.
func DecodePolicy(bs *BitStream, n int) ([]float32, error) {
	policy := make([]float32, n)
	iptr := 0
	optr := 0
	prevType := -1 // -1: none/extension consumed, 0: V, 1: Z

	for optr < n {
		symbol, consumed := readSymbol(bs, iptr)
		iptr += consumed

		switch {
		case symbol < zBase:
			policy[optr] = float32(symbol)
			optr++
			prevType = 0
		case symbol < xBase:
			run := symbol - zBase + 2
			for k := 0; k < run; k++ {
				if optr >= n {
					return nil, ErrOverflow
				}
				policy[optr] = 0
				optr++
			}
			prevType = 1
		default:
			bias := symbol - xBase + 1
			switch prevType {
			case 0:
				policy[optr-1] += float32(64 * bias)
			case 1:
				for k := 0; k < bias*16; k++ {
					if optr >= n {
						return nil, ErrOverflow
					}
					policy[optr] = 0
					optr++
				}
			default:
				return nil, ErrStrayExtension
			}
			prevType = -1
		}
	}

	size := bs.Size()
	if iptr > size || iptr < size-8 {
		return nil, ErrSizeMismatch
	}
	vecf32.Scale(policy, 1.0/quantum)
	return policy, nil
}

// quantize maps a probability in [0,1] to an integer bucket in [0, 2047].
func quantize(p float32) int {
	q := int(math32.Floor(p * quantum))
	if q < 0 {
		q = 0
	}
	if q > quantum-1 {
		q = quantum - 1
	}
	return q
}
