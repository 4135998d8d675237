// Package fixedpoint holds the integer numeric models used to turn raw
// demodulator and tuner readings into calibrated figures.
package fixedpoint

// MaxBitPrecision is the number of bits below the MSB used to index the
// fractional table
const MaxBitPrecision = 5

const fracBitmask = 0x1F

// Log2Of10x100 is 100*log2(10) rounded to an integer
const Log2Of10x100 = 332

// 100*log2(1+i/32), i = 0..31
var log2Table = [32]uint32{
	0, 4, 9, 13, 17, 21, 25, 29,
	32, 36, 39, 43, 46, 49, 52, 55,
	58, 61, 64, 67, 70, 73, 75, 78,
	81, 83, 86, 88, 91, 93, 95, 98,
}

// Log2 returns 100*log2(x). Inputs 0 and 1 both return 0.
func Log2(x uint32) uint32 {
	count := uint32(0)
	for v := x >> 1; v != 0; v >>= 1 {
		count++
	}

	result := count * 100
	if count > 0 {
		var idx uint32
		if count <= MaxBitPrecision {
			idx = (x << (MaxBitPrecision - count)) & fracBitmask
		} else {
			idx = (x >> (count - MaxBitPrecision)) & fracBitmask
		}
		result += log2Table[idx]
	}
	return result
}

// Log10 returns 100*log10(x), rounded to nearest
func Log10(x uint32) uint32 {
	return (100*Log2(x) + Log2Of10x100/2) / Log2Of10x100
}

// TwosComplement sign-extends the low width bits of value. Widths of 0
// and 32 or more return value unchanged.
func TwosComplement(value uint32, width uint) int32 {
	if width == 0 || width >= 32 {
		return int32(value)
	}
	if value&(1<<(width-1)) != 0 {
		return int32(value | maskUpper(32-width))
	}
	return int32(value & maskLower(width))
}

func maskUpper(n uint) uint32 {
	if n == 0 {
		return 0
	}
	return 0xFFFFFFFF << (32 - n)
}

func maskLower(n uint) uint32 {
	if n == 0 {
		return 0
	}
	return 0xFFFFFFFF >> (32 - n)
}
