package bit

import "math/bits"

// IsSet will check if the bit at the specified index is set to 1 or not.
func IsSet(index uint8, value uint32) bool {
	return ((value >> index) & 1) == 1
}

// Set will return the passed value with the bit at the specified index set to 1.
func Set(index uint8, value uint32) uint32 {
	return value | (1 << index)
}

// Clear will return the passed value with the bit at the specified index set to 0.
func Clear(index uint8, value uint32) uint32 {
	return value &^ (1 << index)
}

// Mask builds a value with every listed bit set.
func Mask(indexes ...uint8) uint32 {
	var m uint32
	for _, i := range indexes {
		m = Set(i, m)
	}
	return m
}

// Count returns the number of bits set to 1.
func Count(value uint32) int {
	return bits.OnesCount32(value)
}

// Lowest returns the index of the least significant set bit.
// ok is false when value is zero.
func Lowest(value uint32) (index uint8, ok bool) {
	if value == 0 {
		return 0, false
	}
	return uint8(bits.TrailingZeros32(value)), true
}

// ActiveLow converts a raw port read where asserted lines read as 0 into a value
// where asserted lines are 1, keeping only the lines in mask.
func ActiveLow(raw, mask uint32) uint32 {
	return ^raw & mask
}
