package bit

// Combine joins two bytes into a big-endian word, high byte first.
func Combine(high, low uint8) uint16 {
	return uint16(high)<<8 | uint16(low)
}

// CheckedAdd returns a+b truncated to 8 bits and whether the sum carried out.
func CheckedAdd(a, b uint8) (uint8, bool) {
	sum := uint16(a) + uint16(b)
	return uint8(sum), sum > 0xFF
}

// CheckedSub returns a-b truncated to 8 bits and whether it borrowed.
func CheckedSub(a, b uint8) (uint8, bool) {
	return a - b, b > a
}

// IsSet reports whether bit index of value is 1.
func IsSet(index, value uint8) bool {
	return value>>index&1 == 1
}

// GetBitValue returns bit index of value as 0 or 1.
func GetBitValue(index, value uint8) uint8 {
	return value >> index & 1
}

// Low returns the least significant byte of a word.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the most significant byte of a word.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// Nibble returns the 4 bit field at the given index of a 16 bit word.
// Index 3 is the most significant nibble, index 0 the least significant one.
func Nibble(value uint16, index uint8) uint8 {
	return uint8(value>>(index*4)) & 0x0F
}

// Address returns the low 12 bits of a word.
func Address(value uint16) uint16 {
	return value & 0x0FFF
}
