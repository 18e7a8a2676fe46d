package hwio

// GetBit8 reports whether bit n of v is set.
func GetBit8(v uint8, n uint) bool {
	return v&(1<<n) != 0
}

// GetBiti8 returns bit n of v, as 0 or 1.
func GetBiti8(v uint8, n uint) uint8 {
	return (v >> n) & 1
}

// Bits8 extracts the field of width bits starting at bit lo.
func Bits8(v uint8, lo, width uint) uint8 {
	return (v >> lo) & (1<<width - 1)
}
