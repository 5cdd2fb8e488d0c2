package ds3231

// toBCD converts a value 0-99 to packed BCD. Larger values do not fit and wrap.
func toBCD(dec uint8) uint8 {
	return (dec/10)<<4 | dec%10
}

// fromBCD converts packed BCD to its decimal value. Nibbles are not checked.
func fromBCD(bcd uint8) uint8 {
	return (bcd>>4)*10 + bcd&0x0F
}
