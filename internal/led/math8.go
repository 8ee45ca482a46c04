package led

// QAdd8 adds two bytes, saturating at 255.
func QAdd8(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

// QSub8 subtracts b from a, saturating at 0.
func QSub8(a, b uint8) uint8 {
	if b > a {
		return 0
	}
	return a - b
}

// Scale8 scales i by scale/256.
func Scale8(i, scale uint8) uint8 {
	return uint8((uint16(i) * (1 + uint16(scale))) >> 8)
}

// Scale8Video is like Scale8 but never scales a non-zero value down to zero
// unless scale itself is zero.
func Scale8Video(i, scale uint8) uint8 {
	if i == 0 || scale == 0 {
		return 0
	}
	return uint8((uint16(i)*uint16(scale))>>8) + 1
}

// Lerp8 linearly interpolates from a to b by frac/256.
func Lerp8(a, b, frac uint8) uint8 {
	if b > a {
		return a + Scale8(b-a, frac)
	}
	return a - Scale8(a-b, frac)
}

// Map linearly maps x from [inMin, inMax] onto [outMin, outMax] using integer
// arithmetic.
func Map(x, inMin, inMax, outMin, outMax int) int {
	if inMax == inMin {
		return outMin
	}
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}
