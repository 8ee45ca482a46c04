// Package led contains the pixel buffer, color types and palettes shared by
// every animation.
package led

import (
	"io"
	"unsafe"
)

// LEDs describes a strip of LEDs. It is a preallocated slice of RGBColor and
// is never resized once created.
type LEDs []RGBColor

// NewLEDs creates a new strip of LEDs. Colors are initialized to black
// (off).
func NewLEDs(numLEDs int) LEDs {
	return make(LEDs, numLEDs)
}

// WriteTo implements io.WriterTo. It writes the LED strip to the given writer
// as a series of RGBColor values.
func (l LEDs) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, c := range l {
		n, err := w.Write(c[:])
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// AsPixels returns the LED strip as a slice of uint8 values. Each LED is
// represented by three values, one for each color channel. The returned slice
// shares memory with l.
func (l LEDs) AsPixels() []uint8 {
	if len(l) == 0 {
		return nil
	}
	return unsafe.Slice((*uint8)(unsafe.Pointer(&l[0])), 3*len(l))
}

// Set sets the color of the LED at the given index. Out-of-range indices are
// ignored.
func (l LEDs) Set(i int, c RGBColor) {
	if i < 0 || i >= len(l) {
		return
	}
	l[i] = c
}

// SetRange sets the color of the LEDs in the given range.
func (l LEDs) SetRange(start, end int, c RGBColor) {
	if start < 0 {
		start = 0
	}
	if end > len(l) {
		end = len(l)
	}
	for i := start; i < end; i++ {
		l[i] = c
	}
}

// Fill sets every LED to c.
func (l LEDs) Fill(c RGBColor) {
	for i := range l {
		l[i] = c
	}
}

// Clear turns every LED off.
func (l LEDs) Clear() {
	l.Fill(RGBColor{})
}

// Draw draws the given LEDs into the strip at the given index.
// It stops when either l or other is exhausted and returns the number of LEDs
// written.
func (l LEDs) Draw(start int, other LEDs) int {
	for i := range other {
		if start+i >= len(l) {
			return i
		}
		l[start+i] = other[i]
	}
	return len(other)
}

// ShiftUp moves every LED one position towards the end of the strip. The
// first LED keeps its color.
func (l LEDs) ShiftUp() {
	if len(l) < 2 {
		return
	}
	copy(l[1:], l[:len(l)-1])
}

// FadeToBlackBy dims every LED by amount/256 of its current value.
func (l LEDs) FadeToBlackBy(amount uint8) {
	keep := 255 - amount
	for i, c := range l {
		l[i] = RGBColor{
			Scale8(c[0], keep),
			Scale8(c[1], keep),
			Scale8(c[2], keep),
		}
	}
}

// ScaleInto writes l scaled by brightness into dst and returns dst. dst is
// grown if it is too short.
func (l LEDs) ScaleInto(dst LEDs, brightness uint8) LEDs {
	if cap(dst) < len(l) {
		dst = make(LEDs, len(l))
	}
	dst = dst[:len(l)]
	if brightness == 255 {
		copy(dst, l)
		return dst
	}
	for i, c := range l {
		dst[i] = c.Scale(brightness)
	}
	return dst
}
