// Package layout maps logical LED positions onto physical strip indices.
package layout

// MapLayout returns, for every logical index i in [0, n), the physical index
// of that LED on the strip.
//
// With rows == 1 the LEDs form a single strip and the mapping is the
// identity. With rows > 1 the strip is assumed to be folded into a serpentine
// matrix wired column by column, down the first column, up the second and so
// on:
//
//	0 15 16 31 ...
//	1 14 17 30 ...
//	2 13 18 29 ...
//	...
//	7  8 23 24 ...
//
// The returned slice is in row-major logical order, so index r*cols+c gives
// the physical LED at row r, column c. Logical indices past rows*cols map to
// themselves. cols must be at least 1 when rows > 1; otherwise the identity
// is returned.
func MapLayout(rows, cols, n int) []int {
	m := make([]int, n)
	for i := range m {
		m[i] = i
	}

	if rows <= 1 || cols <= 0 {
		return m
	}

	cells := rows * cols
	for i := 0; i < n && i < cells; i++ {
		row, col := i/cols, i%cols
		if col%2 == 0 {
			m[i] = col*rows + row
		} else {
			m[i] = col*rows + (rows - 1 - row)
		}
	}

	return m
}
