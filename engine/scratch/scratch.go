// Package scratch holds a package-level reusable byte buffer for per-frame
// string building (HUD labels, window titles). Single-threaded usage:
// Init once at startup, Reset once per frame.
package scratch

import "strconv"

var buf []byte

// Init sets up the global scratch buffer. Call once at startup.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1024
	}
	buf = make([]byte, 0, capacity)
}

// Reset clears the buffer length without freeing memory. Call once per frame.
func Reset() { buf = buf[:0] }

func Cap() int { return cap(buf) }
func Len() int { return len(buf) }

// ----- Chainable builder over the global buffer -----

type Builder struct{}

// F returns a builder bound to the global buffer.
func F() Builder { return Builder{} }

// Mark returns a bookmark to later slice the output.
func Mark() int { return len(buf) }

// StringFrom copies the range since mark into a string.
func StringFrom(mark int) string { return string(buf[mark:]) }

func (Builder) S(s string) Builder {
	buf = append(buf, s...)
	return Builder{}
}

func (Builder) C(c byte) Builder {
	buf = append(buf, c)
	return Builder{}
}

// I appends a base-10 integer.
func (Builder) I(v int) Builder {
	buf = strconv.AppendInt(buf, int64(v), 10)
	return Builder{}
}

// F64 appends a float with the given precision.
func (Builder) F64(v float64, prec int) Builder {
	buf = strconv.AppendFloat(buf, v, 'f', prec, 64)
	return Builder{}
}

// Pct appends v (0..1) as a percentage without the sign, e.g. 0.42 -> "42".
func (Builder) Pct(v float64) Builder {
	buf = strconv.AppendInt(buf, int64(v*100+0.5), 10)
	return Builder{}
}
