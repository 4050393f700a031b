/*
Package palette implements the reduction of 24-bit RGB palettes to the 12-bit
color format used by the display hardware.

Each color is stored as two bytes with 4 bits per channel, only the upper 4
bits of each 8-bit channel are kept. The channels are not stored in RGB
order; the first byte holds green and blue and the second byte holds red
with the upper 4 bits always zero:

	GGGGBBBB 0000RRRR
*/
package palette

import (
	"image/color"

	"github.com/bodgit/png2c/indexed"
)

// EntrySize is the number of bytes in each reduced color
const EntrySize = 2

func upperNibble(b byte) byte {
	return b >> 4
}

// Reduce converts a palette of serialized RGB triples. Any trailing partial
// entry is ignored.
func Reduce(p []byte) []byte {
	n := len(p) / indexed.EntrySize
	b := make([]byte, 0, n*EntrySize)
	for i := 0; i < n; i++ {
		r, g, bl := p[i*3], p[i*3+1], p[i*3+2]
		b = append(b, upperNibble(g)<<4|upperNibble(bl), upperNibble(r))
	}
	return b
}

// Length returns the element count of the reduced form of palette p.
func Length(p []byte) int {
	return EntrySize * len(p) / indexed.EntrySize
}

// Expand decodes reduced colors back to a palette, replicating each 4-bit
// channel into both nibbles.
func Expand(b []byte) color.Palette {
	p := make(color.Palette, len(b)/EntrySize)
	for i := range p {
		// Color is packed as GGGGBBBB0000RRRR
		g, bl, r := b[i*2]>>4, b[i*2]&0x0f, b[i*2+1]&0x0f
		p[i] = color.RGBA{r<<4 | r, g<<4 | g, bl<<4 | bl, 0xff}
	}
	return p
}
