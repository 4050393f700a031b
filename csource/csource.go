/*
Package csource writes packed bitmaps and palettes as C source, a header
declaring the arrays and a source file defining them.

Every array is a const uint8_t array with a matching const uint16_t length.
*/
package csource

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bodgit/png2c/palette"
	"github.com/bodgit/png2c/tile"
)

// Asset is everything emitted for a single image.
type Asset struct {
	Name   string
	Bitmap *tile.Bitmap

	// Reduced palette, nil to omit it
	Palette       []byte
	PaletteLength int
}

// HasPalette reports whether the palette arrays are emitted.
func (a *Asset) HasPalette() bool {
	return a.Palette != nil
}

// WriteHeader writes the header declaring the arrays of a.
func WriteHeader(w io.Writer, a *Asset) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "#ifndef %s_h\n", a.Name)
	fmt.Fprintf(bw, "#define %s_h\n", a.Name)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "#include <stdint.h>")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "extern const uint8_t %s[];\n", a.Name)
	fmt.Fprintf(bw, "extern const uint16_t %s_length;\n", a.Name)
	if a.HasPalette() {
		fmt.Fprintf(bw, "extern const uint8_t %s_palette[];\n", a.Name)
		fmt.Fprintf(bw, "extern const uint16_t %s_palette_length;\n", a.Name)
	}
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "#endif // %s_h\n", a.Name)

	return bw.Flush()
}

// Blank tiles at 1 and 2 bits per pixel are written in binary
func blankFormat(depth int) string {
	if depth == 1 || depth == 2 {
		return "0b%08b, "
	}
	return "0x%02X, "
}

func writeBitmap(w io.Writer, b *tile.Bitmap) {
	perLine := b.RowBytes()
	i := 0

	for _, v := range b.Blank() {
		fmt.Fprintf(w, blankFormat(b.Depth), v)
		if i++; i%perLine == 0 {
			fmt.Fprintln(w)
		}
	}

	for _, v := range b.Pixels() {
		fmt.Fprintf(w, "0x%02X, ", v)
		if i++; i%perLine == 0 {
			fmt.Fprintln(w)
		}
	}
}

func writePalette(w io.Writer, p []byte) {
	for i := 0; i+palette.EntrySize <= len(p); i += palette.EntrySize {
		fmt.Fprintf(w, "0x%02X, 0x%02X,\n", p[i], p[i+1])
	}
}

// WriteSource writes the source defining the arrays of a. The header is
// expected to be named after a.Name.
func WriteSource(w io.Writer, a *Asset) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "#include \"%s.h\"\n\n", a.Name)
	fmt.Fprintf(bw, "const uint8_t %s[] = {\n", a.Name)
	writeBitmap(bw, a.Bitmap)
	fmt.Fprintf(bw, "};\n\n")
	fmt.Fprintf(bw, "const uint16_t %s_length = %d;\n", a.Name, a.Bitmap.Length())

	if a.HasPalette() {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "const uint8_t %s_palette[] = {\n", a.Name)
		writePalette(bw, a.Palette)
		fmt.Fprintf(bw, "};\n\n")
		fmt.Fprintf(bw, "const uint16_t %s_palette_length = %d;\n", a.Name, a.PaletteLength)
	}

	return bw.Flush()
}
