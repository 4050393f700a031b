/*
Package tile implements packing palette indices into bytes at 1, 2, 4 or 8
bits per pixel.

Pixels are consumed in row-major order and packed most significant bits
first, so at 2 bits per pixel the byte 0b00011011 holds the indices 0, 1, 2
and 3 from left to right. As the image width is always a multiple of 8 each
row ends on a byte boundary.

When packing a tileset, a row of blank 8 by 8 tiles is prepended so that
tile index 0 is always empty.
*/
package tile

const (
	// TileWidth is the width in pixels of a single tile
	TileWidth = 8
	// TileHeight is the height in pixels of a single tile
	TileHeight = TileWidth

	// BlankTiles is the number of tile rows reserved at the start of a
	// tileset
	BlankTiles = 1

	bitsPerByte = 8
)

// RowBytes returns the number of packed bytes in a row of width pixels.
func RowBytes(width, depth int) int {
	return width * depth / bitsPerByte
}

// Length returns the element count reported alongside a packed bitmap. For a
// tileset one extra row is counted for the blank tiles, so unlike the byte
// count the blank row is not TileHeight pixels high.
func Length(width, height, depth int, tileset bool) int {
	extra := 0
	if tileset {
		extra = BlankTiles
	}
	return width * (height + extra) / (bitsPerByte / depth)
}
