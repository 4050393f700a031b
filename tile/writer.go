package tile

import (
	"bytes"
	"io"

	"github.com/bodgit/png2c/indexed"
)

type encoder struct {
	w     io.Writer
	depth uint

	// Pixels accumulated so far in the current byte
	n   uint
	acc byte
}

func (e *encoder) writePixel(p byte) error {
	e.acc = e.acc<<e.depth | p&(1<<e.depth-1)
	e.n++

	if e.n == bitsPerByte/e.depth {
		if _, err := e.w.Write([]byte{e.acc}); err != nil {
			return err
		}
		e.n, e.acc = 0, 0
	}

	return nil
}

func (e *encoder) encodeBlank(width int) error {
	// One row of tiles is TileHeight rows of pixels, which is width*depth
	// bytes whatever the depth is
	b := make([]byte, RowBytes(width, int(e.depth))*TileHeight*BlankTiles)
	_, err := e.w.Write(b)
	return err
}

func (e *encoder) encode(m *indexed.Image) error {
	for y := 0; y < m.Height; y++ {
		for _, p := range m.Pix[y*m.Width : (y+1)*m.Width] {
			if err := e.writePixel(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// Encode writes the pixels of m to w packed at the image bit depth, preceded
// by a row of blank tiles if tileset is set. The image is validated first.
func Encode(w io.Writer, m *indexed.Image, tileset bool) error {
	if err := m.Validate(); err != nil {
		return err
	}

	if err := m.CheckPixels(); err != nil {
		return err
	}

	e := encoder{w: w, depth: uint(m.Depth)}

	if tileset {
		if err := e.encodeBlank(m.Width); err != nil {
			return err
		}
	}

	return e.encode(m)
}

// Bitmap is a packed image.
type Bitmap struct {
	Width   int
	Height  int
	Depth   int
	Tileset bool

	// Packed pixels, including any blank tiles
	Data []byte
}

// Pack returns the pixels of m packed at the image bit depth.
func Pack(m *indexed.Image, tileset bool) (*Bitmap, error) {
	b := new(bytes.Buffer)
	if err := Encode(b, m, tileset); err != nil {
		return nil, err
	}

	return &Bitmap{
		Width:   m.Width,
		Height:  m.Height,
		Depth:   m.Depth,
		Tileset: tileset,
		Data:    b.Bytes(),
	}, nil
}

// RowBytes returns the number of packed bytes in each row.
func (b *Bitmap) RowBytes() int {
	return RowBytes(b.Width, b.Depth)
}

// Length returns the element count for the bitmap, see Length.
func (b *Bitmap) Length() int {
	return Length(b.Width, b.Height, b.Depth, b.Tileset)
}

func (b *Bitmap) blankBytes() int {
	if !b.Tileset {
		return 0
	}
	return b.RowBytes() * TileHeight * BlankTiles
}

// Blank returns the packed blank tiles, empty unless the bitmap is a
// tileset.
func (b *Bitmap) Blank() []byte {
	return b.Data[:b.blankBytes()]
}

// Pixels returns the packed pixels of the source image.
func (b *Bitmap) Pixels() []byte {
	return b.Data[b.blankBytes():]
}
