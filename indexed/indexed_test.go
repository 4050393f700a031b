package indexed

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPalette(n int) color.Palette {
	p := make(color.Palette, n)
	for i := range p {
		p[i] = color.RGBA{byte(i * 16), byte(255 - i), byte(i), 0xff}
	}
	return p
}

func testImage(w, h, colors int) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, w, h), testPalette(colors))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetColorIndex(x, y, byte((x*3+y*5)%colors))
		}
	}
	return m
}

func writeChunk(b *bytes.Buffer, name string, data []byte) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(data)))
	b.Write(tmp[:])
	b.WriteString(name)
	b.Write(data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(name))
	crc.Write(data)
	b.Write(crc.Sum(nil))
}

// Just enough PNG to exercise the header checks
func rawPNG(w, h, depth int, model ColorModel, plte []byte) []byte {
	b := new(bytes.Buffer)
	b.WriteString(pngHeader)

	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(w))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(h))
	ihdr[8] = byte(depth)
	ihdr[9] = byte(model)
	writeChunk(b, "IHDR", ihdr[:])

	writeChunk(b, "tEXt", []byte("Comment\x00test"))
	if plte != nil {
		writeChunk(b, "PLTE", plte)
	}
	writeChunk(b, "IEND", nil)

	return b.Bytes()
}

// Uncompressed bottom-up BMP, pixels packed most significant bits first
func rawBMP(m *image.Paletted, depth int) []byte {
	w, h := m.Bounds().Dx(), m.Bounds().Dy()
	stride := (w*depth + 31) / 32 * 4
	colors := len(m.Palette)
	offset := 14 + 40 + 4*colors

	b := new(bytes.Buffer)
	b.WriteString(bmpHeader)
	binary.Write(b, binary.LittleEndian, uint32(offset+stride*h))
	binary.Write(b, binary.LittleEndian, uint32(0))
	binary.Write(b, binary.LittleEndian, uint32(offset))

	binary.Write(b, binary.LittleEndian, uint32(40))
	binary.Write(b, binary.LittleEndian, int32(w))
	binary.Write(b, binary.LittleEndian, int32(h))
	binary.Write(b, binary.LittleEndian, uint16(1))
	binary.Write(b, binary.LittleEndian, uint16(depth))
	binary.Write(b, binary.LittleEndian, uint32(0))
	binary.Write(b, binary.LittleEndian, uint32(stride*h))
	binary.Write(b, binary.LittleEndian, int32(2835))
	binary.Write(b, binary.LittleEndian, int32(2835))
	binary.Write(b, binary.LittleEndian, uint32(colors))
	binary.Write(b, binary.LittleEndian, uint32(0))

	for _, c := range m.Palette {
		r, g, bl, _ := c.RGBA()
		b.Write([]byte{byte(bl >> 8), byte(g >> 8), byte(r >> 8), 0})
	}

	perByte := 8 / depth
	for y := h - 1; y >= 0; y-- {
		row := make([]byte, stride)
		for x := 0; x < w; x++ {
			shift := uint(8 - depth*(x%perByte+1))
			row[x/perByte] |= m.ColorIndexAt(x, y) << shift
		}
		b.Write(row)
	}

	return b.Bytes()
}

func TestValidate(t *testing.T) {
	tables := []struct {
		name    string
		width   int
		height  int
		depth   int
		model   ColorModel
		palette []byte
		err     error
	}{
		{"valid", 16, 8, 4, Indexed, make([]byte, 48), nil},
		{"grayscale", 8, 8, 8, Gray, nil, ErrUnsupportedColorModel},
		{"rgb", 8, 8, 8, RGB, make([]byte, 3), ErrUnsupportedColorModel},
		{"no palette", 8, 8, 2, Indexed, nil, ErrMissingPalette},
		{"width", 10, 16, 1, Indexed, make([]byte, 6), ErrInvalidDimensions},
		{"height", 16, 12, 1, Indexed, make([]byte, 6), ErrInvalidDimensions},
		{"zero", 0, 8, 1, Indexed, make([]byte, 6), ErrInvalidDimensions},
		{"palette size", 8, 8, 4, Indexed, make([]byte, 10), ErrInvalidPaletteSize},
		{"16-bit", 8, 8, 16, Indexed, make([]byte, 48), ErrUnsupportedBitDepth},
		{"3-bit", 8, 8, 3, Indexed, make([]byte, 24), ErrInvalidBitDepth},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			err := Validate(table.width, table.height, table.depth, table.model, table.palette)
			if table.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, table.err)
		})
	}
}

func TestUnsupportedBitDepthIsDistinct(t *testing.T) {
	err := Validate(8, 8, 16, Indexed, make([]byte, 3))
	assert.ErrorIs(t, err, ErrUnsupportedBitDepth)
	assert.NotErrorIs(t, err, ErrInvalidBitDepth)
}

func TestCheckPixels(t *testing.T) {
	m := &Image{Width: 8, Height: 8, Depth: 2, Model: Indexed, Palette: make([]byte, 9), Pix: make([]byte, 64)}
	assert.NoError(t, m.CheckPixels())

	// Fits in 2 bits but the palette only has three entries
	m.Pix[10] = 3
	assert.ErrorIs(t, m.CheckPixels(), ErrInvalidPixel)

	m.Pix = make([]byte, 63)
	assert.ErrorIs(t, m.CheckPixels(), ErrInvalidPixel)
}

func TestDecodePNG(t *testing.T) {
	tables := []struct {
		colors int
		depth  int
	}{
		{2, 1},
		{4, 2},
		{16, 4},
		{256, 8},
	}

	for _, table := range tables {
		src := testImage(16, 8, table.colors)
		b := new(bytes.Buffer)
		require.NoError(t, png.Encode(b, src))

		m, err := Decode(b)
		require.NoError(t, err)

		assert.Equal(t, 16, m.Width)
		assert.Equal(t, 8, m.Height)
		assert.Equal(t, table.depth, m.Depth)
		assert.Equal(t, Indexed, m.Model)
		assert.Equal(t, table.colors, m.Entries())
		assert.Equal(t, src.Pix, m.Pix)
		assert.Equal(t, []byte{0x00, 0xff, 0x00, 0x10, 0xfe, 0x01}, m.Palette[:6])
	}
}

func TestDecodeConfig(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, testImage(8, 16, 4)))

	m, err := DecodeConfig(b)
	require.NoError(t, err)
	assert.Equal(t, 8, m.Width)
	assert.Equal(t, 16, m.Height)
	assert.Equal(t, 2, m.Depth)
	assert.Nil(t, m.Pix)
	assert.Len(t, m.Palette, 12)
}

func TestDecodeRejects(t *testing.T) {
	gray := new(bytes.Buffer)
	require.NoError(t, png.Encode(gray, image.NewGray(image.Rect(0, 0, 8, 8))))

	tables := []struct {
		name string
		b    []byte
		err  error
	}{
		{"grayscale", gray.Bytes(), ErrUnsupportedColorModel},
		{"no palette", rawPNG(8, 8, 4, Indexed, nil), ErrMissingPalette},
		{"width", rawPNG(10, 16, 4, Indexed, make([]byte, 48)), ErrInvalidDimensions},
		{"palette size", rawPNG(8, 8, 4, Indexed, make([]byte, 10)), ErrInvalidPaletteSize},
		{"16-bit", rawPNG(8, 8, 16, Indexed, make([]byte, 48)), ErrUnsupportedBitDepth},
		{"unknown", []byte("GIF89a"), ErrUnknownFormat},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(table.b))
			assert.ErrorIs(t, err, table.err)
		})
	}
}

func TestDecodeTruncated(t *testing.T) {
	b := rawPNG(8, 8, 4, Indexed, make([]byte, 48))
	_, err := Decode(bytes.NewReader(b[:20]))
	assert.Error(t, err)
}

func TestDecodeBMP(t *testing.T) {
	src := testImage(16, 8, 16)

	m, err := Decode(bytes.NewReader(rawBMP(src, 4)))
	require.NoError(t, err)

	assert.Equal(t, 16, m.Width)
	assert.Equal(t, 8, m.Height)
	assert.Equal(t, 4, m.Depth)
	assert.Equal(t, Indexed, m.Model)
	assert.Equal(t, src.Pix, m.Pix)
	assert.Equal(t, []byte{0x00, 0xff, 0x00, 0x10, 0xfe, 0x01}, m.Palette[:6])
}
