/*
Package indexed implements the decoding and validation of indexed-color
images prior to packing.

An image is accepted only if it uses an indexed color model with a palette,
both dimensions are a multiple of 8 and each pixel is stored with 1, 2, 4 or
8 bits. The palette is kept in its serialized form; three bytes per entry in
R, G, B order. Pixels are always expanded to one palette index per byte
regardless of the stored bit depth.
*/
package indexed

import (
	"errors"
	"fmt"
)

const (
	// Alignment is the required multiple for both width and height
	Alignment = 8

	// EntrySize is the number of bytes in each serialized palette entry
	EntrySize = 3
)

// ColorModel identifies how pixels are stored. The values match the PNG
// color type field.
type ColorModel int

// Supported color models. Only Indexed passes validation.
const (
	Gray      ColorModel = 0
	RGB       ColorModel = 2
	Indexed   ColorModel = 3
	GrayAlpha ColorModel = 4
	RGBA      ColorModel = 6
)

func (m ColorModel) String() string {
	switch m {
	case Gray:
		return "grayscale"
	case RGB:
		return "rgb"
	case Indexed:
		return "indexed"
	case GrayAlpha:
		return "grayscale+alpha"
	case RGBA:
		return "rgba"
	default:
		return fmt.Sprintf("unknown (%d)", int(m))
	}
}

var (
	// ErrMissingPalette is returned for an indexed image with no palette
	ErrMissingPalette = errors.New("indexed: input image has no palette")
	// ErrInvalidDimensions is returned if either dimension is not a
	// multiple of 8
	ErrInvalidDimensions = errors.New("indexed: dimensions must be a multiple of 8")
	// ErrInvalidPaletteSize is returned if the palette is not a whole
	// number of RGB entries
	ErrInvalidPaletteSize = errors.New("indexed: palette length must be a multiple of 3")
	// ErrUnsupportedColorModel is returned for anything but indexed color
	ErrUnsupportedColorModel = errors.New("indexed: color model is not indexed")
	// ErrUnsupportedBitDepth is returned for 16 bits per pixel, which is a
	// known gap rather than malformed input
	ErrUnsupportedBitDepth = errors.New("indexed: 16-bit depth not implemented")
	// ErrInvalidBitDepth is returned for any other depth outside 1, 2, 4
	// and 8
	ErrInvalidBitDepth = errors.New("indexed: invalid bit depth")
	// ErrInvalidPixel is returned if the pixel data doesn't agree with the
	// header or the palette
	ErrInvalidPixel = errors.New("indexed: invalid pixel data")
	// ErrUnknownFormat is returned if the input isn't a PNG or BMP file
	ErrUnknownFormat = errors.New("indexed: unknown image format")
)

// Image is an indexed-color image. Pix is nil when only the header has been
// decoded.
type Image struct {
	Width  int
	Height int
	Depth  int
	Model  ColorModel

	// One palette index per byte, row-major
	Pix []byte

	// Serialized RGB triples, nil if the source had no palette
	Palette []byte
}

// Entries returns the number of palette entries.
func (m *Image) Entries() int {
	return len(m.Palette) / EntrySize
}

// Validate checks the header fields of m, see Validate.
func (m *Image) Validate() error {
	return Validate(m.Width, m.Height, m.Depth, m.Model, m.Palette)
}

// Validate rejects anything that can't be packed. A 16-bit depth reports
// ErrUnsupportedBitDepth rather than ErrInvalidBitDepth.
func Validate(width, height, depth int, model ColorModel, palette []byte) error {
	if model != Indexed {
		return fmt.Errorf("%w: %s", ErrUnsupportedColorModel, model)
	}

	if palette == nil {
		return ErrMissingPalette
	}

	if width <= 0 || height <= 0 || width%Alignment != 0 || height%Alignment != 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	if len(palette)%EntrySize != 0 {
		return fmt.Errorf("%w: %d bytes", ErrInvalidPaletteSize, len(palette))
	}

	switch depth {
	case 1, 2, 4, 8:
	case 16:
		return ErrUnsupportedBitDepth
	default:
		return fmt.Errorf("%w: %d", ErrInvalidBitDepth, depth)
	}

	return nil
}

// CheckPixels verifies there is exactly one index per pixel and that every
// index fits both the bit depth and the palette.
func (m *Image) CheckPixels() error {
	if len(m.Pix) != m.Width*m.Height {
		return fmt.Errorf("%w: have %d pixels, expecting %d*%d", ErrInvalidPixel, len(m.Pix), m.Width, m.Height)
	}

	limit := 1 << uint(m.Depth)
	if n := m.Entries(); n < limit {
		limit = n
	}

	for i, p := range m.Pix {
		if int(p) >= limit {
			return fmt.Errorf("%w: index %d at (%d, %d)", ErrInvalidPixel, p, i%m.Width, i/m.Width)
		}
	}

	return nil
}
