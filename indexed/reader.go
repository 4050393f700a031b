package indexed

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/ioutil"

	"github.com/sergeymakinen/go-bmp"
)

const (
	pngHeader = "\x89PNG\r\n\x1a\n"
	bmpHeader = "BM"

	// Offset of biBitCount, past the 14 byte file header
	bmpBitCountOffset = 28
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r   io.Reader
	img Image
}

// Walk the chunks up to the first IDAT collecting the IHDR fields and PLTE
func (d *decoder) readPNGHeader() error {
	var tmp [8]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		return err
	}

	seenHeader := false
	for {
		if err := readFull(d.r, tmp[:]); err != nil {
			return err
		}
		length := binary.BigEndian.Uint32(tmp[:4])

		switch string(tmp[4:8]) {
		case "IHDR":
			if length != 13 {
				return fmt.Errorf("indexed: bad IHDR length %d", length)
			}
			var ihdr [13]byte
			if err := readFull(d.r, ihdr[:]); err != nil {
				return err
			}
			d.img.Width = int(binary.BigEndian.Uint32(ihdr[0:4]))
			d.img.Height = int(binary.BigEndian.Uint32(ihdr[4:8]))
			d.img.Depth = int(ihdr[8])
			d.img.Model = ColorModel(ihdr[9])
			seenHeader = true
		case "PLTE":
			d.img.Palette = make([]byte, length)
			if err := readFull(d.r, d.img.Palette); err != nil {
				return err
			}
		case "IDAT", "IEND":
			if !seenHeader {
				return fmt.Errorf("indexed: missing IHDR")
			}
			return nil
		default:
			if _, err := io.CopyN(ioutil.Discard, d.r, int64(length)); err != nil {
				if err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
				return err
			}
		}

		// Skip the CRC
		if err := readFull(d.r, tmp[:4]); err != nil {
			return err
		}
	}
}

func (d *decoder) readBMPHeader() error {
	var tmp [bmpBitCountOffset + 2]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		return err
	}
	d.img.Depth = int(binary.LittleEndian.Uint16(tmp[bmpBitCountOffset:]))
	return nil
}

// Convert the BMP configuration into the same form as a PNG header
func (d *decoder) setBMPConfig(c image.Config) {
	d.img.Width = c.Width
	d.img.Height = c.Height
	d.img.Model = RGB

	if p, ok := c.ColorModel.(color.Palette); ok {
		d.img.Model = Indexed
		d.img.Palette = serializePalette(p)
	}
}

func serializePalette(p color.Palette) []byte {
	b := make([]byte, 0, len(p)*EntrySize)
	for _, c := range p {
		r, g, bl, _ := c.RGBA()
		b = append(b, byte(r>>8), byte(g>>8), byte(bl>>8))
	}
	return b
}

// Copy the indices out so the result never aliases the decoded image
func (d *decoder) setPixels(m image.Image) error {
	pm, ok := m.(*image.Paletted)
	if !ok {
		return fmt.Errorf("%w: decoded %T", ErrUnsupportedColorModel, m)
	}

	b := pm.Bounds()
	if b.Dx() != d.img.Width || b.Dy() != d.img.Height {
		return fmt.Errorf("%w: decoded %dx%d, header says %dx%d", ErrInvalidPixel, b.Dx(), b.Dy(), d.img.Width, d.img.Height)
	}

	d.img.Pix = make([]byte, 0, d.img.Width*d.img.Height)
	for y := 0; y < b.Dy(); y++ {
		i := pm.PixOffset(b.Min.X, b.Min.Y+y)
		d.img.Pix = append(d.img.Pix, pm.Pix[i:i+b.Dx()]...)
	}

	return d.img.CheckPixels()
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return err
	}
	d.r = bytes.NewReader(b)

	switch {
	case bytes.HasPrefix(b, []byte(pngHeader)):
		if err := d.readPNGHeader(); err != nil {
			return err
		}
		if err := d.img.Validate(); err != nil {
			return err
		}
		if configOnly {
			return nil
		}
		m, err := png.Decode(bytes.NewReader(b))
		if err != nil {
			return err
		}
		return d.setPixels(m)
	case bytes.HasPrefix(b, []byte(bmpHeader)):
		if err := d.readBMPHeader(); err != nil {
			return err
		}
		c, err := bmp.DecodeConfig(bytes.NewReader(b))
		if err != nil {
			return err
		}
		d.setBMPConfig(c)
		if err := d.img.Validate(); err != nil {
			return err
		}
		if configOnly {
			return nil
		}
		m, err := bmp.Decode(bytes.NewReader(b))
		if err != nil {
			return err
		}
		return d.setPixels(m)
	default:
		return ErrUnknownFormat
	}
}

// Decode reads a PNG or BMP image from r. The header is validated before any
// pixel data is decoded.
func Decode(r io.Reader) (*Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return &d.img, nil
}

// DecodeConfig returns the validated header and palette of a PNG or BMP
// image without decoding the pixels.
func DecodeConfig(r io.Reader) (*Image, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return nil, err
	}
	return &d.img, nil
}
