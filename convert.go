package png2c

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/png2c/csource"
	"github.com/bodgit/png2c/indexed"
	"github.com/bodgit/png2c/palette"
	"github.com/bodgit/png2c/tile"
)

// Result holds what was produced for a single image.
type Result struct {
	Image *indexed.Image
	Asset *csource.Asset
}

// Names returns the array name and the source file stem for the image at
// path. The stem of "font.2bpp.png" is "font.2bpp" and its name is "font".
func Names(path string) (name, stem string) {
	stem = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = stem
	if i := strings.IndexByte(stem, '.'); i >= 0 {
		name = stem[:i]
	}
	return
}

// Convert reads an image from r and writes the header and source for it
// using name for the arrays. Nothing is written unless the whole image
// converts.
func (c *Converter) Convert(r io.Reader, name string, opts Options, header, source io.Writer) (*Result, error) {
	m, err := indexed.Decode(r)
	if err != nil {
		return nil, err
	}
	c.logger.Printf("Decoded \"%s\": %dx%d, %d bpp, %d colors\n", name, m.Width, m.Height, m.Depth, m.Entries())

	b, err := tile.Pack(m, opts.Tileset)
	if err != nil {
		return nil, err
	}
	if opts.Tileset {
		c.logger.Printf("Added %d blank bytes to \"%s\"\n", len(b.Blank()), name)
	}

	a := &csource.Asset{
		Name:   name,
		Bitmap: b,
	}
	if opts.Palette {
		a.Palette = palette.Reduce(m.Palette)
		a.PaletteLength = palette.Length(m.Palette)
	}

	if b.Length() > math.MaxUint16 {
		c.logger.Printf("Length of \"%s\" (%d) does not fit in uint16_t\n", name, b.Length())
	}
	if a.PaletteLength > math.MaxUint16 {
		c.logger.Printf("Palette length of \"%s\" (%d) does not fit in uint16_t\n", name, a.PaletteLength)
	}

	hb, sb := new(bytes.Buffer), new(bytes.Buffer)
	if err := csource.WriteHeader(hb, a); err != nil {
		return nil, err
	}
	if err := csource.WriteSource(sb, a); err != nil {
		return nil, err
	}

	if _, err := header.Write(hb.Bytes()); err != nil {
		return nil, err
	}
	if _, err := source.Write(sb.Bytes()); err != nil {
		return nil, err
	}

	c.logger.Printf("Wrote %d bytes for \"%s\", length %d\n", len(b.Data), name, b.Length())

	return &Result{
		Image: m,
		Asset: a,
	}, nil
}

// ConvertFile converts the image at path writing name.h and stem.c into dir,
// see Names. Neither file is created if the conversion fails.
func (c *Converter) ConvertFile(path, dir string, opts Options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	name, stem := Names(path)

	hb, sb := new(bytes.Buffer), new(bytes.Buffer)
	if _, err := c.Convert(f, name, opts, hb, sb); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := ioutil.WriteFile(filepath.Join(dir, name+".h"), hb.Bytes(), 0666); err != nil {
		return err
	}

	return ioutil.WriteFile(filepath.Join(dir, stem+".c"), sb.Bytes(), 0666)
}
