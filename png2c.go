/*
Package png2c is a library for converting indexed-color images into packed
bitmaps and palettes that can be compiled into firmware.
*/
package png2c

import "log"

// Options controls what is produced for each image.
type Options struct {
	// Tileset prepends a row of blank tiles so tile index 0 is empty
	Tileset bool
	// Palette includes the reduced palette
	Palette bool
}

// Converter converts images to C source.
type Converter struct {
	logger *log.Logger
}

// New returns a Converter logging to logger.
func New(logger *log.Logger) *Converter {
	return &Converter{
		logger: logger,
	}
}
