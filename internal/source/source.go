package source

import (
	"bufio"
	"image"
	"image/png"
	"os"
)

// Source is an ordered set of raster files.
type Source interface {
	Count() int
	Path(index int) string
	Dimensions(index int) (width, height int, err error)
	Load(index int) (image.Image, error)
}

// SavePNG encodes img into path, replacing an existing file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := png.Encode(w, img); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
