package keyer

import (
	"image"
	"image/color"

	"github.com/cenkalti/dominantcolor"
)

// DominantKeyer uses the most frequent color of the sprite as the background reference.
// Works when the backdrop covers most of the frame, even if a corner is occluded.
type DominantKeyer struct {
	Tolerance int
}

func NewDominantKeyer() *DominantKeyer {
	return &DominantKeyer{Tolerance: DefaultTolerance}
}

func (k *DominantKeyer) Mask(img image.Image) *image.Alpha {
	src := asNRGBA(img)
	if src.Bounds().Empty() {
		return image.NewAlpha(src.Bounds())
	}

	d := dominantcolor.Find(src)
	ref := color.NRGBA{R: d.R, G: d.G, B: d.B, A: 255}
	return maskByReference(src, ref, k.Tolerance)
}
