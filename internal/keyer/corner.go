package keyer

import "image"

// CornerKeyer assumes the pixel at the top-left corner is the background color.
// A subject touching that corner breaks the whole mask; sources must have a clean border.
type CornerKeyer struct {
	Tolerance int
}

func NewCornerKeyer() *CornerKeyer {
	return &CornerKeyer{Tolerance: DefaultTolerance}
}

func (k *CornerKeyer) Mask(img image.Image) *image.Alpha {
	src := asNRGBA(img)
	b := src.Bounds()
	if b.Empty() {
		return image.NewAlpha(b)
	}
	return maskByReference(src, src.NRGBAAt(b.Min.X, b.Min.Y), k.Tolerance)
}
