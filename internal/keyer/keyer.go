package keyer

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// DefaultTolerance is the per-channel distance (0-255) still treated as background.
const DefaultTolerance = 25

// Keyer separates a sprite from its flat background.
// Mask returns a binary mask with the bounds of img: 0 for background, 255 for foreground.
type Keyer interface {
	Mask(img image.Image) *image.Alpha
}

// Cutout returns a copy of img whose alpha channel is the keyer's mask.
func Cutout(img image.Image, k Keyer) *image.NRGBA {
	out := toNRGBA(img)
	mask := k.Mask(out)

	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Pix[out.PixOffset(x, y)+3] = mask.Pix[mask.PixOffset(x, y)]
		}
	}
	return out
}

// toNRGBA copies img into a fresh non-premultiplied buffer with the same bounds.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}

// asNRGBA avoids the copy when img already has the right layout.
func asNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return toNRGBA(img)
}

// maskByReference marks every pixel whose R, G and B all lie within tol of ref as background.
func maskByReference(src *image.NRGBA, ref color.NRGBA, tol int) *image.Alpha {
	b := src.Bounds()
	mask := image.NewAlpha(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := src.PixOffset(x, y)
			p := src.Pix[i : i+3 : i+3]
			if absDiff(p[0], ref.R) <= tol && absDiff(p[1], ref.G) <= tol && absDiff(p[2], ref.B) <= tol {
				continue
			}
			mask.Pix[mask.PixOffset(x, y)] = 255
		}
	}
	return mask
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
