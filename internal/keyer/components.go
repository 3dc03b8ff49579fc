package keyer

import "image"

// Components returns the bounding rectangles of 4-connected opaque regions
// (alpha >= 128) of a cutout, in scan order.
func Components(img *image.NRGBA) []image.Rectangle {
	b := img.Bounds()
	visited := make([]bool, b.Dx()*b.Dy())
	opaque := func(x, y int) bool {
		return img.Pix[img.PixOffset(x, y)+3] >= 128
	}

	var rects []image.Rectangle
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := (y-b.Min.Y)*b.Dx() + (x - b.Min.X)
			if visited[i] || !opaque(x, y) {
				continue
			}
			rects = append(rects, floodFill(b, visited, opaque, x, y))
		}
	}
	return rects
}

// Bounds is the union of all opaque regions; empty when the cutout has none.
func Bounds(img *image.NRGBA) image.Rectangle {
	var r image.Rectangle
	for _, c := range Components(img) {
		r = r.Union(c)
	}
	return r
}

func floodFill(b image.Rectangle, visited []bool, opaque func(x, y int) bool, startX, startY int) image.Rectangle {
	minX, minY := startX, startY
	maxX, maxY := startX, startY

	stack := []image.Point{{X: startX, Y: startY}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !p.In(b) {
			continue
		}
		i := (p.Y-b.Min.Y)*b.Dx() + (p.X - b.Min.X)
		if visited[i] || !opaque(p.X, p.Y) {
			continue
		}
		visited[i] = true

		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)

		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}

	return image.Rect(minX, minY, maxX+1, maxY+1)
}
