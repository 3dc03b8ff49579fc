package preview

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	"github.com/ivlev/cvfoundry/internal/annotation"
	"github.com/ivlev/cvfoundry/internal/classes"
	"github.com/ivlev/cvfoundry/internal/source"
)

const (
	ImagesDir = "images"
	LabelsDir = "labels"
)

// Palette gives every class an evenly spaced hue.
func Palette(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		c := colorful.Hsv(360*float64(i)/float64(max(n, 1)), 0.85, 0.9).Clamped()
		r, g, b := c.RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

// Render copies img and outlines every box in its class color.
func Render(img image.Image, boxes []annotation.Box, palette []color.RGBA, thickness int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	w, h := b.Dx(), b.Dy()
	for _, box := range boxes {
		c := color.RGBA{A: 255}
		if int(box.Class) >= 0 && int(box.Class) < len(palette) {
			c = palette[box.Class]
		}
		outline(dst, box.Pixels(w, h).Intersect(dst.Bounds()), c, thickness)
	}
	return dst
}

func outline(dst *image.RGBA, r image.Rectangle, c color.RGBA, t int) {
	if r.Empty() {
		return
	}
	t = max(1, min(t, r.Dx()/2+1, r.Dy()/2+1))
	u := image.NewUniform(c)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, edge.Intersect(r), u, image.Point{}, draw.Src)
	}
}

// Split renders up to limit frames of splitDir into outDir (limit <= 0 means all).
// Frames without a label file are skipped with a warning.
func Split(splitDir, outDir string, table *classes.Table, limit int) (int, error) {
	src, err := source.NewImageSource(filepath.Join(splitDir, ImagesDir))
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, err
	}

	palette := Palette(table.Len())
	done := 0
	for i := 0; i < src.Count(); i++ {
		if limit > 0 && done >= limit {
			break
		}
		path := src.Path(i)
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		boxes, err := annotation.ReadFile(filepath.Join(splitDir, LabelsDir, stem+".txt"))
		if err != nil {
			log.Printf("[!] Нет разметки для %s: %v", path, err)
			continue
		}
		img, err := src.Load(i)
		if err != nil {
			log.Printf("[!] Не удалось открыть %s: %v", path, err)
			continue
		}

		out := Render(img, boxes, palette, 2)
		if err := source.SavePNG(filepath.Join(outDir, stem+".png"), out); err != nil {
			return done, fmt.Errorf("preview %s: %w", stem, err)
		}
		done++
	}
	return done, nil
}
