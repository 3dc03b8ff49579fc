package filter

import (
	"fmt"
	"image"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/ivlev/cvfoundry/internal/source"
)

// DefaultThreshold is the mean absolute per-channel difference above which a
// frame counts as new.
const DefaultThreshold = 1.5

type Result struct {
	Processed int
	Accepted  int
	Failed    int
}

// Filter keeps only screenshots that differ noticeably from the last accepted one.
type Filter struct {
	Threshold float64
	last      *image.RGBA
}

func New(threshold float64) *Filter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Filter{Threshold: threshold}
}

// Accept compares img with the last accepted frame and remembers it when accepted.
// The first frame and frames of a different size are always accepted.
func (f *Filter) Accept(img image.Image) bool {
	cur := toRGBA(img)
	if f.last != nil && f.last.Bounds().Size() == cur.Bounds().Size() {
		if SADPerPixel(f.last, cur) <= f.Threshold {
			return false
		}
	}
	f.last = cur
	return true
}

// Run walks src in order and copies accepted files into outDir unchanged.
func (f *Filter) Run(src source.Source, outDir string) (Result, error) {
	var res Result
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return res, err
	}

	for i := 0; i < src.Count(); i++ {
		path := src.Path(i)
		res.Processed++

		img, err := src.Load(i)
		if err != nil {
			log.Printf("[!] Пропуск %s: %v", path, err)
			res.Failed++
			continue
		}
		if !f.Accept(img) {
			continue
		}
		if err := copyFile(path, filepath.Join(outDir, filepath.Base(path))); err != nil {
			return res, fmt.Errorf("copy %s: %w", path, err)
		}
		res.Accepted++
	}
	return res, nil
}

// SADPerPixel is the sum of absolute RGB differences divided by w*h*3.
// Images of different size are infinitely far apart.
func SADPerPixel(a, b *image.RGBA) float64 {
	if a.Bounds().Size() != b.Bounds().Size() {
		return math.Inf(1)
	}
	size := a.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return 0
	}

	var sum uint64
	for y := 0; y < size.Y; y++ {
		ra := a.Pix[y*a.Stride : y*a.Stride+size.X*4]
		rb := b.Pix[y*b.Stride : y*b.Stride+size.X*4]
		for i := 0; i < len(ra); i += 4 {
			sum += absDiff(ra[i], rb[i]) + absDiff(ra[i+1], rb[i+1]) + absDiff(ra[i+2], rb[i+2])
		}
	}
	return float64(sum) / float64(size.X*size.Y*3)
}

func absDiff(a, b uint8) uint64 {
	if a > b {
		return uint64(a - b)
	}
	return uint64(b - a)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
