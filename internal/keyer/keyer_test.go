package keyer

import (
	"image"
	"image/color"
	"testing"

	"github.com/ivlev/cvfoundry/internal/config"
)

// sprite builds a w x h image filled with bg and a solid fg rectangle.
func sprite(w, h int, bg, fg color.NRGBA, subject image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (image.Point{X: x, Y: y}).In(subject) {
				img.SetNRGBA(x, y, fg)
			} else {
				img.SetNRGBA(x, y, bg)
			}
		}
	}
	return img
}

func countForeground(mask *image.Alpha) int {
	n := 0
	for _, a := range mask.Pix {
		if a == 255 {
			n++
		} else if a != 0 {
			return -1
		}
	}
	return n
}

func TestCornerKeyerTolerance(t *testing.T) {
	bg := color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, bg)
	img.SetNRGBA(1, 0, color.NRGBA{R: 125, G: 75, B: 100, A: 255}) // на границе допуска
	img.SetNRGBA(2, 0, color.NRGBA{R: 126, G: 100, B: 100, A: 255})
	img.SetNRGBA(3, 0, color.NRGBA{R: 100, G: 100, B: 74, A: 255})

	mask := NewCornerKeyer().Mask(img)

	want := []uint8{0, 0, 255, 255}
	for x, w := range want {
		if got := mask.AlphaAt(x, 0).A; got != w {
			t.Errorf("pixel %d: got %d, want %d", x, got, w)
		}
	}
}

func TestCornerKeyerSubject(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	dark := color.NRGBA{R: 83, G: 83, B: 83, A: 255}
	subject := image.Rect(10, 5, 30, 45)
	img := sprite(40, 60, white, dark, subject)

	mask := NewCornerKeyer().Mask(img)

	if mask.Bounds() != img.Bounds() {
		t.Fatalf("mask bounds %v, want %v", mask.Bounds(), img.Bounds())
	}
	if got := countForeground(mask); got != subject.Dx()*subject.Dy() {
		t.Errorf("foreground pixels: got %d, want %d", got, subject.Dx()*subject.Dy())
	}
}

func TestCutout(t *testing.T) {
	green := color.NRGBA{R: 0, G: 220, B: 0, A: 255}
	red := color.NRGBA{R: 200, G: 30, B: 30, A: 255}
	img := sprite(8, 8, green, red, image.Rect(2, 2, 6, 6))

	out := Cutout(img, NewCornerKeyer())

	if c := out.NRGBAAt(0, 0); c.A != 0 {
		t.Errorf("background alpha: got %d, want 0", c.A)
	}
	if c := out.NRGBAAt(3, 3); c != red {
		t.Errorf("subject pixel: got %v, want %v", c, red)
	}
	if img.NRGBAAt(0, 0).A != 255 {
		t.Error("Cutout must not modify its input")
	}
}

func TestKMeansKeyerIgnoresCornerSubject(t *testing.T) {
	bg := color.NRGBA{R: 240, G: 240, B: 240, A: 255}
	fg := color.NRGBA{R: 20, G: 90, B: 20, A: 255}
	// объект касается левого верхнего угла: CornerKeyer здесь ошибается
	img := sprite(40, 40, bg, fg, image.Rect(0, 0, 12, 12))

	mask := NewKMeansKeyer().Mask(img)

	if got := mask.AlphaAt(5, 5).A; got != 255 {
		t.Errorf("subject pixel: got %d, want 255", got)
	}
	if got := mask.AlphaAt(30, 30).A; got != 0 {
		t.Errorf("background pixel: got %d, want 0", got)
	}
	if got := countForeground(mask); got != 144 {
		t.Errorf("foreground pixels: got %d, want 144", got)
	}
}

func TestDominantKeyer(t *testing.T) {
	bg := color.NRGBA{R: 0, G: 200, B: 0, A: 255}
	fg := color.NRGBA{R: 220, G: 20, B: 20, A: 255}
	img := sprite(50, 50, bg, fg, image.Rect(20, 20, 30, 30))

	mask := NewDominantKeyer().Mask(img)

	if got := mask.AlphaAt(25, 25).A; got != 255 {
		t.Errorf("subject pixel: got %d, want 255", got)
	}
	if got := mask.AlphaAt(2, 45).A; got != 0 {
		t.Errorf("background pixel: got %d, want 0", got)
	}
}

func TestKeyerRegistry(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{"corner", false},
		{"", false}, // default
		{"kmeans", false},
		{"dominant", false},
		{"chroma", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			k, err := New(config.KeyerParams{Variant: tt.variant, Tolerance: 25})
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if k == nil {
				t.Error("Expected keyer, got nil")
			}
		})
	}
}
