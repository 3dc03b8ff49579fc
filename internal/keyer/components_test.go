package keyer

import (
	"image"
	"image/color"
	"testing"
)

func TestComponents(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	dark := color.NRGBA{R: 83, G: 83, B: 83, A: 255}

	tests := []struct {
		name     string
		subjects []image.Rectangle
		want     []image.Rectangle
	}{
		{"empty", nil, nil},
		{"single", []image.Rectangle{image.Rect(5, 5, 15, 20)}, []image.Rectangle{image.Rect(5, 5, 15, 20)}},
		{
			"two blobs",
			[]image.Rectangle{image.Rect(2, 2, 6, 6), image.Rect(20, 10, 30, 25)},
			[]image.Rectangle{image.Rect(2, 2, 6, 6), image.Rect(20, 10, 30, 25)},
		},
		{
			"touching blobs merge",
			[]image.Rectangle{image.Rect(2, 2, 10, 6), image.Rect(8, 6, 12, 20)},
			[]image.Rectangle{image.Rect(2, 2, 12, 20)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := sprite(40, 30, white, white, image.Rectangle{})
			for _, s := range tt.subjects {
				for y := s.Min.Y; y < s.Max.Y; y++ {
					for x := s.Min.X; x < s.Max.X; x++ {
						img.SetNRGBA(x, y, dark)
					}
				}
			}
			cut := Cutout(img, NewCornerKeyer())

			got := Components(cut)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("component %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}

			var union image.Rectangle
			for _, r := range tt.want {
				union = union.Union(r)
			}
			if b := Bounds(cut); b != union {
				t.Errorf("Bounds: got %v, want %v", b, union)
			}
		})
	}
}
