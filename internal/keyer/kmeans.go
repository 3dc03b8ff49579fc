package keyer

import (
	"image"
	"log"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// KMeansKeyer clusters the sprite colors and takes the cluster that dominates the
// image border as background. Pixels closer than Distance (CIE Lab) to that cluster
// center are background.
type KMeansKeyer struct {
	Clusters   int
	Distance   float64
	MaxSamples int
}

func NewKMeansKeyer() *KMeansKeyer {
	return &KMeansKeyer{
		Clusters:   3,
		Distance:   0.12,
		MaxSamples: 12000,
	}
}

func (k *KMeansKeyer) Mask(img image.Image) *image.Alpha {
	src := asNRGBA(img)
	b := src.Bounds()
	if b.Empty() {
		return image.NewAlpha(b)
	}

	centers := k.partition(src)
	if len(centers) == 0 {
		log.Println("[!] kmeans keyer: empty partition, falling back to corner keyer")
		return NewCornerKeyer().Mask(src)
	}

	bg := borderCluster(src, centers)
	return maskByLab(src, bg, k.Distance)
}

func (k *KMeansKeyer) partition(src *image.NRGBA) []clusters.Coordinates {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()

	maxSamples := k.MaxSamples
	if maxSamples <= 0 {
		maxSamples = 12000
	}
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := src.NRGBAAt(x, y)
			dataset = append(dataset, clusters.Coordinates{
				float64(c.R) / 255.0,
				float64(c.G) / 255.0,
				float64(c.B) / 255.0,
			})
		}
	}

	n := min(max(k.Clusters, 2), len(dataset))
	cc, err := kmeans.New().Partition(dataset, n)
	if err != nil {
		log.Printf("[!] kmeans keyer: %v", err)
		return nil
	}

	centers := make([]clusters.Coordinates, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		centers = append(centers, c.Center)
	}
	return centers
}

// borderCluster returns the center that most border pixels are nearest to.
func borderCluster(src *image.NRGBA, centers []clusters.Coordinates) colorful.Color {
	b := src.Bounds()
	votes := make([]int, len(centers))

	vote := func(x, y int) {
		c := src.NRGBAAt(x, y)
		p := clusters.Coordinates{float64(c.R) / 255.0, float64(c.G) / 255.0, float64(c.B) / 255.0}
		best, bestDist := 0, math.MaxFloat64
		for i, center := range centers {
			if d := p.Distance(center); d < bestDist {
				best, bestDist = i, d
			}
		}
		votes[best]++
	}

	for x := b.Min.X; x < b.Max.X; x++ {
		vote(x, b.Min.Y)
		vote(x, b.Max.Y-1)
	}
	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		vote(b.Min.X, y)
		vote(b.Max.X-1, y)
	}

	best := 0
	for i, v := range votes {
		if v > votes[best] {
			best = i
		}
	}
	c := centers[best]
	return colorful.Color{R: c[0], G: c[1], B: c[2]}.Clamped()
}

func maskByLab(src *image.NRGBA, bg colorful.Color, threshold float64) *image.Alpha {
	b := src.Bounds()
	mask := image.NewAlpha(b)
	// спрайты обычно содержат немного уникальных цветов
	cache := make(map[[3]uint8]bool)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := src.PixOffset(x, y)
			key := [3]uint8{src.Pix[i], src.Pix[i+1], src.Pix[i+2]}
			fg, ok := cache[key]
			if !ok {
				col := colorful.Color{
					R: float64(key[0]) / 255.0,
					G: float64(key[1]) / 255.0,
					B: float64(key[2]) / 255.0,
				}
				fg = col.DistanceLab(bg) > threshold
				cache[key] = fg
			}
			if fg {
				mask.Pix[mask.PixOffset(x, y)] = 255
			}
		}
	}
	return mask
}
