package composer

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/ivlev/cvfoundry/internal/catalog"
	"github.com/ivlev/cvfoundry/internal/classes"
	"github.com/ivlev/cvfoundry/internal/config"
	"github.com/ivlev/cvfoundry/internal/system"
)

// ErrNoContent is returned when the catalog holds no sprite in any class.
var ErrNoContent = errors.New("composer: catalog has no assets")

// Rand is the subset of *rand.Rand the composer draws from.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

type Params struct {
	Width, Height int
	MaxObjects    int
	ScaleMin      float64
	ScaleMax      float64
	Force         bool
	ForceClass    classes.ID
	MaxAttempts   int
}

func NewParams(s config.SynthesisParams, table *classes.Table) (Params, error) {
	p := Params{
		Width:       s.Width,
		Height:      s.Height,
		MaxObjects:  s.MaxObjects,
		ScaleMin:    s.ScaleRange[0],
		ScaleMax:    s.ScaleRange[1],
		MaxAttempts: s.MaxAttempts,
	}
	if s.ForceClass != "" {
		id, ok := table.Lookup(s.ForceClass)
		if !ok {
			return p, fmt.Errorf("force class %q is not in the class table", s.ForceClass)
		}
		p.Force = true
		p.ForceClass = id
	}
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	return p, nil
}

// PlacedObject is a pasted sprite in canvas pixels. Box.Max.Y is always the canvas height.
type PlacedObject struct {
	Class classes.ID
	Box   image.Rectangle
}

type Frame struct {
	Canvas  *image.RGBA
	Objects []PlacedObject
}

// Release hands the canvas back to the buffer pool. The frame must not be used afterwards.
func (f *Frame) Release() {
	system.PutImage(f.Canvas)
	f.Canvas = nil
}

type Composer struct {
	params    Params
	catalog   *catalog.Catalog
	classes   []classes.ID
	obstacles []classes.ID
}

func New(p Params, cat *catalog.Catalog) *Composer {
	c := &Composer{
		params:  p,
		catalog: cat,
		classes: cat.Table.IDs(),
	}
	for _, id := range c.classes {
		if p.Force && id == p.ForceClass {
			continue
		}
		c.obstacles = append(c.obstacles, id)
	}
	return c
}

// Compose lays out one frame. Objects may overlap; later pastes occlude earlier ones.
// A frame without objects is valid output of Compose and must be discarded by the caller.
func (c *Composer) Compose(rng Rand) (*Frame, error) {
	if c.catalog.Empty() {
		return nil, ErrNoContent
	}

	rect := image.Rect(0, 0, c.params.Width, c.params.Height)
	canvas := system.GetImage(rect)
	draw.Draw(canvas, rect, image.White, image.Point{}, draw.Src)
	f := &Frame{Canvas: canvas}

	count := 1 + rng.Intn(c.params.MaxObjects)

	candidates := c.classes
	var subject *image.Rectangle
	if c.params.Force {
		// ровно один объект заданного класса, остальные его не перекрывают
		if obj, ok := c.place(f, rng, c.params.ForceClass, nil); ok {
			subject = &obj.Box
		}
		candidates = c.obstacles
	}
	if len(candidates) == 0 {
		return f, nil
	}

	for i := 0; i < count; i++ {
		id := candidates[rng.Intn(len(candidates))]
		c.place(f, rng, id, subject)
	}
	return f, nil
}

func (c *Composer) place(f *Frame, rng Rand, id classes.ID, avoid *image.Rectangle) (PlacedObject, bool) {
	sprites := c.catalog.Sprites(id)
	if len(sprites) == 0 {
		return PlacedObject{}, false
	}

	sp := sprites[rng.Intn(len(sprites))]
	scale := c.params.ScaleMin + rng.Float64()*(c.params.ScaleMax-c.params.ScaleMin)

	size := fitSize(sp.Size(), scale, c.params.Width, c.params.Height)
	if size.X < 1 || size.Y < 1 {
		return PlacedObject{}, false
	}

	var box image.Rectangle
	for attempt := 1; ; attempt++ {
		x := rng.Intn(c.params.Width - size.X + 1)
		box = image.Rect(x, c.params.Height-size.Y, x+size.X, c.params.Height)
		if avoid == nil || !box.Overlaps(*avoid) {
			break
		}
		if attempt >= c.params.MaxAttempts {
			return PlacedObject{}, false
		}
	}

	img := resize(sp.Image, size)
	draw.Draw(f.Canvas, box, img, img.Bounds().Min, draw.Over)

	obj := PlacedObject{Class: id, Box: box}
	f.Objects = append(f.Objects, obj)
	return obj, true
}

// fitSize scales size and shrinks the result further if it would not fit the canvas.
func fitSize(size image.Point, scale float64, width, height int) image.Point {
	w := int(float64(size.X) * scale)
	h := int(float64(size.Y) * scale)
	if w > width || h > height {
		k := math.Min(float64(width)/float64(w), float64(height)/float64(h))
		w = min(int(float64(w)*k), width)
		h = min(int(float64(h)*k), height)
	}
	return image.Pt(w, h)
}

// resize returns src itself when no scaling is needed; otherwise a new buffer with
// the alpha channel snapped back to 0/255 so compositing never blends.
func resize(src *image.NRGBA, size image.Point) *image.NRGBA {
	if src.Bounds().Size() == size {
		return src
	}

	dst := image.NewNRGBA(image.Rectangle{Max: size})
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] >= 128 {
			dst.Pix[i] = 255
		} else {
			dst.Pix[i] = 0
		}
	}
	return dst
}
