package annotation

import (
	"bufio"
	"fmt"
	"image"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ivlev/cvfoundry/internal/classes"
	"github.com/ivlev/cvfoundry/internal/composer"
)

// Box is one label line: center and size normalized to the canvas, all in [0,1].
type Box struct {
	Class  classes.ID
	CX, CY float64
	W, H   float64
}

func Normalize(obj composer.PlacedObject, width, height int) Box {
	b := obj.Box
	fw, fh := float64(width), float64(height)
	return Box{
		Class: obj.Class,
		CX:    float64(b.Min.X+b.Max.X) / 2 / fw,
		CY:    float64(b.Min.Y+b.Max.Y) / 2 / fh,
		W:     float64(b.Dx()) / fw,
		H:     float64(b.Dy()) / fh,
	}
}

// String formats the box as "class cx cy w h" with 6 decimals.
func (b Box) String() string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", b.Class, b.CX, b.CY, b.W, b.H)
}

// Pixels maps the box back to canvas pixels, rounding to the nearest pixel.
func (b Box) Pixels(width, height int) image.Rectangle {
	fw, fh := float64(width), float64(height)
	return image.Rect(
		int(math.Round((b.CX-b.W/2)*fw)),
		int(math.Round((b.CY-b.H/2)*fh)),
		int(math.Round((b.CX+b.W/2)*fw)),
		int(math.Round((b.CY+b.H/2)*fh)),
	)
}

// Encode turns placed objects into label lines in placement order.
func Encode(objs []composer.PlacedObject, width, height int) []string {
	lines := make([]string, 0, len(objs))
	for _, obj := range objs {
		lines = append(lines, Normalize(obj, width, height).String())
	}
	return lines
}

// Keep reports whether a frame with these lines is worth writing.
func Keep(lines []string) bool {
	return len(lines) > 0
}

// Join builds the label file body: newline-separated, no trailing newline.
func Join(lines []string) string {
	return strings.Join(lines, "\n")
}

func ParseLine(line string) (Box, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return Box{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil || id < 0 {
		return Box{}, fmt.Errorf("bad class id %q", fields[0])
	}

	var vals [4]float64
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Box{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		if v < 0 || v > 1 {
			return Box{}, fmt.Errorf("field %d: %v is outside [0,1]", i+1, v)
		}
		vals[i] = v
	}

	return Box{Class: classes.ID(id), CX: vals[0], CY: vals[1], W: vals[2], H: vals[3]}, nil
}

// ReadFile parses a label file. Blank lines are ignored.
func ReadFile(path string) ([]Box, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var boxes []Box
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		b, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, n, err)
		}
		boxes = append(boxes, b)
	}
	return boxes, sc.Err()
}
