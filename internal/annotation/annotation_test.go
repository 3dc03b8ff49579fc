package annotation

import (
	"image"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/cvfoundry/internal/composer"
)

func TestEncodeKnownScenario(t *testing.T) {
	objs := []composer.PlacedObject{{Class: 0, Box: image.Rect(100, 90, 140, 150)}}

	lines := Encode(objs, 600, 150)

	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if want := "0 0.200000 0.800000 0.066667 0.400000"; lines[0] != want {
		t.Errorf("got %q, want %q", lines[0], want)
	}
}

func TestEncodeKeepsPlacementOrder(t *testing.T) {
	objs := []composer.PlacedObject{
		{Class: 1, Box: image.Rect(500, 103, 544, 150)},
		{Class: 0, Box: image.Rect(10, 100, 35, 150)},
	}

	lines := Encode(objs, 600, 150)

	if lines[0][0] != '1' || lines[1][0] != '0' {
		t.Errorf("order not preserved: %v", lines)
	}
	if got := Join(lines); got != lines[0]+"\n"+lines[1] {
		t.Errorf("unexpected join: %q", got)
	}
}

func TestKeep(t *testing.T) {
	if Keep(nil) || Keep(Encode(nil, 600, 150)) {
		t.Error("empty frame must be discarded")
	}
	if !Keep([]string{"0 0.5 0.5 0.1 0.1"}) {
		t.Error("non-empty frame must be kept")
	}
}

func TestRoundTripRecoversPixels(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	const w, h = 600, 150

	for i := 0; i < 1000; i++ {
		bw := 1 + r.Intn(w)
		bh := 1 + r.Intn(h)
		x := r.Intn(w - bw + 1)
		box := image.Rect(x, h-bh, x+bw, h)

		line := Encode([]composer.PlacedObject{{Class: 1, Box: box}}, w, h)[0]
		parsed, err := ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine(%q): %v", line, err)
		}
		for _, v := range []float64{parsed.CX, parsed.CY, parsed.W, parsed.H} {
			if v < 0 || v > 1 {
				t.Fatalf("%q: value %v outside [0,1]", line, v)
			}
		}
		if got := parsed.Pixels(w, h); got != box {
			t.Fatalf("%q: recovered %v, want %v", line, got, box)
		}
	}
}

func TestParseLineRejects(t *testing.T) {
	bad := []string{
		"",
		"0 0.5 0.5 0.1",
		"x 0.5 0.5 0.1 0.1",
		"-1 0.5 0.5 0.1 0.1",
		"0 0.5 1.5 0.1 0.1",
		"0 0.5 0.5 abc 0.1",
	}
	for _, line := range bad {
		if _, err := ParseLine(line); err == nil {
			t.Errorf("ParseLine(%q): expected error", line)
		}
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synth_0.txt")
	body := "0 0.200000 0.800000 0.066667 0.400000\n\n1 0.500000 0.843333 0.073333 0.313333"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	boxes, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(boxes) != 2 || boxes[1].Class != 1 {
		t.Errorf("unexpected boxes: %+v", boxes)
	}
}
