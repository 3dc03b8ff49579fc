package dataset

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/cvfoundry/internal/classes"
	"github.com/ivlev/cvfoundry/internal/composer"
)

func TestVerifySplit(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{ImagesDir, LabelsDir} {
		os.MkdirAll(filepath.Join(dir, d), 0755)
	}
	write := func(rel, body string) {
		if err := os.WriteFile(filepath.Join(dir, rel), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	write("images/synth_0.png", "")
	write("labels/synth_0.txt", "0 0.200000 0.800000 0.066667 0.400000")
	write("images/synth_1.png", "")
	write("images/synth_2.png", "")
	write("labels/synth_2.txt", "")
	write("images/synth_3.png", "")
	write("labels/synth_3.txt", "5 0.5 0.5 0.1 0.1")
	write("images/synth_4.png", "")
	write("labels/synth_4.txt", "0 0.5 0.5 0.1")
	write("labels/synth_9.txt", "1 0.5 0.5 0.1 0.1")

	pairs, problems, err := VerifySplit(dir, 2)
	if err != nil {
		t.Fatalf("VerifySplit: %v", err)
	}
	if pairs != 1 {
		t.Errorf("expected 1 consistent pair, got %d", pairs)
	}

	want := map[string]bool{"synth_1": true, "synth_2": true, "synth_3": true, "synth_4": true, "synth_9": true}
	if len(problems) != len(want) {
		t.Fatalf("expected %d problems, got %v", len(want), problems)
	}
	for _, p := range problems {
		if !want[p.Name] {
			t.Errorf("unexpected problem %s", p)
		}
		t.Logf("%s", p)
	}
}

func TestVerifySplitMissingDir(t *testing.T) {
	if _, _, err := VerifySplit(filepath.Join(t.TempDir(), "nope"), 1); err == nil {
		t.Error("expected error for missing split dir")
	}
}

func TestReportBoxStats(t *testing.T) {
	table, _ := classes.NewTable([]string{"cactus", "dino"})
	r := NewReport(table)

	r.Add("train", []composer.PlacedObject{
		{Class: 0, Box: image.Rect(0, 0, 10, 20)},
		{Class: 1, Box: image.Rect(0, 0, 30, 40)},
	})
	r.Skip("train")
	r.Finish()

	meanW, stdW, meanH, _ := r.BoxStats()
	if meanW != 20 || meanH != 30 {
		t.Errorf("mean: got %vx%v, want 20x30", meanW, meanH)
	}
	if math.Abs(stdW-math.Sqrt(200)) > 1e-9 {
		t.Errorf("stddev width: got %v, want %v", stdW, math.Sqrt(200))
	}
	if r.ClassCount(0) != 1 || r.ClassCount(1) != 1 || r.ClassCount(7) != 0 {
		t.Errorf("class counts wrong")
	}
	if r.Written("train") != 1 || r.Skipped("train") != 1 {
		t.Errorf("split counters wrong")
	}

	log := filepath.Join(t.TempDir(), "synthesis.log")
	if err := r.AppendLog(log, "dino_game"); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(log); err != nil || fi.Size() == 0 {
		t.Errorf("log not written: %v", err)
	}
}
