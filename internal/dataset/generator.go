package dataset

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/cvfoundry/internal/annotation"
	"github.com/ivlev/cvfoundry/internal/catalog"
	"github.com/ivlev/cvfoundry/internal/composer"
	"github.com/ivlev/cvfoundry/internal/config"
	"github.com/ivlev/cvfoundry/internal/source"
)

// ErrEmptyCatalog aborts a run before any directory is touched.
var ErrEmptyCatalog = errors.New("no assets loaded: check asset file names and contents")

const (
	ImagesDir = "images"
	LabelsDir = "labels"
)

// FrameName is the shared stem of the image/label pair with index i.
func FrameName(i int) string {
	return fmt.Sprintf("synth_%d", i)
}

type Generator struct {
	Config   *config.Config
	Catalog  *catalog.Catalog
	Composer *composer.Composer
	Report   *Report
	seed     int64
}

func NewGenerator(cfg *config.Config, cat *catalog.Catalog, comp *composer.Composer) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		Config:   cfg,
		Catalog:  cat,
		Composer: comp,
		Report:   NewReport(cat.Table),
		seed:     seed,
	}
}

// Run fills <output>/train and <output>/val and writes dataset.yaml next to them.
func (g *Generator) Run(ctx context.Context) error {
	if g.Catalog.Empty() {
		return ErrEmptyCatalog
	}

	s := g.Config.Synthesis
	splits := []struct {
		name  string
		count int
	}{
		{"train", s.NumTrain},
		{"val", s.NumVal},
	}

	for _, sp := range splits {
		dir := filepath.Join(g.Config.OutputDir, sp.name)
		fmt.Printf("[*] Генерация %d изображений в '%s'...\n", sp.count, dir)
		if err := g.GenerateSplit(ctx, dir, sp.count); err != nil {
			return fmt.Errorf("split %s: %w", sp.name, err)
		}
	}

	tc, err := NewTrainingConfig(g.Config.OutputDir, g.Catalog.Table)
	if err != nil {
		return err
	}
	yamlPath := filepath.Join(g.Config.OutputDir, TrainingConfigFile)
	if err := WriteTrainingConfig(tc, yamlPath); err != nil {
		return fmt.Errorf("dataset.yaml: %w", err)
	}
	fmt.Printf("[*] Конфигурация датасета: %s\n", yamlPath)

	g.Report.Finish()
	return nil
}

// GenerateSplit writes up to n image/label pairs into dir/images and dir/labels.
// Existing directories and files are kept; same-index files are overwritten.
// Indexes whose frame came out empty are skipped, leaving gaps.
func (g *Generator) GenerateSplit(ctx context.Context, dir string, n int) error {
	if g.Catalog.Empty() {
		return ErrEmptyCatalog
	}

	imgDir := filepath.Join(dir, ImagesDir)
	lblDir := filepath.Join(dir, LabelsDir)
	for _, d := range []string{imgDir, lblDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	if n <= 0 {
		return nil
	}

	workers := min(max(g.Config.Workers, 1), n)
	chunk := (n + workers - 1) / workers
	step := max(n/10, 1)
	split := filepath.Base(dir)
	var done atomic.Int64

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, n)
		if lo >= hi {
			break
		}
		// у каждого воркера свой генератор и свой диапазон индексов
		rng := rand.New(rand.NewSource(g.workerSeed(split, w)))

		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := g.generateOne(split, imgDir, lblDir, i, rng); err != nil {
					return fmt.Errorf("frame %d: %w", i, err)
				}
				if d := done.Add(1); d%int64(step) == 0 || d == int64(n) {
					fmt.Printf("[>] %s: %d/%d\n", split, d, n)
				}
			}
			return nil
		})
	}

	return eg.Wait()
}

func (g *Generator) generateOne(split, imgDir, lblDir string, i int, rng composer.Rand) error {
	frame, err := g.Composer.Compose(rng)
	if err != nil {
		return err
	}
	defer frame.Release()

	s := g.Config.Synthesis
	lines := annotation.Encode(frame.Objects, s.Width, s.Height)
	if !annotation.Keep(lines) {
		g.Report.Skip(split)
		return nil
	}

	name := FrameName(i)
	if err := source.SavePNG(filepath.Join(imgDir, name+".png"), frame.Canvas); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(lblDir, name+".txt"), []byte(annotation.Join(lines)), 0644); err != nil {
		return err
	}

	g.Report.Add(split, frame.Objects)
	return nil
}

func (g *Generator) workerSeed(split string, worker int) int64 {
	h := fnv.New64a()
	h.Write([]byte(split))
	return g.seed ^ int64(h.Sum64()>>1) + int64(worker)
}
