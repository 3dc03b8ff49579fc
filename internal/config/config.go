package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Blueprint string          `yaml:"blueprint"`
	AssetsDir string          `yaml:"assets_dir"`
	OutputDir string          `yaml:"output_dir"`
	Classes   []string        `yaml:"classes"` // порядок = id класса
	Synthesis SynthesisParams `yaml:"synthesis"`
	Keyer     KeyerParams     `yaml:"keyer"`
	Workers   int             `yaml:"workers"`
	Seed      int64           `yaml:"seed"` // 0 - от текущего времени
	ShowStats bool            `yaml:"show_stats"`
}

type SynthesisParams struct {
	NumTrain    int        `yaml:"num_train_images"`
	NumVal      int        `yaml:"num_val_images"`
	Width       int        `yaml:"image_width"`
	Height      int        `yaml:"image_height"`
	MaxObjects  int        `yaml:"max_obstacles_per_image"`
	ScaleRange  [2]float64 `yaml:"scale_range,flow"`
	ForceClass  string     `yaml:"force_class"`
	MaxAttempts int        `yaml:"max_placement_attempts"`
}

type KeyerParams struct {
	Variant   string  `yaml:"variant"` // corner, kmeans, dominant
	Tolerance int     `yaml:"tolerance"`
	Clusters  int     `yaml:"clusters"`
	Distance  float64 `yaml:"distance"` // порог Lab-расстояния для kmeans
}

// Default returns the dino_game blueprint.
func Default() *Config {
	return &Config{
		Blueprint: "dino_game",
		AssetsDir: "blueprints/dino_game/assets",
		OutputDir: "datasets/dino_game",
		Classes:   []string{"cactus", "dino"},
		Synthesis: SynthesisParams{
			NumTrain:    1500,
			NumVal:      300,
			Width:       600,
			Height:      150,
			MaxObjects:  3,
			ScaleRange:  [2]float64{0.8, 1.2},
			MaxAttempts: 10,
		},
		Keyer: KeyerParams{
			Variant:   "corner",
			Tolerance: 25,
			Clusters:  3,
			Distance:  0.12,
		},
		Workers: 1,
	}
}

// Load reads a blueprint file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("blueprint %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	s := c.Synthesis

	if len(c.Classes) == 0 {
		errs = append(errs, errors.New("classes: at least one class is required"))
	}
	if c.AssetsDir == "" {
		errs = append(errs, errors.New("assets_dir is empty"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is empty"))
	}
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size %dx%d is not positive", s.Width, s.Height))
	}
	if s.NumTrain < 0 || s.NumVal < 0 {
		errs = append(errs, fmt.Errorf("image counts must not be negative (train=%d, val=%d)", s.NumTrain, s.NumVal))
	}
	if s.MaxObjects < 1 {
		errs = append(errs, fmt.Errorf("max_obstacles_per_image must be >= 1, got %d", s.MaxObjects))
	}
	if s.ScaleRange[0] <= 0 || s.ScaleRange[1] < s.ScaleRange[0] {
		errs = append(errs, fmt.Errorf("scale_range %v is invalid", s.ScaleRange))
	}
	if s.ForceClass != "" {
		found := false
		for _, name := range c.Classes {
			if name == s.ForceClass {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Errorf("force_class %q is not in classes", s.ForceClass))
		}
	}
	if c.Keyer.Tolerance < 0 || c.Keyer.Tolerance > 255 {
		errs = append(errs, fmt.Errorf("keyer tolerance %d out of [0,255]", c.Keyer.Tolerance))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}

	return errors.Join(errs...)
}
