package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/cvfoundry/internal/classes"
)

const TrainingConfigFile = "dataset.yaml"

// TrainingConfig is the dataset descriptor consumed by YOLO-style trainers.
type TrainingConfig struct {
	Path  string         `yaml:"path"`
	Train string         `yaml:"train"`
	Val   string         `yaml:"val"`
	Test  string         `yaml:"test,omitempty"`
	Names map[int]string `yaml:"names"`
}

// NewTrainingConfig describes the dataset under root. The validation split is
// "valid/images" if that directory exists, otherwise "val/images"; "test" is
// listed only when present.
func NewTrainingConfig(root string, table *classes.Table) (*TrainingConfig, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("dataset root %s: %w", root, err)
	}

	tc := &TrainingConfig{
		Path:  abs,
		Train: filepath.ToSlash(filepath.Join("train", ImagesDir)),
		Val:   filepath.ToSlash(filepath.Join("val", ImagesDir)),
		Names: table.Names(),
	}
	if isDir(filepath.Join(abs, "valid", ImagesDir)) {
		tc.Val = filepath.ToSlash(filepath.Join("valid", ImagesDir))
	}
	if isDir(filepath.Join(abs, "test", ImagesDir)) {
		tc.Test = filepath.ToSlash(filepath.Join("test", ImagesDir))
	}
	return tc, nil
}

func WriteTrainingConfig(tc *TrainingConfig, path string) error {
	data, err := yaml.Marshal(tc)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func ReadTrainingConfig(path string) (*TrainingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tc TrainingConfig
	if err := yaml.Unmarshal(data, &tc); err != nil {
		return nil, err
	}

	return &tc, nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
