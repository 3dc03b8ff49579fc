package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ivlev/cvfoundry/internal/annotation"
)

// Problem is a single inconsistency found in a split directory.
type Problem struct {
	Name   string
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Name, p.Reason)
}

// VerifySplit checks that every image in dir/images has a non-empty, parseable
// label in dir/labels and vice versa. It returns the number of consistent pairs.
func VerifySplit(dir string, numClasses int) (int, []Problem, error) {
	images, err := stems(filepath.Join(dir, ImagesDir), ".png")
	if err != nil {
		return 0, nil, err
	}
	labels, err := stems(filepath.Join(dir, LabelsDir), ".txt")
	if err != nil {
		return 0, nil, err
	}

	var problems []Problem
	pairs := 0

	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !labels[name] {
			problems = append(problems, Problem{name, "label missing"})
			continue
		}
		boxes, err := annotation.ReadFile(filepath.Join(dir, LabelsDir, name+".txt"))
		if err != nil {
			problems = append(problems, Problem{name, err.Error()})
			continue
		}
		if len(boxes) == 0 {
			problems = append(problems, Problem{name, "label is empty"})
			continue
		}
		ok := true
		for _, b := range boxes {
			if int(b.Class) < 0 || int(b.Class) >= numClasses {
				problems = append(problems, Problem{name, fmt.Sprintf("class %d out of range", b.Class)})
				ok = false
				break
			}
		}
		if ok {
			pairs++
		}
	}

	orphans := make([]string, 0)
	for name := range labels {
		if !images[name] {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)
	for _, name := range orphans {
		problems = append(problems, Problem{name, "image missing"})
	}

	return pairs, problems, nil
}

func stems(dir, ext string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		out[strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))] = true
	}
	return out, nil
}
