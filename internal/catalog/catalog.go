package catalog

import (
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strings"

	"github.com/ivlev/cvfoundry/internal/classes"
	"github.com/ivlev/cvfoundry/internal/keyer"
	"github.com/ivlev/cvfoundry/internal/source"
)

// Separator splits the class prefix from the rest of an asset file name ("cactus-big-2.png").
const Separator = "-"

// Sprite is a keyed asset. Image must not be modified after Load.
type Sprite struct {
	Class classes.ID
	Path  string
	Image *image.NRGBA
}

func (s *Sprite) Size() image.Point {
	return s.Image.Bounds().Size()
}

type DiagnosticKind int

const (
	UnknownClass DiagnosticKind = iota
	LoadFailed
	EmptyMask
)

func (k DiagnosticKind) String() string {
	switch k {
	case UnknownClass:
		return "unknown class"
	case LoadFailed:
		return "load failed"
	case EmptyMask:
		return "nothing left after keying"
	default:
		return "unknown"
	}
}

// Diagnostic records a file that did not make it into the catalog.
type Diagnostic struct {
	Path   string
	Prefix string
	Kind   DiagnosticKind
	Err    error
}

func (d Diagnostic) String() string {
	if d.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", filepath.Base(d.Path), d.Kind, d.Err)
	}
	return fmt.Sprintf("%s: %s %q", filepath.Base(d.Path), d.Kind, d.Prefix)
}

type Catalog struct {
	Table       *classes.Table
	Diagnostics []Diagnostic
	sprites     [][]*Sprite
}

func New(table *classes.Table) *Catalog {
	return &Catalog{
		Table:   table,
		sprites: make([][]*Sprite, table.Len()),
	}
}

// Load keys every recognized image in dir. Only an unreadable directory is an error;
// bad files end up in Diagnostics. Check Empty before generating anything.
func Load(dir string, table *classes.Table, k keyer.Keyer) (*Catalog, error) {
	src, err := source.NewImageSource(dir)
	if err != nil {
		return nil, fmt.Errorf("assets %s: %w", dir, err)
	}

	c := New(table)
	for i := 0; i < src.Count(); i++ {
		path := src.Path(i)
		prefix := ClassPrefix(filepath.Base(path))

		id, ok := table.Lookup(prefix)
		if !ok {
			c.Diagnostics = append(c.Diagnostics, Diagnostic{Path: path, Prefix: prefix, Kind: UnknownClass})
			continue
		}

		img, err := src.Load(i)
		if err != nil {
			log.Printf("[!] Не удалось загрузить ассет %s: %v", filepath.Base(path), err)
			c.Diagnostics = append(c.Diagnostics, Diagnostic{Path: path, Prefix: prefix, Kind: LoadFailed, Err: err})
			continue
		}

		cut := keyer.Cutout(img, k)
		// спрайт без единого непрозрачного пикселя дал бы рамку вокруг пустоты
		if keyer.Bounds(cut).Empty() {
			log.Printf("[!] Ассет %s целиком совпал с фоном", filepath.Base(path))
			c.Diagnostics = append(c.Diagnostics, Diagnostic{Path: path, Prefix: prefix, Kind: EmptyMask})
			continue
		}

		c.Add(&Sprite{Class: id, Path: path, Image: cut})
	}

	return c, nil
}

// ClassPrefix returns the text before the first separator, or the whole name if there is none.
func ClassPrefix(name string) string {
	prefix, _, _ := strings.Cut(name, Separator)
	return prefix
}

func (c *Catalog) Add(s *Sprite) {
	c.sprites[s.Class] = append(c.sprites[s.Class], s)
}

func (c *Catalog) Sprites(id classes.ID) []*Sprite {
	if id < 0 || int(id) >= len(c.sprites) {
		return nil
	}
	return c.sprites[id]
}

func (c *Catalog) Count() int {
	n := 0
	for _, list := range c.sprites {
		n += len(list)
	}
	return n
}

func (c *Catalog) Empty() bool {
	return c.Count() == 0
}
