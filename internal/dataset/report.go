package dataset

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ivlev/cvfoundry/internal/classes"
	"github.com/ivlev/cvfoundry/internal/composer"
	"github.com/ivlev/cvfoundry/internal/system"
)

// Report accumulates per-split and per-class counters. Safe for concurrent use.
type Report struct {
	mu       sync.Mutex
	table    *classes.Table
	started  time.Time
	elapsed  time.Duration
	written  map[string]int
	skipped  map[string]int
	perClass []int
	widths   []float64
	heights  []float64
}

func NewReport(table *classes.Table) *Report {
	return &Report{
		table:    table,
		started:  time.Now(),
		written:  make(map[string]int),
		skipped:  make(map[string]int),
		perClass: make([]int, table.Len()),
	}
}

func (r *Report) Add(split string, objs []composer.PlacedObject) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.written[split]++
	for _, o := range objs {
		if int(o.Class) >= 0 && int(o.Class) < len(r.perClass) {
			r.perClass[o.Class]++
		}
		r.widths = append(r.widths, float64(o.Box.Dx()))
		r.heights = append(r.heights, float64(o.Box.Dy()))
	}
}

func (r *Report) Skip(split string) {
	r.mu.Lock()
	r.skipped[split]++
	r.mu.Unlock()
}

func (r *Report) Finish() {
	r.mu.Lock()
	r.elapsed = time.Since(r.started)
	r.mu.Unlock()
}

func (r *Report) Written(split string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written[split]
}

func (r *Report) Skipped(split string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipped[split]
}

func (r *Report) ClassCount(id classes.ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if int(id) < 0 || int(id) >= len(r.perClass) {
		return 0
	}
	return r.perClass[id]
}

// BoxStats returns mean and standard deviation of box width and height in pixels.
func (r *Report) BoxStats() (meanW, stdW, meanH, stdH float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.widths) == 0 {
		return 0, 0, 0, 0
	}
	meanW, stdW = stat.MeanStdDev(r.widths, nil)
	meanH, stdH = stat.MeanStdDev(r.heights, nil)
	if len(r.widths) == 1 {
		stdW, stdH = 0, 0
	}
	return meanW, stdW, meanH, stdH
}

// Print writes the summary; with showStats it adds memory and canvas pool counters.
func (r *Report) Print(w io.Writer, showStats bool) {
	meanW, stdW, meanH, stdH := r.BoxStats()

	r.mu.Lock()
	splits := make([]string, 0, len(r.written)+len(r.skipped))
	seen := map[string]bool{}
	for _, m := range []map[string]int{r.written, r.skipped} {
		for s := range m {
			if !seen[s] {
				seen[s] = true
				splits = append(splits, s)
			}
		}
	}
	sort.Strings(splits)

	var b strings.Builder
	b.WriteString("--- [DATASET REPORT] ---\n")
	for _, s := range splits {
		fmt.Fprintf(&b, "%s: written %d | skipped %d\n", s, r.written[s], r.skipped[s])
	}
	for i, n := range r.perClass {
		fmt.Fprintf(&b, "class %d (%s): %d objects\n", i, r.table.Name(classes.ID(i)), n)
	}
	fmt.Fprintf(&b, "Box width: %.1f ± %.1f px | height: %.1f ± %.1f px\n", meanW, stdW, meanH, stdH)
	fmt.Fprintf(&b, "Total Time: %.2fs\n", r.elapsed.Seconds())
	r.mu.Unlock()

	if showStats {
		if mi, err := system.Memory(); err == nil {
			fmt.Fprintf(&b, "Memory: %s\n", mi)
		} else {
			fmt.Fprintf(&b, "Memory: n/a (%v)\n", err)
		}
		allocs, reuses := system.PoolStats()
		fmt.Fprintf(&b, "Canvas pool: %d allocs | %d reuses\n", allocs, reuses)
	}
	b.WriteString("------------------------\n")

	io.WriteString(w, b.String())
}

// AppendLog adds a one-line entry to the synthesis log at path.
func (r *Report) AppendLog(path, blueprint string) error {
	r.mu.Lock()
	total := 0
	for _, n := range r.written {
		total += n
	}
	entry := fmt.Sprintf("[%s] Blueprint: %s | Frames: %d | Train: %d | Val: %d | Total: %.2fs\n",
		time.Now().Format("2006-01-02 15:04:05"),
		blueprint,
		total,
		r.written["train"],
		r.written["val"],
		r.elapsed.Seconds(),
	)
	r.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(entry)
	return err
}
