package keyer

import (
	"fmt"

	"github.com/ivlev/cvfoundry/internal/config"
)

// New creates a keyer for the configured variant.
func New(p config.KeyerParams) (Keyer, error) {
	switch p.Variant {
	case "corner", "":
		return &CornerKeyer{Tolerance: p.Tolerance}, nil
	case "dominant":
		return &DominantKeyer{Tolerance: p.Tolerance}, nil
	case "kmeans":
		k := NewKMeansKeyer()
		if p.Clusters > 0 {
			k.Clusters = p.Clusters
		}
		if p.Distance > 0 {
			k.Distance = p.Distance
		}
		return k, nil
	default:
		return nil, fmt.Errorf("unknown keyer variant: %s", p.Variant)
	}
}
