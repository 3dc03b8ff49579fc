package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// CanvasPool переиспользует холсты *image.RGBA одного размера между кадрами,
// чтобы генерация тысяч кадров не нагружала GC.
type CanvasPool struct {
	mu     sync.RWMutex
	pools  map[image.Point]*sync.Pool
	allocs atomic.Int64
	reuses atomic.Int64
}

func NewCanvasPool() *CanvasPool {
	return &CanvasPool{pools: make(map[image.Point]*sync.Pool)}
}

var canvases = NewCanvasPool()

// GetImage возвращает холст с заданными границами. Содержимое не очищено.
func GetImage(rect image.Rectangle) *image.RGBA {
	return canvases.Get(rect)
}

// PutImage возвращает холст в пул.
func PutImage(img *image.RGBA) {
	canvases.Put(img)
}

// PoolStats reports how many canvases were allocated and how many were reused.
func PoolStats() (allocs, reuses int64) {
	return canvases.allocs.Load(), canvases.reuses.Load()
}

func (p *CanvasPool) pool(size image.Point) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[size]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool, ok = p.pools[size]; !ok {
		pool = &sync.Pool{}
		p.pools[size] = pool
	}
	return pool
}

func (p *CanvasPool) Get(rect image.Rectangle) *image.RGBA {
	if v := p.pool(rect.Size()).Get(); v != nil {
		img := v.(*image.RGBA)
		// размер совпадает, смещение может отличаться
		img.Rect = rect
		p.reuses.Add(1)
		return img
	}
	p.allocs.Add(1)
	return image.NewRGBA(rect)
}

func (p *CanvasPool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.pool(img.Rect.Size()).Put(img)
}
