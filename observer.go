package mandel

import (
	"image"
)

// TileObserver is notified as tiles move through a render. A progress
// overlay implements it. For every tile a worker dequeues, OnTileStart is
// called exactly once, followed by exactly one OnTileComplete.
//
// Calls come from worker goroutines concurrently.
type TileObserver interface {
	OnTileStart(tile image.Rectangle)
	OnTileComplete(tile image.Rectangle)
}

// Progress is reported at least once per completed tile.
type Progress struct {
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

// ProgressFunc receives progress updates. Calls are serialized.
type ProgressFunc func(Progress)

// ObserverFuncs adapts a pair of functions to TileObserver. Nil fields are skipped.
type ObserverFuncs struct {
	Start    func(tile image.Rectangle)
	Complete func(tile image.Rectangle)
}

func (o ObserverFuncs) OnTileStart(tile image.Rectangle) {
	if o.Start != nil {
		o.Start(tile)
	}
}

func (o ObserverFuncs) OnTileComplete(tile image.Rectangle) {
	if o.Complete != nil {
		o.Complete(tile)
	}
}

var _ TileObserver = ObserverFuncs{}
