package mandel

import (
	"image"
)

// EventKind names the messages of the render stream.
type EventKind string

const (
	EventStart     EventKind = "start"
	EventTileStart EventKind = "tile_start"
	EventTileDone  EventKind = "tile_done"
	EventProgress  EventKind = "progress"
	EventDone      EventKind = "done"
	EventError     EventKind = "error"
)

// Rect is the wire form of an image.Rectangle.
type Rect struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

func RectOf(r image.Rectangle) Rect {
	return Rect{X0: r.Min.X, Y0: r.Min.Y, X1: r.Max.X, Y1: r.Max.Y}
}

func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X0, r.Y0, r.X1, r.Y1)
}

// Event is one message sent from the server to a watching client. The
// fields used depend on Kind:
//
//	start       Session, Width, Height, Tiles
//	tile_start  Tile
//	tile_done   Tile, PNG (the tile's pixels)
//	progress    Progress
//	done        Completed, Cancelled
//	error       Error
type Event struct {
	Kind    EventKind `json:"kind"`
	Session string    `json:"session,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	Tiles  int `json:"tiles,omitempty"`

	Tile *Rect  `json:"tile,omitempty"`
	PNG  []byte `json:"png,omitempty"`

	Progress *Progress `json:"progress,omitempty"`

	Completed int    `json:"completed,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Error     string `json:"error,omitempty"`
}
