// Package render turns a game snapshot into filled rectangles in canvas pixels.
// The browser paints a Frame verbatim; it holds no game logic.
package render

import "github.com/samhallam03/GettingReadySnake/internal/game"

// Colours used by the page. They are CSS colour names.
const (
	ColorFood  = "green"
	ColorAlive = "purple"
	ColorFull  = "gold"
	ColorDead  = "red"
)

// Rect is one filled rectangle in pixels.
type Rect struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	W     int    `json:"w"`
	H     int    `json:"h"`
	Color string `json:"color"`
}

// Frame is everything needed to paint one tick.
type Frame struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Rects  []Rect `json:"rects"`
	Score  int    `json:"score"`
	Alive  bool   `json:"alive"`
	Tick   int    `json:"tick"`
}

// Scale holds the pixel geometry of a cell.
type Scale struct {
	Cell   int // Cell edge in pixels.
	Margin int // Inset applied to food on every side.
}

// Build lays out food first, then snake segments, so segments paint on top.
func Build(s game.Snapshot, sc Scale) Frame {
	f := Frame{
		Width:  s.Width * sc.Cell,
		Height: s.Height * sc.Cell,
		Rects:  make([]Rect, 0, len(s.Food)+len(s.Snake)),
		Score:  s.Score,
		Alive:  s.Alive,
		Tick:   s.Tick,
	}
	inner := sc.Cell - 2*sc.Margin
	for _, p := range s.Food {
		f.Rects = append(f.Rects, Rect{
			X:     p.X*sc.Cell + sc.Margin,
			Y:     p.Y*sc.Cell + sc.Margin,
			W:     inner,
			H:     inner,
			Color: ColorFood,
		})
	}
	color := SnakeColor(s)
	for _, p := range s.Snake {
		f.Rects = append(f.Rects, Rect{X: p.X * sc.Cell, Y: p.Y * sc.Cell, W: sc.Cell, H: sc.Cell, Color: color})
	}
	return f
}

// SnakeColor picks the segment colour: alive, dead with a full board, or dead.
func SnakeColor(s game.Snapshot) string {
	switch {
	case s.Alive:
		return ColorAlive
	case s.BoardFull:
		return ColorFull
	default:
		return ColorDead
	}
}
