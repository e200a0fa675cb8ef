// internal/game/types.go
//
// Core type definitions for the Snake game engine.
// Defines:
//   - Position: a grid cell (not pixels).
//   - Heading: one of the four cardinal directions.
//   - State: everything one game owns (snake, food, heading, alive flag).
//   - Snapshot: a copy of State safe to hand to renderers and encoders.

package game

import "fmt"

// Position is a grid cell. The grid spans [0,Width) x [0,Height).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Heading is the direction the head advances on the next tick.
type Heading int

const (
	North Heading = iota
	South
	East
	West
)

// String returns the single-letter form used on the wire ("N", "S", "E", "W").
func (h Heading) String() string {
	switch h {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	}
	return "?"
}

// delta is the one-cell step for h. North is up, so y decreases.
func (h Heading) delta() (dx, dy int) {
	switch h {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// MarshalText lets Heading travel as "N"/"S"/"E"/"W" in JSON.
func (h Heading) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// UnmarshalText accepts the forms produced by MarshalText.
func (h *Heading) UnmarshalText(b []byte) error {
	switch string(b) {
	case "N":
		*h = North
	case "S":
		*h = South
	case "E":
		*h = East
	case "W":
		*h = West
	default:
		return fmt.Errorf("game: unknown heading %q", b)
	}
	return nil
}

// Intn is the random source used for food placement.
// *rand.Rand from golang.org/x/exp/rand satisfies it.
type Intn interface {
	Intn(n int) int
}

// State holds one game. It is not safe for concurrent use; callers
// serialize Tick, Turn and AddFood (see internal/session).
type State struct {
	ID          string     // Unique game identifier.
	Width       int        // Grid width in cells.
	Height      int        // Grid height in cells.
	StartLength int        // MaxLength at creation; score is measured from here.
	Snake       []Position // Segments, oldest first; last is the newest.
	Head        Position   // Leading position, advanced before validation.
	Heading     Heading    // Direction of the next advance.
	Alive       bool       // False once the snake hits a wall or itself.
	MaxLength   int        // Grows by one per food eaten.
	Food        []Position // Active food items; duplicates allowed.
	Ticks       int        // Ticks advanced while alive.

	turnLocked bool
	rng        Intn
}

// Snapshot is a detached copy of a State, shaped for JSON.
type Snapshot struct {
	ID        string     `json:"id"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Snake     []Position `json:"snake"`
	Head      Position   `json:"head"`
	Heading   Heading    `json:"heading"`
	Food      []Position `json:"food"`
	Alive     bool       `json:"alive"`
	Score     int        `json:"score"`
	MaxLength int        `json:"maxLength"`
	BoardFull bool       `json:"boardFull"`
	Tick      int        `json:"tick"`
}
