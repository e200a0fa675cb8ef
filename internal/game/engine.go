// internal/game/engine.go
//
// Core game engine for a single Snake game.
// Responsibilities:
//   - Create new games with a one-segment snake heading South.
//   - Advance the simulation one cell per Tick (walls, self collision, food, trim).
//   - Accept at most one heading change per tick.
//   - Spawn food at uniformly random cells.
//
// Notes:
//   - Death is a normal terminal state, not an error. A dead State ignores
//     Tick and AddFood.
//   - Turning straight back into the neck is allowed; the next Tick kills the snake.
package game

import "github.com/google/uuid"

const (
	DefaultStartLength = 5
)

// Config describes a new game.
type Config struct {
	ID          string   // Optional; a random UUID is used when empty.
	Width       int      // Grid width in cells.
	Height      int      // Grid height in cells.
	StartLength int      // Initial MaxLength; DefaultStartLength when zero.
	Origin      Position // First segment.
	Rand        Intn     // Food placement source; required for AddFood.
}

// New constructs a new game from cfg.
// Grid dimensions are assumed valid (see config.Validate).
func New(cfg Config) *State {
	id := cfg.ID
	if id == "" {
		id = uuid.New().String()
	}
	start := cfg.StartLength
	if start <= 0 {
		start = DefaultStartLength
	}
	return &State{
		ID:          id,
		Width:       cfg.Width,
		Height:      cfg.Height,
		StartLength: start,
		Snake:       []Position{cfg.Origin},
		Head:        cfg.Origin,
		Heading:     South,
		Alive:       true,
		MaxLength:   start,
		Food:        []Position{},
		rng:         cfg.Rand,
	}
}

// Turn requests a new heading. Only the first call between two ticks wins;
// the rest are dropped.
func (s *State) Turn(h Heading) {
	if s.turnLocked {
		return
	}
	s.Heading = h
	s.turnLocked = true
}

// ResetTurnLock re-arms Turn. Tick calls it right after moving the head.
func (s *State) ResetTurnLock() { s.turnLocked = false }

// TurnLocked reports whether a heading change was already taken this tick.
func (s *State) TurnLocked() bool { return s.turnLocked }

// Tick advances the game by one step. It is a no-op once the snake is dead.
//
// Order:
//  1. move Head one cell along Heading
//  2. release the turn lock
//  3. wall check
//  4. self check against every segment
//  5. if alive: append Head, eat at most one food, trim the oldest segment
func (s *State) Tick() {
	if !s.Alive {
		return
	}

	dx, dy := s.Heading.delta()
	s.Head = Position{X: s.Head.X + dx, Y: s.Head.Y + dy}
	s.ResetTurnLock()

	if !s.inBounds(s.Head) {
		s.Alive = false
	}
	if s.Alive && s.occupies(s.Head) {
		s.Alive = false
	}
	if !s.Alive {
		return
	}

	s.Snake = append(s.Snake, s.Head)
	s.Ticks++

	if i := s.foodAt(s.Head); i >= 0 {
		s.Food = append(s.Food[:i], s.Food[i+1:]...)
		s.MaxLength++
	}

	// Growth is at most one per tick, so one drop restores the bound.
	if len(s.Snake) > s.MaxLength {
		s.Snake = s.Snake[1:]
	}
}

// AddFood drops one food item on a random cell. No overlap check is made
// against the snake or other food. No-op once dead.
func (s *State) AddFood() {
	if !s.Alive || s.rng == nil {
		return
	}
	s.Food = append(s.Food, Position{
		X: s.rng.Intn(s.Width),
		Y: s.rng.Intn(s.Height),
	})
}

// PlaceFood adds a food item at p without randomness.
func (s *State) PlaceFood(p Position) {
	if !s.Alive {
		return
	}
	s.Food = append(s.Food, p)
}

// Score is the number of food items eaten.
func (s *State) Score() int { return s.MaxLength - s.StartLength }

// BoardFull reports whether the snake covers every cell of the grid.
func (s *State) BoardFull() bool { return len(s.Snake) >= s.Width*s.Height }

// Snapshot copies the state for readers outside the owning goroutine.
func (s *State) Snapshot() Snapshot {
	snake := make([]Position, len(s.Snake))
	copy(snake, s.Snake)
	food := make([]Position, len(s.Food))
	copy(food, s.Food)
	return Snapshot{
		ID:        s.ID,
		Width:     s.Width,
		Height:    s.Height,
		Snake:     snake,
		Head:      s.Head,
		Heading:   s.Heading,
		Food:      food,
		Alive:     s.Alive,
		Score:     s.Score(),
		MaxLength: s.MaxLength,
		BoardFull: s.BoardFull(),
		Tick:      s.Ticks,
	}
}

func (s *State) inBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.Width && p.Y < s.Height
}

// occupies reports whether p equals any existing segment.
func (s *State) occupies(p Position) bool {
	for _, seg := range s.Snake {
		if seg == p {
			return true
		}
	}
	return false
}

// foodAt returns the index of the first food item at p, or -1.
func (s *State) foodAt(p Position) int {
	for i, f := range s.Food {
		if f == p {
			return i
		}
	}
	return -1
}
