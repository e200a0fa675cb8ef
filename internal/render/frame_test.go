package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samhallam03/GettingReadySnake/internal/game"
)

func TestBuildGeometry(t *testing.T) {
	snap := game.Snapshot{
		Width:  32,
		Height: 24,
		Snake:  []game.Position{{X: 1, Y: 2}, {X: 1, Y: 3}},
		Food:   []game.Position{{X: 4, Y: 0}},
		Alive:  true,
		Score:  3,
		Tick:   9,
	}
	f := Build(snap, Scale{Cell: 25, Margin: 5})

	assert.Equal(t, 800, f.Width)
	assert.Equal(t, 600, f.Height)
	assert.Equal(t, 3, f.Score)
	assert.Equal(t, 9, f.Tick)
	require.Len(t, f.Rects, 3)
	assert.Equal(t, Rect{X: 105, Y: 5, W: 15, H: 15, Color: ColorFood}, f.Rects[0])
	assert.Equal(t, Rect{X: 25, Y: 50, W: 25, H: 25, Color: ColorAlive}, f.Rects[1])
	assert.Equal(t, Rect{X: 25, Y: 75, W: 25, H: 25, Color: ColorAlive}, f.Rects[2])
}

func TestSnakeColor(t *testing.T) {
	tests := []struct {
		name string
		snap game.Snapshot
		want string
	}{
		{"alive", game.Snapshot{Alive: true, BoardFull: true}, ColorAlive},
		{"dead board full", game.Snapshot{Alive: false, BoardFull: true}, ColorFull},
		{"dead", game.Snapshot{Alive: false}, ColorDead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SnakeColor(tt.snap))
		})
	}
}

func TestBuildEmptyHasNoNilRects(t *testing.T) {
	f := Build(game.Snapshot{Width: 1, Height: 1}, Scale{Cell: 10, Margin: 2})
	assert.NotNil(t, f.Rects)
	assert.Empty(t, f.Rects)
}
