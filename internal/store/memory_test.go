package store

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samhallam03/GettingReadySnake/internal/game"
	"github.com/samhallam03/GettingReadySnake/internal/session"
)

func newSession(id string) *session.Session {
	st := game.New(game.Config{ID: id, Width: 8, Height: 8})
	return session.New(st, session.Options{
		TickInterval: time.Hour,
		FoodInterval: time.Hour,
		Logger:       zerolog.Nop(),
	})
}

func TestMemorySaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession("a")

	require.NoError(t, st.Save(ctx, s))
	assert.Equal(t, 1, st.Len())

	got, err := st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Delete(ctx, "a"))
	require.NoError(t, st.Delete(ctx, "a"))
	assert.Equal(t, 0, st.Len())
	_, err = st.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySweepIdle(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	require.NoError(t, st.Save(ctx, newSession("stale")))
	time.Sleep(60 * time.Millisecond)
	require.NoError(t, st.Save(ctx, newSession("fresh")))

	removed := st.Sweep(30 * time.Millisecond)
	assert.Equal(t, []string{"stale"}, removed)
	assert.Equal(t, 1, st.Len())

	_, err := st.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemorySweepFinishedSessions(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession("done")
	require.NoError(t, st.Save(ctx, s))

	runCtx, cancel := context.WithCancel(ctx)
	go s.Run(runCtx)
	cancel()
	<-s.Done()

	assert.Equal(t, []string{"done"}, st.Sweep(time.Hour))
	assert.Equal(t, 0, st.Len())
}
