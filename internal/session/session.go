// internal/session/session.go
//
// Session drives one game on its own goroutine.
// Responsibilities:
//   - Tick the game and spawn food on two independent tickers.
//   - Serialize turns, snapshot reads and subscriptions through an inbox so
//     the game.State is only ever touched by the Run goroutine.
//   - Fan out a snapshot to subscribers after every tick.
//
// Notes:
//   - A dead game keeps ticking (render-only) until the session is stopped;
//     game.State itself ignores the calls.
//   - Subscribers get buffered channels; a full channel drops the frame
//     instead of stalling the loop.
package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/samhallam03/GettingReadySnake/internal/game"
)

const (
	DefaultTickInterval = 200 * time.Millisecond
	DefaultFoodInterval = time.Second

	inboxSize      = 64
	subscriberSize = 8
)

// ErrStopped is returned for requests made after the session has stopped.
var ErrStopped = errors.New("session stopped")

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	TickInterval time.Duration
	FoodInterval time.Duration
	Logger       zerolog.Logger
}

// Session owns one game.State.
type Session struct {
	id    string
	state *game.State

	tickEvery time.Duration
	foodEvery time.Duration
	log       zerolog.Logger

	inbox      chan any
	quit       chan struct{}
	done       chan struct{}
	stopped    atomic.Bool
	lastActive atomic.Int64

	subs    map[int]chan game.Snapshot
	nextSub int
}

type turnCmd struct{ heading game.Heading }

type snapshotReq struct{ reply chan game.Snapshot }

type subscribeReq struct {
	reply chan subscription
}

type subscription struct {
	id int
	ch chan game.Snapshot
}

type unsubscribeCmd struct{ id int }

// New wraps state in a Session. Call Run to start it.
func New(state *game.State, opts Options) *Session {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.FoodInterval <= 0 {
		opts.FoodInterval = DefaultFoodInterval
	}
	s := &Session{
		id:        state.ID,
		state:     state,
		tickEvery: opts.TickInterval,
		foodEvery: opts.FoodInterval,
		log:       opts.Logger.With().Str("game", state.ID).Logger(),
		inbox:     make(chan any, inboxSize),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		subs:      make(map[int]chan game.Snapshot),
	}
	s.touch()
	return s
}

// ID returns the game id.
func (s *Session) ID() string { return s.id }

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} { return s.done }

// LastActive is the last time a client interacted with the session.
func (s *Session) LastActive() time.Time { return time.Unix(0, s.lastActive.Load()) }

func (s *Session) touch() { s.lastActive.Store(time.Now().UnixNano()) }

// Stop ends Run. Safe to call more than once.
func (s *Session) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.quit)
	}
}

// Run is the session loop. It returns when ctx is cancelled or Stop is called.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)
	defer s.closeSubs()

	tick := time.NewTicker(s.tickEvery)
	defer tick.Stop()
	food := time.NewTicker(s.foodEvery)
	defer food.Stop()

	s.log.Debug().Dur("tick", s.tickEvery).Dur("food", s.foodEvery).Msg("session started")

	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		case <-s.quit:
			return
		case cmd := <-s.inbox:
			s.handle(cmd)
		case <-tick.C:
			s.step()
		case <-food.C:
			s.state.AddFood()
		}
	}
}

// step advances the game once and publishes the result.
func (s *Session) step() {
	wasAlive, score := s.state.Alive, s.state.Score()
	s.state.Tick()

	if s.state.Score() != score {
		s.log.Info().Int("score", s.state.Score()).Int("length", len(s.state.Snake)).Msg("food eaten")
	}
	if wasAlive && !s.state.Alive {
		s.log.Info().
			Int("score", s.state.Score()).
			Int("ticks", s.state.Ticks).
			Bool("boardFull", s.state.BoardFull()).
			Msg("game over")
	}
	s.broadcast(s.state.Snapshot())
}

func (s *Session) handle(cmd any) {
	switch c := cmd.(type) {
	case turnCmd:
		s.state.Turn(c.heading)
	case snapshotReq:
		c.reply <- s.state.Snapshot()
	case subscribeReq:
		id := s.nextSub
		s.nextSub++
		ch := make(chan game.Snapshot, subscriberSize)
		ch <- s.state.Snapshot()
		s.subs[id] = ch
		c.reply <- subscription{id: id, ch: ch}
	case unsubscribeCmd:
		if ch, ok := s.subs[c.id]; ok {
			close(ch)
			delete(s.subs, c.id)
		}
	}
}

// broadcast counts as activity while anyone is watching.
func (s *Session) broadcast(snap game.Snapshot) {
	if len(s.subs) > 0 {
		s.touch()
	}
	for id, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			s.log.Debug().Int("sub", id).Msg("subscriber slow, frame dropped")
		}
	}
}

func (s *Session) closeSubs() {
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

// send queues cmd for the loop.
func (s *Session) send(ctx context.Context, cmd any) error {
	select {
	case <-s.quit:
		return ErrStopped
	default:
	}
	select {
	case s.inbox <- cmd:
		return nil
	case <-s.quit:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Turn queues a heading change. The game applies at most one per tick.
func (s *Session) Turn(ctx context.Context, h game.Heading) error {
	s.touch()
	return s.send(ctx, turnCmd{heading: h})
}

// Snapshot returns a consistent copy of the game taken between ticks.
func (s *Session) Snapshot(ctx context.Context) (game.Snapshot, error) {
	s.touch()
	reply := make(chan game.Snapshot, 1)
	if err := s.send(ctx, snapshotReq{reply: reply}); err != nil {
		return game.Snapshot{}, err
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-s.done:
		return game.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
}

// Subscribe returns a channel receiving the current snapshot followed by one
// per tick. The channel is closed when cancel is called or the session stops.
func (s *Session) Subscribe(ctx context.Context) (<-chan game.Snapshot, func(), error) {
	s.touch()
	reply := make(chan subscription, 1)
	if err := s.send(ctx, subscribeReq{reply: reply}); err != nil {
		return nil, nil, err
	}
	var sub subscription
	select {
	case sub = <-reply:
	case <-s.done:
		return nil, nil, ErrStopped
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
	cancel := func() {
		_ = s.send(context.Background(), unsubscribeCmd{id: sub.id})
	}
	return sub.ch, cancel, nil
}
