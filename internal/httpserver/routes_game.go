// internal/httpserver/routes_game.go
//
// JSON routes for a single game:
//   - POST /game/new          → create a game, start its session, issue a play token
//   - GET  /game/{id}         → current snapshot
//   - GET  /game/{id}/frame   → snapshot laid out as canvas rectangles
//   - POST /game/{id}/turn    → arrow key (token required)

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/samhallam03/GettingReadySnake/internal/game"
	"github.com/samhallam03/GettingReadySnake/internal/render"
	"github.com/samhallam03/GettingReadySnake/internal/session"
	"github.com/samhallam03/GettingReadySnake/internal/store"
)

// newGameRes is returned by POST /game/new.
type newGameRes struct {
	GameID    string    `json:"gameId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Width     int       `json:"width"`    // grid cells
	Height    int       `json:"height"`   // grid cells
	CellSize  int       `json:"cellSize"` // pixels per cell
}

// handleNewGame creates a game from the board config and starts its session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	b := s.cfg.Board
	st := game.New(game.Config{
		Width:       b.GridWidth(),
		Height:      b.GridHeight(),
		StartLength: b.StartLength,
		Rand:        s.newRand(),
	})

	tok, exp, err := s.tokens.Sign(st.ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign play token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}

	sess := session.New(st, session.Options{
		TickInterval: s.cfg.TickInterval,
		FoodInterval: s.cfg.FoodInterval,
		Logger:       log.Logger,
	})
	if err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	go sess.Run(s.ctx)

	hlog.FromRequest(r).Info().Str("game", st.ID).Int("width", st.Width).Int("height", st.Height).Msg("game created")
	_ = json.NewEncoder(w).Encode(newGameRes{
		GameID:    st.ID,
		Token:     tok,
		ExpiresAt: exp,
		Width:     st.Width,
		Height:    st.Height,
		CellSize:  b.CellSize,
	})
}

// snapshot loads the session for {id} and reads its state, writing an error
// response on failure.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (game.Snapshot, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeLookupError(w, err)
		return game.Snapshot{}, false
	}
	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		writeLookupError(w, err)
		return game.Snapshot{}, false
	}
	return snap, true
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(render.Build(snap, s.scale))
}

// turnReq is the payload for POST /game/{id}/turn.
type turnReq struct {
	Key string `json:"key"` // KeyboardEvent.key, e.g. "ArrowUp"
}

type turnRes struct {
	OK      bool `json:"ok"`
	Applied bool `json:"applied"` // false for keys other than the arrows
}

// handleTurn forwards an arrow key to the session. Other keys are ignored,
// not rejected. Whether the turn wins this tick's lock is decided by the game.
func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req turnReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	h, ok := game.HeadingForKey(req.Key)
	if ok {
		if err := sess.Turn(r.Context(), h); err != nil {
			writeLookupError(w, err)
			return
		}
	}
	_ = json.NewEncoder(w).Encode(turnRes{OK: true, Applied: ok})
}

// writeLookupError maps store/session errors to HTTP responses.
func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, session.ErrStopped):
		writeError(w, http.StatusGone, "game_stopped")
	default:
		writeError(w, http.StatusServiceUnavailable, "unavailable")
	}
}
