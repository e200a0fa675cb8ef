// internal/httpserver/server.go
//
// HTTP server wiring for the Snake backend.
// Responsibilities:
//   - Router + middleware (request IDs, access logs, panic recovery, CORS).
//   - Static client: "/" and "/static/*" from the embedded assets.
//   - Diagnostics: "/health", "/debug/sessions".
//   - Game endpoints: POST /game/new, GET /game/{id}, GET /game/{id}/frame,
//     POST /game/{id}/turn, GET /game/{id}/ws.
//
// Notes:
//   - Every game runs in its own session goroutine; handlers never touch
//     game.State directly.
//   - Steering a game (turn, ws) needs the play token issued by /game/new.
//   - JSON routes are bounded by a handler timeout; the websocket route is not.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/samhallam03/GettingReadySnake/assets"
	"github.com/samhallam03/GettingReadySnake/internal/auth"
	"github.com/samhallam03/GettingReadySnake/internal/config"
	"github.com/samhallam03/GettingReadySnake/internal/game"
	"github.com/samhallam03/GettingReadySnake/internal/render"
	"github.com/samhallam03/GettingReadySnake/internal/store"
)

// Server bundles router, session registry and settings.
type Server struct {
	r      *chi.Mux
	store  store.Store
	cfg    config.Config
	tokens *auth.Issuer
	scale  render.Scale

	// ctx bounds every session started by this server.
	ctx     context.Context
	newRand func() game.Intn
}

// New constructs a Server, installs middleware, and registers routes.
// Sessions it starts stop when ctx is cancelled.
func New(ctx context.Context, st store.Store, cfg config.Config, tokens *auth.Issuer) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		store:   st,
		cfg:     cfg,
		tokens:  tokens,
		scale:   render.Scale{Cell: cfg.Board.CellSize, Margin: cfg.Board.FoodMargin},
		ctx:     ctx,
		newRand: timeSeededRand,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)               // add X-Request-ID
	s.r.Use(chimw.RealIP)                  // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))   // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog)) // one log line per request
	s.r.Use(chimw.Recoverer)               // recover from panics
	s.r.Use(corsFor(cfg.ClientOrigin))     // credentials-friendly CORS

	// --- client ---
	web := assets.Web()
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, web, "index.html")
	})
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web)))

	// --- JSON API ---
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/sessions", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]int{"sessions": s.store.Len()})
		})

		r.Post("/game/new", s.handleNewGame)
		r.Get("/game/{id}", s.handleSnapshot)
		r.Get("/game/{id}/frame", s.handleFrame)
		r.With(s.requirePlayToken).Post("/game/{id}/turn", s.handleTurn)
	})

	// Websocket is long-lived, so it sits outside the timeout group.
	s.r.With(s.requirePlayToken).Get("/game/{id}/ws", s.handleWS)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Handler exposes the router (useful for tests and http.Server).
func (s *Server) Handler() http.Handler { return s.r }

// Router exposes the internal router.
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one line per request.
func accessLog(r *http.Request, status, size int, dur time.Duration) {
	lvl := zerolog.DebugLevel
	if status >= http.StatusInternalServerError {
		lvl = zerolog.WarnLevel
	}
	hlog.FromRequest(r).WithLevel(lvl).
		Str("reqId", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("dur", dur).
		Msg("request")
}

// requirePlayToken enforces a token issued for the {id} in the path.
func (s *Server) requirePlayToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gameID, err := s.tokens.Verify(auth.FromRequest(r))
		if err != nil {
			hlog.FromRequest(r).Debug().Err(err).Msg("play token rejected")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if gameID != chi.URLParam(r, "id") {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- small util --------------------------------

// timeSeededRand gives each game its own food source; only the session
// goroutine draws from it.
func timeSeededRand() game.Intn {
	return rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
}

// writeError sends {"error":code} with status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
