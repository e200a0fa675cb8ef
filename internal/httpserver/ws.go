package httpserver

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	"github.com/samhallam03/GettingReadySnake/internal/game"
	"github.com/samhallam03/GettingReadySnake/internal/protocol"
	"github.com/samhallam03/GettingReadySnake/internal/render"
)

const (
	wsReadLimit    = 4 << 10
	wsPongWait     = 60 * time.Second
	wsPingEvery    = 25 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// handleWS streams a frame per tick and reads arrow keys from the client.
// The connection closes when the session stops or the client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeLookupError(w, err)
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: s.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logger.Debug().Err(err).Msg("ws upgrade")
		return
	}
	defer conn.Close()

	frames, unsubscribe, err := sess.Subscribe(s.ctx)
	if err != nil {
		s.writeWSError(conn, "game_stopped")
		return
	}
	defer unsubscribe()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// Reader: keys in. Gorilla allows one concurrent reader and one writer.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			env, err := protocol.DecodeEnvelope(msg)
			if err != nil || env.T != protocol.MsgKey {
				continue
			}
			k, err := protocol.DecodePayload[protocol.Key](env)
			if err != nil {
				continue
			}
			if h, ok := game.HeadingForKey(k.Key); ok {
				if err := sess.Turn(s.ctx, h); err != nil {
					return
				}
			}
		}
	}()

	// Writer: frames and pings out.
	ping := time.NewTicker(wsPingEvery)
	defer ping.Stop()
	for {
		select {
		case snap, ok := <-frames:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "game stopped"),
					time.Now().Add(wsWriteTimeout))
				return
			}
			b, err := protocol.Encode(protocol.MsgFrame, render.Build(snap, s.scale))
			if err != nil {
				logger.Error().Err(err).Msg("encode frame")
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readerDone:
			return
		}
	}
}

func (s *Server) writeWSError(conn *websocket.Conn, code string) {
	b, err := protocol.Encode(protocol.MsgError, protocol.Error{Error: code})
	if err != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = conn.WriteMessage(websocket.TextMessage, b)
}

// checkOrigin accepts same-host pages and the configured client origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == s.cfg.ClientOrigin {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}
