package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"MarketPulse/internal/model"
	"MarketPulse/internal/stream"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsEmitter writes one text frame per event. Only the stream loop writes
// data frames; pings go through WriteControl, which may run concurrently.
type wsEmitter struct {
	conn *websocket.Conn
}

func (e *wsEmitter) Emit(ev stream.Event) error {
	_ = e.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return e.conn.WriteMessage(websocket.TextMessage, ev.Data)
}

func (s *Server) handleWSTicker(w http.ResponseWriter, r *http.Request) {
	s.serveWS(w, r, "ticker", s.Streams.Watchlist)
}

func (s *Server) handleWSChart(w http.ResponseWriter, r *http.Request) {
	symbol := model.NormalizeSymbol(r.PathValue("symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, msgMissingSymbol)
		return
	}
	s.serveWS(w, r, "chart", func(ctx context.Context, em stream.Emitter) error {
		return s.Streams.Chart(ctx, symbol, em)
	})
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request, name string, run func(context.Context, stream.Emitter) error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("stream", name).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go wsReadPump(conn, cancel)
	go wsPingLoop(ctx, conn)

	if err := run(ctx, &wsEmitter{conn: conn}); err != nil {
		log.Debug().Err(err).Str("stream", name).Msg("ws stream closed")
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteWait))
}

// wsReadPump discards client frames and cancels the stream once the peer
// goes away or stops answering pings.
func wsReadPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func wsPingLoop(ctx context.Context, conn *websocket.Conn) {
	t := time.NewTicker(wsPingPeriod)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
