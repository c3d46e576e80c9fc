package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"MarketPulse/internal/model"
	"MarketPulse/internal/stream"
)

// sseEmitter writes events as Server-Sent Events "data:" frames.
type sseEmitter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func newSSEEmitter(w http.ResponseWriter) (*sseEmitter, error) {
	rc := http.NewResponseController(w)
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		return nil, fmt.Errorf("response does not support streaming: %w", err)
	}
	return &sseEmitter{w: w, rc: rc}, nil
}

func (e *sseEmitter) Emit(ev stream.Event) error {
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", ev.Data); err != nil {
		return err
	}
	return e.rc.Flush()
}

func (s *Server) handleSSETicker(w http.ResponseWriter, r *http.Request) {
	s.serveSSE(w, r, "ticker", s.Streams.Watchlist)
}

func (s *Server) handleSSEChart(w http.ResponseWriter, r *http.Request) {
	symbol := model.NormalizeSymbol(r.PathValue("symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, msgMissingSymbol)
		return
	}
	s.serveSSE(w, r, "chart", func(ctx context.Context, em stream.Emitter) error {
		return s.Streams.Chart(ctx, symbol, em)
	})
}

func (s *Server) serveSSE(w http.ResponseWriter, r *http.Request, name string, run func(context.Context, stream.Emitter) error) {
	em, err := newSSEEmitter(w)
	if err != nil {
		log.Error().Err(err).Str("stream", name).Msg("sse unavailable")
		return
	}
	if err := run(r.Context(), em); err != nil && !errors.Is(err, context.Canceled) {
		log.Debug().Err(err).Str("stream", name).Msg("sse stream closed")
	}
}
