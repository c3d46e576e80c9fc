// Package gateway exposes the market service over HTTP: JSON endpoints,
// Server-Sent Events and WebSocket streams.
package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"MarketPulse/internal/market"
	"MarketPulse/internal/model"
	"MarketPulse/internal/stream"
)

// Server holds the HTTP handlers.
type Server struct {
	Market  *market.Service
	Streams *stream.Dispatcher
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// Breaker reports the provider breaker state on /healthz when set.
	Breaker func() string
}

// NewServer creates a Server.
func NewServer(svc *market.Service, streams *stream.Dispatcher, metrics http.Handler) *Server {
	return &Server{Market: svc, Streams: streams, Metrics: metrics}
}

// RegisterRoutes registers every route on mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/live", s.handleLive)
	mux.HandleFunc("POST /api/live", s.handleLive)
	mux.HandleFunc("GET /api/livechart/{symbol}", s.handleLiveChart)
	mux.HandleFunc("POST /api/livechart", s.handleLiveChart)
	mux.HandleFunc("POST /api/strategy", s.handleStrategy)
	mux.HandleFunc("POST /api/stock", s.handleStock)

	mux.HandleFunc("GET /stream/ticker", s.handleSSETicker)
	mux.HandleFunc("GET /stream/chart/{symbol}", s.handleSSEChart)
	mux.HandleFunc("GET /ws/ticker", s.handleWSTicker)
	mux.HandleFunc("GET /ws/chart/{symbol}", s.handleWSChart)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics)
	}
}

// Handler returns the routes wrapped in CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding JSON response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

const msgMissingSymbol = "Please provide a stock symbol"

// notFoundMessage formats an endpoint's 404 message.
type notFoundMessage func(symbol string) string

func noIntradayData(symbol string) string { return fmt.Sprintf("No intraday data for '%s'.", symbol) }

func notEnoughData(symbol string) string {
	return fmt.Sprintf("Not enough data for '%s' to calculate strategies.", symbol)
}

func noDataFound(symbol string) string {
	return fmt.Sprintf("No data found for '%s'. Check the symbol.", symbol)
}

// writeServiceError maps a service error to a status code and body.
func writeServiceError(w http.ResponseWriter, r *http.Request, symbol string, err error, notFound notFoundMessage) {
	kind := model.KindOf(err)
	switch {
	case errors.Is(err, model.ErrFocusNotSet):
		writeError(w, http.StatusBadRequest, msgMissingSymbol)
		return
	case errors.Is(err, market.ErrInvalidPeriod):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, model.ErrSymbolNotFound), errors.Is(err, model.ErrInsufficientHistory):
		writeError(w, http.StatusNotFound, notFound(symbol))
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Str("symbol", symbol).Str("kind", string(kind)).Msg("request failed")
	writeError(w, http.StatusInternalServerError, err.Error())
}

type symbolRequest struct {
	Symbol string       `json:"symbol"`
	Period model.Period `json:"period"`
}

// readSymbolRequest takes the symbol from the path when present and from the
// JSON body otherwise. A body that does not decode yields an empty request.
func readSymbolRequest(w http.ResponseWriter, r *http.Request) symbolRequest {
	var req symbolRequest
	if v := r.PathValue("symbol"); v != "" {
		req.Symbol = v
	} else if r.Body != nil {
		_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req)
	}
	req.Symbol = model.NormalizeSymbol(req.Symbol)
	return req
}

type healthResponse struct {
	Status       string    `json:"status"`
	WatchlistAge string    `json:"watchlistAge,omitempty"`
	AsOf         time.Time `json:"asOf"`
	Focus        string    `json:"focus,omitempty"`
	Breaker      string    `json:"breaker,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.Market.GetWatchlistSnapshot()
	resp := healthResponse{Status: "ok", AsOf: snap.AsOf}
	if !snap.AsOf.IsZero() {
		resp.WatchlistAge = time.Since(snap.AsOf).Round(time.Millisecond).String()
	}
	if f, ok := s.Market.Cache.Focus(); ok {
		resp.Focus = f
	}
	if s.Breaker != nil {
		resp.Breaker = s.Breaker()
	}
	writeJSON(w, http.StatusOK, resp)
}
