package gateway

import (
	"net/http"

	"MarketPulse/internal/stream"
)

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stream.NewWatchlistMessage(s.Market.GetWatchlistSnapshot()))
}

func (s *Server) handleLiveChart(w http.ResponseWriter, r *http.Request) {
	req := readSymbolRequest(w, r)
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, msgMissingSymbol)
		return
	}
	series, err := s.Market.GetOrBootstrapChart(r.Context(), req.Symbol)
	if err != nil {
		writeServiceError(w, r, req.Symbol, err, noIntradayData)
		return
	}
	writeJSON(w, http.StatusOK, stream.NewChartMessage(series))
}

func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	req := readSymbolRequest(w, r)
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, msgMissingSymbol)
		return
	}
	report, err := s.Market.Analyze(r.Context(), req.Symbol)
	if err != nil {
		writeServiceError(w, r, req.Symbol, err, notEnoughData)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	req := readSymbolRequest(w, r)
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, msgMissingSymbol)
		return
	}
	summary, err := s.Market.Summary(r.Context(), req.Symbol, req.Period)
	if err != nil {
		writeServiceError(w, r, req.Symbol, err, noDataFound)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
