package http

import (
	"context"
	"net/http"

	"mortgage-agent/domain"
)

type RateFetcher interface {
	FetchRates(ctx context.Context) domain.RatesResponse
}

type RatesHandler struct {
	service RateFetcher
}

func NewRatesHandler(service RateFetcher) *RatesHandler {
	return &RatesHandler{service: service}
}

// GetRates always answers 200; provider failures show up in the source field.
func (h *RatesHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.service.FetchRates(r.Context()))
}
