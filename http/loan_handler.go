package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"mortgage-agent/domain"
)

type LoanCalculator interface {
	CalculateLoan(ctx context.Context, input domain.LoanInput) domain.LoanResult
	RecentCalculations(ctx context.Context, limit int) ([]domain.CalculationRecord, error)
}

type LoanHandler struct {
	service LoanCalculator
}

func NewLoanHandler(service LoanCalculator) *LoanHandler {
	return &LoanHandler{service: service}
}

type calculateResponse struct {
	Result  domain.LoanResult  `json:"result"`
	Display domain.LoanDisplay `json:"display"`
}

func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input domain.LoanInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result := h.service.CalculateLoan(r.Context(), input)
	writeJSON(w, http.StatusOK, calculateResponse{
		Result:  result,
		Display: result.Display(),
	})
}

// RecentCalculations lists the calculation log, newest first. The optional
// limit query parameter caps the page size.
func (h *LoanHandler) RecentCalculations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit", raw)
			return
		}
		limit = n
	}

	records, err := h.service.RecentCalculations(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list calculations", err.Error())
		return
	}
	if records == nil {
		records = []domain.CalculationRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
