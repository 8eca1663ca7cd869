package http

import (
	"log/slog"
	"net/http"
)

// RouterDeps holds the router's collaborators. CalcLimiter guards the loan
// endpoints and ChatLimiter guards /chat; a nil limiter disables limiting.
type RouterDeps struct {
	Loans       LoanCalculator
	Rates       RateFetcher
	Chat        ChatCompleter
	CalcLimiter *RateLimiter
	ChatLimiter *RateLimiter
	Logger      *slog.Logger
}

// NewRouter wires the API. /rates and /healthz are not rate limited so they
// always answer 200.
func NewRouter(d RouterDeps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loanHandler := NewLoanHandler(d.Loans)
	ratesHandler := NewRatesHandler(d.Rates)
	chatHandler := NewChatHandler(d.Chat, logger)

	limited := func(limiter *RateLimiter, h http.HandlerFunc) http.Handler {
		if limiter == nil {
			return h
		}
		return RateLimitMiddleware(limiter, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", Health)
	mux.HandleFunc("/rates", ratesHandler.GetRates)
	mux.Handle("/loan/calculate", limited(d.CalcLimiter, loanHandler.CalculateLoan))
	mux.Handle("/loan/calculations", limited(d.CalcLimiter, loanHandler.RecentCalculations))
	mux.Handle("/chat", limited(d.ChatLimiter, chatHandler.Chat))

	return RequestLogger(logger, mux)
}
