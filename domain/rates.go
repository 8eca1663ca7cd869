package domain

import "time"

// RateSource tags where a RatesResponse came from.
type RateSource string

const (
	RateSourceProvider        RateSource = "provider"
	RateSourceFallbackDefault RateSource = "fallback-default"
	RateSourceErrorFallback   RateSource = "error-fallback"
)

const (
	LoanType30YearFixed = "30-Year Fixed"
	LoanType15YearFixed = "15-Year Fixed"
	LoanTypeARM51       = "5/1 ARM"
	LoanTypeFHA30Year   = "FHA 30-Year"
	LoanTypeVA30Year    = "VA 30-Year"
)

type RateQuote struct {
	LoanType string  `json:"loanType"`
	Rate     float64 `json:"rate"`
}

type RatesResponse struct {
	Rates       []RateQuote `json:"rates"`
	Source      RateSource  `json:"source"`
	RetrievedAt time.Time   `json:"retrievedAt"`
}

// DefaultRates returns the static rate table in display order. Each call
// returns a fresh slice.
func DefaultRates() []RateQuote {
	return []RateQuote{
		{LoanType: LoanType30YearFixed, Rate: 7.12},
		{LoanType: LoanType15YearFixed, Rate: 6.38},
		{LoanType: LoanTypeARM51, Rate: 6.85},
		{LoanType: LoanTypeFHA30Year, Rate: 6.95},
		{LoanType: LoanTypeVA30Year, Rate: 6.75},
	}
}
