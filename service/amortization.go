package service

import (
	"math"

	"mortgage-agent/domain"
)

// Amortize computes the fixed-rate payment totals for input. It never fails:
// a non-positive principal, rate or term (or a non-finite input) yields the
// zero result. Values are not rounded.
func Amortize(input domain.LoanInput) domain.LoanResult {
	if input.TermYears > math.MaxInt/MonthsPerYear {
		return domain.LoanResult{}
	}

	principal := input.Principal()
	monthlyRate := input.AnnualRatePercent / 100 / MonthsPerYear
	numberOfPayments := input.TermYears * MonthsPerYear

	if !(principal > 0) || !(monthlyRate > 0) || numberOfPayments <= 0 ||
		math.IsInf(principal, 0) || math.IsInf(monthlyRate, 0) {
		return domain.LoanResult{}
	}

	n := float64(numberOfPayments)
	growth := math.Pow(1+monthlyRate, n)
	monthly := principal * monthlyRate * growth / (growth - 1)
	if math.IsNaN(monthly) || math.IsInf(monthly, 0) {
		return domain.LoanResult{}
	}

	total := monthly * n
	return domain.LoanResult{
		MonthlyPayment: monthly,
		TotalPayment:   total,
		TotalInterest:  total - principal,
	}
}
