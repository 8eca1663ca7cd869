package domain

// LoanInput is what a caller collects from the user for one calculation.
type LoanInput struct {
	LoanAmount        float64 `json:"loanAmount"`
	DownPayment       float64 `json:"downPayment"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TermYears         int     `json:"termYears"`
}

// Principal is the financed amount.
func (in LoanInput) Principal() float64 {
	return in.LoanAmount - in.DownPayment
}

type LoanResult struct {
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPayment   float64 `json:"totalPayment"`
	TotalInterest  float64 `json:"totalInterest"`
}

// IsZero reports whether the result is the degenerate-input result.
func (r LoanResult) IsZero() bool {
	return r == LoanResult{}
}
