package domain

import "github.com/shopspring/decimal"

// LoanDisplay is a LoanResult rounded to cents for presentation.
type LoanDisplay struct {
	MonthlyPayment string `json:"monthlyPayment"`
	TotalPayment   string `json:"totalPayment"`
	TotalInterest  string `json:"totalInterest"`
}

// Display rounds each amount half away from zero to two decimals.
func (r LoanResult) Display() LoanDisplay {
	return LoanDisplay{
		MonthlyPayment: Cents(r.MonthlyPayment),
		TotalPayment:   Cents(r.TotalPayment),
		TotalInterest:  Cents(r.TotalInterest),
	}
}

func Cents(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
