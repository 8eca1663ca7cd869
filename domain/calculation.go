package domain

import (
	"time"

	"github.com/google/uuid"
)

// CalculationRecord is one entry of the calculation log.
type CalculationRecord struct {
	ID        uuid.UUID  `json:"id"`
	Input     LoanInput  `json:"input"`
	Result    LoanResult `json:"result"`
	CreatedAt time.Time  `json:"createdAt"`
}

func NewCalculationRecord(input LoanInput, result LoanResult, now time.Time) CalculationRecord {
	return CalculationRecord{
		ID:        uuid.New(),
		Input:     input,
		Result:    result,
		CreatedAt: now.UTC(),
	}
}
