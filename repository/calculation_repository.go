package repository

import (
	"context"

	"mortgage-agent/domain"
)

// CalculationRepository is the calculation log.
type CalculationRepository interface {
	Save(ctx context.Context, record domain.CalculationRecord) error
	Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error)
}
