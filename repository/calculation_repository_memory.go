package repository

import (
	"context"
	"sync"

	"mortgage-agent/domain"
)

// DefaultMemoryCalculationLimit caps the in-memory log when no limit is given.
const DefaultMemoryCalculationLimit = 1000

// CalculationRepositoryMemory is an in-memory implementation of CalculationRepository.
// It keeps the most recent records in a fixed-size ring; older records are overwritten.
type CalculationRepositoryMemory struct {
	mu    sync.Mutex
	data  []domain.CalculationRecord
	next  int
	count int
}

// NewCalculationRepositoryMemory creates an in-memory calculation log holding at
// most limit records.
func NewCalculationRepositoryMemory(limit int) *CalculationRepositoryMemory {
	if limit <= 0 {
		limit = DefaultMemoryCalculationLimit
	}
	return &CalculationRepositoryMemory{
		data: make([]domain.CalculationRecord, limit),
	}
}

// Save appends the record, evicting the oldest one when full.
func (r *CalculationRepositoryMemory) Save(
	_ context.Context,
	record domain.CalculationRecord,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[r.next] = record
	r.next = (r.next + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (r *CalculationRepositoryMemory) Recent(
	_ context.Context,
	limit int,
) ([]domain.CalculationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > r.count {
		limit = r.count
	}
	out := make([]domain.CalculationRecord, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + len(r.data)) % len(r.data)
		out = append(out, r.data[idx])
	}
	return out, nil
}

// Len returns the number of records held.
func (r *CalculationRepositoryMemory) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
