package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"mortgage-agent/domain"
	"mortgage-agent/repository"
)

type LoanService struct {
	repo     repository.CalculationRepository
	cache    repository.CacheRepository
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewLoanService creates a LoanService. Cache and repository failures are
// logged and never change a result.
func NewLoanService(
	repo repository.CalculationRepository,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *LoanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// CalculateLoan returns Amortize(input), memoized by the input tuple, and
// appends the calculation to the log.
func (s *LoanService) CalculateLoan(
	ctx context.Context,
	input domain.LoanInput,
) domain.LoanResult {
	key := cacheKey(input)

	result, hit := s.cached(ctx, key)
	if !hit {
		result = Amortize(input)
		s.store(ctx, key, result)
	}

	if s.repo != nil {
		record := domain.NewCalculationRecord(input, result, s.now())
		if err := s.repo.Save(ctx, record); err != nil {
			s.logger.Warn("failed to save loan calculation", "id", record.ID, "error", err)
		}
	}

	return result
}

// RecentCalculations lists the calculation log, newest first.
func (s *LoanService) RecentCalculations(
	ctx context.Context,
	limit int,
) ([]domain.CalculationRecord, error) {
	if s.repo == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultRecentCalculations
	}
	return s.repo.Recent(ctx, limit)
}

func (s *LoanService) cached(ctx context.Context, key string) (domain.LoanResult, bool) {
	if s.cache == nil {
		return domain.LoanResult{}, false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("loan cache read failed", "key", key, "error", err)
		return domain.LoanResult{}, false
	}
	if !ok {
		return domain.LoanResult{}, false
	}
	var result domain.LoanResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.Warn("loan cache entry corrupt", "key", key, "error", err)
		return domain.LoanResult{}, false
	}
	s.logger.Debug("loan cache hit", "key", key)
	return result, true
}

func (s *LoanService) store(ctx context.Context, key string, result domain.LoanResult) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("loan cache marshal failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
		s.logger.Warn("loan cache write failed", "key", key, "error", err)
	}
}

// cacheKey renders the input tuple with the shortest exact float form so
// distinct inputs never share a key.
func cacheKey(input domain.LoanInput) string {
	return fmt.Sprintf("loan:%s:%s:%s:%d",
		strconv.FormatFloat(input.LoanAmount, 'g', -1, 64),
		strconv.FormatFloat(input.DownPayment, 'g', -1, 64),
		strconv.FormatFloat(input.AnnualRatePercent, 'g', -1, 64),
		input.TermYears,
	)
}
