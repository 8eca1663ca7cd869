package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mortgage-agent/config"
	"mortgage-agent/domain"
)

// rateFetchState is the outcome of one FetchRates call.
type rateFetchState int

const (
	rateStateUnconfigured rateFetchState = iota
	rateStateFailed
	rateStateSucceeded
)

var rateStateSource = map[rateFetchState]domain.RateSource{
	rateStateUnconfigured: domain.RateSourceFallbackDefault,
	rateStateFailed:       domain.RateSourceErrorFallback,
	rateStateSucceeded:    domain.RateSourceProvider,
}

// providerFields maps each loan type to its field in the provider response.
var providerFields = map[string]string{
	domain.LoanType30YearFixed: "rate_30_year",
	domain.LoanType15YearFixed: "rate_15_year",
	domain.LoanTypeARM51:       "rate_5_1_arm",
	domain.LoanTypeFHA30Year:   "fha_30_year",
	domain.LoanTypeVA30Year:    "va_30_year",
}

// RateService fetches current mortgage rates and falls back to the static
// table when no key is configured or the provider call fails.
type RateService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

func NewRateService(cfg config.RatesConfig, logger *slog.Logger) *RateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateService{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Configured reports whether a provider key is set.
func (s *RateService) Configured() bool {
	return s.apiKey != ""
}

// FetchRates always returns the five canonical quotes. It never fails; the
// Source field records which branch produced the rates.
func (s *RateService) FetchRates(ctx context.Context) domain.RatesResponse {
	state, rates := s.resolve(ctx)
	return domain.RatesResponse{
		Rates:       rates,
		Source:      rateStateSource[state],
		RetrievedAt: s.now().UTC(),
	}
}

func (s *RateService) resolve(ctx context.Context) (rateFetchState, []domain.RateQuote) {
	if !s.Configured() {
		s.logger.Debug("rate provider key not configured, using default rates")
		return rateStateUnconfigured, domain.DefaultRates()
	}

	fields, err := s.fetchProvider(ctx)
	if err != nil {
		s.logger.Error("error fetching mortgage rates", "error", err)
		return rateStateFailed, domain.DefaultRates()
	}

	return rateStateSucceeded, mergeRates(fields, s.logger)
}

// fetchProvider returns the provider's top-level fields undecoded. A valid
// JSON body that is not an object yields no fields.
func (s *RateService) fetchProvider(ctx context.Context) (map[string]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+mortgageRatePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mortgage rates: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("rate provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		s.logger.Warn("rate provider response is not an object", "error", err)
		return map[string]json.RawMessage{}, nil
	}
	return fields, nil
}

// mergeRates overlays live values on the defaults field by field. A value
// counts only when it decodes as a positive number.
func mergeRates(fields map[string]json.RawMessage, logger *slog.Logger) []domain.RateQuote {
	rates := domain.DefaultRates()
	for i, quote := range rates {
		name := providerFields[quote.LoanType]
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var v *float64
		if err := json.Unmarshal(raw, &v); err != nil {
			logger.Warn("ignoring invalid provider rate", "field", name, "error", err)
			continue
		}
		if v != nil && *v > 0 {
			rates[i].Rate = *v
		}
	}
	return rates
}
