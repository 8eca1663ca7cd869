package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortgage-agent/config"
	"mortgage-agent/domain"
	"mortgage-agent/logging"
	"mortgage-agent/service"
)

func getRates(t *testing.T, svc RateFetcher) domain.RatesResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/rates", nil)
	w := httptest.NewRecorder()

	NewRatesHandler(svc).GetRates(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp domain.RatesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRates_AlwaysOK(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rate_30_year": 6.4}`))
	}))
	defer up.Close()

	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	tests := []struct {
		name   string
		cfg    config.RatesConfig
		source domain.RateSource
	}{
		{"unconfigured", config.RatesConfig{APIURL: up.URL}, domain.RateSourceFallbackDefault},
		{"unreachable", config.RatesConfig{APIKey: "k", APIURL: downURL}, domain.RateSourceErrorFallback},
		{"provider", config.RatesConfig{APIKey: "k", APIURL: up.URL}, domain.RateSourceProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Timeout = 2 * time.Second
			resp := getRates(t, service.NewRateService(tt.cfg, logging.Discard()))

			assert.Equal(t, tt.source, resp.Source)
			assert.Len(t, resp.Rates, 5)
			assert.False(t, resp.RetrievedAt.IsZero())
		})
	}
}

func TestGetRates_JSONShape(t *testing.T) {
	svc := service.NewRateService(config.RatesConfig{}, logging.Discard())
	req := httptest.NewRequest(http.MethodGet, "/rates", nil)
	w := httptest.NewRecorder()

	NewRatesHandler(svc).GetRates(w, req)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, "fallback-default", raw["source"])
	assert.Contains(t, raw, "retrievedAt")
	first := raw["rates"].([]any)[0].(map[string]any)
	assert.Equal(t, "30-Year Fixed", first["loanType"])
	assert.InDelta(t, 7.12, first["rate"], 1e-9)
}

func TestGetRates_MethodNotAllowed(t *testing.T) {
	svc := service.NewRateService(config.RatesConfig{}, logging.Discard())
	req := httptest.NewRequest(http.MethodPost, "/rates", nil)
	w := httptest.NewRecorder()

	NewRatesHandler(svc).GetRates(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
