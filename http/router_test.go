package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortgage-agent/config"
	"mortgage-agent/logging"
	"mortgage-agent/service"
)

func newTestLimiter(t *testing.T, capacity int) *RateLimiter {
	t.Helper()
	rl, err := NewRateLimiter(capacity, time.Hour, "@every 1h")
	require.NoError(t, err)
	t.Cleanup(rl.Stop)
	return rl
}

func newTestRouter(t *testing.T, calcCapacity, chatCapacity int) http.Handler {
	t.Helper()
	return NewRouter(RouterDeps{
		Loans:       newLoanService(),
		Rates:       service.NewRateService(config.RatesConfig{}, logging.Discard()),
		Chat:        chatService("", ""),
		CalcLimiter: newTestLimiter(t, calcCapacity),
		ChatLimiter: newTestLimiter(t, chatCapacity),
		Logger:      logging.Discard(),
	})
}

func TestRouter_RatesNotRateLimited(t *testing.T) {
	router := newTestRouter(t, 1, 1)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rates", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRouter_CalculateRateLimited(t *testing.T) {
	router := newTestRouter(t, 1, 5)
	body := `{"loanAmount":100000,"annualRatePercent":5,"termYears":30}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/loan/calculate", bytes.NewBufferString(body)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/loan/calculate", bytes.NewBufferString(body)))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRouter_RequestID(t *testing.T) {
	router := newTestRouter(t, 5, 5)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", id)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get("X-Request-ID"))
}

func TestRouter_ChatWithoutKey(t *testing.T) {
	router := newTestRouter(t, 5, 5)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"messages":[]}`)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter_CalculateBudgetSeparateFromChat(t *testing.T) {
	router := newTestRouter(t, 50, 1)
	body := `{"loanAmount":100000,"annualRatePercent":5,"termYears":30}`

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"messages":[]}`)))
		if i == 1 {
			assert.Equal(t, http.StatusTooManyRequests, w.Code)
		}
	}

	for i := 0; i < 40; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/loan/calculate", bytes.NewBufferString(body)))
		require.Equal(t, http.StatusOK, w.Code, "keystroke %d", i)
	}
}
