package http

import (
	"bytes"
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

func postChat(t *testing.T, svc ChatCompleter, body string) (*httptest.ResponseRecorder, domain.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	NewChatHandler(svc, logging.Discard()).Chat(w, req)

	var errResp domain.ErrorResponse
	if w.Code != http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	}
	return w, errResp
}

func chatService(apiKey, url string) *service.ChatService {
	return service.NewChatService(config.ChatConfig{APIKey: apiKey, APIURL: url, Timeout: 2 * time.Second}, logging.Discard())
}

func TestChatHandler_MissingCredential(t *testing.T) {
	w, errResp := postChat(t, chatService("", "http://127.0.0.1:1"), `{"messages":[{"role":"user","content":"hi"}]}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, errResp.Error, "OPENAI_API_KEY")
}

func TestChatHandler_MalformedRequests(t *testing.T) {
	bodies := map[string]string{
		"not json":          `{messages`,
		"messages string":   `{"messages":"hello"}`,
		"messages object":   `{"messages":{"role":"user"}}`,
		"messages missing":  `{}`,
		"messages null":     `{"messages":null}`,
		"role not accepted": `{"messages":[{"role":"robot","content":"hi"}]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			w, errResp := postChat(t, chatService("sk-test", "http://127.0.0.1:1"), body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid request: messages array required", errResp.Error)
		})
	}
}

func TestChatHandler_OK(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hello!"}}]}`))
	}))
	defer upstream.Close()

	w, _ := postChat(t, chatService("sk-test", upstream.URL), `{"messages":[{"role":"user","content":"hi"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	var reply domain.ChatReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, domain.ChatReply{Message: "Hello!", Role: "assistant"}, reply)
}

func TestChatHandler_UpstreamRateLimited(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer upstream.Close()

	w, errResp := postChat(t, chatService("sk-test", upstream.URL), `{"messages":[{"role":"user","content":"hi"}]}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Rate limit exceeded. Please try again in a moment.", errResp.Error)
	assert.Contains(t, errResp.Details, "429")
	assert.Contains(t, errResp.Details, "slow down")
}

func TestChatHandler_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	w := httptest.NewRecorder()

	NewChatHandler(chatService("sk-test", "http://127.0.0.1:1"), logging.Discard()).Chat(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
