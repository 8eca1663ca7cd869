package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"mortgage-agent/domain"
	"mortgage-agent/service"
)

const invalidChatRequest = "Invalid request: messages array required"

type ChatCompleter interface {
	Configured() bool
	Complete(ctx context.Context, messages []domain.ChatMessage) (domain.ChatReply, error)
}

type ChatHandler struct {
	service  ChatCompleter
	validate *validator.Validate
	logger   *slog.Logger
}

func NewChatHandler(service ChatCompleter, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.service.Configured() {
		h.logger.Error("OPENAI_API_KEY is not configured")
		writeError(w, http.StatusInternalServerError, service.ErrChatNotConfigured.Error(), "")
		return
	}

	var req domain.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, invalidChatRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, invalidChatRequest, err.Error())
		return
	}

	reply, err := h.service.Complete(r.Context(), req.Messages)
	if err != nil {
		h.logger.Error("OpenAI API error", "error", err)
		message, details := service.ClassifyChatError(err)
		writeError(w, http.StatusInternalServerError, message, details)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}
