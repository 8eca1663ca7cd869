package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"syscall"

	"mortgage-agent/config"
	"mortgage-agent/domain"
)

var (
	ErrChatNotConfigured = errors.New("OpenAI API key is not configured. Please add OPENAI_API_KEY to your .env file.")
	ErrEmptyCompletion   = errors.New("no response from AI")
)

// UpstreamError is a non-2xx answer from the completion API.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

type completionRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
}

// ChatService forwards a conversation to an OpenAI-compatible completion API
// with the mortgage assistant system prompt prepended.
type ChatService struct {
	apiKey      string
	apiURL      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewChatService(cfg config.ChatConfig, logger *slog.Logger) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	model := cfg.Model
	if model == "" {
		model = DefaultChatModel
	}
	return &ChatService{
		apiKey:      cfg.APIKey,
		apiURL:      strings.TrimRight(cfg.APIURL, "/") + chatCompletionPath,
		model:       model,
		temperature: DefaultChatTemperature,
		maxTokens:   DefaultChatMaxTokens,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

func (s *ChatService) Configured() bool {
	return s.apiKey != ""
}

// Complete returns the assistant's reply to messages.
func (s *ChatService) Complete(
	ctx context.Context,
	messages []domain.ChatMessage,
) (domain.ChatReply, error) {
	if !s.Configured() {
		return domain.ChatReply{}, ErrChatNotConfigured
	}

	all := make([]domain.ChatMessage, 0, len(messages)+1)
	all = append(all, domain.ChatMessage{Role: "system", Content: chatSystemPrompt})
	all = append(all, messages...)

	reqBody := completionRequest{
		Model:       s.model,
		Messages:    all,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return domain.ChatReply{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return domain.ChatReply{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.ChatReply{}, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.ChatReply{}, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return domain.ChatReply{}, fmt.Errorf("decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return domain.ChatReply{}, ErrEmptyCompletion
	}

	msg := completion.Choices[0].Message
	s.logger.Debug("chat completion received", "model", s.model, "chars", len(msg.Content))
	return domain.ChatReply{Message: msg.Content, Role: msg.Role}, nil
}

// ClassifyChatError maps a Complete error to a user-facing message. details
// carries the underlying error text.
func ClassifyChatError(err error) (message, details string) {
	if err == nil {
		return "", ""
	}
	return chatErrorMessage(err), err.Error()
}

func chatErrorMessage(err error) string {
	if errors.Is(err, ErrChatNotConfigured) {
		return ErrChatNotConfigured.Error()
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.StatusCode {
		case http.StatusUnauthorized:
			return "Invalid OpenAI API key. Please check your .env file."
		case http.StatusTooManyRequests:
			return "Rate limit exceeded. Please try again in a moment."
		case http.StatusInternalServerError:
			return "OpenAI service error. Please try again later."
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) || errors.Is(err, syscall.ECONNREFUSED) {
		return "Network error. Please check your internet connection."
	}

	return "Failed to get response from AI"
}
