package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"prompt-server/internal/config"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// ollamaClient реализует AIClient с использованием ollama/api
type ollamaClient struct {
	client  *api.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// newOllamaClient создает клиент для локального Ollama (например, http://localhost:11434).
func newOllamaClient(cfg *config.Config, logger *zap.Logger) (*ollamaClient, error) {
	// api.NewClient требует URL без суффикса /v1
	baseURL := strings.TrimSuffix(cfg.AIBaseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/v1")

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга Ollama Base URL '%s': %w", baseURL, err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("ollama base URL must be absolute, got '%s'", baseURL)
	}

	logger.Info("Ollama client created",
		zap.String("baseURL", baseURL),
		zap.String("model", cfg.AIModel),
		zap.Duration("timeout", cfg.AITimeout),
	)

	return &ollamaClient{
		client:  api.NewClient(parsedURL, http.DefaultClient),
		model:   cfg.AIModel,
		timeout: cfg.AITimeout,
		logger:  logger,
	}, nil
}

// GenerateText генерирует текст с использованием Ollama, без стриминга.
func (c *ollamaClient) GenerateText(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	model := modelOrDefault(req.Model, c.model)
	log := c.logger.With(zap.String("model", model))

	stream := false
	chatReq := &api.ChatRequest{
		Model:    model,
		Messages: []api.Message{{Role: "user", Content: req.Content}},
		Stream:   &stream,
	}

	// Контекст с таймаутом, специфичным для этого запроса
	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	startTime := time.Now()
	log.Debug("Sending request to Ollama", zap.Int("promptBytes", len(req.Content)))

	var resp api.ChatResponse
	err := c.client.Chat(requestCtx, chatReq, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	duration := time.Since(startTime)

	if err != nil {
		wrapped := wrapProviderError(err, c.timeout)
		log.Warn("Ollama request failed", zap.Duration("duration", duration), zap.Error(err))
		observeFailure(model, "error")
		return GenerationResult{}, wrapped
	}

	if resp.Message.Content == "" {
		log.Warn("Ollama returned an empty response", zap.Duration("duration", duration))
		observeFailure(model, "error_empty_response")
		return GenerationResult{}, fmt.Errorf("%w: %w", ErrAIGenerationFailed, ErrEmptyResponse)
	}

	usage := UsageInfo{
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
		TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
	}
	observeSuccess(model, duration, usage)
	log.Info("Ollama response received",
		zap.Duration("duration", duration),
		zap.Int("responseLength", len(resp.Message.Content)),
		zap.Int("promptTokens", usage.PromptTokens),
		zap.Int("completionTokens", usage.CompletionTokens),
	)

	return GenerationResult{Text: resp.Message.Content, Usage: usage}, nil
}
