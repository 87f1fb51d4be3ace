package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"prompt-server/internal/config"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// tokenEncoding - кодировка для оценки токенов, когда провайдер не вернул usage.
const tokenEncoding = "cl100k_base"

func init() {
	// BPE словари встроены в бинарь: оценка токенов не ходит в сеть во время запроса
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

func loadTokenEncoding() (*tiktoken.Tiktoken, error) {
	return tiktoken.GetEncoding(tokenEncoding)
}

// openAIClient реализует AIClient с использованием go-openai.
// По умолчанию ходит в OpenAI-совместимый endpoint Gemini.
type openAIClient struct {
	client  *openaigo.Client
	model   string
	timeout time.Duration
	hasKey  bool
	logger  *zap.Logger

	loadEncoding func() (*tiktoken.Tiktoken, error)
	encOnce      sync.Once
	enc          *tiktoken.Tiktoken
}

func newOpenAIClient(cfg *config.Config, logger *zap.Logger) *openAIClient {
	openaiConfig := openaigo.DefaultConfig(cfg.AIAPIKey)
	// go-openai сам добавляет "/chat/completions"
	openaiConfig.BaseURL = strings.TrimSuffix(cfg.AIBaseURL, "/")
	client := openaigo.NewClientWithConfig(openaiConfig)

	if cfg.AIAPIKey == "" {
		logger.Warn("API key is not configured, every generation request will fail")
	}
	logger.Info("OpenAI client created",
		zap.String("baseURL", openaiConfig.BaseURL),
		zap.String("model", cfg.AIModel),
		zap.Duration("timeout", cfg.AITimeout),
	)

	return &openAIClient{
		client:  client,
		model:   cfg.AIModel,
		timeout: cfg.AITimeout,
		hasKey:  cfg.AIAPIKey != "",
		logger:  logger,

		loadEncoding: loadTokenEncoding,
	}
}

// GenerateText отправляет промт как единственное сообщение пользователя.
func (c *openAIClient) GenerateText(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	model := modelOrDefault(req.Model, c.model)
	log := c.logger.With(zap.String("model", model))

	if !c.hasKey {
		observeFailure(model, "error_missing_key")
		return GenerationResult{}, fmt.Errorf("%w: %w", ErrAIGenerationFailed, ErrMissingAPIKey)
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	startTime := time.Now()
	log.Debug("Sending request to AI API", zap.Int("promptBytes", len(req.Content)))

	resp, err := c.client.CreateChatCompletion(requestCtx, openaigo.ChatCompletionRequest{
		Model: model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleUser, Content: req.Content},
		},
	})
	duration := time.Since(startTime)

	if err != nil {
		wrapped := wrapProviderError(err, c.timeout)
		log.Warn("AI API request failed", zap.Duration("duration", duration), zap.Error(err))
		observeFailure(model, "error")
		return GenerationResult{}, wrapped
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Warn("AI API returned an empty response", zap.Duration("duration", duration))
		observeFailure(model, "error_empty_response")
		return GenerationResult{}, fmt.Errorf("%w: %w", ErrAIGenerationFailed, ErrEmptyResponse)
	}

	text := resp.Choices[0].Message.Content
	usage := UsageInfo{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if usage.TotalTokens == 0 {
		usage = c.estimateUsage(req.Content, text)
	}

	observeSuccess(model, duration, usage)
	log.Info("AI API response received",
		zap.Duration("duration", duration),
		zap.Int("responseLength", len(text)),
		zap.Int("promptTokens", usage.PromptTokens),
		zap.Int("completionTokens", usage.CompletionTokens),
		zap.Bool("usageEstimated", usage.Estimated),
	)

	return GenerationResult{Text: text, Usage: usage}, nil
}

// estimateUsage считает токены локально. Если кодировку загрузить не удалось, возвращает пустой usage.
func (c *openAIClient) estimateUsage(prompt, completion string) UsageInfo {
	c.encOnce.Do(func() {
		enc, err := c.loadEncoding()
		if err != nil {
			c.logger.Warn("Failed to load tiktoken encoding, token usage will not be estimated",
				zap.String("encoding", tokenEncoding), zap.Error(err))
			return
		}
		c.enc = enc
	})
	if c.enc == nil {
		return UsageInfo{}
	}

	promptTokens := len(c.enc.Encode(prompt, nil, nil))
	completionTokens := len(c.enc.Encode(completion, nil, nil))
	return UsageInfo{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Estimated:        true,
	}
}
