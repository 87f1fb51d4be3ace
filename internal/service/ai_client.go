package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"prompt-server/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	// ErrAIGenerationFailed - общая ошибка генерации текста; все ошибки клиента оборачивают ее.
	ErrAIGenerationFailed = errors.New("AI text generation failed")
	// ErrMissingAPIKey - ключ API не настроен, запрос к провайдеру не отправляется.
	ErrMissingAPIKey = errors.New("API key is not configured, set GEMINI_API_KEY")
	// ErrEmptyResponse - провайдер ответил без текста.
	ErrEmptyResponse = errors.New("model returned an empty response")
	// ErrGenerationTimeout - вызов не уложился в AI_TIMEOUT.
	ErrGenerationTimeout = errors.New("request timed out")
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prompt_server_ai_requests_total",
			Help: "Total number of requests to the AI API.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prompt_server_ai_request_duration_seconds",
			Help:    "Histogram of AI API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	aiTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prompt_server_ai_tokens",
			Help:    "Histogram of token counts per request, partitioned by kind (prompt, completion, total).",
			Buckets: prometheus.ExponentialBuckets(16, 2, 12), // 16 .. 32768
		},
		[]string{"model", "kind"},
	)
)

// GenerationRequest - один вызов модели: идентификатор модели и промт пользователя.
type GenerationRequest struct {
	Model   string
	Content string
}

// UsageInfo содержит информацию об использовании токенов.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	// Estimated = true, если провайдер не вернул usage и токены посчитаны локально
	Estimated bool
}

// GenerationResult - успешный ответ модели.
type GenerationResult struct {
	Text  string
	Usage UsageInfo
}

// AIClient интерфейс для взаимодействия с AI API.
type AIClient interface {
	// GenerateText отправляет промт как единственное сообщение пользователя и ждет полный ответ.
	// Вызов выполняется ровно один раз, без повторов.
	GenerateText(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}

// NewAIClient создает клиент в зависимости от AI_CLIENT_TYPE.
func NewAIClient(cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(cfg.AIClientType) {
	case config.AIClientOpenAI:
		return newOpenAIClient(cfg, logger.Named("OpenAIClient")), nil
	case config.AIClientOllama:
		return newOllamaClient(cfg, logger.Named("OllamaClient"))
	default:
		return nil, fmt.Errorf("неизвестный тип AI клиента: '%s'", cfg.AIClientType)
	}
}

// modelOrDefault возвращает модель из запроса или модель клиента.
func modelOrDefault(requested, fallback string) string {
	if m := strings.TrimSpace(requested); m != "" {
		return m
	}
	return fallback
}

// wrapProviderError приводит ошибку провайдера к ErrAIGenerationFailed,
// а истечение таймаута - к ErrGenerationTimeout с указанием лимита.
func wrapProviderError(err error, timeout time.Duration) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %w after %v", ErrAIGenerationFailed, ErrGenerationTimeout, timeout)
	}
	return fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func observeSuccess(model string, duration time.Duration, usage UsageInfo) {
	status := "success"
	if usage.Estimated {
		status = "success_estimated_usage"
	}
	aiRequestsTotal.With(prometheus.Labels{"model": model, "status": status}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": model}).Observe(duration.Seconds())
	if usage.TotalTokens > 0 {
		aiTokens.With(prometheus.Labels{"model": model, "kind": "prompt"}).Observe(float64(usage.PromptTokens))
		aiTokens.With(prometheus.Labels{"model": model, "kind": "completion"}).Observe(float64(usage.CompletionTokens))
		aiTokens.With(prometheus.Labels{"model": model, "kind": "total"}).Observe(float64(usage.TotalTokens))
	}
}

func observeFailure(model, status string) {
	aiRequestsTotal.With(prometheus.Labels{"model": model, "status": status}).Inc()
}
