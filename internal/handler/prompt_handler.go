package handler

import (
	"context"
	"net/http"

	"prompt-server/internal/model"
	"prompt-server/internal/service"
	"prompt-server/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	promptFormField = "prompt"
	htmlContentType = "text/html; charset=utf-8"
)

// PromptHandler обслуживает страницу с формой и отправку промта модели.
// Не хранит состояние между запросами: клиент и модель задаются один раз при создании.
type PromptHandler struct {
	logger   *zap.Logger
	aiClient service.AIClient
	aiModel  string
}

func NewPromptHandler(aiClient service.AIClient, aiModel string, logger *zap.Logger) *PromptHandler {
	if aiClient == nil {
		logger.Fatal("AIClient is nil during PromptHandler initialization")
	}
	return &PromptHandler{
		logger:   logger.Named("PromptHandler"),
		aiClient: aiClient,
		aiModel:  aiModel,
	}
}

func (h *PromptHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/", h.handleIndex)
	router.POST(web.GenerateTextPath, h.handleGenerateText)
}

func (h *PromptHandler) handleIndex(c *gin.Context) {
	h.render(c, model.NotRequestedOutcome())
}

// handleGenerateText всегда отвечает 200: ошибки показываются на странице, а не статусом.
func (h *PromptHandler) handleGenerateText(c *gin.Context) {
	prompt := c.PostForm(promptFormField)
	outcome := h.generate(c.Request.Context(), prompt)
	generationOutcomesTotal.WithLabelValues(outcome.Kind().String()).Inc()
	h.render(c, outcome)
}

// generate выполняет ровно один вызов модели для непустого промта.
func (h *PromptHandler) generate(ctx context.Context, prompt string) model.Outcome {
	if prompt == "" {
		return model.MissingPromptOutcome()
	}

	res, err := h.aiClient.GenerateText(ctx, service.GenerationRequest{
		Model:   h.aiModel,
		Content: prompt,
	})
	if err != nil {
		h.logger.Error("Error calling Gemini API",
			zap.String("model", h.aiModel),
			zap.Int("promptLen", len(prompt)),
			zap.Error(err),
		)
		return model.FailureOutcome(err.Error())
	}
	return model.SuccessOutcome(res.Text)
}

func (h *PromptHandler) render(c *gin.Context, outcome model.Outcome) {
	c.Data(http.StatusOK, htmlContentType, []byte(web.Render(outcome)))
}
