package main

import (
	"time"

	"prompt-server/internal/config"
	"prompt-server/internal/handler"
	"prompt-server/internal/service"
	sharedMiddleware "prompt-server/shared/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

// newRouter собирает gin.Engine со всеми middleware и маршрутами.
// Middleware подключаются до регистрации маршрутов: gin применяет Use только к маршрутам, добавленным после него.
func newRouter(cfg *config.Config, aiClient service.AIClient, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(sharedMiddleware.GinZapLogger(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg, logger)))

	if cfg.MetricsEnabled {
		p := ginprometheus.NewPrometheus("gin") // gin_requests_total, gin_request_duration_seconds, ...
		p.Use(router)
	}

	handler.RegisterHealthRoutes(router)
	handler.NewPromptHandler(aiClient, cfg.AIModel, logger).RegisterRoutes(router)
	router.NoRoute(handler.StaticFallback(cfg.StaticDir)...)

	return router
}

func corsConfig(cfg *config.Config, logger *zap.Logger) cors.Config {
	corsCfg := cors.DefaultConfig()
	if origins := cfg.GetAllowedOrigins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		corsCfg.AllowAllOrigins = true
		logger.Info("CORS_ALLOWED_ORIGINS not set, allowing all origins")
	}
	corsCfg.AllowMethods = []string{"GET", "HEAD", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", sharedMiddleware.RequestIDHeader}
	corsCfg.ExposeHeaders = []string{sharedMiddleware.RequestIDHeader}
	corsCfg.MaxAge = 12 * time.Hour
	return corsCfg
}
