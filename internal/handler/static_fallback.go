package handler

import (
	"net/http"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// StaticFallback возвращает цепочку NoRoute обработчиков: файлы из staticDir
// отдаются только на GET/HEAD, все остальное получает 404.
// Зарегистрированные маршруты (/ и /generate-text) всегда имеют приоритет над файлами.
func StaticFallback(staticDir string) []gin.HandlerFunc {
	if staticDir == "" {
		return []gin.HandlerFunc{notFound}
	}
	return []gin.HandlerFunc{
		readOnlyMethods,
		static.Serve("/", static.LocalFile(staticDir, false)),
		notFound,
	}
}

func readOnlyMethods(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		notFound(c)
		c.Abort()
	}
}

func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
}
