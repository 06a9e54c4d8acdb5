package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visit-translator/internal/metrics"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	m *metrics.Metrics,
	h *Handlers,
	chatH *ChatHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y metricas.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), metricsMiddleware(m))

	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("", jsonContentTypeMiddleware())
	api.GET("/healthz", h.Health)
	api.POST("/translate", h.Translate)
	api.POST("/summary", h.Summary)

	conversations := api.Group("/conversations")
	conversations.GET("", chatH.ListConversations)
	conversations.POST("", chatH.CreateConversation)
	conversations.GET("/:id", chatH.GetConversation)
	conversations.POST("/:id/messages", chatH.PostMessage)
	conversations.POST("/:id/summary", chatH.GenerateSummary)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// metricsMiddleware registra peticiones por ruta (no por path concreto).
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
