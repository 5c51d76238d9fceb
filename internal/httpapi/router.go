package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the gin router with logging and recovery middleware.
func NewRouter(logger *zap.Logger, h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	r.GET("/healthz", h.Healthz)

	v1 := r.Group("/v1")
	v1.GET("/state", h.GetState)
	v1.GET("/state/history", h.GetHistory)
	v1.GET("/weights", h.GetWeights)
	v1.GET("/learning", h.GetLearning)
	v1.GET("/thresholds", h.GetThresholds)
	v1.POST("/stimuli", h.PostStimuli)
	v1.POST("/adjustments", h.PostAdjustments)
	v1.POST("/metrics", h.PostMetrics)

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
