// Package httpapi exposes the engine to external collaborators: detectors
// push stimuli and metric samples, the reflection process pushes weight
// adjustments, and dashboards read state, thresholds, and learning reports.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/solien-labs/affective-state/internal/affect"
	"github.com/solien-labs/affective-state/internal/engine"
	"github.com/solien-labs/affective-state/internal/stimulus"
	"github.com/solien-labs/affective-state/internal/weights"
)

// #region handlers

// Handlers holds the HTTP endpoint dependencies.
type Handlers struct {
	logger *zap.Logger
	eng    *engine.Engine
}

// NewHandlers creates the handler set.
func NewHandlers(logger *zap.Logger, eng *engine.Engine) *Handlers {
	return &Handlers{logger: logger, eng: eng}
}

// #endregion handlers

// #region reads

// Healthz handles GET /healthz.
func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetState handles GET /v1/state.
func (h *Handlers) GetState(c *gin.Context) {
	st, err := h.eng.State()
	if err != nil {
		h.logger.Error("read state failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read state"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// GetHistory handles GET /v1/state/history.
func (h *Handlers) GetHistory(c *gin.Context) {
	limit := 24
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	states, err := h.eng.History(limit)
	if err != nil {
		h.logger.Error("read history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"states": states})
}

// GetWeights handles GET /v1/weights.
func (h *Handlers) GetWeights(c *gin.Context) {
	bank, err := h.eng.Bank()
	if err != nil {
		h.logger.Error("read bank failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read weights"})
		return
	}
	c.JSON(http.StatusOK, bank)
}

// GetLearning handles GET /v1/learning.
func (h *Handlers) GetLearning(c *gin.Context) {
	rep, err := h.eng.LearningReport()
	if err != nil {
		h.logger.Error("learning report failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute learning report"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GetThresholds handles GET /v1/thresholds.
func (h *Handlers) GetThresholds(c *gin.Context) {
	ths, err := h.eng.Thresholds()
	if err != nil {
		h.logger.Error("thresholds failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute thresholds"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"thresholds": ths})
}

// #endregion reads

// #region ingest

// PostStimuli handles POST /v1/stimuli. Stimuli carrying an unknown weight
// category are accepted unweighted; an unknown emotion or negative
// intensity rejects the whole batch as a caller bug.
func (h *Handlers) PostStimuli(c *gin.Context) {
	var req struct {
		Stimuli []affect.Stimulus `json:"stimuli" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid stimuli request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	for i, st := range req.Stimuli {
		if !affect.Valid(st.Emotion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown emotion", "index": i})
			return
		}
		if st.Intensity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "negative intensity", "index": i})
			return
		}
	}

	h.eng.QueueStimuli(req.Stimuli)
	c.JSON(http.StatusAccepted, gin.H{"queued": len(req.Stimuli)})
}

// PostAdjustments handles POST /v1/adjustments. Items naming an unknown
// category are rejected per-item; the rest are queued for the end of the
// next cycle.
func (h *Handlers) PostAdjustments(c *gin.Context) {
	var req struct {
		Adjustments []weights.Adjustment `json:"adjustments" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid adjustments request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var accepted []weights.Adjustment
	var rejected []gin.H
	for i, adj := range req.Adjustments {
		switch {
		case !stimulus.Known(adj.Category):
			rejected = append(rejected, gin.H{"index": i, "error": "unknown category"})
		case adj.Delta == nil && adj.Target == nil:
			rejected = append(rejected, gin.H{"index": i, "error": "neither delta nor target"})
		default:
			accepted = append(accepted, adj)
		}
	}

	h.eng.QueueAdjustments(accepted)
	c.JSON(http.StatusAccepted, gin.H{"queued": len(accepted), "rejected": rejected})
}

// PostMetrics handles POST /v1/metrics.
func (h *Handlers) PostMetrics(c *gin.Context) {
	var req struct {
		Samples []engine.MetricSample `json:"samples" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid metrics request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	h.eng.QueueMetrics(req.Samples)
	c.JSON(http.StatusAccepted, gin.H{"queued": len(req.Samples)})
}

// #endregion ingest
