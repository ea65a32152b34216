package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StealthRadar/internal/scanner"
)

// Scan handles POST /api/scan: one synchronous pipeline run.
func (h *Handler) Scan(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.ScanTimeout)
	defer cancel()

	result, err := h.runner.Run(ctx)
	if err != nil {
		if errors.Is(err, scanner.ErrNoSessions) {
			h.handleError(c, err, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.handleError(c, err, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

func (h *Handler) handleError(c *gin.Context, err error, statusCode int, userMessage string) {
	requestID := c.GetString(RequestIDContextKey)
	if requestID == "" {
		requestID = "unknown"
	}

	h.log.Error("API error",
		zap.String("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, gin.H{
		"error":      userMessage,
		"request_id": requestID,
	})
}
