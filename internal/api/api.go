package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StealthRadar/internal/model"
)

const (
	DefaultScanTimeout  = 5 * time.Minute
	ServiceName         = "stealthradar"
	ServiceVersion      = "1.0.0"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
)

// ScanRunner runs one accumulation scan.
type ScanRunner interface {
	Run(ctx context.Context) (*model.ScanResult, error)
}

// Handler serves the scan endpoint over HTTP.
type Handler struct {
	runner      ScanRunner
	metrics     http.Handler
	log         *zap.Logger
	ScanTimeout time.Duration
}

// NewHandler creates a Handler. metricsHandler may be nil.
func NewHandler(runner ScanRunner, metricsHandler http.Handler, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		runner:      runner,
		metrics:     metricsHandler,
		log:         log.With(zap.String("component", "api")),
		ScanTimeout: DefaultScanTimeout,
	}
}

// SetupRoutes configures all API routes.
func (h *Handler) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(h.loggerMiddleware())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/health", h.HealthCheck)
	router.POST("/api/scan", h.Scan)
	router.GET("/api/scan", h.Scan)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}
	return router
}
