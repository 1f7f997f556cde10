package api

import (
	"etfreplica/internal/logger"
	"etfreplica/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApiHandler struct {
	BacktestService service.BacktestService
	HasToken        bool
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "etf holdings replication backtester"})
	})
	router.GET("/api/health", m.health)
	router.POST("/api/backtest", m.backtest)
	router.POST("/api/backtest-etf", m.backtestEtf)
	router.POST("/api/backtest-dynamic", m.backtestDynamic)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.InitializeRouterEngine().Run(fmt.Sprintf(":%d", port))
}

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func returnSuccessJson(data any, c *gin.Context) {
	c.JSON(http.StatusOK, successResponse{
		Success: true,
		Data:    data,
	})
}

// errorStatus maps service errors onto HTTP codes. Anything unrecognized is
// a server-side failure.
func errorStatus(err error) int {
	switch {
	case service.IsInvalidInput(err):
		return http.StatusBadRequest
	case service.IsNotFound(err):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func returnErrorJson(summary string, err error, c *gin.Context) {
	returnErrorJsonCode(summary, err, c, errorStatus(err))
}

func returnErrorJsonCode(summary string, err error, c *gin.Context, code int) {
	logger.FromContext(c.Request.Context()).Errorw(summary, "error", err, "status", code)
	c.AbortWithStatusJSON(code, gin.H{
		"error":   summary,
		"message": err.Error(),
	})
}

func (m ApiHandler) logRequestMiddleware(c *gin.Context) {
	requestID := uuid.New().String()
	log := logger.FromContext(c.Request.Context()).With(
		"requestId", requestID,
		"method", c.Request.Method,
		"route", c.Request.URL.Path,
	)
	c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), log))
	c.Header("X-Request-Id", requestID)

	start := time.Now()
	c.Next()

	log.Infow("handled request",
		"status", c.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
		"ip", c.ClientIP(),
	)
}
