package api

import (
	"errors"
	"etfreplica/internal/service"
	"etfreplica/internal/util"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type backtestRequest struct {
	StockCodes []string `json:"stockCodes"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	// benchmark fund, defaults to the configured one
	Fund string `json:"fund"`
}

// backtest runs an equal weight basket of caller-chosen stocks.
func (h ApiHandler) backtest(c *gin.Context) {
	const summary = "Failed to perform backtest"

	var requestBody backtestRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(summary, fmt.Errorf("failed to read request body: %w", err), c, http.StatusBadRequest)
		return
	}
	if len(requestBody.StockCodes) == 0 {
		returnErrorJsonCode("Stock codes are required", errors.New("stockCodes must be a non-empty list"), c, http.StatusBadRequest)
		return
	}

	start, end, err := util.ParseRange(requestBody.StartDate, requestBody.EndDate)
	if err != nil {
		returnErrorJson(summary, err, c)
		return
	}

	result, err := h.BacktestService.CustomBacktest(c.Request.Context(), service.CustomBacktestInput{
		Symbols:   requestBody.StockCodes,
		Benchmark: requestBody.Fund,
		Start:     start,
		End:       end,
	})
	if err != nil {
		returnErrorJson(summary, err, c)
		return
	}

	returnSuccessJson(newStaticBacktestResponse(result, "equal"), c)
}
