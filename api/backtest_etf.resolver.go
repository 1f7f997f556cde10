package api

import (
	"etfreplica/internal/service"
	"etfreplica/internal/util"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type backtestEtfRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Fund      string `json:"fund"`
}

func (h ApiHandler) backtestEtf(c *gin.Context) {
	const summary = "Failed to perform ETF backtest"

	var requestBody backtestEtfRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(summary, fmt.Errorf("failed to read request body: %w", err), c, http.StatusBadRequest)
		return
	}

	start, end, err := util.ParseRange(requestBody.StartDate, requestBody.EndDate)
	if err != nil {
		returnErrorJson(summary, err, c)
		return
	}

	result, err := h.BacktestService.EtfBacktest(c.Request.Context(), service.EtfBacktestInput{
		Fund:  requestBody.Fund,
		Start: start,
		End:   end,
	})
	if err != nil {
		returnErrorJson(summary, err, c)
		return
	}

	returnSuccessJson(newStaticBacktestResponse(result, "etf"), c)
}
