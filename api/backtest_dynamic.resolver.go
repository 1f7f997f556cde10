package api

import (
	"etfreplica/internal/calculator"
	"etfreplica/internal/domain"
	"etfreplica/internal/service"
	"etfreplica/internal/util"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type backtestDynamicRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Fund      string `json:"fund"`
}

type periodChangesJson struct {
	Added        []holdingJson `json:"added"`
	Removed      []holdingJson `json:"removed"`
	Unchanged    int           `json:"unchanged"`
	AddedCount   int           `json:"addedCount"`
	RemovedCount int           `json:"removedCount"`
}

type periodJson struct {
	ReportDate      domain.Date        `json:"reportDate"`
	StartDate       domain.Date        `json:"startDate"`
	EndDate         domain.Date        `json:"endDate"`
	StockCount      int                `json:"stockCount"`
	UsedEqualWeight bool               `json:"usedEqualWeight"`
	AllHoldings     []holdingJson      `json:"allHoldings"`
	TopHoldings     []holdingJson      `json:"topHoldings"`
	Changes         *periodChangesJson `json:"changes"`
}

type dynamicStatisticsJson struct {
	PortfolioReturn  string       `json:"portfolioReturn"`
	EtfReturn        string       `json:"etfReturn"`
	RebalancingCount int          `json:"rebalancingCount"`
	TotalStocks      int          `json:"totalStocks"`
	ValidStocks      int          `json:"validStocks"`
	Metrics          *metricsJson `json:"metrics,omitempty"`
}

type backtestDynamicResponse struct {
	Fund       string                 `json:"fund"`
	Portfolio  []domain.NetValuePoint `json:"portfolio"`
	Etf        []domain.NetValuePoint `json:"etf"`
	Periods    []periodJson           `json:"periods"`
	Statistics dynamicStatisticsJson  `json:"statistics"`
}

func (h ApiHandler) backtestDynamic(c *gin.Context) {
	const summary = "Failed to perform dynamic backtest"

	var requestBody backtestDynamicRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(summary, fmt.Errorf("failed to read request body: %w", err), c, http.StatusBadRequest)
		return
	}

	start, end, err := util.ParseRange(requestBody.StartDate, requestBody.EndDate)
	if err != nil {
		returnErrorJson(summary, err, c)
		return
	}

	result, err := h.BacktestService.DynamicBacktest(c.Request.Context(), service.DynamicBacktestInput{
		Fund:  requestBody.Fund,
		Start: start,
		End:   end,
	})
	if err != nil {
		returnErrorJson(summary, err, c)
		return
	}

	returnSuccessJson(newBacktestDynamicResponse(result), c)
}

func newBacktestDynamicResponse(result *service.DynamicBacktestResult) backtestDynamicResponse {
	periods := make([]periodJson, 0, len(result.Periods))
	for _, p := range result.Periods {
		out := periodJson{
			ReportDate:      p.Period.ReportDate,
			StartDate:       p.Period.ActiveStart,
			EndDate:         p.Period.ActiveEnd,
			StockCount:      len(p.Period.Symbols),
			UsedEqualWeight: p.Period.UsedEqualWeight,
			AllHoldings:     rankedHoldingsJson(p.Holdings),
			TopHoldings:     rankedHoldingsJson(calculator.TopN(p.Holdings, service.TopHoldingsCount)),
		}
		if p.Changes != nil {
			out.Changes = &periodChangesJson{
				Added:        weightedSymbolsJson(p.Changes.Added, result.Names),
				Removed:      weightedSymbolsJson(p.Changes.Removed, result.Names),
				Unchanged:    p.Changes.UnchangedCount,
				AddedCount:   p.Changes.AddedCount(),
				RemovedCount: p.Changes.RemovedCount(),
			}
		}
		periods = append(periods, out)
	}

	return backtestDynamicResponse{
		Fund:      result.Fund,
		Portfolio: nonNilPoints(result.Portfolio),
		Etf:       nonNilPoints(result.Benchmark),
		Periods:   periods,
		Statistics: dynamicStatisticsJson{
			PortfolioReturn:  result.Statistics.PortfolioReturn.StringFixed(2),
			EtfReturn:        result.Statistics.BenchmarkReturn.StringFixed(2),
			RebalancingCount: result.Statistics.RebalancingCount,
			TotalStocks:      result.Statistics.TotalStocks,
			ValidStocks:      result.Statistics.ValidStocks,
			Metrics:          newMetricsJson(result.Statistics.Metrics),
		},
	}
}

func weightedSymbolsJson(in []domain.WeightedSymbol, names map[string]string) []holdingJson {
	out := make([]holdingJson, 0, len(in))
	for _, w := range in {
		out = append(out, holdingJson{
			Code:      w.Symbol,
			Name:      orDefault(names[w.Symbol], w.Symbol),
			Weight:    formatPercent(w.Weight),
			WeightNum: w.Weight,
		})
	}
	return out
}
